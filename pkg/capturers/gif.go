// Package capturers obtains frame sequences from source identifiers.
package capturers

import (
	"context"
	"fmt"
	"image/gif"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/michaelmcallister/giftext/pkg/frames"
)

// GifCapturer decodes animated GIFs from a file path or an http(s) URL.
type GifCapturer struct {
	client *http.Client
}

// NewGifCapturer returns a capturer whose remote fetches time out after
// timeout. A zero timeout means no limit.
func NewGifCapturer(timeout time.Duration) *GifCapturer {
	return &GifCapturer{client: &http.Client{Timeout: timeout}}
}

// IsRemote reports whether src should be fetched over HTTP.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load reads every frame of src.
func (g *GifCapturer) Load(ctx context.Context, src string) (*frames.Sequence, error) {
	rc, err := g.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Decode(rc)
}

func (g *GifCapturer) open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !IsRemote(src) {
		return os.Open(src)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", src, resp.Status)
	}
	return resp.Body, nil
}

// Decode reads a GIF stream into a sequence. Frames keep their own bounds,
// which may be a sub-rectangle of the logical screen.
func Decode(r io.Reader) (*frames.Sequence, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	seq := &frames.Sequence{
		Width:           g.Config.Width,
		Height:          g.Config.Height,
		LoopCount:       g.LoopCount,
		BackgroundIndex: g.BackgroundIndex,
		Frames:          make([]frames.Frame, 0, len(g.Image)),
	}
	for i, m := range g.Image {
		f := frames.Frame{Raster: frames.FromImage(m)}
		if i < len(g.Delay) {
			f.DelayCentisecs = g.Delay[i]
		}
		if i < len(g.Disposal) {
			f.Disposal = frames.Disposal(g.Disposal[i])
		}
		seq.Frames = append(seq.Frames, f)
	}
	return seq, nil
}
