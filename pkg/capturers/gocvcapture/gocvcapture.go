package gocvcapture

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"github.com/michaelmcallister/giftext/pkg/frames"
	"github.com/michaelmcallister/giftext/pkg/stitchers"
)

const videoCodec = "MJPG"

// VideoExtensions are the container formats handled through OpenCV.
var VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

// IsVideo reports whether name has one of VideoExtensions.
func IsVideo(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, v := range VideoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// GocvCapturer reads video files into frame sequences and writes sequences
// back out as video.
type GocvCapturer struct {
	codec string
}

// New returns a capturer that writes with the MJPG codec.
func New() *GocvCapturer {
	return &GocvCapturer{codec: videoCodec}
}

// Load decodes every frame of the video at src. Frame delays are derived
// from the stream's frame rate.
func (g *GocvCapturer) Load(ctx context.Context, src string) (*frames.Sequence, error) {
	vc, err := gocv.VideoCaptureFile(src)
	if err != nil {
		return nil, fmt.Errorf("unable to open video %s: %w", src, err)
	}
	defer vc.Close()

	delay := delayFor(vc.Get(gocv.VideoCaptureFPS))

	img := gocv.NewMat()
	defer img.Close()

	seq := &frames.Sequence{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ok := vc.Read(&img); !ok {
			break
		}
		if img.Empty() {
			continue
		}
		m, err := img.ToImage()
		if err != nil {
			return nil, fmt.Errorf("frame %d of %s: %w", len(seq.Frames), src, err)
		}
		if len(seq.Frames) == 0 {
			seq.Width, seq.Height = m.Bounds().Dx(), m.Bounds().Dy()
		}
		seq.Frames = append(seq.Frames, frames.Frame{
			Raster:         frames.FromImage(m),
			DelayCentisecs: delay,
		})
	}
	if len(seq.Frames) == 0 {
		return nil, fmt.Errorf("no frames in %s", src)
	}
	return seq, nil
}

func delayFor(fps float64) int {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 10
	}
	return int(math.Round(100 / fps))
}

// Stitch writes the flattened sequence as a video to filename.
func (g *GocvCapturer) Stitch(seq *frames.Sequence, filename string) error {
	return stitchers.AtomicWrite(filename, func(tmp string) error {
		return g.write(seq, tmp)
	})
}

func (g *GocvCapturer) write(seq *frames.Sequence, filename string) error {
	vwr, err := gocv.VideoWriterFile(filename, g.codec, seq.FPS(), seq.Width, seq.Height, true)
	if err != nil {
		return err
	}
	defer vwr.Close()

	for i, f := range seq.Flatten() {
		m, err := gocv.ImageToMatRGB(f)
		if err != nil {
			return err
		}
		if m.Empty() {
			m.Close()
			return fmt.Errorf("unable to convert frame %d", i)
		}
		if !vwr.IsOpened() {
			m.Close()
			return errors.New("not ready to be written to")
		}
		err = vwr.Write(m)
		m.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
