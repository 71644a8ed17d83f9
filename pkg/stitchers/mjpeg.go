package stitchers

import (
	"bytes"
	"image/jpeg"
	"math"

	"github.com/icza/mjpeg"

	"github.com/michaelmcallister/giftext/pkg/frames"
)

// MJPEGStitcher writes sequences as MJPEG AVI files.
type MJPEGStitcher struct {
	quality int
}

// NewMJPEGStitcher returns a stitcher encoding each frame at the given JPEG
// quality (1-100, 0 for the encoder default).
func NewMJPEGStitcher(quality int) *MJPEGStitcher {
	return &MJPEGStitcher{quality: quality}
}

// Stitch flattens the sequence and saves it at filename. The frame rate is
// derived from the mean frame delay.
func (m *MJPEGStitcher) Stitch(seq *frames.Sequence, filename string) error {
	return AtomicWrite(filename, func(tmp string) error {
		return m.write(seq, tmp)
	})
}

func (m *MJPEGStitcher) write(seq *frames.Sequence, filename string) error {
	fps := int32(math.Max(1, math.Round(seq.FPS())))
	aw, err := mjpeg.New(filename, int32(seq.Width), int32(seq.Height), fps)
	if err != nil {
		return err
	}

	var opts *jpeg.Options
	if m.quality > 0 {
		opts = &jpeg.Options{Quality: m.quality}
	}
	for _, img := range seq.Flatten() {
		buf := &bytes.Buffer{}
		if err := jpeg.Encode(buf, img, opts); err != nil {
			aw.Close()
			return err
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			aw.Close()
			return err
		}
	}
	return aw.Close()
}
