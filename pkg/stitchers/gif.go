// Package stitchers writes processed frame sequences to animation files.
package stitchers

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"github.com/michaelmcallister/giftext/pkg/frames"
)

// GifStitcher encodes sequences as animated GIFs.
type GifStitcher struct{}

func NewGifStitcher() *GifStitcher { return &GifStitcher{} }

// Encode converts seq into a gif.GIF. Frames that were not quantized are
// mapped onto the Plan9 palette.
func (*GifStitcher) Encode(seq *frames.Sequence) *gif.GIF {
	out := &gif.GIF{
		LoopCount:       seq.LoopCount,
		BackgroundIndex: seq.BackgroundIndex,
		Config:          image.Config{Width: seq.Width, Height: seq.Height},
	}
	for _, f := range seq.Frames {
		pm, ok := f.Raster.Paletted()
		if !ok {
			bounds := f.Raster.Bounds()
			pm = image.NewPaletted(bounds, palette.Plan9)
			draw.Draw(pm, pm.Rect, f.Raster.Image(), bounds.Min, draw.Over)
		}
		out.Image = append(out.Image, pm)
		out.Delay = append(out.Delay, f.DelayCentisecs)
		out.Disposal = append(out.Disposal, byte(f.Disposal))
	}
	return out
}

// Stitch will write the sequence to the filename in GIF format.
func (s *GifStitcher) Stitch(seq *frames.Sequence, filename string) error {
	return AtomicWrite(filename, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := gif.EncodeAll(f, s.Encode(seq)); err != nil {
			return err
		}
		if err := f.Sync(); err != nil {
			return err
		}
		return f.Close()
	})
}
