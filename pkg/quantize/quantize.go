// Package quantize reduces composited frames to a palette small enough for
// the GIF color table.
package quantize

import (
	"image"
	"image/color"
	"image/draw"

	mediancut "github.com/ericpauley/go-quantize/quantize"

	"github.com/michaelmcallister/giftext/pkg/frames"
)

// MaxColors is the GIF color table limit.
const MaxColors = 256

// Quantizer builds a median cut palette per frame.
type Quantizer struct {
	MaxColors int
	// Dither enables Floyd-Steinberg error diffusion when mapping pixels.
	Dither bool
}

// New returns a Quantizer capped at maxColors, clamped to 2..256.
func New(maxColors int, dither bool) *Quantizer {
	if maxColors > MaxColors || maxColors <= 0 {
		maxColors = MaxColors
	}
	if maxColors < 2 {
		maxColors = 2
	}
	return &Quantizer{MaxColors: maxColors, Dither: dither}
}

// Frame returns a paletted copy of f. Disposal and delay are carried over
// unchanged.
func (q *Quantizer) Frame(f frames.Frame) frames.Frame {
	return frames.Frame{
		Raster:         frames.FromPaletted(q.Paletted(f.Raster.Image())),
		Disposal:       f.Disposal,
		DelayCentisecs: f.DelayCentisecs,
	}
}

// alphaCutoff is the 8-bit alpha below which a pixel becomes fully
// transparent. GIF has one transparent index and no partial alpha.
const alphaCutoff = 0x80

// Paletted maps m onto a palette of at most MaxColors entries. Alpha is
// snapped first, so every entry is either opaque or the single fully
// transparent one.
func (q *Quantizer) Paletted(m image.Image) *image.Paletted {
	b := m.Bounds()
	src, transparent := snapAlpha(m)
	mq := mediancut.MedianCutQuantizer{
		AddTransparent: transparent,
		Weighting:      opaqueOnly,
	}
	pal := mq.Quantize(make(color.Palette, 0, q.MaxColors), src)
	if len(pal) == 0 {
		pal = color.Palette{color.Black}
	}

	pm := image.NewPaletted(b, pal)
	var d draw.Drawer = draw.Src
	if q.Dither {
		d = draw.FloydSteinberg
	}
	d.Draw(pm, b, src, b.Min)
	return pm
}

// snapAlpha returns a copy of m where each pixel is either fully transparent
// or opaque with its straight (un-premultiplied) color. It reports whether any
// pixel ended up transparent.
func snapAlpha(m image.Image) (*image.RGBA, bool) {
	b := m.Bounds()
	out := image.NewRGBA(b)
	transparent := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if c.A < alphaCutoff {
				transparent = true
				continue
			}
			out.SetRGBA(x, y, color.RGBA{c.R, c.G, c.B, 0xFF})
		}
	}
	return out, transparent
}

// opaqueOnly keeps transparent pixels out of the color histogram.
func opaqueOnly(m image.Image, x, y int) uint32 {
	if _, _, _, a := m.At(x, y).RGBA(); a == 0 {
		return 0
	}
	return 1
}
