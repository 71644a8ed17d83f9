// Package frames holds the in-memory model of an animated image: an ordered
// sequence of rasters with their playback metadata.
package frames

import (
	"image"
	"image/color"
	"image/draw"
)

// Disposal mirrors the GIF disposal method byte.
type Disposal byte

const (
	DisposalUnspecified Disposal = 0
	DisposalNone        Disposal = 1
	DisposalBackground  Disposal = 2
	DisposalPrevious    Disposal = 3
)

// Raster is an owned pixel buffer. It is either a mutable RGBA buffer
// (decoded and being drawn on) or a paletted buffer (quantized, ready to
// encode).
type Raster struct {
	img draw.Image
}

// NewRaster allocates a transparent RGBA raster covering r.
func NewRaster(r image.Rectangle) *Raster {
	return &Raster{img: image.NewRGBA(r)}
}

// FromImage copies m into a new RGBA raster with the same bounds.
func FromImage(m image.Image) *Raster {
	b := m.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, m, b.Min, draw.Src)
	return &Raster{img: rgba}
}

// FromPaletted wraps p without copying.
func FromPaletted(p *image.Paletted) *Raster {
	return &Raster{img: p}
}

func (r *Raster) Bounds() image.Rectangle { return r.img.Bounds() }
func (r *Raster) Width() int              { return r.img.Bounds().Dx() }
func (r *Raster) Height() int             { return r.img.Bounds().Dy() }
func (r *Raster) At(x, y int) color.Color { return r.img.At(x, y) }

// Canvas is the drawing target for the raster's pixels.
func (r *Raster) Canvas() draw.Image { return r.img }

// Image exposes the raster read-only.
func (r *Raster) Image() image.Image { return r.img }

// Paletted reports the paletted buffer if the raster has been quantized.
func (r *Raster) Paletted() (*image.Paletted, bool) {
	p, ok := r.img.(*image.Paletted)
	return p, ok
}

// Clone returns a deep RGBA copy, leaving r untouched.
func (r *Raster) Clone() *Raster {
	return FromImage(r.img)
}

// Frame is one step of the animation.
type Frame struct {
	Raster         *Raster
	Disposal       Disposal
	DelayCentisecs int
}

// Sequence is an ordered list of frames plus the container level fields that
// must survive a decode/encode round trip.
type Sequence struct {
	Width, Height   int
	LoopCount       int
	BackgroundIndex byte
	Frames          []Frame
}

// WithFrames returns a copy of s's header holding fs.
func (s *Sequence) WithFrames(fs []Frame) *Sequence {
	out := *s
	out.Frames = fs
	return &out
}

// Flatten plays the sequence back onto a full canvas and returns one
// snapshot per frame, applying each frame's disposal method. Video
// encoders need whole canvases rather than GIF sub-rectangles.
func (s *Sequence) Flatten() []*image.RGBA {
	bounds := image.Rect(0, 0, s.Width, s.Height)
	canvas := image.NewRGBA(bounds)
	out := make([]*image.RGBA, 0, len(s.Frames))
	for _, f := range s.Frames {
		var saved *image.RGBA
		if f.Disposal == DisposalPrevious {
			saved = cloneRGBA(canvas)
		}
		fb := f.Raster.Bounds()
		draw.Draw(canvas, fb, f.Raster.Image(), fb.Min, draw.Over)
		out = append(out, cloneRGBA(canvas))

		switch f.Disposal {
		case DisposalBackground:
			draw.Draw(canvas, fb, image.Transparent, image.Point{}, draw.Src)
		case DisposalPrevious:
			canvas = saved
		}
	}
	return out
}

// MeanDelay is the average frame delay in centiseconds, 0 for an empty
// sequence.
func (s *Sequence) MeanDelay() float64 {
	if len(s.Frames) == 0 {
		return 0
	}
	total := 0
	for _, f := range s.Frames {
		total += f.DelayCentisecs
	}
	return float64(total) / float64(len(s.Frames))
}

// FPS derives a frame rate from the mean delay. Zero delays are treated as
// the 10cs browsers substitute for them.
func (s *Sequence) FPS() float64 {
	d := s.MeanDelay()
	if d <= 0 {
		d = 10
	}
	return 100 / d
}

func cloneRGBA(m *image.RGBA) *image.RGBA {
	c := *m
	c.Pix = make([]uint8, len(m.Pix))
	copy(c.Pix, m.Pix)
	return &c
}
