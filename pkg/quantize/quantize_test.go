package quantize

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelmcallister/giftext/pkg/frames"
)

// gradient has far more than 256 distinct colors.
func gradient(r image.Rectangle) *image.RGBA {
	m := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), uint8(x + y), 0xFF})
		}
	}
	return m
}

func TestFrameKeepsMetadata(t *testing.T) {
	q := New(MaxColors, false)
	in := frames.Frame{
		Raster:         frames.FromImage(gradient(image.Rect(5, 5, 69, 69))),
		Disposal:       frames.DisposalPrevious,
		DelayCentisecs: 42,
	}
	out := q.Frame(in)

	assert.Equal(t, frames.DisposalPrevious, out.Disposal)
	assert.Equal(t, 42, out.DelayCentisecs)
	assert.Equal(t, in.Raster.Bounds(), out.Raster.Bounds())

	pm, ok := out.Raster.Paletted()
	require.True(t, ok)
	assert.LessOrEqual(t, len(pm.Palette), MaxColors)
	assert.NotEmpty(t, pm.Palette)
}

func TestPalettedRespectsMaxColors(t *testing.T) {
	for _, dither := range []bool{false, true} {
		pm := New(16, dither).Paletted(gradient(image.Rect(0, 0, 64, 64)))
		assert.LessOrEqual(t, len(pm.Palette), 16)
	}
}

func TestPalettedKeepsFewColorsExact(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
			if x < 4 {
				c = color.RGBA{0, 0, 0, 0xFF}
			}
			m.Set(x, y, c)
		}
	}
	pm := New(MaxColors, false).Paletted(m)

	r, g, b, _ := pm.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r, g, b})
	r, g, b, _ = pm.At(7, 7).RGBA()
	assert.Equal(t, [3]uint32{0xFFFF, 0xFFFF, 0xFFFF}, [3]uint32{r, g, b})
}

func TestPalettedTransparency(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 4, 4))
	m.Set(1, 1, color.RGBA{0xFF, 0, 0, 0xFF})
	pm := New(MaxColors, false).Paletted(m)

	_, _, _, a := pm.At(0, 0).RGBA()
	assert.Zero(t, a)
	_, _, _, a = pm.At(1, 1).RGBA()
	assert.NotZero(t, a)
}

func TestNewClamps(t *testing.T) {
	assert.Equal(t, MaxColors, New(0, false).MaxColors)
	assert.Equal(t, MaxColors, New(1000, false).MaxColors)
	assert.Equal(t, 64, New(64, false).MaxColors)
	assert.Equal(t, 2, New(1, false).MaxColors)
}

func TestPalettedSnapsPartialAlpha(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 16, 4))
	for x := 0; x < 16; x++ {
		// white at rising coverage, premultiplied.
		v := uint8(x * 16)
		m.SetRGBA(x, 1, color.RGBA{v, v, v, v})
		m.SetRGBA(x, 2, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
	}

	for _, dither := range []bool{false, true} {
		pm := New(MaxColors, dither).Paletted(m)
		for i, c := range pm.Palette {
			_, _, _, a := c.RGBA()
			assert.True(t, a == 0 || a == 0xFFFF, "entry %d has alpha %#x", i, a)
		}
		for x := 0; x < 16; x++ {
			r, g, b, a := pm.At(x, 1).RGBA()
			if a == 0 {
				continue
			}
			assert.Equal(t, [3]uint32{0xFFFF, 0xFFFF, 0xFFFF}, [3]uint32{r, g, b}, "x=%d", x)
		}
		_, _, _, a := pm.At(0, 0).RGBA()
		assert.Zero(t, a)
	}
}

func TestPalettedAllTransparent(t *testing.T) {
	pm := New(MaxColors, false).Paletted(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	require.Len(t, pm.Palette, 1)
	_, _, _, a := pm.At(1, 1).RGBA()
	assert.Zero(t, a)
}
