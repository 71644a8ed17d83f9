package stitchers

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelmcallister/giftext/pkg/frames"
)

func sequence() *frames.Sequence {
	pal := color.Palette{color.White, color.Black}
	full := image.NewPaletted(image.Rect(0, 0, 16, 16), pal)
	part := image.NewPaletted(image.Rect(4, 4, 8, 8), pal)
	rgba := frames.NewRaster(image.Rect(0, 0, 16, 16))
	rgba.Canvas().Set(1, 1, color.RGBA{0xFF, 0, 0, 0xFF})

	return &frames.Sequence{
		Width:     16,
		Height:    16,
		LoopCount: 2,
		Frames: []frames.Frame{
			{Raster: frames.FromPaletted(full), Disposal: frames.DisposalNone, DelayCentisecs: 5},
			{Raster: frames.FromPaletted(part), Disposal: frames.DisposalBackground, DelayCentisecs: 10},
			{Raster: rgba, Disposal: frames.DisposalPrevious, DelayCentisecs: 15},
		},
	}
}

func TestGifEncode(t *testing.T) {
	g := NewGifStitcher().Encode(sequence())

	assert.Equal(t, []int{5, 10, 15}, g.Delay)
	assert.Equal(t, []byte{gif.DisposalNone, gif.DisposalBackground, gif.DisposalPrevious}, g.Disposal)
	assert.Equal(t, 2, g.LoopCount)
	assert.Equal(t, image.Rect(4, 4, 8, 8), g.Image[1].Rect)
	// the unquantized frame falls back to Plan9.
	assert.Len(t, g.Image[2].Palette, 256)
}

func TestGifStitchRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	require.NoError(t, NewGifStitcher().Stitch(sequence(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)

	assert.Len(t, g.Image, 3)
	assert.Equal(t, []int{5, 10, 15}, g.Delay)
	assert.Equal(t, 16, g.Config.Width)
}

func TestGifStitchUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.gif")
	assert.Error(t, NewGifStitcher().Stitch(sequence(), path))
}

func TestMJPEGStitch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.avi")
	require.NoError(t, NewMJPEGStitcher(90).Stitch(sequence(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestGifStitchFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gif")
	// an empty sequence cannot be encoded.
	assert.Error(t, NewGifStitcher().Stitch(&frames.Sequence{Width: 4, Height: 4}, path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.mp4")

	var seen string
	require.NoError(t, AtomicWrite(path, func(tmp string) error {
		seen = tmp
		return os.WriteFile(tmp, []byte("done"), 0o600)
	}))
	assert.Equal(t, dir, filepath.Dir(seen))
	assert.Equal(t, ".mp4", filepath.Ext(seen))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "done", string(b))
	_, err = os.Stat(seen)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAtomicWriteFailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gif")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	boom := errors.New("encode failed")
	err := AtomicWrite(path, func(tmp string) error {
		require.NoError(t, os.WriteFile(tmp, []byte("partial"), 0o600))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(b))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
