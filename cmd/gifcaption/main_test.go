package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelmcallister/giftext/pkg/gifwriter"
	"github.com/michaelmcallister/giftext/pkg/stitchers"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestBuildOptionsConfigAndFlags(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "req.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
src: from-config.gif
dest: from-config-out.gif
text_options:
  - text: from config
    font_color: white
`), 0o644))

	opts, err := buildOptions(&Args{
		Src:       "from-args.gif",
		Config:    cfg,
		Text:      []string{"one", "two"},
		FontColor: "black",
		FontSize:  16,
		AlignX:    "middle",
		PositionY: "10%",
		Outline:   "white",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-args.gif", opts.Src)
	assert.Equal(t, "from-config-out.gif", opts.Dest)
	require.Len(t, opts.TextOptions, 3)
	assert.Equal(t, gifwriter.TextOptions{Text: "from config", FontColor: "white"}, opts.TextOptions[0])
	assert.Equal(t, gifwriter.TextOptions{
		Text:         "two",
		FontColor:    "black",
		FontSize:     16,
		AlignmentX:   "middle",
		PositionY:    "10%",
		OutlineColor: "white",
	}, opts.TextOptions[2])
}

func TestBuildOptionsValidates(t *testing.T) {
	_, err := buildOptions(&Args{Src: "in.gif", Dest: "out.gif", Text: []string{"x"}, PositionX: "abc"})
	assert.ErrorIs(t, err, gifwriter.ErrMalformedPosition)

	_, err = buildOptions(&Args{Config: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseStitcher(t *testing.T) {
	args := &Args{JPEGQuality: 80}

	s, err := parseStitcher("out.GIF", args, quiet)
	require.NoError(t, err)
	assert.IsType(t, &stitchers.GifStitcher{}, s)

	for _, dest := range []string{"out.mjpeg", "out.avi"} {
		s, err = parseStitcher(dest, args, quiet)
		require.NoError(t, err)
		assert.IsType(t, &stitchers.MJPEGStitcher{}, s, dest)
	}

	for _, dest := range []string{"out.png", "out"} {
		_, err = parseStitcher(dest, args, quiet)
		assert.ErrorIs(t, err, ErrUnsupportedFileFormat, dest)
	}
}
