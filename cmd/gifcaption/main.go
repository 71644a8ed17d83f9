package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/sethvargo/go-envconfig"

	"github.com/michaelmcallister/giftext/pkg/capturers"
	"github.com/michaelmcallister/giftext/pkg/capturers/gocvcapture"
	"github.com/michaelmcallister/giftext/pkg/gifwriter"
	"github.com/michaelmcallister/giftext/pkg/quantize"
	"github.com/michaelmcallister/giftext/pkg/stitchers"
)

// ErrUnsupportedFileFormat is returned when the destination extension has no
// stitcher.
var ErrUnsupportedFileFormat = errors.New("unsupported file format")

// StitchFormat represents available file extensions for stitching.
type StitchFormat string

const (
	// GIF only supports up to 256 colours.
	GIF StitchFormat = ".gif"
	// MJPEG is a file format where each frame is compressed seperately as a JPEG.
	MJPEG StitchFormat = ".mjpeg"
	AVI   StitchFormat = ".avi"
	MP4   StitchFormat = ".mp4"
	MKV   StitchFormat = ".mkv"
)

// Env is read from the environment, after .env has been loaded.
type Env struct {
	LogLevel    string        `env:"GIFCAPTION_LOG_LEVEL, default=info"`
	MaxColors   int           `env:"GIFCAPTION_MAX_COLORS, default=256"`
	HTTPTimeout time.Duration `env:"GIFCAPTION_HTTP_TIMEOUT, default=30s"`
}

type Args struct {
	Src    string `arg:"positional" help:"source GIF or video, path or http(s) URL"`
	Dest   string `arg:"positional" help:"destination; the extension picks the format (.gif, .mjpeg, .avi, .mp4, .mkv)"`
	Config string `arg:"-c,--config" help:"YAML or JSON request file; src/dest arguments override it"`

	Text        []string `arg:"-t,--text,separate" help:"text to draw, repeat for more annotations"`
	FontPath    string   `arg:"--font" help:"BMFont .fnt descriptor, overrides --color and --size"`
	FontColor   string   `arg:"--color" help:"built-in font color: black or white"`
	FontSize    int      `arg:"--size" help:"built-in font size"`
	AlignX      string   `arg:"-x,--align-x" help:"left, middle or right"`
	AlignY      string   `arg:"-y,--align-y" help:"top, middle or bottom"`
	PositionX   string   `arg:"--pos-x" help:"x offset in pixels or percent of the width"`
	PositionY   string   `arg:"--pos-y" help:"y offset in pixels or percent of the height"`
	Outline     string   `arg:"--outline" help:"outline color: black or white"`
	MaxColors   int      `arg:"--max-colors" help:"palette size per frame, defaults to GIFCAPTION_MAX_COLORS"`
	Dither      bool     `arg:"--dither" help:"Floyd-Steinberg dithering when reducing colors"`
	JPEGQuality int      `arg:"--jpeg-quality" default:"90" help:"quality for MJPEG output"`
	Verbose     bool     `arg:"-v,--verbose" help:"debug logging"`
}

func (Args) Description() string {
	return "gifcaption draws text onto every frame of an animated GIF."
}

func newLogger(level string, verbose bool) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	if verbose {
		l = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      l,
		TimeFormat: "15:04:05",
	}))
}

func buildOptions(args *Args) (gifwriter.Options, error) {
	var opts gifwriter.Options
	if args.Config != "" {
		o, err := gifwriter.LoadOptions(args.Config)
		if err != nil {
			return opts, err
		}
		opts = o
	}
	if args.Src != "" {
		opts.Src = args.Src
	}
	if args.Dest != "" {
		opts.Dest = args.Dest
	}
	for _, t := range args.Text {
		opts.TextOptions = append(opts.TextOptions, gifwriter.TextOptions{
			Text:         t,
			FontPath:     args.FontPath,
			FontColor:    args.FontColor,
			FontSize:     args.FontSize,
			AlignmentX:   args.AlignX,
			AlignmentY:   args.AlignY,
			PositionX:    args.PositionX,
			PositionY:    args.PositionY,
			OutlineColor: args.Outline,
		})
	}
	return opts, opts.Validate()
}

func parseCapturer(src string, env *Env) gifwriter.Loader {
	if !capturers.IsRemote(src) && gocvcapture.IsVideo(src) {
		return gocvcapture.New()
	}
	return capturers.NewGifCapturer(env.HTTPTimeout)
}

func parseStitcher(dest string, args *Args, log *slog.Logger) (gifwriter.Stitcher, error) {
	switch ff := StitchFormat(strings.ToLower(filepath.Ext(dest))); ff {
	case GIF:
		return stitchers.NewGifStitcher(), nil
	case MJPEG, AVI:
		return stitchers.NewMJPEGStitcher(args.JPEGQuality), nil
	case MP4, MKV:
		return gocvcapture.New(), nil
	default:
		log.Error("unknown file format", "ext", ff)
		return nil, ErrUnsupportedFileFormat
	}
}

func run(ctx context.Context, args *Args, env *Env, log *slog.Logger) error {
	opts, err := buildOptions(args)
	if err != nil {
		return err
	}
	stitcher, err := parseStitcher(opts.Dest, args, log)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.Dest, err)
	}

	maxColors := env.MaxColors
	if args.MaxColors > 0 {
		maxColors = args.MaxColors
	}
	w := gifwriter.New(
		parseCapturer(opts.Src, env),
		stitcher,
		quantize.New(maxColors, args.Dither),
		log,
	)
	return w.WriteTextOnGif(ctx, opts)
}

func main() {
	ctx := context.Background()

	// .env is optional.
	_ = godotenv.Load()

	var env Env
	if err := envconfig.Process(ctx, &env); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var args Args
	arg.MustParse(&args)
	log := newLogger(env.LogLevel, args.Verbose)

	if err := run(ctx, &args, &env, log); err != nil {
		log.Error("gifcaption failed", "err", err)
		os.Exit(1)
	}
}
