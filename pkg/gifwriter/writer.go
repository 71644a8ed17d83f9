// Package gifwriter draws text annotations onto every frame of an animated
// image and writes the result.
package gifwriter

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/michaelmcallister/giftext/pkg/compositor"
	"github.com/michaelmcallister/giftext/pkg/fonts"
	"github.com/michaelmcallister/giftext/pkg/frames"
	"github.com/michaelmcallister/giftext/pkg/layout"
	"github.com/michaelmcallister/giftext/pkg/quantize"
)

// Loader defines the contract for obtaining a frame sequence from a source
// identifier.
type Loader interface {
	Load(ctx context.Context, src string) (*frames.Sequence, error)
}

// Stitcher defines the contract for writing a processed sequence to a
// destination.
type Stitcher interface {
	Stitch(seq *frames.Sequence, filename string) error
}

// Quantizer reduces one composited frame to an encodable palette.
type Quantizer interface {
	Frame(f frames.Frame) frames.Frame
}

var outlineColors = map[string]color.Color{
	"":      nil,
	"black": color.RGBA{0x00, 0x00, 0x00, 0xFF},
	"white": color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
}

// Writer runs the caption pipeline: load, draw, quantize, write.
type Writer struct {
	loader    Loader
	stitcher  Stitcher
	quantizer Quantizer
	log       *slog.Logger
}

// New returns a Writer. A nil quantizer uses a 256 color median cut and a
// nil logger uses slog.Default().
func New(l Loader, s Stitcher, q Quantizer, logger *slog.Logger) *Writer {
	if q == nil {
		q = quantize.New(quantize.MaxColors, false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{loader: l, stitcher: s, quantizer: q, log: logger}
}

// WriteTextOnGif draws every annotation of opts onto every frame of
// opts.Src and writes the result to opts.Dest.
//
// A font failure on any frame stops the whole run. The destination is only
// written once all frames have been processed, so a failed run leaves no
// output behind.
func (w *Writer) WriteTextOnGif(ctx context.Context, opts Options) error {
	anns, err := opts.compile()
	if err != nil {
		return err
	}

	seq, err := w.loader.Load(ctx, opts.Src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSourceRead, opts.Src, err)
	}
	w.log.Info("input decoded", "src", opts.Src, "frames", len(seq.Frames))

	out, err := w.process(ctx, seq, anns)
	if err != nil {
		return err
	}

	if err := w.stitcher.Stitch(out, opts.Dest); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDestinationWrite, opts.Dest, err)
	}
	w.log.Info("output written", "dest", opts.Dest, "frames", len(out.Frames))
	return nil
}

// process returns a new sequence with every frame annotated and quantized.
// The input frames are not modified.
func (w *Writer) process(ctx context.Context, seq *frames.Sequence, anns []annotation) (*frames.Sequence, error) {
	loader := fonts.NewLoader()
	defer func() {
		if err := loader.Close(); err != nil {
			w.log.Warn("closing fonts", "err", err)
		}
	}()

	out := make([]frames.Frame, 0, len(seq.Frames))
	for i, fr := range seq.Frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		canvas := fr.Raster.Clone()
		for j, a := range anns {
			if err := w.annotate(canvas, loader, a); err != nil {
				w.log.Error("font resolution failed, stopping", "frame", i, "text_option", j, "err", err)
				return nil, &AnnotationError{Frame: i, Annotation: j, Err: err}
			}
		}
		q := w.quantizer.Frame(frames.Frame{
			Raster:         canvas,
			Disposal:       fr.Disposal,
			DelayCentisecs: fr.DelayCentisecs,
		})
		out = append(out, q)
		w.log.Debug("frame processed", "frame", i, "delay", fr.DelayCentisecs, "disposal", fr.Disposal)
	}
	return seq.WithFrames(out), nil
}

func (w *Writer) annotate(canvas *frames.Raster, loader *fonts.Loader, a annotation) error {
	id, err := layout.ResolveFont(a.font)
	if err != nil {
		return err
	}
	f, err := loader.Load(id)
	if err != nil {
		if errors.Is(err, fonts.ErrInvalidResource) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInvalidFontResource, err)
	}
	p := layout.Resolve(canvas.Width(), canvas.Height(), a.posX, a.posY, a.alignX, a.alignY)
	compositor.Draw(canvas, f, p, a.text, compositor.Style{Outline: outlineColors[a.outline]})
	return nil
}
