// Package fonts loads the renderable font handles used to draw annotations:
// a fixed catalog of built-in sans faces and user supplied BMFont
// descriptors.
package fonts

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DescriptorSuffix is the only accepted extension for font resource paths.
const DescriptorSuffix = ".fnt"

// ErrInvalidResource is returned for font paths that do not name a font
// descriptor.
var ErrInvalidResource = errors.New("invalid font resource")

// ID identifies a font resource: either a built-in catalog entry or a path
// to a descriptor on disk.
type ID string

const builtinPrefix = "builtin:"

// Built-in catalog. White has fewer sizes than black.
const (
	SansBlack8   ID = builtinPrefix + "sans-8-black"
	SansBlack10  ID = builtinPrefix + "sans-10-black"
	SansBlack12  ID = builtinPrefix + "sans-12-black"
	SansBlack14  ID = builtinPrefix + "sans-14-black"
	SansBlack16  ID = builtinPrefix + "sans-16-black"
	SansBlack32  ID = builtinPrefix + "sans-32-black"
	SansBlack64  ID = builtinPrefix + "sans-64-black"
	SansBlack128 ID = builtinPrefix + "sans-128-black"

	SansWhite8   ID = builtinPrefix + "sans-8-white"
	SansWhite16  ID = builtinPrefix + "sans-16-white"
	SansWhite32  ID = builtinPrefix + "sans-32-white"
	SansWhite64  ID = builtinPrefix + "sans-64-white"
	SansWhite128 ID = builtinPrefix + "sans-128-white"
)

var (
	white = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	black = color.RGBA{0x00, 0x00, 0x00, 0xFF}
)

type builtin struct {
	size float64
	ink  color.Color
}

var catalog = map[ID]builtin{
	SansBlack8:   {8, black},
	SansBlack10:  {10, black},
	SansBlack12:  {12, black},
	SansBlack14:  {14, black},
	SansBlack16:  {16, black},
	SansBlack32:  {32, black},
	SansBlack64:  {64, black},
	SansBlack128: {128, black},

	SansWhite8:   {8, white},
	SansWhite16:  {16, white},
	SansWhite32:  {32, white},
	SansWhite64:  {64, white},
	SansWhite128: {128, white},
}

// Font is a loaded, drawable font.
type Font struct {
	ID   ID
	Face font.Face
	// Ink is the source the glyph masks are applied to. A nil Ink means the
	// glyph images carry their own colors and are copied as-is.
	Ink image.Image
}

// Close releases the face.
func (f *Font) Close() error {
	return f.Face.Close()
}

var (
	sansOnce sync.Once
	sans     *truetype.Font
	sansErr  error
)

func parsedSans() (*truetype.Font, error) {
	sansOnce.Do(func() {
		sans, sansErr = truetype.Parse(goregular.TTF)
	})
	return sans, sansErr
}

// Load turns id into a drawable font. Built-in IDs are rasterized from the
// Go sans face, anything else must be a BMFont descriptor path.
func Load(id ID) (*Font, error) {
	if b, ok := catalog[id]; ok {
		fo, err := parsedSans()
		if err != nil {
			return nil, fmt.Errorf("parse built-in face: %w", err)
		}
		face := truetype.NewFace(fo, &truetype.Options{
			Size:    b.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		return &Font{ID: id, Face: face, Ink: image.NewUniform(b.ink)}, nil
	}
	if strings.HasPrefix(string(id), builtinPrefix) {
		return nil, fmt.Errorf("%w: unknown built-in %q", ErrInvalidResource, id)
	}
	if !strings.HasSuffix(string(id), DescriptorSuffix) {
		return nil, fmt.Errorf("%w: %q is not a %s file", ErrInvalidResource, id, DescriptorSuffix)
	}
	face, err := LoadBMFont(string(id))
	if err != nil {
		return nil, err
	}
	return &Font{ID: id, Face: face}, nil
}

// Loader loads each font once and hands out the same handle afterwards. A
// Loader belongs to a single pipeline run.
type Loader struct {
	loaded map[ID]*Font
}

func NewLoader() *Loader {
	return &Loader{loaded: make(map[ID]*Font)}
}

func (l *Loader) Load(id ID) (*Font, error) {
	if f, ok := l.loaded[id]; ok {
		return f, nil
	}
	f, err := Load(id)
	if err != nil {
		return nil, err
	}
	l.loaded[id] = f
	return f, nil
}

// Close releases every face loaded so far.
func (l *Loader) Close() error {
	var errs []error
	for id, f := range l.loaded {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(l.loaded, id)
	}
	return errors.Join(errs...)
}
