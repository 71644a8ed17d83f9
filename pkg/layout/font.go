package layout

import (
	"fmt"
	"strings"

	"github.com/michaelmcallister/giftext/pkg/fonts"
)

// FontSelector chooses a font either by descriptor path or by color and
// size. A non-empty Path wins over Color and Size.
type FontSelector struct {
	Path  string
	Color string
	Size  int
}

type fontKey struct {
	color string
	size  int
}

const defaultSize = 32

// The white catalog is a strict subset of the black one.
var fontTable = map[fontKey]fonts.ID{
	{"black", 8}:   fonts.SansBlack8,
	{"black", 10}:  fonts.SansBlack10,
	{"black", 12}:  fonts.SansBlack12,
	{"black", 14}:  fonts.SansBlack14,
	{"black", 16}:  fonts.SansBlack16,
	{"black", 32}:  fonts.SansBlack32,
	{"black", 64}:  fonts.SansBlack64,
	{"black", 128}: fonts.SansBlack128,

	{"white", 8}:   fonts.SansWhite8,
	{"white", 16}:  fonts.SansWhite16,
	{"white", 32}:  fonts.SansWhite32,
	{"white", 64}:  fonts.SansWhite64,
	{"white", 128}: fonts.SansWhite128,
}

// ResolveFont maps a selector to a font resource. Unsupported sizes fall back
// to 32 for the requested color; unknown or missing colors give black 32.
func ResolveFont(sel FontSelector) (fonts.ID, error) {
	if sel.Path != "" {
		if !strings.HasSuffix(sel.Path, fonts.DescriptorSuffix) {
			return "", fmt.Errorf("%w: only %s files are accepted, got %q",
				fonts.ErrInvalidResource, fonts.DescriptorSuffix, sel.Path)
		}
		return fonts.ID(sel.Path), nil
	}
	switch sel.Color {
	case "black", "white":
		if id, ok := fontTable[fontKey{sel.Color, sel.Size}]; ok {
			return id, nil
		}
		return fontTable[fontKey{sel.Color, defaultSize}], nil
	default:
		return fonts.SansBlack32, nil
	}
}
