// Package layout turns the symbolic parts of a text annotation (alignment
// keywords, pixel or percentage positions, font choice) into concrete
// drawing parameters for a given frame.
package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPosition is returned for position strings that are neither an
// integer nor an integer percentage.
var ErrMalformedPosition = errors.New("malformed position literal")

type AlignX int

const (
	AlignLeft AlignX = iota
	AlignCenter
	AlignRight
)

func (a AlignX) String() string {
	switch a {
	case AlignCenter:
		return "middle"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

type AlignY int

const (
	AlignTop AlignY = iota
	AlignMiddle
	AlignBottom
)

func (a AlignY) String() string {
	switch a {
	case AlignMiddle:
		return "middle"
	case AlignBottom:
		return "bottom"
	default:
		return "top"
	}
}

// ParseAlignX maps left, middle and right. Anything else is left.
func ParseAlignX(s string) AlignX {
	switch s {
	case "middle":
		return AlignCenter
	case "right":
		return AlignRight
	default:
		return AlignLeft
	}
}

// ParseAlignY maps top, middle and bottom. Anything else is top.
func ParseAlignY(s string) AlignY {
	switch s {
	case "middle":
		return AlignMiddle
	case "bottom":
		return AlignBottom
	default:
		return AlignTop
	}
}

// Position is a parsed position literal along one axis.
type Position struct {
	set     bool
	percent bool
	value   int
}

// Pixels returns an absolute position.
func Pixels(n int) Position { return Position{set: true, value: n} }

// Percent returns a position relative to the frame dimension.
func Percent(p int) Position { return Position{set: true, percent: true, value: p} }

func (p Position) String() string {
	switch {
	case !p.set:
		return ""
	case p.percent:
		return strconv.Itoa(p.value) + "%"
	default:
		return strconv.Itoa(p.value)
	}
}

// ParsePosition parses "" (absent), "<int>" (pixels) or a string containing
// a percent marker (percentage). Only the first marker is stripped.
func ParsePosition(s string) (Position, error) {
	if s == "" {
		return Position{}, nil
	}
	percent := strings.Contains(s, "%")
	lit := s
	if percent {
		lit = strings.Replace(s, "%", "", 1)
	}
	n, err := strconv.Atoi(strings.TrimSpace(lit))
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrMalformedPosition, s)
	}
	if percent {
		return Percent(n), nil
	}
	return Pixels(n), nil
}

// Offset resolves p against a frame dimension. Percentages may be negative,
// which anchors text off-canvas.
func (p Position) Offset(dimension int) float64 {
	switch {
	case !p.set:
		return 0
	case p.percent:
		return (float64(dimension) / 100) * float64(p.value)
	default:
		return float64(p.value)
	}
}

// DrawParams are the concrete parameters for drawing one annotation on one
// frame. Offsets are relative to the frame's bounds origin.
type DrawParams struct {
	OffsetX, OffsetY    float64
	MaxWidth, MaxHeight int
	AlignX              AlignX
	AlignY              AlignY
}

// Resolve computes the draw parameters for a frame of the given size.
// The wrapping box is always the whole frame, whatever the offset.
func Resolve(width, height int, x, y Position, ax AlignX, ay AlignY) DrawParams {
	return DrawParams{
		OffsetX:   x.Offset(width),
		OffsetY:   y.Offset(height),
		MaxWidth:  width,
		MaxHeight: height,
		AlignX:    ax,
		AlignY:    ay,
	}
}
