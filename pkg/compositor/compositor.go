// Package compositor draws annotation text onto frame rasters.
package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/michaelmcallister/giftext/pkg/fonts"
	"github.com/michaelmcallister/giftext/pkg/frames"
	"github.com/michaelmcallister/giftext/pkg/layout"
)

// Style holds the optional extras around the glyphs themselves.
type Style struct {
	// Outline, if set, is drawn behind the text as a faux border.
	Outline color.Color
}

// Draw renders text onto dst using f, wrapped to the params' box and
// aligned inside it.
func Draw(dst *frames.Raster, f *fonts.Font, p layout.DrawParams, text string, s Style) {
	face := f.Face
	lines := Wrap(face, text, fixed.I(p.MaxWidth))
	if len(lines) == 0 {
		return
	}

	m := face.Metrics()
	lineHeight := m.Height
	blockHeight := lineHeight * fixed.Int26_6(len(lines))

	origin := dst.Bounds().Min
	left := fixed.I(origin.X) + toFixed(p.OffsetX)
	top := fixed.I(origin.Y) + toFixed(p.OffsetY)
	boxW, boxH := fixed.I(p.MaxWidth), fixed.I(p.MaxHeight)

	switch p.AlignY {
	case layout.AlignMiddle:
		top += (boxH - blockHeight) / 2
	case layout.AlignBottom:
		top += boxH - blockHeight
	}

	canvas := dst.Canvas()
	for i, line := range lines {
		x := left
		switch w := font.MeasureString(face, line); p.AlignX {
		case layout.AlignCenter:
			x += (boxW - w) / 2
		case layout.AlignRight:
			x += boxW - w
		}
		dot := fixed.Point26_6{X: x, Y: top + lineHeight*fixed.Int26_6(i) + m.Ascent}

		// draw the outline first, offset in every direction, like a border.
		if s.Outline != nil {
			ink := image.NewUniform(s.Outline)
			for xx := -2; xx < 2; xx++ {
				for yy := -2; yy < 2; yy++ {
					shifted := dot.Add(fixed.P(xx, yy))
					drawLine(canvas, face, ink, shifted, line)
				}
			}
		}
		drawLine(canvas, face, f.Ink, dot, line)
	}
}

// drawLine draws one line with its baseline origin at dot. With a nil ink the
// glyph images are composited directly, keeping their own colors.
func drawLine(dst draw.Image, face font.Face, ink image.Image, dot fixed.Point26_6, line string) {
	if ink != nil {
		d := &font.Drawer{Dst: dst, Src: ink, Face: face, Dot: dot}
		d.DrawString(line)
		return
	}
	prev := rune(-1)
	for _, r := range line {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		dr, glyph, gp, advance, ok := face.Glyph(dot, r)
		if !ok {
			prev = r
			continue
		}
		draw.Draw(dst, dr, glyph, gp, draw.Over)
		dot.X += advance
		prev = r
	}
}

// Wrap splits text into lines on newlines, then greedily packs space
// separated words into lines no wider than maxWidth. A word that is wider
// than maxWidth on its own keeps a line to itself.
func Wrap(face font.Face, text string, maxWidth fixed.Int26_6) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Split(para, " ")
		cur := ""
		for _, w := range words {
			candidate := w
			if cur != "" {
				candidate = cur + " " + w
			}
			if cur != "" && font.MeasureString(face, candidate) > maxWidth {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur = candidate
		}
		lines = append(lines, cur)
	}
	return lines
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
