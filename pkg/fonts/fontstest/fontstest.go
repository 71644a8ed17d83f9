// Package fontstest writes BMFont fixtures for tests.
package fontstest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// Glyph size of the fonts written by SolidFont.
const (
	GlyphSize  = 10
	LineHeight = 12
	Base       = 10
)

// SolidFont writes a descriptor named name (which should end in .fnt) into
// dir. Every rune in chars is a GlyphSize square filled with c and advances
// by GlyphSize. The page PNG is written next to it.
func SolidFont(t testing.TB, dir, name string, c color.Color, chars string) string {
	t.Helper()

	runes := []rune(chars)
	page := image.NewRGBA(image.Rect(0, 0, GlyphSize*len(runes), GlyphSize))
	for y := 0; y < page.Rect.Dy(); y++ {
		for x := 0; x < page.Rect.Dx(); x++ {
			page.Set(x, y, c)
		}
	}
	pageName := name + ".png"
	pf, err := os.Create(filepath.Join(dir, pageName))
	if err != nil {
		t.Fatal(err)
	}
	defer pf.Close()
	if err := png.Encode(pf, page); err != nil {
		t.Fatal(err)
	}

	desc := fmt.Sprintf("info face=\"Solid Test\" size=%d bold=0 italic=0\n", GlyphSize)
	desc += fmt.Sprintf("common lineHeight=%d base=%d scaleW=%d scaleH=%d pages=1 packed=0\n",
		LineHeight, Base, page.Rect.Dx(), GlyphSize)
	desc += fmt.Sprintf("page id=0 file=\"%s\"\n", pageName)
	desc += fmt.Sprintf("chars count=%d\n", len(runes))
	for i, r := range runes {
		desc += fmt.Sprintf("char id=%d x=%d y=0 width=%d height=%d xoffset=0 yoffset=%d xadvance=%d page=0 chnl=15\n",
			r, i*GlyphSize, GlyphSize, GlyphSize, Base-GlyphSize, GlyphSize)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(desc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
