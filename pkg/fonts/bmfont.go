package fonts

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// bmChar is one "char" line of an AngelCode BMFont text descriptor.
type bmChar struct {
	x, y, width, height int
	xoffset, yoffset    int
	xadvance            int
	page                int
}

// BMFace is a font.Face backed by a BMFont descriptor and its page images.
// Glyph masks are the page images themselves, so colored pages keep their
// colors when drawn without an ink.
type BMFace struct {
	lineHeight int
	base       int
	pages      []image.Image
	chars      map[rune]bmChar
	kernings   map[[2]rune]int
}

// LoadBMFont reads a text-format BMFont descriptor and the PNG pages it
// references, resolved relative to the descriptor's directory.
func LoadBMFont(path string) (*BMFace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open font %q: %w", path, err)
	}
	defer f.Close()

	face, files, err := parseBMFont(f)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}

	dir := filepath.Dir(path)
	face.pages = make([]image.Image, len(files))
	for id, name := range files {
		page, err := loadPage(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("font %q page %d: %w", path, id, err)
		}
		face.pages[id] = page
	}
	for r, c := range face.chars {
		if c.page < 0 || c.page >= len(face.pages) || face.pages[c.page] == nil {
			return nil, fmt.Errorf("font %q: char %d references missing page %d", path, r, c.page)
		}
	}
	return face, nil
}

func loadPage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// parseBMFont reads the descriptor and returns the face (without pages) and
// the page file names indexed by page id.
func parseBMFont(r io.Reader) (*BMFace, map[int]string, error) {
	face := &BMFace{
		chars:    make(map[rune]bmChar),
		kernings: make(map[[2]rune]int),
	}
	files := make(map[int]string)
	sawCommon := false

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		tag, a, err := splitLine(sc.Text())
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		switch tag {
		case "common":
			sawCommon = true
			if face.lineHeight, err = a.int("lineHeight"); err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			if face.base, err = a.int("base"); err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
		case "page":
			id, err := a.int("id")
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			file, ok := a["file"]
			if !ok || file == "" {
				return nil, nil, fmt.Errorf("line %d: page %d has no file", line, id)
			}
			files[id] = file
		case "char":
			var c bmChar
			var id int
			for _, f := range []struct {
				key string
				dst *int
			}{
				{"id", &id}, {"x", &c.x}, {"y", &c.y},
				{"width", &c.width}, {"height", &c.height},
				{"xoffset", &c.xoffset}, {"yoffset", &c.yoffset},
				{"xadvance", &c.xadvance}, {"page", &c.page},
			} {
				if *f.dst, err = a.int(f.key); err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", line, err)
				}
			}
			face.chars[rune(id)] = c
		case "kerning":
			first, err := a.int("first")
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			second, err := a.int("second")
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			amount, err := a.int("amount")
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			face.kernings[[2]rune{rune(first), rune(second)}] = amount
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if !sawCommon {
		return nil, nil, fmt.Errorf("missing common line")
	}
	for id := range files {
		if id < 0 || id >= len(files) {
			return nil, nil, fmt.Errorf("page id %d out of range", id)
		}
	}
	return face, files, nil
}

type attrs map[string]string

func (a attrs) int(key string) (int, error) {
	v, ok := a[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// splitLine splits `tag key=value key="quoted value"` into its parts.
func splitLine(s string) (string, attrs, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, nil
	}
	tag, rest, _ := strings.Cut(s, " ")
	a := make(attrs)
	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return tag, a, nil
		}
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return "", nil, fmt.Errorf("attribute without value in %q", s)
		}
		key := rest[:eq]
		rest = rest[eq+1:]
		var val string
		if strings.HasPrefix(rest, `"`) {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return "", nil, fmt.Errorf("unterminated quote in %q", s)
			}
			val = rest[1 : end+1]
			rest = rest[end+2:]
		} else {
			end := strings.IndexAny(rest, " \t")
			if end < 0 {
				end = len(rest)
			}
			val = rest[:end]
			rest = rest[end:]
		}
		a[key] = val
	}
}

func (f *BMFace) Close() error { return nil }

// Glyph places r with its baseline at dot. BMFont offsets are measured from
// the top of the line, which sits base pixels above the baseline.
func (f *BMFace) Glyph(dot fixed.Point26_6, r rune) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	c, ok := f.chars[r]
	if !ok {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	x := dot.X.Round() + c.xoffset
	y := dot.Y.Round() - f.base + c.yoffset
	dr = image.Rect(x, y, x+c.width, y+c.height)
	return dr, f.pages[c.page], image.Pt(c.x, c.y), fixed.I(c.xadvance), true
}

func (f *BMFace) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	c, ok := f.chars[r]
	if !ok {
		return fixed.Rectangle26_6{}, 0, false
	}
	top := c.yoffset - f.base
	bounds = fixed.R(c.xoffset, top, c.xoffset+c.width, top+c.height)
	return bounds, fixed.I(c.xadvance), true
}

func (f *BMFace) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	c, ok := f.chars[r]
	if !ok {
		return 0, false
	}
	return fixed.I(c.xadvance), true
}

func (f *BMFace) Kern(r0, r1 rune) fixed.Int26_6 {
	return fixed.I(f.kernings[[2]rune{r0, r1}])
}

func (f *BMFace) Metrics() font.Metrics {
	return font.Metrics{
		Height:  fixed.I(f.lineHeight),
		Ascent:  fixed.I(f.base),
		Descent: fixed.I(f.lineHeight - f.base),
	}
}
