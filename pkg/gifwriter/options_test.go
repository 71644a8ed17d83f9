package gifwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelmcallister/giftext/pkg/layout"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Options{Src: "a.gif", Dest: "b.gif"}.Validate())

	err := Options{}.Validate()
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.ErrorContains(t, err, "src is required")
	assert.ErrorContains(t, err, "dest is required")

	err = Options{Src: "a", Dest: "b", TextOptions: []TextOptions{{}}}.Validate()
	assert.ErrorContains(t, err, "text_options[0]: text is required")

	err = Options{Src: "a", Dest: "b", TextOptions: []TextOptions{
		{Text: "ok"},
		{Text: "x", PositionY: "1.5%"},
	}}.Validate()
	assert.ErrorIs(t, err, ErrMalformedPosition)
	assert.ErrorContains(t, err, "text_options[1].positionY")

	err = Options{Src: "a", Dest: "b", TextOptions: []TextOptions{{Text: "x", OutlineColor: "pink"}}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestValidateLeavesFontPathToTheRun(t *testing.T) {
	assert.NoError(t, Options{Src: "a", Dest: "b", TextOptions: []TextOptions{{Text: "x", FontPath: "bad.txt"}}}.Validate())
}

func TestCompile(t *testing.T) {
	anns, err := Options{Src: "a", Dest: "b", TextOptions: []TextOptions{{
		Text:       "bottom",
		FontColor:  "white",
		FontSize:   64,
		AlignmentX: "right",
		AlignmentY: "bottom",
		PositionX:  "-50%",
	}}}.compile()
	require.NoError(t, err)
	require.Len(t, anns, 1)

	a := anns[0]
	assert.Equal(t, layout.AlignRight, a.alignX)
	assert.Equal(t, layout.AlignBottom, a.alignY)
	assert.Equal(t, layout.Percent(-50), a.posX)
	assert.Equal(t, layout.Position{}, a.posY)
	assert.Equal(t, layout.FontSelector{Color: "white", Size: 64}, a.font)
}

func TestLoadOptionsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.yaml")
	body := `
src: share.gif
dest: output.gif
text_options:
  - text: "I'm produced by a cool Gif Editor"
    alignmentX: right
    alignmentY: middle
    font_path: Minecraft.ttf.fnt
  - text: top
    alignmentX: left
    alignmentY: top
  - text: bottom
    alignmentX: right
    alignmentY: bottom
    positionX: "-50%"
    outline_color: white
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	o, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "share.gif", o.Src)
	assert.Equal(t, "output.gif", o.Dest)
	require.Len(t, o.TextOptions, 3)
	assert.Equal(t, "Minecraft.ttf.fnt", o.TextOptions[0].FontPath)
	assert.Equal(t, "-50%", o.TextOptions[2].PositionX)
	assert.Equal(t, "white", o.TextOptions[2].OutlineColor)
	assert.NoError(t, o.Validate())
}

func TestLoadOptionsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	body := `{"src": "in.gif", "dest": "out.gif", "text_options": [{"text": "hi", "font_color": "white", "font_size": 16, "positionY": "90%"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	o, err := LoadOptions(path)
	require.NoError(t, err)
	require.Len(t, o.TextOptions, 1)
	assert.Equal(t, 16, o.TextOptions[0].FontSize)
	assert.Equal(t, "90%", o.TextOptions[0].PositionY)
}

func TestLoadOptionsErrors(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("text_options: {text: [}"), 0o644))
	_, err = LoadOptions(path)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
