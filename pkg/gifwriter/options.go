package gifwriter

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/michaelmcallister/giftext/pkg/layout"
)

// TextOptions is one text overlay request.
type TextOptions struct {
	Text string `yaml:"text" json:"text"`
	// FontPath, if set, overrides FontColor and FontSize.
	FontPath     string `yaml:"font_path,omitempty" json:"font_path,omitempty"`
	FontColor    string `yaml:"font_color,omitempty" json:"font_color,omitempty"`
	FontSize     int    `yaml:"font_size,omitempty" json:"font_size,omitempty"`
	AlignmentX   string `yaml:"alignmentX,omitempty" json:"alignmentX,omitempty"`
	AlignmentY   string `yaml:"alignmentY,omitempty" json:"alignmentY,omitempty"`
	PositionX    string `yaml:"positionX,omitempty" json:"positionX,omitempty"`
	PositionY    string `yaml:"positionY,omitempty" json:"positionY,omitempty"`
	OutlineColor string `yaml:"outline_color,omitempty" json:"outline_color,omitempty"`
}

// Options is a complete request: one source, one destination and the text
// to draw on every frame, in drawing order.
type Options struct {
	Src         string        `yaml:"src" json:"src"`
	Dest        string        `yaml:"dest" json:"dest"`
	TextOptions []TextOptions `yaml:"text_options" json:"text_options"`
}

// LoadOptions reads a YAML or JSON request file.
func LoadOptions(path string) (Options, error) {
	var o Options
	b, err := os.ReadFile(path)
	if err != nil {
		return o, err
	}
	if err := yaml.Unmarshal(b, &o); err != nil {
		return o, fmt.Errorf("%w: %s: %v", ErrInvalidOptions, path, err)
	}
	return o, nil
}

// annotation is a validated TextOptions with its literals parsed.
type annotation struct {
	text    string
	font    layout.FontSelector
	alignX  layout.AlignX
	alignY  layout.AlignY
	posX    layout.Position
	posY    layout.Position
	outline string
}

// Validate checks the request without touching the filesystem.
func (o Options) Validate() error {
	_, err := o.compile()
	return err
}

func (o Options) compile() ([]annotation, error) {
	var errs []error
	if o.Src == "" {
		errs = append(errs, fmt.Errorf("%w: src is required", ErrInvalidOptions))
	}
	if o.Dest == "" {
		errs = append(errs, fmt.Errorf("%w: dest is required", ErrInvalidOptions))
	}

	anns := make([]annotation, 0, len(o.TextOptions))
	for i, t := range o.TextOptions {
		if t.Text == "" {
			errs = append(errs, fmt.Errorf("%w: text_options[%d]: text is required", ErrInvalidOptions, i))
		}
		px, err := layout.ParsePosition(t.PositionX)
		if err != nil {
			errs = append(errs, fmt.Errorf("text_options[%d].positionX: %w", i, err))
		}
		py, err := layout.ParsePosition(t.PositionY)
		if err != nil {
			errs = append(errs, fmt.Errorf("text_options[%d].positionY: %w", i, err))
		}
		if _, ok := outlineColors[t.OutlineColor]; !ok {
			errs = append(errs, fmt.Errorf("%w: text_options[%d]: unknown outline_color %q", ErrInvalidOptions, i, t.OutlineColor))
		}
		anns = append(anns, annotation{
			text:    t.Text,
			font:    layout.FontSelector{Path: t.FontPath, Color: t.FontColor, Size: t.FontSize},
			alignX:  layout.ParseAlignX(t.AlignmentX),
			alignY:  layout.ParseAlignY(t.AlignmentY),
			posX:    px,
			posY:    py,
			outline: t.OutlineColor,
		})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return anns, nil
}
