package gifwriter

import (
	"errors"
	"fmt"

	"github.com/michaelmcallister/giftext/pkg/fonts"
	"github.com/michaelmcallister/giftext/pkg/layout"
)

var (
	// ErrSourceRead is returned when the source cannot be read or decoded.
	ErrSourceRead = errors.New("source read failure")
	// ErrDestinationWrite is returned when the output cannot be written.
	ErrDestinationWrite = errors.New("destination write failure")
	// ErrInvalidFontResource is returned for font paths that are not font
	// descriptors or cannot be loaded.
	ErrInvalidFontResource = fonts.ErrInvalidResource
	// ErrMalformedPosition is returned for unparseable position strings.
	ErrMalformedPosition = layout.ErrMalformedPosition
	// ErrInvalidOptions is returned for requests missing required fields.
	ErrInvalidOptions = errors.New("invalid options")
)

// AnnotationError locates a failure at one annotation of one frame. It
// unwraps to the underlying kind.
type AnnotationError struct {
	Frame      int
	Annotation int
	Err        error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("frame %d, text_options[%d]: %v", e.Frame, e.Annotation, e.Err)
}

func (e *AnnotationError) Unwrap() error { return e.Err }
