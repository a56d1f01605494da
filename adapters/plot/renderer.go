package plot

import (
	"assaystat/internal/errors"
	"assaystat/ports"
)

// NewRenderer returns the renderer for format: "svg" or "html". "none"
// returns a nil renderer and no error.
func NewRenderer(format string, style Style) (ports.PlotRenderer, error) {
	switch format {
	case "svg", "":
		r, err := NewSVGRenderer(style)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "html":
		r, err := NewHTMLRenderer(style)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "none":
		return nil, nil
	}
	return nil, errors.Newf(errors.CodeConfigInvalid, "unknown plot format %q", format)
}
