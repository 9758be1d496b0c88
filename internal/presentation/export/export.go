package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pgperffarm/farmplot/internal/chart"
)

// Format is a static output format for a scene.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatSVG, FormatPNG, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (expected svg, png or json)", ErrUnknownFormat, name)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Write renders scene to w in format f.
func Write(w io.Writer, scene *chart.Scene, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, scene)
	case FormatSVG, FormatPNG:
		return WriteImage(w, scene, f)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// WriteJSON writes the scene as indented JSON.
func WriteJSON(w io.Writer, scene *chart.Scene) error {
	data, err := sonic.MarshalIndent(scene, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
