package chart

import (
	"github.com/pgperffarm/farmplot/internal/core/model"
)

// Category10 is the ten-colour categorical palette lines are drawn with.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// UnknownColor is used for a key that is not part of the palette's domain.
const UnknownColor = "#000000"

// Palette assigns colours by a key's position in the full key set. It is
// built once per load so that hiding a series never shifts the others.
type Palette struct {
	index  map[model.SeriesKey]int
	colors []string
}

// NewPalette fixes the colour domain to keys.
func NewPalette(keys []model.SeriesKey) *Palette {
	p := &Palette{
		index:  make(map[model.SeriesKey]int, len(keys)),
		colors: Category10,
	}
	for _, k := range keys {
		if _, ok := p.index[k]; !ok {
			p.index[k] = len(p.index)
		}
	}
	return p
}

// Index returns the palette slot for key, or -1 if key is unknown.
func (p *Palette) Index(key model.SeriesKey) int {
	i, ok := p.index[key]
	if !ok {
		return -1
	}
	return i % len(p.colors)
}

// Color returns the colour for key.
func (p *Palette) Color(key model.SeriesKey) string {
	i := p.Index(key)
	if i < 0 {
		return UnknownColor
	}
	return p.colors[i]
}
