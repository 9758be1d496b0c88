package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTrailingCount is returned for a trailing count that is not a
// positive integer. The previous count is kept.
var ErrInvalidTrailingCount = errors.New("please enter a valid positive number")

// ViewState is the user-controlled part of the chart: which series are
// visible and how many trailing points each shows.
type ViewState struct {
	all           []SeriesKey
	active        map[SeriesKey]bool
	trailingCount int
}

// NewViewState starts with every known series active and the default
// trailing count.
func NewViewState(all []SeriesKey) *ViewState {
	v := &ViewState{
		all:           append([]SeriesKey(nil), all...),
		active:        make(map[SeriesKey]bool, len(all)),
		trailingCount: DefaultTrailingCount,
	}
	for _, k := range all {
		v.active[k] = true
	}
	return v
}

// AllKeys returns the known series in load order.
func (v *ViewState) AllKeys() []SeriesKey {
	return append([]SeriesKey(nil), v.all...)
}

// ActiveKeys returns the active series in load order.
func (v *ViewState) ActiveKeys() []SeriesKey {
	keys := make([]SeriesKey, 0, len(v.active))
	for _, k := range v.all {
		if v.active[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// IsActive reports whether key is currently shown.
func (v *ViewState) IsActive(key SeriesKey) bool {
	return v.active[key]
}

// Toggle flips the membership of key. Unknown keys are ignored so the
// active set stays a subset of the known set.
func (v *ViewState) Toggle(key SeriesKey) {
	if !v.known(key) {
		return
	}
	if v.active[key] {
		delete(v.active, key)
	} else {
		v.active[key] = true
	}
}

// SetActive replaces the selection with keys, dropping unknown ones.
func (v *ViewState) SetActive(keys []SeriesKey) {
	v.active = make(map[SeriesKey]bool, len(keys))
	for _, k := range keys {
		if v.known(k) {
			v.active[k] = true
		}
	}
}

// TrailingCount returns the number of most recent points shown per series.
func (v *ViewState) TrailingCount() int {
	return v.trailingCount
}

// SetTrailingCount updates the trailing count. Non-positive values are
// rejected and leave the state untouched.
func (v *ViewState) SetTrailingCount(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTrailingCount, n)
	}
	v.trailingCount = n
	return nil
}

// ApplyTrailingInput parses raw user input and applies it with
// SetTrailingCount.
func (v *ViewState) ApplyTrailingInput(raw string) error {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTrailingCount, raw)
	}
	return v.SetTrailingCount(n)
}

// Clone returns an independent copy.
func (v *ViewState) Clone() *ViewState {
	c := &ViewState{
		all:           append([]SeriesKey(nil), v.all...),
		active:        make(map[SeriesKey]bool, len(v.active)),
		trailingCount: v.trailingCount,
	}
	for k := range v.active {
		c.active[k] = true
	}
	return c
}

func (v *ViewState) known(key SeriesKey) bool {
	for _, k := range v.all {
		if k == key {
			return true
		}
	}
	return false
}
