package web

import (
	"net/url"
	"strconv"

	"github.com/pgperffarm/farmplot/internal/core/model"
)

// Query parameters of the index page form
const (
	ParamApplied  = "applied"  // last accepted trailing count
	ParamCount    = "count"    // trailing count as typed by the user
	ParamSeries   = "series"   // one per checked series
	ParamFiltered = "filtered" // present once the user has touched the series filter
	ParamUpdate   = "update"   // sent by the Update button only
)

// DecodeView rebuilds the view state for keys from a submitted form.
//
// The trailing count starts from ParamApplied (or the default). ParamCount
// replaces it only on an explicit update, or when there is no applied count
// to keep (a hand-written link); a series toggle resubmits the form without
// ParamUpdate and so never applies a pending range. An invalid ParamCount is
// reported as a warning wrapping model.ErrInvalidTrailingCount and the
// applied count is kept.
// ParamSeries selects the active series only when ParamFiltered is present,
// so an empty selection survives a round trip; without it every series is
// active.
func DecodeView(query url.Values, keys []model.SeriesKey) (*model.ViewState, error) {
	view := model.NewViewState(keys)

	if applied, err := strconv.Atoi(query.Get(ParamApplied)); err == nil {
		_ = view.SetTrailingCount(applied)
	}

	var warning error
	if query.Has(ParamCount) && (query.Has(ParamUpdate) || !query.Has(ParamApplied)) {
		warning = view.ApplyTrailingInput(query.Get(ParamCount))
	}

	if query.Has(ParamFiltered) {
		selected := query[ParamSeries]
		active := make([]model.SeriesKey, 0, len(selected))
		for _, s := range selected {
			active = append(active, model.SeriesKey(s))
		}
		view.SetActive(active)
	}
	return view, warning
}

// EncodeView is the inverse of DecodeView.
func EncodeView(view *model.ViewState) url.Values {
	q := url.Values{}
	q.Set(ParamApplied, strconv.Itoa(view.TrailingCount()))
	q.Set(ParamFiltered, "1")
	for _, k := range view.ActiveKeys() {
		q.Add(ParamSeries, string(k))
	}
	return q
}
