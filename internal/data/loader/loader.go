package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pgperffarm/farmplot/internal/core/model"
	"github.com/pgperffarm/farmplot/internal/data/parser"
	"github.com/pgperffarm/farmplot/internal/util"
)

// ErrUnexpectedStatus is returned when a remote source answers with a
// non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Loader fetches and parses measurement files from disk or over HTTP.
type Loader struct {
	httpClient *http.Client
	now        func() time.Time
}

// NewLoader creates a Loader with a bounded HTTP client.
func NewLoader() *Loader {
	return &Loader{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

// IsRemote reports whether source is fetched over HTTP.
func IsRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load reads source, which is either an http(s) URL or a local path, and
// returns its records sorted by time. Malformed rows are dropped and listed
// in Dataset.Skipped.
func (l *Loader) Load(ctx context.Context, source string) (*model.Dataset, error) {
	start := l.now()
	util.LogDebug(fmt.Sprintf("Start loading measurements: %s", source))

	body, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	result, err := parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds := Build(source, result, l.now())
	if len(ds.Skipped) > 0 {
		util.LogWarn("Partial load: malformed rows skipped",
			util.F("source", source),
			util.F("skipped", len(ds.Skipped)),
			util.F("first_line", ds.Skipped[0].Line),
			util.F("first_reason", ds.Skipped[0].Reason))
	}
	util.LogInfo("Measurements loaded",
		util.F("source", source),
		util.F("records", len(ds.Records)),
		util.F("series", len(ds.Keys)),
		util.F("duration", l.now().Sub(start)))
	return ds, nil
}

// Build turns a parse result into a Dataset: records are stably sorted by
// CTime and the distinct series keys are derived from the sorted order.
func Build(source string, result *parser.Result, loadedAt time.Time) *model.Dataset {
	records := make([]model.Record, len(result.Records))
	copy(records, result.Records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CTime < records[j].CTime
	})

	return &model.Dataset{
		Source:   source,
		LoadedAt: loadedAt,
		Records:  records,
		Keys:     model.DistinctKeys(records),
		Skipped:  result.Skipped,
	}
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !IsRemote(source) {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", source, err)
		}
		return file, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, source)
	}
	return resp.Body, nil
}
