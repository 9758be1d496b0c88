package util

import (
	"fmt"
	"sync"
	"time"
)

// TimeProvider resolves the time zone used for axis ticks and tooltips
type TimeProvider struct {
	mu       sync.RWMutex
	location *time.Location
}

var (
	globalTimeProvider *TimeProvider
	timeMu             sync.Mutex
)

// InitializeTimeProvider installs the global time provider for timezone.
func InitializeTimeProvider(timezone string) error {
	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	timeMu.Lock()
	defer timeMu.Unlock()
	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global time provider, defaulting to Local.
func GetTimeProvider() *TimeProvider {
	timeMu.Lock()
	defer timeMu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local}
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Europe/London", timezone, err)
		}
		loc = l
	}

	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.location = loc
	return nil
}

// Location returns the configured location
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// Unix converts seconds since the epoch to a time in the configured zone.
func (tp *TimeProvider) Unix(sec int64) time.Time {
	return time.Unix(sec, 0).In(tp.Location())
}

// FormatUnix formats seconds since the epoch with layout in the configured zone.
func (tp *TimeProvider) FormatUnix(sec int64, layout string) string {
	return tp.Unix(sec).Format(layout)
}
