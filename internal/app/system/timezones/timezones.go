// Package timezones holds the curated list of zones a school can pick for
// its calendar, and resolves them to locations.
package timezones

import (
	"fmt"
	"sync"
	"time"
)

type Zone struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Region string `json:"region,omitempty"`
}

var curated = []Zone{
	{ID: "UTC", Label: "Coordinated Universal Time", Region: "Etc"},
	{ID: "America/New_York", Label: "Eastern Time (US & Canada)", Region: "Americas"},
	{ID: "America/Chicago", Label: "Central Time (US & Canada)", Region: "Americas"},
	{ID: "America/Denver", Label: "Mountain Time (US & Canada)", Region: "Americas"},
	{ID: "America/Phoenix", Label: "Arizona", Region: "Americas"},
	{ID: "America/Los_Angeles", Label: "Pacific Time (US & Canada)", Region: "Americas"},
	{ID: "America/Anchorage", Label: "Alaska", Region: "Americas"},
	{ID: "Pacific/Honolulu", Label: "Hawaii", Region: "Pacific"},
	{ID: "America/Toronto", Label: "Toronto", Region: "Americas"},
	{ID: "America/Mexico_City", Label: "Mexico City", Region: "Americas"},
	{ID: "America/Sao_Paulo", Label: "Brasilia", Region: "Americas"},
	{ID: "Europe/London", Label: "London", Region: "Europe"},
	{ID: "Europe/Paris", Label: "Paris", Region: "Europe"},
	{ID: "Europe/Berlin", Label: "Berlin", Region: "Europe"},
	{ID: "Africa/Lagos", Label: "West Central Africa", Region: "Africa"},
	{ID: "Africa/Nairobi", Label: "Nairobi", Region: "Africa"},
	{ID: "Asia/Kolkata", Label: "India Standard Time", Region: "Asia"},
	{ID: "Asia/Jakarta", Label: "Jakarta", Region: "Asia"},
	{ID: "Asia/Shanghai", Label: "Beijing", Region: "Asia"},
	{ID: "Asia/Tokyo", Label: "Tokyo", Region: "Asia"},
	{ID: "Australia/Sydney", Label: "Sydney", Region: "Pacific"},
}

var (
	indexOnce sync.Once
	byID      map[string]Zone

	locMu sync.Mutex
	locs  = map[string]*time.Location{}
)

func index() {
	indexOnce.Do(func() {
		byID = make(map[string]Zone, len(curated))
		for _, z := range curated {
			byID[z.ID] = z
		}
	})
}

// All returns the curated list of zones in a stable order.
func All() []Zone {
	out := make([]Zone, len(curated))
	copy(out, curated)
	return out
}

// Label returns the human-friendly label for an ID, or the ID itself if not found.
func Label(id string) string {
	index()
	if z, ok := byID[id]; ok {
		return z.Label
	}
	return id
}

// Valid reports whether the given ID exists in the curated list.
func Valid(id string) bool {
	index()
	_, ok := byID[id]
	return ok
}

// Location loads the zone. An empty id is UTC. Any IANA name is accepted,
// curated or not; loaded locations are cached.
func Location(id string) (*time.Location, error) {
	if id == "" {
		return time.UTC, nil
	}
	locMu.Lock()
	defer locMu.Unlock()
	if loc, ok := locs[id]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", id, err)
	}
	locs[id] = loc
	return loc, nil
}
