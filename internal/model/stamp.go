package model

import (
	"strings"
	"time"
)

// Location type values for a stamp
const (
	LocationTypeReal    = "real"
	LocationTypeFiction = "fiction"
)

// Default map center when a user has no stamps yet (roughly the
// geographic center of the contiguous US)
const (
	DefaultCenterLatitude  = 40.0
	DefaultCenterLongitude = -98.0
)

// Stamp is a single passport entry: a geographic point tied to a work of
// fiction and the means by which the user experienced it.
// Stamps are created and deleted, never updated in place.
type Stamp struct {
	ID           int64
	UserID       int64
	LocationType string // "real" or "fiction"
	LocationName string
	Source       string // the fictional work
	Means        string // how it was experienced (book, film, ...); may be empty
	Latitude     float64
	Longitude    float64
	CreatedAt    time.Time // server-assigned, ordering key
}

// Timestamp renders CreatedAt in the storage format (UTC, second precision).
func (s *Stamp) Timestamp() string {
	return s.CreatedAt.UTC().Format(TimestampLayout)
}

// DateOnly is the date part of the timestamp: everything before the
// first space of the stored representation.
func (s *Stamp) DateOnly() string {
	ts := s.Timestamp()
	if i := strings.IndexByte(ts, ' '); i >= 0 {
		return ts[:i]
	}
	return ts
}

// TimestampLayout matches SQLite's CURRENT_TIMESTAMP text format.
const TimestampLayout = "2006-01-02 15:04:05"

// GroupCount is one row of a grouped aggregate (stamps per means, or per
// location type), ordered by descending count.
type GroupCount struct {
	Key   string
	Count int64
}
