// Package timeval implements the calendar-date and instant-in-time values
// used throughout the ledger: a bare calendar Date, a resolved Instant with
// an optional zone, and the Interval attached to a note entry.
//
// Resolution of an entry's date/time to a full instant depends on a default
// zone that the spec requires to be explicit configuration rather than an
// implicit read of the host's local zone (spec.md §9 Open Questions). That
// default lives in Config, threaded explicitly through interpretation
// instead of a package-level mutable global (spec.md §9 design notes).
package timeval

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day component.
type Date struct {
	Year, Month, Day int
}

// NewDate constructs a Date from its components.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a "YYYY-MM-DD" literal (spec.md §4.1).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("timeval: invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// String renders the date in ISO 8601 form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the uninitialized zero value.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// Before reports whether d occurs strictly before other.
func (d Date) Before(other Date) bool {
	return d.toTime(time.UTC).Before(other.toTime(time.UTC))
}

// After reports whether d occurs strictly after other.
func (d Date) After(other Date) bool {
	return d.toTime(time.UTC).After(other.toTime(time.UTC))
}

// Compare returns -1, 0, or 1 comparing d to other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Before(other):
		return -1
	case d.After(other):
		return 1
	default:
		return 0
	}
}

func (d Date) toTime(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// Midnight resolves the date to an Instant at midnight in loc.
func (d Date) Midnight(loc *time.Location) Instant {
	return Instant{t: d.toTime(loc)}
}

// Instant is a specific point in time, optionally zone-qualified. It wraps
// time.Time so callers get correct comparisons and formatting, but the
// ledger never derives one implicitly from the host's local zone: every
// Instant either carries an explicit zone parsed from source or was
// resolved against a Config's DefaultZone.
type Instant struct {
	t time.Time
}

// NewInstant builds an Instant from a Date, a time-of-day, and a zone.
func NewInstant(d Date, hour, min, sec int, loc *time.Location) Instant {
	return Instant{t: time.Date(d.Year, time.Month(d.Month), d.Day, hour, min, sec, 0, loc)}
}

// FromTime wraps an existing time.Time.
func FromTime(t time.Time) Instant { return Instant{t: t} }

// Time exposes the underlying time.Time.
func (i Instant) Time() time.Time { return i.t }

// Date returns the calendar date portion of the instant, in its own zone.
func (i Instant) Date() Date {
	return Date{Year: i.t.Year(), Month: int(i.t.Month()), Day: i.t.Day()}
}

// IsZero reports whether the instant is the uninitialized zero value.
func (i Instant) IsZero() bool { return i.t.IsZero() }

// Before reports whether i occurs strictly before other.
func (i Instant) Before(other Instant) bool { return i.t.Before(other.t) }

// After reports whether i occurs strictly after other.
func (i Instant) After(other Instant) bool { return i.t.After(other.t) }

// Equal reports whether i and other denote the same instant.
func (i Instant) Equal(other Instant) bool { return i.t.Equal(other.t) }

// String renders the instant in RFC3339-ish form.
func (i Instant) String() string { return i.t.Format("2006-01-02T15:04:05Z07:00") }

// Interval is a half-open span of calendar dates, attached optionally to a
// note entry (spec.md §3).
type Interval struct {
	Start, End Date
}

// Contains reports whether d falls within [Start, End).
func (iv Interval) Contains(d Date) bool {
	return !d.Before(iv.Start) && d.Before(iv.End)
}

// Config carries ledger-wide time resolution settings. The zero value uses
// time.UTC as the default zone, never the host's local zone.
type Config struct {
	// DefaultZone is used to resolve a bare calendar date (no time:
	// metadata) to midnight when no zone is otherwise specified.
	DefaultZone *time.Location
}

// DefaultConfig returns a Config defaulting to UTC. Call sites that want
// host-local behavior must opt in explicitly by setting DefaultZone.
func DefaultConfig() Config {
	return Config{DefaultZone: time.UTC}
}

func (c Config) zone() *time.Location {
	if c.DefaultZone == nil {
		return time.UTC
	}
	return c.DefaultZone
}

// Resolve combines a Date with an optional time-of-day and zone into an
// Instant, falling back to midnight in the configured default zone when no
// time-of-day is present, per spec.md §4.2 ("Resolves date and time").
func (c Config) Resolve(d Date, hasTime bool, hour, min, sec int, loc *time.Location) Instant {
	if !hasTime {
		return d.Midnight(c.zone())
	}
	if loc == nil {
		loc = c.zone()
	}
	return NewInstant(d, hour, min, sec, loc)
}
