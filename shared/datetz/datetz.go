package datetz

import (
	"errors"
	"fmt"
	"time"

	"tempo/shared/timezone"
)

var (
	ErrUnknownTimezone = errors.New("unknown timezone")
	ErrInvalid         = errors.New("invalid datetz value")
)

// DateTz is an immutable instant in epoch milliseconds and the zone it
// belongs to. Two values are equal only when both fields are equal.
// The zero value is not valid.
type DateTz struct {
	timestamp int64
	timezone  string
}

// New builds a DateTz. The zone must be a loadable IANA name.
func New(timestamp int64, zone string) (DateTz, error) {
	if !timezone.Valid(zone) {
		return DateTz{}, fmt.Errorf("%w: %q", ErrUnknownTimezone, zone)
	}

	return DateTz{timestamp: timestamp, timezone: zone}, nil
}

// NewWithPrecision builds a DateTz whose instant is floored to precision.
// A precision below one millisecond leaves the instant untouched.
func NewWithPrecision(timestamp int64, zone string, precision time.Duration) (DateTz, error) {
	return New(truncate(timestamp, precision), zone)
}

// FromTime builds a DateTz from the instant of t.
func FromTime(t time.Time, zone string) (DateTz, error) {
	return New(t.UnixMilli(), zone)
}

// MustNew is like New but panics on error. Meant for constants and tests.
func MustNew(timestamp int64, zone string) DateTz {
	v, err := New(timestamp, zone)
	if err != nil {
		panic(err)
	}

	return v
}

func truncate(timestamp int64, precision time.Duration) int64 {
	step := precision.Milliseconds()
	if step <= 1 {
		return timestamp
	}

	rem := timestamp % step
	if rem < 0 {
		rem += step
	}

	return timestamp - rem
}

// Timestamp returns the instant in milliseconds since the Unix epoch.
func (d DateTz) Timestamp() int64 {
	return d.timestamp
}

// ValueOf is an alias of Timestamp.
func (d DateTz) ValueOf() int64 {
	return d.timestamp
}

func (d DateTz) Timezone() string {
	return d.timezone
}

func (d DateTz) IsValid() bool {
	return d.timezone != ""
}

func (d DateTz) Equal(other DateTz) bool {
	return d.timestamp == other.timestamp && d.timezone == other.timezone
}

// Location returns the zone as a *time.Location, UTC for invalid values.
func (d DateTz) Location() *time.Location {
	loc, err := timezone.Load(d.timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// Time returns the instant rendered in the value's own zone.
func (d DateTz) Time() time.Time {
	return time.UnixMilli(d.timestamp).In(d.Location())
}

// WithTimezone returns the same instant carried by another zone.
func (d DateTz) WithTimezone(zone string) (DateTz, error) {
	return New(d.timestamp, zone)
}

func (d DateTz) Before(other DateTz) bool {
	return d.timestamp < other.timestamp
}

func (d DateTz) After(other DateTz) bool {
	return d.timestamp > other.timestamp
}

// String renders the value with DefaultFormat followed by the zone name.
func (d DateTz) String() string {
	if !d.IsValid() {
		return "<invalid datetz>"
	}

	return d.Format(DefaultFormat) + " " + d.timezone
}
