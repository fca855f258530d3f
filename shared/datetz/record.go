package datetz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"tempo/shared/timezone"
)

// Record is the persisted shape of a DateTz and nothing else is ever
// written to storage.
type Record struct {
	Timestamp int64  `json:"timestamp"`
	Timezone  string `json:"timezone"`
}

// ToRecord is a pure projection of v.
func ToRecord(v DateTz) Record {
	return Record{Timestamp: v.timestamp, Timezone: v.timezone}
}

// FromRecord rebuilds a DateTz from a stored record. The record zone wins,
// then defaultZone, then UTC.
func FromRecord(r Record, defaultZone string) (DateTz, error) {
	return fromParts(r.Timestamp, r.Timezone, defaultZone, 0)
}

// FromRecordWithPrecision is FromRecord truncating like Coerce does with
// Options.Precision.
func FromRecordWithPrecision(r Record, defaultZone string, precision time.Duration) (DateTz, error) {
	return fromParts(r.Timestamp, r.Timezone, defaultZone, precision)
}

func fromParts(timestamp int64, zone, defaultZone string, precision time.Duration) (DateTz, error) {
	return NewWithPrecision(timestamp, timezone.Resolve(zone, defaultZone), precision)
}

// DateTz returns the record as a value, see FromRecord.
func (r Record) DateTz() (DateTz, error) {
	return FromRecord(r, "")
}

func (r Record) IsZero() bool {
	return r == Record{}
}

// MarshalJSON encodes the value as its Record.
func (d DateTz) MarshalJSON() ([]byte, error) {
	if !d.IsValid() {
		return []byte("null"), nil
	}

	return json.Marshal(ToRecord(d)) //nolint:wrapcheck
}

// UnmarshalJSON accepts a record document. The timestamp must be an
// integer; a missing or unknown zone resolves to UTC.
func (d *DateTz) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp *json.Number `json:"timestamp"`
		Timezone  string       `json:"timezone"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if raw.Timestamp == nil {
		return fmt.Errorf("%w: missing timestamp", ErrInvalid)
	}

	timestamp, err := raw.Timestamp.Int64()
	if err != nil {
		return fmt.Errorf("%w: timestamp %s is not an integer", ErrInvalid, raw.Timestamp.String())
	}

	v, err := FromRecord(Record{Timestamp: timestamp, Timezone: raw.Timezone}, "")
	if err != nil {
		return err
	}

	*d = v

	return nil
}
