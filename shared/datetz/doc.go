// Package datetz provides DateTz, a timezone-aware instant: an epoch
// millisecond timestamp paired with the IANA zone it is displayed and
// interpreted in.
//
// Usage Examples:
//
//  1. Construction and parsing:
//     v, err := datetz.New(1_701_234_567_890, "Europe/Rome")
//     v, err := datetz.Parse("2025-11-01 22:35:00.00", datetz.DefaultFormat, "Europe/London")
//
//  2. Coercing loosely typed input (request bodies, query operands):
//     res, err := datetz.Coerce(raw, datetz.Options{DefaultTimezone: "Europe/Rome"})
//     if res.State == datetz.StateValue { ... res.Value ... }
//
//  3. Persisting:
//     rec := datetz.ToRecord(v)            // {"timestamp": ..., "timezone": ...}
//     v, err := datetz.FromRecord(rec, "") // same canonicalization as Coerce
//
// The persisted shape is always Record. DateTz, NullDateTz and Record
// implement sql.Scanner / driver.Valuer over a JSON document so they can be
// stored in JSONB columns directly.
package datetz
