// Package field binds the datetz coercion engine to the four points where a
// persistence layer needs a custom field type: writes, reads, query operands
// and required checks.
package field

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/rs/zerolog/log"

	"tempo/shared/datetz"
	"tempo/shared/failure"
	"tempo/shared/timezone"
)

// ReadMode selects what CastOnRead materializes.
type ReadMode string

const (
	// ReadValue returns datetz.DateTz values.
	ReadValue ReadMode = "value"
	// ReadRecord returns canonical datetz.Record values.
	ReadRecord ReadMode = "record"
)

type Options struct {
	// Format enables string input, parsed with this format.
	Format string
	// Timezone is the default zone for inputs without one.
	Timezone string
	// ParseStrings enables string input with datetz.DefaultFormat when
	// Format is empty.
	ParseStrings bool
	ReadMode     ReadMode
	Precision    time.Duration
	Required     bool
	// Extra holds options meant for the surrounding framework. They are kept
	// untouched.
	Extra map[string]any
}

// Field is an immutable datetz field definition.
type Field struct {
	name     string
	engine   datetz.Options
	readMode ReadMode
	required bool
	extra    map[string]any
}

func New(name string, opts Options) Field {
	readMode := opts.ReadMode
	if readMode != ReadRecord {
		readMode = ReadValue
	}

	return Field{
		name: name,
		engine: datetz.Options{
			DefaultTimezone: timezone.Resolve(opts.Timezone),
			ParseFormat:     opts.Format,
			ParseStrings:    opts.ParseStrings,
			Precision:       opts.Precision,
		},
		readMode: readMode,
		required: opts.Required,
		extra:    maps.Clone(opts.Extra),
	}
}

func (f Field) Name() string {
	return f.name
}

// Timezone returns the resolved default zone of the field.
func (f Field) Timezone() string {
	return f.engine.DefaultTimezone
}

// Format returns the parse format, empty when string input is rejected.
func (f Field) Format() string {
	if f.engine.ParseFormat == "" && f.engine.ParseStrings {
		return datetz.DefaultFormat
	}

	return f.engine.ParseFormat
}

// WithTimezone returns a copy of the field with another default zone.
func (f Field) WithTimezone(zone string) Field {
	f.engine.DefaultTimezone = timezone.Resolve(zone, f.engine.DefaultTimezone)

	return f
}

func (f Field) ReadMode() ReadMode {
	return f.readMode
}

func (f Field) Required() bool {
	return f.required
}

func (f Field) Extra() map[string]any {
	return maps.Clone(f.extra)
}

// Stored is the outcome of a write cast.
type Stored struct {
	State  datetz.State
	Record datetz.Record
}

func (s Stored) IsAbsent() bool {
	return s.State == datetz.StateAbsent
}

func (s Stored) IsNull() bool {
	return s.State == datetz.StateNull
}

// Value returns what should reach storage: the record, nil for an explicit
// null and datetz.Undefined when the field must be left unset.
func (s Stored) Value() any {
	switch s.State {
	case datetz.StateNull:
		return nil
	case datetz.StateAbsent:
		return datetz.Undefined
	}

	return s.Record
}

// JSON returns the value as a nullable JSONB document. Absent and null both
// map to an invalid NullJSONText, callers skip absent values first.
func (s Stored) JSON() types.NullJSONText {
	if s.State != datetz.StateValue {
		return types.NullJSONText{}
	}

	data, err := json.Marshal(s.Record)
	if err != nil {
		return types.NullJSONText{}
	}

	return types.NullJSONText{JSONText: data, Valid: true}
}

// Coerce runs the engine with the field's configuration. Rejections are
// returned as *failure.CastError.
func (f Field) Coerce(raw any) (datetz.Result, error) {
	res, err := datetz.Coerce(raw, f.engine)
	if err != nil {
		return res, failure.Cast(f.name, raw, err) //nolint:wrapcheck
	}

	return res, nil
}

// CastOnWrite turns an application value into what is persisted.
func (f Field) CastOnWrite(raw any) (Stored, error) {
	res, err := f.Coerce(raw)
	if err != nil {
		return Stored{}, err
	}

	stored := Stored{State: res.State}
	if rec, ok := res.Record(); ok {
		stored.Record = rec
	}

	return stored, nil
}

// CastOnRead materializes a stored value. Anything that is not a stored
// record comes back unchanged so that legacy data never breaks a read.
func (f Field) CastOnRead(stored any) any {
	rec, ok := recordOf(stored)
	if !ok {
		if stored != nil {
			log.Debug().Str("field", f.name).Type("type", stored).Msg("stored value is not a datetz record, returning it as is")
		}

		return stored
	}

	v, err := datetz.FromRecordWithPrecision(rec, f.engine.DefaultTimezone, f.engine.Precision)
	if err != nil {
		log.Warn().Err(err).Str("field", f.name).Msg("failed to materialize stored datetz record")

		return stored
	}

	if f.readMode == ReadRecord {
		return datetz.ToRecord(v)
	}

	return v
}

// CastForQuery casts a query operand. Slices and arrays are cast element by
// element and returned as []any.
func (f Field) CastForQuery(operand any) (any, error) {
	val := reflect.ValueOf(operand)
	if operand == nil || !sequence(val) {
		stored, err := f.CastOnWrite(operand)
		if err != nil {
			return nil, err
		}

		return stored.Value(), nil
	}

	casted := make([]any, val.Len())

	for idx := range val.Len() {
		stored, err := f.CastOnWrite(val.Index(idx).Interface())
		if err != nil {
			return nil, err
		}

		casted[idx] = stored.Value()
	}

	return casted, nil
}

// sequence excludes byte slices, which are documents rather than lists.
func sequence(val reflect.Value) bool {
	switch val.Kind() {
	case reflect.Slice, reflect.Array:
		return val.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// IsSatisfiedWhenRequired reports whether v can satisfy a required field.
func (f Field) IsSatisfiedWhenRequired(v any) bool {
	return IsSatisfiedWhenRequired(v)
}

// CheckRequired fails with a bad request when the field is required and v
// does not satisfy it.
func (f Field) CheckRequired(v any) error {
	if !f.required || IsSatisfiedWhenRequired(v) {
		return nil
	}

	return failure.BadRequestFromString(f.name + " is required")
}

// IsSatisfiedWhenRequired reports whether v is shaped like a DateTz: a
// numeric timestamp with a non-empty zone.
func IsSatisfiedWhenRequired(v any) bool {
	switch val := v.(type) {
	case datetz.DateTz:
		return val.IsValid()
	case *datetz.DateTz:
		return val != nil && val.IsValid()
	case datetz.NullDateTz:
		return val.Valid && val.DateTz.IsValid()
	case datetz.Record:
		return val.Timezone != ""
	case *datetz.Record:
		return val != nil && val.Timezone != ""
	case Stored:
		return val.State == datetz.StateValue && val.Record.Timezone != ""
	case map[string]any:
		rec, ok := recordOf(val)

		return ok && rec.Timezone != ""
	}

	return false
}

// recordOf recognizes the stored record shapes: records, values, maps with a
// numeric timestamp and a string timezone, and JSON documents of those maps.
func recordOf(stored any) (datetz.Record, bool) {
	switch val := stored.(type) {
	case datetz.Record:
		return val, true
	case *datetz.Record:
		if val == nil {
			return datetz.Record{}, false
		}

		return *val, true
	case datetz.DateTz:
		return datetz.ToRecord(val), val.IsValid()
	case map[string]any:
		zone, isString := val["timezone"].(string)
		if !isString || datetz.Classify(val) != datetz.KindPartialRecord {
			return datetz.Record{}, false
		}

		res, err := datetz.Coerce(val, datetz.Options{DefaultTimezone: zone})
		if err != nil {
			return datetz.Record{}, false
		}

		return datetz.Record{Timestamp: res.Value.Timestamp(), Timezone: zone}, true
	case types.NullJSONText:
		if !val.Valid {
			return datetz.Record{}, false
		}

		return recordOf(val.JSONText)
	case types.JSONText:
		return recordOf([]byte(val))
	case json.RawMessage:
		return recordOf([]byte(val))
	case []byte:
		var doc map[string]any

		dec := json.NewDecoder(bytes.NewReader(val))
		dec.UseNumber()

		if err := dec.Decode(&doc); err != nil {
			return datetz.Record{}, false
		}

		return recordOf(doc)
	}

	return datetz.Record{}, false
}
