package datetz

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"tempo/shared/timezone"
)

// Kind is the variant a raw input was classified as. Classification is
// ordered: the first matching kind wins.
type Kind uint8

const (
	KindUnsupported Kind = iota
	KindExisting
	KindNull
	KindAbsent
	KindNativeDate
	KindNumber
	KindText
	KindPartialRecord
)

var kindNames = map[Kind]string{
	KindUnsupported:   "unsupported",
	KindExisting:      "datetz",
	KindNull:          "null",
	KindAbsent:        "absent",
	KindNativeDate:    "time",
	KindNumber:        "number",
	KindText:          "text",
	KindPartialRecord: "record",
}

func (k Kind) String() string {
	return kindNames[k]
}

// State tells what a successful coercion produced.
type State uint8

const (
	// StateAbsent means the field is unset and must be left alone. It is the
	// zero value.
	StateAbsent State = iota
	// StateValue carries a DateTz.
	StateValue
	// StateNull is an explicit absence, the field is cleared.
	StateNull
)

func (s State) String() string {
	switch s {
	case StateValue:
		return "value"
	case StateNull:
		return "null"
	case StateAbsent:
		return "absent"
	}

	return fmt.Sprintf("State(%d)", s)
}

// Absent is the type of Undefined.
type Absent struct{}

// Undefined marks an input that was never supplied, as opposed to nil which
// is an explicit null.
var Undefined = Absent{}

var ErrRejected = errors.New("datetz input rejected")

// RejectionError reports an input that was present but could not be
// coerced.
type RejectionError struct {
	Kind  Kind
	Value any
	Err   error
}

func (e *RejectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s input %#v: %v", ErrRejected, e.Kind, e.Value, e.Err)
	}

	return fmt.Sprintf("%s: %s input %#v", ErrRejected, e.Kind, e.Value)
}

func (e *RejectionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRejected}
	}

	return []error{ErrRejected, e.Err}
}

// Options is the context a coercion runs in.
type Options struct {
	// DefaultTimezone is used when the input carries no zone of its own.
	// Empty or unknown means UTC.
	DefaultTimezone string
	// ParseFormat enables string parsing with this format.
	ParseFormat string
	// ParseStrings enables string parsing with DefaultFormat when
	// ParseFormat is empty.
	ParseStrings bool
	// Precision floors constructed instants, zero keeps milliseconds.
	Precision time.Duration
}

func (o Options) parsesStrings() bool {
	return o.ParseStrings || o.ParseFormat != ""
}

func (o Options) format() string {
	if o.ParseFormat != "" {
		return o.ParseFormat
	}

	return DefaultFormat
}

// Result is a successful coercion.
type Result struct {
	State State
	Value DateTz
}

// Record returns the persisted shape when the result carries a value.
func (r Result) Record() (Record, bool) {
	if r.State != StateValue {
		return Record{}, false
	}

	return ToRecord(r.Value), true
}

// Classify returns the kind of a raw input.
func Classify(input any) Kind {
	switch v := input.(type) {
	case DateTz:
		return KindExisting
	case *DateTz:
		if v == nil {
			return KindNull
		}

		return KindExisting
	case NullDateTz:
		if !v.Valid {
			return KindNull
		}

		return KindExisting
	case nil:
		return KindNull
	case Absent:
		return KindAbsent
	case string:
		if v == "" {
			return KindAbsent
		}

		return KindText
	case time.Time:
		return KindNativeDate
	case *time.Time:
		if v == nil {
			return KindNull
		}

		return KindNativeDate
	case Record:
		return KindPartialRecord
	case *Record:
		if v == nil {
			return KindNull
		}

		return KindPartialRecord
	case map[string]any:
		if _, ok := number(v["timestamp"]); ok {
			return KindPartialRecord
		}

		return KindUnsupported
	}

	if _, ok := number(input); ok {
		return KindNumber
	}

	return KindUnsupported
}

// Coerce turns a raw input into a DateTz, an explicit null or an absence.
// Inputs that are present but unusable are rejected with a
// *RejectionError.
func Coerce(input any, opts Options) (Result, error) {
	kind := Classify(input)

	switch kind {
	case KindExisting:
		v := existing(input)
		if !v.IsValid() {
			return Result{}, &RejectionError{Kind: kind, Value: input, Err: ErrInvalid}
		}

		return Result{State: StateValue, Value: v}, nil
	case KindNull:
		return Result{State: StateNull}, nil
	case KindAbsent:
		return Result{State: StateAbsent}, nil
	case KindNativeDate:
		var t time.Time

		switch v := input.(type) {
		case time.Time:
			t = v
		case *time.Time:
			t = *v
		}

		return construct(kind, input, t.UnixMilli(), "", opts)
	case KindNumber:
		timestamp, _ := number(input)

		return construct(kind, input, timestamp, "", opts)
	case KindText:
		if !opts.parsesStrings() {
			return Result{}, &RejectionError{Kind: kind, Value: input, Err: errors.New("string parsing is disabled")}
		}

		text, _ := input.(string)

		parsed, err := Parse(text, opts.format(), timezone.Resolve(opts.DefaultTimezone))
		if err != nil {
			return Result{}, &RejectionError{Kind: kind, Value: input, Err: err}
		}

		return construct(kind, input, parsed.timestamp, parsed.timezone, opts)
	case KindPartialRecord:
		timestamp, zone := partial(input)

		return construct(kind, input, timestamp, zone, opts)
	}

	return Result{}, &RejectionError{Kind: kind, Value: input}
}

func construct(kind Kind, input any, timestamp int64, zone string, opts Options) (Result, error) {
	v, err := fromParts(timestamp, zone, opts.DefaultTimezone, opts.Precision)
	if err != nil {
		return Result{}, &RejectionError{Kind: kind, Value: input, Err: err}
	}

	return Result{State: StateValue, Value: v}, nil
}

func existing(input any) DateTz {
	switch v := input.(type) {
	case DateTz:
		return v
	case *DateTz:
		return *v
	case NullDateTz:
		return v.DateTz
	}

	return DateTz{}
}

func partial(input any) (int64, string) {
	switch v := input.(type) {
	case Record:
		return v.Timestamp, v.Timezone
	case *Record:
		return v.Timestamp, v.Timezone
	case map[string]any:
		timestamp, _ := number(v["timestamp"])
		zone, _ := v["timezone"].(string)

		return timestamp, zone
	}

	return 0, ""
}

// number extracts a finite integral millisecond count. Floats are truncated
// toward zero.
func number(input any) (int64, bool) {
	switch v := input.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return unsigned(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return unsigned(v)
	case float32:
		return float(float64(v))
	case float64:
		return float(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}

		f, err := v.Float64()
		if err != nil {
			return 0, false
		}

		return float(f)
	}

	return 0, false
}

func unsigned(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}

	return int64(v), true
}

func float(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, false
	}

	return int64(v), true
}
