package field

import (
	"bytes"
	"encoding/json"

	"tempo/shared/datetz"
)

// Input is a raw datetz value decoded from a JSON body. A key that never
// appeared stays unset and casts as absent, an explicit null casts as null.
type Input struct {
	raw any
	set bool
}

// NewInput wraps a raw value as if it had been supplied.
func NewInput(raw any) Input {
	return Input{raw: raw, set: true}
}

func (in *Input) UnmarshalJSON(data []byte) error {
	in.set = true
	in.raw = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec.Decode(&in.raw) //nolint:wrapcheck
}

func (in Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(in.Raw()) //nolint:wrapcheck
}

func (in Input) IsSet() bool {
	return in.set
}

// Raw returns the decoded value, or datetz.Undefined when unset.
func (in Input) Raw() any {
	if !in.set {
		return datetz.Undefined
	}

	return in.raw
}
