package datetz

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Value stores the value as a JSON record, NULL for the zero value.
func (d DateTz) Value() (driver.Value, error) {
	if !d.IsValid() {
		return nil, nil
	}

	return ToRecord(d).Value()
}

// Scan reads a JSON record. Use NullDateTz for nullable columns.
func (d *DateTz) Scan(src any) error {
	data, err := scanBytes(src)
	if err != nil {
		return err
	}

	if data == nil {
		return fmt.Errorf("%w: cannot scan NULL into DateTz", ErrInvalid)
	}

	return d.UnmarshalJSON(data)
}

// Value stores the record as a JSON document.
func (r Record) Value() (driver.Value, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal datetz record: %w", err)
	}

	return data, nil
}

// Scan reads a JSON record verbatim, without any canonicalization.
func (r *Record) Scan(src any) error {
	data, err := scanBytes(src)
	if err != nil {
		return err
	}

	if data == nil {
		*r = Record{}

		return nil
	}

	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// NullDateTz represents a DateTz that may be null, like sql.NullTime.
type NullDateTz struct {
	DateTz DateTz
	Valid  bool
}

func (n NullDateTz) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}

	return n.DateTz.Value()
}

func (n *NullDateTz) Scan(src any) error {
	if src == nil {
		n.DateTz, n.Valid = DateTz{}, false

		return nil
	}

	if err := n.DateTz.Scan(src); err != nil {
		n.Valid = false

		return err
	}

	n.Valid = true

	return nil
}

func (n NullDateTz) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}

	return n.DateTz.MarshalJSON()
}

func (n *NullDateTz) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.DateTz, n.Valid = DateTz{}, false

		return nil
	}

	if err := n.DateTz.UnmarshalJSON(data); err != nil {
		return err
	}

	n.Valid = true

	return nil
}

func scanBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%w: cannot scan %T", ErrInvalid, src)
	}
}
