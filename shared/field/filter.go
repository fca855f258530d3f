package field

import (
	"encoding/json"
	"errors"
	"fmt"

	"tempo/shared/datetz"
	"tempo/shared/dto"
)

var (
	ErrAbsentOperand       = errors.New("absent filter operand")
	ErrUnsupportedOperator = errors.New("unsupported filter operator")
)

const jsonbCast = "JSONB"

// Filter builds a predicate on the JSONB column named after the field.
// Equality compares whole documents, so the zone is part of the identity.
// Range operators compare the instant only.
func (f Field) Filter(operator string, operand any) (dto.Filter, error) {
	filter := dto.Filter{
		Field:    f.name,
		ArgName:  f.name + "_" + operator,
		Operator: operator,
	}

	switch operator {
	case dto.FilterIsNull, dto.FilterIsNotNull:
		return filter, nil
	case dto.FilterOperatorEq, dto.FilterOperatorNotEq:
		stored, err := f.CastOnWrite(operand)
		if err != nil {
			return dto.Filter{}, err
		}

		switch stored.State {
		case datetz.StateAbsent:
			return dto.Filter{}, fmt.Errorf("%w: %s", ErrAbsentOperand, f.name)
		case datetz.StateNull:
			filter.Operator = dto.FilterIsNull
			if operator == dto.FilterOperatorNotEq {
				filter.Operator = dto.FilterIsNotNull
			}

			return filter, nil
		}

		filter.Value = document(stored.Record)
		filter.Cast = jsonbCast

		return filter, nil
	case dto.FilterOperatorLessEq, dto.FilterOperatorGreaterEq:
		stored, err := f.CastOnWrite(operand)
		if err != nil {
			return dto.Filter{}, err
		}

		if stored.State != datetz.StateValue {
			return dto.Filter{}, fmt.Errorf("%w: %s", ErrAbsentOperand, f.name)
		}

		filter.Expr = f.Instant()
		filter.Value = stored.Record.Timestamp

		return filter, nil
	case dto.FilterOperatorIn:
		casted, err := f.CastForQuery(operand)
		if err != nil {
			return dto.Filter{}, err
		}

		list, ok := casted.([]any)
		if !ok {
			list = []any{casted}
		}

		docs := make([]string, 0, len(list))

		for _, item := range list {
			if rec, isRecord := item.(datetz.Record); isRecord {
				docs = append(docs, document(rec))
			}
		}

		if len(docs) == 0 {
			return dto.Filter{}, fmt.Errorf("%w: %s", ErrAbsentOperand, f.name)
		}

		filter.Value = docs
		filter.Cast = jsonbCast

		return filter, nil
	}

	return dto.Filter{}, fmt.Errorf("%w: %q", ErrUnsupportedOperator, operator)
}

// Instant is the SQL expression of the stored instant in epoch milliseconds.
func (f Field) Instant() string {
	return fmt.Sprintf("CAST(%s->>'timestamp' AS BIGINT)", f.name)
}

func document(rec datetz.Record) string {
	data, _ := json.Marshal(rec) //nolint:errchkjson

	return string(data)
}
