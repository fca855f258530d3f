package validator_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/shared/datetz"
	"tempo/shared/failure"
	"tempo/shared/validator"
)

type request struct {
	Title    string `json:"title"    validate:"required,max=10"`
	Timezone string `json:"timezone" validate:"omitempty,datetz_zone"`
	Kind     string `json:"kind"     validate:"omitempty,oneof=meeting call"`
	StartsAt any    `json:"starts_at"`
}

type document struct {
	StartsAt any `validate:"datetz_required"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedErr string
	}{
		{name: "valid", body: `{"title":"standup","timezone":"Europe/Rome","starts_at":1701234000000}`},
		{name: "missing title", body: `{"timezone":"UTC"}`, expectedErr: "Title is required"},
		{name: "title too long", body: `{"title":"a very long title"}`, expectedErr: "Title must be less than or equal to 10"},
		{name: "unknown timezone", body: `{"title":"x","timezone":"Mars/Olympus"}`, expectedErr: `Timezone must be a known IANA timezone, got "Mars/Olympus"`},
		{name: "invalid kind", body: `{"title":"x","kind":"lunch"}`, expectedErr: "Kind must be one of meeting call"},
		{name: "malformed body", body: `{"title":`, expectedErr: "failed to decode request body"},
		{name: "invalid json", body: `{"title":x}`, expectedErr: "failed to decode request body: invalid JSON at offset"},
		{name: "wrong type", body: `{"title":1}`, expectedErr: "failed to decode request body: title must be string, got number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req request

			err := validator.Validate(strings.NewReader(tt.body), &req)
			if tt.expectedErr == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
			assert.Equal(t, 400, failure.GetCode(err))
		})
	}
}

func TestValidateKeepsNumbers(t *testing.T) {
	var req request

	err := validator.Validate(strings.NewReader(`{"title":"x","starts_at":1701234567890}`), &req)
	require.NoError(t, err)
	assert.Equal(t, json.Number("1701234567890"), req.StartsAt)
}

func TestDateTzRequired(t *testing.T) {
	tests := []struct {
		name  string
		value any
		valid bool
	}{
		{name: "record", value: datetz.Record{Timestamp: 1, Timezone: "UTC"}, valid: true},
		{name: "datetz", value: datetz.MustNew(1, "UTC"), valid: true},
		{name: "record without zone", value: datetz.Record{Timestamp: 1}},
		{name: "nil", value: nil},
		{name: "number", value: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&document{StartsAt: tt.value})
			if tt.valid {
				require.NoError(t, err)

				return
			}

			require.EqualError(t, err, "StartsAt is required")
		})
	}
}

func TestValidateVar(t *testing.T) {
	require.NoError(t, validator.ValidateVar("Asia/Tokyo", validator.TagTimezone))
	require.Error(t, validator.ValidateVar("Nowhere", validator.TagTimezone))

	err := validator.ValidateVar("ab", "len=3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed on len")
}
