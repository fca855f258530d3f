package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"

	"tempo/config"
	"tempo/shared/field"
	"tempo/shared/model"
)

const (
	TableName  = "appointments"
	EntityName = "appointment"

	FieldID       = "id"
	FieldTitle    = "title"
	FieldNotes    = "notes"
	FieldStartsAt = "starts_at"
	FieldEndsAt   = "ends_at"
)

// Appointment is a stored row. Datetz columns hold JSONB records.
type Appointment struct {
	ID       string             `db:"id"`
	Title    string             `db:"title"`
	Notes    string             `db:"notes"`
	StartsAt types.JSONText     `db:"starts_at"`
	EndsAt   types.NullJSONText `db:"ends_at"`
	model.Metadata
}

// Fields holds the datetz field definitions of the appointment document.
type Fields struct {
	StartsAt field.Field
	EndsAt   field.Field
}

func NewFields(cfg *config.Config) Fields {
	opts := field.Options{
		Format:       cfg.App.DateTz.Format,
		Timezone:     cfg.App.Timezone,
		ParseStrings: cfg.App.DateTz.ParseStrings,
		ReadMode:     field.ReadMode(cfg.App.DateTz.ReadMode),
		Precision:    time.Duration(cfg.App.DateTz.PrecisionMS) * time.Millisecond,
	}

	startsAt := opts
	startsAt.Required = true

	return Fields{
		StartsAt: field.New(FieldStartsAt, startsAt),
		EndsAt:   field.New(FieldEndsAt, opts),
	}
}
