package dto

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tempo/internal/domains/appointment/model"
	"tempo/shared"
	"tempo/shared/datetz"
	gDto "tempo/shared/dto"
	"tempo/shared/failure"
	"tempo/shared/field"
	gModel "tempo/shared/model"
	"tempo/shared/timezone"
)

const (
	QueryStartsFrom = "starts_from"
	QueryStartsTo   = "starts_to"
	QueryStartsAt   = "starts_at"
	QueryTitle      = "title"
)

var errEndsBeforeStarts = failure.BadRequestFromString("ends_at must not be before starts_at")

type CreateAppointmentRequest struct {
	Title string `json:"title"     validate:"required,max=200"`
	Notes string `json:"notes"     validate:"omitempty,max=2000"`
	// Timezone overrides the default zone for inputs that carry none.
	Timezone string      `json:"timezone"  validate:"omitempty,datetz_zone"`
	StartsAt field.Input `json:"starts_at"`
	EndsAt   field.Input `json:"ends_at"`
}

// Document is a create request after its datetz fields were cast.
type Document struct {
	Title    string       `validate:"required"`
	Notes    string
	StartsAt field.Stored `validate:"datetz_required"`
	EndsAt   field.Stored
}

// Cast runs the write cast of every datetz field.
func (c *CreateAppointmentRequest) Cast(fields model.Fields) (Document, error) {
	startsAt, endsAt, err := castPair(fields, c.Timezone, c.StartsAt, c.EndsAt)
	if err != nil {
		return Document{}, err
	}

	doc := Document{Title: c.Title, Notes: c.Notes, StartsAt: startsAt, EndsAt: endsAt}

	return doc, CheckOrder(doc.StartsAt, doc.EndsAt)
}

func (d *Document) ToModel() model.Appointment {
	now := timezone.Now()

	return model.Appointment{
		ID:       uuid.NewString(),
		Title:    d.Title,
		Notes:    d.Notes,
		StartsAt: d.StartsAt.JSON().JSONText,
		EndsAt:   d.EndsAt.JSON(),
		Metadata: gModel.Metadata{CreatedAt: now, ModifiedAt: now},
	}
}

type UpdateAppointmentRequest struct {
	Title    string      `json:"title"     validate:"omitempty,max=200"`
	Notes    string      `json:"notes"     validate:"omitempty,max=2000"`
	Timezone string      `json:"timezone"  validate:"omitempty,datetz_zone"`
	StartsAt field.Input `json:"starts_at"`
	EndsAt   field.Input `json:"ends_at"`
}

func (u *UpdateAppointmentRequest) IsEmpty() bool {
	return u.Title == "" && u.Notes == "" && !u.StartsAt.IsSet() && !u.EndsAt.IsSet()
}

// Patch is an update request after its datetz fields were cast. Absent
// fields are left untouched by the update.
type Patch struct {
	Title    string       `db:"title"`
	Notes    string       `db:"notes"`
	StartsAt field.Stored `db:"starts_at"`
	EndsAt   field.Stored `db:"ends_at"`
}

func (u *UpdateAppointmentRequest) Cast(fields model.Fields) (Patch, error) {
	startsAt, endsAt, err := castPair(fields, u.Timezone, u.StartsAt, u.EndsAt)
	if err != nil {
		return Patch{}, err
	}

	if !startsAt.IsAbsent() {
		if err := fields.StartsAt.CheckRequired(startsAt); err != nil {
			return Patch{}, err //nolint:wrapcheck
		}
	}

	return Patch{Title: u.Title, Notes: u.Notes, StartsAt: startsAt, EndsAt: endsAt}, nil
}

func castPair(fields model.Fields, zone string, startsAt, endsAt field.Input) (field.Stored, field.Stored, error) {
	startsField, endsField := fields.StartsAt, fields.EndsAt
	if zone != "" {
		startsField = startsField.WithTimezone(zone)
		endsField = endsField.WithTimezone(zone)
	}

	starts, err := startsField.CastOnWrite(startsAt.Raw())
	if err != nil {
		return field.Stored{}, field.Stored{}, err //nolint:wrapcheck
	}

	ends, err := endsField.CastOnWrite(endsAt.Raw())
	if err != nil {
		return field.Stored{}, field.Stored{}, err //nolint:wrapcheck
	}

	return starts, ends, nil
}

// CheckOrder rejects an end before the start when both carry a value.
func CheckOrder(startsAt, endsAt field.Stored) error {
	if startsAt.State != datetz.StateValue || endsAt.State != datetz.StateValue {
		return nil
	}

	if endsAt.Record.Timestamp < startsAt.Record.Timestamp {
		return errEndsBeforeStarts
	}

	return nil
}

// DateTzResponse renders an instant with its zone and its local wall clock.
type DateTzResponse struct {
	Timestamp int64  `json:"timestamp"`
	Timezone  string `json:"timezone"`
	Local     string `json:"local"`
}

// NewDateTzResponse renders a value returned by a read cast. Values that are
// not datetz shaped render as nil.
func NewDateTzResponse(value any, layout string) *DateTzResponse {
	var v datetz.DateTz

	switch val := value.(type) {
	case datetz.DateTz:
		v = val
	case datetz.Record:
		var err error

		if v, err = val.DateTz(); err != nil {
			return nil
		}
	default:
		if value != nil {
			log.Warn().Type("type", value).Msg("unexpected stored datetz value")
		}

		return nil
	}

	return &DateTzResponse{
		Timestamp: v.Timestamp(),
		Timezone:  v.Timezone(),
		Local:     v.Format(layout),
	}
}

type AppointmentResponse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Notes    string          `json:"notes"`
	StartsAt *DateTzResponse `json:"starts_at"`
	EndsAt   *DateTzResponse `json:"ends_at"`
	gDto.Metadata
}

func (r *AppointmentResponse) FromModel(mod model.Appointment, fields model.Fields) {
	r.ID = mod.ID
	r.Title = mod.Title
	r.Notes = mod.Notes
	r.StartsAt = NewDateTzResponse(fields.StartsAt.CastOnRead(mod.StartsAt), fields.StartsAt.Format())
	r.EndsAt = NewDateTzResponse(fields.EndsAt.CastOnRead(mod.EndsAt), fields.EndsAt.Format())
	r.Metadata.FromModel(mod.Metadata)
}

type GetAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetAppointmentsResponse) FromModels(models []model.Appointment, fields model.Fields, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Appointments = make([]AppointmentResponse, len(models))
	for i, mod := range models {
		r.Appointments[i].FromModel(mod, fields)
	}
}

// FiltersFromQuery turns list query parameters into a filter group. Datetz
// parameters accept epoch milliseconds, or text when string parsing is on.
func FiltersFromQuery(query url.Values, fields model.Fields) (gDto.FilterGroup, error) {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	datetzFilters := []struct {
		param    string
		operator string
	}{
		{param: QueryStartsFrom, operator: gDto.FilterOperatorGreaterEq},
		{param: QueryStartsTo, operator: gDto.FilterOperatorLessEq},
		{param: QueryStartsAt, operator: gDto.FilterOperatorEq},
	}

	for _, df := range datetzFilters {
		raw := strings.TrimSpace(query.Get(df.param))
		if raw == "" {
			continue
		}

		filter, err := fields.StartsAt.Filter(df.operator, queryOperand(raw))
		if err != nil {
			var castErr *failure.CastError
			if errors.As(err, &castErr) {
				return gDto.FilterGroup{}, err //nolint:wrapcheck
			}

			return gDto.FilterGroup{}, failure.BadRequest(err) //nolint:wrapcheck
		}

		group.Filters = append(group.Filters, filter)
	}

	if title := query.Get(QueryTitle); title != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	return group, nil
}

func queryOperand(raw string) any {
	if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return millis
	}

	return raw
}

// CastRequest asks how an arbitrary input would be stored.
type CastRequest struct {
	Timezone string      `json:"timezone" validate:"omitempty,datetz_zone"`
	Value    field.Input `json:"value"`
}

type CastResponse struct {
	State  string          `json:"state"`
	Record *datetz.Record  `json:"record,omitempty"`
	Value  *DateTzResponse `json:"value,omitempty"`
}

func (r *CastResponse) FromStored(stored field.Stored, f field.Field) {
	r.State = stored.State.String()

	if stored.State != datetz.StateValue {
		return
	}

	rec := stored.Record
	r.Record = &rec
	r.Value = NewDateTzResponse(f.CastOnRead(rec), f.Format())
}
