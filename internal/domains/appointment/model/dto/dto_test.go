package dto_test

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/config"
	"tempo/internal/domains/appointment/model"
	"tempo/internal/domains/appointment/model/dto"
	"tempo/shared/datetz"
	"tempo/shared/failure"
	"tempo/shared/field"
)

func newFields(t *testing.T, parseStrings bool) model.Fields {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Timezone = "Europe/Rome"
	cfg.App.DateTz.ParseStrings = parseStrings

	return model.NewFields(cfg)
}

func decodeCreate(t *testing.T, body string) dto.CreateAppointmentRequest {
	t.Helper()

	var req dto.CreateAppointmentRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	return req
}

func TestCreateAppointmentRequest_Cast(t *testing.T) {
	fields := newFields(t, false)

	req := decodeCreate(t, `{"title":"standup","starts_at":1701234000000,"ends_at":{"timestamp":1701237600000,"timezone":"Asia/Tokyo"}}`)

	doc, err := req.Cast(fields)
	require.NoError(t, err)
	assert.Equal(t, datetz.Record{Timestamp: 1_701_234_000_000, Timezone: "Europe/Rome"}, doc.StartsAt.Record)
	assert.Equal(t, datetz.Record{Timestamp: 1_701_237_600_000, Timezone: "Asia/Tokyo"}, doc.EndsAt.Record)

	mod := doc.ToModel()
	assert.NotEmpty(t, mod.ID)
	assert.JSONEq(t, `{"timestamp":1701234000000,"timezone":"Europe/Rome"}`, mod.StartsAt.String())
	assert.True(t, mod.EndsAt.Valid)
	assert.False(t, mod.CreatedAt.IsZero())
}

func TestCreateAppointmentRequest_CastTimezoneOverride(t *testing.T) {
	req := decodeCreate(t, `{"title":"standup","timezone":"America/New_York","starts_at":1}`)

	doc, err := req.Cast(newFields(t, false))
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", doc.StartsAt.Record.Timezone)
	assert.True(t, doc.EndsAt.IsAbsent())
	assert.False(t, doc.ToModel().EndsAt.Valid)
}

func TestCreateAppointmentRequest_CastErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "string without parsing", body: `{"title":"x","starts_at":"2025-11-01 22:35:00.00"}`},
		{name: "bool", body: `{"title":"x","starts_at":true}`},
		{name: "timezone only", body: `{"title":"x","starts_at":{"timezone":"UTC"}}`},
		{name: "ends before starts", body: `{"title":"x","starts_at":10,"ends_at":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decodeCreate(t, tt.body)

			_, err := req.Cast(newFields(t, false))
			require.Error(t, err)
			assert.Equal(t, 400, failure.GetCode(err))
		})
	}
}

func TestCreateAppointmentRequest_CastParsesStrings(t *testing.T) {
	req := decodeCreate(t, `{"title":"x","timezone":"Europe/London","starts_at":"2025-11-01 22:35:00.00"}`)

	doc, err := req.Cast(newFields(t, true))
	require.NoError(t, err)
	assert.Equal(t, int64(1_762_036_500_000), doc.StartsAt.Record.Timestamp)
}

func TestUpdateAppointmentRequest_Cast(t *testing.T) {
	fields := newFields(t, false)

	var req dto.UpdateAppointmentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"ends_at":null}`), &req))
	assert.False(t, req.IsEmpty())

	patch, err := req.Cast(fields)
	require.NoError(t, err)
	assert.True(t, patch.StartsAt.IsAbsent())
	assert.True(t, patch.EndsAt.IsNull())

	require.NoError(t, json.Unmarshal([]byte(`{"starts_at":null}`), &req))

	_, err = req.Cast(fields)
	require.EqualError(t, err, "starts_at is required")

	var empty dto.UpdateAppointmentRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.IsEmpty())
}

func TestAppointmentResponse_FromModel(t *testing.T) {
	fields := newFields(t, false)

	mod := model.Appointment{
		ID:       "a1",
		Title:    "standup",
		StartsAt: types.JSONText(`{"timestamp":1762036500000,"timezone":"Europe/London"}`),
	}

	var res dto.AppointmentResponse
	res.FromModel(mod, fields)

	require.NotNil(t, res.StartsAt)
	assert.Equal(t, dto.DateTzResponse{
		Timestamp: 1_762_036_500_000,
		Timezone:  "Europe/London",
		Local:     "2025-11-01 22:35:00.00",
	}, *res.StartsAt)
	assert.Nil(t, res.EndsAt)
}

func TestAppointmentResponse_FromModelRecordMode(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.DateTz.ReadMode = string(field.ReadRecord)

	var res dto.AppointmentResponse
	res.FromModel(model.Appointment{
		StartsAt: types.JSONText(`{"timestamp":0,"timezone":"UTC"}`),
		EndsAt:   types.NullJSONText{JSONText: types.JSONText(`"legacy"`), Valid: true},
	}, model.NewFields(cfg))

	require.NotNil(t, res.StartsAt)
	assert.Equal(t, "1970-01-01 00:00:00.00", res.StartsAt.Local)
	assert.Nil(t, res.EndsAt)
}

func TestGetAppointmentsResponse_FromModels(t *testing.T) {
	var res dto.GetAppointmentsResponse
	res.FromModels([]model.Appointment{{ID: "a"}, {ID: "b"}}, newFields(t, false), 21, 10)

	assert.Len(t, res.Appointments, 2)
	assert.Equal(t, 3, res.TotalPage)
	assert.Equal(t, 21, res.TotalData)
	assert.Nil(t, res.Appointments[0].StartsAt)
}

func TestFiltersFromQuery(t *testing.T) {
	fields := newFields(t, false)

	group, err := dto.FiltersFromQuery(url.Values{
		"starts_from": {"100"},
		"starts_to":   {"200"},
		"title":       {"stand"},
	}, fields)
	require.NoError(t, err)

	where, args := group.GetWhereClause()
	assert.Equal(t,
		"(CAST(starts_at->>'timestamp' AS BIGINT) >= :starts_at_greater_eq AND "+
			"CAST(starts_at->>'timestamp' AS BIGINT) <= :starts_at_less_eq AND "+
			"LOWER(appointments.title) LIKE LOWER(:title) )",
		where,
	)
	assert.Equal(t, map[string]any{
		"starts_at_greater_eq": int64(100),
		"starts_at_less_eq":    int64(200),
		"title":                "%stand%",
	}, args)

	_, err = dto.FiltersFromQuery(url.Values{"starts_at": {"tomorrow"}}, fields)
	require.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))

	_, err = dto.FiltersFromQuery(url.Values{"starts_from": {"garbage"}}, fields)
	require.Error(t, err)

	var castErr *failure.CastError
	require.True(t, errors.As(err, &castErr))
	assert.Equal(t, "starts_at", castErr.Field)
	assert.Equal(t, "garbage", castErr.Value)
	assert.Equal(t, 400, failure.GetCode(err))

	group, err = dto.FiltersFromQuery(url.Values{}, fields)
	require.NoError(t, err)
	assert.Empty(t, group.Filters)
}

func TestCastResponse_FromStored(t *testing.T) {
	f := newFields(t, false).StartsAt

	stored, err := f.CastOnWrite(int64(0))
	require.NoError(t, err)

	var res dto.CastResponse
	res.FromStored(stored, f)

	assert.Equal(t, "value", res.State)
	require.NotNil(t, res.Record)
	assert.Equal(t, datetz.Record{Timestamp: 0, Timezone: "Europe/Rome"}, *res.Record)
	require.NotNil(t, res.Value)
	assert.Equal(t, "1970-01-01 01:00:00.00", res.Value.Local)

	res = dto.CastResponse{}
	res.FromStored(field.Stored{State: datetz.StateNull}, f)
	assert.Equal(t, "null", res.State)
	assert.Nil(t, res.Record)
}
