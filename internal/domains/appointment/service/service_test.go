package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tempo/config"
	"tempo/infras/otel/mocks"
	appointmentMocks "tempo/internal/domains/appointment/mocks"
	"tempo/internal/domains/appointment/model"
	"tempo/internal/domains/appointment/model/dto"
	"tempo/internal/domains/appointment/service"
	cacheMocks "tempo/shared/cache/mocks"
	gDto "tempo/shared/dto"
	"tempo/shared/failure"
	"tempo/shared/field"
)

var errCacheMiss = errors.New("cache miss")

type fixture struct {
	repo  *appointmentMocks.MockAppointment
	cache *cacheMocks.MockRedisCache
	svc   service.Appointment
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.App.Timezone = "Europe/Rome"

	repo := appointmentMocks.NewMockAppointment(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	// cache writes happen in the background
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return fixture{
		repo:  repo,
		cache: cache,
		svc:   service.New(repo, model.NewFields(cfg), cfg, cache, mocks.NewOtel()),
	}
}

func TestAppointmentService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateAppointmentRequest
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateAppointmentRequest{
				Title:    "standup",
				StartsAt: field.NewInput(int64(1_701_234_000_000)),
			},
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mod model.Appointment) error {
						assert.JSONEq(t, `{"timestamp":1701234000000,"timezone":"Europe/Rome"}`, mod.StartsAt.String())
						assert.False(t, mod.EndsAt.Valid)

						return nil
					})
			},
		},
		{
			name: "missing starts_at",
			req: dto.CreateAppointmentRequest{
				Title: "standup",
			},
			setupMock: func(_ fixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "null starts_at",
			req: dto.CreateAppointmentRequest{
				Title:    "standup",
				StartsAt: field.NewInput(nil),
			},
			setupMock: func(_ fixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "uncoercible starts_at",
			req: dto.CreateAppointmentRequest{
				Title:    "standup",
				StartsAt: field.NewInput(true),
			},
			setupMock: func(_ fixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "repository error",
			req: dto.CreateAppointmentRequest{
				Title:    "standup",
				StartsAt: field.NewInput(int64(1)),
			},
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr:  true,
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			require.NotNil(t, res.StartsAt)
			assert.Equal(t, "Europe/Rome", res.StartsAt.Timezone)
			assert.Nil(t, res.EndsAt)
		})
	}
}

func TestAppointmentService_Get(t *testing.T) {
	stored := model.Appointment{
		ID:       "a1",
		Title:    "standup",
		StartsAt: types.JSONText(`{"timestamp":1762036500000,"timezone":"Europe/London"}`),
	}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "cache hit",
			setupMock: func(f fixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), "appointment:get:a1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res, ok := value.(*dto.AppointmentResponse)
						require.True(t, ok)
						res.ID = "a1"
						res.StartsAt = &dto.DateTzResponse{Timezone: "Europe/London"}

						return nil
					})
			},
		},
		{
			name: "cache miss",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Appointment{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Appointment{}, errors.New("database error"))
			},
			wantErr:  true,
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "a1")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "a1", res.ID)
			require.NotNil(t, res.StartsAt)
			assert.Equal(t, "Europe/London", res.StartsAt.Timezone)
		})
	}
}

func TestAppointmentService_GetAll(t *testing.T) {
	f := newFixture(t)

	params := gDto.QueryParams{Page: 1, Limit: 10}
	filter := gDto.FilterGroup{}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), filter).Return(11, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, filter).Return([]model.Appointment{
		{ID: "a1", StartsAt: types.JSONText(`{"timestamp":0,"timezone":"UTC"}`)},
		{ID: "a2", StartsAt: types.JSONText(`{"timestamp":1,"timezone":"UTC"}`)},
	}, nil)

	res, err := f.svc.GetAll(context.Background(), params, filter)
	require.NoError(t, err)
	assert.Len(t, res.Appointments, 2)
	assert.Equal(t, 2, res.TotalPage)
	assert.Equal(t, 11, res.TotalData)
	assert.Equal(t, "1970-01-01 00:00:00.00", res.Appointments[0].StartsAt.Local)
}

func TestAppointmentService_GetAllCountError(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))

	_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	require.Error(t, err)
}

func TestAppointmentService_Update(t *testing.T) {
	current := model.Appointment{
		ID:       "a1",
		StartsAt: types.JSONText(`{"timestamp":1000,"timezone":"UTC"}`),
		EndsAt:   types.NullJSONText{JSONText: types.JSONText(`{"timestamp":2000,"timezone":"UTC"}`), Valid: true},
	}

	tests := []struct {
		name      string
		req       dto.UpdateAppointmentRequest
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "title only",
			req:  dto.UpdateAppointmentRequest{Title: "retro"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, values map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "retro", values[model.FieldTitle])
						assert.NotContains(t, values, model.FieldStartsAt)
						assert.NotContains(t, values, model.FieldEndsAt)

						return nil
					})
			},
		},
		{
			name: "clear ends_at",
			req:  dto.UpdateAppointmentRequest{EndsAt: field.NewInput(nil)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, values map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, types.NullJSONText{}, values[model.FieldEndsAt])

						return nil
					})
			},
		},
		{
			name:      "empty request",
			req:       dto.UpdateAppointmentRequest{},
			setupMock: func(_ fixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name:      "null starts_at",
			req:       dto.UpdateAppointmentRequest{StartsAt: field.NewInput(nil)},
			setupMock: func(_ fixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "starts after stored end",
			req:  dto.UpdateAppointmentRequest{StartsAt: field.NewInput(int64(5000))},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "not found",
			req:  dto.UpdateAppointmentRequest{Title: "retro"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Appointment{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			req:  dto.UpdateAppointmentRequest{Title: "retro"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr:  true,
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(context.Background(), tt.req, "a1")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestAppointmentService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "successful deletion",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "exist error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))
			},
			wantErr:  true,
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(context.Background(), "a1")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestAppointmentService_Cast(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Cast(context.Background(), dto.CastRequest{
		Timezone: "Asia/Tokyo",
		Value:    field.NewInput(int64(0)),
	})
	require.NoError(t, err)
	assert.Equal(t, "value", res.State)
	require.NotNil(t, res.Record)
	assert.Equal(t, "Asia/Tokyo", res.Record.Timezone)

	res, err = f.svc.Cast(context.Background(), dto.CastRequest{})
	require.NoError(t, err)
	assert.Equal(t, "absent", res.State)
	assert.Nil(t, res.Record)

	_, err = f.svc.Cast(context.Background(), dto.CastRequest{Value: field.NewInput(true)})
	require.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))
}
