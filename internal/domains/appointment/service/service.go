package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tempo/config"
	"tempo/infras/otel"
	"tempo/internal/domains/appointment/model"
	"tempo/internal/domains/appointment/model/dto"
	"tempo/internal/domains/appointment/repository"
	"tempo/shared"
	"tempo/shared/cache"
	"tempo/shared/constant"
	"tempo/shared/datetz"
	gDto "tempo/shared/dto"
	"tempo/shared/failure"
	"tempo/shared/field"
	"tempo/shared/validator"
)

const (
	cacheGetAppointment    = "appointment:get"
	cacheGetAllAppointment = "appointment:gets"
	cacheCountAppointment  = "appointment:count"

	errNotFound = "appointment not found"
)

type Appointment interface {
	Create(ctx context.Context, req dto.CreateAppointmentRequest) (dto.AppointmentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAppointmentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.AppointmentResponse, error)
	Update(ctx context.Context, req dto.UpdateAppointmentRequest, id string) error
	Delete(ctx context.Context, id string) error
	Cast(ctx context.Context, req dto.CastRequest) (dto.CastResponse, error)
}

type serviceImpl struct {
	repo   repository.Appointment
	fields model.Fields
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(repo repository.Appointment, fields model.Fields, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Appointment {
	return &serviceImpl{
		repo:   repo,
		fields: fields,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAppointmentRequest) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	doc, err := req.Cast(s.fields)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&doc); err != nil {
		return res, err //nolint:wrapcheck
	}

	appointment := doc.ToModel()

	if err = s.repo.Insert(ctx, appointment); err != nil {
		log.Error().Err(err).Msg("failed to create appointment")

		return res, fmt.Errorf("failed to create appointment: %w", err)
	}

	scope.SetAttribute("appointment.id", appointment.ID)
	res.FromModel(appointment, s.fields)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllAppointment)
		shared.InvalidateCaches(c, s.cache, cacheCountAppointment)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAppointmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAppointment, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for appointments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointments")

		return res, fmt.Errorf("failed to get appointments: %w", err)
	}

	res.FromModels(models, s.fields, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountAppointment, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for appointment count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetAppointment, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for appointment")

		return res, nil
	}

	appointment, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(appointment, s.fields)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointment to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return appointment, fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return appointment, failure.NotFound(errNotFound) //nolint:wrapcheck
	}

	return appointment, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAppointmentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	patch, err := req.Cast(s.fields)
	if err != nil {
		return err //nolint:wrapcheck
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	startsAt := merged(s.fields.StartsAt, patch.StartsAt, current.StartsAt)
	endsAt := merged(s.fields.EndsAt, patch.EndsAt, current.EndsAt)

	if err = dto.CheckOrder(startsAt, endsAt); err != nil {
		return err //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.TransformFields(patch), filter); err != nil {
		log.Error().Err(err).Msg("failed to update appointment")

		return fmt.Errorf("failed to update appointment: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// merged returns the patched value, or the stored one when the patch leaves
// the field alone.
func merged(f field.Field, patched field.Stored, stored any) field.Stored {
	if !patched.IsAbsent() {
		return patched
	}

	switch v := f.CastOnRead(stored).(type) {
	case datetz.DateTz:
		return field.Stored{State: datetz.StateValue, Record: datetz.ToRecord(v)}
	case datetz.Record:
		return field.Stored{State: datetz.StateValue, Record: v}
	default:
		return field.Stored{}
	}
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if appointment exists")

		return fmt.Errorf("failed to check if appointment exists: %w", err)
	}

	if !exist {
		return failure.NotFound(errNotFound) //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete appointment")

		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetAppointment, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete appointment from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllAppointment)
		shared.InvalidateCaches(c, s.cache, cacheCountAppointment)
	}()
}

// Cast previews how the starts_at field would store an arbitrary input.
func (s *serviceImpl) Cast(ctx context.Context, req dto.CastRequest) (res dto.CastResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cast")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	f := s.fields.StartsAt
	if req.Timezone != "" {
		f = f.WithTimezone(req.Timezone)
	}

	stored, err := f.CastOnWrite(req.Value.Raw())
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	attributes := map[string]any{
		"datetz.state":    stored.State,
		"datetz.timezone": f.Timezone(),
	}
	if stored.State == datetz.StateValue {
		attributes["datetz.timestamp"] = stored.Record.Timestamp
		attributes["datetz.timezone"] = stored.Record.Timezone
	}

	scope.SetAttributes(attributes)
	res.FromStored(stored, f)

	return res, nil
}
