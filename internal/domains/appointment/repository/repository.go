package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"tempo/infras/otel"
	"tempo/infras/postgres"
	"tempo/internal/domains/appointment/model"
	gDto "tempo/shared/dto"
	gRepo "tempo/shared/repository"
)

type Appointment interface {
	Insert(ctx context.Context, model model.Appointment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Appointment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Appointment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Appointment]
}

func New(db *postgres.Connection, otel otel.Otel, fields model.Fields) Appointment {
	repo := &repositoryImpl{
		Repository: gRepo.NewRepository[model.Appointment](model.EntityName, model.TableName, model.FieldID, db, otel),
	}

	// datetz columns sort by instant, not by document
	repo.SortBy(model.FieldStartsAt, fields.StartsAt.Instant())
	repo.SortBy(model.FieldEndsAt, fields.EndsAt.Instant())

	return repo
}
