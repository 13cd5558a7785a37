package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"carrental/infras/otel"
	"carrental/infras/postgres"
	"carrental/internal/domains/car/model"
	gDto "carrental/shared/dto"
	gRepo "carrental/shared/repository"
)

type Car interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Car, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Car]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Car {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Car](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
