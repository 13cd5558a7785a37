package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"carrental/infras/otel"
	"carrental/infras/postgres"
	"carrental/internal/domains/booking/model"
	gDto "carrental/shared/dto"
	gRepo "carrental/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Overlaps(ctx context.Context, carID string, start, end time.Time, excludeID string) (bool, error)
	FindOverdueCandidates(ctx context.Context, today time.Time) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Overlaps reports whether any live booking for the car intersects the
// inclusive date range. Pass excludeID to leave the booking being
// updated out of the check.
func (r *repositoryImpl) Overlaps(ctx context.Context, carID string, start, end time.Time, excludeID string) (bool, error) {
	filters := []any{
		gDto.Filter{Field: model.FieldCarID, Value: carID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: model.LiveStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		gDto.Filter{ArgName: "range_end", Field: model.FieldStartDate, Value: end, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		gDto.Filter{ArgName: "range_start", Field: model.FieldEndDate, Value: start, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
	}

	if excludeID != "" {
		filters = append(filters, gDto.Filter{ArgName: "exclude_id", Field: model.FieldID, Value: excludeID, Operator: gDto.FilterOperatorNotEq, Table: model.TableName})
	}

	return r.Exist(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	})
}

// FindOverdueCandidates lists ACTIVE bookings whose rental period ended
// before today with no recorded return.
func (r *repositoryImpl) FindOverdueCandidates(ctx context.Context, today time.Time) ([]model.Booking, error) {
	return r.GetAll(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: string(model.StatusActive), Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "period_end", Field: model.FieldEndDate, Value: today.AddDate(0, 0, -1), Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldReturnDate, Operator: gDto.FilterIsNull, Table: model.TableName},
		},
	})
}
