package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"carrental/config"
	"carrental/infras/kafka"
	kafkaMocks "carrental/infras/kafka/mocks"
	otelMocks "carrental/infras/otel/mocks"
	bookingMocks "carrental/internal/domains/booking/mocks"
	"carrental/internal/domains/booking/model"
	"carrental/internal/domains/booking/model/dto"
	"carrental/internal/domains/booking/service"
	carMocks "carrental/internal/domains/car/mocks"
	carModel "carrental/internal/domains/car/model"
	currencyMocks "carrental/internal/domains/currency/mocks"
	cacheMocks "carrental/shared/cache/mocks"
	"carrental/shared/constant"
	gDto "carrental/shared/dto"
	"carrental/shared/failure"
	gModel "carrental/shared/model"
)

type serviceFixture struct {
	repo    *bookingMocks.MockBooking
	carRepo *carMocks.MockCar
	rates   *currencyMocks.MockRates
	cache   *cacheMocks.MockRedisCache
	kafka   *kafkaMocks.MockClient
	svc     service.Booking
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topic.BookingEvents = "booking-events"

	f := &serviceFixture{
		repo:    bookingMocks.NewMockBooking(ctrl),
		carRepo: carMocks.NewMockCar(ctrl),
		rates:   currencyMocks.NewMockRates(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
		kafka:   kafkaMocks.NewMockClient(ctrl),
	}
	f.svc = service.New(f.repo, f.carRepo, f.rates, cfg, f.cache, f.kafka, otelMocks.NewOtel())

	return f
}

// expectEvent arms the kafka mock and returns a wait func for the
// publish goroutine.
func (f *serviceFixture) expectEvent() func() {
	var wg sync.WaitGroup
	wg.Add(1)

	f.kafka.EXPECT().
		SendMessages(gomock.Any(), "booking-events", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ ...kafka.Message) error {
			wg.Done()

			return nil
		})

	return wg.Wait
}

func (f *serviceFixture) expectCacheDelete(key string) func() {
	var wg sync.WaitGroup
	wg.Add(1)

	f.cache.EXPECT().
		Delete(gomock.Any(), key).
		DoAndReturn(func(_ context.Context, _ string) error {
			wg.Done()

			return nil
		})

	return wg.Wait
}

func todayUTC() time.Time {
	now := time.Now().UTC()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func userContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func availableCar() carModel.Car {
	return carModel.Car{
		ID:        "car-1",
		Name:      "Corolla",
		Model:     "2023",
		DailyRate: decimal.RequireFromString("50.00"),
		Available: true,
	}
}

func storedPlannedBooking() model.Booking {
	today := todayUTC()

	return model.Booking{
		ID:           "booking-1",
		UserID:       "user-1",
		CarID:        "car-1",
		StartDate:    today.AddDate(0, 0, -2),
		EndDate:      today.AddDate(0, 0, 2),
		TotalCost:    decimal.RequireFromString("250.00"),
		CurrencyCode: "EUR",
		ExchangeRate: decimal.RequireFromString("0.9234"),
		Status:       model.StatusPlanned,
		Metadata: gModel.Metadata{
			CreatedBy:  "user-1",
			ModifiedBy: "user-1",
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	today := todayUTC()
	start := today.AddDate(0, 0, 1)
	end := today.AddDate(0, 0, 5)

	validReq := dto.CreateBookingRequest{
		CarID:             "car-1",
		StartDate:         start.Format(constant.DateOnlyFormat),
		EndDate:           end.Format(constant.DateOnlyFormat),
		PlannedPickupTime: "10:00",
		CurrencyCode:      "EUR",
	}

	t.Run("successful creation", func(t *testing.T) {
		f := newFixture(t)

		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCar(), nil)
		f.repo.EXPECT().
			Overlaps(gomock.Any(), "car-1", start, end, "").
			Return(false, nil)
		f.rates.EXPECT().
			Rate(gomock.Any(), "USD", "EUR").
			Return(decimal.RequireFromString("0.9234"), nil)

		var inserted model.Booking

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Booking) error {
				inserted = b

				return nil
			})

		wait := f.expectEvent()

		res, err := f.svc.Create(userContext("user-1", constant.RoleUser), validReq)
		wait()

		require.NoError(t, err)
		assert.Equal(t, string(model.StatusPlanned), res.Status)
		assert.Equal(t, "250.00", res.TotalCost)
		assert.Equal(t, "230.85", res.DisplayAmount)
		assert.Equal(t, "EUR", res.CurrencyCode)

		assert.NotEmpty(t, inserted.ID)
		assert.Equal(t, "user-1", inserted.UserID)
		assert.True(t, inserted.TotalCost.Equal(decimal.RequireFromString("250.00")))
		assert.Equal(t, model.StatusPlanned, inserted.Status)
	})

	t.Run("car not found", func(t *testing.T) {
		f := newFixture(t)

		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(carModel.Car{}, nil)

		_, err := f.svc.Create(userContext("user-1", constant.RoleUser), validReq)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("car not available", func(t *testing.T) {
		f := newFixture(t)

		car := availableCar()
		car.Available = false

		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(car, nil)

		_, err := f.svc.Create(userContext("user-1", constant.RoleUser), validReq)

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("overlapping booking rejected", func(t *testing.T) {
		f := newFixture(t)

		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCar(), nil)
		f.repo.EXPECT().
			Overlaps(gomock.Any(), "car-1", start, end, "").
			Return(true, nil)

		_, err := f.svc.Create(userContext("user-1", constant.RoleUser), validReq)

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("start date must be tomorrow or later", func(t *testing.T) {
		f := newFixture(t)

		req := validReq
		req.StartDate = today.Format(constant.DateOnlyFormat)

		_, err := f.svc.Create(userContext("user-1", constant.RoleUser), req)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("inverted range rejected without a conflict query", func(t *testing.T) {
		f := newFixture(t)

		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCar(), nil)

		req := validReq
		req.StartDate = end.Format(constant.DateOnlyFormat)
		req.EndDate = start.Format(constant.DateOnlyFormat)

		_, err := f.svc.Create(userContext("user-1", constant.RoleUser), req)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unsupported currency rejected", func(t *testing.T) {
		f := newFixture(t)

		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCar(), nil)
		f.repo.EXPECT().
			Overlaps(gomock.Any(), "car-1", start, end, "").
			Return(false, nil)

		req := validReq
		req.CurrencyCode = "XXX"

		_, err := f.svc.Create(userContext("user-1", constant.RoleUser), req)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("exchange rate unavailable fails the request", func(t *testing.T) {
		f := newFixture(t)

		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCar(), nil)
		f.repo.EXPECT().
			Overlaps(gomock.Any(), "car-1", start, end, "").
			Return(false, nil)
		f.rates.EXPECT().
			Rate(gomock.Any(), "USD", "EUR").
			Return(decimal.Decimal{}, failure.ServiceUnavailable("currency service is unavailable"))

		_, err := f.svc.Create(userContext("user-1", constant.RoleUser), validReq)

		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
	})
}

func TestBookingService_Update(t *testing.T) {
	today := todayUTC()

	t.Run("explicit activation derives pickup date", func(t *testing.T) {
		f := newFixture(t)

		booking := storedPlannedBooking()

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCar(), nil)

		// No Overlaps expectation: an untouched period skips the
		// conflict query entirely.

		var fields map[string]any

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
				fields = req

				return nil
			})

		waitEvent := f.expectEvent()
		waitCache := f.expectCacheDelete("booking:get:booking-1")

		res, err := f.svc.Update(userContext("user-1", constant.RoleUser), dto.UpdateBookingRequest{Status: "ACTIVE"}, "booking-1")
		waitEvent()
		waitCache()

		require.NoError(t, err)
		assert.Equal(t, string(model.StatusActive), res.Status)
		require.NotNil(t, res.PickupDate)
		assert.Equal(t, today.Format(constant.DateOnlyFormat), *res.PickupDate)

		assert.Equal(t, string(model.StatusActive), fields[model.FieldStatus])
		assert.Contains(t, fields, model.FieldPickupDate)
	})

	t.Run("terminal booking rejected before any write", func(t *testing.T) {
		f := newFixture(t)

		booking := storedPlannedBooking()
		booking.Status = model.StatusCompleted

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCar(), nil)

		_, err := f.svc.Update(userContext("user-1", constant.RoleUser), dto.UpdateBookingRequest{Status: "ACTIVE"}, "booking-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("booking not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := f.svc.Update(userContext("user-1", constant.RoleUser), dto.UpdateBookingRequest{Status: "ACTIVE"}, "missing")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("empty update rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(userContext("user-1", constant.RoleUser), dto.UpdateBookingRequest{}, "booking-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("updated range conflicting with another booking", func(t *testing.T) {
		f := newFixture(t)

		booking := storedPlannedBooking()
		newEnd := today.AddDate(0, 0, 6)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCar(), nil)
		f.repo.EXPECT().
			Overlaps(gomock.Any(), "car-1", booking.StartDate, newEnd, "booking-1").
			Return(true, nil)

		_, err := f.svc.Update(userContext("user-1", constant.RoleUser), dto.UpdateBookingRequest{
			EndDate: newEnd.Format(constant.DateOnlyFormat),
		}, "booking-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("range change recomputes the total cost", func(t *testing.T) {
		f := newFixture(t)

		booking := storedPlannedBooking()
		newEnd := booking.StartDate.AddDate(0, 0, 6)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		f.carRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableCar(), nil)
		f.repo.EXPECT().
			Overlaps(gomock.Any(), "car-1", booking.StartDate, newEnd, "booking-1").
			Return(false, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		waitEvent := f.expectEvent()
		waitCache := f.expectCacheDelete("booking:get:booking-1")

		res, err := f.svc.Update(userContext("user-1", constant.RoleUser), dto.UpdateBookingRequest{
			EndDate: newEnd.Format(constant.DateOnlyFormat),
		}, "booking-1")
		waitEvent()
		waitCache()

		require.NoError(t, err)
		assert.Equal(t, "350.00", res.TotalCost)
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("owner reads own booking", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), "booking:get:booking-1", gomock.Any()).
			Return(errors.New("cache miss"))
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedPlannedBooking(), nil)

		var wg sync.WaitGroup
		wg.Add(1)

		f.cache.EXPECT().
			Save(gomock.Any(), "booking:get:booking-1", gomock.Any(), 3600).
			DoAndReturn(func(_ context.Context, _ string, _ any, _ int) error {
				wg.Done()

				return nil
			})

		res, err := f.svc.Get(userContext("user-1", constant.RoleUser), "booking-1")
		wg.Wait()

		require.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
		assert.Equal(t, "230.85", res.DisplayAmount)
	})

	t.Run("another user is denied", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), "booking:get:booking-1", gomock.Any()).
			Return(errors.New("cache miss"))
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedPlannedBooking(), nil)

		_, err := f.svc.Get(userContext("someone-else", constant.RoleUser), "booking-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("admin reads any booking", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), "booking:get:booking-1", gomock.Any()).
			Return(errors.New("cache miss"))
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedPlannedBooking(), nil)

		var wg sync.WaitGroup
		wg.Add(1)

		f.cache.EXPECT().
			Save(gomock.Any(), "booking:get:booking-1", gomock.Any(), 3600).
			DoAndReturn(func(_ context.Context, _ string, _ any, _ int) error {
				wg.Done()

				return nil
			})

		res, err := f.svc.Get(userContext("admin-1", constant.RoleAdmin), "booking-1")
		wg.Wait()

		require.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), "booking:get:missing", gomock.Any()).
			Return(errors.New("cache miss"))
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := f.svc.Get(userContext("user-1", constant.RoleUser), "missing")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_MarkOverdue(t *testing.T) {
	t.Run("moves qualifying bookings", func(t *testing.T) {
		f := newFixture(t)

		first := storedPlannedBooking()
		first.Status = model.StatusActive

		second := storedPlannedBooking()
		second.ID = "booking-2"
		second.Status = model.StatusActive

		f.repo.EXPECT().
			FindOverdueCandidates(gomock.Any(), gomock.Any()).
			Return([]model.Booking{first, second}, nil)

		var updated []map[string]any

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
				updated = append(updated, req)

				return nil
			}).
			Times(2)
		f.cache.EXPECT().
			Delete(gomock.Any(), "booking:get:booking-1").
			Return(nil)
		f.cache.EXPECT().
			Delete(gomock.Any(), "booking:get:booking-2").
			Return(nil)
		f.kafka.EXPECT().
			SendMessages(gomock.Any(), "booking-events", gomock.Any()).
			Return(nil).
			Times(2)

		count, err := f.svc.MarkOverdue(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		require.Len(t, updated, 2)
		assert.Equal(t, string(model.StatusOverdue), updated[0][model.FieldStatus])
	})

	t.Run("nothing to move", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			FindOverdueCandidates(gomock.Any(), gomock.Any()).
			Return(nil, nil)

		count, err := f.svc.MarkOverdue(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
