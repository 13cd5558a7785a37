package service

import (
	"context"
	"fmt"
	"time"

	"carrental/config"
	"carrental/infras/kafka"
	"carrental/infras/otel"
	"carrental/internal/domains/booking/model"
	"carrental/internal/domains/booking/model/dto"
	"carrental/internal/domains/booking/repository"
	carModel "carrental/internal/domains/car/model"
	carRepo "carrental/internal/domains/car/repository"
	"carrental/internal/domains/currency"
	"carrental/shared"
	"carrental/shared/cache"
	"carrental/shared/constant"
	"carrental/shared/failure"
	"carrental/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheGetBooking = "booking:get"

const sweepActor = "overdue-sweep"

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	MarkOverdue(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo    repository.Booking
	carRepo carRepo.Car
	rates   currency.Rates
	cfg     *config.Config
	cache   cache.RedisCache
	kafka   kafka.Client
	otel    otel.Otel
	locker  carLocker
}

func New(repo repository.Booking, carRepo carRepo.Car, rates currency.Rates, cfg *config.Config, cache cache.RedisCache, kafkaClient kafka.Client, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:    repo,
		carRepo: carRepo,
		rates:   rates,
		cfg:     cfg,
		cache:   cache,
		kafka:   kafkaClient,
		otel:    otel,
	}
}

// todayDate is the current calendar date at UTC midnight, comparable
// with parsed request dates.
func todayDate() time.Time {
	now := timezone.Now().UTC()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	start, end, pickupTime, err := req.Dates()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking dates")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) //nolint:wrapcheck
	}

	if !start.After(todayDate()) {
		return res, failure.BadRequestFromString(fmt.Sprintf("start date %s must be tomorrow or later", req.StartDate)) //nolint:wrapcheck
	}

	car, err := s.carRepo.Get(ctx, shared.FilterByID(req.CarID, carModel.FieldID, carModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get car")

		return res, fmt.Errorf("failed to get car: %w", err)
	}

	if car.ID == constant.Empty {
		return res, failure.NotFound(fmt.Sprintf("car %s not found", req.CarID)) //nolint:wrapcheck
	}

	if !car.Available {
		return res, failure.Conflict(fmt.Sprintf("car %s is not available for booking", car.ID)) //nolint:wrapcheck
	}

	totalCost, err := TotalCost(car.DailyRate, start, end)
	if err != nil {
		return res, err
	}

	unlock := s.locker.lock(car.ID)
	defer unlock()

	overlaps, err := s.repo.Overlaps(ctx, car.ID, start, end, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking overlap")

		return res, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if overlaps {
		return res, failure.Conflict(fmt.Sprintf("car %s is already booked between %s and %s", car.ID, req.StartDate, req.EndDate)) //nolint:wrapcheck
	}

	currencyCode, err := currency.Normalize(req.CurrencyCode)
	if err != nil {
		return res, err
	}

	rate, err := s.rates.Rate(ctx, currency.BaseCurrency, currencyCode)
	if err != nil {
		log.Error().Err(err).Str("currencyCode", currencyCode).Msg("failed to fetch exchange rate")

		return res, err
	}

	booking := req.ToModel(user, currencyCode, start, end, pickupTime, totalCost, rate)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.publishEvent(c, eventBookingCreated, booking)
	}()

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("no updatable fields supplied") //nolint:wrapcheck
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound(fmt.Sprintf("booking %s not found", id)) //nolint:wrapcheck
	}

	car, err := s.carRepo.Get(ctx, shared.FilterByID(booking.CarID, carModel.FieldID, carModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get car")

		return res, fmt.Errorf("failed to get car: %w", err)
	}

	if car.ID == constant.Empty {
		return res, failure.NotFound(fmt.Sprintf("car %s not found", booking.CarID)) //nolint:wrapcheck
	}

	today := todayDate()

	plan, err := newUpdatePlan(booking, req, today)
	if err != nil {
		return res, err
	}

	unlock := s.locker.lock(booking.CarID)
	defer unlock()

	if plan.rangeChanged() {
		overlaps, err := s.repo.Overlaps(ctx, booking.CarID, plan.start, plan.end, booking.ID)
		if err != nil {
			log.Error().Err(err).Msg("failed to check booking overlap")

			return res, fmt.Errorf("failed to check booking overlap: %w", err)
		}

		if overlaps {
			return res, failure.Conflict(fmt.Sprintf(
				"the updated period %s to %s conflicts with another booking for car %s",
				plan.start.Format(constant.DateOnlyFormat), plan.end.Format(constant.DateOnlyFormat), booking.CarID,
			)) //nolint:wrapcheck
		}
	}

	totalCost, err := TotalCost(car.DailyRate, plan.start, plan.end)
	if err != nil {
		return res, err
	}

	if err = plan.validateDates(today); err != nil {
		return res, err
	}

	if err = s.repo.Update(ctx, plan.changes(totalCost, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	booking.StartDate = plan.start
	booking.EndDate = plan.end
	booking.PickupDate = plan.pickup
	booking.ReturnDate = plan.ret
	booking.TotalCost = totalCost
	booking.Status = plan.status
	booking.ModifiedAt = timezone.Now()
	booking.ModifiedBy = user

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to invalidate booking cache")
		}

		s.publishEvent(c, eventBookingUpdated, booking)
	}()

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		if role != constant.RoleAdmin && res.UserID != user {
			return dto.BookingResponse{}, failure.ResourceRestrictedError
		}

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound(fmt.Sprintf("booking %s not found", id)) //nolint:wrapcheck
	}

	if role != constant.RoleAdmin && booking.UserID != user {
		return res, failure.ResourceRestrictedError
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// MarkOverdue moves every ACTIVE booking whose period ended before
// today with no recorded return to OVERDUE. It returns the number of
// bookings moved.
func (s *serviceImpl) MarkOverdue(ctx context.Context) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkOverdue")
	defer scope.End()
	defer scope.TraceIfError(err)

	candidates, err := s.repo.FindOverdueCandidates(ctx, todayDate())
	if err != nil {
		log.Error().Err(err).Msg("failed to find overdue candidates")

		return 0, fmt.Errorf("failed to find overdue candidates: %w", err)
	}

	for _, booking := range candidates {
		fields := map[string]any{
			model.FieldStatus:        string(model.StatusOverdue),
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: sweepActor,
		}

		if err = s.repo.Update(ctx, fields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to mark booking overdue")

			return count, fmt.Errorf("failed to mark booking overdue: %w", err)
		}

		booking.Status = model.StatusOverdue
		count++

		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to invalidate booking cache")
		}

		s.publishEvent(c, eventBookingOverdue, booking)
	}

	return count, nil
}
