package dto

import (
	"time"

	"carrental/internal/domains/booking/model"
	"carrental/shared/constant"
	gDto "carrental/shared/dto"
	gModel "carrental/shared/model"
	"carrental/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	CarID             string `json:"car_id"              validate:"required,uuid"`
	StartDate         string `json:"start_date"          validate:"required,datetime=2006-01-02"`
	EndDate           string `json:"end_date"            validate:"required,datetime=2006-01-02"`
	PlannedPickupTime string `json:"planned_pickup_time" validate:"required,datetime=15:04"`
	CurrencyCode      string `json:"currency_code"       validate:"required,len=3"`
}

// Dates parses the request's calendar fields. Validation has already
// pinned the formats, so parse errors only surface malformed values that
// slipped past the datetime tag.
func (c *CreateBookingRequest) Dates() (start, end, pickupTime time.Time, err error) {
	start, err = time.Parse(constant.DateOnlyFormat, c.StartDate)
	if err != nil {
		return start, end, pickupTime, err
	}

	end, err = time.Parse(constant.DateOnlyFormat, c.EndDate)
	if err != nil {
		return start, end, pickupTime, err
	}

	pickupTime, err = time.Parse(constant.TimeOfDayFormat, c.PlannedPickupTime)

	return start, end, pickupTime, err
}

func (c *CreateBookingRequest) ToModel(user, currencyCode string, start, end, pickupTime time.Time, totalCost, exchangeRate decimal.Decimal) model.Booking {
	return model.Booking{
		ID:                uuid.NewString(),
		UserID:            user,
		CarID:             c.CarID,
		StartDate:         start,
		EndDate:           end,
		PlannedPickupTime: pickupTime,
		TotalCost:         totalCost,
		CurrencyCode:      currencyCode,
		ExchangeRate:      exchangeRate,
		Status:            model.StatusPlanned,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateBookingRequest carries a partial update. Empty strings mean the
// field was not supplied.
type UpdateBookingRequest struct {
	StartDate  string `json:"start_date"  validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date"    validate:"omitempty,datetime=2006-01-02"`
	Status     string `json:"status"      validate:"omitempty"`
	PickupDate string `json:"pickup_date" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate string `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return u.StartDate == constant.Empty &&
		u.EndDate == constant.Empty &&
		u.Status == constant.Empty &&
		u.PickupDate == constant.Empty &&
		u.ReturnDate == constant.Empty
}

type BookingResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	CarID             string  `json:"car_id"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	PlannedPickupTime string  `json:"planned_pickup_time"`
	PickupDate        *string `json:"pickup_date"`
	ReturnDate        *string `json:"return_date"`
	TotalCost         string  `json:"total_cost"`
	CurrencyCode      string  `json:"currency_code"`
	ExchangeRate      string  `json:"exchange_rate"`
	DisplayAmount     string  `json:"display_amount"`
	Status            string  `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.UserID = booking.UserID
	r.CarID = booking.CarID
	r.StartDate = booking.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = booking.EndDate.Format(constant.DateOnlyFormat)
	r.PlannedPickupTime = booking.PlannedPickupTime.Format(constant.TimeOfDayFormat)
	r.PickupDate = formatDatePtr(booking.PickupDate)
	r.ReturnDate = formatDatePtr(booking.ReturnDate)
	r.TotalCost = booking.TotalCost.StringFixed(2)
	r.CurrencyCode = booking.CurrencyCode
	r.ExchangeRate = booking.ExchangeRate.String()
	r.DisplayAmount = booking.TotalCost.Mul(booking.ExchangeRate).RoundBank(2).StringFixed(2)
	r.Status = string(booking.Status)
	r.Metadata.FromModel(booking.Metadata)
}

func formatDatePtr(date *time.Time) *string {
	if date == nil {
		return nil
	}

	formatted := date.Format(constant.DateOnlyFormat)

	return &formatted
}
