package model

import (
	"fmt"
	"strings"
	"time"

	"carrental/shared/failure"
	"carrental/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                = "id"
	FieldUserID            = "user_id"
	FieldCarID             = "car_id"
	FieldStartDate         = "start_date"
	FieldEndDate           = "end_date"
	FieldPlannedPickupTime = "planned_pickup_time"
	FieldPickupDate        = "pickup_date"
	FieldReturnDate        = "return_date"
	FieldTotalCost         = "total_cost"
	FieldCurrencyCode      = "currency_code"
	FieldExchangeRate      = "exchange_rate"
	FieldStatus            = "status"
)

type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
	StatusOverdue   Status = "OVERDUE"
)

// LiveStatuses are the statuses that count toward overlap exclusion.
var LiveStatuses = []string{string(StatusPlanned), string(StatusActive)}

// ParseStatus normalizes a status string case-insensitively.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPlanned:
		return StatusPlanned, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCanceled:
		return StatusCanceled, nil
	case StatusOverdue:
		return StatusOverdue, nil
	default:
		return "", failure.BadRequestFromString(fmt.Sprintf("unknown booking status: %s", raw))
	}
}

// IsTerminal reports whether no further updates are permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// IsLive reports whether the booking counts toward overlap exclusion.
func (s Status) IsLive() bool {
	return s == StatusPlanned || s == StatusActive
}

type Booking struct {
	ID                string          `db:"id"`
	UserID            string          `db:"user_id"`
	CarID             string          `db:"car_id"`
	StartDate         time.Time       `db:"start_date"`
	EndDate           time.Time       `db:"end_date"`
	PlannedPickupTime time.Time       `db:"planned_pickup_time"`
	PickupDate        *time.Time      `db:"pickup_date"`
	ReturnDate        *time.Time      `db:"return_date"`
	TotalCost         decimal.Decimal `db:"total_cost"`
	CurrencyCode      string          `db:"currency_code"`
	ExchangeRate      decimal.Decimal `db:"exchange_rate"`
	Status            Status          `db:"status"`
	model.Metadata
}
