package service

import (
	"fmt"
	"time"

	"carrental/shared/failure"

	"github.com/shopspring/decimal"
)

// DurationDays returns the inclusive number of rental days in
// [start, end]. A single-day rental counts as one day.
func DurationDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// TotalCost computes the base-currency price for the inclusive range.
func TotalCost(dailyRate decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	days := DurationDays(start, end)
	if days < 1 {
		return decimal.Decimal{}, failure.BadRequestFromString(fmt.Sprintf(
			"invalid booking period: end date %s is before start date %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly),
		))
	}

	return dailyRate.Mul(decimal.NewFromInt(int64(days))), nil
}

// DisplayAmount converts a base amount with a captured exchange rate,
// rounded half-even to cents.
func DisplayAmount(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).RoundBank(2)
}
