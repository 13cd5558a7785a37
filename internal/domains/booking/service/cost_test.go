package service_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental/internal/domains/booking/service"
	"carrental/shared/failure"
)

func date(value string) time.Time {
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{name: "five day rental", start: "2025-06-01", end: "2025-06-05", want: 5},
		{name: "single day counts as one", start: "2025-06-01", end: "2025-06-01", want: 1},
		{name: "across month boundary", start: "2025-06-28", end: "2025-07-02", want: 5},
		{name: "inverted range", start: "2025-06-05", end: "2025-06-01", want: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.DurationDays(date(tt.start), date(tt.end)))
		})
	}
}

func TestTotalCost(t *testing.T) {
	t.Run("rate times inclusive days", func(t *testing.T) {
		got, err := service.TotalCost(decimal.RequireFromString("50.00"), date("2025-06-01"), date("2025-06-05"))

		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString("250.00")), got.String())
	})

	t.Run("three day rental", func(t *testing.T) {
		got, err := service.TotalCost(decimal.RequireFromString("50.00"), date("2025-06-06"), date("2025-06-08"))

		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString("150.00")), got.String())
	})

	t.Run("end before start fails", func(t *testing.T) {
		_, err := service.TotalCost(decimal.RequireFromString("50.00"), date("2025-06-05"), date("2025-06-01"))

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestDisplayAmount(t *testing.T) {
	tests := []struct {
		name string
		base string
		rate string
		want string
	}{
		{name: "plain conversion", base: "250.00", rate: "0.9234", want: "230.85"},
		{name: "identity rate", base: "250.00", rate: "1", want: "250"},
		{name: "half even rounds down to even", base: "1.00", rate: "2.345", want: "2.34"},
		{name: "half even rounds up to even", base: "1.00", rate: "2.355", want: "2.36"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.DisplayAmount(decimal.RequireFromString(tt.base), decimal.RequireFromString(tt.rate))

			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), got.String())
		})
	}
}
