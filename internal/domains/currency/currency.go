package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"carrental/config"
	"carrental/infras/otel"
	"carrental/shared/constant"
	"carrental/shared/failure"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=./currency.go -destination=./mocks/currency_mock.go -package=mocks

// BaseCurrency is the currency every stored amount is denominated in.
const BaseCurrency = "USD"

var supported = map[string]struct{}{
	"USD": {}, "EUR": {}, "JPY": {}, "BGN": {}, "CZK": {}, "DKK": {},
	"GBP": {}, "HUF": {}, "PLN": {}, "RON": {}, "SEK": {}, "CHF": {},
	"ISK": {}, "NOK": {}, "TRY": {}, "AUD": {}, "BRL": {}, "CAD": {},
	"CNY": {}, "HKD": {}, "IDR": {}, "ILS": {}, "INR": {}, "KRW": {},
	"MXN": {}, "MYR": {}, "NZD": {}, "PHP": {}, "SGD": {}, "THB": {},
	"ZAR": {},
}

// Normalize upper-cases a currency code and validates it against the
// supported set.
func Normalize(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := supported[normalized]; !ok {
		return "", failure.BadRequestFromString(fmt.Sprintf("unsupported currency code: %s", code))
	}

	return normalized, nil
}

type Rates interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

type clientImpl struct {
	httpClient *http.Client
	baseURL    string
	otel       otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Rates {
	return &clientImpl{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.External.Currency.TimeoutSeconds) * time.Second,
		},
		baseURL: strings.TrimRight(cfg.External.Currency.BaseURL, "/"),
		otel:    otl,
	}
}

type rateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

// Rate fetches the exchange rate from one currency into another. Both
// codes are validated before the upstream call so an unknown code never
// leaves the process.
func (c *clientImpl) Rate(ctx context.Context, from, to string) (rate decimal.Decimal, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".CurrencyRate")
	defer scope.End()
	defer scope.TraceIfError(err)

	if from, err = Normalize(from); err != nil {
		return rate, err
	}

	if to, err = Normalize(to); err != nil {
		return rate, err
	}

	if from == to {
		return decimal.NewFromInt(1), nil
	}

	url := fmt.Sprintf("%s/v1/rates/%s/%s", c.baseURL, from, to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to build currency rate request")

		return rate, fmt.Errorf("failed to build currency rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("from", from).Str("to", to).Msg("currency service unreachable")

		return rate, failure.ServiceUnavailable("currency service is unavailable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return rate, failure.BadRequestFromString(fmt.Sprintf("unsupported currency code: %s", to))
	default:
		log.Error().Int("status", resp.StatusCode).Str("from", from).Str("to", to).Msg("currency service returned an error")

		return rate, failure.ServiceUnavailable("currency service is unavailable")
	}

	var body rateResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Error().Err(err).Msg("failed to decode currency rate response")

		return rate, failure.ServiceUnavailable("currency service returned a malformed response")
	}

	if body.Rate.Sign() <= 0 {
		log.Error().Str("from", from).Str("to", to).Str("rate", body.Rate.String()).Msg("currency service returned a non-positive rate")

		return rate, failure.ServiceUnavailable("currency service returned an invalid rate")
	}

	return body.Rate, nil
}
