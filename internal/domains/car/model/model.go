package model

import (
	"carrental/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "cars"
	EntityName = "car"

	FieldID        = "id"
	FieldName      = "name"
	FieldModel     = "model"
	FieldDailyRate = "daily_rate"
	FieldAvailable = "available"
)

type Car struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Model     string          `db:"model"`
	DailyRate decimal.Decimal `db:"daily_rate"`
	Available bool            `db:"available"`
	model.Metadata
}
