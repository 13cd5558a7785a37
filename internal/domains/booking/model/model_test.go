package model_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental/internal/domains/booking/model"
	"carrental/shared/failure"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    model.Status
		wantErr bool
	}{
		{name: "uppercase", raw: "PLANNED", want: model.StatusPlanned},
		{name: "lowercase", raw: "active", want: model.StatusActive},
		{name: "mixed case", raw: "Completed", want: model.StatusCompleted},
		{name: "surrounding whitespace", raw: " canceled ", want: model.StatusCanceled},
		{name: "overdue", raw: "OVERDUE", want: model.StatusOverdue},
		{name: "unknown status", raw: "PAUSED", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseStatus(tt.raw)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, model.StatusCompleted.IsTerminal())
	assert.True(t, model.StatusCanceled.IsTerminal())
	assert.False(t, model.StatusPlanned.IsTerminal())
	assert.False(t, model.StatusActive.IsTerminal())
	assert.False(t, model.StatusOverdue.IsTerminal())
}

func TestStatus_IsLive(t *testing.T) {
	assert.True(t, model.StatusPlanned.IsLive())
	assert.True(t, model.StatusActive.IsLive())
	assert.False(t, model.StatusCompleted.IsLive())
	assert.False(t, model.StatusCanceled.IsLive())
	assert.False(t, model.StatusOverdue.IsLive())
}
