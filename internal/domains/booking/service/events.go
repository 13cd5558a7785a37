package service

import (
	"context"
	"time"

	"carrental/infras/kafka"
	"carrental/internal/domains/booking/model"
	"carrental/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	eventBookingCreated = "booking.created"
	eventBookingUpdated = "booking.updated"
	eventBookingOverdue = "booking.overdue"
)

type bookingEvent struct {
	Event      string `json:"event"`
	BookingID  string `json:"booking_id"`
	CarID      string `json:"car_id"`
	UserID     string `json:"user_id"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

// publishEvent emits a lifecycle event keyed by booking id. Publishing
// is best effort; a broker failure is logged and never fails the
// request that triggered it.
func (s *serviceImpl) publishEvent(ctx context.Context, event string, booking model.Booking) {
	message := kafka.Message{
		Key: booking.ID,
		Value: bookingEvent{
			Event:      event,
			BookingID:  booking.ID,
			CarID:      booking.CarID,
			UserID:     booking.UserID,
			Status:     string(booking.Status),
			OccurredAt: timezone.Format(timezone.Now(), time.RFC3339),
		},
	}

	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topic.BookingEvents, message); err != nil {
		log.Error().Err(err).Str("event", event).Str("bookingID", booking.ID).Msg("failed to publish booking event")
	}
}
