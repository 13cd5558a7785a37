package jobs

import (
	"context"
	"fmt"

	"carrental/config"
	"carrental/infras/otel"
	"carrental/internal/domains/booking/service"
	"carrental/shared/constant"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// OverdueSweep periodically moves ACTIVE bookings whose rental period
// ended without a recorded return to OVERDUE.
type OverdueSweep struct {
	booking   service.Booking
	cfg       *config.Config
	otel      otel.Otel
	scheduler gocron.Scheduler
}

func NewOverdueSweep(booking service.Booking, cfg *config.Config, otel otel.Otel) *OverdueSweep {
	return &OverdueSweep{
		booking: booking,
		cfg:     cfg,
		otel:    otel,
	}
}

// Start schedules the sweep on the configured cron expression. It is a
// no-op when the sweep is disabled.
func (s *OverdueSweep) Start() error {
	if !s.cfg.Booking.OverdueSweep.Enable {
		log.Info().Msg("Overdue sweep is disabled")

		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(s.cfg.Booking.OverdueSweep.Cron, false),
		gocron.NewTask(s.Run),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}

	s.scheduler = scheduler
	scheduler.Start()

	log.Info().Str("cron", s.cfg.Booking.OverdueSweep.Cron).Msg("Overdue sweep scheduled")

	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (s *OverdueSweep) Stop() {
	if s.scheduler == nil {
		return
	}

	if err := s.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("failed to shut down overdue sweep scheduler")
	}
}

func (s *OverdueSweep) Run() {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelJobScopeName, constant.OtelJobScopeName+".OverdueSweep")
	defer scope.End()

	count, err := s.booking.MarkOverdue(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("overdue sweep failed")

		return
	}

	if count > 0 {
		log.Info().Int("count", count).Msg("bookings marked overdue")
	}
}
