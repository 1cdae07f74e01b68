package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is the work a scheduler run performs
type Job func(ctx context.Context)

// Scheduler runs the daily report job once per day at a configured
// clock time
type Scheduler struct {
	cron   *cron.Cron
	job    Job
	logger zerolog.Logger
}

// New creates a scheduler firing daily at scheduleTime (HH:MM, local time)
func New(scheduleTime string, job Job, logger zerolog.Logger) (*Scheduler, error) {
	hour, minute, err := parseClockTime(scheduleTime)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		cron:   cron.New(),
		job:    job,
		logger: logger.With().Str("component", "scheduler").Logger(),
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("failed to schedule daily job: %w", err)
	}

	s.logger.Info().Str("schedule", scheduleTime).Msg("Daily report job scheduled")
	return s, nil
}

// Start starts the scheduler and blocks until the context is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.logger.Info().Msg("Scheduler started")

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) run() {
	s.logger.Info().Msg("Running scheduled daily report")
	s.job(context.Background())
}

// parseClockTime parses an HH:MM wall-clock time
func parseClockTime(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid schedule time %q, expected HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid schedule hour in %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid schedule minute in %q", value)
	}
	return hour, minute, nil
}
