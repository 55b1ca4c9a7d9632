package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/luxedrive/internal/events"
	"github.com/ukydev/luxedrive/internal/models"
)

// StatsSource computes the dashboard aggregates.
type StatsSource interface {
	Stats(ctx context.Context) (models.DashboardStats, error)
}

// StatsReport is the payload of the periodic fleet.stats event.
type StatsReport struct {
	TotalCars     int     `json:"totalCars"`
	TotalBookings int     `json:"totalBookings"`
	TotalUsers    int     `json:"totalUsers"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	stats     StatsSource
	publisher events.Publisher
	log       log.FieldLogger
}

// NewScheduler creates a scheduler that reports fleet stats on schedule,
// which accepts standard five-field cron specs and descriptors like @hourly.
func NewScheduler(schedule string, stats StatsSource, publisher events.Publisher, logger log.FieldLogger) *Scheduler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Scheduler{
		cron:      cron.New(),
		schedule:  schedule,
		stats:     stats,
		publisher: publisher,
		log:       logger,
	}
}

// Start registers the jobs and starts the cron loop. An empty schedule
// disables reporting.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.reportStats); err != nil {
		return fmt.Errorf("schedule stats report %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.log.WithField("schedule", s.schedule).Info("Stats scheduler started")
	return nil
}

// Stop halts the scheduler and returns a context that is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) reportStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.ReportStats(ctx); err != nil {
		s.log.WithError(err).Error("Stats report failed")
	}
}

// ReportStats computes the current stats, logs them and publishes a
// fleet.stats event. A publish failure is logged and not returned.
func (s *Scheduler) ReportStats(ctx context.Context) error {
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return err
	}

	report := StatsReport{
		TotalCars:     stats.TotalCars,
		TotalBookings: stats.TotalBookings,
		TotalUsers:    stats.TotalUsers,
		TotalRevenue:  stats.TotalRevenue,
	}
	s.log.WithFields(log.Fields{
		"cars":     report.TotalCars,
		"bookings": report.TotalBookings,
		"users":    report.TotalUsers,
		"revenue":  report.TotalRevenue,
	}).Info("Fleet stats")

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.New(events.FleetStats, report)); err != nil {
			s.log.WithError(err).Warn("Failed to publish fleet stats")
		}
	}
	return nil
}
