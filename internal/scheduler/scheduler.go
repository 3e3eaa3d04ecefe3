// Package scheduler triggers periodic recalibration batches. The
// calibration core itself never decides when to run; this is the
// external trigger collaborator.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/service"
)

// Scheduler manages scheduled recalibration jobs
type Scheduler struct {
	cron            *cron.Cron
	recalibration   *service.RecalibrationService
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(recalibration *service.RecalibrationService, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		recalibration:   recalibration,
		logger:          log,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRecalibration schedules a periodic batch for one segment
func (s *Scheduler) ScheduleRecalibration(cronExpression string, segment config.SegmentConfig, lookback time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	job := service.RecalibrationJob{
		MappingKey: models.MappingKey{Engine: segment.Engine, Sport: segment.Sport, BetType: segment.BetType},
		BucketKey:  models.BucketKey{Engine: segment.Engine, Sport: segment.Sport, Window: segment.Window},
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		run := job
		run.Since = time.Now().Add(-lookback)
		summary, err := s.recalibration.Run(ctx, run)
		if err != nil {
			s.logger.WithError(err).WithField("segment", job.MappingKey.String()).
				Error("Scheduled recalibration failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"segment": job.MappingKey.String(),
			"samples": summary.SampleCount,
			"grade":   summary.Grade.Grade,
		}).Info("Scheduled recalibration completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"segment": job.MappingKey.String(),
		"cron":    cronExpression,
	}).Info("Scheduled recalibration job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out; abandoning running jobs")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
