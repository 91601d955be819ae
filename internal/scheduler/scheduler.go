package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/config"
	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
	"github.com/skverma/milknet/internal/repository/sheets"
	"github.com/skverma/milknet/internal/service/reports"
	"github.com/skverma/milknet/pkg/clients/webhook"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	reportsSvc *reports.Service
	devices    mongodb.DeviceStore
	snapshots  mongodb.SnapshotStore
	exporter   sheets.Exporter
	notifier   webhook.Notifier
	cfg        config.SnapshotConfig
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance. Exporter and notifier
// may be nil when their integrations are not configured.
func NewScheduler(cfg config.SnapshotConfig, reportsSvc *reports.Service, devices mongodb.DeviceStore, snapshots mongodb.SnapshotStore, exporter sheets.Exporter, notifier webhook.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("unknown timezone, scheduling in local time", zap.String("timezone", cfg.Timezone))
	}

	return &Scheduler{
		cron:       cron.New(opts...),
		reportsSvc: reportsSvc,
		devices:    devices,
		snapshots:  snapshots,
		exporter:   exporter,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the nightly snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.snapshotYesterday); err != nil {
		s.logger.Error("failed to schedule daily snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// snapshotYesterday rolls up yesterday's datewise report for every
// registered device. One failing device does not stop the sweep.
func (s *Scheduler) snapshotYesterday() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	date := time.Now().AddDate(0, 0, -1).Format(models.SampleDateLayout)
	s.logger.Info("generating daily snapshots", zap.String("date", date))

	ids, err := s.devices.ListDeviceIDs(ctx)
	if err != nil {
		s.logger.Error("failed listing devices for snapshot", zap.Error(err))
		return
	}

	for _, deviceID := range ids {
		report, err := s.reportsSvc.Datewise(ctx, reports.DatewiseFilter{DeviceID: deviceID, Date: date})
		if err != nil {
			if errors.Is(err, reports.ErrNoRecords) {
				continue
			}
			s.logger.Error("snapshot report failed",
				zap.String("deviceid", deviceID),
				zap.String("date", date),
				zap.Error(err))
			continue
		}

		snapshot := models.DailySnapshot{
			DeviceID:    deviceID,
			Date:        date,
			Totals:      report.Totals,
			GeneratedAt: time.Now().UTC(),
		}

		if err := s.snapshots.Save(ctx, snapshot); err != nil {
			s.logger.Error("snapshot save failed", zap.String("deviceid", deviceID), zap.Error(err))
			continue
		}

		if s.exporter != nil {
			if err := s.exporter.AppendSnapshot(ctx, snapshot); err != nil {
				s.logger.Error("snapshot sheet export failed", zap.String("deviceid", deviceID), zap.Error(err))
			}
		}
		if s.notifier != nil {
			if err := s.notifier.NotifySnapshot(ctx, snapshot); err != nil {
				s.logger.Error("snapshot webhook failed", zap.String("deviceid", deviceID), zap.Error(err))
			}
		}
	}

	s.logger.Info("daily snapshots complete", zap.String("date", date), zap.Int("devices", len(ids)))
}
