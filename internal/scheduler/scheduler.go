package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/mycofarm/internal/config"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
	"github.com/mamadbah2/mycofarm/internal/repository/mongodb"
	"github.com/mamadbah2/mycofarm/internal/repository/sheets"
	"github.com/mamadbah2/mycofarm/internal/service/finance"
	"github.com/mamadbah2/mycofarm/pkg/clients/sensors"
)

// Scheduler manages the periodic jobs: polling the sensor gateway and
// producing the end-of-day financial snapshot.
type Scheduler struct {
	cron        *cron.Cron
	sensors     sensors.Client
	environment mongodb.EnvironmentRepository
	snapshots   mongodb.SnapshotRepository
	sheetsRepo  sheets.Repository
	aggregator  *finance.Aggregator
	cfg         config.Config
	logger      *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(
	cfg config.Config,
	sensorClient sensors.Client,
	environment mongodb.EnvironmentRepository,
	snapshots mongodb.SnapshotRepository,
	sheetsRepo sheets.Repository,
	aggregator *finance.Aggregator,
	logger *zap.Logger,
) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:        cron.New(),
		sensors:     sensorClient,
		environment: environment,
		snapshots:   snapshots,
		sheetsRepo:  sheetsRepo,
		aggregator:  aggregator,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start registers and starts the cron jobs.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Sensors.PollSchedule, s.pollSensors); err != nil {
		s.logger.Error("failed to schedule sensor poll", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.cfg.Reporting.SnapshotSchedule, s.dailySnapshot); err != nil {
		s.logger.Error("failed to schedule daily snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// pollSensors pulls the latest reading for every configured site and stores
// it. One failing site does not block the others.
func (s *Scheduler) pollSensors() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, site := range s.cfg.Sites {
		readings, err := s.sensors.LatestReadings(ctx, site.Name, 1)
		if err != nil {
			s.logger.Warn("sensor poll failed", zap.String("site", site.Name), zap.Error(err))
			continue
		}
		if len(readings) == 0 {
			continue
		}

		reading := readings[0]
		err = s.environment.InsertReading(ctx, models.EnvironmentReading{
			Site:        site.Name,
			Temperature: reading.Temperature,
			Humidity:    reading.Humidity,
			Moisture:    reading.Moisture,
			Timestamp:   reading.Timestamp.UTC(),
		})
		if err != nil {
			s.logger.Error("failed to store sensor reading", zap.String("site", site.Name), zap.Error(err))
		}
	}
}

// dailySnapshot builds today's statement per site, persists it and mirrors
// it to the spreadsheet.
func (s *Scheduler) dailySnapshot() {
	s.logger.Info("generating daily snapshots")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, site := range s.cfg.Sites {
		kind := models.SiteFarming
		if site.Kind == "processing" {
			kind = models.SiteProcessing
		}

		statement, err := s.aggregator.BuildStatement(ctx, site.Name, kind, dayStart, now)
		if err != nil {
			s.logger.Error("failed to build daily statement", zap.String("site", site.Name), zap.Error(err))
			continue
		}

		snapshot := models.DailySnapshot{
			Date:        dayStart,
			Site:        site.Name,
			Revenue:     statement.Revenue,
			OtherIncome: statement.OtherIncome,
			COGS:        statement.COGS,
			OpEx:        statement.OpEx,
			GrossProfit: statement.GrossProfit,
			NetProfit:   statement.NetProfit,
			Receivables: statement.Receivables,
			Payables:    statement.Payables,
			CreatedAt:   now,
		}

		if err := s.snapshots.SaveDailySnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to persist daily snapshot", zap.String("site", site.Name), zap.Error(err))
			continue
		}

		if err := s.sheetsRepo.AppendSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to export snapshot to sheet", zap.String("site", site.Name), zap.Error(err))
		} else {
			s.logger.Info("daily snapshot exported", zap.String("site", site.Name))
		}
	}
}
