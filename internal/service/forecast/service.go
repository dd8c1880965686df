package forecast

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/mycofarm/internal/domain/models"
	"github.com/mamadbah2/mycofarm/internal/repository/mongodb"
)

// Service recomputes forecasts on demand from the current batch and
// environment snapshots. It holds no cross-batch state.
type Service struct {
	batches     mongodb.BatchRepository
	environment mongodb.EnvironmentRepository
	species     models.SpeciesCatalog
	logger      *zap.Logger
	now         func() time.Time
}

// NewService wires a forecast service instance.
func NewService(batches mongodb.BatchRepository, environment mongodb.EnvironmentRepository, species models.SpeciesCatalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		batches:     batches,
		environment: environment,
		species:     species,
		logger:      logger,
		now:         time.Now,
	}
}

// ForecastSite computes forecasts for every forecast-tracked, not yet
// completed batch of a site, sorted soonest-to-harvest first. A missing
// environment feed degrades to an empty result rather than failing.
func (s *Service) ForecastSite(ctx context.Context, site string) ([]Forecast, error) {
	batches, err := s.batches.ListBatches(ctx, site)
	if err != nil {
		return nil, err
	}

	readings, err := s.environment.LatestReadings(ctx, site, 1)
	if err != nil {
		s.logger.Warn("environment feed unavailable, no forecasts emitted", zap.String("site", site), zap.Error(err))
		return nil, nil
	}
	if len(readings) == 0 {
		s.logger.Debug("no environment readings for site", zap.String("site", site))
		return nil, nil
	}
	latest := readings[0]

	now := s.now().UTC()
	forecasts := make([]Forecast, 0, len(batches))
	for _, batch := range batches {
		if batch.PredictedYieldKg <= 0 || batch.IsCompleted() {
			continue
		}
		profile, ok := s.species.Profile(batch.Strain)
		if !ok {
			s.logger.Warn("unknown strain, skipping forecast", zap.String("batch_id", batch.ID), zap.String("strain", batch.Strain))
			continue
		}
		forecasts = append(forecasts, Compute(batch, profile, latest, now))
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].AdjustedRemaining < forecasts[j].AdjustedRemaining
	})

	return forecasts, nil
}
