package batch

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/mycofarm/internal/domain/errs"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
	"github.com/mamadbah2/mycofarm/internal/repository/mongodb"
)

// Activity log entry types.
const (
	activityCreated         = "CREATED"
	activityStep            = "STEP"
	activityMaintenance     = "MAINTENANCE"
	activityHarvest         = "HARVEST"
	activityWastage         = "WASTAGE"
	activityWastageEdit     = "WASTAGE_EDIT"
	activityYieldCorrection = "YIELD_CORRECTION"
)

// CostEngine is the slice of the costing engine the lifecycle needs.
type CostEngine interface {
	ApplyDeductions(ctx context.Context, batchID string, activity models.ActivityType) error
}

// Service owns batch step progression, harvest and wastage flows, and the
// sale records harvests emit. Aggregate counters are only ever moved through
// the store's atomic increments.
type Service struct {
	batches mongodb.BatchRepository
	ledger  mongodb.LedgerRepository
	costing CostEngine
	species models.SpeciesCatalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a batch lifecycle service.
func NewService(batches mongodb.BatchRepository, ledger mongodb.LedgerRepository, costing CostEngine, species models.SpeciesCatalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		batches: batches,
		ledger:  ledger,
		costing: costing,
		species: species,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateBatchInput carries the fields of a batch creation request.
type CreateBatchInput struct {
	Site             string
	Strain           string
	PredictedYieldKg float64
	Notes            string
	ActorID          string
}

// CreateBatch opens a production run at SUBSTRATE_PREP and charges the prep
// recipe once.
func (s *Service) CreateBatch(ctx context.Context, input CreateBatchInput) (models.Batch, error) {
	if input.PredictedYieldKg <= 0 {
		return models.Batch{}, errs.Validation("predicted yield must be positive, got %.2f", input.PredictedYieldKg)
	}
	if _, ok := s.species.Profile(input.Strain); !ok {
		return models.Batch{}, errs.Validation("unknown strain %q", input.Strain)
	}

	now := s.now().UTC()
	batch := models.Batch{
		ID:               primitive.NewObjectID().Hex(),
		Site:             input.Site,
		Strain:           input.Strain,
		Notes:            input.Notes,
		PlantedAt:        now,
		PredictedYieldKg: input.PredictedYieldKg,
		StepsCompleted:   []models.ProductionStep{models.StepSubstratePrep},
		CreatedAt:        now,
	}

	if err := s.batches.CreateBatch(ctx, batch); err != nil {
		return models.Batch{}, err
	}

	// Creation is the once-per-batch guard for the prep recipe: the step
	// can never be added again.
	if err := s.costing.ApplyDeductions(ctx, batch.ID, models.ActivitySubstratePrep); err != nil {
		return models.Batch{}, err
	}

	s.appendActivity(ctx, batch.ID, activityCreated,
		fmt.Sprintf("batch created, predicted %.2f kg", input.PredictedYieldKg), input.ActorID, now)

	s.logger.Info("batch created",
		zap.String("batch_id", batch.ID),
		zap.String("strain", batch.Strain),
		zap.Float64("predicted_yield_kg", batch.PredictedYieldKg))

	return batch, nil
}

// AdvanceStep adds an ordered step. It is idempotent: a step already present
// reports alreadyDone=true and deducts nothing, which is the guard against
// duplicate material charges.
func (s *Service) AdvanceStep(ctx context.Context, batchID string, step models.ProductionStep, actorID string) (alreadyDone bool, err error) {
	if !step.IsValid() {
		return false, errs.Validation("unknown production step %q", step)
	}

	batch, err := s.batches.GetBatch(ctx, batchID)
	if err != nil {
		return false, err
	}

	if batch.HasStep(step) {
		return true, nil
	}

	if prereq := step.Prerequisite(); prereq != "" && !batch.HasStep(prereq) {
		return false, errs.Sequence("step %s requires %s first", step, prereq)
	}

	added, err := s.batches.AddStep(ctx, batchID, step)
	if err != nil {
		return false, err
	}
	if !added {
		// Lost the race to a concurrent caller; the winner deducted.
		return true, nil
	}

	if err := s.costing.ApplyDeductions(ctx, batchID, mustActivity(string(step))); err != nil {
		return false, err
	}

	s.appendActivity(ctx, batchID, activityStep, string(step), actorID, s.now().UTC())
	return false, nil
}

// RecordMaintenance logs a repeatable post-spawning activity and charges its
// recipe on every call.
func (s *Service) RecordMaintenance(ctx context.Context, batchID, activityKey, details, actorID string) error {
	activity, ok := models.ActivityTypeFor(activityKey)
	if !ok {
		return errs.Validation("unknown activity %q", activityKey)
	}
	if activity.Policy != models.DeductPerEvent {
		return errs.Validation("activity %s is a production step, use the step endpoint", activityKey)
	}

	batch, err := s.batches.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if !batch.HasStep(models.StepSpawning) {
		return errs.Sequence("maintenance requires %s", models.StepSpawning)
	}

	if err := s.costing.ApplyDeductions(ctx, batchID, activity); err != nil {
		return err
	}

	s.appendActivity(ctx, batchID, activityMaintenance,
		fmt.Sprintf("%s %s", activity.Key, details), actorID, s.now().UTC())
	return nil
}

// RecordHarvest applies a weigh-in via atomic increment and emits a PENDING
// sale record priced at the strain's configured rate.
func (s *Service) RecordHarvest(ctx context.Context, batchID string, weightKg float64, actorID string) error {
	if weightKg <= 0 {
		return errs.Validation("harvest weight must be positive, got %.2f", weightKg)
	}

	batch, err := s.batches.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}

	if err := s.batches.IncrementYield(ctx, batchID, weightKg); err != nil {
		return err
	}

	now := s.now().UTC()
	s.appendActivity(ctx, batchID, activityHarvest, fmt.Sprintf("%.2f kg", weightKg), actorID, now)

	profile, ok := s.species.Profile(batch.Strain)
	if !ok {
		s.logger.Warn("no profile for strain, sale record skipped", zap.String("batch_id", batchID), zap.String("strain", batch.Strain))
		return nil
	}

	recordID, err := s.ledger.CreateRecord(ctx, models.FinancialRecord{
		Site:        batch.Site,
		Type:        models.RecordIncome,
		Category:    models.CategorySales,
		Description: fmt.Sprintf("harvest %s %.2f kg", batch.Strain, weightKg),
		Amount:      weightKg * profile.SalePricePerKg,
		Date:        now,
		Status:      models.StatusPending,
		BatchID:     batchID,
		CreatedAt:   now,
	})
	if err != nil {
		return err
	}

	s.logger.Info("harvest recorded",
		zap.String("batch_id", batchID),
		zap.Float64("weight_kg", weightKg),
		zap.String("sale_record_id", recordID))
	return nil
}

// RecordWastage logs wasted output against the batch.
func (s *Service) RecordWastage(ctx context.Context, batchID string, weightKg float64, reason, actorID string) (string, error) {
	if weightKg <= 0 {
		return "", errs.Validation("wastage weight must be positive, got %.2f", weightKg)
	}
	if reason == "" {
		return "", errs.Validation("wastage reason is required")
	}

	if _, err := s.batches.GetBatch(ctx, batchID); err != nil {
		return "", err
	}

	now := s.now().UTC()
	entryID, err := s.batches.InsertWastage(ctx, models.WastageEntry{
		BatchID:   batchID,
		WeightKg:  weightKg,
		Reason:    reason,
		Timestamp: now,
	})
	if err != nil {
		return "", err
	}

	if err := s.batches.IncrementWastage(ctx, batchID, weightKg); err != nil {
		return "", err
	}

	s.appendActivity(ctx, batchID, activityWastage, fmt.Sprintf("%.2f kg: %s", weightKg, reason), actorID, now)
	return entryID, nil
}

// EditWastage corrects an existing entry. The weight delta (new - old) is
// applied to the batch's running total; the total is never overwritten.
func (s *Service) EditWastage(ctx context.Context, entryID string, newWeightKg float64, newReason, actorID string) error {
	if newWeightKg <= 0 {
		return errs.Validation("wastage weight must be positive, got %.2f", newWeightKg)
	}

	entry, err := s.batches.GetWastage(ctx, entryID)
	if err != nil {
		return err
	}

	if newReason == "" {
		newReason = entry.Reason
	}
	if err := s.batches.UpdateWastage(ctx, entryID, newWeightKg, newReason); err != nil {
		return err
	}

	delta := newWeightKg - entry.WeightKg
	if delta != 0 {
		if err := s.batches.IncrementWastage(ctx, entry.BatchID, delta); err != nil {
			return err
		}
	}

	s.appendActivity(ctx, entry.BatchID, activityWastageEdit,
		fmt.Sprintf("entry %s: %.2f kg -> %.2f kg", entryID, entry.WeightKg, newWeightKg), actorID, s.now().UTC())
	return nil
}

// CorrectPredictedYield is the administrative escape hatch for the otherwise
// immutable forecast target. Every use leaves an audit entry.
func (s *Service) CorrectPredictedYield(ctx context.Context, batchID string, newYieldKg float64, reason, actorID string) error {
	if newYieldKg <= 0 {
		return errs.Validation("predicted yield must be positive, got %.2f", newYieldKg)
	}
	if reason == "" {
		return errs.Validation("a correction reason is required")
	}

	batch, err := s.batches.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}

	if err := s.batches.SetPredictedYield(ctx, batchID, newYieldKg); err != nil {
		return err
	}

	s.appendActivity(ctx, batchID, activityYieldCorrection,
		fmt.Sprintf("%.2f kg -> %.2f kg: %s", batch.PredictedYieldKg, newYieldKg, reason), actorID, s.now().UTC())

	s.logger.Info("predicted yield corrected",
		zap.String("batch_id", batchID),
		zap.Float64("old_kg", batch.PredictedYieldKg),
		zap.Float64("new_kg", newYieldKg),
		zap.String("actor_id", actorID))
	return nil
}

// SettleSale transitions a pending sale record to COMPLETED.
func (s *Service) SettleSale(ctx context.Context, recordID string) error {
	return s.ledger.SettleRecord(ctx, recordID)
}

// GetBatch returns the batch record.
func (s *Service) GetBatch(ctx context.Context, batchID string) (models.Batch, error) {
	return s.batches.GetBatch(ctx, batchID)
}

// appendActivity logs to the append-only activity trail. A failed append is
// logged but does not fail the operation that triggered it.
func (s *Service) appendActivity(ctx context.Context, batchID, entryType, details, actorID string, ts time.Time) {
	err := s.batches.AppendActivity(ctx, models.ActivityEntry{
		BatchID:   batchID,
		Type:      entryType,
		Details:   details,
		ActorID:   actorID,
		Timestamp: ts,
	})
	if err != nil {
		s.logger.Error("failed to append activity entry",
			zap.String("batch_id", batchID),
			zap.String("type", entryType),
			zap.Error(err))
	}
}

func mustActivity(key string) models.ActivityType {
	activity, ok := models.ActivityTypeFor(key)
	if !ok {
		// Steps are a subset of the closed activity set; this cannot happen
		// for a validated step.
		return models.ActivityType{Key: key, Policy: models.DeductOncePerBatch}
	}
	return activity
}
