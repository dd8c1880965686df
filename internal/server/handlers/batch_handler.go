package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/mycofarm/internal/domain/errs"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
	"github.com/mamadbah2/mycofarm/internal/service/batch"
	"github.com/mamadbah2/mycofarm/internal/service/yield"
)

// BatchHandler handles batch lifecycle HTTP operations.
type BatchHandler struct {
	svc        *batch.Service
	thresholds yield.Thresholds
	logger     *zap.Logger
}

// NewBatchHandler constructs the HTTP handler adapter.
func NewBatchHandler(svc *batch.Service, thresholds yield.Thresholds, logger *zap.Logger) *BatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandler{svc: svc, thresholds: thresholds, logger: logger}
}

type createBatchRequest struct {
	Site             string  `json:"site" binding:"required"`
	Strain           string  `json:"strain" binding:"required"`
	PredictedYieldKg float64 `json:"predictedYieldKg"`
	Notes            string  `json:"notes"`
	ActorID          string  `json:"actorId"`
}

// Create opens a new production batch.
func (h *BatchHandler) Create(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.svc.CreateBatch(c.Request.Context(), batch.CreateBatchInput{
		Site:             req.Site,
		Strain:           req.Strain,
		PredictedYieldKg: req.PredictedYieldKg,
		Notes:            req.Notes,
		ActorID:          req.ActorID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Get returns a batch with its derived reconciliation summary.
func (h *BatchHandler) Get(c *gin.Context) {
	found, err := h.svc.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batch":          found,
		"reconciliation": yield.Reconcile(found, h.thresholds),
	})
}

type advanceStepRequest struct {
	Step    string `json:"step" binding:"required"`
	ActorID string `json:"actorId"`
}

// AdvanceStep adds an ordered production step.
func (h *BatchHandler) AdvanceStep(c *gin.Context) {
	var req advanceStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	alreadyDone, err := h.svc.AdvanceStep(c.Request.Context(), c.Param("id"), models.ProductionStep(req.Step), req.ActorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"step": req.Step, "alreadyDone": alreadyDone})
}

type maintenanceRequest struct {
	Activity string `json:"activity" binding:"required"`
	Details  string `json:"details"`
	ActorID  string `json:"actorId"`
}

// RecordMaintenance logs a repeatable maintenance activity.
func (h *BatchHandler) RecordMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.RecordMaintenance(c.Request.Context(), c.Param("id"), req.Activity, req.Details, req.ActorID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type harvestRequest struct {
	WeightKg float64 `json:"weightKg" binding:"required"`
	ActorID  string  `json:"actorId"`
}

// RecordHarvest applies a harvest weigh-in.
func (h *BatchHandler) RecordHarvest(c *gin.Context) {
	var req harvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.RecordHarvest(c.Request.Context(), c.Param("id"), req.WeightKg, req.ActorID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type wastageRequest struct {
	WeightKg float64 `json:"weightKg" binding:"required"`
	Reason   string  `json:"reason" binding:"required"`
	ActorID  string  `json:"actorId"`
}

// RecordWastage logs wasted output.
func (h *BatchHandler) RecordWastage(c *gin.Context) {
	var req wastageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entryID, err := h.svc.RecordWastage(c.Request.Context(), c.Param("id"), req.WeightKg, req.Reason, req.ActorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entryId": entryID})
}

type editWastageRequest struct {
	WeightKg float64 `json:"weightKg" binding:"required"`
	Reason   string  `json:"reason"`
	ActorID  string  `json:"actorId"`
}

// EditWastage corrects an existing wastage entry.
func (h *BatchHandler) EditWastage(c *gin.Context) {
	var req editWastageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.EditWastage(c.Request.Context(), c.Param("id"), req.WeightKg, req.Reason, req.ActorID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type yieldCorrectionRequest struct {
	PredictedYieldKg float64 `json:"predictedYieldKg" binding:"required"`
	Reason           string  `json:"reason" binding:"required"`
	ActorID          string  `json:"actorId"`
}

// CorrectPredictedYield is the audit-logged administrative override.
func (h *BatchHandler) CorrectPredictedYield(c *gin.Context) {
	var req yieldCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.CorrectPredictedYield(c.Request.Context(), c.Param("id"), req.PredictedYieldKg, req.Reason, req.ActorID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SettleSale completes a pending sale record.
func (h *BatchHandler) SettleSale(c *gin.Context) {
	if err := h.svc.SettleSale(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BatchHandler) respondError(c *gin.Context, err error) {
	respondDomainError(c, h.logger, err)
}

// respondDomainError maps the core error taxonomy onto HTTP statuses.
func respondDomainError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.IsSequence(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "store operation failed"})
	}
}
