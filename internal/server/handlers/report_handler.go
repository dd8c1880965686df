package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/mycofarm/internal/domain/models"
	"github.com/mamadbah2/mycofarm/internal/repository/mongodb"
	"github.com/mamadbah2/mycofarm/internal/service/costing"
	"github.com/mamadbah2/mycofarm/internal/service/finance"
	"github.com/mamadbah2/mycofarm/internal/service/forecast"
)

const dateLayout = "2006-01-02"

// ReportHandler serves forecasts, unit economics, statements and cash-flow
// series, plus environment reading ingestion.
type ReportHandler struct {
	forecasts        *forecast.Service
	costing          *costing.Engine
	aggregator       *finance.Aggregator
	environment      mongodb.EnvironmentRepository
	siteKindFor      func(site string) models.SiteKind
	defaultPackaging float64
	logger           *zap.Logger
}

// NewReportHandler constructs the reporting HTTP adapter.
func NewReportHandler(
	forecasts *forecast.Service,
	costingEngine *costing.Engine,
	aggregator *finance.Aggregator,
	environment mongodb.EnvironmentRepository,
	siteKindFor func(site string) models.SiteKind,
	defaultPackaging float64,
	logger *zap.Logger,
) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{
		forecasts:        forecasts,
		costing:          costingEngine,
		aggregator:       aggregator,
		environment:      environment,
		siteKindFor:      siteKindFor,
		defaultPackaging: defaultPackaging,
		logger:           logger,
	}
}

// Forecasts lists the site's harvest outlook, soonest first.
func (h *ReportHandler) Forecasts(c *gin.Context) {
	result, err := h.forecasts.ForecastSite(c.Request.Context(), c.Param("site"))
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forecasts": result})
}

// Costing computes a batch's unit economics from query-supplied labor context.
func (h *ReportHandler) Costing(c *gin.Context) {
	input := costing.LaborInput{PackagingCostPerUnit: h.defaultPackaging}
	var err error

	if input.LaborHours, err = queryFloat(c, "laborHours", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "laborHours must be numeric"})
		return
	}
	if input.LaborRate, err = queryFloat(c, "laborRate", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "laborRate must be numeric"})
		return
	}
	if input.OutputQty, err = queryFloat(c, "outputQty", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outputQty must be numeric"})
		return
	}
	if input.PackagingCostPerUnit, err = queryFloat(c, "packagingCostPerUnit", h.defaultPackaging); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "packagingCostPerUnit must be numeric"})
		return
	}

	analysis, err := h.costing.UnitEconomics(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// ProfitAndLoss builds a statement for the site over [from, to], defaulting
// to the trailing 30 days.
func (h *ReportHandler) ProfitAndLoss(c *gin.Context) {
	site := c.Param("site")
	now := time.Now().UTC()

	from := now.AddDate(0, 0, -30)
	to := now
	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse(dateLayout, raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse(dateLayout, raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = to.AddDate(0, 0, 1) // inclusive end date
	}

	statement, err := h.aggregator.BuildStatement(c.Request.Context(), site, h.siteKindFor(site), from, to)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

// CashFlow returns the period-bucketed income/expense trend series.
func (h *ReportHandler) CashFlow(c *gin.Context) {
	period := finance.Period(c.DefaultQuery("period", string(finance.PeriodDaily)))
	series, err := h.aggregator.CashFlowSeries(c.Request.Context(), c.Param("site"), period)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "buckets": series})
}

type readingRequest struct {
	Temperature float64    `json:"temperature"`
	Humidity    float64    `json:"humidity"`
	Moisture    float64    `json:"moisture"`
	Timestamp   *time.Time `json:"timestamp"`
}

// IngestReading accepts a pushed environment reading for a site.
func (h *ReportHandler) IngestReading(c *gin.Context) {
	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}

	err := h.environment.InsertReading(c.Request.Context(), models.EnvironmentReading{
		Site:        c.Param("site"),
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Moisture:    req.Moisture,
		Timestamp:   ts,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	c.Status(http.StatusCreated)
}

func queryFloat(c *gin.Context, key string, fallback float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}
