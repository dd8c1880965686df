package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/mycofarm/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(batches *handlers.BatchHandler, reports *handlers.ReportHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/batches", batches.Create)
	r.GET("/batches/:id", batches.Get)
	r.POST("/batches/:id/steps", batches.AdvanceStep)
	r.POST("/batches/:id/activities", batches.RecordMaintenance)
	r.POST("/batches/:id/harvests", batches.RecordHarvest)
	r.POST("/batches/:id/wastage", batches.RecordWastage)
	r.PUT("/batches/:id/predicted-yield", batches.CorrectPredictedYield)
	r.GET("/batches/:id/costing", reports.Costing)
	r.PUT("/wastage/:id", batches.EditWastage)
	r.POST("/sales/:id/settle", batches.SettleSale)

	r.GET("/sites/:site/forecasts", reports.Forecasts)
	r.GET("/sites/:site/pnl", reports.ProfitAndLoss)
	r.GET("/sites/:site/cashflow", reports.CashFlow)
	r.POST("/sites/:site/readings", reports.IngestReading)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
