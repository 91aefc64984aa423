package handlers

import (
	"errors"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Metrics serves the default Prometheus registry, including connection pool
// statistics for db.
func Metrics(db *gorm.DB) gin.HandlerFunc {
	if sqlDB, err := db.DB(); err == nil {
		err := prometheus.Register(collectors.NewDBStatsCollector(sqlDB, "devserver"))
		var already prometheus.AlreadyRegisteredError
		if err != nil && !errors.As(err, &already) {
			logger.Warn().Err(err).Msg("failed to register db stats collector")
		}
	}
	return gin.WrapH(promhttp.Handler())
}
