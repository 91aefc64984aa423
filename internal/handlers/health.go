package handlers

import (
	"net/http"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports whether the server can reach its database.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"
	status := http.StatusOK

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error: " + err.Error()
	}
	if dbStatus != "ok" {
		overall = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	var users, projects int64
	if dbStatus == "ok" {
		h.db.Model(&records.User{}).Count(&users)
		h.db.Model(&records.Project{}).Count(&projects)
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "projectmanager-devserver",
		"components": gin.H{
			"database": dbStatus,
			"users":    users,
			"projects": projects,
		},
	})
}
