package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/dashboard"
	"github.com/sentimentiq/backend/pkg/logger"
)

// Backing is the optional shared store behind the service.
type Backing interface {
	Ping(ctx context.Context) error
	GetMetric(ctx context.Context, metricName string) (int64, error)
}

type HealthHandler struct {
	store      *dashboard.Store
	classifier string
	backing    Backing
}

// NewHealthHandler accepts a nil backing.
func NewHealthHandler(store *dashboard.Store, classifier string, backing Backing) *HealthHandler {
	return &HealthHandler{
		store:      store,
		classifier: classifier,
		backing:    backing,
	}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
	}

	if h.backing != nil {
		uploads, err := h.backing.GetMetric(c.UserContext(), UploadsMetric)
		if err != nil {
			logger.Warn("Failed to read upload counter", zap.Error(err))
		} else {
			resp["uploads"] = uploads
		}
	}

	return c.JSON(resp)
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.backing != nil {
		if err := h.backing.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded",
				"redis":  err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":     "ready",
		"classifier": h.classifier,
		"snapshot":   h.store.Current() != nil,
	})
}
