package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sentimentiq/backend/internal/dashboard"
)

type DashboardHandler struct {
	store   *dashboard.Store
	perPage int
}

func NewDashboardHandler(store *dashboard.Store, perPage int) *DashboardHandler {
	if perPage <= 0 {
		perPage = dashboard.DefaultPerPage
	}
	return &DashboardHandler{
		store:   store,
		perPage: perPage,
	}
}

func (h *DashboardHandler) GetDashboardData(c *fiber.Ctx) error {
	snap := h.store.Current()
	if snap == nil || snap.Dashboard == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No dashboard data yet. Upload a CSV first.",
		})
	}

	c.Set("X-Snapshot-ID", snap.ID)
	return c.JSON(snap.Dashboard)
}

func (h *DashboardHandler) GetReviews(c *fiber.Ctx) error {
	page, err := h.store.Reviews(
		c.Query("sentiment"),
		c.QueryInt("page", 1),
		c.QueryInt("per_page", h.perPage),
	)
	if errors.Is(err, dashboard.ErrInvalidFilter) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "sentiment must be All, Positive, Neutral or Negative",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list reviews",
		})
	}

	return c.JSON(page)
}
