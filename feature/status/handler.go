package status

import (
	"context"

	"country-cache/core/logger"
	"country-cache/feature/countries/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Reporter reads the cache aggregate.
type Reporter interface {
	Status(ctx context.Context) (models.Status, error)
}

// Handler serves GET /status.
type Handler struct {
	reporter Reporter
	logger   *zap.Logger
}

// NewHandler creates a new status handler.
func NewHandler(reporter Reporter, logger *zap.Logger) *Handler {
	return &Handler{reporter: reporter, logger: logger}
}

// RegisterRoutes registers the status route.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/status", h.HandleStatus)
}

// HandleStatus returns the row count and the last refresh time.
// @Summary Cache Status
// @Description Total cached countries and the timestamp of the most recent refresh (null before the first).
// @Tags status
// @Produce json
// @Success 200 {object} models.Status "Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	st, err := h.reporter.Status(c.UserContext())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Status query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(st)
}
