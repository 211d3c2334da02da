package countries

import (
	"errors"
	"net/http"
	"time"

	"country-cache/core/artifact"
	"country-cache/core/logger"
	"country-cache/feature/countries/refresh"
	"country-cache/feature/countries/sources"
	"country-cache/feature/countries/summary"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for countries.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RefreshResponse is the body of a successful refresh.
type RefreshResponse struct {
	Message            string    `json:"message"`
	TotalCountries     int64     `json:"total_countries"`
	CountriesProcessed int       `json:"countries_processed"`
	Rejected           int       `json:"rejected"`
	LastRefreshedAt    time.Time `json:"last_refreshed_at"`
}

// RegisterRoutes registers the countries routes. Static paths come before
// /:name so "image" and "report" are never read as country names.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/countries")
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/", h.HandleList)
	group.Get("/image", h.HandleImage)
	group.Get("/report", h.HandleReport)
	group.Get("/:name", h.HandleGet)
	group.Delete("/:name", h.HandleDelete)
}

// HandleRefresh fetches both sources and rewrites the cache.
// @Summary Refresh Countries
// @Description Fetch country facts and exchange rates, recompute estimates and persist them in one transaction.
// @Tags countries
// @Produce json
// @Success 200 {object} RefreshResponse "Refresh result"
// @Failure 400 {object} map[string]string "No valid country data"
// @Failure 503 {object} map[string]string "External data source unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /countries/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Refresh(c.UserContext())
	if err != nil {
		var fetchErr *sources.ExternalFetchFailed
		switch {
		case errors.As(err, &fetchErr):
			l.Warn("Refresh failed, external source unavailable", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   "External data source unavailable",
				"details": fetchErr.Endpoint,
			})
		case errors.Is(err, refresh.ErrNoValidData):
			l.Warn("Refresh produced no valid rows", zap.Int("rejected", res.Rejected))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No valid country data found",
			})
		default:
			l.Error("Refresh failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
	}

	return c.JSON(RefreshResponse{
		Message:            "Refresh successful",
		TotalCountries:     res.Total,
		CountriesProcessed: res.Accepted,
		Rejected:           res.Rejected,
		LastRefreshedAt:    res.RunAt,
	})
}

// HandleList returns cached countries.
// @Summary List Countries
// @Description List cached countries with optional filters, sorting and paging.
// @Tags countries
// @Produce json
// @Param region query string false "Region filter (case-insensitive)"
// @Param currency query string false "Currency code filter (case-insensitive)"
// @Param sort query string false "none, gdp_desc, gdp_asc, population_desc or population_asc"
// @Param page query int false "Page number, default 1"
// @Param limit query int false "Page size, default 100, max 1000"
// @Success 200 {array} models.Country "Countries"
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /countries [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	q, err := NewListQuery(c.Query("region"), c.Query("currency"), c.Query("sort"), c.Query("page"), c.Query("limit"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	items, err := h.service.List(c.UserContext(), q)
	if err != nil {
		l.Error("List countries failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(items)
}

// HandleGet returns one country.
// @Summary Get Country
// @Tags countries
// @Produce json
// @Param name path string true "Country name (case-insensitive)"
// @Success 200 {object} models.Country "Country"
// @Failure 404 {object} map[string]string "Country not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /countries/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	country, err := h.service.Get(c.UserContext(), c.Params("name"))
	if err != nil {
		l.Error("Get country failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if country == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Country not found"})
	}
	return c.JSON(country)
}

// HandleDelete removes one country.
// @Summary Delete Country
// @Tags countries
// @Produce json
// @Param name path string true "Country name (case-insensitive)"
// @Success 200 {object} map[string]string "Country deleted"
// @Failure 404 {object} map[string]string "Country not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /countries/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	deleted, err := h.service.Delete(c.UserContext(), c.Params("name"))
	if err != nil {
		l.Error("Delete country failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Country not found"})
	}
	return c.JSON(fiber.Map{"message": "Country deleted"})
}

// HandleImage serves the summary image from the last successful refresh.
// @Summary Summary Image
// @Tags countries
// @Produce png
// @Success 200 {file} file "Summary image"
// @Failure 404 {object} map[string]string "Summary image not found"
// @Router /countries/image [get]
func (h *Handler) HandleImage(c *fiber.Ctx) error {
	return h.serveArtifact(c, summary.PNGRenderer{}, "Summary image not found")
}

// HandleReport serves the summary workbook from the last successful refresh.
// @Summary Summary Report
// @Tags countries
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Summary report"
// @Failure 404 {object} map[string]string "Summary report not found"
// @Router /countries/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	return h.serveArtifact(c, summary.XLSXRenderer{}, "Summary report not found")
}

func (h *Handler) serveArtifact(c *fiber.Ctx, r summary.Renderer, missing string) error {
	l := logger.WithRayID(h.service.logger, c)

	rc, info, err := h.service.OpenArtifact(c.UserContext(), r.Ext())
	if errors.Is(err, artifact.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": missing})
	}
	if err != nil {
		l.Error("Open artifact failed", zap.String("ext", r.Ext()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	c.Set(fiber.HeaderContentType, r.ContentType())
	if !info.ModTime.IsZero() {
		c.Set(fiber.HeaderLastModified, info.ModTime.UTC().Format(http.TimeFormat))
	}
	// Fiber closes the reader once the body is written.
	return c.SendStream(rc, int(info.Size))
}
