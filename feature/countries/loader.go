package countries

import (
	"country-cache/core/artifact"
	"country-cache/feature/countries/refresh"
	"country-cache/feature/countries/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Countries feature.
func NewFeature(sync *refresh.Synchronizer, st *store.Store, artifacts artifact.Store, key string, logger *zap.Logger) *Feature {
	svc := NewService(sync, st, artifacts, key, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "countries"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
