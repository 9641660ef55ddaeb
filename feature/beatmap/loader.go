package beatmap

import (
	"beatmap-cache/core/metrics"
	"beatmap-cache/feature/beatmap/catalog"
	"beatmap-cache/feature/beatmap/notify"
	"beatmap-cache/feature/beatmap/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new beatmap feature backed by db and the catalog client.
func NewFeature(db *gorm.DB, client catalog.Client, notifier notify.Notifier, m *metrics.Metrics, logger *zap.Logger) *Feature {
	svc := NewService(store.New(db), client, notifier, m, logger)
	return &Feature{service: svc, handler: NewHandler(svc, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "beatmap"
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

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
