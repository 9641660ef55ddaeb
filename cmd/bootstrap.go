package cmd

import (
	"fmt"

	"beatmap-cache/core/config"
	"beatmap-cache/core/database"
	"beatmap-cache/core/logger"
	"beatmap-cache/core/metrics"
	"beatmap-cache/feature/beatmap"
	"beatmap-cache/feature/beatmap/catalog"
	"beatmap-cache/feature/beatmap/notify"

	"go.uber.org/zap"
)

// deps bundles the collaborators shared by the commands.
type deps struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	notifier notify.Notifier
	feature  *beatmap.Feature
}

// bootstrap loads configuration and wires the beatmap feature.
func bootstrap(logCfg *logger.Config) (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logCfg == nil {
		logCfg = &cfg.Log
	}

	logg, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}

	client, err := catalog.NewClient(cfg.Catalog, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	m := metrics.New()
	notifier := notify.New(cfg.Notify, cfg.Server.Domain(), logg)

	return &deps{
		cfg:      cfg,
		logger:   logg,
		metrics:  m,
		notifier: notifier,
		feature:  beatmap.NewFeature(db, client, notifier, m, logg),
	}, nil
}

// drain waits for pending webhook deliveries.
func (a *deps) drain() {
	if w, ok := a.notifier.(interface{ Wait() }); ok {
		w.Wait()
	}
}
