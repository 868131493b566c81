package cli

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/opportunity-radar/internal/analytics"
	"github.com/maxaizer/opportunity-radar/internal/clients/api"
	"github.com/maxaizer/opportunity-radar/internal/config"
	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/internal/logger"
	"github.com/maxaizer/opportunity-radar/internal/repositories"
	"github.com/maxaizer/opportunity-radar/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg        *config.Config
	store      repositories.Store
	closeStore func() error
	client     *api.Client
	bus        EventBus.Bus
}

func newApp(ctx context.Context, configPath string) (*app, error) {

	if configPath == "" {
		configPath = config.Path()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "can't load config")
	}

	logger.Setup(ctx, cfg.Logger)

	store, closeStore, err := repositories.NewStore(ctx, cfg.Store)
	if err != nil {
		logger.Cleanup()
		return nil, errors.Wrap(err, "can't open store")
	}

	client := api.NewClient(cfg.API.BaseURL)
	client.SetToken(cfg.API.Token)
	client.SetRateLimit(cfg.API.RequestsPerSecond)

	return &app{
		cfg:        cfg,
		store:      store,
		closeStore: closeStore,
		client:     client,
		bus:        EventBus.New(),
	}, nil
}

func (a *app) close() {
	if err := a.closeStore(); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStore).Errorf("failed to close store: %v", err)
	}
	logger.Cleanup()
}

func (a *app) fetchAll(ctx context.Context) ([]models.Opportunity, error) {
	return services.FetchAllOpportunities(ctx, a.client, a.cfg.API.PageSize, a.cfg.API.MaxPages)
}

func (a *app) unifiedSearch() *services.UnifiedSearch {
	search := a.cfg.Search
	cache := services.NewSearchCache(a.store, search.CacheTTL, search.CacheMaxEntries)

	return services.NewUnifiedSearch(a.client, a.client, cache, services.SearchOptions{
		MinQueryLength:     search.MinQueryLength,
		MaxOpportunities:   search.MaxOpportunities,
		MaxKeywordSearches: search.MaxKeywordSearches,
		FetchLimit:         search.FetchLimit,
	})
}

func (a *app) snapshots() *analytics.SnapshotStore {
	return analytics.NewSnapshotStore(a.store)
}

func (a *app) snapshotRecorder() (*services.SnapshotRecorder, error) {
	return services.NewSnapshotRecorder(a.client, a.snapshots(), a.bus, a.cfg.Analytics.SnapshotSchedule,
		services.RecorderOptions{
			Days:          a.cfg.Analytics.SnapshotDays,
			RetentionDays: a.cfg.Analytics.RetentionDays,
			PageSize:      a.cfg.API.PageSize,
			MaxPages:      a.cfg.API.MaxPages,
		})
}
