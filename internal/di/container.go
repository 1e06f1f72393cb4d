package di

import (
	"go.uber.org/dig"

	"github.com/mikey/graph-spam-filter/internal/adapters/ingest"
	"github.com/mikey/graph-spam-filter/internal/config"
	"github.com/mikey/graph-spam-filter/internal/core"
	"github.com/mikey/graph-spam-filter/internal/factory"
	"github.com/mikey/graph-spam-filter/internal/logging"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewServiceFactory); err != nil {
		return nil, err
	}

	// Register verdict cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.VerdictCache, error) {
		return f.CreateVerdictCache()
	}); err != nil {
		return nil, err
	}

	// Register analysis service
	if err := container.Provide(func(f *factory.ServiceFactory, cache core.VerdictCache) (*core.AnalysisService, error) {
		return f.CreateAnalysisService(cache)
	}); err != nil {
		return nil, err
	}

	// Register dataset reader
	if err := container.Provide(ingest.NewCSVReader); err != nil {
		return nil, err
	}

	return container, nil
}
