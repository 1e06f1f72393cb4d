package factory

import (
	"fmt"

	"github.com/mikey/graph-spam-filter/internal/config"
	"github.com/mikey/graph-spam-filter/internal/core"
	"go.uber.org/zap"
)

// ServiceFactory creates the analysis service from configuration
type ServiceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewServiceFactory creates a new service factory
func NewServiceFactory(cfg *config.Config, logger *zap.Logger) *ServiceFactory {
	return &ServiceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAnalysisService wires the analysis service with its verdict cache
func (f *ServiceFactory) CreateAnalysisService(cache core.VerdictCache) (*core.AnalysisService, error) {
	opts, err := f.cfg.GetAnalysisOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid analysis configuration: %w", err)
	}

	cacheFactory := NewCacheFactory(f.cfg, f.logger)
	ttl, err := cacheFactory.GetCacheTTL()
	if err != nil {
		return nil, fmt.Errorf("invalid cache TTL: %w", err)
	}

	return core.NewAnalysisService(cache, f.logger, cacheFactory.IsCacheEnabled(), ttl, opts)
}
