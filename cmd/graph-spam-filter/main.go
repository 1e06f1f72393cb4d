package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mikey/graph-spam-filter/internal/adapters/ingest"
	"github.com/mikey/graph-spam-filter/internal/core"
	"github.com/mikey/graph-spam-filter/internal/di"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	service *core.AnalysisService,
	reader *ingest.CSVReader,
	cache core.VerdictCache,
) error {
	defer logger.Sync()

	if len(os.Args) < 2 {
		return fmt.Errorf("usage: graph-spam-filter <dataset.csv>")
	}
	datasetPath := os.Args[1]

	records, err := reader.ReadFile(datasetPath)
	if err != nil {
		logger.Error("Failed to read dataset", zap.Error(err), zap.String("file", datasetPath))
		return err
	}
	logger.Info("Loaded dataset",
		zap.String("file", datasetPath),
		zap.Int("records", len(records)))

	report, err := service.Analyze(context.Background(), records)
	if err != nil {
		logger.Error("Analysis failed", zap.Error(err))
		return err
	}

	// Emit the full report for downstream rendering
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	// Stop the cache if needed
	switch c := cache.(type) {
	case interface{ Stop() error }:
		if err := c.Stop(); err != nil {
			logger.Error("Failed to stop cache", zap.Error(err))
		}
	case interface{ Stop() }:
		c.Stop()
	}

	return nil
}
