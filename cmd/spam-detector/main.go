package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/mikey/graph-spam-filter/internal/adapters/ingest"
	"github.com/mikey/graph-spam-filter/internal/core"
	"github.com/mikey/graph-spam-filter/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run analyzes one dataset and prints the results
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	service *core.AnalysisService,
	reader *ingest.CSVReader,
	generator *ingest.Generator,
	cache core.VerdictCache,
) error {
	defer logger.Sync()

	// Load edge records: generated, from file, or from stdin
	var records []core.EdgeRecord
	var err error
	switch {
	case flags.Generate:
		records = generator.Dataset(50, 3)
		logger.Info("Generated synthetic dataset",
			zap.Int64("seed", flags.Seed),
			zap.Int("records", len(records)))
	case flags.InputFile != "":
		records, err = reader.ReadFile(flags.InputFile)
		if err != nil {
			logger.Fatal("Failed to read dataset", zap.Error(err), zap.String("file", flags.InputFile))
		}
		logger.Info("Reading dataset from file", zap.String("file", flags.InputFile))
	default:
		records, err = reader.Read(os.Stdin)
		if err != nil {
			logger.Fatal("Failed to read dataset", zap.Error(err))
		}
		logger.Info("Reading dataset from stdin")
	}

	startTime := time.Now()
	report, err := service.Analyze(context.Background(), records)
	if err != nil {
		logger.Fatal("Failed to analyze dataset", zap.Error(err))
	}

	// Print network summary
	fmt.Printf("\n=== Network Summary ===\n")
	fmt.Printf("Nodes: %d\n", report.Metrics.Nodes)
	fmt.Printf("Edges: %d\n", report.Metrics.Edges)
	fmt.Printf("Density: %.4f\n", report.Metrics.Density)
	fmt.Printf("Average degree: %.2f\n", report.Metrics.AverageDegree)
	if report.Metrics.Diameter.Finite {
		fmt.Printf("Diameter: %.2f\n", report.Metrics.Diameter.Value)
	} else {
		fmt.Printf("Diameter: disconnected (largest component: %.2f)\n",
			report.Metrics.Diameter.LargestComponent)
	}
	fmt.Printf("Average clustering: %.4f\n", report.Metrics.AverageClustering)
	fmt.Printf("Components: %d\n", len(report.Components))
	fmt.Printf("Spanning forest edges: %d (total cost %.4f)\n",
		len(report.Forest.Edges), report.Forest.TotalCost)
	fmt.Printf("Colors used: %d\n", report.Coloring.ColorCount)

	// Print classification results
	fmt.Printf("\n=== Classification ===\n")
	fmt.Printf("Senders scored: %d\n", report.Summary.Total)
	fmt.Printf("High risk: %d\n", report.Summary.HighRisk)
	fmt.Printf("Suspicious: %d\n", report.Summary.Suspicious)
	fmt.Printf("Legitimate: %d\n", report.Summary.Legitimate)

	topN := flags.TopN
	if topN > len(report.Ranking) {
		topN = len(report.Ranking)
	}
	fmt.Printf("\n=== Top %d Senders ===\n", topN)
	for i := 0; i < topN; i++ {
		r := report.Ranking[i]
		fmt.Printf("%2d. %-40s score=%.4f (degree=%.2f centrality=%.2f burst=%.2f) %s\n",
			i+1, r.Sender, r.Score, r.DegreeRatio, r.Centrality, r.Burst, r.Verdict)
	}

	if len(report.Hubs) > 0 {
		fmt.Printf("\n=== Hub Candidates ===\n")
		for _, h := range report.Hubs {
			fmt.Printf("%-40s forest degree=%d share=%.2f\n", h.Node, h.ForestDegree, h.Share)
		}
	}

	if len(report.RelayChains) > 0 {
		fmt.Printf("\n=== Relay Chains ===\n")
		for _, c := range report.RelayChains {
			cost := c.Path.Cost
			if math.IsInf(cost, 1) {
				continue
			}
			fmt.Printf("%s -> %s via %v (cost %.4f)\n", c.From, c.To, c.Intermediaries, cost)
		}
	}

	fmt.Printf("\nProcessing time: %v\n", time.Since(startTime))

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
