package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/graph-spam-filter/internal/adapters/ingest"
	"github.com/mikey/graph-spam-filter/internal/config"
	"github.com/mikey/graph-spam-filter/internal/core"
	"github.com/mikey/graph-spam-filter/internal/factory"
	"github.com/mikey/graph-spam-filter/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Scoring flags
	DegreeRatioWeight float64
	CentralityWeight  float64
	BurstWeight       float64
	CentralityVariant string
	BurstStrategy     string
	BurstWindow       string

	// Classification flags
	HighThreshold float64
	LowThreshold  float64
	TopN          int

	// Analysis flags
	DiameterMode  string
	ColoringOrder string

	// Input flags
	InputFile  string
	Generate   bool
	Seed       int64
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Scoring flags
	flag.Float64Var(&flags.DegreeRatioWeight, "degree-ratio-weight", 0.40, "Weight of the degree-ratio component")
	flag.Float64Var(&flags.CentralityWeight, "centrality-weight", 0.35, "Weight of the centrality component")
	flag.Float64Var(&flags.BurstWeight, "burst-weight", 0.25, "Weight of the temporal-burst component")
	flag.StringVar(&flags.CentralityVariant, "centrality", "betweenness", "Centrality variant (betweenness, closeness)")
	flag.StringVar(&flags.BurstStrategy, "burst-strategy", "cv", "Temporal burst statistic (cv, window)")
	flag.StringVar(&flags.BurstWindow, "burst-window", "1h", "Window size for the windowed burst statistic")

	// Classification flags
	flag.Float64Var(&flags.HighThreshold, "high-threshold", 0.6, "Score at or above which a sender is high risk")
	flag.Float64Var(&flags.LowThreshold, "low-threshold", 0.3, "Score at or above which a sender is suspicious")
	flag.IntVar(&flags.TopN, "top", 10, "Number of top-ranked senders to print")

	// Analysis flags
	flag.StringVar(&flags.DiameterMode, "diameter-mode", "hops", "Diameter measurement (hops, cost)")
	flag.StringVar(&flags.ColoringOrder, "coloring-order", "degree", "Greedy coloring order (degree, insertion)")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input CSV dataset (use stdin if not specified)")
	flag.BoolVar(&flags.Generate, "generate", false, "Analyze a generated synthetic dataset instead of reading input")
	flag.Int64Var(&flags.Seed, "seed", 42, "Seed for the synthetic dataset generator")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// Viper builds a configuration instance from the parsed flags
func (flags *CLIFlags) Viper() *config.Config {
	v := config.NewEmptyViper()

	v.Set("scoring.degree_ratio_weight", flags.DegreeRatioWeight)
	v.Set("scoring.centrality_weight", flags.CentralityWeight)
	v.Set("scoring.burst_weight", flags.BurstWeight)
	v.Set("scoring.centrality_variant", flags.CentralityVariant)
	v.Set("scoring.burst_strategy", flags.BurstStrategy)
	v.Set("scoring.burst_window", flags.BurstWindow)

	v.Set("classifier.high_threshold", flags.HighThreshold)
	v.Set("classifier.low_threshold", flags.LowThreshold)
	v.Set("classifier.top_n", flags.TopN)

	v.Set("analysis.diameter_mode", flags.DiameterMode)
	v.Set("analysis.coloring_order", flags.ColoringOrder)

	return config.NewFromViper(v)
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration, from file when requested, otherwise from flags
	if err := container.Provide(func(flags *CLIFlags) (*config.Config, error) {
		if flags.ConfigFile != "" {
			return config.NewFromFile(flags.ConfigFile)
		}
		return flags.Viper(), nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register factories and the analysis service
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewServiceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (core.VerdictCache, error) {
		return f.CreateVerdictCache()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ServiceFactory, cache core.VerdictCache) (*core.AnalysisService, error) {
		return f.CreateAnalysisService(cache)
	}); err != nil {
		return nil, err
	}

	// Register dataset reader and generator
	if err := container.Provide(ingest.NewCSVReader); err != nil {
		return nil, err
	}
	if err := container.Provide(func(flags *CLIFlags) *ingest.Generator {
		return ingest.NewGenerator(flags.Seed)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
