package config

import (
	"fmt"

	"github.com/mikey/graph-spam-filter/internal/analysis"
	"github.com/mikey/graph-spam-filter/internal/core"
	"github.com/mikey/graph-spam-filter/internal/detection"
)

// GetScoring returns the scorer configuration
func (c *Config) GetScoring() (detection.ScorerOptions, error) {
	opts := detection.ScorerOptions{
		Weights: detection.Weights{
			DegreeRatio: c.GetFloat64("scoring.degree_ratio_weight"),
			Centrality:  c.GetFloat64("scoring.centrality_weight"),
			Burst:       c.GetFloat64("scoring.burst_weight"),
		},
	}

	variant, err := analysis.ParseVariant(c.GetString("scoring.centrality_variant"))
	if err != nil {
		return opts, err
	}
	opts.Variant = variant

	strategy, err := detection.ParseBurstStrategy(c.GetString("scoring.burst_strategy"))
	if err != nil {
		return opts, err
	}
	opts.BurstStrategy = strategy

	window, err := c.GetDuration("scoring.burst_window")
	if err != nil {
		return opts, fmt.Errorf("invalid burst window: %w", err)
	}
	opts.BurstWindow = window

	return opts, nil
}

// GetThresholds returns the classification thresholds
func (c *Config) GetThresholds() detection.Thresholds {
	return detection.Thresholds{
		High: c.GetFloat64("classifier.high_threshold"),
		Low:  c.GetFloat64("classifier.low_threshold"),
	}
}

// GetTopN returns the ranking size for report summaries
func (c *Config) GetTopN() int {
	return c.GetInt("classifier.top_n")
}

// GetAnalysisOptions assembles the full run configuration
func (c *Config) GetAnalysisOptions() (core.AnalysisOptions, error) {
	opts := core.AnalysisOptions{
		Thresholds:   c.GetThresholds(),
		RelayMaxHops: c.GetInt("analysis.relay_max_hops"),
		HubThreshold: c.GetFloat64("analysis.hub_threshold"),
	}

	scorer, err := c.GetScoring()
	if err != nil {
		return opts, err
	}
	opts.Scorer = scorer

	mode, err := analysis.ParseDiameterMode(c.GetString("analysis.diameter_mode"))
	if err != nil {
		return opts, err
	}
	opts.DiameterMode = mode

	order, err := analysis.ParseOrderStrategy(c.GetString("analysis.coloring_order"))
	if err != nil {
		return opts, err
	}
	opts.ColoringOrder = order

	return opts, nil
}
