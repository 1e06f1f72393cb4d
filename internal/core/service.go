package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/graph-spam-filter/internal/analysis"
	"github.com/mikey/graph-spam-filter/internal/detection"
	"github.com/mikey/graph-spam-filter/internal/graph"
)

// AnalysisOptions carries the externally configurable knobs of a run: the
// scoring weights and strategies, the classification thresholds, and the
// per-engine variants.
type AnalysisOptions struct {
	Scorer        detection.ScorerOptions
	Thresholds    detection.Thresholds
	DiameterMode  analysis.DiameterMode
	ColoringOrder analysis.OrderStrategy
	RelayMaxHops  int
	HubThreshold  float64
}

// DefaultAnalysisOptions returns the standard run configuration.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		Scorer:        detection.DefaultScorerOptions(),
		Thresholds:    detection.DefaultThresholds(),
		DiameterMode:  analysis.DiameterHops,
		ColoringOrder: analysis.OrderByDegree,
		RelayMaxHops:  4,
		HubThreshold:  0.5,
	}
}

// AnalysisService is the core orchestrator: it builds the communication
// graph from edge records, runs the algorithm engines over the immutable
// snapshot, scores and classifies senders, and assembles the report.
type AnalysisService struct {
	cache        VerdictCache
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	opts         AnalysisOptions
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(
	cache VerdictCache,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	opts AnalysisOptions,
) (*AnalysisService, error) {
	if _, err := detection.NewClassifier(opts.Thresholds); err != nil {
		return nil, err
	}
	return &AnalysisService{
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
		opts:         opts,
	}, nil
}

// BuildGraph constructs the communication graph from an ordered sequence of
// edge records. Records with a non-positive weight are rejected.
func BuildGraph(records []EdgeRecord) (*graph.Graph, error) {
	g := graph.New()
	for i, r := range records {
		var err error
		if r.Timestamp.IsZero() {
			err = g.AddEdge(r.Sender, r.Recipient, r.Weight)
		} else {
			err = g.AddEdge(r.Sender, r.Recipient, r.Weight, r.Timestamp)
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return g, nil
}

// Analyze runs the full pipeline over a dataset. The graph is built once
// and then only read; the independent engines run concurrently over the
// shared snapshot since none of them mutates it.
func (s *AnalysisService) Analyze(ctx context.Context, records []EdgeRecord) (*AnalysisReport, error) {
	started := time.Now()
	report := &AnalysisReport{
		RunID:      uuid.NewString(),
		AnalyzedAt: started,
	}

	g, err := BuildGraph(records)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	if g.NodeCount() == 0 {
		return nil, graph.ErrEmptyGraph
	}

	s.logger.Info("Built communication graph",
		zap.String("run_id", report.RunID),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))

	// The structural engines only read the graph and write to their own
	// results, so they are dispatched in parallel.
	var (
		wg            sync.WaitGroup
		forestErr     error
		coloringErr   error
		centralityErr error
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		report.Metrics = analysis.NewMetricsEngine(g).Summary(s.opts.DiameterMode)
	}()
	go func() {
		defer wg.Done()
		report.Forest, forestErr = analysis.NewSpanningTreeEngine(g).MinimumSpanningForest()
	}()
	go func() {
		defer wg.Done()
		report.Components = analysis.NewConnectivityEngine(g).WeaklyConnectedComponents()
	}()
	go func() {
		defer wg.Done()
		report.Coloring, coloringErr = analysis.NewColoringEngine(g).Greedy(s.opts.ColoringOrder)
	}()

	report.Centrality, centralityErr = analysis.NewCentralityEngine(g).Compute(s.opts.Scorer.Variant)
	wg.Wait()

	for _, err := range []error{forestErr, coloringErr, centralityErr} {
		if err != nil {
			return nil, fmt.Errorf("analysis engine failed: %w", err)
		}
	}

	scores, err := detection.NewScorer(g, s.opts.Scorer).ScoreAll()
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	classifier, err := detection.NewClassifier(s.opts.Thresholds)
	if err != nil {
		return nil, err
	}
	report.Ranking = classifier.Classify(scores)
	report.Summary = classifier.Summary(report.Ranking)

	report.Hubs, err = detection.NewMSTAnalyzer(g).HubCandidates(s.opts.HubThreshold)
	if err != nil {
		return nil, fmt.Errorf("hub analysis failed: %w", err)
	}

	var flagged []string
	for _, r := range report.Ranking {
		if r.Verdict != detection.VerdictLegitimate {
			flagged = append(flagged, r.Sender)
		}
	}
	report.RelayChains, err = detection.NewPathAnalyzer(g).FindRelayChains(flagged, s.opts.RelayMaxHops)
	if err != nil {
		return nil, fmt.Errorf("relay analysis failed: %w", err)
	}

	if s.cacheEnabled {
		s.storeVerdicts(ctx, report)
	}

	report.Duration = time.Since(started)
	s.logger.Info("Analysis complete",
		zap.String("run_id", report.RunID),
		zap.Int("senders", len(report.Ranking)),
		zap.Int("high_risk", report.Summary.HighRisk),
		zap.Int("suspicious", report.Summary.Suspicious),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// LookupSender consults the verdict cache for a sender scored in an earlier
// run. A cache miss is reported by the cache implementation's error.
func (s *AnalysisService) LookupSender(ctx context.Context, sender string) (*CachedVerdict, error) {
	if !s.cacheEnabled {
		return nil, fmt.Errorf("verdict cache is disabled")
	}
	return s.cache.Get(ctx, sender)
}

// storeVerdicts writes the run's classified scores into the verdict cache.
// Cache failures are logged, never fatal to the analysis.
func (s *AnalysisService) storeVerdicts(ctx context.Context, report *AnalysisReport) {
	expiresAt := time.Now().Add(s.cacheTTL)
	for _, r := range report.Ranking {
		entry := &CachedVerdict{
			Sender:     r.Sender,
			Score:      r.Score,
			Verdict:    r.Verdict,
			AnalyzedAt: report.AnalyzedAt,
			ExpiresAt:  expiresAt,
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to cache verdict", zap.Error(err), zap.String("sender", r.Sender))
		}
	}
}
