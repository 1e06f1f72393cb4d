package core

import (
	"time"

	"github.com/mikey/graph-spam-filter/internal/analysis"
	"github.com/mikey/graph-spam-filter/internal/detection"
)

// EdgeRecord is one parsed email-traffic record at the engine boundary:
// weight emails from Sender to Recipient. Identifiers are opaque strings;
// address syntax validation belongs to the ingestion layer. Timestamp is
// optional (zero when the dataset carries no temporal data).
type EdgeRecord struct {
	Sender    string
	Recipient string
	Weight    int
	Timestamp time.Time
}

// AnalysisReport is the full structured output of one analysis run over a
// dataset: the aggregate network statistics, the structural results of each
// algorithm engine, and the ranked, classified sender scores.
type AnalysisReport struct {
	RunID      string
	AnalyzedAt time.Time
	Duration   time.Duration

	Metrics    analysis.NetworkMetrics
	Forest     analysis.SpanningForest
	Components []analysis.Component
	Coloring   analysis.Coloring
	Centrality map[string]float64

	Ranking     []detection.ScoreRecord
	Summary     detection.ClassificationSummary
	Hubs        []detection.HubCandidate
	RelayChains []detection.RelayChain
}

// CachedVerdict is the persisted per-sender outcome of a past analysis run.
type CachedVerdict struct {
	Sender     string
	Score      float64
	Verdict    detection.Verdict
	AnalyzedAt time.Time
	ExpiresAt  time.Time
}
