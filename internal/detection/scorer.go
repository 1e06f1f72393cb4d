// Package detection turns the structural signals computed by the analysis
// engines into per-sender spam scores and verdicts.
package detection

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mikey/graph-spam-filter/internal/analysis"
	"github.com/mikey/graph-spam-filter/internal/graph"
)

// Verdict is the classifier's three-tier output category.
type Verdict string

const (
	// VerdictHighRisk marks senders at or above the high threshold
	VerdictHighRisk Verdict = "high risk"
	// VerdictSuspicious marks senders between the two thresholds
	VerdictSuspicious Verdict = "suspicious"
	// VerdictLegitimate marks senders below the low threshold
	VerdictLegitimate Verdict = "legitimate"
)

// Weights is the scoring triple. The defaults are fixed design parameters,
// not fitted to data; deployments recalibrate them through configuration.
type Weights struct {
	DegreeRatio float64
	Centrality  float64
	Burst       float64
}

// DefaultWeights returns the standard 0.40/0.35/0.25 split.
func DefaultWeights() Weights {
	return Weights{DegreeRatio: 0.40, Centrality: 0.35, Burst: 0.25}
}

// BurstStrategy selects the temporal-burst statistic.
type BurstStrategy int

const (
	// BurstCoefficientOfVariation measures the coefficient of variation of
	// a sender's inter-arrival gaps
	BurstCoefficientOfVariation BurstStrategy = iota
	// BurstWindowedRate measures the largest share of a sender's emails
	// falling inside one sliding time window
	BurstWindowedRate
)

// ParseBurstStrategy maps a configuration string to a burst strategy.
func ParseBurstStrategy(s string) (BurstStrategy, error) {
	switch s {
	case "cv":
		return BurstCoefficientOfVariation, nil
	case "window":
		return BurstWindowedRate, nil
	default:
		return 0, fmt.Errorf("unsupported burst strategy: %s", s)
	}
}

func (b BurstStrategy) String() string {
	if b == BurstWindowedRate {
		return "window"
	}
	return "cv"
}

// ScoreRecord is the per-sender scoring output: the three normalized
// components, the weighted final score and, once classified, the verdict.
// Records are created fresh on every scoring run and never mutated after.
type ScoreRecord struct {
	Sender      string
	DegreeRatio float64
	Centrality  float64
	Burst       float64
	Score       float64
	Verdict     Verdict
}

// ScorerOptions configures a scoring run.
type ScorerOptions struct {
	Weights       Weights
	Variant       analysis.Variant
	BurstStrategy BurstStrategy
	BurstWindow   time.Duration
}

// DefaultScorerOptions returns the standard configuration: default weights,
// betweenness centrality, coefficient-of-variation burst with a one hour
// window for the alternative strategy.
func DefaultScorerOptions() ScorerOptions {
	return ScorerOptions{
		Weights:       DefaultWeights(),
		Variant:       analysis.VariantBetweenness,
		BurstStrategy: BurstCoefficientOfVariation,
		BurstWindow:   time.Hour,
	}
}

// Scorer combines degree-ratio, centrality and temporal-burst signals into
// one normalized score per sender.
type Scorer struct {
	g    *graph.Graph
	opts ScorerOptions
}

// NewScorer creates a scorer over g.
func NewScorer(g *graph.Graph, opts ScorerOptions) *Scorer {
	if opts.BurstWindow <= 0 {
		opts.BurstWindow = time.Hour
	}
	return &Scorer{g: g, opts: opts}
}

// allSimultaneousBurst stands in for an unbounded coefficient of variation
// when every email of a sender shares one instant. Relative normalization
// pushes such a sender to 1 and everyone else toward 0.
const allSimultaneousBurst = 1e12

// ScoreAll scores every node that sent at least one email, in graph
// insertion order. Each component is normalized into [0, 1] before
// weighting, so the final score is in [0, 1] by construction.
func (s *Scorer) ScoreAll() ([]ScoreRecord, error) {
	if s.g.NodeCount() == 0 {
		return nil, graph.ErrEmptyGraph
	}

	centrality, err := analysis.NewCentralityEngine(s.g).Compute(s.opts.Variant)
	if err != nil {
		return nil, fmt.Errorf("centrality computation: %w", err)
	}
	maxCentrality := 0.0
	for _, v := range centrality {
		if v > maxCentrality {
			maxCentrality = v
		}
	}

	var records []ScoreRecord
	var rawBursts []float64
	maxBurst := 0.0
	for _, id := range s.g.Nodes() {
		node, err := s.g.NodeByID(id)
		if err != nil {
			return nil, err
		}
		if node.OutEdges == 0 {
			continue // pure recipients are not scored
		}

		raw := s.rawBurst(node.Index)
		rawBursts = append(rawBursts, raw)
		if raw > maxBurst {
			maxBurst = raw
		}

		rec := ScoreRecord{
			Sender:      id,
			DegreeRatio: degreeRatio(node.OutEdges, node.Sent),
		}
		if maxCentrality > 0 {
			rec.Centrality = centrality[id] / maxCentrality
		}
		records = append(records, rec)
	}

	for i := range records {
		if maxBurst > 0 {
			records[i].Burst = rawBursts[i] / maxBurst
		}
		w := s.opts.Weights
		records[i].Score = clamp01(w.DegreeRatio*records[i].DegreeRatio +
			w.Centrality*records[i].Centrality +
			w.Burst*records[i].Burst)
	}
	return records, nil
}

// degreeRatio maps (distinct recipients, total sent) to [0, 1]: few
// recipients with high volume each, the hallmark of spam blasting, scores
// high.
func degreeRatio(distinct, total int) float64 {
	if total == 0 {
		return 0
	}
	return clamp01(1 - float64(distinct)/float64(total))
}

// rawBurst computes the unnormalized burst statistic from the timestamps on
// a sender's outgoing edges. A sender with no timestamp data scores 0:
// missing data is not an error.
func (s *Scorer) rawBurst(idx int) float64 {
	var timestamps []time.Time
	s.g.EachOutEdge(idx, func(e graph.Edge) bool {
		timestamps = append(timestamps, e.Timestamps...)
		return true
	})
	if len(timestamps) < 2 {
		return 0
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	if s.opts.BurstStrategy == BurstWindowedRate {
		return windowedRate(timestamps, s.opts.BurstWindow)
	}
	return gapVariation(timestamps)
}

// gapVariation is the coefficient of variation (stddev over mean) of the
// inter-arrival gaps. Regular traffic sits near 0; blasts separated by long
// silences score high.
func gapVariation(timestamps []time.Time) float64 {
	gaps := make([]float64, len(timestamps)-1)
	mean := 0.0
	for i := 1; i < len(timestamps); i++ {
		gaps[i-1] = timestamps[i].Sub(timestamps[i-1]).Seconds()
		mean += gaps[i-1]
	}
	mean /= float64(len(gaps))
	if mean == 0 {
		return allSimultaneousBurst
	}
	variance := 0.0
	for _, g := range gaps {
		d := g - mean
		variance += d * d
	}
	variance /= float64(len(gaps))
	return math.Sqrt(variance) / mean
}

// windowedRate is the largest fraction of a sender's emails that falls
// inside any single window-sized interval.
func windowedRate(timestamps []time.Time, window time.Duration) float64 {
	maxInWindow := 1
	lo := 0
	for hi := range timestamps {
		for timestamps[hi].Sub(timestamps[lo]) > window {
			lo++
		}
		if count := hi - lo + 1; count > maxInWindow {
			maxInWindow = count
		}
	}
	return float64(maxInWindow) / float64(len(timestamps))
}

// clamp01 bounds v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
