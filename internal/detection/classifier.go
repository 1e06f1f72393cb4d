package detection

import (
	"fmt"
	"sort"
)

// Thresholds are the two classification cut points, with High > Low.
type Thresholds struct {
	High float64
	Low  float64
}

// DefaultThresholds returns the standard 0.6/0.3 cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.6, Low: 0.3}
}

// ClassificationSummary counts records per verdict tier.
type ClassificationSummary struct {
	HighRisk   int
	Suspicious int
	Legitimate int
	Total      int
}

// Classifier assigns verdict tiers to score records and ranks them. It is a
// pure function of its input: no hidden state beyond the thresholds.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier, rejecting threshold pairs that do not
// satisfy High > Low.
func NewClassifier(t Thresholds) (*Classifier, error) {
	if t.High <= t.Low {
		return nil, fmt.Errorf("invalid thresholds: high (%v) must exceed low (%v)", t.High, t.Low)
	}
	return &Classifier{thresholds: t}, nil
}

// Verdict maps a single score to its tier.
func (c *Classifier) Verdict(score float64) Verdict {
	switch {
	case score >= c.thresholds.High:
		return VerdictHighRisk
	case score >= c.thresholds.Low:
		return VerdictSuspicious
	default:
		return VerdictLegitimate
	}
}

// Classify returns a fresh slice of records sorted descending by score,
// ties broken by sender identifier for determinism, each carrying its
// verdict. The input slice is left untouched.
func (c *Classifier) Classify(records []ScoreRecord) []ScoreRecord {
	ranked := append([]ScoreRecord(nil), records...)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Sender < ranked[j].Sender
	})
	for i := range ranked {
		ranked[i].Verdict = c.Verdict(ranked[i].Score)
	}
	return ranked
}

// TopN returns the n highest-scored records from an already-classified
// ranking. n larger than the ranking returns everything.
func (c *Classifier) TopN(ranked []ScoreRecord, n int) []ScoreRecord {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return append([]ScoreRecord(nil), ranked[:n]...)
}

// Summary tallies verdicts across a classified ranking.
func (c *Classifier) Summary(ranked []ScoreRecord) ClassificationSummary {
	s := ClassificationSummary{Total: len(ranked)}
	for _, r := range ranked {
		switch r.Verdict {
		case VerdictHighRisk:
			s.HighRisk++
		case VerdictSuspicious:
			s.Suspicious++
		default:
			s.Legitimate++
		}
	}
	return s
}
