package core

import (
	"context"
)

// VerdictCache defines the interface for persisting per-sender verdicts
// across analysis runs.
type VerdictCache interface {
	// Get retrieves the cached verdict for a sender
	Get(ctx context.Context, sender string) (*CachedVerdict, error)

	// Set stores a verdict
	Set(ctx context.Context, verdict *CachedVerdict) error

	// Delete removes a sender's verdict
	Delete(ctx context.Context, sender string) error

	// Cleanup removes expired verdicts
	Cleanup(ctx context.Context) error
}
