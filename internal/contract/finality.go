package contract

import "context"

// FinalityChecker is the narrow query interface to the external
// certifying lookup: given a content hash, it reports whether the
// content has been externally finalized. The lookup itself lives
// outside this core; implementations are supplied by the host.
type FinalityChecker interface {
	CheckData(ctx context.Context, dataHash string) (FinalityResult, error)
}

// FinalityResult is the collaborator's answer for one content hash.
type FinalityResult struct {
	Finalized bool
	Data      *FinalityData // nil when the collaborator has no detail yet
}

// FinalityData carries the external anchor point of a finalized hash.
type FinalityData struct {
	ExternalHeight    uint64
	ExternalTimestamp uint64
}

// StaticChecker answers from a fixed table of hashes. Used in tests and
// local runs; a networked implementation is the host's concern.
type StaticChecker struct {
	Results map[string]FinalityResult
}

// CheckData returns the configured result for the hash, or a
// not-finalized result for unknown hashes.
func (c *StaticChecker) CheckData(_ context.Context, dataHash string) (FinalityResult, error) {
	if res, ok := c.Results[dataHash]; ok {
		return res, nil
	}
	return FinalityResult{Finalized: false}, nil
}
