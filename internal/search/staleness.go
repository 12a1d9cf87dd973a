// Package search implements the per-page cache synchronization pipeline:
// staleness policy, result normalization, the page orchestrator and the
// HTTP handler in front of it.
package search

import (
	"time"

	"aihunter/search-service/internal/model"
)

// Verdict classifies a cached candidate against the freshness policy.
type Verdict int

const (
	// VerdictMissing — no cached row for this user.
	VerdictMissing Verdict = iota
	// VerdictFresh — cached row is recent and complete; serve it as-is.
	VerdictFresh
	// VerdictStale — never refreshed, or refreshed longer ago than the
	// configured threshold.
	VerdictStale
	// VerdictIncomplete — recent enough but the profile README was never
	// captured.
	VerdictIncomplete
)

func (v Verdict) String() string {
	switch v {
	case VerdictMissing:
		return "missing"
	case VerdictFresh:
		return "fresh"
	case VerdictStale:
		return "stale"
	case VerdictIncomplete:
		return "incomplete"
	}
	return "unknown"
}

// NeedsFetch reports whether the verdict requires a live fetch. Only a
// fresh cache hit skips the network.
func (v Verdict) NeedsFetch() bool { return v != VerdictFresh }

// Evaluate applies the freshness policy to a cached candidate (nil means
// no cache hit) at the given evaluation time. A row can be both stale
// and incomplete; staleness wins the label, and either alone forces a
// refresh, so the distinction only shows up in logs.
func Evaluate(c *model.Candidate, now time.Time, staleAfter time.Duration) Verdict {
	if c == nil {
		return VerdictMissing
	}
	if c.LastRefreshedAt == nil || now.Sub(*c.LastRefreshedAt) > staleAfter {
		return VerdictStale
	}
	if c.ProfileReadme == nil || *c.ProfileReadme == "" {
		return VerdictIncomplete
	}
	return VerdictFresh
}
