package search_test

import (
	"testing"
	"time"

	"aihunter/search-service/internal/model"
	"aihunter/search-service/internal/search"
)

// Synthetic evaluation time — the evaluator is pure, so every case pins
// both clock and record timestamps.
var evalNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

const staleAfter = 30 * 24 * time.Hour

func strPtr(s string) *string { return &s }

// record builds a cached candidate refreshed `age` before evalNow.
func record(age time.Duration, readme *string) *model.Candidate {
	ts := evalNow.Add(-age)
	return &model.Candidate{
		GithubID:        1,
		Login:           "octocat",
		ProfileReadme:   readme,
		LastRefreshedAt: &ts,
	}
}

// ── Evaluate ───────────────────────────────────────────────────────────────

func TestEvaluate_NoCacheHitIsMissing(t *testing.T) {
	if got := search.Evaluate(nil, evalNow, staleAfter); got != search.VerdictMissing {
		t.Errorf("Evaluate(nil) = %s, want missing", got)
	}
}

func TestEvaluate_RecentCompleteIsFresh(t *testing.T) {
	c := record(time.Hour, strPtr("# hi"))
	if got := search.Evaluate(c, evalNow, staleAfter); got != search.VerdictFresh {
		t.Errorf("Evaluate(recent, complete) = %s, want fresh", got)
	}
}

func TestEvaluate_NeverRefreshedIsStale(t *testing.T) {
	c := record(time.Hour, strPtr("# hi"))
	c.LastRefreshedAt = nil // legacy row
	if got := search.Evaluate(c, evalNow, staleAfter); got != search.VerdictStale {
		t.Errorf("Evaluate(no timestamp) = %s, want stale", got)
	}
}

func TestEvaluate_OldRecordIsStale(t *testing.T) {
	c := record(45*24*time.Hour, strPtr("# hi"))
	if got := search.Evaluate(c, evalNow, staleAfter); got != search.VerdictStale {
		t.Errorf("Evaluate(45 days old) = %s, want stale", got)
	}
}

// Age exactly at the threshold is still fresh — only strictly older
// records are re-fetched.
func TestEvaluate_ThresholdBoundary(t *testing.T) {
	cases := []struct {
		name string
		age  time.Duration
		want search.Verdict
	}{
		{"just inside", staleAfter - time.Minute, search.VerdictFresh},
		{"exactly at threshold", staleAfter, search.VerdictFresh},
		{"just past", staleAfter + time.Minute, search.VerdictStale},
	}
	for _, tc := range cases {
		c := record(tc.age, strPtr("# hi"))
		if got := search.Evaluate(c, evalNow, staleAfter); got != tc.want {
			t.Errorf("%s: Evaluate = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestEvaluate_MissingReadmeIsIncomplete(t *testing.T) {
	if got := search.Evaluate(record(time.Hour, nil), evalNow, staleAfter); got != search.VerdictIncomplete {
		t.Errorf("Evaluate(nil readme) = %s, want incomplete", got)
	}
	if got := search.Evaluate(record(time.Hour, strPtr("")), evalNow, staleAfter); got != search.VerdictIncomplete {
		t.Errorf("Evaluate(empty readme) = %s, want incomplete", got)
	}
}

// A record can be both stale and incomplete; staleness takes the label
// but either way the verdict forces a fetch.
func TestEvaluate_StaleAndIncomplete(t *testing.T) {
	c := record(45*24*time.Hour, nil)
	got := search.Evaluate(c, evalNow, staleAfter)
	if got != search.VerdictStale {
		t.Errorf("Evaluate(stale + incomplete) = %s, want stale", got)
	}
	if !got.NeedsFetch() {
		t.Error("stale + incomplete record must need a fetch")
	}
}

// ── NeedsFetch ─────────────────────────────────────────────────────────────

func TestVerdict_NeedsFetch(t *testing.T) {
	cases := []struct {
		verdict search.Verdict
		want    bool
	}{
		{search.VerdictMissing, true},
		{search.VerdictFresh, false},
		{search.VerdictStale, true},
		{search.VerdictIncomplete, true},
	}
	for _, tc := range cases {
		if got := tc.verdict.NeedsFetch(); got != tc.want {
			t.Errorf("NeedsFetch(%s) = %v, want %v", tc.verdict, got, tc.want)
		}
	}
}
