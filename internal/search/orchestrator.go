package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"aihunter/search-service/internal/model"
)

// ─── Capability interfaces ───────────────────────────────────────────────────

// Searcher runs one page of keyword search against the directory.
type Searcher interface {
	SearchUsers(ctx context.Context, keyword string, page, perPage int) ([]model.UserSummary, int, error)
}

// Fetcher retrieves the full profile for one user summary.
type Fetcher interface {
	FetchCandidate(ctx context.Context, s model.UserSummary) (*model.Candidate, error)
}

// Store is the candidate cache used by the page pipeline.
type Store interface {
	LookupMany(ctx context.Context, ids []int64) (map[int64]model.Candidate, error)
	Upsert(ctx context.Context, c *model.Candidate) error
}

// ─── Orchestrator ────────────────────────────────────────────────────────────

// Orchestrator drives the per-page pipeline: search upstream, batch-check
// the cache, then per user either serve the cached row, fetch live and
// persist, or fall back to the stale row when the live fetch fails.
//
// Per-user failures never fail the page; only the initial search call
// can. A nil store (database unreachable at boot) degrades every page to
// fetch-everything-live.
type Orchestrator struct {
	searcher   Searcher
	fetcher    Fetcher
	store      Store         // nil: run cache-less
	rdb        *redis.Client // nil: refresh events disabled
	staleAfter time.Duration
}

// NewOrchestrator wires the pipeline. store and rdb may be nil.
func NewOrchestrator(searcher Searcher, fetcher Fetcher, store Store, rdb *redis.Client, staleAfter time.Duration) *Orchestrator {
	return &Orchestrator{
		searcher:   searcher,
		fetcher:    fetcher,
		store:      store,
		rdb:        rdb,
		staleAfter: staleAfter,
	}
}

// Page is one assembled page of search results. TotalCount is the
// upstream match count passed through verbatim — it can exceed
// len(Candidates) when users were dropped after unrecoverable fetch
// failures.
type Page struct {
	Candidates []model.SearchResultEntry
	TotalCount int
}

// SearchPage runs the pipeline for one keyword page. The returned error
// is one of the github search sentinels; everything past the search call
// is recovered locally.
func (o *Orchestrator) SearchPage(ctx context.Context, keyword string, page, perPage int) (*Page, error) {
	summaries, total, err := o.searcher.SearchUsers(ctx, keyword, page, perPage)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return &Page{Candidates: []model.SearchResultEntry{}, TotalCount: 0}, nil
	}

	cached := o.lookupCached(ctx, summaries)
	now := time.Now().UTC()

	// One slot per summary keeps upstream order regardless of which
	// goroutine finishes first; dropped users leave a nil slot.
	results := make([]*model.SearchResultEntry, len(summaries))

	limit := perPage
	if limit < 1 {
		limit = len(summaries)
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, s := range summaries {
		i, s := i, s
		var hit *model.Candidate
		if c, ok := cached[s.ID]; ok {
			c := c
			hit = &c
		}
		g.Go(func() error {
			results[i] = o.processUser(ctx, s, hit, now)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures degrade per user

	entries := make([]model.SearchResultEntry, 0, len(summaries))
	var fromCache, live, staleServed int
	for _, r := range results {
		if r == nil {
			continue
		}
		entries = append(entries, *r)
		switch r.Source {
		case model.SourceCache:
			fromCache++
		case model.SourceLive:
			live++
		case model.SourceStaleFallback:
			staleServed++
		}
	}

	slog.Info("search page assembled",
		"keyword", keyword, "page", page,
		"served", len(entries), "cache", fromCache, "live", live,
		"staleFallback", staleServed, "dropped", len(summaries)-len(entries))

	return &Page{Candidates: entries, TotalCount: total}, nil
}

// lookupCached batch-loads cache rows for the page. A lookup failure
// degrades to an empty cache — the page is then served entirely live.
func (o *Orchestrator) lookupCached(ctx context.Context, summaries []model.UserSummary) map[int64]model.Candidate {
	if o.store == nil {
		return nil
	}

	ids := make([]int64, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}

	cached, err := o.store.LookupMany(ctx, ids)
	if err != nil {
		slog.Warn("cache lookup failed — serving page live", "err", err)
		return nil
	}
	return cached
}

// processUser runs the per-user state machine and returns the entry to
// serve, or nil when the user must be dropped (fetch failed, no cache).
func (o *Orchestrator) processUser(ctx context.Context, s model.UserSummary, cached *model.Candidate, now time.Time) *model.SearchResultEntry {
	verdict := Evaluate(cached, now, o.staleAfter)
	if !verdict.NeedsFetch() {
		e := Normalize(cached, model.SourceCache)
		return &e
	}

	// Request canceled: don't start fetches or upserts for users that
	// have not completed yet.
	if ctx.Err() != nil {
		return nil
	}

	fetched, err := o.fetcher.FetchCandidate(ctx, s)
	if err != nil {
		if cached != nil {
			slog.Warn("live fetch failed — serving stale cache",
				"login", s.Login, "verdict", verdict.String(), "err", err)
			e := Normalize(cached, model.SourceStaleFallback)
			return &e
		}
		slog.Warn("live fetch failed — dropping user", "login", s.Login, "err", err)
		return nil
	}

	o.persist(ctx, fetched)

	e := Normalize(fetched, model.SourceLive)
	return &e
}

// persist upserts a freshly fetched record and publishes the refresh
// event. Both are best-effort: a persistence failure is logged and the
// record is still served to the caller.
func (o *Orchestrator) persist(ctx context.Context, c *model.Candidate) {
	if o.store == nil {
		return
	}
	if err := o.store.Upsert(ctx, c); err != nil {
		slog.Warn("candidate upsert failed", "login", c.Login, "err", err)
		return
	}
	publishRefreshed(ctx, o.rdb, c)
}

// publishRefreshed emits EVENT_CANDIDATE_REFRESHED for downstream
// consumers. Non-fatal by design of the channel, not of the pipeline.
func publishRefreshed(ctx context.Context, rdb *redis.Client, c *model.Candidate) {
	if rdb == nil {
		return
	}
	event, _ := json.Marshal(map[string]any{
		"type":        "EVENT_CANDIDATE_REFRESHED",
		"githubId":    c.GithubID,
		"login":       c.Login,
		"refreshedAt": c.LastRefreshedAt,
	})
	if err := rdb.Publish(ctx, "EVENT_CANDIDATE_REFRESHED", event).Err(); err != nil {
		slog.Warn("publish EVENT_CANDIDATE_REFRESHED failed", "err", err)
	}
}
