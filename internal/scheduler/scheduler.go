// Package scheduler wires up the cron job that re-fetches stale or
// incomplete cached candidates in the background, so search pages hit a
// warm cache instead of burning the GitHub quota at request time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"aihunter/search-service/internal/github"
	"aihunter/search-service/internal/model"
	"aihunter/search-service/internal/store"
)

// refreshBatchLimit bounds how many rows one cycle refreshes. Each row
// costs up to three GitHub calls, so the batch stays small.
const refreshBatchLimit = 50

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron       *cron.Cron
	store      *store.CandidateStore
	client     *github.Client
	staleAfter time.Duration
	spec       string // cron spec, e.g. "@every 24h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(st *store.CandidateStore, client *github.Client, intervalHours int, staleAfter time.Duration) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		store:      st,
		client:     client,
		staleAfter: staleAfter,
		spec:       fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so a long-idle cache doesn't wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRefresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("refresh scheduler started", "spec", s.spec)

	go s.runRefresh(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	slog.Info("refresh scheduler stopped")
}

// runRefresh refreshes one batch of stale rows. Rows are processed
// sequentially — the GitHub rate limit applies per token, and there is
// no caller waiting on this path.
func (s *Scheduler) runRefresh(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.staleAfter)
	stale, err := s.store.ListStale(ctx, cutoff, refreshBatchLimit)
	if err != nil {
		slog.Warn("refresh cycle: listing stale candidates failed", "err", err)
		return
	}
	if len(stale) == 0 {
		slog.Info("refresh cycle: cache is warm — nothing to do")
		return
	}

	var refreshed, failed int
	for _, c := range stale {
		if ctx.Err() != nil {
			slog.Info("refresh cycle interrupted", "refreshed", refreshed)
			return
		}
		if err := s.refreshOne(ctx, c); err != nil {
			slog.Warn("refresh cycle: candidate refresh failed", "login", c.Login, "err", err)
			failed++
			continue
		}
		refreshed++
	}

	slog.Info("refresh cycle complete", "refreshed", refreshed, "failed", failed)
}

func (s *Scheduler) refreshOne(ctx context.Context, c model.Candidate) error {
	fetched, err := s.client.FetchCandidateByLogin(ctx, c.Login)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, fetched)
}
