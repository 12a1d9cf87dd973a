// Package store persists candidate profiles in the candidates table.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aihunter/search-service/internal/model"
)

const candidateColumns = `github_id, github_login, name, email, website, company, location,
       github_url, github_avatar_url, skills, profile_readme, last_refreshed_at`

// CandidateStore is the cache layer over the candidates table.
type CandidateStore struct {
	pool *pgxpool.Pool
}

// New returns a CandidateStore backed by the given pool.
func New(pool *pgxpool.Pool) *CandidateStore {
	return &CandidateStore{pool: pool}
}

// LookupMany fetches all cached candidates for the given GitHub ids in
// one query. Ids without a row are simply absent from the result map.
func (s *CandidateStore) LookupMany(ctx context.Context, ids []int64) (map[int64]model.Candidate, error) {
	if len(ids) == 0 {
		return map[int64]model.Candidate{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates
		 WHERE github_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	cached := make(map[int64]model.Candidate, len(ids))
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		cached[c.GithubID] = c
	}
	return cached, rows.Err()
}

// Upsert inserts the candidate or overwrites every mutable column of the
// existing row. Partial merges never happen — a refresh replaces the row
// wholesale. The guard on last_refreshed_at keeps the timestamp
// monotonic when two refreshes of the same user race.
func (s *CandidateStore) Upsert(ctx context.Context, c *model.Candidate) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO candidates (
		     github_id, github_login, name, email, website, company, location,
		     github_url, github_avatar_url, skills, profile_readme, last_refreshed_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (github_id) DO UPDATE SET
		     github_login      = EXCLUDED.github_login,
		     name              = EXCLUDED.name,
		     email             = EXCLUDED.email,
		     website           = EXCLUDED.website,
		     company           = EXCLUDED.company,
		     location          = EXCLUDED.location,
		     github_url        = EXCLUDED.github_url,
		     github_avatar_url = EXCLUDED.github_avatar_url,
		     skills            = EXCLUDED.skills,
		     profile_readme    = EXCLUDED.profile_readme,
		     last_refreshed_at = EXCLUDED.last_refreshed_at
		 WHERE candidates.last_refreshed_at IS NULL
		    OR EXCLUDED.last_refreshed_at >= candidates.last_refreshed_at`,
		c.GithubID, c.Login, c.Name, c.Email, c.Website, c.Company, c.Location,
		c.GithubURL, c.AvatarURL, c.Skills, c.ProfileReadme, c.LastRefreshedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert candidate %d: %w", c.GithubID, err)
	}
	return nil
}

// ListStale returns up to limit candidates due for a background refresh:
// never refreshed, refreshed before the cutoff, or missing the profile
// README. Oldest first, legacy rows ahead of everything.
func (s *CandidateStore) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]model.Candidate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates
		 WHERE last_refreshed_at IS NULL
		    OR last_refreshed_at < $1
		    OR profile_readme IS NULL
		 ORDER BY last_refreshed_at ASC NULLS FIRST
		 LIMIT $2`,
		cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query stale candidates: %w", err)
	}
	defer rows.Close()

	var stale []model.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		stale = append(stale, c)
	}
	return stale, rows.Err()
}

func scanCandidate(rows pgx.Rows) (model.Candidate, error) {
	var c model.Candidate
	if err := rows.Scan(
		&c.GithubID, &c.Login, &c.Name, &c.Email, &c.Website, &c.Company, &c.Location,
		&c.GithubURL, &c.AvatarURL, &c.Skills, &c.ProfileReadme, &c.LastRefreshedAt,
	); err != nil {
		return model.Candidate{}, fmt.Errorf("scan candidate: %w", err)
	}
	return c, nil
}
