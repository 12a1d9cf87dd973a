// Package model defines shared data structures for the search service.
package model

import "time"

// UserSummary is the lightweight per-user entry returned by the GitHub
// user-search endpoint. DetailURL and ReposURL come from the API response
// and are followed as-is, never rebuilt by hand.
type UserSummary struct {
	ID        int64
	Login     string
	DetailURL string
	ReposURL  string
}

// Candidate mirrors a row of the candidates table. It is the persisted
// shape of a GitHub user profile enriched with inferred skills and the
// profile README.
//
// Optional profile fields are pointers: GitHub reports them as null for
// users who never filled them in, and the distinction matters — a nil
// ProfileReadme marks the record as incomplete and forces a live refresh.
type Candidate struct {
	GithubID        int64
	Login           string
	Name            *string
	Email           *string
	Website         *string
	Company         *string
	Location        *string
	GithubURL       string
	AvatarURL       string
	Skills          []string
	ProfileReadme   *string
	LastRefreshedAt *time.Time // nil on legacy rows that predate refresh tracking
}

// Provenance values for SearchResultEntry.Source.
const (
	SourceCache         = "cache"
	SourceLive          = "live"
	SourceStaleFallback = "stale-fallback"
)

// SearchResultEntry is the JSON shape returned to the frontend for one
// candidate. Cache-served and live-fetched records both pass through
// search.Normalize, so the field set here is the single source of truth
// for the response shape.
type SearchResultEntry struct {
	ID            int64    `json:"id"`
	Login         string   `json:"login"`
	Name          string   `json:"name"`
	Email         *string  `json:"email"`
	Website       *string  `json:"website"`
	Company       *string  `json:"company"`
	Location      *string  `json:"location"`
	GithubURL     string   `json:"githubUrl"`
	GithubAvatar  string   `json:"githubAvatar"`
	Skills        []string `json:"skills"`
	ProfileReadme *string  `json:"profileReadme"`
	Source        string   `json:"source"`
}
