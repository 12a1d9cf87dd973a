package search_test

import (
	"reflect"
	"testing"
	"time"

	"aihunter/search-service/internal/model"
	"aihunter/search-service/internal/search"
)

func fullCandidate() *model.Candidate {
	ts := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	return &model.Candidate{
		GithubID:        42,
		Login:           "octocat",
		Name:            strPtr("The Octocat"),
		Email:           strPtr("octo@example.com"),
		Website:         strPtr("https://octo.example.com"),
		Company:         strPtr("GitHub"),
		Location:        strPtr("San Francisco"),
		GithubURL:       "https://github.com/octocat",
		AvatarURL:       "https://avatars.example.com/u/42",
		Skills:          []string{"Go", "Ruby"},
		ProfileReadme:   strPtr("# Hello"),
		LastRefreshedAt: &ts,
	}
}

// ── Display-name fallback ──────────────────────────────────────────────────

func TestNormalize_UsesDisplayName(t *testing.T) {
	e := search.Normalize(fullCandidate(), model.SourceCache)
	if e.Name != "The Octocat" {
		t.Errorf("Name = %q, want %q", e.Name, "The Octocat")
	}
}

func TestNormalize_FallsBackToLogin(t *testing.T) {
	c := fullCandidate()
	c.Name = nil
	if e := search.Normalize(c, model.SourceCache); e.Name != "octocat" {
		t.Errorf("Name with nil display name = %q, want login", e.Name)
	}

	c.Name = strPtr("")
	if e := search.Normalize(c, model.SourceCache); e.Name != "octocat" {
		t.Errorf("Name with empty display name = %q, want login", e.Name)
	}
}

// ── Provenance ─────────────────────────────────────────────────────────────

func TestNormalize_TagsProvenance(t *testing.T) {
	for _, src := range []string{model.SourceCache, model.SourceLive, model.SourceStaleFallback} {
		if e := search.Normalize(fullCandidate(), src); e.Source != src {
			t.Errorf("Source = %q, want %q", e.Source, src)
		}
	}
}

// ── Shape parity ───────────────────────────────────────────────────────────

// The same record normalized through the cache path and the live path
// must produce identical entries apart from the provenance tag. This is
// the drift guard for the pipeline's two populate paths.
func TestNormalize_CacheAndLivePathsAgree(t *testing.T) {
	c := fullCandidate()
	fromCache := search.Normalize(c, model.SourceCache)
	fromLive := search.Normalize(c, model.SourceLive)

	fromCache.Source = ""
	fromLive.Source = ""
	if !reflect.DeepEqual(fromCache, fromLive) {
		t.Errorf("cache entry %+v != live entry %+v", fromCache, fromLive)
	}
}

func TestNormalize_NilSkillsBecomeEmptyList(t *testing.T) {
	c := fullCandidate()
	c.Skills = nil
	e := search.Normalize(c, model.SourceCache)
	if e.Skills == nil || len(e.Skills) != 0 {
		t.Errorf("Skills = %#v, want empty non-nil slice", e.Skills)
	}
}

func TestNormalize_CopiesIdentityFields(t *testing.T) {
	e := search.Normalize(fullCandidate(), model.SourceLive)
	if e.ID != 42 || e.Login != "octocat" {
		t.Errorf("identity = (%d, %q), want (42, octocat)", e.ID, e.Login)
	}
	if e.GithubURL != "https://github.com/octocat" {
		t.Errorf("GithubURL = %q", e.GithubURL)
	}
	if e.GithubAvatar != "https://avatars.example.com/u/42" {
		t.Errorf("GithubAvatar = %q", e.GithubAvatar)
	}
}
