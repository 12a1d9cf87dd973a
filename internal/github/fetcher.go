package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"aihunter/search-service/internal/model"
)

// maxSkills caps how many distinct repository languages are kept per user.
const maxSkills = 5

// userDetail mirrors the relevant fields of a /users/{login} response.
type userDetail struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Blog      *string `json:"blog"`
	Company   *string `json:"company"`
	Location  *string `json:"location"`
	HTMLURL   string  `json:"html_url"`
	AvatarURL string  `json:"avatar_url"`
	ReposURL  string  `json:"repos_url"`
}

// repoSummary mirrors the single field we read from a repository listing.
type repoSummary struct {
	Language string `json:"language"`
}

// readmePayload mirrors the /repos/{login}/{login}/readme response.
// Content is base64 with embedded newlines.
type readmePayload struct {
	Content string `json:"content"`
}

// FetchCandidate retrieves the full profile for one user summary:
// profile detail, skills inferred from the repository listing, and the
// profile README when one exists. The README is best-effort — any
// failure there leaves the field nil and is not an error. Detail or
// repository failures return ErrDetailUnavailable.
//
// The returned record is stamped with the fetch time; persisting it is
// the caller's job.
func (c *Client) FetchCandidate(ctx context.Context, s model.UserSummary) (*model.Candidate, error) {
	var detail userDetail
	if err := c.getJSON(ctx, s.DetailURL, &detail); err != nil {
		return nil, fmt.Errorf("%w: detail for %s: %v", ErrDetailUnavailable, s.Login, err)
	}

	var repos []repoSummary
	if err := c.getJSON(ctx, detail.ReposURL, &repos); err != nil {
		return nil, fmt.Errorf("%w: repos for %s: %v", ErrDetailUnavailable, s.Login, err)
	}

	languages := make([]string, 0, len(repos))
	for _, r := range repos {
		languages = append(languages, r.Language)
	}

	now := time.Now().UTC()
	return &model.Candidate{
		GithubID:        detail.ID,
		Login:           detail.Login,
		Name:            detail.Name,
		Email:           detail.Email,
		Website:         detail.Blog,
		Company:         detail.Company,
		Location:        detail.Location,
		GithubURL:       detail.HTMLURL,
		AvatarURL:       detail.AvatarURL,
		Skills:          SkillsFromLanguages(languages),
		ProfileReadme:   c.fetchProfileReadme(ctx, detail.Login),
		LastRefreshedAt: &now,
	}, nil
}

// FetchCandidateByLogin refreshes a user known only by login, e.g. a row
// picked up by the background refresher. The detail URL follows the
// stable /users/{login} convention.
func (c *Client) FetchCandidateByLogin(ctx context.Context, login string) (*model.Candidate, error) {
	return c.FetchCandidate(ctx, model.UserSummary{
		Login:     login,
		DetailURL: fmt.Sprintf("%s/users/%s", c.BaseURL, url.PathEscape(login)),
	})
}

// SkillsFromLanguages collapses a repository language listing into the
// candidate's skill set: distinct non-empty values in first-seen order,
// capped at maxSkills. No re-sorting — listing order is the signal.
func SkillsFromLanguages(languages []string) []string {
	skills := make([]string, 0, maxSkills)
	seen := make(map[string]struct{}, maxSkills)
	for _, lang := range languages {
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		skills = append(skills, lang)
		if len(skills) == maxSkills {
			break
		}
	}
	return skills
}

// fetchProfileReadme retrieves and decodes the profile README from the
// conventional {login}/{login} repository. Every failure mode — missing
// repo, bad status, undecodable payload, empty content — yields nil.
func (c *Client) fetchProfileReadme(ctx context.Context, login string) *string {
	readmeURL := fmt.Sprintf("%s/repos/%s/%s/readme", c.BaseURL, url.PathEscape(login), url.PathEscape(login))

	var payload readmePayload
	if err := c.getJSON(ctx, readmeURL, &payload); err != nil {
		return nil
	}

	// GitHub wraps the base64 body across lines.
	compact := strings.Join(strings.Fields(payload.Content), "")
	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil || len(decoded) == 0 {
		return nil
	}

	readme := string(decoded)
	return &readme
}
