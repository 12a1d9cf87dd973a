package search

import "aihunter/search-service/internal/model"

// Normalize converts a candidate record into the response entry shape
// and tags its provenance. This is the only place the output shape is
// decided — cache hits, live fetches and stale fallbacks all pass
// through here, which is what keeps the two populate paths from
// drifting apart.
//
// The display-name fallback to the login lives here, at the boundary,
// rather than being baked into the persisted record.
func Normalize(c *model.Candidate, source string) model.SearchResultEntry {
	name := c.Login
	if c.Name != nil && *c.Name != "" {
		name = *c.Name
	}

	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}

	return model.SearchResultEntry{
		ID:            c.GithubID,
		Login:         c.Login,
		Name:          name,
		Email:         c.Email,
		Website:       c.Website,
		Company:       c.Company,
		Location:      c.Location,
		GithubURL:     c.GithubURL,
		GithubAvatar:  c.AvatarURL,
		Skills:        skills,
		ProfileReadme: c.ProfileReadme,
		Source:        source,
	}
}
