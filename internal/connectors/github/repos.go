package github

import (
	gh "github.com/google/go-github/v80/github"
)

// FilterRepos filters repositories based on criteria.
// Disabled repositories are always dropped.
func FilterRepos(repos []*gh.Repository, includeArchived, includeForks bool) []*gh.Repository {
	filtered := make([]*gh.Repository, 0, len(repos))
	for _, r := range repos {
		if r.GetArchived() && !includeArchived {
			continue
		}
		if r.GetFork() && !includeForks {
			continue
		}
		if r.GetDisabled() {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
