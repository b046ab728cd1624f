package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

// namePattern matches valid GitHub owner and repository names.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Source identifies a repository or an organisation.
type Source struct {
	Owner string
	// Repo is empty when the source is an organisation or user.
	Repo string
}

// IsOrganisation reports whether the source names an owner rather than a repository.
func (s Source) IsOrganisation() bool {
	return s.Repo == ""
}

// String returns "owner/repo" or "owner".
func (s Source) String() string {
	if s.IsOrganisation() {
		return s.Owner
	}
	return s.Owner + "/" + s.Repo
}

// ParseSource parses "owner/repo", "owner", or a github.com URL such as
// https://github.com/owner/repo.git.
func ParseSource(raw string) (Source, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Source{}, fmt.Errorf("%w: empty source", domain.ErrInvalidSource)
	}

	if strings.Contains(s, "://") || strings.HasPrefix(s, "github.com/") {
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		u, err := url.Parse(s)
		if err != nil {
			return Source{}, fmt.Errorf("%w: %q: %v", domain.ErrInvalidSource, raw, err)
		}
		if host := strings.TrimPrefix(strings.ToLower(u.Host), "www."); host != "github.com" {
			return Source{}, fmt.Errorf("%w: %q is not a github.com URL", domain.ErrInvalidSource, raw)
		}
		s = u.Path
	}

	s = strings.Trim(s, "/")
	parts := strings.Split(s, "/")
	if len(parts) > 2 {
		// Browsing URLs such as /owner/repo/tree/main name the repository.
		parts = parts[:2]
	}

	src := Source{Owner: parts[0]}
	if len(parts) == 2 {
		src.Repo = strings.TrimSuffix(parts[1], ".git")
		if !namePattern.MatchString(src.Repo) {
			return Source{}, fmt.Errorf("%w: invalid repository name in %q", domain.ErrInvalidSource, raw)
		}
	}
	if !namePattern.MatchString(src.Owner) {
		return Source{}, fmt.Errorf("%w: invalid owner in %q", domain.ErrInvalidSource, raw)
	}
	return src, nil
}

// splitRepository splits "owner/repo" into its parts.
func splitRepository(full string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(full, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", ErrMissingRepository
	}
	return owner, repo, nil
}
