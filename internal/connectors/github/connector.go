package github

import (
	"context"
	"fmt"
	"path"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
	"github.com/custodia-labs/repocorpus/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.SourceClient = (*Connector)(nil)

// Connector lists and retrieves files from GitHub repositories.
type Connector struct {
	client  *Client
	options ListOptions
}

// New creates a new GitHub connector.
func New(client *Client, opts ListOptions) *Connector {
	return &Connector{
		client:  client,
		options: opts,
	}
}

// Client returns the underlying API client.
func (c *Connector) Client() *Client {
	return c.client
}

// ListFiles returns a descriptor for every listed file of a repository,
// or of every active repository of an organisation.
func (c *Connector) ListFiles(ctx context.Context, source string) ([]domain.FileDescriptor, error) {
	src, err := ParseSource(source)
	if err != nil {
		return nil, err
	}

	if !src.IsOrganisation() {
		repo, err := c.client.GetRepository(ctx, src.Owner, src.Repo)
		if err != nil {
			if IsNotFound(err) {
				return nil, fmt.Errorf("%w: %s", ErrRepoNotFound, src)
			}
			return nil, err
		}
		return c.listRepository(ctx, repo)
	}

	repos, err := c.client.ListOwnerRepos(ctx, src.Owner)
	if err != nil {
		return nil, fmt.Errorf("list repositories of %s: %w", src.Owner, err)
	}
	repos = FilterRepos(repos, false, false)
	logger.Info("github: %s has %d repositories to list", src.Owner, len(repos))

	var files []domain.FileDescriptor
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		repoFiles, err := c.listRepository(ctx, repo)
		if err != nil {
			// One unreadable repository does not hide the rest.
			logger.Warn("github: skipping %s: %v", repo.GetFullName(), err)
			continue
		}
		files = append(files, repoFiles...)
	}
	return files, nil
}

// listRepository walks the default branch tree of one repository.
func (c *Connector) listRepository(ctx context.Context, repo *gh.Repository) ([]domain.FileDescriptor, error) {
	owner := repo.GetOwner().GetLogin()
	name := repo.GetName()
	branch := repo.GetDefaultBranch()
	if branch == "" {
		branch = "HEAD"
	}

	tree, err := c.client.GetTree(ctx, owner, name, branch)
	if err != nil {
		return nil, err
	}
	if tree.GetTruncated() {
		logger.Warn("github: tree of %s/%s is truncated, listing is incomplete", owner, name)
	}

	files := make([]domain.FileDescriptor, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		p := entry.GetPath()
		if !c.options.allows(p, int64(entry.GetSize())) {
			continue
		}

		files = append(files, domain.FileDescriptor{
			Name:       path.Base(p),
			Path:       p,
			SHA:        entry.GetSHA(),
			Size:       int64(entry.GetSize()),
			URL:        htmlURL(repo, branch, p),
			Repository: owner + "/" + name,
			Ref:        branch,
		})
	}
	return files, nil
}

// GetFile returns the raw content of one file.
func (c *Connector) GetFile(ctx context.Context, file domain.FileDescriptor) ([]byte, error) {
	owner, repo, err := splitRepository(file.Repository)
	if err != nil {
		return nil, err
	}
	if file.SHA != "" {
		return c.client.GetBlob(ctx, owner, repo, file.SHA)
	}
	return c.client.GetFileContent(ctx, owner, repo, file.Path, file.Ref)
}

// htmlURL builds the browsable URL of a file.
func htmlURL(repo *gh.Repository, branch, p string) string {
	base := repo.GetHTMLURL()
	if base == "" {
		base = fmt.Sprintf("https://github.com/%s/%s", repo.GetOwner().GetLogin(), repo.GetName())
	}
	return fmt.Sprintf("%s/blob/%s/%s", base, branch, p)
}
