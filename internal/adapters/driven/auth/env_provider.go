package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
)

// Ensure EnvTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*EnvTokenProvider)(nil)

// TokenEnvVars are the variables checked for a token, in order.
var TokenEnvVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// EnvTokenProvider reads a personal access token from the environment,
// falling back to dotenv files. The process environment always wins.
type EnvTokenProvider struct {
	files  []string
	lookup func(string) (string, bool)

	once  sync.Once
	token string
	err   error
}

// NewEnvTokenProvider creates a provider checking the process environment
// and then each dotenv file in order. Missing files are skipped.
func NewEnvTokenProvider(files ...string) *EnvTokenProvider {
	return &EnvTokenProvider{
		files:  files,
		lookup: os.LookupEnv,
	}
}

// GetToken returns the token, or "" when none is configured.
func (p *EnvTokenProvider) GetToken(_ context.Context) (string, error) {
	p.once.Do(p.resolve)
	return p.token, p.err
}

// IsAuthenticated returns true if a token was found.
func (p *EnvTokenProvider) IsAuthenticated() bool {
	token, err := p.GetToken(context.Background())
	return err == nil && token != ""
}

func (p *EnvTokenProvider) resolve() {
	for _, name := range TokenEnvVars {
		if v, ok := p.lookup(name); ok && strings.TrimSpace(v) != "" {
			p.token = strings.TrimSpace(v)
			return
		}
	}

	for _, file := range p.files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			p.err = fmt.Errorf("read %s: %w", file, err)
			return
		}
		for _, name := range TokenEnvVars {
			if v := strings.TrimSpace(values[name]); v != "" {
				p.token = v
				return
			}
		}
	}
}
