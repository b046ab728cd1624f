package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envMap returns a lookup function over a fixed environment.
func envMap(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNullTokenProvider(t *testing.T) {
	p := NewNullTokenProvider()

	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, p.IsAuthenticated())
}

func TestStaticTokenProvider(t *testing.T) {
	p := NewStaticTokenProvider("ghp_abc")

	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ghp_abc", token)
	assert.True(t, p.IsAuthenticated())
	assert.False(t, NewStaticTokenProvider("").IsAuthenticated())
}

func TestEnvTokenProvider(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		file  string
		want  string
		authd bool
	}{
		{
			name:  "process environment",
			env:   map[string]string{"GITHUB_TOKEN": " env-token "},
			file:  "GITHUB_TOKEN=file-token\n",
			want:  "env-token",
			authd: true,
		},
		{
			name:  "GH_TOKEN fallback",
			env:   map[string]string{"GH_TOKEN": "gh-token"},
			want:  "gh-token",
			authd: true,
		},
		{
			name:  "blank env falls through to file",
			env:   map[string]string{"GITHUB_TOKEN": "  "},
			file:  "# comment\nGITHUB_TOKEN=\"file-token\"\n",
			want:  "file-token",
			authd: true,
		},
		{
			name:  "GH_TOKEN in file",
			file:  "OTHER=x\nGH_TOKEN=from-file\n",
			want:  "from-file",
			authd: true,
		},
		{
			name:  "nothing configured",
			file:  "OTHER=x\n",
			want:  "",
			authd: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var files []string
			if tt.file != "" {
				files = append(files, writeEnv(t, tt.file))
			}
			p := NewEnvTokenProvider(files...)
			p.lookup = envMap(tt.env)

			token, err := p.GetToken(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
			assert.Equal(t, tt.authd, p.IsAuthenticated())
		})
	}
}

func TestEnvTokenProvider_MissingFileSkipped(t *testing.T) {
	second := writeEnv(t, "GITHUB_TOKEN=second\n")
	p := NewEnvTokenProvider(filepath.Join(t.TempDir(), "absent.env"), second)
	p.lookup = envMap(nil)

	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestEnvTokenProvider_UnreadableFile(t *testing.T) {
	// A directory cannot be parsed as a dotenv file.
	p := NewEnvTokenProvider(t.TempDir())
	p.lookup = envMap(nil)

	_, err := p.GetToken(context.Background())
	assert.Error(t, err)
	assert.False(t, p.IsAuthenticated())
}

func TestSelector(t *testing.T) {
	fallback := NewStaticTokenProvider("from-env")

	tests := []struct {
		name      string
		token     string
		anonymous bool
		want      string
		wantAuth  bool
	}{
		{"no flags keeps fallback", "", false, "from-env", true},
		{"token flag", " ghp_flag \n", false, "ghp_flag", true},
		{"blank token keeps fallback", "   ", false, "from-env", true},
		{"anonymous", "", true, "", false},
		{"anonymous wins over token", "ghp_flag", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(fallback)
			s.Use(tt.token, tt.anonymous)

			token, err := s.GetToken(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
			assert.Equal(t, tt.wantAuth, s.IsAuthenticated())
		})
	}
}

func TestSelector_FallbackError(t *testing.T) {
	dir := t.TempDir()
	p := NewEnvTokenProvider(dir)
	p.lookup = envMap(nil)

	s := NewSelector(p)
	_, err := s.GetToken(context.Background())
	require.Error(t, err)

	s.Use("ghp_flag", false)
	token, err := s.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ghp_flag", token)
}
