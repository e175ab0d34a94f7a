package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_REPOSITORY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "rest", cfg.GitHub.SearchBackend)
	assert.Equal(t, 4, cfg.Checklist.Weeks)
	assert.Equal(t, FormatJSON, cfg.Checklist.Format)
	assert.Equal(t, ".", cfg.Histogram.OutputDir)
	assert.Equal(t, "all", cfg.Histogram.State)
	assert.True(t, cfg.Histogram.Provision)
	assert.Equal(t, domain.DefaultLabels, cfg.Labels)
	assert.Equal(t, domain.AdditionalLabels, cfg.Histogram.ExtraLabels)

	repo, placeholder, err := cfg.Repository()
	require.NoError(t, err)
	assert.True(t, placeholder)
	assert.Equal(t, PlaceholderRepository, repo.String())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_REPOSITORY", "octo/hello")
	t.Setenv("DEVOPS_STATS_CHECKLIST_WEEKS", "6")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, 6, cfg.Checklist.Weeks)
	repo, placeholder, err := cfg.Repository()
	require.NoError(t, err)
	assert.False(t, placeholder)
	assert.Equal(t, domain.Repository{Owner: "octo", Name: "hello"}, repo)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
github:
  repository: acme/widgets
  search_backend: graphql
checklist:
  format: markdown
histogram:
  state: closed
  output_dir: out
labels:
  - name: Plan
    color: 1d76db
    description: planning
  - name: Bug
    color: b60205
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "acme/widgets", cfg.GitHub.Repository)
	assert.Equal(t, "graphql", cfg.GitHub.SearchBackend)
	assert.Equal(t, FormatMarkdown, cfg.Checklist.Format)
	assert.Equal(t, "closed", cfg.Histogram.State)
	assert.Equal(t, "out", cfg.Histogram.OutputDir)
	assert.Equal(t, []domain.Label{
		{Name: "Plan", Color: "1d76db", Description: "planning"},
		{Name: "Bug", Color: "b60205"},
	}, cfg.Labels)
}

func TestLoad_UnquotedNumericColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
histogram:
  extra_labels: [bug]
labels:
  - name: Operate
    color: 008672
  - name: Black
    color: 000000
  - name: Hash
    color: "#0052cc"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []domain.Label{
		{Name: "Operate", Color: "008672"},
		{Name: "Black", Color: "000000"},
		{Name: "Hash", Color: "0052cc"},
	}, cfg.Labels)
	assert.Equal(t, []string{"bug"}, cfg.Histogram.ExtraLabels)
}

func TestNormalizeColor(t *testing.T) {
	testCases := []struct {
		in, expected string
	}{
		{in: "8672", expected: "008672"},
		{in: "0", expected: "000000"},
		{in: "0052cc", expected: "0052cc"},
		{in: "#d73a4a", expected: "d73a4a"},
		{in: "abc", expected: "abc"},
		{in: "", expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizeColor(tc.in))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			GitHub:    GitHubConfig{SearchBackend: "rest"},
			Labels:    []domain.Label{{Name: "Plan", Color: "1d76db"}},
			Checklist: ChecklistConfig{Weeks: 1, Format: FormatTable},
			Histogram: HistogramConfig{State: "open"},
		}
	}

	testCases := []struct {
		name           string
		mutate         func(c *Config)
		expectedErrMsg string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad backend", mutate: func(c *Config) { c.GitHub.SearchBackend = "soap" }, expectedErrMsg: "search_backend"},
		{name: "bad state", mutate: func(c *Config) { c.Histogram.State = "merged" }, expectedErrMsg: "histogram state"},
		{name: "bad format", mutate: func(c *Config) { c.Checklist.Format = "docx" }, expectedErrMsg: "checklist format"},
		{name: "zero weeks", mutate: func(c *Config) { c.Checklist.Weeks = 0 }, expectedErrMsg: "weeks"},
		{name: "duplicate label", mutate: func(c *Config) { c.Labels = append(c.Labels, c.Labels[0]) }, expectedErrMsg: "duplicate label"},
		{name: "empty label", mutate: func(c *Config) { c.Labels[0].Name = "" }, expectedErrMsg: "must not be empty"},
		{name: "bad color", mutate: func(c *Config) { c.Labels[0].Color = "#123456" }, expectedErrMsg: "hex"},
		{name: "empty extra label", mutate: func(c *Config) { c.Histogram.ExtraLabels = []string{" "} }, expectedErrMsg: "extra label"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.expectedErrMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.expectedErrMsg)
		})
	}
}

func TestConfig_RepositoryInvalid(t *testing.T) {
	cfg := &Config{GitHub: GitHubConfig{Repository: "not-a-repo"}}
	_, _, err := cfg.Repository()
	assert.Error(t, err)
}
