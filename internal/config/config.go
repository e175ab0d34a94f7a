// Package config loads the run configuration from the environment, an
// optional .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/gateway"
)

// PlaceholderRepository is used when GITHUB_REPOSITORY is not set.
const PlaceholderRepository = "your-org/your-repo"

// Checklist output formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatTable    = "table"
)

var hexColor = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Config is built once per invocation and passed to every component.
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	Labels    []domain.Label  `mapstructure:"labels"`
	Checklist ChecklistConfig `mapstructure:"checklist"`
	Histogram HistogramConfig `mapstructure:"histogram"`
	Log       LogConfig       `mapstructure:"log"`
}

// GitHubConfig holds the API settings.
type GitHubConfig struct {
	Token         string `mapstructure:"token"`
	Repository    string `mapstructure:"repository"`
	SearchBackend string `mapstructure:"search_backend"`
	APIURL        string `mapstructure:"api_url"`
	GraphQLURL    string `mapstructure:"graphql_url"`
}

// ChecklistConfig holds the checklist command settings.
type ChecklistConfig struct {
	Weeks  int    `mapstructure:"weeks"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// HistogramConfig holds the histogram command settings.
type HistogramConfig struct {
	OutputDir   string   `mapstructure:"output_dir"`
	State       string   `mapstructure:"state"`
	Provision   bool     `mapstructure:"provision"`
	ExtraLabels []string `mapstructure:"extra_labels"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads .env (if present), the environment and configPath (if not empty).
// GITHUB_TOKEN, GITHUB_REPOSITORY, GITHUB_API_URL and GITHUB_GRAPHQL_URL are honoured as-is; every other key can be
// overridden with a DEVOPS_STATS_ prefixed variable, e.g. DEVOPS_STATS_CHECKLIST_WEEKS.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DEVOPS_STATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("github.token", "GITHUB_TOKEN", "DEVOPS_STATS_GITHUB_TOKEN")
	_ = v.BindEnv("github.repository", "GITHUB_REPOSITORY", "DEVOPS_STATS_GITHUB_REPOSITORY")
	_ = v.BindEnv("github.api_url", "GITHUB_API_URL", "DEVOPS_STATS_GITHUB_API_URL")
	_ = v.BindEnv("github.graphql_url", "GITHUB_GRAPHQL_URL", "DEVOPS_STATS_GITHUB_GRAPHQL_URL")

	v.SetDefault("github.token", "")
	v.SetDefault("github.repository", "")
	v.SetDefault("github.search_backend", gateway.SearchBackendREST)
	v.SetDefault("github.api_url", "")
	v.SetDefault("github.graphql_url", "")
	v.SetDefault("checklist.weeks", 4)
	v.SetDefault("checklist.format", FormatJSON)
	v.SetDefault("checklist.output", "")
	v.SetDefault("histogram.output_dir", ".")
	v.SetDefault("histogram.state", "all")
	v.SetDefault("histogram.provision", true)
	v.SetDefault("histogram.extra_labels", domain.AdditionalLabels)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = append([]domain.Label(nil), domain.DefaultLabels...)
	}
	for i := range cfg.Labels {
		cfg.Labels[i].Color = normalizeColor(cfg.Labels[i].Color)
	}
	return cfg, nil
}

// normalizeColor restores the leading zeros YAML drops when an unquoted color such as
// 008672 is read as the integer 8672. A leading '#' is stripped.
func normalizeColor(c string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if c == "" || len(c) >= 6 || strings.TrimLeft(c, "0123456789") != "" {
		return c
	}
	return strings.Repeat("0", 6-len(c)) + c
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.GitHub.SearchBackend {
	case gateway.SearchBackendREST, gateway.SearchBackendGraphQL:
	default:
		return fmt.Errorf("search_backend must be %q or %q, got %q", gateway.SearchBackendREST, gateway.SearchBackendGraphQL, c.GitHub.SearchBackend)
	}
	switch c.Histogram.State {
	case "open", "closed", "all":
	default:
		return fmt.Errorf("histogram state must be open, closed or all, got %q", c.Histogram.State)
	}
	switch c.Checklist.Format {
	case FormatJSON, FormatYAML, FormatMarkdown, FormatTable:
	default:
		return fmt.Errorf("unknown checklist format %q", c.Checklist.Format)
	}
	if c.Checklist.Weeks < 1 {
		return errors.New("checklist weeks must be at least 1")
	}

	seen := make(map[string]bool, len(c.Labels))
	for _, l := range c.Labels {
		if l.Name == "" {
			return errors.New("label name must not be empty")
		}
		if seen[l.Name] {
			return fmt.Errorf("duplicate label %q", l.Name)
		}
		seen[l.Name] = true
		if !hexColor.MatchString(l.Color) {
			return fmt.Errorf("label %q: color must be a 6-digit hex string, got %q", l.Name, l.Color)
		}
	}
	for _, name := range c.Histogram.ExtraLabels {
		if strings.TrimSpace(name) == "" {
			return errors.New("extra label name must not be empty")
		}
	}
	return nil
}

// Repository returns the target repository. placeholder is true when
// GITHUB_REPOSITORY was not set and PlaceholderRepository is used instead.
func (c *Config) Repository() (repo domain.Repository, placeholder bool, err error) {
	name := c.GitHub.Repository
	if name == "" {
		name, placeholder = PlaceholderRepository, true
	}
	repo, err = domain.ParseRepository(name)
	return repo, placeholder, err
}
