package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naka-gawa/devops-phase-stats/internal/config"
	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/gateway"
	"github.com/naka-gawa/devops-phase-stats/internal/logger"
)

// app holds everything a command needs, built once per invocation.
type app struct {
	cfg     *config.Config
	logger  *zap.SugaredLogger
	repo    domain.Repository
	fetcher gateway.Fetcher
}

// newApp loads the configuration, lets apply override it from flags and wires
// the logger and the GitHub gateway.
func newApp(cmd *cobra.Command, apply func(cfg *config.Config) error) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logger.New(logger.WithLevel(cfg.Log.Level), logger.WithFormat(cfg.Log.Format))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return wireApp(cfg, log)
}

func wireApp(cfg *config.Config, log *zap.SugaredLogger) (*app, error) {
	repo, placeholder, err := cfg.Repository()
	if err != nil {
		return nil, err
	}
	if placeholder {
		log.Warnw("GITHUB_REPOSITORY is not set, using placeholder repository", "repository", repo.String())
	}
	if cfg.GitHub.Token == "" {
		log.Infow("GITHUB_TOKEN is not set, sending unauthenticated requests")
	}

	fetcher, err := gateway.NewGitHubGateway(gateway.Options{
		Token:         cfg.GitHub.Token,
		SearchBackend: cfg.GitHub.SearchBackend,
		BaseURL:       cfg.GitHub.APIURL,
		GraphQLURL:    cfg.GitHub.GraphQLURL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	return &app{cfg: cfg, logger: log, repo: repo, fetcher: fetcher}, nil
}
