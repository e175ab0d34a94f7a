package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/devops-phase-stats/internal/config"
	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/gateway"
	"github.com/naka-gawa/devops-phase-stats/internal/render"
	"github.com/naka-gawa/devops-phase-stats/internal/usecase"
)

const inputDateLayout = "2006/01/02"

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Reports completed issues per DevOps phase per week",
	Long: `Resolves the DevOps phase labels of the repository (labels containing "devops",
or the default Plan..Monitor phases) and counts, for every phase and week, the
issues closed during that week. The result is written as JSON, YAML, a markdown
task list or a terminal table.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")

		a, err := newApp(cmd, func(cfg *config.Config) error {
			applyChecklistFlags(cmd, cfg)
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		now := time.Now()
		weeks, err := checklistWeeks(now, a.cfg.Checklist.Weeks, fromStr, toStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := runChecklist(ctx, a, weeks, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write checklist: %v\n", err)
			os.Exit(1)
		}
	},
}

// applyChecklistFlags overrides cfg with the flags set on the command line.
// --graphql=false selects the REST backend even when the config file asks for GraphQL.
func applyChecklistFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("weeks") {
		cfg.Checklist.Weeks, _ = flags.GetInt("weeks")
	}
	if flags.Changed("format") {
		cfg.Checklist.Format, _ = flags.GetString("format")
	}
	if flags.Changed("output") {
		cfg.Checklist.Output, _ = flags.GetString("output")
	}
	if flags.Changed("graphql") {
		cfg.GitHub.SearchBackend = gateway.SearchBackendREST
		if useGraphQL, _ := flags.GetBool("graphql"); useGraphQL {
			cfg.GitHub.SearchBackend = gateway.SearchBackendGraphQL
		}
	}
}

// checklistWeeks returns the last n weeks ending today, or the weeks between
// from and to when either is given. Missing bounds default to n weeks back and today.
func checklistWeeks(now time.Time, n int, fromStr, toStr string) ([]domain.DateRange, error) {
	if fromStr == "" && toStr == "" {
		return domain.LastWeeks(now, n), nil
	}

	r := domain.DateRange{End: now}
	if toStr != "" {
		to, err := time.ParseInLocation(inputDateLayout, toStr, now.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid --to date format, please use YYYY/MM/DD: %w", err)
		}
		r.End = to
	}
	r.Start = r.End.AddDate(0, 0, -7*n+1)
	if fromStr != "" {
		from, err := time.ParseInLocation(inputDateLayout, fromStr, now.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid --from date format, please use YYYY/MM/DD: %w", err)
		}
		r.Start = from
	}
	if r.Start.After(r.End) {
		return nil, fmt.Errorf("--from %s is after --to %s", r.Start.Format(inputDateLayout), r.End.Format(inputDateLayout))
	}
	return r.Weeks(), nil
}

// runChecklist builds the checklist and writes it to the configured output,
// or to stdout when no output file is configured.
func runChecklist(ctx context.Context, a *app, weeks []domain.DateRange, stdout io.Writer) error {
	aggregator := usecase.NewAggregator(
		usecase.NewPhaseResolver(a.fetcher, a.repo, a.logger),
		usecase.NewCounter(a.fetcher, a.repo, a.logger),
		a.repo,
		a.logger,
	)
	checklist := aggregator.Aggregate(ctx, weeks)

	format := a.cfg.Checklist.Format
	if a.cfg.Checklist.Output == "" {
		if format == config.FormatMarkdown {
			out, err := render.RenderMarkdown(render.ChecklistMarkdown(checklist))
			if err != nil {
				a.logger.Warnw("Failed to render markdown for the terminal, printing it raw", "error", err)
			}
			_, err = io.WriteString(stdout, out)
			return err
		}
		return render.WriteChecklist(stdout, checklist, format)
	}

	f, err := os.Create(a.cfg.Checklist.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", a.cfg.Checklist.Output, err)
	}
	if err := render.WriteChecklist(f, checklist, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.logger.Infow("Wrote checklist", "path", a.cfg.Checklist.Output, "format", format, "partial", checklist.Partial())
	return nil
}

func addChecklistFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("weeks", "w", 4, "Number of weeks to report")
	cmd.Flags().String("from", "", "Start date (YYYY/MM/DD)")
	cmd.Flags().String("to", "", "End date (YYYY/MM/DD)")
	cmd.Flags().StringP("format", "f", config.FormatJSON,
		"Output format: "+strings.Join([]string{config.FormatJSON, config.FormatYAML, config.FormatMarkdown, config.FormatTable}, ", "))
	cmd.Flags().StringP("output", "o", "", "Write the checklist to this file instead of stdout")
	cmd.Flags().Bool("graphql", false, "Count with the GraphQL search API (requires GITHUB_TOKEN)")
}

func init() {
	rootCmd.AddCommand(checklistCmd)
	addChecklistFlags(checklistCmd)
}
