package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/devops-phase-stats/internal/config"
	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/render"
	"github.com/naka-gawa/devops-phase-stats/internal/usecase"
)

var histogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Renders a bar chart of issues per label",
	Long: `Creates any missing configured labels, counts every issue of the repository
per label by paging through the issues listing (pull requests excluded) and
saves a bar chart as generator_histogram_M<MM>.png.

The extra labels (histogram.extra_labels, by default back-end, bug, database,
documentation, front-end, tests and wontfix) are counted and charted too but
never created.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := newApp(cmd, func(cfg *config.Config) error {
			if cmd.Flags().Changed("output-dir") {
				cfg.Histogram.OutputDir, _ = cmd.Flags().GetString("output-dir")
			}
			if cmd.Flags().Changed("state") {
				cfg.Histogram.State, _ = cmd.Flags().GetString("state")
			}
			if skip, _ := cmd.Flags().GetBool("skip-labels"); skip {
				cfg.Histogram.Provision = false
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		path, err := runHistogram(ctx, a, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render histogram: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
	},
}

// runHistogram provisions the configured labels (when enabled), tallies the
// issues for those and the extra labels and saves the chart. It returns the
// path of the chart.
func runHistogram(ctx context.Context, a *app, now time.Time) (string, error) {
	if a.cfg.Histogram.Provision {
		usecase.NewProvisioner(a.fetcher, a.repo, a.logger).Provision(ctx, a.cfg.Labels)
	}

	labels := domain.TrackedLabels(a.cfg.Labels, a.cfg.Histogram.ExtraLabels)
	counter := usecase.NewCounter(a.fetcher, a.repo, a.logger)
	tally := counter.TallyLabels(ctx, domain.LabelNames(labels), a.cfg.Histogram.State)
	if !tally.Complete {
		a.logger.Warnw("Issue counts are partial", "pages", tally.Pages, "error", tally.Err)
	}

	bars := render.SelectBars(tally.Counts, labels)
	path, err := render.SaveHistogram(a.cfg.Histogram.OutputDir, bars, now)
	if err != nil {
		return "", err
	}
	a.logger.Infow("Saved histogram", "path", path, "issues", tally.Counts.Total(), "bars", len(bars))
	return path, nil
}

func init() {
	rootCmd.AddCommand(histogramCmd)
	histogramCmd.Flags().String("output-dir", ".", "Directory to write the chart to")
	histogramCmd.Flags().String("state", "all", "Issue state to count: open, closed or all")
	histogramCmd.Flags().Bool("skip-labels", false, "Do not create missing labels before counting")
}
