package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/usecase"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Creates the configured labels that are missing",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp(cmd, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if failed := runLabels(context.Background(), a, os.Stdout); failed > 0 {
			a.logger.Warnw("Some labels could not be provisioned", "failed", failed)
		}
	},
}

// runLabels provisions the labels and prints one line per label.
// It returns the number of labels that failed.
func runLabels(ctx context.Context, a *app, w io.Writer) int {
	results := usecase.NewProvisioner(a.fetcher, a.repo, a.logger).Provision(ctx, a.cfg.Labels)
	failed := 0
	for _, r := range results {
		if r.Outcome == domain.ProvisionFailed {
			failed++
			fmt.Fprintf(w, "%-8s %s: %v\n", r.Outcome, r.Label.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", r.Outcome, r.Label.Name)
	}
	return failed
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
