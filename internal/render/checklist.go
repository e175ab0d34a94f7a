// Package render turns aggregated counts into reports and charts.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
)

const shortDate = "01-02"

// WriteChecklist serialises c to w in the given format: json, yaml, markdown or table.
func WriteChecklist(w io.Writer, c *domain.Checklist, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal checklist to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("failed to marshal checklist to YAML: %w", err)
		}
		return enc.Close()
	case "markdown":
		_, err := io.WriteString(w, ChecklistMarkdown(c))
		return err
	case "table":
		_, err := fmt.Fprintln(w, ChecklistTable(c))
		return err
	default:
		return fmt.Errorf("unknown checklist format %q", format)
	}
}

// ChecklistMarkdown renders c as a markdown task list, one item per phase and week.
// A week is ticked when at least one issue of the phase was closed in it.
func ChecklistMarkdown(c *domain.Checklist) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# DevOps phase checklist: %s\n\n", c.Repository)
	fmt.Fprintf(&b, "Generated %s, phases from %s labels.\n", c.GeneratedAt.Format("2006-01-02"), phaseSourceText(c.PhaseSource))
	if c.Partial() {
		b.WriteString("\n> Some counts could not be fetched and are shown as n/a.\n")
	}

	for _, p := range c.Phases {
		fmt.Fprintf(&b, "\n## %s\n\n", p.Phase)
		for _, w := range p.Weeks {
			switch {
			case w.Failed:
				fmt.Fprintf(&b, "- [ ] %s: n/a\n", w.Week)
			case w.Completed > 0:
				fmt.Fprintf(&b, "- [x] %s: %s completed\n", w.Week, humanize.Comma(int64(w.Completed)))
			default:
				fmt.Fprintf(&b, "- [ ] %s: none completed\n", w.Week)
			}
		}
		fmt.Fprintf(&b, "\nTotal %s, mean %.2f, median %.2f, max %d per week.\n",
			humanize.Comma(int64(p.Summary.Total)), p.Summary.Mean, p.Summary.Median, p.Summary.Max)
		if p.Summary.FailedWeeks > 0 {
			fmt.Fprintf(&b, "%d of %d weeks could not be counted and are left out.\n", p.Summary.FailedWeeks, len(p.Weeks))
		}
	}
	return b.String()
}

func phaseSourceText(s domain.PhaseSource) string {
	if s == domain.PhaseSourceRepository {
		return "repository"
	}
	return "default"
}

// ChecklistTable renders c as a terminal table with one column per week.
func ChecklistTable(c *domain.Checklist) string {
	if len(c.Phases) == 0 {
		return muted("No phases to report.")
	}

	weeks := c.Weeks()
	headers := make([]string, 0, len(weeks)+2)
	headers = append(headers, "Phase")
	for _, w := range weeks {
		headers = append(headers, w.Start.Format(shortDate)+".."+w.End.Format(shortDate))
	}
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(c.Phases))
	for _, p := range c.Phases {
		row := make([]string, 0, len(headers))
		row = append(row, p.Phase)
		for _, w := range p.Weeks {
			if w.Failed {
				row = append(row, "n/a")
				continue
			}
			row = append(row, humanize.Comma(int64(w.Completed)))
		}
		row = append(row, humanize.Comma(int64(p.Summary.Total)))
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if col == 0 {
				return s.Bold(true)
			}
			if row >= 0 && row < len(rows) && rows[row][col] == "n/a" {
				return s.Foreground(lipgloss.Color("9")).Align(lipgloss.Right)
			}
			return s.Align(lipgloss.Right)
		})
	return t.Render()
}
