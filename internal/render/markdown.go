package render

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const checklistWrap = 100

// styled reports whether checklist output is decorated for a terminal.
// A non-empty NO_COLOR or TERM=dumb turns decoration off.
func styled() bool {
	return os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb"
}

// RenderMarkdown renders the checklist document for a terminal through glamour,
// honouring GLAMOUR_STYLE. Undecorated output is the markdown itself, the same
// text the markdown format writes to a file.
func RenderMarkdown(md string) (string, error) {
	if md == "" || !styled() {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(checklistWrap),
	)
	if err != nil {
		return md, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return md, fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func muted(s string) string {
	if !styled() {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(s)
}
