package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(14)

	nodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	delayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(label+":"), value)
}

func renderNode(id timing.NodeID) string {
	return nodeStyle.Render(string(id))
}

func renderDelay(d float64) string {
	return delayStyle.Render(formatDelay(d))
}

func formatDelay(d float64) string {
	return strconv.FormatFloat(d, 'g', -1, 64)
}

func renderPath(ids []timing.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = renderNode(id)
	}
	return strings.Join(parts, mutedStyle.Render(" -> "))
}
