// Package ui prints the console side of a run: one line per transfer,
// one line per failure and a closing summary.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Reporter writes human-readable run output
type Reporter struct {
	out io.Writer

	kindStyle    lipgloss.Style
	pathStyle    lipgloss.Style
	arrowStyle   lipgloss.Style
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewReporter creates a reporter. FormatAuto detects the format when out
// is a file and falls back to plain text otherwise.
func NewReporter(out io.Writer, format Format) *Reporter {
	if format == FormatAuto {
		format = FormatText
		if f, ok := out.(*os.File); ok {
			format = DetectFormat(f)
		}
	}

	renderer := lipgloss.NewRenderer(out)
	if format == FormatText {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Reporter{
		out:          out,
		kindStyle:    renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}),
		pathStyle:    renderer.NewStyle(),
		arrowStyle:   renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}),
		errorStyle:   renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF5F87"}),
		successStyle: renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#04B575"}),
		mutedStyle:   renderer.NewStyle().Faint(true),
	}
}

// Transfer prints "kind: source -> target"
func (r *Reporter) Transfer(kind, source, target string) {
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.kindStyle.Render(kind+":"),
		r.pathStyle.Render(source),
		r.arrowStyle.Render("->"),
		r.pathStyle.Render(target))
}

// Failure prints the failed operation and its error
func (r *Reporter) Failure(kind, source, target string, err error) {
	fmt.Fprintf(r.out, "%s %s %s %s %s: %v\n",
		r.errorStyle.Render("error:"),
		kind,
		source,
		r.arrowStyle.Render("->"),
		target,
		err)
}

// Message prints a muted informational line
func (r *Reporter) Message(format string, args ...interface{}) {
	fmt.Fprintln(r.out, r.mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Summary prints the closing counts
func (r *Reporter) Summary(action string, succeeded, failed int) {
	if failed == 0 {
		fmt.Fprintln(r.out, r.successStyle.Render(
			fmt.Sprintf("%s complete: %d transferred", action, succeeded)))
		return
	}
	fmt.Fprintln(r.out, r.errorStyle.Render(
		fmt.Sprintf("%s finished with errors: %d transferred, %d failed", action, succeeded, failed)))
}

// Error renders err in the error style, for fatal errors printed by main
func (r *Reporter) Error(err error) {
	fmt.Fprintln(r.out, r.errorStyle.Render(fmt.Sprintf("Error: %v", err)))
}
