package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/resolve"
	"github.com/matzehuels/gvc/pkg/workflow"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan    = lipgloss.Color("36")  // Teal - primary actions
	colorGreen   = lipgloss.Color("35")  // Green - success
	colorYellow  = lipgloss.Color("220") // Amber - warnings
	colorRed     = lipgloss.Color("167") // Soft red - errors
	colorBlue    = lipgloss.Color("75")  // Light blue - commands
	colorMagenta = lipgloss.Color("170") // Magenta - plugins
	colorWhite   = lipgloss.Color("255") // Bright white - values
	colorGray    = lipgloss.Color("245") // Gray - secondary text
	colorDim     = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleOld     = lipgloss.NewStyle().Foreground(colorRed)
	styleNew     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	stylePlugin  = lipgloss.NewStyle().Foreground(colorMagenta)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder  = lipgloss.NewStyle().Foreground(colorDim)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// PrintError prints err for the user, without its error code.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errors.UserMessage(err))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Structured Output
// =============================================================================

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case workflow.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case workflow.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeInternal, "no structured encoder for %q", format)
}

// =============================================================================
// Update Report
// =============================================================================

var reportSections = []struct {
	title string
	pick  func(*resolve.Report) []resolve.Candidate
}{
	{"Version updates", func(r *resolve.Report) []resolve.Candidate { return r.VersionUpdates }},
	{"Library updates", func(r *resolve.Report) []resolve.Candidate { return r.LibraryUpdates }},
	{"Plugin updates", func(r *resolve.Report) []resolve.Candidate { return r.PluginUpdates }},
}

// renderReport renders one table per non-empty section, followed by the
// entries that could not be resolved.
func renderReport(w io.Writer, r *resolve.Report) {
	for _, s := range reportSections {
		cands := s.pick(r)
		if len(cands) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render(s.title))
		fmt.Fprintln(w, candidateTable(cands))
	}
	var unresolved, invalid []resolve.EntryError
	for _, e := range r.Errors {
		if errors.IsResolution(e.Err) {
			unresolved = append(unresolved, e)
		} else {
			invalid = append(invalid, e)
		}
	}
	renderEntryErrors(w, unresolved, "could not be checked")
	renderEntryErrors(w, invalid, "could not be read")
}

func renderEntryErrors(w io.Writer, errs []resolve.EntryError, what string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(w)
	printWarning(w, "%d %s %s", len(errs), plural(len(errs), "entry", "entries"), what)
	for _, e := range errs {
		printDetail(w, "%s.%s: %s", e.Kind.Table(), e.Alias, errors.UserMessage(e.Err))
	}
}

func candidateTable(cands []resolve.Candidate) string {
	rows := make([][]string, 0, len(cands))
	for _, c := range cands {
		rows = append(rows, []string{c.Alias, c.Coordinate.String(), c.Current, iconArrow, c.Proposed, stabilityLabel(c)})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Alias", "Coordinate", "Current", "", "Proposed", "Stability").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			switch col {
			case 0:
				return base.Foreground(colorWhite).Bold(true)
			case 1, 3:
				return base.Foreground(colorDim)
			case 2:
				return styleOld.Padding(0, 1)
			case 4:
				return styleNew.Padding(0, 1)
			case 5:
				if cands[row].Stability.IsStable() {
					return base.Foreground(colorGreen)
				}
				return base.Foreground(colorYellow)
			}
			return base
		}).
		Render()
}

func stabilityLabel(c resolve.Candidate) string {
	if c.Stability.IsStable() {
		return "stable"
	}
	return "pre-release (" + c.Stability.Token + ")"
}

// =============================================================================
// Listing
// =============================================================================

func renderListing(w io.Writer, l *workflow.Listing) {
	if len(l.Libraries) > 0 {
		fmt.Fprintln(w, StyleTitle.Render("Libraries"))
		for _, e := range l.Libraries {
			fmt.Fprintln(w, "  "+StyleHighlight.Render(e.Notation())+versionNote(e))
		}
	}
	if len(l.Plugins) > 0 {
		if len(l.Libraries) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, StyleTitle.Render("Plugins"))
		for _, e := range l.Plugins {
			fmt.Fprintln(w, "  "+stylePlugin.Render(e.Notation())+versionNote(e))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d %s, %d %s",
		len(l.Libraries), plural(len(l.Libraries), "library", "libraries"),
		len(l.Plugins), plural(len(l.Plugins), "plugin", "plugins"))))
	for _, p := range l.Problems {
		printWarning(w, "%s", p.Error())
	}
}

func versionNote(e workflow.ListEntry) string {
	if e.Version == "" && e.Ref == "" {
		return " " + StyleDim.Render("(version unknown)")
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func printNewline(w io.Writer) {
	fmt.Fprintln(w)
}
