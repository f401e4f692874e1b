package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gvc/pkg/catalog"
	"github.com/matzehuels/gvc/pkg/interactive"
)

var (
	promptKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	promptDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	promptKindStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// PromptModel - accept/skip/all/quit for one candidate
// =============================================================================

// PromptModel is the bubbletea model asking about a single update.
type PromptModel struct {
	Prompt   interactive.Prompt
	Decision interactive.Decision
	Decided  bool
}

// NewPromptModel creates a prompt for p.
func NewPromptModel(p interactive.Prompt) PromptModel {
	return PromptModel{Prompt: p}
}

func (m PromptModel) Init() tea.Cmd {
	return nil
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "y", "enter":
		m.Decision = interactive.Accept
	case "n":
		m.Decision = interactive.Skip
	case "a":
		m.Decision = interactive.ApplyAll
	case "q", "ctrl+c", "esc":
		m.Decision = interactive.Cancel
	default:
		return m, nil
	}
	m.Decided = true
	return m, tea.Quit
}

func (m PromptModel) View() string {
	c := m.Prompt.Candidate
	var b strings.Builder

	b.WriteString(promptDimStyle.Render(fmt.Sprintf("[%d/%d] ", m.Prompt.Index+1, m.Prompt.Total)))
	b.WriteString(promptKindStyle.Render(kindLabel(c.Kind) + " "))
	b.WriteString(StyleValue.Bold(true).Render(c.Alias))
	b.WriteString(" ")
	b.WriteString(styleOld.Render(c.Current))
	b.WriteString(" " + iconArrow + " ")
	b.WriteString(styleNew.Render(c.Proposed))
	if !c.Stability.IsStable() {
		b.WriteString(" " + StyleWarning.Render("("+c.Stability.Token+")"))
	}

	if m.Decided {
		b.WriteString("  " + promptDimStyle.Render(m.Decision.String()) + "\n")
		return b.String()
	}
	b.WriteString("\n  ")
	b.WriteString(promptDimStyle.Render("apply? "))
	b.WriteString(promptKeyStyle.Render("y") + promptDimStyle.Render(" yes  "))
	b.WriteString(promptKeyStyle.Render("n") + promptDimStyle.Render(" no  "))
	b.WriteString(promptKeyStyle.Render("a") + promptDimStyle.Render(" all remaining  "))
	b.WriteString(promptKeyStyle.Render("q") + promptDimStyle.Render(" quit"))
	b.WriteString("\n")
	return b.String()
}

func kindLabel(k catalog.Kind) string {
	switch k {
	case catalog.KindVersion:
		return "version"
	case catalog.KindPlugin:
		return "plugin"
	}
	return "library"
}

// =============================================================================
// Prompter
// =============================================================================

// teaPrompter runs one PromptModel per candidate.
type teaPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p teaPrompter) Decide(ctx context.Context, prompt interactive.Prompt) (interactive.Decision, error) {
	final, err := tea.NewProgram(NewPromptModel(prompt),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	).Run()
	if err != nil {
		return interactive.Cancel, err
	}
	m, ok := final.(PromptModel)
	if !ok || !m.Decided {
		return interactive.Cancel, nil
	}
	return m.Decision, nil
}
