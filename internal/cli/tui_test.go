package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gvc/pkg/catalog"
	"github.com/matzehuels/gvc/pkg/interactive"
	"github.com/matzehuels/gvc/pkg/repository"
	"github.com/matzehuels/gvc/pkg/resolve"
	"github.com/matzehuels/gvc/pkg/version"
)

func testPrompt() interactive.Prompt {
	return interactive.Prompt{
		Candidate: resolve.Candidate{
			Alias:      "okhttp",
			Kind:       catalog.KindLibrary,
			Coordinate: repository.Library("com.squareup.okhttp3", "okhttp"),
			Current:    "4.11.0",
			Proposed:   "5.0.0-alpha.12",
			Stability:  version.Unstable("alpha"),
		},
		Index: 1,
		Total: 3,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPromptModelKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want interactive.Decision
	}{
		{"yes", runes("y"), interactive.Accept},
		{"upper yes", runes("Y"), interactive.Accept},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, interactive.Accept},
		{"no", runes("n"), interactive.Skip},
		{"all", runes("a"), interactive.ApplyAll},
		{"quit", runes("q"), interactive.Cancel},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, interactive.Cancel},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, interactive.Cancel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, cmd := NewPromptModel(testPrompt()).Update(tt.msg)
			m := next.(PromptModel)
			if !m.Decided || m.Decision != tt.want {
				t.Errorf("decision = %v (decided %v), want %v", m.Decision, m.Decided, tt.want)
			}
			if cmd == nil {
				t.Error("expected tea.Quit")
			}
		})
	}
}

func TestPromptModelIgnoresOtherKeys(t *testing.T) {
	next, cmd := NewPromptModel(testPrompt()).Update(runes("x"))
	if next.(PromptModel).Decided || cmd != nil {
		t.Error("unbound key should not decide")
	}
	next, _ = NewPromptModel(testPrompt()).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if next.(PromptModel).Decided {
		t.Error("window resize should not decide")
	}
}

func TestPromptModelView(t *testing.T) {
	m := NewPromptModel(testPrompt())
	view := m.View()
	for _, want := range []string{"[2/3]", "okhttp", "4.11.0", "5.0.0-alpha.12", "alpha", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
	next, _ := m.Update(runes("n"))
	if view := next.View(); !strings.Contains(view, "skip") || strings.Contains(view, "quit") {
		t.Errorf("decided View() = %q", view)
	}
}
