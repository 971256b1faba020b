package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// filterInput wraps the text input used for nav filtering and zoom
// entry. Only one input mode is active at a time.
type filterInput struct {
	input  textinput.Model
	active bool
}

func newFilterInput(placeholder string) *filterInput {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 100
	input.Width = 30
	input.Prompt = ""

	return &filterInput{input: input}
}

// IsActive returns true if the input is currently capturing keys.
func (f *filterInput) IsActive() bool {
	return f.active
}

// SetActive focuses or blurs the input.
func (f *filterInput) SetActive(active bool) {
	f.active = active
	if active {
		f.input.Focus()
	} else {
		f.input.Blur()
	}
}

// Update feeds a message to the input model.
func (f *filterInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// Value returns the current input text.
func (f *filterInput) Value() string {
	return f.input.Value()
}

// Clear resets the input and deactivates it.
func (f *filterInput) Clear() {
	f.input.SetValue("")
	f.active = false
	f.input.Blur()
}

// View renders the input.
func (f *filterInput) View() string {
	return f.input.View()
}

// FuzzyMatch performs a simple fuzzy match against a string: substring
// first, then all pattern characters appearing in order.
func FuzzyMatch(s, pattern string) bool {
	s = strings.ToLower(s)
	pattern = strings.ToLower(pattern)

	if pattern == "" {
		return true
	}
	if strings.Contains(s, pattern) {
		return true
	}

	patternIdx := 0
	for _, c := range s {
		if patternIdx < len(pattern) && byte(c) == pattern[patternIdx] {
			patternIdx++
		}
	}
	return patternIdx == len(pattern)
}
