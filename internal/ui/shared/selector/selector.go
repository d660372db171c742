// Package selector provides a compact horizontal option picker used for
// tones, modes, prompt versions, providers, and similar fixed choices.
package selector

import (
	"strings"

	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

// Model cycles through a fixed option list. Value semantics.
type Model struct {
	label   string
	options []string
	index   int
	focused bool
}

// New creates a selector over options, selecting the first by default.
func New(label string, options []string) Model {
	return Model{label: label, options: options}
}

// WithValue pre-selects the given option if it is present.
func (m Model) WithValue(value string) Model {
	for i, opt := range m.options {
		if opt == value {
			m.index = i
			break
		}
	}
	return m
}

// Value returns the selected option, or "" for an empty selector.
func (m Model) Value() string {
	if len(m.options) == 0 {
		return ""
	}
	return m.options[m.index]
}

// Next advances the selection, wrapping around.
func (m Model) Next() Model {
	if len(m.options) > 0 {
		m.index = (m.index + 1) % len(m.options)
	}
	return m
}

// Prev moves the selection back, wrapping around.
func (m Model) Prev() Model {
	if len(m.options) > 0 {
		m.index = (m.index - 1 + len(m.options)) % len(m.options)
	}
	return m
}

// Focus marks the selector as the active field.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes focus.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused reports focus state.
func (m Model) Focused() bool { return m.focused }

// View renders "Label: < VALUE >" with the arrows highlighted when focused.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Label.Render(m.label + ": "))

	arrowLeft, arrowRight := "  ", "  "
	if m.focused {
		arrowLeft, arrowRight = "< ", " >"
	}

	value := m.Value()
	if m.focused {
		value = styles.Selected.Render(value)
	}
	sb.WriteString(styles.Muted.Render(arrowLeft))
	sb.WriteString(value)
	sb.WriteString(styles.Muted.Render(arrowRight))
	return sb.String()
}
