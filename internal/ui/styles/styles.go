// Package styles centralizes the lipgloss styles shared by every view.
package styles

import "github.com/charmbracelet/lipgloss"

// Adaptive colors keep the palette readable on light and dark terminals.
var (
	PrimaryColor       = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	SuccessColor       = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	ErrorColor         = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	WarningColor       = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	BorderColor        = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
)

var (
	// Title renders view headings.
	Title = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)

	// Label renders field labels.
	Label = lipgloss.NewStyle().Bold(true)

	// Muted renders secondary text (hints, placeholders, counts).
	Muted = lipgloss.NewStyle().Foreground(TextSecondaryColor)

	// ErrorText renders failure messages.
	ErrorText = lipgloss.NewStyle().Foreground(ErrorColor)

	// SuccessText renders confirmations.
	SuccessText = lipgloss.NewStyle().Foreground(SuccessColor)

	// WarningText renders risk callouts.
	WarningText = lipgloss.NewStyle().Foreground(WarningColor)

	// Selected highlights the focused choice in selectors and menus.
	Selected = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)

	// Pane frames a content block.
	Pane = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	// FocusedPane frames the block holding keyboard focus.
	FocusedPane = Pane.BorderForeground(PrimaryColor)

	// SidebarItem renders an inactive navigation entry.
	SidebarItem = lipgloss.NewStyle().Padding(0, 1)

	// SidebarActive renders the active navigation entry.
	SidebarActive = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(PrimaryColor)

	// StatusBar renders the bottom key-hint line.
	StatusBar = lipgloss.NewStyle().Foreground(TextSecondaryColor)
)
