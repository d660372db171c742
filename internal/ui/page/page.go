// Package page defines the contract between the app shell and the views it
// hosts. The shell forwards messages only to the active page; a page that
// is swapped out never sees the results of calls it left in flight.
package page

import tea "github.com/charmbracelet/bubbletea"

// ActivatedMsg tells a page it just became the active page. Init cannot
// mutate the stored model, so pages do their activation work (starting a
// fetch, dropping a spinner left over from a superseded submission) when
// this message arrives in Update.
type ActivatedMsg struct{}

// Activate is the Init command every page returns so that activation work
// runs through Update.
func Activate() tea.Cmd {
	return func() tea.Msg { return ActivatedMsg{} }
}

// Model is one interactive view.
type Model interface {
	// Init returns the command to run when the page becomes active.
	Init() tea.Cmd
	// Update handles a message and returns the updated page.
	Update(msg tea.Msg) (Model, tea.Cmd)
	// View renders the page body.
	View() string
	// SetSize propagates the available content area.
	SetSize(width, height int) Model
	// Title names the page in the sidebar.
	Title() string
}
