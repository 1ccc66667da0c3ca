package admin

import (
	"github.com/andrewwillette/willette/internal/models"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	_ tea.Msg = RefreshMsg{}
	_ tea.Msg = URLsFetchedMsg{}
)

// RefreshMsg requests a fresh list. Sent on mount and after every delete or add.
type RefreshMsg struct{}

// URLsFetchedMsg carries the result of a list call. URLs is nil when the body was JSON null.
type URLsFetchedMsg struct {
	URLs []models.SoundcloudURL
	Err  error
}

// EditOrderMsg sets the uiOrder of URL from free text.
type EditOrderMsg struct {
	URL   string
	Value string
}

// SaveMsg sends every record's current uiOrder to the backend.
type SaveMsg struct{}

type SavedMsg struct {
	Status int
	Err    error
}

// DeleteMsg removes URL from the backend.
type DeleteMsg struct {
	URL string
}

type DeletedMsg struct {
	Status int
	Err    error
}

// AddMsg adds URL to the backend.
type AddMsg struct {
	URL string
}

type AddedMsg struct {
	Status int
	Err    error
}

// LoginMsg submits credentials.
type LoginMsg struct {
	Username string
	Password string
}

// LoggedInMsg carries the login response. Token is "" when the body held none.
type LoggedInMsg struct {
	Status int
	Token  string
	Err    error
}

// TokenStoredMsg reports whether a token issued at login was persisted.
type TokenStoredMsg struct {
	Err error
}

// KeyOfDayMsg requests today's key.
type KeyOfDayMsg struct{}

type KeyOfDayFetchedMsg struct {
	Key string
	Err error
}
