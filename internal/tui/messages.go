package tui

import (
	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/MKhiriev/go-study-platform/internal/session"
	"github.com/MKhiriev/go-study-platform/models"
)

// NavigateTo asks the router to open a route. Every navigation goes
// through the guard.
type NavigateTo struct {
	Route guard.Route
	// Notice is shown on the opened page.
	Notice string

	hops int
}

type navigationResolvedMsg struct {
	outcome guard.Outcome
	notice  string
	hops    int
}

type sessionChangedMsg struct {
	snapshot session.Snapshot
}

// noticeMsg is delivered to a page right after it is opened.
type noticeMsg struct {
	text string
}

type authResultMsg struct {
	snapshot session.Snapshot
	err      error
}

type profileLoadedMsg struct {
	account models.PublicAccount
	err     error
}

type profileSavedMsg struct {
	account models.PublicAccount
	err     error
}

type accountsLoadedMsg struct {
	accounts []models.PublicAccount
	total    int
	err      error
}

type accountChangedMsg struct {
	account models.PublicAccount
	err     error
}

type serverVersionMsg struct {
	version string
	err     error
}

type copiedMsg struct {
	text string
	err  error
}

type loggedOutMsg struct{}
