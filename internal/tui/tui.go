// Package tui is the terminal client of the study platform.
//
// Every view is a [guard.Route]. The [RootModel] router sends each
// navigation through the route guard, so what is shown always matches the
// session as the server sees it.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/session"
	"github.com/MKhiriev/go-study-platform/models"
	tea "github.com/charmbracelet/bubbletea"
)

// Client is the session API the views call.
type Client interface {
	Current() session.Snapshot
	Subscribe() (<-chan session.Snapshot, func())
	Login(ctx context.Context, email, secret string) (session.Snapshot, error)
	Register(ctx context.Context, name, email, secret string) (session.Snapshot, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (models.PublicAccount, error)
	UpdateProfile(ctx context.Context, name string) (models.PublicAccount, error)
	ListAccounts(ctx context.Context, filter models.AccountFilter) (models.AccountsResponse, error)
	ChangeRole(ctx context.Context, id string, role models.Role) (models.PublicAccount, error)
	ChangeStatus(ctx context.Context, id string, status models.AccountStatus) (models.PublicAccount, error)
	ServerVersion(ctx context.Context) (string, error)
}

// Navigator decides what a route shows.
type Navigator interface {
	Navigate(ctx context.Context, route guard.Route) guard.Outcome
}

type TUI struct {
	client    Client
	navigator Navigator
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(client Client, navigator Navigator, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{client: client, navigator: navigator, buildInfo: buildInfo, logger: logger}
}

// Run shows the client until the user quits or ctx is cancelled.
// The first view is the home of the stored session, or the welcome menu.
func (t *TUI) Run(ctx context.Context) error {
	root := NewRootModel(ctx, t.client, t.navigator, t.buildInfo, t.logger)
	program := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))

	updates, unsubscribe := t.client.Subscribe()
	defer unsubscribe()
	go func() {
		for snap := range updates {
			program.Send(sessionChangedMsg{snapshot: snap})
		}
	}()

	finalModel, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}
