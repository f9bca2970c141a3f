package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-study-platform/internal/adapter"
	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/MKhiriev/go-study-platform/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// DashboardModel is the home of a student: the profile and a rename form.
type DashboardModel struct {
	ctx    context.Context
	client Client

	account models.PublicAccount
	loading bool
	editing bool
	name    textinput.Model
	status  string
	errMsg  string

	// rechecked is set while the route is re-evaluated after a 403, so a
	// second 403 on the rendered page stops at an error.
	rechecked bool
}

func NewDashboardModel(ctx context.Context, client Client) *DashboardModel {
	return &DashboardModel{
		ctx:    ctx,
		client: client,
		name:   newInput("name", 100, false),
	}
}

// Init reloads the profile every time the dashboard is opened.
func (m *DashboardModel) Init() tea.Cmd {
	m.loading = true
	m.editing = false
	m.status, m.errMsg = "", ""
	return m.cmdLoadProfile()
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		m.status = msg.text
		return m, nil

	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.handleError(msg.err)
		}
		m.rechecked = false
		m.account = msg.account
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			return m, m.handleError(msg.err)
		}
		m.account = msg.account
		m.editing = false
		m.status = "Имя изменено"
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}

		switch {
		case key.Matches(msg, keys.edit):
			m.editing = true
			m.status, m.errMsg = "", ""
			m.name.SetValue(m.account.Name)
			m.name.Focus()
			return m, textinput.Blink
		case key.Matches(msg, keys.refresh):
			m.rechecked = false
			return m, navigate(guard.RouteDashboard)
		case key.Matches(msg, keys.logout):
			return m, cmdLogout(m.ctx, m.client)
		}
	}

	return m, nil
}

func (m *DashboardModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.editing = false
		m.name.Blur()
		return m, nil
	case key.Matches(msg, keys.enter):
		name := strings.TrimSpace(m.name.Value())
		if name == "" {
			m.errMsg = "Имя не может быть пустым"
			return m, nil
		}
		m.name.Blur()
		return m, m.cmdSaveProfile(name)
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// handleError re-evaluates the route when access was denied, so a changed
// role or status sends the user to the right page. A denial on the page the
// guard has just rendered is shown instead.
func (m *DashboardModel) handleError(err error) tea.Cmd {
	if errors.Is(err, adapter.ErrForbidden) && !m.rechecked {
		m.rechecked = true
		return navigate(guard.RouteDashboard)
	}
	m.rechecked = false
	m.errMsg = humanizeError(err)
	return nil
}

func (m *DashboardModel) View() string {
	var b strings.Builder

	if m.loading {
		b.WriteString("Загрузка...\n")
	} else {
		b.WriteString("Поле                 │ Значение\n")
		b.WriteString("─────────────────────┼──────────────────────────────\n")
		b.WriteString("Имя                  │ ")
		if m.editing {
			b.WriteString("[" + m.name.View() + "]")
		} else {
			b.WriteString(valueOrNA(m.account.Name))
		}
		b.WriteString("\n")
		b.WriteString("Email                │ " + valueOrNA(m.account.Email) + "\n")
		b.WriteString("Роль                 │ " + m.account.Role.String() + "\n")
		b.WriteString("Последняя активность │ " + formatTime(m.account.LastActiveAt) + "\n")
	}

	renderStatus(&b, m.status, m.errMsg)

	hotKeys := "e: изменить имя │ g: обновить │ l: выйти"
	if m.editing {
		hotKeys = "enter: сохранить │ esc: отмена"
	}
	return renderPage("ЛИЧНЫЙ КАБИНЕТ", strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (m *DashboardModel) cmdLoadProfile() tea.Cmd {
	ctx := m.ctx
	client := m.client

	return func() tea.Msg {
		account, err := client.Profile(ctx)
		return profileLoadedMsg{account: account, err: err}
	}
}

func (m *DashboardModel) cmdSaveProfile(name string) tea.Cmd {
	ctx := m.ctx
	client := m.client

	return func() tea.Msg {
		account, err := client.UpdateProfile(ctx, name)
		return profileSavedMsg{account: account, err: err}
	}
}

func cmdLogout(ctx context.Context, client Client) tea.Cmd {
	return func() tea.Msg {
		// the local token is gone even when clearing the store failed
		_ = client.Logout(ctx)
		return loggedOutMsg{}
	}
}
