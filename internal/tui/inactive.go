package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// InactiveModel is the home of a deactivated account. Only the session is
// left: the user may re-check the account or log out.
type InactiveModel struct {
	ctx    context.Context
	client Client

	status string
	errMsg string
}

func NewInactiveModel(ctx context.Context, client Client) *InactiveModel {
	return &InactiveModel{ctx: ctx, client: client}
}

func (m *InactiveModel) Init() tea.Cmd {
	m.status, m.errMsg = "", ""
	return nil
}

func (m *InactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		m.status = msg.text
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.refresh):
			// the account home is recomputed from a fresh verification
			return m, navigate(guard.RouteDashboard)
		case key.Matches(msg, keys.logout):
			return m, cmdLogout(m.ctx, m.client)
		}
	}
	return m, nil
}

func (m *InactiveModel) View() string {
	var b strings.Builder

	account := m.client.Current().Account
	b.WriteString(overlayBoxStyle.Render(
		"Ваш аккаунт деактивирован.\n" +
			"Обратитесь к администратору платформы.\n\n" +
			"Email: " + valueOrNA(account.Email),
	))
	b.WriteString("\n")

	renderStatus(&b, m.status, m.errMsg)

	return renderPage("АККАУНТ НЕАКТИВЕН", strings.TrimRight(b.String(), "\n"), "g: проверить снова │ l: выйти")
}
