package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-study-platform/internal/adapter"
	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/MKhiriev/go-study-platform/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const adminPageSize = 20

// accountFilters is the cycle of listing filters behind the f key.
var accountFilters = []struct {
	title  string
	filter models.AccountFilter
}{
	{title: "все", filter: models.AccountFilter{}},
	{title: "студенты", filter: models.AccountFilter{Role: models.RoleUser}},
	{title: "администраторы", filter: models.AccountFilter{Role: models.RoleAdmin}},
	{title: "неактивные", filter: models.AccountFilter{Status: models.StatusInactive}},
}

// AdminModel is the home of an administrator: the account table with role
// and status controls.
type AdminModel struct {
	ctx    context.Context
	client Client

	table    table.Model
	accounts []models.PublicAccount
	total    int
	filter   int
	offset   uint64
	loading  bool
	status   string
	errMsg   string

	// rechecked is set while the route is re-evaluated after a 403.
	rechecked bool
}

func NewAdminModel(ctx context.Context, client Client) *AdminModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 10},
			{Title: "Имя", Width: 18},
			{Title: "Email", Width: 26},
			{Title: "Роль", Width: 6},
			{Title: "Статус", Width: 9},
			{Title: "Активность", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return &AdminModel{ctx: ctx, client: client, table: t}
}

// Init reloads the current page of accounts every time the dashboard is opened.
func (m *AdminModel) Init() tea.Cmd {
	m.status, m.errMsg = "", ""
	return m.reload()
}

func (m *AdminModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		m.status = msg.text
		return m, nil

	case accountsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, adapter.ErrForbidden) && !m.rechecked {
				m.rechecked = true
				return m, navigate(guard.RouteAdminDashboard)
			}
			m.rechecked = false
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.rechecked = false
		m.accounts = msg.accounts
		m.total = msg.total
		m.table.SetRows(accountRows(msg.accounts))
		if m.table.Cursor() >= len(msg.accounts) {
			m.table.SetCursor(max(len(msg.accounts)-1, 0))
		}
		return m, nil

	case accountChangedMsg:
		if msg.err != nil {
			m.errMsg = changeErrorMessage(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("%s: роль %s, статус %s", msg.account.Email, msg.account.Role, msg.account.Status)
		return m, m.reload()

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.status = "ID скопирован: " + msg.text
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.role):
			if account, ok := m.selected(); ok {
				return m, m.cmdChangeRole(account)
			}
			return m, nil
		case key.Matches(msg, keys.status):
			if account, ok := m.selected(); ok {
				return m, m.cmdChangeStatus(account)
			}
			return m, nil
		case key.Matches(msg, keys.copy):
			if account, ok := m.selected(); ok {
				return m, cmdCopy(account.ID)
			}
			return m, nil
		case key.Matches(msg, keys.filter):
			m.filter = (m.filter + 1) % len(accountFilters)
			m.offset = 0
			return m, m.reload()
		case key.Matches(msg, keys.next):
			if m.offset+adminPageSize < uint64(m.total) || len(m.accounts) == adminPageSize {
				m.offset += adminPageSize
				return m, m.reload()
			}
			return m, nil
		case key.Matches(msg, keys.prev):
			if m.offset > 0 {
				m.offset -= min(m.offset, adminPageSize)
				return m, m.reload()
			}
			return m, nil
		case key.Matches(msg, keys.refresh):
			m.rechecked = false
			return m, navigate(guard.RouteAdminDashboard)
		case key.Matches(msg, keys.logout):
			return m, cmdLogout(m.ctx, m.client)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *AdminModel) View() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Фильтр: %s │ Страница с %d │ Показано: %d\n\n", accountFilters[m.filter].title, m.offset+1, len(m.accounts)))
	if m.loading && len(m.accounts) == 0 {
		b.WriteString("Загрузка...\n")
	} else if len(m.accounts) == 0 {
		b.WriteString("Нет аккаунтов\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	renderStatus(&b, m.status, m.errMsg)

	return renderPage("ПАНЕЛЬ АДМИНИСТРАТОРА", strings.TrimRight(b.String(), "\n"),
		"↑/↓: выбор │ r: роль │ s: статус │ c: копировать ID │ f: фильтр │ ←/→: страницы │ g: обновить │ l: выйти")
}

func (m *AdminModel) selected() (models.PublicAccount, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.accounts) {
		return models.PublicAccount{}, false
	}
	return m.accounts[i], true
}

func (m *AdminModel) reload() tea.Cmd {
	m.loading = true

	ctx := m.ctx
	client := m.client
	filter := accountFilters[m.filter].filter
	filter.Limit = adminPageSize
	filter.Offset = m.offset

	return func() tea.Msg {
		resp, err := client.ListAccounts(ctx, filter)
		return accountsLoadedMsg{accounts: resp.Accounts, total: resp.Length, err: err}
	}
}

func (m *AdminModel) cmdChangeRole(account models.PublicAccount) tea.Cmd {
	ctx := m.ctx
	client := m.client
	role := models.RoleAdmin
	if account.Role == models.RoleAdmin {
		role = models.RoleUser
	}

	return func() tea.Msg {
		updated, err := client.ChangeRole(ctx, account.ID, role)
		return accountChangedMsg{account: updated, err: err}
	}
}

func (m *AdminModel) cmdChangeStatus(account models.PublicAccount) tea.Cmd {
	ctx := m.ctx
	client := m.client
	status := models.StatusInactive
	if account.Status == models.StatusInactive {
		status = models.StatusActive
	}

	return func() tea.Msg {
		updated, err := client.ChangeStatus(ctx, account.ID, status)
		return accountChangedMsg{account: updated, err: err}
	}
}

func cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{text: text}
	}
}

// changeErrorMessage keeps the server message of a refused change, such as
// an administrator editing their own account.
func changeErrorMessage(err error) string {
	var apiErr *adapter.APIError
	if errors.As(err, &apiErr) && errors.Is(err, adapter.ErrForbidden) && apiErr.Message != "" {
		return "Доступ запрещён: " + apiErr.Message
	}
	return humanizeError(err)
}

func accountRows(accounts []models.PublicAccount) []table.Row {
	rows := make([]table.Row, 0, len(accounts))
	for _, account := range accounts {
		rows = append(rows, table.Row{
			fitText(account.ID, 10),
			fitText(account.Name, 18),
			fitText(account.Email, 26),
			account.Role.String(),
			account.Status.String(),
			formatTime(account.LastActiveAt),
		})
	}
	return rows
}
