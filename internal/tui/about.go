package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/MKhiriev/go-study-platform/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// AboutModel shows the client build and the version of the server it talks to.
type AboutModel struct {
	ctx       context.Context
	client    Client
	buildInfo models.AppBuildInfo

	serverVersion string
	loading       bool
	errMsg        string
}

func NewAboutModel(ctx context.Context, client Client, buildInfo models.AppBuildInfo) *AboutModel {
	return &AboutModel{ctx: ctx, client: client, buildInfo: buildInfo}
}

func (m *AboutModel) Init() tea.Cmd {
	m.loading = true
	m.errMsg = ""

	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		version, err := client.ServerVersion(ctx)
		return serverVersionMsg{version: version, err: err}
	}
}

func (m *AboutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case serverVersionMsg:
		m.loading = false
		if msg.err != nil {
			m.serverVersion = ""
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.serverVersion = msg.version
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.esc) {
			return m, navigate(guard.RouteWelcome)
		}
	}
	return m, nil
}

func (m *AboutModel) View() string {
	var b strings.Builder

	server := valueOrNA(m.serverVersion)
	if m.loading {
		server = "загрузка..."
	}

	b.WriteString(fmt.Sprintf("Версия клиента: %s\n", valueOrNA(m.buildInfo.BuildVersion())))
	b.WriteString(fmt.Sprintf("Дата сборки:    %s\n", valueOrNA(m.buildInfo.BuildDate())))
	b.WriteString(fmt.Sprintf("Коммит:         %s\n", valueOrNA(m.buildInfo.BuildCommit())))
	b.WriteString(fmt.Sprintf("Версия сервера: %s\n", server))

	renderStatus(&b, "", m.errMsg)

	return renderPage("О ПРОГРАММЕ", strings.TrimRight(b.String(), "\n"), "esc: назад │ q: выйти")
}
