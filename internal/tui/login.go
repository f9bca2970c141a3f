// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginModel is the Bubble Tea model for the login screen. It renders two text inputs
// (email and secret) and dispatches an async login command on form submission.
// On success it navigates to the home route of the account.
type LoginModel struct {
	ctx    context.Context
	client Client

	form       form
	submitting bool
	notice     string
	errMsg     string
}

// NewLoginModel creates a [LoginModel] with pre-configured email and secret inputs.
// The email field receives focus immediately; the secret field uses masked echo.
func NewLoginModel(ctx context.Context, client Client) *LoginModel {
	return &LoginModel{
		ctx:    ctx,
		client: client,
		form: newForm(
			newInput("email", 254, false),
			newInput("secret", 72, true),
		),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation for the active input.
func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [noticeMsg]    : shows why the user was sent here.
//   - [authResultMsg]: on error populates errMsg, on success opens the home route.
//   - esc            : navigates back to the welcome menu.
//   - tab / shift+tab: moves focus between inputs.
//   - enter          : validates inputs and dispatches the async login command.
//
// All other key events are forwarded to the focused input widget.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		m.notice = msg.text
		return m, nil

	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg, m.notice = "", ""
		m.form.reset()
		return m, navigate(guard.HomeFor(*msg.snapshot.Identity()))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.submitting = false
			m.errMsg = ""
			return m, navigate(guard.RouteWelcome)
		case key.Matches(msg, keys.tab):
			m.form.focusNext()
			return m, nil
		case key.Matches(msg, keys.backtab):
			m.form.focusPrev()
			return m, nil
		case key.Matches(msg, keys.enter):
			if m.submitting {
				return m, nil
			}

			email := strings.TrimSpace(m.form.value(0))
			secret := m.form.value(1)
			if email == "" || secret == "" {
				m.errMsg = "Email и пароль обязательны"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdLogin(email, secret)
		}
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

// View implements [tea.Model]. Renders the login form as a two-column table with
// email and secret inputs, a submission indicator, and an optional error message.
func (m *LoginModel) View() string {
	var b strings.Builder
	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n\n")
	}

	b.WriteString("Поле    │ Значение\n")
	b.WriteString("────────┼────────────────────────────────────────────\n")
	b.WriteString("Email   │ [")
	b.WriteString(m.form.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Пароль  │ [")
	b.WriteString(m.form.inputs[1].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Войти...]\n")
	} else {
		b.WriteString("\n[Войти]\n")
	}

	renderStatus(&b, "", m.errMsg)

	return renderPage("ВХОД", strings.TrimRight(b.String(), "\n"), "esc: назад │ tab: след. поле │ enter: подтвердить")
}

func (m *LoginModel) cmdLogin(email, secret string) tea.Cmd {
	ctx := m.ctx
	client := m.client

	return func() tea.Msg {
		snap, err := client.Login(ctx, email, secret)
		return authResultMsg{snapshot: snap, err: err}
	}
}
