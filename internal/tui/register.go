package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// minSecretLength is the shortest secret the server accepts, in bytes.
const minSecretLength = 8

// RegisterModel is the Bubble Tea model for the registration screen. It renders four
// text inputs (display name, email, secret and its confirmation) and dispatches an
// async command that registers the account and logs in with it.
type RegisterModel struct {
	ctx    context.Context
	client Client

	form       form
	submitting bool
	errMsg     string
}

// NewRegisterModel creates a [RegisterModel] with four pre-configured text inputs.
// The name field receives focus immediately; the secret fields use masked echo.
func NewRegisterModel(ctx context.Context, client Client) *RegisterModel {
	return &RegisterModel{
		ctx:    ctx,
		client: client,
		form: newForm(
			newInput("name", 100, false),
			newInput("email", 254, false),
			newInput("secret", 72, true),
			newInput("repeat secret", 72, true),
		),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation for the active input.
func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [authResultMsg]: on error populates errMsg; on success resets the form
//     and opens the home route of the new account.
//   - esc            : navigates back to the welcome menu.
//   - tab / shift+tab: moves focus between inputs.
//   - enter          : validates inputs (all required; secrets must match) and
//     dispatches the async registration command.
//
// All other key events are forwarded to the focused input widget.
func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
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

			name := strings.TrimSpace(m.form.value(0))
			email := strings.TrimSpace(m.form.value(1))
			secret := m.form.value(2)
			repeat := m.form.value(3)

			if name == "" || email == "" || secret == "" || repeat == "" {
				m.errMsg = "Все поля обязательны"
				return m, nil
			}
			if len(secret) < minSecretLength {
				m.errMsg = "Пароль должен быть не короче 8 символов"
				return m, nil
			}
			if secret != repeat {
				m.errMsg = "Пароли не совпадают"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRegister(name, email, secret)
		}
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

// View implements [tea.Model]. Renders the registration form as a two-column table
// with all input fields, a submission indicator, and an optional error message.
func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString("Поле           │ Значение\n")
	b.WriteString("───────────────┼────────────────────────────────────\n")
	b.WriteString("Имя            │ [")
	b.WriteString(m.form.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Email          │ [")
	b.WriteString(m.form.inputs[1].View())
	b.WriteString("]\n")
	b.WriteString("Пароль         │ [")
	b.WriteString(m.form.inputs[2].View())
	b.WriteString("]\n")
	b.WriteString("Повтор пароля  │ [")
	b.WriteString(m.form.inputs[3].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Зарегистрироваться...]\n")
	} else {
		b.WriteString("\n[Зарегистрироваться]\n")
	}

	renderStatus(&b, "", m.errMsg)

	return renderPage("РЕГИСТРАЦИЯ", strings.TrimRight(b.String(), "\n"), "esc: назад │ tab: след. поле │ enter: подтвердить")
}

func (m *RegisterModel) cmdRegister(name, email, secret string) tea.Cmd {
	ctx := m.ctx
	client := m.client

	return func() tea.Msg {
		snap, err := client.Register(ctx, name, email, secret)
		return authResultMsg{snapshot: snap, err: err}
	}
}
