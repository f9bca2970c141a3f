package tui

import (
	"context"

	"github.com/MKhiriev/go-study-platform/internal/guard"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/session"
	"github.com/MKhiriev/go-study-platform/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// maxRedirects bounds a chain of home redirects.
const maxRedirects = 3

// RootModel is a TUI router:
// 1) keeps the active page and its route
// 2) handles global Ctrl+C quit
// 3) resolves NavigateTo messages through the guard
// 4) leaves protected pages when the session ends
// 5) delegates all other messages to the active page
type RootModel struct {
	ctx       context.Context
	client    Client
	navigator Navigator
	logger    *logger.Logger

	pages        map[string]tea.Model
	current      tea.Model
	currentRoute guard.Route

	navigating bool
	spinner    spinner.Model

	quitByUser bool
}

// NewRootModel registers all pages. The initial route is resolved in Init.
func NewRootModel(ctx context.Context, client Client, navigator Navigator, buildInfo models.AppBuildInfo, logger *logger.Logger) RootModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	welcome := NewWelcomeModel()
	return RootModel{
		ctx:       ctx,
		client:    client,
		navigator: navigator,
		logger:    logger,
		pages: map[string]tea.Model{
			guard.RouteWelcome.Path:        welcome,
			guard.RouteLogin.Path:          NewLoginModel(ctx, client),
			guard.RouteRegister.Path:       NewRegisterModel(ctx, client),
			guard.RouteAbout.Path:          NewAboutModel(ctx, client, buildInfo),
			guard.RouteDashboard.Path:      NewDashboardModel(ctx, client),
			guard.RouteAdminDashboard.Path: NewAdminModel(ctx, client),
			guard.RouteInactive.Path:       NewInactiveModel(ctx, client),
		},
		current:      welcome,
		currentRoute: guard.RouteWelcome,
		navigating:   true,
		spinner:      s,
	}
}

// Init opens the home of a stored session. Without a token the welcome menu
// is shown instead of the login form.
func (r RootModel) Init() tea.Cmd {
	return tea.Batch(r.spinner.Tick, r.cmdNavigate(NavigateTo{Route: guard.RouteDashboard}, true))
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			r.quitByUser = true
			return r, tea.Quit
		}
		if r.navigating {
			return r, nil
		}
		if key.Matches(keyMsg, keys.quit) && r.currentRoute.Public() && !r.inputFocused() {
			r.quitByUser = true
			return r, tea.Quit
		}
	}

	switch msg := msg.(type) {
	case NavigateTo:
		r.navigating = true
		return r, tea.Batch(r.spinner.Tick, r.cmdNavigate(msg, false))

	case navigationResolvedMsg:
		return r.resolve(msg)

	case sessionChangedMsg:
		snap := msg.snapshot
		if snap.State == session.StateUnauthenticated && !r.currentRoute.Public() && !r.navigating {
			r.logger.Debug().Str("route", r.currentRoute.Path).Str("reason", string(snap.Reason)).Msg("session ended on a protected page")
			return r.show(guard.RouteLogin, reasonNotice(snap.Reason))
		}
		return r, nil

	case loggedOutMsg:
		return r.show(guard.RouteWelcome, "Вы вышли из аккаунта")

	case spinner.TickMsg:
		if !r.navigating {
			break
		}
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd
	}

	if r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	r.pages[r.currentRoute.Path] = updated
	return r, cmd
}

func (r RootModel) View() string {
	if r.navigating {
		return renderPage("STUDY PLATFORM", r.spinner.View()+" Проверка сессии...", "")
	}
	if r.current == nil {
		return renderPage("STUDY PLATFORM", "", "")
	}
	return r.current.View()
}

func (r RootModel) cmdNavigate(nav NavigateTo, initial bool) tea.Cmd {
	ctx := r.ctx
	navigator := r.navigator

	return func() tea.Msg {
		outcome := navigator.Navigate(ctx, nav.Route)
		if initial && outcome.Action == guard.ActionRedirectLogin && outcome.Reason == session.ReasonLoginRequired {
			outcome = guard.Outcome{Action: guard.ActionRender, Target: guard.RouteWelcome}
		}
		return navigationResolvedMsg{outcome: outcome, notice: nav.Notice, hops: nav.hops}
	}
}

func (r RootModel) resolve(msg navigationResolvedMsg) (tea.Model, tea.Cmd) {
	outcome := msg.outcome

	switch outcome.Action {
	case guard.ActionRender:
		return r.show(outcome.Target, msg.notice)

	case guard.ActionRedirectLogin:
		return r.show(guard.RouteLogin, reasonNotice(outcome.Reason))

	default:
		// home redirects, and a session still being resolved elsewhere
		if msg.hops >= maxRedirects {
			r.logger.Warn().Str("target", outcome.Target.Path).Msg("too many redirects")
			return r.show(guard.RouteWelcome, "")
		}
		next := NavigateTo{Route: outcome.Target, Notice: msg.notice, hops: msg.hops + 1}
		return r, r.cmdNavigate(next, false)
	}
}

func (r RootModel) show(route guard.Route, notice string) (tea.Model, tea.Cmd) {
	page, ok := r.pages[route.Path]
	if !ok {
		page, route = r.pages[guard.RouteWelcome.Path], guard.RouteWelcome
	}

	r.navigating = false
	r.current = page
	r.currentRoute = route

	cmds := []tea.Cmd{page.Init()}
	if notice != "" {
		cmds = append(cmds, func() tea.Msg { return noticeMsg{text: notice} })
	}
	return r, tea.Batch(cmds...)
}

// inputFocused reports whether the page takes free text, where q is a letter.
func (r RootModel) inputFocused() bool {
	switch r.current.(type) {
	case *LoginModel, *RegisterModel:
		return true
	}
	return false
}

func reasonNotice(reason session.Reason) string {
	switch reason {
	case session.ReasonExpired:
		return "Сессия истекла, войдите снова"
	case session.ReasonUnreachable:
		return "Сервер недоступен, попробуйте позже"
	case session.ReasonLoginRequired:
		return "Войдите, чтобы продолжить"
	default:
		return ""
	}
}
