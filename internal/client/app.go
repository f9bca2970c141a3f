package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/tui"
)

// Runner is a blocking part of the client process.
type Runner interface {
	Run(ctx context.Context) error
}

var _ Client = (*App)(nil)

// App runs the terminal UI with the background workers that keep the
// session in sync.
type App struct {
	ui      Runner
	workers Runner
	logger  *logger.Logger
}

func NewApp(ui Runner, workers Runner, logger *logger.Logger) (*App, error) {
	if ui == nil {
		return nil, errors.New("client app: nil ui")
	}
	if workers == nil {
		return nil, errors.New("client app: nil workers")
	}
	return &App{ui: ui, workers: workers, logger: logger}, nil
}

// Run blocks until the user quits or the process is interrupted.
// Quitting on purpose is not an error.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workersDone := make(chan error, 1)
	go func() {
		workersDone <- a.workers.Run(ctx)
	}()

	uiErr := a.ui.Run(ctx)
	cancel()

	if err := <-workersDone; err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Err(err).Msg("background workers stopped with error")
	}

	if uiErr != nil && !errors.Is(uiErr, tui.ErrUserQuit) {
		return fmt.Errorf("run ui: %w", uiErr)
	}

	a.logger.Info().Msg("client stopped")
	return nil
}
