package service

import (
	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/events"
	"github.com/MKhiriev/go-study-platform/internal/limiter"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/metrics"
	"github.com/MKhiriev/go-study-platform/internal/store"
)

type Services struct {
	AuthService    AuthService
	AccountService AccountService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, loginLimiter limiter.Limiter, publisher events.Publisher, recorder metrics.Recorder, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	deps := AuthDependencies{
		Limiter:   loginLimiter,
		Publisher: publisher,
		Metrics:   recorder,
	}

	return &Services{
		AuthService:    NewAuthService(storages.AccountRepository, deps, cfg.App, logger),
		AccountService: NewAccountService(storages.AccountRepository, publisher, logger),
		AppInfoService: appInfo,
	}, nil
}
