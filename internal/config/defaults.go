package config

import "time"

const (
	DefaultTokenIssuer    = "study-platform"
	DefaultTokenDuration  = 24 * time.Hour
	DefaultBcryptCost     = 10
	DefaultRequestTimeout = 15 * time.Second
	DefaultVersion        = "dev"

	DefaultRateLimitCapacity       = 5
	DefaultRateLimitRefillInterval = time.Minute

	DefaultBrokerQueue = "accounts.events"

	DefaultClientDBPath  = "study-platform.db"
	DefaultCheckInterval = time.Minute
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: DefaultTokenDuration,
			BcryptCost:    DefaultBcryptCost,
			Version:       DefaultVersion,
		},
		Server: Server{
			RequestTimeout: DefaultRequestTimeout,
		},
		RateLimit: RateLimit{
			Capacity:       DefaultRateLimitCapacity,
			RefillInterval: DefaultRateLimitRefillInterval,
		},
		Broker: Broker{
			Queue: DefaultBrokerQueue,
		},
		Adapter: Adapter{
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{
			CheckInterval: DefaultCheckInterval,
		},
	}
}
