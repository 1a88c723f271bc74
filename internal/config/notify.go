package config

import "github.com/caarlos0/env/v11"

type NotifyConfig struct {
	Enabled bool `env:"NOTIFY_ENABLED" envDefault:"false"`

	// TargetsPath points at a JSON target list; TargetsJSON inlines one.
	// The file wins when both are set and is re-read periodically.
	TargetsPath     string `env:"NOTIFY_TARGETS_PATH"`
	TargetsJSON     string `env:"NOTIFY_TARGETS_JSON"`
	TargetsReloadMS int    `env:"NOTIFY_TARGETS_RELOAD_MS" envDefault:"1000"`

	Workers          int `env:"NOTIFY_WORKERS" envDefault:"4"`
	RetryMax         int `env:"NOTIFY_RETRY_MAX" envDefault:"3"`
	RetryBaseMS      int `env:"NOTIFY_RETRY_BASE_MS" envDefault:"500"`
	FailureThreshold int `env:"NOTIFY_FAILURE_THRESHOLD" envDefault:"3"`
	CircuitOpenSecs  int `env:"NOTIFY_CIRCUIT_OPEN_SECS" envDefault:"30"`
	RequestTimeoutMS int `env:"NOTIFY_REQUEST_TIMEOUT_MS" envDefault:"5000"`
	DispatchBuffer   int `env:"NOTIFY_DISPATCH_BUFFER" envDefault:"1024"`
}

func LoadNotify() (NotifyConfig, error) {
	var cfg NotifyConfig
	err := env.Parse(&cfg)
	return cfg, err
}
