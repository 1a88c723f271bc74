package config

import "github.com/caarlos0/env/v11"

type PollerConfig struct {
	IntervalMS int `env:"POLL_INTERVAL_MS" envDefault:"2000"`

	// Milestones are ascending pot thresholds in lamports.
	Milestones []uint64 `env:"POT_MILESTONES" envSeparator:"," envDefault:"1000000000,10000000000,100000000000"`

	DramaThresholdSecs int64 `env:"DRAMA_THRESHOLD_SECS" envDefault:"60"`

	// PostgresDSN enables archiving of normalized events while polling.
	PostgresDSN string `env:"POSTGRES_DSN"`
}

func LoadPoller() (PollerConfig, error) {
	var cfg PollerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
