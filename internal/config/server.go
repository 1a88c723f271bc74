package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// PostgresDSN enables the event archive when set. The API runs
	// without it, serving history straight from the RPC window.
	PostgresDSN string `env:"POSTGRES_DSN"`

	ReadTimeoutSecs  int `env:"HTTP_READ_TIMEOUT_SECS" envDefault:"10"`
	WriteTimeoutSecs int `env:"HTTP_WRITE_TIMEOUT_SECS" envDefault:"15"`
	IdleTimeoutSecs  int `env:"HTTP_IDLE_TIMEOUT_SECS" envDefault:"60"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
