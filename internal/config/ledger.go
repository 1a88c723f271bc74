package config

import "github.com/caarlos0/env/v11"

type LedgerConfig struct {
	RPCURL    string `env:"RPC_URL,required,notEmpty"`
	ProgramID string `env:"PROGRAM_ID,required,notEmpty"`

	RPCTimeoutMS int `env:"RPC_TIMEOUT_MS" envDefault:"5000"`

	GameTTLMS   int `env:"CACHE_GAME_TTL_MS" envDefault:"2000"`
	PlayerTTLMS int `env:"CACHE_PLAYER_TTL_MS" envDefault:"5000"`
	RosterTTLMS int `env:"CACHE_ROSTER_TTL_MS" envDefault:"15000"`
	EventsTTLMS int `env:"CACHE_EVENTS_TTL_MS" envDefault:"5000"`
	MaxPlayers  int `env:"CACHE_MAX_PLAYERS" envDefault:"4096"`

	// EventWindow is how many recent transactions the event feed scans.
	EventWindow int `env:"EVENT_WINDOW" envDefault:"25"`
}

func LoadLedger() (LedgerConfig, error) {
	var cfg LedgerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
