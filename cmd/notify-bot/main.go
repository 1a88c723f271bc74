package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"fomolt3d-engine/internal/archive"
	"fomolt3d-engine/internal/config"
	"fomolt3d-engine/internal/events"
	"fomolt3d-engine/internal/ledger"
	"fomolt3d-engine/internal/logging"
	"fomolt3d-engine/internal/notify"
	"fomolt3d-engine/internal/triggers"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadBotApp()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	client, err := ledger.NewClient(cfg.Ledger.RPCURL, cfg.Ledger.ProgramID,
		time.Duration(cfg.Ledger.RPCTimeoutMS)*time.Millisecond)
	if err != nil {
		log.Fatal().Err(err).Msg("rpc client init failed")
	}
	reader := ledger.NewCachedReader(client, cacheConfig(cfg.Ledger))

	notifyCfg, err := notify.ConfigFromEnv(cfg.Notify)
	if err != nil {
		log.Fatal().Err(err).Msg("notify config failed")
	}
	manager := notify.NewManager(notifyCfg)

	var st *archive.Store
	if cfg.Poller.PostgresDSN != "" {
		st, err = archive.New(cfg.Poller.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("archive init failed")
		}
		if err := st.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("archive schema failed")
		}
		defer st.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := manager.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("notify start failed")
	}

	p := &poller{
		reader:     reader,
		engine:     triggers.NewEngine(cfg.Poller.Milestones, cfg.Poller.DramaThresholdSecs),
		session:    triggers.NewSessionState(),
		normalizer: events.NewNormalizer(),
		dispatcher: manager,
		store:      st,
		window:     cfg.Ledger.EventWindow,
	}

	interval := time.Duration(cfg.Poller.IntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 2 * time.Second
	}
	log.Info().Dur("interval", interval).Msg("poller running")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func cacheConfig(cfg config.LedgerConfig) ledger.CacheConfig {
	return ledger.CacheConfig{
		GameTTL:      time.Duration(cfg.GameTTLMS) * time.Millisecond,
		PlayerTTL:    time.Duration(cfg.PlayerTTLMS) * time.Millisecond,
		RosterTTL:    time.Duration(cfg.RosterTTLMS) * time.Millisecond,
		EventsTTL:    time.Duration(cfg.EventsTTLMS) * time.Millisecond,
		FetchTimeout: time.Duration(cfg.RPCTimeoutMS) * time.Millisecond,
		MaxPlayers:   cfg.MaxPlayers,
		EventWindow:  cfg.EventWindow,
	}
}
