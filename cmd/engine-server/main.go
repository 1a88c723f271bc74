package main

import (
	"context"
	"net/http"
	"time"

	"fomolt3d-engine/internal/app/public"
	"fomolt3d-engine/internal/archive"
	"fomolt3d-engine/internal/config"
	"fomolt3d-engine/internal/ledger"
	"fomolt3d-engine/internal/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadApp()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	client, err := ledger.NewClient(cfg.Ledger.RPCURL, cfg.Ledger.ProgramID,
		time.Duration(cfg.Ledger.RPCTimeoutMS)*time.Millisecond)
	if err != nil {
		log.Fatal().Err(err).Msg("rpc client init failed")
	}
	reader := ledger.NewCachedReader(client, cacheConfig(cfg.Ledger))
	encoder, err := ledger.NewEncoder(cfg.Ledger.ProgramID)
	if err != nil {
		log.Fatal().Err(err).Msg("encoder init failed")
	}
	svc := public.NewService(reader, encoder)

	var st *archive.Store
	if cfg.Server.PostgresDSN != "" {
		st, err = archive.New(cfg.Server.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("archive init failed")
		}
		if err := st.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("archive schema failed")
		}
		log.Info().Msg("event archive enabled")
	} else {
		log.Info().Msg("event archive disabled, serving history from rpc window only")
	}

	r := newRouter(svc, st)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
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
