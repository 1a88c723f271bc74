package main

import (
	"context"
	"errors"
	"time"

	"fomolt3d-engine/internal/archive"
	"fomolt3d-engine/internal/events"
	"fomolt3d-engine/internal/ledger"
	"fomolt3d-engine/internal/triggers"

	"github.com/rs/zerolog/log"
)

type dispatcher interface {
	Dispatch([]triggers.Event)
}

// poller drives one observe-evaluate-dispatch cycle per tick. A failed
// tick logs and waits for the next one; the session keeps its dedup state
// so recovery cannot re-fire old alerts.
type poller struct {
	reader     ledger.Reader
	engine     *triggers.Engine
	session    *triggers.SessionState
	normalizer *events.Normalizer
	dispatcher dispatcher
	store      *archive.Store
	window     int
}

func (p *poller) tick(ctx context.Context) {
	snap, err := p.reader.GameSnapshot(ctx)
	if err != nil {
		if errors.Is(err, ledger.ErrNoRound) {
			log.Debug().Msg("no round yet")
			return
		}
		log.Warn().Err(err).Msg("snapshot fetch failed")
		return
	}

	fired := p.engine.Evaluate(p.session, snap, time.Now())
	if len(fired) > 0 {
		for _, ev := range fired {
			p.session.RecordPost(ev.Type)
			log.Info().
				Str("type", ev.Type).
				Uint64("round", ev.Round).
				Uint64("pot", ev.PotLamports).
				Msg("trigger fired")
		}
		p.dispatcher.Dispatch(fired)
	}

	p.archiveEvents(ctx)
}

// archiveEvents persists the current event window. Overlap with previous
// windows is expected; the archive deduplicates on transaction signature.
func (p *poller) archiveEvents(ctx context.Context) {
	if p.store == nil {
		return
	}
	raws, err := p.reader.RecentEvents(ctx, p.window)
	if err != nil {
		log.Warn().Err(err).Msg("event fetch failed")
		return
	}
	domain := p.normalizer.NormalizeAll(raws)
	if len(domain) == 0 {
		return
	}
	inserted, err := p.store.InsertEvents(ctx, domain)
	if err != nil {
		log.Warn().Err(err).Msg("event archive failed")
		return
	}
	if inserted > 0 {
		log.Debug().Int("inserted", inserted).Msg("events archived")
	}
}
