// Package public derives the read API's responses and plans transactions
// from cached ledger state. Nothing here signs or submits.
package public

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fomolt3d-engine/internal/events"
	"fomolt3d-engine/internal/game"
	"fomolt3d-engine/internal/ledger"
	"fomolt3d-engine/internal/plan"
)

const leaderboardMaxRows = 100

type Service struct {
	reader     ledger.Reader
	encoder    *ledger.Encoder
	normalizer *events.Normalizer
	now        func() time.Time
}

func NewService(reader ledger.Reader, encoder *ledger.Encoder) *Service {
	return &Service{
		reader:     reader,
		encoder:    encoder,
		normalizer: events.NewNormalizer(),
		now:        time.Now,
	}
}

func (s *Service) GameStatus(ctx context.Context) (*GameStatusResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	nextPrice, err := snap.NextKeyPrice()
	if err != nil {
		return nil, err
	}
	return &GameStatusResponse{
		Round:         snap.Round,
		Phase:         game.ResolvePhase(snap, now),
		PotLamports:   snap.PotLamports,
		TimerEnd:      snap.TimerEnd,
		RemainingSecs: snap.RemainingSecs(now),
		LastBuyer:     snap.LastBuyer,
		TotalKeys:     snap.TotalKeys,
		TotalPlayers:  snap.TotalPlayers,
		DividendPool:  snap.DividendPool,
		WinnerPot:     snap.WinnerPot,
		NextRoundPot:  snap.NextRoundPot,
		NextKeyPrice:  nextPrice,
		WinnerClaimed: snap.WinnerClaimed,
	}, nil
}

func (s *Service) Price(ctx context.Context, keys uint64) (*PriceResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	total, err := game.CumulativeCost(snap.TotalKeys, keys, snap.Config.BasePriceLamports, snap.Config.PriceIncrementLamports)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	nextPrice, err := snap.NextKeyPrice()
	if err != nil {
		return nil, err
	}
	return &PriceResponse{Keys: keys, TotalLamports: total, NextKeyPrice: nextPrice}, nil
}

func (s *Service) PlayerStatus(ctx context.Context, address string) (*PlayerStatusResponse, error) {
	if err := game.ValidateAddress(address); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.player(ctx, address)
	if err != nil {
		return nil, err
	}
	status, err := game.ResolvePlayerStatus(snap, rec, address, s.now())
	if err != nil {
		return nil, err
	}
	return &PlayerStatusResponse{Address: address, Round: snap.Round, Status: status}, nil
}

func (s *Service) Leaderboard(ctx context.Context, limit int) (*LeaderboardResponse, error) {
	if limit <= 0 || limit > leaderboardMaxRows {
		limit = leaderboardMaxRows
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	fetched, err := s.reader.RoundPlayers(ctx, snap.Round)
	if err != nil {
		return nil, err
	}
	// The reader may hand out a shared slice; sort a private copy so
	// concurrent requests never reorder each other's view.
	roster := make([]game.PlayerRecord, len(fetched))
	copy(roster, fetched)
	sort.SliceStable(roster, func(i, j int) bool { return roster[i].Keys > roster[j].Keys })
	if len(roster) > limit {
		roster = roster[:limit]
	}
	items := make([]LeaderboardEntry, 0, len(roster))
	for i, rec := range roster {
		items = append(items, LeaderboardEntry{
			Rank:              i + 1,
			Address:           rec.Owner,
			Keys:              rec.Keys,
			EstimatedDividend: game.EstimateDividend(snap, rec.Keys),
			IsAgent:           rec.IsAgent,
		})
	}
	return &LeaderboardResponse{Round: snap.Round, Items: items}, nil
}

func (s *Service) RecentEvents(ctx context.Context, limit int) (*EventsResponse, error) {
	raws, err := s.reader.RecentEvents(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := s.normalizer.NormalizeAll(raws)
	if items == nil {
		items = []events.DomainEvent{}
	}
	return &EventsResponse{Items: items}, nil
}

// PlanBuy plans a key purchase and, when the plan is applicable, encodes
// it into an unsigned bundle.
func (s *Service) PlanBuy(ctx context.Context, req BuyRequest) (*PlanResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.playerChecked(ctx, req.Buyer)
	if err != nil {
		return nil, err
	}
	result, err := plan.PlanBuy(snap, rec, plan.BuyRequest{
		Buyer:    req.Buyer,
		Keys:     req.Keys,
		IsAgent:  req.IsAgent,
		Referrer: req.Referrer,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return s.respond(req.Buyer, result)
}

// PlanClaim plans dividend/prize and referral withdrawal for a player.
func (s *Service) PlanClaim(ctx context.Context, req ClaimRequest) (*PlanResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.playerChecked(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	result, err := plan.PlanClaim(snap, rec, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return s.respond(req.Address, result)
}

func (s *Service) respond(feePayer string, result plan.Result) (*PlanResponse, error) {
	resp := &PlanResponse{Plan: result}
	if result.Applicable() {
		bundle, err := s.encoder.Encode(feePayer, result.Ops)
		if err != nil {
			return nil, err
		}
		resp.Bundle = bundle
	}
	return resp, nil
}

func (s *Service) snapshot(ctx context.Context) (*game.GameSnapshot, error) {
	snap, err := s.reader.GameSnapshot(ctx)
	if err != nil {
		if errors.Is(err, ledger.ErrNoRound) {
			return nil, ErrNoRound
		}
		return nil, err
	}
	return snap, nil
}

// player maps an absent account to a nil record; the resolvers treat nil
// as "never registered".
func (s *Service) player(ctx context.Context, address string) (*game.PlayerRecord, error) {
	rec, err := s.reader.Player(ctx, address)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) playerChecked(ctx context.Context, address string) (*game.PlayerRecord, error) {
	if err := game.ValidateAddress(address); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return s.player(ctx, address)
}
