// Package triggers watches successive polled game snapshots and emits
// notification events exactly once per qualifying transition. Every rule
// is edge-triggered: it fires on entry into a state, not while the state
// persists.
package triggers

import (
	"sort"
	"time"

	"fomolt3d-engine/internal/game"
)

// Priority orders merged trigger outputs; lower sorts first.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// Trigger event types.
const (
	TypeRoundStart   = "round_start"
	TypeRoundEnd     = "round_end"
	TypeTimerDrama   = "timer_drama"
	TypePotMilestone = "pot_milestone"
)

// Event is one qualifying transition observed between two polls.
type Event struct {
	Type     string
	Priority Priority
	Round    uint64
	// PotLamports is the pot at fire time.
	PotLamports uint64
	// ThresholdLamports is set on pot_milestone.
	ThresholdLamports uint64
	// RemainingSecs is set on timer_drama.
	RemainingSecs int64
	// LastBuyer is set on round_end (the winner) and timer_drama.
	LastBuyer string
}

// Engine evaluates trigger rules against consecutive snapshots.
type Engine struct {
	// milestones are ascending pot thresholds in lamports.
	milestones []uint64
	// dramaThresholdSecs is the remaining-time cutoff for the drama rule.
	dramaThresholdSecs int64
}

// NewEngine builds an engine. Milestones are sorted ascending; config
// order does not affect firing behavior.
func NewEngine(milestones []uint64, dramaThresholdSecs int64) *Engine {
	ms := make([]uint64, len(milestones))
	copy(ms, milestones)
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
	if dramaThresholdSecs <= 0 {
		dramaThresholdSecs = game.EndingThresholdSecs
	}
	return &Engine{milestones: ms, dramaThresholdSecs: dramaThresholdSecs}
}

// Evaluate runs all rules for one poll and returns the merged output
// ordered by priority (ties keep rule evaluation order). The session is
// mutated: fired milestones and the drama flag are recorded immediately so
// a crash between poll and dispatch can only lose a notification, never
// duplicate one.
func (e *Engine) Evaluate(s *SessionState, cur *game.GameSnapshot, now time.Time) []Event {
	if s == nil || cur == nil || s.Paused {
		return nil
	}
	prev := s.LastSnapshot
	s.LastSnapshot = cur

	if cur.Round != s.Round {
		s.resetRound(cur.Round)
	}

	var out []Event
	out = append(out, e.evalMilestones(s, cur)...)
	out = append(out, e.evalDrama(s, cur, now)...)
	out = append(out, evalLifecycle(prev, cur)...)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func (e *Engine) evalMilestones(s *SessionState, cur *game.GameSnapshot) []Event {
	var out []Event
	for _, threshold := range e.milestones {
		if cur.PotLamports < threshold || s.milestoneFired(threshold) {
			continue
		}
		s.markMilestone(threshold)
		out = append(out, Event{
			Type:              TypePotMilestone,
			Priority:          PriorityLow,
			Round:             cur.Round,
			PotLamports:       cur.PotLamports,
			ThresholdLamports: threshold,
		})
	}
	return out
}

func (e *Engine) evalDrama(s *SessionState, cur *game.GameSnapshot, now time.Time) []Event {
	remaining := cur.RemainingSecs(now)
	inWindow := cur.Active && remaining > 0 && remaining <= e.dramaThresholdSecs
	if !inWindow {
		// Timer receded above threshold, or the round is over: re-arm.
		s.dramaActive = false
		return nil
	}
	if s.dramaActive {
		return nil
	}
	s.dramaActive = true
	return []Event{{
		Type:          TypeTimerDrama,
		Priority:      PriorityMedium,
		Round:         cur.Round,
		PotLamports:   cur.PotLamports,
		RemainingSecs: remaining,
		LastBuyer:     cur.LastBuyer,
	}}
}

func evalLifecycle(prev, cur *game.GameSnapshot) []Event {
	if prev == nil {
		return nil
	}
	var out []Event
	if cur.Round > prev.Round {
		out = append(out, Event{
			Type:        TypeRoundStart,
			Priority:    PriorityHigh,
			Round:       cur.Round,
			PotLamports: cur.PotLamports,
		})
	}
	if cur.Round == prev.Round && prev.Active && !cur.Active {
		out = append(out, Event{
			Type:        TypeRoundEnd,
			Priority:    PriorityHigh,
			Round:       cur.Round,
			PotLamports: cur.PotLamports,
			LastBuyer:   cur.LastBuyer,
		})
	}
	return out
}
