package triggers

import "fomolt3d-engine/internal/game"

// SessionState is the mutable dedup state for one poller. It must be
// owned by exactly one polling loop; two pollers sharing an instance will
// double-fire milestones and drama alerts.
type SessionState struct {
	// LastSnapshot is the previous poll's view, used for edge detection.
	LastSnapshot *game.GameSnapshot
	// Round tracks the round the fired/drama state belongs to.
	Round uint64
	// Paused suspends evaluation without losing dedup state.
	Paused bool
	// PostCounts counts dispatched notifications per outbound channel.
	PostCounts map[string]int

	firedMilestones map[uint64]struct{}
	dramaActive     bool
}

// NewSessionState returns an empty session.
func NewSessionState() *SessionState {
	return &SessionState{
		PostCounts:      map[string]int{},
		firedMilestones: map[uint64]struct{}{},
	}
}

// RecordPost bumps the per-channel post counter.
func (s *SessionState) RecordPost(channel string) {
	if s.PostCounts == nil {
		s.PostCounts = map[string]int{}
	}
	s.PostCounts[channel]++
}

func (s *SessionState) milestoneFired(threshold uint64) bool {
	_, ok := s.firedMilestones[threshold]
	return ok
}

func (s *SessionState) markMilestone(threshold uint64) {
	s.firedMilestones[threshold] = struct{}{}
}

// resetRound clears all per-round dedup state after a rollover.
func (s *SessionState) resetRound(round uint64) {
	s.Round = round
	s.firedMilestones = map[uint64]struct{}{}
	s.dramaActive = false
}
