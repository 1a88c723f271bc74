package notify

import (
	"strings"

	"fomolt3d-engine/internal/triggers"
)

type Router struct{}

func (r Router) MatchTargets(targets []Target, ev triggers.Event) []Target {
	if len(targets) == 0 {
		return nil
	}
	out := make([]Target, 0, len(targets))
	for _, target := range targets {
		if !target.Enabled {
			continue
		}
		if !priorityAllowed(target.MinPriority, ev.Priority) {
			continue
		}
		if !eventAllowed(target.EventAllowlist, ev.Type) {
			continue
		}
		out = append(out, target)
	}
	return out
}

func priorityAllowed(min string, p triggers.Priority) bool {
	switch strings.ToLower(strings.TrimSpace(min)) {
	case "high":
		return p <= triggers.PriorityHigh
	case "medium":
		return p <= triggers.PriorityMedium
	case "", "low":
		return true
	default:
		return false
	}
}

func eventAllowed(allowlist []string, evType string) bool {
	if len(allowlist) == 0 {
		return true
	}
	evType = strings.ToLower(strings.TrimSpace(evType))
	for _, v := range allowlist {
		if v == "" {
			continue
		}
		if strings.ToLower(strings.TrimSpace(v)) == evType {
			return true
		}
	}
	return false
}
