// Package notify fans trigger events out to chat webhooks. Delivery is
// best effort: bounded retries with backoff, a per-target circuit
// breaker, and drop-on-overflow rather than backpressure into the
// poller.
package notify

import (
	"time"

	"fomolt3d-engine/internal/triggers"
)

// Target is one configured webhook destination.
type Target struct {
	Platform string `json:"platform"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
	// MinPriority drops events below it: "high", "medium" or "low"
	// (empty means low, i.e. everything).
	MinPriority string `json:"min_priority"`
	// EventAllowlist restricts delivery to the named trigger types.
	// Empty allows everything.
	EventAllowlist []string `json:"event_allowlist"`
	Enabled        bool     `json:"enabled"`
}

type Config struct {
	Enabled             bool
	ConfigPath          string
	ConfigReload        time.Duration
	Targets             []Target
	Workers             int
	RetryMax            int
	RetryBase           time.Duration
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	RequestTimeout      time.Duration
	DispatchBuffer      int
}

type pushJob struct {
	Target    Target
	Event     triggers.Event
	Formatted FormattedMessage
	Attempt   int
}

func (j pushJob) key() string {
	return targetKey(j.Target)
}

func targetKey(t Target) string {
	return t.Platform + "|" + t.Endpoint
}

type MessageField struct {
	Name   string
	Value  string
	Inline bool
}

type FormattedMessage struct {
	Title       string
	Content     string
	Description string
	Color       int
	Timestamp   string
	Footer      string
	Fields      []MessageField
}
