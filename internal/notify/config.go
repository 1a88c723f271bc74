package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"fomolt3d-engine/internal/config"
	"fomolt3d-engine/internal/notify/platforms"
)

// ConfigFromEnv builds the dispatcher config from the loaded env config.
// Targets come from the JSON file at config path, or inline JSON.
func ConfigFromEnv(cfg config.NotifyConfig) (Config, error) {
	out := Config{
		Enabled:             cfg.Enabled,
		ConfigPath:          strings.TrimSpace(cfg.TargetsPath),
		ConfigReload:        time.Duration(cfg.TargetsReloadMS) * time.Millisecond,
		Workers:             cfg.Workers,
		RetryMax:            cfg.RetryMax,
		RetryBase:           time.Duration(cfg.RetryBaseMS) * time.Millisecond,
		FailureThreshold:    cfg.FailureThreshold,
		CircuitOpenDuration: time.Duration(cfg.CircuitOpenSecs) * time.Second,
		RequestTimeout:      time.Duration(cfg.RequestTimeoutMS) * time.Millisecond,
		DispatchBuffer:      cfg.DispatchBuffer,
	}
	if !out.Enabled {
		return out, nil
	}
	if out.ConfigReload <= 0 {
		out.ConfigReload = time.Second
	}

	jsonRaw, err := loadTargetsJSON(cfg)
	if err != nil {
		return Config{}, err
	}
	if jsonRaw == "" {
		return out, nil
	}
	targets, err := ParseTargetsJSON(jsonRaw)
	if err != nil {
		return Config{}, err
	}
	out.Targets = targets
	return out, nil
}

func loadTargetsJSON(cfg config.NotifyConfig) (string, error) {
	path := strings.TrimSpace(cfg.TargetsPath)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read notify targets path %q: %w", path, err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return strings.TrimSpace(cfg.TargetsJSON), nil
}

// ParseTargetsJSON decodes and filters a target list. Disabled entries,
// blank endpoints and unknown priorities are dropped rather than erroring
// so one bad entry cannot take notifications down.
func ParseTargetsJSON(jsonRaw string) ([]Target, error) {
	var targets []Target
	if err := json.Unmarshal([]byte(jsonRaw), &targets); err != nil {
		return nil, fmt.Errorf("parse notify targets: %w", err)
	}
	filtered := make([]Target, 0, len(targets))
	for _, target := range targets {
		target.Platform = strings.ToLower(strings.TrimSpace(target.Platform))
		target.Endpoint = strings.TrimSpace(target.Endpoint)
		target.MinPriority = strings.ToLower(strings.TrimSpace(target.MinPriority))
		if target.Endpoint == "" {
			continue
		}
		if !target.Enabled {
			continue
		}
		switch target.MinPriority {
		case "", "low", "medium", "high":
		default:
			continue
		}
		for i := range target.EventAllowlist {
			target.EventAllowlist[i] = strings.TrimSpace(strings.ToLower(target.EventAllowlist[i]))
		}
		filtered = append(filtered, target)
	}
	return filtered, nil
}

func toPlatformMessage(msg FormattedMessage) platforms.Message {
	fields := make([]platforms.Field, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, platforms.Field{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return platforms.Message{
		Title:       msg.Title,
		Content:     msg.Content,
		Description: msg.Description,
		Color:       msg.Color,
		Timestamp:   msg.Timestamp,
		Footer:      msg.Footer,
		Fields:      fields,
	}
}
