package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// TimeoutPolicyLowestLegal plays the lowest legal card for a human seat whose
// turn timer expired. It is the only supported policy.
const TimeoutPolicyLowestLegal = "lowest_legal"

type GameConfig struct {
	// ThinkingDelayMs paces each AI turn.
	ThinkingDelayMs int `json:"thinking_delay_ms"`
	// NotificationMs is how long presenter notifications stay visible.
	NotificationMs int `json:"notification_ms"`
	// HumanTurnTimeoutSeconds bounds a human turn. 0 waits forever.
	HumanTurnTimeoutSeconds int    `json:"human_turn_timeout_seconds"`
	TimeoutPolicy           string `json:"timeout_policy"`
	// TickRate is the Nakama match loop frequency in ticks per second.
	TickRate     int `json:"tick_rate"`
	RoundPauseMs int `json:"round_pause_ms"`
	// TicketTTLSeconds is the lifetime of a seat ticket issued by the new_game RPC.
	TicketTTLSeconds int `json:"ticket_ttl_seconds"`
}

// Default returns the built-in configuration.
func Default() GameConfig {
	return GameConfig{
		ThinkingDelayMs:         600,
		NotificationMs:          1500,
		HumanTurnTimeoutSeconds: 0,
		TimeoutPolicy:           TimeoutPolicyLowestLegal,
		TickRate:                5,
		RoundPauseMs:            2000,
		TicketTTLSeconds:        300,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// Parse decodes a JSON config on top of the defaults and validates it.
func Parse(data []byte) (GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

// GetGameConfig returns the global game configuration, or the defaults when
// nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// Validate rejects values the game cannot run with.
func (c GameConfig) Validate() error {
	switch {
	case c.ThinkingDelayMs < 0:
		return fmt.Errorf("thinking_delay_ms must be >= 0, got %d", c.ThinkingDelayMs)
	case c.NotificationMs < 0:
		return fmt.Errorf("notification_ms must be >= 0, got %d", c.NotificationMs)
	case c.HumanTurnTimeoutSeconds < 0:
		return fmt.Errorf("human_turn_timeout_seconds must be >= 0, got %d", c.HumanTurnTimeoutSeconds)
	case c.TimeoutPolicy != TimeoutPolicyLowestLegal:
		return fmt.Errorf("unsupported timeout_policy %q", c.TimeoutPolicy)
	case c.TickRate < 1 || c.TickRate > 60:
		return fmt.Errorf("tick_rate must be within 1..60, got %d", c.TickRate)
	case c.RoundPauseMs < 0:
		return fmt.Errorf("round_pause_ms must be >= 0, got %d", c.RoundPauseMs)
	case c.TicketTTLSeconds <= 0:
		return fmt.Errorf("ticket_ttl_seconds must be > 0, got %d", c.TicketTTLSeconds)
	}
	return nil
}

// Env keys recognised by WithEnv.
const (
	EnvThinkingDelayMs     = "lora_thinking_delay_ms"
	EnvNotificationMs      = "lora_notification_ms"
	EnvHumanTimeoutSeconds = "lora_human_turn_timeout_seconds"
	EnvTickRate            = "lora_tick_rate"
	EnvRoundPauseMs        = "lora_round_pause_ms"
	EnvTicketTTLSeconds    = "lora_ticket_ttl_seconds"
	EnvTicketSecret        = "lora_ticket_secret"
)

// WithEnv returns a copy of c with integer overrides from env applied.
// Unparseable values are ignored.
func (c GameConfig) WithEnv(env map[string]string) GameConfig {
	override := func(key string, dst *int) {
		if val, ok := env[key]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				*dst = i
			}
		}
	}
	override(EnvThinkingDelayMs, &c.ThinkingDelayMs)
	override(EnvNotificationMs, &c.NotificationMs)
	override(EnvHumanTimeoutSeconds, &c.HumanTurnTimeoutSeconds)
	override(EnvTickRate, &c.TickRate)
	override(EnvRoundPauseMs, &c.RoundPauseMs)
	override(EnvTicketTTLSeconds, &c.TicketTTLSeconds)
	return c
}

func (c GameConfig) ThinkingDelay() time.Duration {
	return time.Duration(c.ThinkingDelayMs) * time.Millisecond
}

func (c GameConfig) NotificationDuration() time.Duration {
	return time.Duration(c.NotificationMs) * time.Millisecond
}

func (c GameConfig) HumanTurnTimeout() time.Duration {
	return time.Duration(c.HumanTurnTimeoutSeconds) * time.Second
}

func (c GameConfig) RoundPause() time.Duration {
	return time.Duration(c.RoundPauseMs) * time.Millisecond
}

func (c GameConfig) TicketTTL() time.Duration {
	return time.Duration(c.TicketTTLSeconds) * time.Second
}

// Ticks converts d into match loop ticks, rounding up so a non-zero delay
// always waits at least one tick.
func (c GameConfig) Ticks(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	per := time.Second / time.Duration(c.TickRate)
	return int64((d + per - 1) / per)
}
