package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseOverlaysDefaults(t *testing.T) {
	c, err := Parse([]byte(`{"thinking_delay_ms": 50, "human_turn_timeout_seconds": 30}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.ThinkingDelay() != 50*time.Millisecond {
		t.Fatalf("thinking delay = %v, want 50ms", c.ThinkingDelay())
	}
	if c.HumanTurnTimeout() != 30*time.Second {
		t.Fatalf("timeout = %v, want 30s", c.HumanTurnTimeout())
	}
	if c.TickRate != Default().TickRate {
		t.Fatalf("tick rate = %d, want default %d", c.TickRate, Default().TickRate)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{`},
		{"negative delay", `{"thinking_delay_ms": -1}`},
		{"unknown policy", `{"timeout_policy": "auto_pass"}`},
		{"zero tick rate", `{"tick_rate": 0}`},
		{"zero ticket ttl", `{"ticket_ttl_seconds": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Fatalf("expected error for %s", tt.data)
			}
		})
	}
}

func TestWithEnv(t *testing.T) {
	c := Default().WithEnv(map[string]string{
		EnvThinkingDelayMs:     "0",
		EnvHumanTimeoutSeconds: "15",
		EnvTickRate:            "not-a-number",
	})
	if c.ThinkingDelayMs != 0 {
		t.Fatalf("thinking delay = %d, want 0", c.ThinkingDelayMs)
	}
	if c.HumanTurnTimeoutSeconds != 15 {
		t.Fatalf("timeout = %d, want 15", c.HumanTurnTimeoutSeconds)
	}
	if c.TickRate != Default().TickRate {
		t.Fatalf("tick rate = %d, want default", c.TickRate)
	}
}

func TestTicksRoundsUp(t *testing.T) {
	c := Default()
	c.TickRate = 5
	tests := []struct {
		d    time.Duration
		want int64
	}{
		{0, 0},
		{time.Millisecond, 1},
		{200 * time.Millisecond, 1},
		{600 * time.Millisecond, 3},
		{2 * time.Second, 10},
	}
	for _, tt := range tests {
		if got := c.Ticks(tt.d); got != tt.want {
			t.Fatalf("Ticks(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestLoadGameConfig(t *testing.T) {
	if GetGameConfig() != Default() {
		t.Fatal("expected defaults before load")
	}
	path := filepath.Join(t.TempDir(), "game_config.json")
	if err := os.WriteFile(path, []byte(`{"round_pause_ms": 10}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if GetGameConfig().RoundPause() != 10*time.Millisecond {
		t.Fatalf("round pause = %v, want 10ms", GetGameConfig().RoundPause())
	}
	// Loading is once per process.
	if err := LoadGameConfig("missing.json"); err != nil {
		t.Fatalf("second load returned %v", err)
	}
}
