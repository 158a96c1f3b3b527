package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"lora/internal/domain"
	"lora/internal/ports"
)

// Store keys owned by the ledger.
const (
	KeyRoundIndex   = "lora.roundIndex"
	KeyCycleIndex   = "lora.cycleIndex"
	KeyCycleScores  = "lora.cycleScores"
	KeyGrandTotals  = "lora.grandTotals"
	KeyGameComplete = "lora.gameComplete"
)

var ledgerKeys = []string{KeyRoundIndex, KeyCycleIndex, KeyCycleScores, KeyGrandTotals, KeyGameComplete}

// GameLedger is the persisted cross-round state: where the game is in the
// round sequence and what everybody has scored so far.
type GameLedger struct {
	store ports.KeyValueStore

	RoundIndex  int
	CycleIndex  int
	CycleScores [NumCycles][domain.NumSeats]int
	GrandTotals [domain.NumSeats]int
	Complete    bool

	// Healed lists the keys that were absent or malformed on the last Load and
	// were replaced with defaults.
	Healed []string
}

// NewGameLedger returns a zeroed ledger bound to store.
func NewGameLedger(store ports.KeyValueStore) *GameLedger {
	return &GameLedger{store: store}
}

// CurrentKind is the round the sequencer will deal next.
func (l *GameLedger) CurrentKind() domain.RoundKind {
	return domain.RoundSequence[l.RoundIndex]
}

// StartingSeat is the fixed leader for every round of the current cycle.
func (l *GameLedger) StartingSeat() domain.Seat {
	if l.CycleIndex >= NumCycles {
		return CycleStartingSeats[0]
	}
	return CycleStartingSeats[l.CycleIndex]
}

// AddRound folds a finished round's score vector into the current cycle and
// advances the sequence. It fails once the game is complete.
func (l *GameLedger) AddRound(scores [domain.NumSeats]int) error {
	if l.Complete {
		return ErrGameComplete
	}
	for seat, s := range scores {
		l.CycleScores[l.CycleIndex][seat] += s
		l.GrandTotals[seat] += s
	}
	l.RoundIndex++
	if l.RoundIndex == len(domain.RoundSequence) {
		l.RoundIndex = 0
		l.CycleIndex++
	}
	if l.CycleIndex >= NumCycles {
		l.Complete = true
	}
	return nil
}

// Winners returns every seat sharing the lowest grand total.
func (l *GameLedger) Winners() []domain.Seat {
	best := l.GrandTotals[0]
	for _, t := range l.GrandTotals[1:] {
		if t < best {
			best = t
		}
	}
	var out []domain.Seat
	for seat, t := range l.GrandTotals {
		if t == best {
			out = append(out, domain.Seat(seat))
		}
	}
	return out
}

// Load replaces the in-memory ledger with the stored one. Absent or malformed
// values fall back to zeroed defaults; only store failures are errors.
func (l *GameLedger) Load(ctx context.Context) error {
	raw := make(map[string]string, len(ledgerKeys))
	for _, key := range ledgerKeys {
		v, ok, err := l.store.GetItem(ctx, key)
		if err != nil {
			return fmt.Errorf("load %s: %w", key, err)
		}
		if ok {
			raw[key] = v
		}
	}

	*l = GameLedger{store: l.store}
	heal := func(key string) { l.Healed = append(l.Healed, key) }

	if n, ok := parseIndex(raw[KeyRoundIndex], len(domain.RoundSequence)-1); ok {
		l.RoundIndex = n
	} else {
		heal(KeyRoundIndex)
	}
	if n, ok := parseIndex(raw[KeyCycleIndex], NumCycles); ok {
		l.CycleIndex = n
	} else {
		heal(KeyCycleIndex)
	}

	if scores, ok := parseCycleScores(raw[KeyCycleScores]); ok {
		l.CycleScores = scores
	} else {
		heal(KeyCycleScores)
	}
	l.GrandTotals = l.columnSums()
	if totals, ok := parseVector(raw[KeyGrandTotals]); !ok || totals != l.GrandTotals {
		heal(KeyGrandTotals)
	}

	var complete bool
	if err := json.Unmarshal([]byte(raw[KeyGameComplete]), &complete); err != nil {
		heal(KeyGameComplete)
	}
	l.Complete = complete || l.CycleIndex >= NumCycles
	if l.CycleIndex >= NumCycles {
		l.RoundIndex = 0
	}
	return nil
}

// Save writes every ledger key.
func (l *GameLedger) Save(ctx context.Context) error {
	values := map[string]any{
		KeyRoundIndex:   l.RoundIndex,
		KeyCycleIndex:   l.CycleIndex,
		KeyCycleScores:  l.CycleScores,
		KeyGrandTotals:  l.GrandTotals,
		KeyGameComplete: l.Complete,
	}
	for _, key := range ledgerKeys {
		data, err := json.Marshal(values[key])
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if err := l.store.SetItem(ctx, key, string(data)); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Reset removes every ledger key and zeroes the ledger for a new game.
func (l *GameLedger) Reset(ctx context.Context) error {
	for _, key := range ledgerKeys {
		if err := l.store.RemoveItem(ctx, key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	*l = GameLedger{store: l.store}
	return nil
}

func (l *GameLedger) columnSums() [domain.NumSeats]int {
	var out [domain.NumSeats]int
	for _, cycle := range l.CycleScores {
		for seat, s := range cycle {
			out[seat] += s
		}
	}
	return out
}

func parseIndex(raw string, max int) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > max {
		return 0, false
	}
	return n, true
}

func parseVector(raw string) ([domain.NumSeats]int, bool) {
	var out [domain.NumSeats]int
	var v []int
	if err := json.Unmarshal([]byte(raw), &v); err != nil || len(v) != domain.NumSeats {
		return out, false
	}
	copy(out[:], v)
	return out, true
}

func parseCycleScores(raw string) ([NumCycles][domain.NumSeats]int, bool) {
	var out [NumCycles][domain.NumSeats]int
	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rows); err != nil || len(rows) != NumCycles {
		return out, false
	}
	for i, row := range rows {
		v, ok := parseVector(string(row))
		if !ok {
			return [NumCycles][domain.NumSeats]int{}, false
		}
		out[i] = v
	}
	return out, true
}
