package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"lora/internal/domain"
)

type BotIdentity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

var (
	botIdentities []BotIdentity
	botIDMap      map[string]bool
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		ids, err := parseIdentities(data)
		if err != nil {
			loadErr = err
			return
		}
		setIdentities(ids)
	})
	return loadErr
}

func parseIdentities(data []byte) ([]BotIdentity, error) {
	var ids []BotIdentity
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	for i, id := range ids {
		if id.UserID == "" {
			return nil, fmt.Errorf("bot identity %d has no user_id", i)
		}
	}
	return ids, nil
}

func setIdentities(ids []BotIdentity) {
	botIdentities = ids
	botIDMap = make(map[string]bool, len(ids))
	for _, identity := range ids {
		botIDMap[identity.UserID] = true
	}
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether userID is one a bot seat can be given, either from
// the loaded pool or the built-in defaults.
func IsBot(userID string) bool {
	if len(botIDMap) > 0 {
		return botIDMap[userID]
	}
	for i := 0; i < domain.NumSeats; i++ {
		if GetBotIdentity(i).UserID == userID {
			return true
		}
	}
	return false
}

// NewTable seats an agent on every seat except human, drawing identities
// from the pool in seat order. Pass a negative human for an all-bot table.
func NewTable(human domain.Seat) map[domain.Seat]*Agent {
	agents := make(map[domain.Seat]*Agent, domain.NumSeats-1)
	n := 0
	for i := 0; i < domain.NumSeats; i++ {
		seat := domain.Seat(i)
		if seat == human {
			continue
		}
		id := GetBotIdentity(n)
		n++
		agents[seat] = NewAgent(id.UserID, id.DisplayName, seat)
	}
	return agents
}
