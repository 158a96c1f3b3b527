package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"lora/internal/ports"
)

// KeyPlayerName is where the chosen display name is persisted in the player's store.
const KeyPlayerName = "lora.playerName"

// Result captures non-fatal onboarding outcomes.
type Result struct {
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service.
// accounts must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		rng:      rng,
	}
}

// OnboardNewUser gives a newly created account a friendly display name and
// stores it in the player's store.
// Returns a Result with any non-fatal issues and an error if the name cannot be persisted.
func (s *Service) OnboardNewUser(ctx context.Context, userID string, store ports.KeyValueStore) (Result, error) {
	if s.accounts == nil || store == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	displayName := s.generateFriendlyName()
	result := Result{DisplayName: displayName}
	if err := s.accounts.UpdateProfile(ctx, userID, displayName, displayName); err != nil {
		// The stored name still drives the in-game seat label.
		result.ProfileUpdateErr = err
	}

	if err := store.SetItem(ctx, KeyPlayerName, displayName); err != nil {
		return result, fmt.Errorf("failed to store player name: %w", err)
	}
	return result, nil
}

// PlayerName reads the stored display name, falling back when none is set.
func PlayerName(ctx context.Context, store ports.KeyValueStore, fallback string) string {
	name, ok, err := store.GetItem(ctx, KeyPlayerName)
	if err != nil || !ok || name == "" {
		return fallback
	}
	return name
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
