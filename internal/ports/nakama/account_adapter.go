package nakama

import (
	"context"

	"lora/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// AccountAPI is the slice of runtime.NakamaModule the account adapter needs.
type AccountAPI interface {
	AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error
}

// NakamaAccountAdapter implements ports.AccountPort using Nakama's account API.
type NakamaAccountAdapter struct {
	nk AccountAPI
}

// NewNakamaAccountAdapter creates a new account adapter.
func NewNakamaAccountAdapter(nk AccountAPI) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// UpdateProfile updates the account username and display name in Nakama.
func (a *NakamaAccountAdapter) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	return a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", "")
}

var (
	_ ports.AccountPort = (*NakamaAccountAdapter)(nil)
	_ AccountAPI        = (runtime.NakamaModule)(nil)
	_ StorageAPI        = (runtime.NakamaModule)(nil)
)
