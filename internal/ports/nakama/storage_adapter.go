package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"lora/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// StorageAPI is the slice of runtime.NakamaModule the storage adapter needs.
type StorageAPI interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error
}

// storedValue wraps a raw string because Nakama storage values must be JSON objects.
type storedValue struct {
	Value string `json:"value"`
}

// NakamaStorageAdapter implements ports.KeyValueStore on one user's storage
// objects in StorageCollection.
type NakamaStorageAdapter struct {
	nk     StorageAPI
	userID string
}

// NewNakamaStorageAdapter creates a store scoped to userID.
func NewNakamaStorageAdapter(nk StorageAPI, userID string) *NakamaStorageAdapter {
	return &NakamaStorageAdapter{nk: nk, userID: userID}
}

func (a *NakamaStorageAdapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: StorageCollection,
		Key:        key,
		UserID:     a.userID,
	}})
	if err != nil {
		return "", false, fmt.Errorf("storage read %s: %w", key, err)
	}
	if len(objects) == 0 {
		return "", false, nil
	}
	var v storedValue
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &v); err != nil {
		// Surface the raw object so the ledger can heal it.
		return objects[0].GetValue(), true, nil
	}
	return v.Value, true, nil
}

func (a *NakamaStorageAdapter) SetItem(ctx context.Context, key, value string) error {
	data, err := json.Marshal(storedValue{Value: value})
	if err != nil {
		return err
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      StorageCollection,
		Key:             key,
		UserID:          a.userID,
		Value:           string(data),
		PermissionRead:  1,
		PermissionWrite: 0,
	}})
	if err != nil {
		return fmt.Errorf("storage write %s: %w", key, err)
	}
	return nil
}

func (a *NakamaStorageAdapter) RemoveItem(ctx context.Context, key string) error {
	err := a.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: StorageCollection,
		Key:        key,
		UserID:     a.userID,
	}})
	if err != nil {
		return fmt.Errorf("storage delete %s: %w", key, err)
	}
	return nil
}

var _ ports.KeyValueStore = (*NakamaStorageAdapter)(nil)
