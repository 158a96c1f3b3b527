package nakama

import (
	"context"
	"database/sql"

	"lora/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the match handler for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameLora, NewMatch); err != nil {
		return err
	}

	if env := runtimeEnv(ctx); env[config.EnvTicketSecret] == "" {
		logger.Warn("No ticket secret configured, new_game will fail until it is set.")
	}

	logger.Info("Lora Go module loaded.")
	return nil
}
