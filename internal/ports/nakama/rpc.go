package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NewGameRequest is the optional new_game payload.
type NewGameRequest struct {
	// Fresh discards the stored ledger instead of resuming it.
	Fresh bool `json:"fresh"`
}

// NewGameResponse is the payload returned to clients opening a table.
type NewGameResponse struct {
	MatchID string `json:"match_id"`
	Ticket  string `json:"ticket"`
}

// MatchCreator is the slice of runtime.NakamaModule the new_game RPC needs.
type MatchCreator interface {
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcNewGame, rpcNewGame)
}

func rpcNewGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return newGame(ctx, logger, nk, payload)
}

// newGame creates a private table for the calling user and issues the seat
// ticket MatchJoinAttempt expects.
func newGame(ctx context.Context, logger runtime.Logger, nk MatchCreator, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	var req NewGameRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3)
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameLora, map[string]interface{}{
		"user_id": userID,
		"fresh":   req.Fresh,
	})
	if err != nil {
		logger.Error("RpcNewGame [User:%s]: Failed to create match: %v", userID, err)
		return "", runtime.NewError("could not create match", 13)
	}

	tickets := ticketService(ctx, gameConfig(ctx, logger))
	ticket, err := tickets.Issue(userID, matchID)
	if err != nil {
		logger.Error("RpcNewGame [User:%s]: Failed to issue ticket: %v", userID, err)
		return "", runtime.NewError("could not issue seat ticket", 13)
	}

	logger.Info("RpcNewGame [User:%s]: Created match %s", userID, matchID)
	b, err := json.Marshal(NewGameResponse{MatchID: matchID, Ticket: ticket})
	if err != nil {
		return "", runtime.NewError("could not encode response", 13)
	}
	return string(b), nil
}
