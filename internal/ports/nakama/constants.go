package nakama

const (
	// RpcNewGame is the Nakama RPC id clients call to open a table and receive a seat ticket.
	RpcNewGame = "new_game"

	// MatchNameLora is the authoritative match handler name registered with Nakama.
	MatchNameLora = "lora_match"

	// StorageCollection holds every per-player ledger key.
	StorageCollection = "lora"

	ticketIssuer = "lora"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpPlayCard       int64 = 1
	OpPassTurn       int64 = 2
	OpRequestNewGame int64 = 3

	// Server -> Client events
	OpStateSnapshot  int64 = 100 // send privately
	OpRoundStarted   int64 = 101
	OpHandDealt      int64 = 102 // send privately
	OpTurn           int64 = 103
	OpCardPlayed     int64 = 104
	OpTurnPassed     int64 = 105
	OpTrickWon       int64 = 106
	OpPlayerFinished int64 = 107
	OpRoundEnded     int64 = 108
	OpGameEnded      int64 = 109
	OpGameReset      int64 = 110
	OpNotification   int64 = 111
	OpGameError      int64 = 112
)
