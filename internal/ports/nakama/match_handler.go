package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"lora/internal/app"
	"lora/internal/app/onboarding"
	"lora/internal/bot"
	"lora/internal/config"
	"lora/internal/domain"
	"lora/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// HumanSeat is where the ticket holder sits; the other seats are bots.
const HumanSeat domain.Seat = 0

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	MatchID   string
	OwnerID   string      // User holding the seat ticket
	HumanSeat domain.Seat // Seat played by OwnerID
	Tick      int64       // Current tick of the match

	Presence runtime.Presence    // Connected human, nil while away
	App      *app.Service        // Round engine use-cases
	Game     *app.Game           // Seats, bots, ledger and the round in progress
	Tickets  *app.TicketService  // Verifies seat tickets on join
	Config   config.GameConfig   // Pacing and timeouts
	Store    ports.KeyValueStore // OwnerID's ledger store

	NextRoundAt   int64 // Tick when the next round is dealt, 0 when none is scheduled
	BotActAt      int64 // Tick when the acting bot moves
	HumanDeadline int64 // Tick when the human turn times out
}

// StoreFactory returns the ledger store for a user.
type StoreFactory func(nk runtime.NakamaModule, userID string) ports.KeyValueStore

func nakamaStore(nk runtime.NakamaModule, userID string) ports.KeyValueStore {
	return NewNakamaStorageAdapter(nk, userID)
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return newMatchHandler(nakamaStore, nil), nil
}

type matchHandler struct {
	storeFor StoreFactory
	rng      *rand.Rand
}

func newMatchHandler(storeFor StoreFactory, rng *rand.Rand) *matchHandler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &matchHandler{storeFor: storeFor, rng: rng}
}

func runtimeEnv(ctx context.Context) map[string]string {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	return env
}

// gameConfig loads the config file once and applies runtime env overrides.
func gameConfig(ctx context.Context, logger runtime.Logger) config.GameConfig {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig().WithEnv(runtimeEnv(ctx))
	if err := cfg.Validate(); err != nil {
		logger.Warn("Invalid game config overrides, using defaults: %v", err)
		return config.Default()
	}
	return cfg
}

func ticketService(ctx context.Context, cfg config.GameConfig) *app.TicketService {
	return app.NewTicketService(runtimeEnv(ctx)[config.EnvTicketSecret], ticketIssuer, cfg.TicketTTL())
}

// MatchInit is called when the match is created by the new_game RPC.
// Params: "user_id" (required) and "fresh" (reset the ledger first).
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	cfg := gameConfig(ctx, logger)

	ownerID, _ := params["user_id"].(string)
	if ownerID == "" {
		logger.Error("MatchInit: missing user_id param")
		return nil, 0, ""
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	store := mh.storeFor(nk, ownerID)
	ledger := app.NewGameLedger(store)
	if fresh, _ := params["fresh"].(bool); fresh {
		if err := ledger.Reset(ctx); err != nil {
			logger.Error("MatchInit: Failed to reset ledger for %s: %v", ownerID, err)
			return nil, 0, ""
		}
	} else if err := ledger.Load(ctx); err != nil {
		logger.Error("MatchInit: Failed to load ledger for %s: %v", ownerID, err)
		return nil, 0, ""
	} else if n := len(ledger.Healed); n > 0 && n < 5 {
		logger.WithField("keys", ledger.Healed).Warn("MatchInit: Reset malformed ledger keys for %s", ownerID)
	}

	state := &MatchState{
		MatchID:   matchID,
		OwnerID:   ownerID,
		HumanSeat: HumanSeat,
		App:       app.NewService(mh.rng, logger),
		Tickets:   ticketService(ctx, cfg),
		Config:    cfg,
		Store:     store,
	}
	state.Game = newTable(ctx, matchID, ownerID, store, ledger)

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, cfg.TickRate, label
}

func newTable(ctx context.Context, matchID, ownerID string, store ports.KeyValueStore, ledger *app.GameLedger) *app.Game {
	var seats [domain.NumSeats]app.SeatInfo
	seats[HumanSeat] = app.SeatInfo{
		ID:    ownerID,
		Name:  onboarding.PlayerName(ctx, store, "You"),
		Human: true,
	}
	bots := make(map[domain.Seat]app.Bot, domain.NumSeats-1)
	for seat, agent := range bot.NewTable(HumanSeat) {
		seats[seat] = app.SeatInfo{ID: agent.ID, Name: agent.Name}
		bots[seat] = agent
	}
	return app.NewGame(matchID, seats, bots, ledger)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if matchState.Presence != nil {
		return state, false, "Match full"
	}
	if bot.IsBot(presence.GetUserId()) {
		return state, false, "bots cannot join"
	}
	if presence.GetUserId() != matchState.OwnerID {
		return state, false, "seat is reserved"
	}
	if _, err := matchState.Tickets.Verify(metadata["ticket"], presence.GetUserId(), matchState.MatchID); err != nil {
		logger.Warn("MatchJoinAttempt: rejected %s: %v", presence.GetUserId(), err)
		return state, false, "invalid seat ticket"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() != matchState.OwnerID {
			logger.Warn("MatchJoin: User %s joined but the seat belongs to %s.", p.GetUserId(), matchState.OwnerID)
			continue
		}
		matchState.Presence = p
	}
	if matchState.Presence == nil {
		return matchState
	}

	if !matchState.Game.Active() && !matchState.Game.Ledger.Complete && matchState.NextRoundAt == 0 {
		matchState.NextRoundAt = tick + 1
	}
	mh.sendSnapshot(matchState, dispatcher, logger)
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
// The ledger is saved at every round transition, so the table can close.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.Presence != nil && p.GetSessionId() == matchState.Presence.GetSessionId() {
			matchState.Presence = nil
		}
	}
	if matchState.Presence == nil {
		logger.Info("MatchLeave: Terminating match %s with no human.", matchState.MatchID)
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.OwnerID {
			continue
		}
		switch msg.GetOpCode() {
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger)
		case OpRequestNewGame:
			mh.handleNewGame(ctx, matchState, dispatcher, logger)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.advance(ctx, matchState, dispatcher, logger)
	return matchState
}

// advance deals scheduled rounds, paces bot turns and enforces the human turn timer.
func (mh *matchHandler) advance(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	game := state.Game
	if !game.Active() {
		if game.Ledger.Complete || state.NextRoundAt == 0 || state.Tick < state.NextRoundAt {
			return
		}
		state.NextRoundAt = 0
		events, err := state.App.StartRound(ctx, game)
		mh.dispatchEvents(state, dispatcher, logger, events)
		if err != nil {
			logger.Error("advance: Failed to start round: %v", err)
		}
		return
	}

	seat := game.Round.ToAct()
	if !game.Seats[seat].Human {
		if state.BotActAt == 0 {
			state.BotActAt = state.Tick + max(1, state.Config.Ticks(state.Config.ThinkingDelay()))
			logger.Debug("advance: Bot at seat %s will act at tick %d (current %d)", seat, state.BotActAt, state.Tick)
		}
		if state.Tick < state.BotActAt {
			return
		}
		state.BotActAt = 0
		events, err := state.App.PlayBotTurn(ctx, game)
		mh.dispatchEvents(state, dispatcher, logger, events)
		if err != nil {
			logger.Warn("advance: Bot turn at seat %s failed: %v", seat, err)
		}
		return
	}

	timeout := state.Config.HumanTurnTimeout()
	if timeout <= 0 {
		return
	}
	if state.HumanDeadline == 0 {
		state.HumanDeadline = state.Tick + state.Config.Ticks(timeout)
	}
	if state.Tick < state.HumanDeadline {
		return
	}
	state.HumanDeadline = 0
	mh.notify(state, dispatcher, logger, "Time is up, playing your lowest card")
	events, err := state.App.AutoPlay(ctx, game, seat)
	mh.dispatchEvents(state, dispatcher, logger, events)
	if err != nil {
		logger.Warn("advance: Auto-play for seat %s failed: %v", seat, err)
	}
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	request, err := decodePayload(msg.GetData())
	if err != nil {
		logger.Warn("handlePlayCard: Invalid payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, 400, "invalid payload")
		return
	}
	card, err := cardFromWire(request.GetFields()["card"])
	if err != nil {
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}

	events, err := state.App.PlayCard(ctx, state.Game, state.HumanSeat, card)
	if err != nil {
		mh.rejectMove(state, dispatcher, logger, card.String(), err)
		return
	}
	state.HumanDeadline = 0
	mh.dispatchEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	events, err := state.App.Pass(ctx, state.Game, state.HumanSeat)
	if err != nil {
		mh.rejectMove(state, dispatcher, logger, "pass", err)
		return
	}
	state.HumanDeadline = 0
	mh.dispatchEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handleNewGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	events, err := state.App.NewGame(ctx, state.Game)
	if err != nil {
		logger.Warn("handleNewGame: %v", err)
		mh.sendError(state, dispatcher, logger, 409, err.Error())
		return
	}
	state.NextRoundAt = state.Tick + 1
	mh.dispatchEvents(state, dispatcher, logger, events)
}

// rejectMove reports a refused human move. The wait stays open. A move sent
// while no human wait is open is a no-op.
func (mh *matchHandler) rejectMove(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, what string, err error) {
	switch {
	case errors.Is(err, domain.ErrIllegalMove), errors.Is(err, domain.ErrPassNotAllowed):
		mh.notify(state, dispatcher, logger, fmt.Sprintf("%s cannot be played now", what))
	case errors.Is(err, domain.ErrNotYourTurn):
		logger.Debug("Ignoring %s by %s out of turn", what, state.OwnerID)
	case errors.Is(err, app.ErrNotPlaying):
		mh.sendError(state, dispatcher, logger, 409, err.Error())
	default:
		logger.Error("Move %s by %s failed: %v", what, state.OwnerID, err)
		mh.sendError(state, dispatcher, logger, 500, err.Error())
	}
}

// dispatchEvents sends app events to the client and keeps the match timers in step.
func (mh *matchHandler) dispatchEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case app.EventTurn:
			state.BotActAt, state.HumanDeadline = 0, 0
		case app.EventRoundEnded:
			state.BotActAt, state.HumanDeadline = 0, 0
			if !state.Game.Ledger.Complete {
				state.NextRoundAt = state.Tick + max(1, state.Config.Ticks(state.Config.RoundPause()))
			}
		}
		mh.sendEvent(state, dispatcher, logger, ev)
	}
	if len(events) > 0 {
		mh.updateLabel(state, dispatcher, logger)
	}
}

// sendEvent handles the conversion and dispatching of one app event.
func (mh *matchHandler) sendEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	if state.Presence == nil {
		return
	}
	// Private events for bot seats are never broadcast.
	if len(ev.Recipients) > 0 {
		private := false
		for _, seat := range ev.Recipients {
			private = private || seat == state.HumanSeat
		}
		if !private {
			return
		}
	}

	opCode, payload, err := eventToWire(ev)
	if err != nil {
		logger.Warn("sendEvent: %v", err)
		return
	}
	mh.send(state, dispatcher, logger, opCode, payload)
}

func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload map[string]interface{}) {
	if state.Presence == nil {
		return
	}
	data, err := encodePayload(payload)
	if err != nil {
		logger.Error("Failed to marshal op %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send op %d: %v", opCode, err)
	}
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.send(state, dispatcher, logger, OpStateSnapshot, snapshotToWire(state))
}

func (mh *matchHandler) notify(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, message string) {
	mh.send(state, dispatcher, logger, OpNotification, map[string]interface{}{
		"message":     message,
		"duration_ms": state.Config.NotificationMs,
	})
}

// sendError sends a game error to the human.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.send(state, dispatcher, logger, OpGameError, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

func matchPhase(state *MatchState) string {
	switch {
	case state.Game.Ledger.Complete:
		return "complete"
	case state.Game.Active():
		return "playing"
	default:
		return "between_rounds"
	}
}

func matchLabel(state *MatchState) (string, error) {
	cycle, round := state.Game.Position()
	if !state.Game.Active() {
		cycle, round = state.Game.Ledger.CycleIndex, state.Game.Ledger.RoundIndex
	}
	open := 0
	if state.Presence == nil {
		open = 1
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":  "lora",
		"owner": state.OwnerID,
		"phase": matchPhase(state),
		"cycle": cycle + 1,
		"round": round + 1,
		"open":  open,
	})
	if err != nil {
		return "", err
	}
	data, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
