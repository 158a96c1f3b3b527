package app

import "lora/internal/domain"

// EventKind identifies emitted game events for presenter and Nakama dispatch.
type EventKind string

const (
	EventRoundStarted   EventKind = "round_started"
	EventHandDealt      EventKind = "hand_dealt"
	EventTurn           EventKind = "turn"
	EventCardPlayed     EventKind = "card_played"
	EventTurnPassed     EventKind = "turn_passed"
	EventTrickWon       EventKind = "trick_won"
	EventPlayerFinished EventKind = "player_finished"
	EventRoundEnded     EventKind = "round_ended"
	EventGameEnded      EventKind = "game_ended"
	EventGameReset      EventKind = "game_reset"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []domain.Seat // empty means broadcast
}

type RoundStartedPayload struct {
	Kind         domain.RoundKind
	Cycle        int
	Round        int
	StartingSeat domain.Seat
}

type HandDealtPayload struct {
	Seat domain.Seat
	Hand []domain.Card
}

type TurnPayload struct {
	Seat  domain.Seat
	Human bool
	Legal []domain.Card
}

type CardPlayedPayload struct {
	Seat domain.Seat
	Card domain.Card
	// NextSeat is -1 when the play ended the round.
	NextSeat domain.Seat
}

type TurnPassedPayload struct {
	Seat     domain.Seat
	NextSeat domain.Seat
	Auto     bool
}

type TrickWonPayload struct {
	Winner domain.Seat
	Trick  domain.Trick
	Points int
}

type PlayerFinishedPayload struct {
	Seat  domain.Seat
	Place int
	Score int
}

type RoundEndedPayload struct {
	Kind        domain.RoundKind
	Scores      [domain.NumSeats]int
	GrandTotals [domain.NumSeats]int
	Deadlock    bool
	// Aborted carries the failure that forced the round over, if any.
	Aborted string
}

type GameEndedPayload struct {
	GrandTotals [domain.NumSeats]int
	Winners     []domain.Seat
}
