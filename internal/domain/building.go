package domain

// FinishScores are awarded in arrival order to the first three seats that
// empty their hand in the building round. The fourth seat scores 0.
var FinishScores = [3]int{-5, -3, -1}

// Span is the contiguous run of ranks played in one suit.
type Span struct {
	Low  Rank `json:"low"`
	High Rank `json:"high"`
}

// Board tracks the opened suits of the building round.
type Board struct {
	spans  [4]Span
	opened [4]bool
}

// Span returns the run for suit s, if the suit has been opened.
func (b *Board) Span(s Suit) (Span, bool) {
	return b.spans[s], b.opened[s]
}

// Spans returns every opened suit's run.
func (b *Board) Spans() map[Suit]Span {
	out := make(map[Suit]Span, len(Suits))
	for _, s := range Suits {
		if b.opened[s] {
			out[s] = b.spans[s]
		}
	}
	return out
}

// CanPlace reports whether card opens or extends its suit.
func (b *Board) CanPlace(c Card) bool {
	span, ok := b.Span(c.Suit)
	if !ok {
		return c.Rank == Jack
	}
	return (span.Low > Seven && c.Rank == span.Low-1) || (span.High < Ace && c.Rank == span.High+1)
}

// Place opens a suit with its Jack or extends it outward by one rank.
func (b *Board) Place(c Card) error {
	span, ok := b.Span(c.Suit)
	switch {
	case !ok && c.Rank == Jack:
		b.spans[c.Suit] = Span{Low: Jack, High: Jack}
		b.opened[c.Suit] = true
	case !ok:
		return ErrSuitNotOpened
	case span.Low > Seven && c.Rank == span.Low-1:
		b.spans[c.Suit].Low = c.Rank
	case span.High < Ace && c.Rank == span.High+1:
		b.spans[c.Suit].High = c.Rank
	default:
		return ErrNotAdjacentRank
	}
	return nil
}

// LegalCards returns the cards in hand the board accepts.
func (b *Board) LegalCards(hand []Card) []Card {
	return Filter(hand, b.CanPlace)
}

// BuildingRound is the non-trick round where suits grow outward from their
// Jack. The J♠ holder opens; turns then run round-robin, skipping seats that
// have already finished.
type BuildingRound struct {
	session     *Session
	board       Board
	toAct       Seat
	opened      bool
	finished    [NumSeats]bool
	finishOrder []Seat
	passes      int
	deadlock    bool
}

// NewBuildingRound starts the building round. The starting seat is kept for
// bookkeeping only; the J♠ holder always acts first.
func NewBuildingRound(hands [NumSeats][]Card, starting Seat) (*BuildingRound, error) {
	opener := Seat(-1)
	for i, h := range hands {
		if ContainsCard(h, JackOfSpades) {
			opener = Seat(i)
			break
		}
	}
	if opener < 0 {
		return nil, ErrNoJackOfSpades
	}
	return &BuildingRound{
		session: &Session{
			Kind:         RoundSolitaire,
			StartingSeat: starting,
			Leader:       opener,
			Hands:        hands,
		},
		toAct: opener,
	}, nil
}

func (r *BuildingRound) Kind() RoundKind   { return RoundSolitaire }
func (r *BuildingRound) Session() *Session { return r.session }
func (r *BuildingRound) Over() bool        { return r.session.Over }
func (r *BuildingRound) ToAct() Seat       { return r.toAct }

// Board returns a copy of the current board.
func (r *BuildingRound) Board() Board { return r.board }

// FinishOrder returns the seats that emptied their hand, in arrival order.
func (r *BuildingRound) FinishOrder() []Seat {
	return append([]Seat(nil), r.finishOrder...)
}

// Deadlocked reports whether the round ended because every remaining seat passed.
func (r *BuildingRound) Deadlocked() bool { return r.deadlock }

// Opened reports whether J♠ has been played.
func (r *BuildingRound) Opened() bool { return r.opened }

func (r *BuildingRound) LegalMoves(seat Seat) []Card {
	if r.session.Over || seat != r.toAct || r.finished[seat] {
		return nil
	}
	hand := r.session.Hands[seat]
	if !r.opened {
		if ContainsCard(hand, JackOfSpades) {
			return []Card{JackOfSpades}
		}
		return nil
	}
	return r.board.LegalCards(hand)
}

func (r *BuildingRound) Apply(seat Seat, m Move) (Outcome, error) {
	if r.session.Over {
		return Outcome{}, ErrRoundOver
	}
	if seat != r.toAct {
		return Outcome{}, ErrNotYourTurn
	}
	legal := r.LegalMoves(seat)

	if m.Pass {
		if len(legal) > 0 {
			return Outcome{}, ErrPassNotAllowed
		}
		out := Outcome{Seat: seat, Passed: true}
		r.passes++
		if r.passes >= r.activeSeats() {
			r.deadlock = true
			r.session.Over = true
			out.RoundOver = true
			out.Deadlock = true
			return out, nil
		}
		r.advance()
		return out, nil
	}

	if !ContainsCard(legal, m.Card) {
		return Outcome{}, ErrIllegalMove
	}
	updated, err := RemoveCard(r.session.Hands[seat], m.Card)
	if err != nil {
		r.Abort(err)
		return Outcome{}, err
	}
	if err := r.board.Place(m.Card); err != nil {
		r.Abort(&DefectError{Op: "place card", Detail: err.Error()})
		return Outcome{}, r.session.Err
	}
	r.session.Hands[seat] = updated
	r.opened = true
	r.passes = 0

	out := Outcome{Seat: seat, Card: m.Card}
	if len(updated) == 0 {
		r.finished[seat] = true
		r.finishOrder = append(r.finishOrder, seat)
		place := len(r.finishOrder)
		r.session.Scores[seat] += FinishScores[place-1]
		out.Finished = true
		out.Place = place
		if place == len(FinishScores) {
			r.session.Over = true
			out.RoundOver = true
			return out, nil
		}
	}
	r.advance()
	return out, nil
}

func (r *BuildingRound) Abort(err error) {
	r.session.Over = true
	r.session.AwaitingHuman = false
	if r.session.Err == nil {
		r.session.Err = err
	}
}

func (r *BuildingRound) activeSeats() int {
	n := 0
	for _, f := range r.finished {
		if !f {
			n++
		}
	}
	return n
}

func (r *BuildingRound) advance() {
	next := r.toAct.Next()
	for i := 0; i < NumSeats && r.finished[next]; i++ {
		next = next.Next()
	}
	r.toAct = next
}
