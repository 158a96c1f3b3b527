package domain

// Move is a single turn action: a card, or a pass in the building round.
type Move struct {
	Card Card `json:"card"`
	Pass bool `json:"pass"`
}

// Outcome describes what an applied move changed.
type Outcome struct {
	Seat   Seat
	Card   Card
	Passed bool

	TrickComplete bool
	Trick         Trick
	Winner        Seat
	Points        int

	// Finished is set when the seat emptied its hand in the building round.
	Finished bool
	Place    int

	RoundOver bool
	Deadlock  bool
}

// Round is the per-variant rules state machine driven by the sequencer.
type Round interface {
	Kind() RoundKind
	Session() *Session
	ToAct() Seat
	// LegalMoves lists the cards seat may play now. An empty result on the
	// seat's turn in the building round means the seat must pass.
	LegalMoves(seat Seat) []Card
	Apply(seat Seat, m Move) (Outcome, error)
	Over() bool
	// Abort forces the round into its terminal state after a failure.
	Abort(err error)
}

// NewRound builds the round engine for kind from freshly dealt hands.
func NewRound(kind RoundKind, hands [NumSeats][]Card, starting Seat) (Round, error) {
	if kind == RoundSolitaire {
		return NewBuildingRound(hands, starting)
	}
	v, err := VariantFor(kind)
	if err != nil {
		return nil, err
	}
	return NewTrickRound(v, hands, starting), nil
}

// TrickRound is the shared trick protocol for the four scored variants.
type TrickRound struct {
	session     *Session
	variant     Variant
	trick       Trick
	trickNumber int
	stats       RoundStats
	completed   []Trick
}

// NewTrickRound starts a trick round with starting leading the first trick.
func NewTrickRound(v Variant, hands [NumSeats][]Card, starting Seat) *TrickRound {
	return &TrickRound{
		session: &Session{
			Kind:         v.Kind(),
			StartingSeat: starting,
			Leader:       starting,
			Hands:        hands,
		},
		variant: v,
		trick:   NewTrick(starting),
	}
}

func (r *TrickRound) Kind() RoundKind   { return r.variant.Kind() }
func (r *TrickRound) Session() *Session { return r.session }
func (r *TrickRound) Variant() Variant  { return r.variant }
func (r *TrickRound) Over() bool        { return r.session.Over }
func (r *TrickRound) ToAct() Seat       { return r.trick.ToAct() }

// Trick returns a copy of the trick in progress.
func (r *TrickRound) Trick() Trick { return r.trick.Clone() }

// TrickNumber is the zero-based index of the trick in progress.
func (r *TrickRound) TrickNumber() int { return r.trickNumber }

// Stats returns the cumulative taken-card statistics.
func (r *TrickRound) Stats() RoundStats { return r.stats }

// Completed returns the resolved tricks in order.
func (r *TrickRound) Completed() []Trick { return r.completed }

func (r *TrickRound) LegalMoves(seat Seat) []Card {
	if r.session.Over || seat != r.ToAct() {
		return nil
	}
	return LegalCards(r.variant, r.session.Hands[seat], &r.trick, r.trickNumber)
}

func (r *TrickRound) Apply(seat Seat, m Move) (Outcome, error) {
	if r.session.Over {
		return Outcome{}, ErrRoundOver
	}
	if seat != r.ToAct() {
		return Outcome{}, ErrNotYourTurn
	}
	if m.Pass {
		return Outcome{}, ErrPassNotAllowed
	}
	hand := r.session.Hands[seat]
	if !IsLegal(r.variant, m.Card, hand, &r.trick, r.trickNumber) {
		return Outcome{}, ErrIllegalMove
	}

	updated, err := RemoveCard(hand, m.Card)
	if err != nil {
		r.Abort(err)
		return Outcome{}, err
	}
	r.session.Hands[seat] = updated
	r.trick.Plays = append(r.trick.Plays, Play{Seat: seat, Card: m.Card})
	r.session.TrickInProgress = true

	out := Outcome{Seat: seat, Card: m.Card}
	if !r.trick.Complete() {
		return out, nil
	}

	winner, err := r.trick.Winner()
	if err != nil {
		r.Abort(err)
		return out, err
	}
	cards := r.trick.Cards()
	points := r.variant.TrickPoints(cards)
	r.session.Scores[winner] += points
	r.stats.Record(cards)
	r.completed = append(r.completed, r.trick)

	out.TrickComplete = true
	out.Trick = r.trick.Clone()
	out.Winner = winner
	out.Points = points

	r.trickNumber++
	r.session.Leader = winner
	r.trick = NewTrick(winner)
	r.session.TrickInProgress = false

	if r.variant.RoundOver(r.session.HandsEmpty(), r.stats) {
		r.session.Over = true
		out.RoundOver = true
	}
	return out, nil
}

func (r *TrickRound) Abort(err error) {
	r.session.Over = true
	r.session.TrickInProgress = false
	r.session.AwaitingHuman = false
	if r.session.Err == nil {
		r.session.Err = err
	}
}
