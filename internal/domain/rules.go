package domain

// RoundStats accumulates what has been taken so far in a trick round.
type RoundStats struct {
	TricksPlayed int  `json:"tricks_played"`
	HeartsTaken  int  `json:"hearts_taken"`
	QueensTaken  int  `json:"queens_taken"`
	KingTaken    bool `json:"king_taken"`
}

// Record folds a resolved trick into the running totals.
func (s *RoundStats) Record(cards []Card) {
	s.TricksPlayed++
	s.HeartsTaken += CountWhere(cards, isHeart)
	s.QueensTaken += CountWhere(cards, isQueen)
	if ContainsCard(cards, KingOfHearts) {
		s.KingTaken = true
	}
}

// Variant is the scoring and legality policy plugged into the trick engine.
type Variant interface {
	Kind() RoundKind
	// AllowLead reports whether card may open the trick with the given
	// zero-based trick number. Follow-suit is enforced separately.
	AllowLead(card Card, hand []Card, trickNumber int) bool
	// TrickPoints scores a resolved trick for its winner.
	TrickPoints(cards []Card) int
	// RoundOver is asked after every resolved trick.
	RoundOver(handsEmpty bool, stats RoundStats) bool
}

// VariantFor returns the policy for a trick round kind.
func VariantFor(kind RoundKind) (Variant, error) {
	switch kind {
	case RoundTricks:
		return TricksVariant{}, nil
	case RoundHearts:
		return HeartsVariant{}, nil
	case RoundQueens:
		return QueensVariant{}, nil
	case RoundKing:
		return KingVariant{}, nil
	default:
		return nil, ErrUnknownRound
	}
}

// IsLegal applies follow-suit plus the variant's lead restriction.
func IsLegal(v Variant, card Card, hand []Card, trick *Trick, trickNumber int) bool {
	if !ContainsCard(hand, card) {
		return false
	}
	lead, ok := trick.LeadSuit()
	if !ok {
		return v.AllowLead(card, hand, trickNumber)
	}
	if HasSuit(hand, lead) {
		return card.Suit == lead
	}
	return true
}

// LegalCards returns every card in hand that IsLegal accepts.
func LegalCards(v Variant, hand []Card, trick *Trick, trickNumber int) []Card {
	return Filter(hand, func(c Card) bool { return IsLegal(v, c, hand, trick, trickNumber) })
}

// TricksVariant scores one point per trick.
type TricksVariant struct{}

func (TricksVariant) Kind() RoundKind                  { return RoundTricks }
func (TricksVariant) AllowLead(Card, []Card, int) bool { return true }
func (TricksVariant) TrickPoints([]Card) int           { return 1 }

func (TricksVariant) RoundOver(handsEmpty bool, _ RoundStats) bool {
	return handsEmpty
}

// HeartsVariant scores one point per heart; the round stops once all eight
// hearts are taken.
type HeartsVariant struct{}

func (HeartsVariant) Kind() RoundKind { return RoundHearts }

func (HeartsVariant) AllowLead(card Card, hand []Card, trickNumber int) bool {
	return noHeartLeadOnFirstTrick(card, hand, trickNumber)
}

func (HeartsVariant) TrickPoints(cards []Card) int { return CountWhere(cards, isHeart) }

func (HeartsVariant) RoundOver(handsEmpty bool, stats RoundStats) bool {
	return handsEmpty || stats.HeartsTaken >= 8
}

// QueensVariant scores two points per queen; the round stops once all four
// queens are taken.
type QueensVariant struct{}

func (QueensVariant) Kind() RoundKind                  { return RoundQueens }
func (QueensVariant) AllowLead(Card, []Card, int) bool { return true }
func (QueensVariant) TrickPoints(cards []Card) int     { return 2 * CountWhere(cards, isQueen) }

func (QueensVariant) RoundOver(handsEmpty bool, stats RoundStats) bool {
	return handsEmpty || stats.QueensTaken >= 4
}

// KingPoints is awarded to whoever takes the King of Hearts.
const KingPoints = 16

// KingVariant scores the King of Hearts and stops the round when it falls.
type KingVariant struct{}

func (KingVariant) Kind() RoundKind { return RoundKing }

func (KingVariant) AllowLead(card Card, hand []Card, trickNumber int) bool {
	return noHeartLeadOnFirstTrick(card, hand, trickNumber)
}

func (KingVariant) TrickPoints(cards []Card) int {
	if ContainsCard(cards, KingOfHearts) {
		return KingPoints
	}
	return 0
}

func (KingVariant) RoundOver(handsEmpty bool, stats RoundStats) bool {
	return handsEmpty || stats.KingTaken
}

func noHeartLeadOnFirstTrick(card Card, hand []Card, trickNumber int) bool {
	if trickNumber > 0 || card.Suit != Hearts {
		return true
	}
	return AllOfSuit(hand, Hearts)
}

func isHeart(c Card) bool { return c.Suit == Hearts }
func isQueen(c Card) bool { return c.Rank == Queen }
