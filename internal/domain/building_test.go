package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardPlacement(t *testing.T) {
	var b Board

	assert.ErrorIs(t, b.Place(Card{Hearts, Eight}), ErrSuitNotOpened)
	require.NoError(t, b.Place(JackOfSpades))
	assert.ErrorIs(t, b.Place(Card{Spades, King}), ErrNotAdjacentRank)
	require.NoError(t, b.Place(Card{Spades, Ten}))
	require.NoError(t, b.Place(Card{Spades, Queen}))
	require.NoError(t, b.Place(Card{Spades, Nine}))

	span, ok := b.Span(Spades)
	require.True(t, ok)
	assert.Equal(t, Span{Low: Nine, High: Queen}, span)

	assert.True(t, b.CanPlace(Card{Spades, Eight}))
	assert.True(t, b.CanPlace(Card{Spades, King}))
	assert.False(t, b.CanPlace(Card{Spades, Ace}))
	assert.True(t, b.CanPlace(Card{Diamonds, Jack}))
	assert.False(t, b.CanPlace(Card{Diamonds, Queen}))
	assert.Len(t, b.Spans(), 1)
}

func TestBoardStopsAtDeckEdges(t *testing.T) {
	var b Board
	require.NoError(t, b.Place(Card{Clubs, Jack}))
	for _, r := range []Rank{Ten, Nine, Eight, Seven, Queen, King, Ace} {
		require.NoError(t, b.Place(Card{Clubs, r}), "rank %s", r)
	}
	span, _ := b.Span(Clubs)
	assert.Equal(t, Span{Low: Seven, High: Ace}, span)
	for _, r := range Ranks {
		assert.False(t, b.CanPlace(Card{Clubs, r}))
	}
}

func TestBuildingRoundOpensWithJackOfSpades(t *testing.T) {
	hands, err := NewDeal(rand.New(rand.NewSource(21)))
	require.NoError(t, err)

	r, err := NewBuildingRound(hands, 0)
	require.NoError(t, err)

	opener := r.ToAct()
	assert.True(t, ContainsCard(hands[opener], JackOfSpades))
	assert.Equal(t, []Card{JackOfSpades}, r.LegalMoves(opener))
	assert.Nil(t, r.LegalMoves(opener.Next()))

	other := Filter(hands[opener], func(c Card) bool { return c != JackOfSpades })
	if len(other) > 0 {
		_, err = r.Apply(opener, Move{Card: other[0]})
		assert.ErrorIs(t, err, ErrIllegalMove)
	}
	_, err = r.Apply(opener, Move{Pass: true})
	assert.ErrorIs(t, err, ErrPassNotAllowed)

	out, err := r.Apply(opener, Move{Card: JackOfSpades})
	require.NoError(t, err)
	assert.Equal(t, JackOfSpades, out.Card)
	assert.True(t, r.Opened())
	assert.Equal(t, opener.Next(), r.ToAct())
}

func TestBuildingRoundWithoutJackOfSpades(t *testing.T) {
	var hands [NumSeats][]Card
	hands[0] = cards(t, "7S")
	_, err := NewBuildingRound(hands, 0)
	assert.ErrorIs(t, err, ErrNoJackOfSpades)
}

func TestBuildingFinishOrderSkipsFinishedSeats(t *testing.T) {
	var hands [NumSeats][]Card
	hands[0] = cards(t, "JS QS")
	hands[1] = cards(t, "10S")
	hands[2] = cards(t, "9S KS")
	hands[3] = cards(t, "JH 7C")

	r, err := NewBuildingRound(hands, 3)
	require.NoError(t, err)
	require.Equal(t, Seat(0), r.ToAct())

	steps := []struct {
		seat Seat
		card string
	}{
		{0, "JS"}, {1, "10S"}, {2, "9S"}, {3, "JH"}, {0, "QS"},
	}
	for _, s := range steps {
		_, err := r.Apply(s.seat, Move{Card: mustParse(t, s.card)})
		require.NoError(t, err, "%s plays %s", s.seat, s.card)
	}
	assert.Equal(t, Seat(2), r.ToAct(), "finished seat 1 is skipped")

	out, err := r.Apply(2, Move{Card: mustParse(t, "KS")})
	require.NoError(t, err)
	assert.True(t, out.Finished)
	assert.Equal(t, 3, out.Place)
	assert.True(t, out.RoundOver)

	assert.Equal(t, []Seat{1, 0, 2}, r.FinishOrder())
	assert.Equal(t, [NumSeats]int{-3, -5, -1, 0}, r.Session().Scores)
	assert.False(t, r.Deadlocked())
}

func TestBuildingDeadlockEndsRound(t *testing.T) {
	var hands [NumSeats][]Card
	hands[0] = cards(t, "JS 7H")
	hands[1] = cards(t, "7C")
	hands[2] = cards(t, "7D")
	hands[3] = cards(t, "7S")

	r, err := NewBuildingRound(hands, 0)
	require.NoError(t, err)
	_, err = r.Apply(0, Move{Card: JackOfSpades})
	require.NoError(t, err)

	var out Outcome
	for _, seat := range []Seat{1, 2, 3, 0} {
		require.Empty(t, r.LegalMoves(seat))
		out, err = r.Apply(seat, Move{Pass: true})
		require.NoError(t, err)
		assert.True(t, out.Passed)
	}
	assert.True(t, out.RoundOver)
	assert.True(t, out.Deadlock)
	assert.True(t, r.Deadlocked())
	assert.True(t, r.Over())
	assert.Equal(t, [NumSeats]int{}, r.Session().Scores)
}

func TestBuildingRoundPlayout(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		hands, err := NewDeal(rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		r, err := NewBuildingRound(hands, Seat(seed%NumSeats))
		require.NoError(t, err)

		for i := 0; !r.Over(); i++ {
			require.Less(t, i, 4*DeckSize, "seed %d did not terminate", seed)
			seat := r.ToAct()
			legal := r.LegalMoves(seat)
			if len(legal) == 0 {
				_, err := r.Apply(seat, Move{Pass: true})
				require.NoError(t, err)
				continue
			}
			card, _ := Lowest(legal)
			before, _ := r.board.Span(card.Suit)
			out, err := r.Apply(seat, Move{Card: card})
			require.NoError(t, err)

			after, ok := r.board.Span(card.Suit)
			require.True(t, ok)
			if card.Rank != Jack {
				grew := (after.Low == before.Low-1 && after.High == before.High) ||
					(after.High == before.High+1 && after.Low == before.Low)
				require.True(t, grew, "seed %d: %s did not extend span by one", seed, out.Card)
			}
		}

		require.False(t, r.Deadlocked(), "a full deal never deadlocks")
		order := r.FinishOrder()
		require.Len(t, order, len(FinishScores))
		scores := r.Session().Scores
		for place, seat := range order {
			assert.Equal(t, FinishScores[place], scores[seat])
		}
		assert.Equal(t, -9, sum(scores))
	}
}
