package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trickOf(t *testing.T, leader Seat, list string) Trick {
	t.Helper()
	tr := NewTrick(leader)
	for i, c := range cards(t, list) {
		tr.Plays = append(tr.Plays, Play{Seat: (leader + Seat(i)) % NumSeats, Card: c})
	}
	return tr
}

func TestTrickWinner(t *testing.T) {
	tests := []struct {
		name   string
		leader Seat
		plays  string
		want   Seat
	}{
		{name: "highest of lead suit", leader: 0, plays: "9S AS 7S KS", want: 1},
		{name: "off-suit ace does not win", leader: 2, plays: "8D AH 10D 7C", want: 0},
		{name: "nobody follows so leader wins", leader: 3, plays: "7C AS AH AD", want: 3},
		{name: "last seat wins", leader: 1, plays: "7H 8H 9H 10H", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := trickOf(t, tt.leader, tt.plays)
			got, err := tr.Winner()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrickWinnerRequiresFourPlays(t *testing.T) {
	tr := trickOf(t, 0, "7S 8S 9S")
	_, err := tr.Winner()
	require.Error(t, err)
	assert.True(t, IsDefect(err))
}

func TestFollowSuit(t *testing.T) {
	hand := cards(t, "7S KS 8H 9D")
	tr := trickOf(t, 0, "10S")

	v := TricksVariant{}
	assert.True(t, IsLegal(v, Card{Spades, King}, hand, &tr, 3))
	assert.False(t, IsLegal(v, Card{Hearts, Eight}, hand, &tr, 3))
	assert.ElementsMatch(t, cards(t, "7S KS"), LegalCards(v, hand, &tr, 3))

	void := cards(t, "8H 9D")
	assert.ElementsMatch(t, void, LegalCards(v, void, &tr, 3))
	assert.False(t, IsLegal(v, Card{Clubs, Ace}, void, &tr, 3), "card not in hand is never legal")
}

func TestNoHeartLeadOnFirstTrick(t *testing.T) {
	mixed := cards(t, "7H KH 8S")
	allHearts := cards(t, "7H KH")

	for _, v := range []Variant{HeartsVariant{}, KingVariant{}} {
		t.Run(string(v.Kind()), func(t *testing.T) {
			empty := NewTrick(0)
			assert.False(t, IsLegal(v, Card{Hearts, Seven}, mixed, &empty, 0))
			assert.True(t, IsLegal(v, Card{Spades, Eight}, mixed, &empty, 0))
			assert.True(t, IsLegal(v, Card{Hearts, Seven}, allHearts, &empty, 0), "forced heart lead")
			assert.True(t, IsLegal(v, Card{Hearts, Seven}, mixed, &empty, 1), "hearts free after trick 1")
		})
	}

	for _, v := range []Variant{TricksVariant{}, QueensVariant{}} {
		empty := NewTrick(0)
		assert.True(t, IsLegal(v, Card{Hearts, Seven}, mixed, &empty, 0), string(v.Kind()))
	}
}

func TestTrickPoints(t *testing.T) {
	tr := trickOf(t, 0, "QH KH QS 7H")
	c := tr.Cards()

	assert.Equal(t, 1, TricksVariant{}.TrickPoints(c))
	assert.Equal(t, 3, HeartsVariant{}.TrickPoints(c))
	assert.Equal(t, 4, QueensVariant{}.TrickPoints(c))
	assert.Equal(t, KingPoints, KingVariant{}.TrickPoints(c))
	assert.Equal(t, 0, KingVariant{}.TrickPoints(cards(t, "QH AH QS 7H")))
}

// playOut drives a trick round by always playing the lowest legal card and
// checks the per-trick invariants along the way.
func playOut(t *testing.T, r *TrickRound, check func(before RoundStats, out Outcome)) {
	t.Helper()
	for i := 0; !r.Over(); i++ {
		require.Less(t, i, DeckSize, "round did not terminate")
		seat := r.ToAct()
		legal := r.LegalMoves(seat)
		require.NotEmpty(t, legal)
		card, _ := Lowest(legal)
		before := r.Stats()
		out, err := r.Apply(seat, Move{Card: card})
		require.NoError(t, err)
		if out.TrickComplete {
			check(before, out)
		}
	}
}

func TestHeartsRoundTermination(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		hands, err := NewDeal(rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		r := NewTrickRound(HeartsVariant{}, hands, 1)

		playOut(t, r, func(before RoundStats, out Outcome) {
			hearts := CountWhere(out.Trick.Cards(), isHeart)
			after := r.Stats()
			require.Equal(t, before.HeartsTaken+hearts, after.HeartsTaken)
			wantOver := after.HeartsTaken >= 8 || r.Session().HandsEmpty()
			require.Equal(t, wantOver, out.RoundOver, "seed %d", seed)
			require.Equal(t, wantOver, r.Over())
		})
		assert.Equal(t, 8, r.Stats().HeartsTaken, "seed %d", seed)
		assert.Equal(t, 8, sum(r.Session().Scores), "seed %d", seed)
	}
}

func TestQueensRoundScoresTwicePerQueen(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		hands, err := NewDeal(rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		r := NewTrickRound(QueensVariant{}, hands, 2)

		playOut(t, r, func(before RoundStats, out Outcome) {
			require.LessOrEqual(t, r.Stats().QueensTaken, 4)
			require.Equal(t, r.Stats().QueensTaken >= 4 || r.Session().HandsEmpty(), out.RoundOver)
		})
		assert.Equal(t, 2*r.Stats().QueensTaken, sum(r.Session().Scores))
		assert.Equal(t, 4, r.Stats().QueensTaken)
	}
}

func TestKingRoundEndsWhenKingFalls(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		hands, err := NewDeal(rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		r := NewTrickRound(KingVariant{}, hands, 3)

		var kingTrick int
		playOut(t, r, func(before RoundStats, out Outcome) {
			if ContainsCard(out.Trick.Cards(), KingOfHearts) {
				kingTrick = r.TrickNumber()
				require.True(t, out.RoundOver)
				require.Equal(t, KingPoints, out.Points)
				return
			}
			require.Equal(t, 0, out.Points)
		})
		require.NotZero(t, kingTrick, "seed %d", seed)
		assert.Equal(t, kingTrick, len(r.Completed()))
		assert.Equal(t, KingPoints, sum(r.Session().Scores))
	}
}

func TestTricksRoundPlaysAllEight(t *testing.T) {
	hands, err := NewDeal(rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	r := NewTrickRound(TricksVariant{}, hands, 0)

	var leaders []Seat
	playOut(t, r, func(_ RoundStats, out Outcome) {
		leaders = append(leaders, r.Session().Leader)
		require.Equal(t, out.Winner, r.Session().Leader, "winner leads next trick")
	})
	assert.Len(t, leaders, HandSize)
	assert.Equal(t, HandSize, sum(r.Session().Scores))
	assert.True(t, r.Session().HandsEmpty())
}

func TestScriptedKingRound(t *testing.T) {
	var hands [NumSeats][]Card
	hands[0] = cards(t, "7S 8S 7D 8D 7C 8C 7H 8H")
	hands[1] = cards(t, "9S 10S 9D 10D 9C 10C 9H 10H")
	hands[2] = cards(t, "JS AS JD AD JC AC JH AH")
	hands[3] = cards(t, "QS KS QD KD QC KC QH KH")

	r := NewTrickRound(KingVariant{}, hands, 1)
	script := []struct {
		seat Seat
		card string
	}{
		{1, "9D"}, {2, "AD"}, {3, "QD"}, {0, "7D"},
		{2, "AH"}, {3, "KH"}, {0, "7H"}, {1, "9H"},
	}
	var last Outcome
	for _, step := range script {
		require.False(t, r.Over())
		out, err := r.Apply(step.seat, Move{Card: mustParse(t, step.card)})
		require.NoError(t, err, "play %s by %s", step.card, step.seat)
		last = out
	}

	assert.True(t, last.RoundOver)
	assert.Equal(t, Seat(2), last.Winner)
	assert.Equal(t, [NumSeats]int{0, 0, 16, 0}, r.Session().Scores)
	assert.True(t, r.Over())
	assert.Len(t, r.Session().Hands[2], 6)
}

func TestTrickRoundRejectsWithoutMutation(t *testing.T) {
	hands, err := NewDeal(rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	r := NewTrickRound(HeartsVariant{}, hands, 0)

	_, err = r.Apply(1, Move{Card: hands[1][0]})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = r.Apply(0, Move{Pass: true})
	assert.ErrorIs(t, err, ErrPassNotAllowed)

	_, err = r.Apply(0, Move{Card: hands[1][0]})
	assert.ErrorIs(t, err, ErrIllegalMove)

	assert.Len(t, r.Session().Hands[0], HandSize)
	assert.False(t, r.Session().TrickInProgress)
}

func TestAbortForcesRoundOver(t *testing.T) {
	hands, err := NewDeal(rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	r := NewTrickRound(TricksVariant{}, hands, 0)

	r.Abort(&DefectError{Op: "test", Detail: "boom"})
	assert.True(t, r.Over())
	assert.True(t, IsDefect(r.Session().Err))

	_, err = r.Apply(0, Move{Card: hands[0][0]})
	assert.ErrorIs(t, err, ErrRoundOver)
}

func sum(scores [NumSeats]int) int {
	total := 0
	for _, s := range scores {
		total += s
	}
	return total
}
