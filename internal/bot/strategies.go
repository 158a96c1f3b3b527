package bot

import (
	"lora/internal/domain"
)

func play(c domain.Card) domain.Move { return domain.Move{Card: c} }

func notHeart(c domain.Card) bool { return c.Suit != domain.Hearts }

// TricksBot sheds its lowest legal card every turn.
type TricksBot struct{}

func (b *TricksBot) CalculateMove(view View) (domain.Move, error) {
	c, ok := domain.Lowest(view.Legal)
	if !ok {
		return domain.Move{Pass: true}, nil
	}
	return play(c), nil
}

func (b *TricksBot) OnEvent(event interface{}) {}

// HeartsBot ducks with low cards and dumps high ones when it cannot follow.
type HeartsBot struct{}

func (b *HeartsBot) CalculateMove(view View) (domain.Move, error) {
	c, ok := heartsChoice(view)
	if !ok {
		return domain.Move{Pass: true}, nil
	}
	return play(c), nil
}

func (b *HeartsBot) OnEvent(event interface{}) {}

func heartsChoice(view View) (domain.Card, bool) {
	switch {
	case view.Leading():
		if c, ok := domain.Lowest(domain.Filter(view.Legal, notHeart)); ok {
			return c, true
		}
		return domain.Lowest(view.Legal)
	case view.Following():
		return domain.Lowest(view.Legal)
	default:
		if c, ok := domain.Highest(domain.Filter(view.Legal, notHeart)); ok {
			return c, true
		}
		return domain.Highest(view.Legal)
	}
}

// KingBot plays like HeartsBot but gets rid of K♥ at the first chance and
// opens the round with a lone high card.
type KingBot struct{}

func (b *KingBot) CalculateMove(view View) (domain.Move, error) {
	if len(view.Legal) == 0 {
		return domain.Move{Pass: true}, nil
	}
	if domain.ContainsCard(view.Legal, domain.KingOfHearts) && kingIsSafe(view) {
		return play(domain.KingOfHearts), nil
	}
	if view.Leading() && view.TrickNumber == 0 {
		if c, ok := singletonHigh(view); ok {
			return play(c), nil
		}
	}
	c, _ := heartsChoice(view)
	return play(c), nil
}

func (b *KingBot) OnEvent(event interface{}) {}

// kingIsSafe reports whether playing K♥ now cannot win the trick: either the
// seat is discarding, or A♥ is already beating the trick.
func kingIsSafe(view View) bool {
	if view.Trick == nil || view.Leading() {
		return false
	}
	if !view.Following() {
		return true
	}
	best, ok := view.Trick.CurrentWinner()
	return ok && best.Card.Suit == domain.Hearts && best.Card.Rank > domain.King
}

// singletonHigh picks the highest non-heart that is alone in its suit.
func singletonHigh(view View) (domain.Card, bool) {
	lone := domain.Filter(view.Legal, func(c domain.Card) bool {
		return notHeart(c) && len(domain.CardsOfSuit(view.Hand, c.Suit)) == 1
	})
	return domain.Highest(lone)
}
