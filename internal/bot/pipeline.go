package bot

import (
	"sort"

	"lora/internal/domain"
)

// SelectionContext holds the state for the building round decision pipeline.
type SelectionContext struct {
	Hand  []domain.Card
	Board domain.Board
	// Candidates starts as every legal card in suit then rank order and is
	// narrowed by each rule that finds a preferred subset.
	Candidates []domain.Card
	// Decided names the rule that narrowed the choice last.
	Decided string
}

// SelectionRule represents a logic unit that can narrow the candidate plays.
type SelectionRule interface {
	Name() string
	Apply(ctx *SelectionContext)
}

// DefaultBuildingRules is the rule order of the building round bot.
var DefaultBuildingRules = []SelectionRule{
	&OpenWithJackOfSpadesRule{},
	&PreferExtensionsRule{},
	&UnblockAdjacentRule{},
	&FavorEndsRule{},
}

// RunPipeline applies rules in order and returns the first remaining
// candidate.
func RunPipeline(ctx *SelectionContext, rules []SelectionRule) (domain.Card, bool) {
	sortBoardOrder(ctx.Candidates)
	for _, rule := range rules {
		rule.Apply(ctx)
	}
	if len(ctx.Candidates) == 0 {
		return domain.Card{}, false
	}
	return ctx.Candidates[0], true
}

func narrow(ctx *SelectionContext, rule SelectionRule, keep func(domain.Card) bool) {
	subset := domain.Filter(ctx.Candidates, keep)
	if len(subset) > 0 && len(subset) < len(ctx.Candidates) {
		ctx.Candidates = subset
		ctx.Decided = rule.Name()
	}
}

// OpenWithJackOfSpadesRule plays J♠ while spades are still closed.
type OpenWithJackOfSpadesRule struct{}

func (r *OpenWithJackOfSpadesRule) Name() string { return "OpenWithJackOfSpades" }

func (r *OpenWithJackOfSpadesRule) Apply(ctx *SelectionContext) {
	if _, open := ctx.Board.Span(domain.Spades); open {
		return
	}
	narrow(ctx, r, func(c domain.Card) bool { return c == domain.JackOfSpades })
}

// PreferExtensionsRule extends an open suit rather than opening a new one.
type PreferExtensionsRule struct{}

func (r *PreferExtensionsRule) Name() string { return "PreferExtensions" }

func (r *PreferExtensionsRule) Apply(ctx *SelectionContext) {
	narrow(ctx, r, func(c domain.Card) bool { return c.Rank != domain.Jack })
}

// UnblockAdjacentRule prefers plays that make another card in hand playable.
type UnblockAdjacentRule struct{}

func (r *UnblockAdjacentRule) Name() string { return "UnblockAdjacent" }

func (r *UnblockAdjacentRule) Apply(ctx *SelectionContext) {
	narrow(ctx, r, func(c domain.Card) bool { return unblocks(ctx.Board, ctx.Hand, c) })
}

func unblocks(board domain.Board, hand []domain.Card, c domain.Card) bool {
	var blocked []domain.Card
	for _, h := range hand {
		if h != c && h.Suit == c.Suit && !board.CanPlace(h) {
			blocked = append(blocked, h)
		}
	}
	if err := board.Place(c); err != nil {
		return false
	}
	for _, h := range blocked {
		if board.CanPlace(h) {
			return true
		}
	}
	return false
}

// FavorEndsRule plays a 7 or an Ace.
type FavorEndsRule struct{}

func (r *FavorEndsRule) Name() string { return "FavorEnds" }

func (r *FavorEndsRule) Apply(ctx *SelectionContext) {
	narrow(ctx, r, func(c domain.Card) bool { return c.Rank == domain.Seven || c.Rank == domain.Ace })
}

func sortBoardOrder(cards []domain.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return cards[i].Suit < cards[j].Suit
		}
		return cards[i].Rank < cards[j].Rank
	})
}

// BuildingBot runs the selection pipeline over the legal plays.
type BuildingBot struct {
	Rules []SelectionRule
}

func (b *BuildingBot) CalculateMove(view View) (domain.Move, error) {
	if len(view.Legal) == 0 || view.Board == nil {
		return domain.Move{Pass: true}, nil
	}
	rules := b.Rules
	if rules == nil {
		rules = DefaultBuildingRules
	}
	ctx := &SelectionContext{
		Hand:       view.Hand,
		Board:      *view.Board,
		Candidates: append([]domain.Card(nil), view.Legal...),
	}
	c, _ := RunPipeline(ctx, rules)
	return play(c), nil
}

func (b *BuildingBot) OnEvent(event interface{}) {}
