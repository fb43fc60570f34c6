package poker

// HoleCategory is a coarse preflop tier for two hole cards.
type HoleCategory uint8

const (
	HoleTrash HoleCategory = iota
	HoleWeak
	HoleMedium
	HoleStrong
	HolePremium
)

var holeCategoryNames = [...]string{"Trash", "Weak", "Medium", "Strong", "Premium"}

func (c HoleCategory) String() string {
	if int(c) < len(holeCategoryNames) {
		return holeCategoryNames[c]
	}
	return "Unknown"
}

// CategorizeHole tiers a two-card holding. Premium is JJ+ and AK, Strong is
// TT and AQ/AJ, Medium is 77+ and suited broadways, Weak is any other pair,
// suited ace, or suited connector, and the rest is Trash.
func CategorizeHole(a, b Card) HoleCategory {
	hi, lo := a.Rank(), b.Rank()
	if hi < lo {
		hi, lo = lo, hi
	}
	suited := a.Suit() == b.Suit()
	pair := hi == lo

	switch {
	case pair && hi >= Jack,
		hi == Ace && lo == King:
		return HolePremium
	case pair && hi == Ten,
		hi == Ace && lo >= Jack:
		return HoleStrong
	case pair && hi >= Seven,
		suited && lo >= Ten:
		return HoleMedium
	case pair,
		suited && hi == Ace,
		suited && hi-lo == 1 && hi >= Six:
		return HoleWeak
	default:
		return HoleTrash
	}
}

// CategorizeHoleHand is CategorizeHole for a two-card hand mask.
func CategorizeHoleHand(h Hand) HoleCategory {
	cards := h.Cards()
	if len(cards) != 2 {
		return HoleTrash
	}
	return CategorizeHole(cards[0], cards[1])
}
