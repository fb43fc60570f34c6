package poker

import "fmt"

// Category classifies a five-card hand, ordered weakest to strongest.
type Category uint8

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"",
	"High Card",
	"One Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
}

func (c Category) String() string {
	if c >= HighCard && c <= StraightFlush {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Rank is a complete hand strength. Higher values beat lower values, equal
// values split. The category sits in bits 20-23 and up to five tie-break
// card ranks (2-14) follow in descending 4-bit groups, so a plain integer
// comparison orders any two hands correctly.
type Rank uint32

// newRank packs a category and its tie-break ranks, most significant first.
// Unused groups stay zero.
func newRank(c Category, tiebreaks ...int) Rank {
	r := Rank(c) << 20
	shift := uint(16)
	for _, t := range tiebreaks {
		r |= Rank(t) << shift
		shift -= 4
	}
	return r
}

// Category returns the hand class this rank belongs to.
func (r Rank) Category() Category {
	return Category(r >> 20)
}

// Tiebreaks returns the packed tie-break ranks, strongest first. Trailing
// zeros mean the category needed fewer than five.
func (r Rank) Tiebreaks() [5]int {
	var out [5]int
	for i := range out {
		out[i] = int(r>>(16-4*uint(i))) & 0xF
	}
	return out
}

// String names the hand class, with the ace-high straight flush called out.
func (r Rank) String() string {
	if r.Category() == StraightFlush && r.Tiebreaks()[0] == Ace {
		return "Royal Flush"
	}
	return r.Category().String()
}
