package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Suit values, in bitmask order from the lowest 13-bit group to the highest.
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

// Rank values run 2 through 14 so that ace-high comparisons stay numeric.
const (
	Two = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Card is a single playing card stored as one set bit in a 52-bit mask.
// The bit position is suit*13 + (rank-2), so the low 13 bits are clubs,
// then diamonds, hearts, and spades.
type Card uint64

// Hand is a set of cards, the bitwise OR of its Card masks. Hole cards,
// boards, and full seven-card holdings all use the same representation.
type Hand uint64

// NewCard builds a card from a rank (2-14) and suit. It panics on values
// outside those ranges since every caller constructs from constants or a
// deck.
func NewCard(rank int, suit uint8) Card {
	if rank < Two || rank > Ace {
		panic(fmt.Sprintf("poker: invalid rank %d", rank))
	}
	if suit > Spades {
		panic(fmt.Sprintf("poker: invalid suit %d", suit))
	}
	return Card(1) << (uint(suit)*13 + uint(rank-Two))
}

// Rank returns the card's rank, 2 through 14.
func (c Card) Rank() int {
	return bits.TrailingZeros64(uint64(c))%13 + Two
}

// Suit returns the card's suit.
func (c Card) Suit() uint8 {
	return uint8(bits.TrailingZeros64(uint64(c)) / 13)
}

func (c Card) String() string {
	return string([]byte{rankChars[c.Rank()-Two], suitChars[c.Suit()]})
}

var (
	rankChars = [13]byte{'2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K', 'A'}
	suitChars = [4]byte{'c', 'd', 'h', 's'}
)

// ParseCard parses two-character notation such as "As", "Td" or "9c".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q: want rank and suit", s)
	}

	var rank int
	switch s[0] {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = int(s[0]-'2') + Two
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return 0, fmt.Errorf("invalid card %q: unknown rank %q", s, s[0])
	}

	var suit uint8
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return 0, fmt.Errorf("invalid card %q: unknown suit %q", s, s[1])
	}

	return NewCard(rank, suit), nil
}

// MustParseCard is ParseCard for hardcoded inputs. It panics on error.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseHand parses a run of card tokens, with or without separating spaces:
// "As Kd 7c" and "AsKd7c" are equivalent. Duplicate cards are rejected.
func ParseHand(s string) (Hand, error) {
	var h Hand
	fields := strings.Fields(s)
	for _, field := range fields {
		for len(field) > 0 {
			if len(field) < 2 {
				return 0, fmt.Errorf("invalid hand %q: dangling %q", s, field)
			}
			c, err := ParseCard(field[:2])
			if err != nil {
				return 0, err
			}
			if h.Has(c) {
				return 0, fmt.Errorf("invalid hand %q: duplicate card %s", s, c)
			}
			h |= Hand(c)
			field = field[2:]
		}
	}
	return h, nil
}

// MustParseHand is ParseHand for hardcoded inputs. It panics on error.
func MustParseHand(s string) Hand {
	h, err := ParseHand(s)
	if err != nil {
		panic(err)
	}
	return h
}

// NewHand combines cards into a hand.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// Add returns h with the given cards included.
func (h Hand) Add(cards ...Card) Hand {
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// Has reports whether the card is in the hand.
func (h Hand) Has(c Card) bool {
	return h&Hand(c) != 0
}

// Count returns the number of cards in the hand.
func (h Hand) Count() int {
	return bits.OnesCount64(uint64(h))
}

// Cards lists the hand's cards from highest rank to lowest, suits ordered
// spades down to clubs within a rank.
func (h Hand) Cards() []Card {
	out := make([]Card, 0, h.Count())
	for rank := Ace; rank >= Two; rank-- {
		for suit := int(Spades); suit >= int(Clubs); suit-- {
			if c := NewCard(rank, uint8(suit)); h.Has(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func (h Hand) String() string {
	cards := h.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// SuitMask returns the 13-bit rank mask for one suit, bit 0 = deuce.
func (h Hand) SuitMask(suit uint8) uint16 {
	return uint16(h>>(uint(suit)*13)) & 0x1FFF
}

// RankMask returns the 13-bit mask of ranks present in any suit.
func (h Hand) RankMask() uint16 {
	return h.SuitMask(Clubs) | h.SuitMask(Diamonds) | h.SuitMask(Hearts) | h.SuitMask(Spades)
}
