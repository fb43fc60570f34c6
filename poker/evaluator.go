package poker

import (
	"fmt"
	"math/bits"
)

// Evaluate returns the strength of the best five-card hand contained in h.
// The hand must hold between five and seven cards; a holdem showdown passes
// two hole cards plus the board.
func Evaluate(h Hand) Rank {
	if n := h.Count(); n < 5 || n > 7 {
		panic(fmt.Sprintf("poker: evaluate needs 5-7 cards, got %d", n))
	}

	s0 := h.SuitMask(Clubs)
	s1 := h.SuitMask(Diamonds)
	s2 := h.SuitMask(Hearts)
	s3 := h.SuitMask(Spades)
	ranks := s0 | s1 | s2 | s3

	// Flush first. With at most seven cards only one suit can reach five,
	// and neither quads nor a full house can coexist with it, so the best
	// hand is the best straight flush or flush in that suit.
	for _, sm := range [4]uint16{s0, s1, s2, s3} {
		if bits.OnesCount16(sm) >= 5 {
			if high := straightHigh(sm); high != 0 {
				return newRank(StraightFlush, high)
			}
			return newRank(Flush, topRanks(sm, 5)...)
		}
	}

	if quads := s0 & s1 & s2 & s3; quads != 0 {
		q := highestRank(quads)
		return newRank(FourOfAKind, q, highestRank(ranks&^rankBit(q)))
	}

	// Rank multiplicities fall out of suit mask overlaps.
	paired := s0&s1 | s0&s2 | s0&s3 | s1&s2 | s1&s3 | s2&s3
	trips := s0&s1&s2 | s0&s1&s3 | s0&s2&s3 | s1&s2&s3
	pairs := paired &^ trips

	if trips != 0 {
		t := highestRank(trips)
		// A second set or any pair fills the house.
		if rest := (trips &^ rankBit(t)) | pairs; rest != 0 {
			return newRank(FullHouse, t, highestRank(rest))
		}
	}

	if high := straightHigh(ranks); high != 0 {
		return newRank(Straight, high)
	}

	if trips != 0 {
		t := highestRank(trips)
		tiebreaks := append([]int{t}, topRanks(ranks&^rankBit(t), 2)...)
		return newRank(ThreeOfAKind, tiebreaks...)
	}

	switch bits.OnesCount16(pairs) {
	case 0:
		return newRank(HighCard, topRanks(ranks, 5)...)
	case 1:
		p := highestRank(pairs)
		tiebreaks := append([]int{p}, topRanks(ranks&^rankBit(p), 3)...)
		return newRank(OnePair, tiebreaks...)
	default:
		// Seven cards can hold three pairs; the best remaining card may be
		// the third pair's rank.
		hi := highestRank(pairs)
		lo := highestRank(pairs &^ rankBit(hi))
		kicker := highestRank(ranks &^ rankBit(hi) &^ rankBit(lo))
		return newRank(TwoPair, hi, lo, kicker)
	}
}

// EvaluateCards is Evaluate for a card slice.
func EvaluateCards(cards []Card) Rank {
	return Evaluate(NewHand(cards...))
}

// wheelMask is A-2-3-4-5, the only straight where the ace plays low.
const wheelMask = 0x100F

// straightHigh returns the top rank of the best straight in a 13-bit rank
// mask, or 0 when there is none. The wheel reports 5.
func straightHigh(mask uint16) int {
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		// The highest run bit marks the straight's low card, four below its top.
		return bits.Len16(seq) + 5
	}
	if mask&wheelMask == wheelMask {
		return Five
	}
	return 0
}

// highestRank returns the rank (2-14) of the top set bit; mask must be
// non-zero.
func highestRank(mask uint16) int {
	return bits.Len16(mask) + 1
}

func rankBit(rank int) uint16 {
	return 1 << (rank - Two)
}

// topRanks returns up to n of the highest ranks present, descending.
func topRanks(mask uint16, n int) []int {
	out := make([]int, 0, n)
	for len(out) < n && mask != 0 {
		r := highestRank(mask)
		out = append(out, r)
		mask &^= rankBit(r)
	}
	return out
}
