package poker

import (
	"errors"
	"math/rand/v2"
)

// ErrDeckExhausted is returned when a deal asks for more cards than remain.
var ErrDeckExhausted = errors.New("poker: deck exhausted")

// Deck deals cards from a shuffled 52-card set. It is not safe for
// concurrent use; each table owns its own deck and rand source.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand
}

// NewDeck returns a full deck shuffled with rng. The rand source is retained
// for later Shuffle calls and must not be nil.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("poker: deck requires a rand source")
	}
	d := &Deck{cards: make([]Card, 0, 52), rng: rng}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	d.Shuffle()
	return d
}

// NewStackedDeck returns a deck that deals exactly the given cards in order.
// It never reshuffles and is meant for scripted hands in tests and replays.
func NewStackedDeck(cards ...Card) *Deck {
	return &Deck{cards: cards}
}

// Shuffle returns every dealt card and reorders the deck. Stacked decks keep
// their fixed order but are restored to full.
func (d *Deck) Shuffle() {
	d.next = 0
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes the next n cards and returns them as a hand.
func (d *Deck) Deal(n int) (Hand, error) {
	if n > d.Remaining() {
		return 0, ErrDeckExhausted
	}
	var h Hand
	for i := 0; i < n; i++ {
		h |= Hand(d.cards[d.next])
		d.next++
	}
	return h, nil
}

// DealCard removes and returns the next single card.
func (d *Deck) DealCard() (Card, error) {
	if d.Remaining() == 0 {
		return 0, ErrDeckExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// Remaining returns the number of cards left to deal.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
