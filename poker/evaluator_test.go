package poker

import (
	"math/rand/v2"
	"testing"

	reference "github.com/paulhankin/poker"
)

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		hand string
		want Category
		top  int // strongest tiebreak rank
	}{
		{name: "high card", hand: "Ac Kd 9h 5s 2c", want: HighCard, top: Ace},
		{name: "one pair", hand: "Ac Ad 9h 5s 2c", want: OnePair, top: Ace},
		{name: "two pair", hand: "Ac Ad 9h 9s 2c", want: TwoPair, top: Ace},
		{name: "three of a kind", hand: "Ac Ad Ah 9s 2c", want: ThreeOfAKind, top: Ace},
		{name: "wheel", hand: "Ac 2d 3h 4s 5c", want: Straight, top: Five},
		{name: "king high straight", hand: "9c Td Jh Qs Kc", want: Straight, top: King},
		{name: "broadway", hand: "Tc Jd Qh Ks Ac", want: Straight, top: Ace},
		{name: "flush", hand: "Ac Jc 9c 5c 2c", want: Flush, top: Ace},
		{name: "full house", hand: "Ac Ad Ah 9s 9c", want: FullHouse, top: Ace},
		{name: "four of a kind", hand: "Ac Ad Ah As 9c", want: FourOfAKind, top: Ace},
		{name: "straight flush", hand: "9s Ts Js Qs Ks", want: StraightFlush, top: King},
		{name: "steel wheel", hand: "Ah 2h 3h 4h 5h", want: StraightFlush, top: Five},
		{name: "royal flush", hand: "Ts Js Qs Ks As", want: StraightFlush, top: Ace},
		{name: "wheel among seven", hand: "Ah 2c 3d 4s 5h 5d Kc", want: Straight, top: Five},
		{name: "two sets make a full house", hand: "Ah Ac As Kh Kc Kd Qs", want: FullHouse, top: Ace},
		{name: "flush beats trips in seven", hand: "As Ks Qs Js 9s 9h 9d", want: Flush, top: Ace},
		{name: "straight flush beats higher straight", hand: "7h 8h 9h Th Jh Qs Kc", want: StraightFlush, top: Jack},
		{name: "six card straight", hand: "2c 3d 4h 5s 6c 7d Ah", want: Straight, top: Seven},
	}

	for _, testCase := range tests {
		tc := testCase
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rank := Evaluate(MustParseHand(tc.hand))
			if rank.Category() != tc.want {
				t.Errorf("Evaluate(%s) = %s, want %s", tc.hand, rank.Category(), tc.want)
			}
			if got := rank.Tiebreaks()[0]; got != tc.top {
				t.Errorf("Evaluate(%s) top tiebreak = %d, want %d", tc.hand, got, tc.top)
			}
		})
	}
}

func TestEvaluateTiebreaks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		hand string
		want [5]int
	}{
		{name: "quads pick best kicker", hand: "2c 2d 2h 2s Ac Kd 3h", want: [5]int{Two, Ace}},
		{name: "full house from two sets", hand: "Ah Ac As Kh Kc Kd Qs", want: [5]int{Ace, King}},
		{name: "third pair supplies the kicker", hand: "Ah Ad Kh Kd Qh Qd Js", want: [5]int{Ace, King, Queen}},
		{name: "flush keeps top five", hand: "Ac Jc 9c 5c 2c 7c Kd", want: [5]int{Ace, Jack, Nine, Seven, Five}},
		{name: "pair with three kickers", hand: "9h 9d Ac Kd Qs Js 2c", want: [5]int{Nine, Ace, King, Queen}},
		{name: "high card top five", hand: "Ac Kd Qh Js 9c 7d 5h", want: [5]int{Ace, King, Queen, Jack, Nine}},
	}

	for _, testCase := range tests {
		tc := testCase
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Evaluate(MustParseHand(tc.hand)).Tiebreaks(); got != tc.want {
				t.Errorf("Evaluate(%s) tiebreaks = %v, want %v", tc.hand, got, tc.want)
			}
		})
	}
}

func TestEvaluateOrdering(t *testing.T) {
	t.Parallel()
	// Strictly ascending strength, category by category.
	ascending := []string{
		"2c 3d 5h 7s 9c",
		"Ac 3d 5h 7s 9c",
		"Ac Kd 5h 7s 9c",
		"2c 2d 5h 7s 9c",
		"2c 2d 5h 7s Ac",
		"Ac Ad 5h 7s 9c",
		"2c 2d 3h 3s 9c",
		"2c 2d 3h 3s Ac",
		"Ac Ad Kh Ks Qc",
		"2c 2d 2h 4s 5c",
		"Ac 2d 3h 4s 5c",
		"2c 3d 4h 5s 6c",
		"Tc Jd Qh Ks Ac",
		"2c 4c 6c 8c Tc",
		"Ac 4c 6c 8c Tc",
		"2c 2d 2h 3s 3c",
		"3c 3d 3h 2s 2c",
		"2c 2d 2h 2s 3c",
		"Ac Ad Ah As Kc",
		"Ah 2h 3h 4h 5h",
		"2s 3s 4s 5s 6s",
		"Ts Js Qs Ks As",
	}

	for i := 1; i < len(ascending); i++ {
		weaker := Evaluate(MustParseHand(ascending[i-1]))
		stronger := Evaluate(MustParseHand(ascending[i]))
		if weaker >= stronger {
			t.Errorf("%s (%s, %#x) should lose to %s (%s, %#x)",
				ascending[i-1], weaker, uint32(weaker),
				ascending[i], stronger, uint32(stronger))
		}
	}
}

func TestEvaluateTies(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b string
	}{
		{
			name: "board plays",
			a:    "2c 3c 4c 5c 6c As Ad",
			b:    "2c 3c 4c 5c 6c Ks Kd",
		},
		{
			name: "shared straight",
			a:    "Ah Kh Qd Jc Ts 2c 3c",
			b:    "Ah Kh Qd Jc Ts 2d 3d",
		},
		{
			name: "kicker below the board does not play",
			a:    "Ac Ad Ah Ks Kd Kc 2c",
			b:    "Ac Ad Ah Ks Kd 2d 3d",
		},
	}

	for _, testCase := range tests {
		tc := testCase
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ra := Evaluate(MustParseHand(tc.a))
			rb := Evaluate(MustParseHand(tc.b))
			if ra != rb {
				t.Errorf("Expected tie, got %#x vs %#x", uint32(ra), uint32(rb))
			}
		})
	}
}

func TestEvaluateRejectsWrongSize(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a four card hand")
		}
	}()
	Evaluate(MustParseHand("As Ks Qs Js"))
}

// TestEvaluateAgainstReference deals random seven-card pairs and checks that
// ordering and ties agree with the paulhankin/poker lookup tables.
func TestEvaluateAgainstReference(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(2024, 8))
	deck := NewDeck(rng)

	for i := 0; i < 5000; i++ {
		deck.Shuffle()
		a, err := deck.Deal(7)
		if err != nil {
			t.Fatal(err)
		}
		b, err := deck.Deal(7)
		if err != nil {
			t.Fatal(err)
		}

		got := compareRanks(Evaluate(a), Evaluate(b))
		want := compareScores(referenceEval(t, a), referenceEval(t, b))
		if got != want {
			t.Fatalf("Evaluate disagrees with reference for\n  a = %s (%s)\n  b = %s (%s)\n  got %d, want %d",
				a, Evaluate(a), b, Evaluate(b), got, want)
		}
	}
}

func referenceEval(t *testing.T, h Hand) int16 {
	t.Helper()
	var in [7]reference.Card
	for i, c := range h.Cards() {
		rank := c.Rank()
		if rank == Ace {
			rank = 1 // the reference encodes aces low
		}
		card, err := reference.MakeCard(reference.Suit(c.Suit()), reference.Rank(rank))
		if err != nil {
			t.Fatalf("MakeCard(%s): %v", c, err)
		}
		in[i] = card
	}
	return reference.Eval7(&in)
}

func compareRanks(a, b Rank) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareScores(a, b int16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func BenchmarkEvaluateSeven(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 0))
	deck := NewDeck(rng)
	hands := make([]Hand, 512)
	for i := range hands {
		deck.Shuffle()
		hands[i], _ = deck.Deal(7)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(hands[i%len(hands)])
	}
}

func BenchmarkEvaluateFive(b *testing.B) {
	hand := MustParseHand("Ac Kd 9h 5s 2c")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(hand)
	}
}
