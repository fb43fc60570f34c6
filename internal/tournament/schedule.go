package tournament

import (
	"errors"
	"fmt"
	"time"
)

// Level is one rung of the blind schedule.
type Level struct {
	SmallBlind int
	BigBlind   int
}

// BlindSchedule describes when the stakes go up. One advancement policy
// applies: when Every is set, levels follow elapsed play time; otherwise
// every EveryHands completed hands across the whole tournament move to the
// next level. The final level holds for the rest of the tournament.
type BlindSchedule struct {
	Levels     []Level
	EveryHands int
	Every      time.Duration
}

// DefaultSchedule escalates the stakes every ten hands.
func DefaultSchedule() BlindSchedule {
	return BlindSchedule{
		Levels: []Level{
			{5, 10}, {10, 20}, {15, 30}, {25, 50},
			{50, 100}, {100, 200}, {200, 400}, {400, 800},
		},
		EveryHands: 10,
	}
}

func (s BlindSchedule) validate() error {
	if len(s.Levels) == 0 {
		return errors.New("needs at least one level")
	}
	for i, l := range s.Levels {
		if l.SmallBlind <= 0 || l.BigBlind < l.SmallBlind {
			return fmt.Errorf("level %d has invalid blinds %d/%d", i+1, l.SmallBlind, l.BigBlind)
		}
	}
	if s.Every < 0 {
		return fmt.Errorf("negative level duration %s", s.Every)
	}
	if s.Every == 0 && s.EveryHands <= 0 {
		return errors.New("needs a hand count or duration per level")
	}
	return nil
}

// levelIndex returns the schedule rung in force for the given progress.
func (s BlindSchedule) levelIndex(handsPlayed int, elapsed time.Duration) int {
	var idx int
	if s.Every > 0 {
		idx = int(elapsed / s.Every)
	} else {
		idx = handsPlayed / s.EveryHands
	}
	if idx >= len(s.Levels) {
		idx = len(s.Levels) - 1
	}
	return idx
}
