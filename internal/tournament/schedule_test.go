package tournament

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScheduleIsValid(t *testing.T) {
	require.NoError(t, DefaultSchedule().validate())
}

func TestLevelIndexByHands(t *testing.T) {
	s := BlindSchedule{
		Levels:     []Level{{5, 10}, {10, 20}, {25, 50}},
		EveryHands: 10,
	}

	assert.Equal(t, 0, s.levelIndex(0, 0))
	assert.Equal(t, 0, s.levelIndex(9, 0))
	assert.Equal(t, 1, s.levelIndex(10, 0))
	assert.Equal(t, 1, s.levelIndex(19, 0))
	assert.Equal(t, 2, s.levelIndex(20, 0))
	// The last level holds forever.
	assert.Equal(t, 2, s.levelIndex(500, 0))
}

func TestLevelIndexByTime(t *testing.T) {
	s := BlindSchedule{
		Levels:     []Level{{5, 10}, {10, 20}, {25, 50}},
		EveryHands: 10,
		Every:      5 * time.Minute,
	}

	// A duration takes precedence over the hand cadence.
	assert.Equal(t, 0, s.levelIndex(1000, 0))
	assert.Equal(t, 0, s.levelIndex(0, 5*time.Minute-time.Second))
	assert.Equal(t, 1, s.levelIndex(0, 5*time.Minute))
	assert.Equal(t, 2, s.levelIndex(0, 11*time.Minute))
	assert.Equal(t, 2, s.levelIndex(0, 3*time.Hour))
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name     string
		schedule BlindSchedule
	}{
		{"no levels", BlindSchedule{EveryHands: 10}},
		{"zero small blind", BlindSchedule{Levels: []Level{{0, 10}}, EveryHands: 10}},
		{"big blind below small", BlindSchedule{Levels: []Level{{10, 5}}, EveryHands: 10}},
		{"negative duration", BlindSchedule{Levels: []Level{{5, 10}}, Every: -time.Minute}},
		{"no cadence", BlindSchedule{Levels: []Level{{5, 10}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.schedule.validate())
		})
	}
}
