package tournament

import (
	"time"

	"github.com/cardroom/holdem/internal/game"
)

// Event types a tournament publishes on its bus, alongside the per-hand
// events its tables emit.
const (
	EventTypePlayerEliminated   game.EventType = "player_eliminated"
	EventTypeBlindLevel         game.EventType = "blind_level"
	EventTypeTournamentComplete game.EventType = "tournament_complete"
)

// PlayerEliminatedEvent records a bust-out and the finishing rank it locks in.
type PlayerEliminatedEvent struct {
	TournamentID string
	PlayerID     string
	Rank         int // final standing, 1 is the champion
	HandsPlayed  int
	timestamp    time.Time
}

// NewPlayerEliminatedEvent creates an elimination event stamped with the
// current time.
func NewPlayerEliminatedEvent(tournamentID, playerID string, rank, handsPlayed int) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		TournamentID: tournamentID,
		PlayerID:     playerID,
		Rank:         rank,
		HandsPlayed:  handsPlayed,
		timestamp:    time.Now(),
	}
}

func (e *PlayerEliminatedEvent) EventType() game.EventType { return EventTypePlayerEliminated }
func (e *PlayerEliminatedEvent) Timestamp() time.Time      { return e.timestamp }

// BlindLevelEvent records the stakes moving to a new rung.
type BlindLevelEvent struct {
	TournamentID string
	Level        int // 1-based rung
	SmallBlind   int
	BigBlind     int
	timestamp    time.Time
}

// NewBlindLevelEvent creates a level-up event stamped with the current time.
func NewBlindLevelEvent(tournamentID string, level, smallBlind, bigBlind int) *BlindLevelEvent {
	return &BlindLevelEvent{
		TournamentID: tournamentID,
		Level:        level,
		SmallBlind:   smallBlind,
		BigBlind:     bigBlind,
		timestamp:    time.Now(),
	}
}

func (e *BlindLevelEvent) EventType() game.EventType { return EventTypeBlindLevel }
func (e *BlindLevelEvent) Timestamp() time.Time      { return e.timestamp }

// TournamentCompleteEvent carries the final standings with payouts.
type TournamentCompleteEvent struct {
	TournamentID string
	Standings    []Standing
	timestamp    time.Time
}

// NewTournamentCompleteEvent creates a completion event stamped with the
// current time.
func NewTournamentCompleteEvent(tournamentID string, standings []Standing) *TournamentCompleteEvent {
	return &TournamentCompleteEvent{
		TournamentID: tournamentID,
		Standings:    standings,
		timestamp:    time.Now(),
	}
}

func (e *TournamentCompleteEvent) EventType() game.EventType { return EventTypeTournamentComplete }
func (e *TournamentCompleteEvent) Timestamp() time.Time      { return e.timestamp }
