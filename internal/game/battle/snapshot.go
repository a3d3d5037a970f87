package battle

import (
	"github.com/cory-johannsen/battlesim/internal/game/creature"
)

// ActiveView is the public face of an active combatant.
type ActiveView struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	Status string `json:"status,omitempty"`
}

// Snapshot is a read-only summary of a battle after an operation.
type Snapshot struct {
	Player1Name   string      `json:"player1_name"`
	Player2Name   string      `json:"player2_name"`
	Player1Active *ActiveView `json:"player1_active,omitempty"`
	Player2Active *ActiveView `json:"player2_active,omitempty"`
	CurrentPlayer string      `json:"current_player"`
	IsHumanTurn   bool        `json:"is_human_turn"`
	Climate       string      `json:"climate,omitempty"`
	ClimateTurns  int         `json:"climate_turns,omitempty"`
	Turn          int         `json:"turn"`
	State         string      `json:"state"`
	Events        []string    `json:"events,omitempty"`
}

func viewOf(c *creature.Combatant) *ActiveView {
	if c == nil {
		return nil
	}
	return &ActiveView{Name: c.Name, Type: c.Type, HP: c.HP, MaxHP: c.MaxHP, Status: c.Status}
}

// Snapshot summarizes the battle, including the narrative of the last action.
func (b *Battle) Snapshot() Snapshot {
	cur := b.Current()
	return Snapshot{
		Player1Name:   b.trainers[0].Name,
		Player2Name:   b.trainers[1].Name,
		Player1Active: viewOf(b.trainers[0].Active()),
		Player2Active: viewOf(b.trainers[1].Active()),
		CurrentPlayer: cur.Name,
		IsHumanTurn:   !b.finished && !cur.IsCPU(),
		Climate:       b.climate.ID,
		ClimateTurns:  b.climate.Turns,
		Turn:          b.turn,
		State:         b.State().String(),
		Events:        b.Events(),
	}
}
