// Package battle runs two-trainer battles: turn ownership, action dispatch,
// faint handling, climate and termination.
package battle

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
	"github.com/cory-johannsen/battlesim/internal/game/typechart"
)

// ErrNotReady is returned when a trainer has no standing active combatant at battle start.
var ErrNotReady = errors.New("trainer has no active combatant")

// State is the battle's position in its turn cycle.
type State int

const (
	AwaitingPlayer1 State = iota
	AwaitingPlayer2
	Finished
)

func (s State) String() string {
	switch s {
	case AwaitingPlayer1:
		return "awaiting_player1"
	case AwaitingPlayer2:
		return "awaiting_player2"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Climate is the battle-wide weather and its remaining turns.
type Climate struct {
	ID    string `yaml:"id,omitempty"`
	Turns int    `yaml:"turns,omitempty"`
}

// Progress is the turn-cycle state of a battle, enough to resume it.
type Progress struct {
	// Current is the side whose turn it is: 1 or 2.
	Current  int     `yaml:"current"`
	Finished bool    `yaml:"finished"`
	Climate  Climate `yaml:"climate"`
	Turn     int     `yaml:"turn"`
}

// Option configures a Battle.
type Option func(*Battle)

// WithChart sets the type chart; the default lists no pairs, so every matchup is neutral.
func WithChart(c *typechart.Chart) Option { return func(b *Battle) { b.chart = c } }

// WithRand sets the random source used for accuracy rolls and strategy choices.
func WithRand(src dice.Source) Option { return func(b *Battle) { b.rand = src } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(b *Battle) { b.logger = l } }

// WithMaxTurns finishes the battle after n turn handoffs; 0 means unlimited.
func WithMaxTurns(n int) Option { return func(b *Battle) { b.maxTurns = n } }

// Battle is one fight between two trainers. It is not safe for concurrent
// use; Engine serializes access per battle.
type Battle struct {
	trainers [2]*roster.Trainer
	current  int
	finished bool
	climate  Climate
	turn     int

	chart    *typechart.Chart
	rand     dice.Source
	logger   *zap.Logger
	maxTurns int

	events []string
}

// New starts a battle with t1 to move.
//
// Precondition: both trainers must have a standing active combatant.
// Postcondition: State() == AwaitingPlayer1.
func New(t1, t2 *roster.Trainer, opts ...Option) (*Battle, error) {
	if t1 == nil || t2 == nil {
		return nil, fmt.Errorf("battle needs two trainers")
	}
	for _, t := range []*roster.Trainer{t1, t2} {
		if a := t.Active(); a == nil || a.Fainted() {
			return nil, fmt.Errorf("%s: %w", t.Name, ErrNotReady)
		}
	}
	return Resume(t1, t2, Progress{Current: 1}, opts...)
}

// Resume rebuilds a battle at the given progress.
//
// Precondition: p.Current is 1 or 2; in an unfinished battle each side must
// have an in-range active index and a member still standing. A human's
// fainted active combatant is a legal mid-battle state; they must switch.
func Resume(t1, t2 *roster.Trainer, p Progress, opts ...Option) (*Battle, error) {
	if t1 == nil || t2 == nil {
		return nil, fmt.Errorf("battle needs two trainers")
	}
	if p.Current != 1 && p.Current != 2 {
		return nil, fmt.Errorf("current side must be 1 or 2, got %d", p.Current)
	}
	if !p.Finished {
		for _, t := range []*roster.Trainer{t1, t2} {
			if t.Active() == nil || t.Team.AllFainted() {
				return nil, fmt.Errorf("%s: %w", t.Name, ErrNotReady)
			}
		}
	}
	b := &Battle{
		trainers: [2]*roster.Trainer{t1, t2},
		current:  p.Current - 1,
		finished: p.Finished,
		climate:  p.Climate,
		turn:     p.Turn,
	}
	for _, o := range opts {
		o(b)
	}
	if b.chart == nil {
		b.chart = typechart.New(nil)
	}
	if b.rand == nil {
		b.rand = dice.NewCryptoSource()
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b, nil
}

// Progress returns the turn-cycle state.
func (b *Battle) Progress() Progress {
	return Progress{Current: b.current + 1, Finished: b.finished, Climate: b.climate, Turn: b.turn}
}

// State returns the battle's position in its turn cycle.
func (b *Battle) State() State {
	if b.finished {
		return Finished
	}
	if b.current == 0 {
		return AwaitingPlayer1
	}
	return AwaitingPlayer2
}

// Player returns trainer 1 or 2, or nil.
func (b *Battle) Player(n int) *roster.Trainer {
	if n != 1 && n != 2 {
		return nil
	}
	return b.trainers[n-1]
}

// Current returns the trainer whose turn it is.
func (b *Battle) Current() *roster.Trainer { return b.trainers[b.current] }

// Turn returns the number of completed turn handoffs.
func (b *Battle) Turn() int { return b.turn }

// Opponent implements roster.View.
func (b *Battle) Opponent(self *roster.Trainer) *roster.Trainer {
	if self == b.trainers[0] {
		return b.trainers[1]
	}
	return b.trainers[0]
}

// Climate implements creature.Env and roster.View.
func (b *Battle) Climate() string { return b.climate.ID }

// ClimateTurns returns the remaining turns of the current climate.
func (b *Battle) ClimateTurns() int { return b.climate.Turns }

// SetClimate implements creature.Env.
func (b *Battle) SetClimate(id string, turns int) { b.climate = Climate{ID: id, Turns: turns} }

// Rand implements creature.Env and roster.View.
func (b *Battle) Rand() dice.Source { return b.rand }

// Chart implements creature.Env.
func (b *Battle) Chart() *typechart.Chart { return b.chart }

// Narrate implements creature.Env.
func (b *Battle) Narrate(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.events = append(b.events, msg)
	b.logger.Debug("battle event", zap.String("event", msg))
}

// Events returns the narrative produced by the last action.
func (b *Battle) Events() []string {
	out := make([]string, len(b.events))
	copy(out, b.events)
	return out
}

// PerformAction carries out a human trainer's action for the current side.
//
// Postcondition: returns action.ErrIllegalTurn, leaving the battle unchanged,
// when the battle is finished or the current trainer is CPU controlled. Any
// other error also leaves the battle unchanged and keeps the turn.
func (b *Battle) PerformAction(a action.Action) error {
	if b.finished {
		return fmt.Errorf("battle is over: %w", action.ErrIllegalTurn)
	}
	cur := b.Current()
	if cur.IsCPU() {
		return fmt.Errorf("%s is CPU controlled: %w", cur.Name, action.ErrIllegalTurn)
	}
	b.events = nil
	if err := b.execute(cur, a); err != nil {
		return err
	}
	b.afterAction(cur)
	return nil
}

// ExecuteCpuTurn asks the current CPU trainer's strategy for an action and
// carries it out. A rejected strategy action is replaced by Struggle.
//
// Postcondition: returns action.ErrIllegalTurn, leaving the battle unchanged,
// when the battle is finished or the current trainer is human.
func (b *Battle) ExecuteCpuTurn() error {
	if b.finished {
		return fmt.Errorf("battle is over: %w", action.ErrIllegalTurn)
	}
	cur := b.Current()
	if !cur.IsCPU() {
		return fmt.Errorf("%s is not CPU controlled: %w", cur.Name, action.ErrIllegalTurn)
	}
	b.events = nil
	a := cur.Strategy.DecideAction(cur, b)
	if a == nil {
		a = action.Struggle()
	}
	if err := b.execute(cur, a); err != nil {
		b.logger.Warn("strategy action rejected, using struggle",
			zap.String("trainer", cur.Name),
			zap.String("strategy", cur.Strategy.Name()),
			zap.Stringer("action", a),
			zap.Error(err),
		)
		if err := b.execute(cur, action.Struggle()); err != nil {
			return err
		}
	}
	b.afterAction(cur)
	return nil
}

// execute dispatches a to the trainer. On error nothing has changed.
func (b *Battle) execute(cur *roster.Trainer, a action.Action) error {
	switch v := a.(type) {
	case action.Attack:
		active := cur.Active()
		if active == nil {
			return fmt.Errorf("%s has no active combatant: %w", cur.Name, action.ErrInvalidAction)
		}
		if active.Fainted() {
			b.Narrate("%s has fainted and cannot attack", active.Name)
			break
		}
		if _, err := active.Attack(v.MoveIndex, b.Opponent(cur).Active(), b); err != nil {
			return err
		}
	case action.UseItem:
		item, _ := cur.Items.At(v.ItemIndex)
		n, err := cur.UseItem(v.ItemIndex, v.TargetIndex)
		if err != nil {
			return err
		}
		b.Narrate("%s used %s on %s (+%d hp)", cur.Name, item.Name, cur.Team.Member(v.TargetIndex).Name, n)
	case action.Switch:
		if err := cur.Team.Switch(v.TargetIndex); err != nil {
			return err
		}
		b.Narrate("%s sent out %s", cur.Name, cur.Active().Name)
	default:
		return fmt.Errorf("unknown action %T: %w", a, action.ErrInvalidAction)
	}
	b.logger.Debug("action executed",
		zap.String("trainer", cur.Name),
		zap.Stringer("action", a),
		zap.Int("turn", b.turn),
	)
	return nil
}

// afterAction runs the shared post-action pipeline: faint handling for both
// sides, climate decay, then the turn handoff and the incoming side's
// start-of-turn upkeep.
func (b *Battle) afterAction(cur *roster.Trainer) {
	b.checkFaint(b.Opponent(cur))
	b.checkFaint(cur)

	if b.climate.ID != "" {
		b.climate.Turns--
		if b.climate.Turns <= 0 {
			b.Narrate("the %s subsided", b.climate.ID)
			b.climate = Climate{}
		}
	}

	if b.finished {
		return
	}
	b.current = 1 - b.current
	b.turn++
	if b.maxTurns > 0 && b.turn >= b.maxTurns {
		b.Narrate("the turn limit was reached")
		b.finish()
		return
	}

	next := b.Current()
	if active := next.Active(); active != nil && !active.Fainted() {
		active.ProcessStartOfTurnEffects(b)
		b.checkFaint(next)
	}
}

// checkFaint clamps a fainted active combatant, finishes the battle when its
// whole team is down, and otherwise sends in a CPU trainer's next member.
func (b *Battle) checkFaint(t *roster.Trainer) {
	active := t.Active()
	if active == nil || active.HP > 0 {
		return
	}
	active.HP = 0
	b.Narrate("%s fainted", active.Name)
	if t.Team.AllFainted() {
		t.Team.ClearActive()
		b.finish()
		return
	}
	if t.IsCPU() {
		if idx := t.Team.FindHealthy(); idx >= 0 {
			if err := t.Team.Switch(idx); err == nil {
				b.Narrate("%s sent out %s", t.Name, t.Active().Name)
			}
		}
	}
}

func (b *Battle) finish() {
	if b.finished {
		return
	}
	b.finished = true
	winner := "draw"
	if w, _ := b.Winner(); w != nil {
		winner = w.Name
	}
	b.logger.Info("battle finished",
		zap.String("player1", b.trainers[0].Name),
		zap.String("player2", b.trainers[1].Name),
		zap.String("winner", winner),
		zap.Int("turns", b.turn),
	)
}

// Winner returns the trainer with a standing team, or nil for a draw.
//
// Postcondition: returns action.ErrIllegalTurn while the battle is still running.
func (b *Battle) Winner() (*roster.Trainer, error) {
	if !b.finished {
		return nil, fmt.Errorf("battle is not over: %w", action.ErrIllegalTurn)
	}
	up1 := !b.trainers[0].Team.AllFainted()
	up2 := !b.trainers[1].Team.AllFainted()
	switch {
	case up1 && !up2:
		return b.trainers[0], nil
	case up2 && !up1:
		return b.trainers[1], nil
	}
	return nil, nil
}

var _ creature.Env = (*Battle)(nil)
var _ roster.View = (*Battle)(nil)
