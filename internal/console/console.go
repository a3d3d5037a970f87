// Package console plays a battle on a line-oriented terminal. Human turns
// read one command per line; CPU turns run automatically.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/battle"
	"github.com/cory-johannsen/battlesim/internal/game/command"
	"github.com/cory-johannsen/battlesim/internal/savegame"
)

// ErrQuit is returned by Run when the player quits before the battle ends.
var ErrQuit = errors.New("quit")

// Console drives one battle held by an Engine.
type Console struct {
	engine     *battle.Engine
	store      savegame.Store
	strategies savegame.Strategies
	logger     *zap.Logger
	commands   *command.Registry
	out        io.Writer
	handle     battle.Handle
}

// New creates a Console for the battle h.
//
// Precondition: every argument must be non-nil and h must be held by engine.
func New(engine *battle.Engine, h battle.Handle, store savegame.Store, strategies savegame.Strategies, out io.Writer, logger *zap.Logger) *Console {
	return &Console{
		engine:     engine,
		handle:     h,
		store:      store,
		strategies: strategies,
		commands:   command.DefaultRegistry(),
		out:        out,
		logger:     logger,
	}
}

// Handle returns the battle currently being played.
func (c *Console) Handle() battle.Handle { return c.handle }

// Run plays until the battle is over or the player leaves. EOF on in counts
// as quitting.
//
// Postcondition: returns nil when the battle finished, ErrQuit on quit,
// ctx.Err() on cancellation, or an unexpected engine error.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := bufio.NewScanner(in)
	snap, err := c.engine.Snapshot(c.handle)
	if err != nil {
		return err
	}
	c.printf("%s vs %s\n", snap.Player1Name, snap.Player2Name)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if snap.State == battle.Finished.String() {
			return c.announce()
		}
		if !snap.IsHumanTurn {
			if snap, err = c.engine.ExecuteCpuTurn(c.handle); err != nil {
				return err
			}
			c.events(snap)
			continue
		}
		if err := c.status(); err != nil {
			return err
		}
		c.printf("%s> ", snap.CurrentPlayer)
		if !lines.Scan() {
			if err := lines.Err(); err != nil {
				return err
			}
			return ErrQuit
		}
		next, err := c.command(ctx, lines.Text())
		switch {
		case errors.Is(err, ErrQuit):
			return err
		case err != nil:
			c.printf("%v\n", err)
			continue
		case next != nil:
			snap = *next
			c.events(snap)
		}
	}
}

// command executes one input line. A nil snapshot with nil error means the
// battle did not advance.
func (c *Console) command(ctx context.Context, line string) (*battle.Snapshot, error) {
	p := command.Parse(line)
	if p.Command == "" {
		return nil, nil
	}
	cmd, ok := c.commands.Resolve(p.Command)
	if !ok {
		return nil, fmt.Errorf("unknown command %q, try help", p.Command)
	}
	switch cmd.Handler {
	case command.HandlerQuit:
		return nil, ErrQuit
	case command.HandlerHelp:
		c.printf("%s\n", c.commands.Help())
		return nil, nil
	case command.HandlerStatus:
		return nil, c.status()
	case command.HandlerSave:
		if len(p.Args) != 1 {
			return nil, fmt.Errorf("usage: save SLOT")
		}
		return nil, c.save(ctx, p.Args[0])
	case command.HandlerLoad:
		if len(p.Args) != 1 {
			return nil, fmt.Errorf("usage: load SLOT")
		}
		snap, err := c.load(ctx, p.Args[0])
		if err != nil {
			return nil, err
		}
		return &snap, nil
	}
	a, err := command.ToAction(cmd, p.Args)
	if err != nil {
		return nil, err
	}
	snap, err := c.engine.PerformAction(c.handle, a)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Console) save(ctx context.Context, slot string) error {
	var s *savegame.Save
	if err := c.engine.With(c.handle, func(b *battle.Battle) error {
		var err error
		s, err = savegame.Capture(b)
		return err
	}); err != nil {
		return err
	}
	if err := c.store.Put(ctx, slot, s); err != nil {
		return err
	}
	c.printf("saved to %s\n", slot)
	return nil
}

func (c *Console) load(ctx context.Context, slot string) (battle.Snapshot, error) {
	s, err := c.store.Get(ctx, slot)
	if err != nil {
		return battle.Snapshot{}, err
	}
	b, err := savegame.Restore(s, c.strategies, c.engine.Options()...)
	if err != nil {
		return battle.Snapshot{}, err
	}
	c.engine.End(c.handle)
	c.handle = c.engine.Adopt(b)
	c.logger.Info("battle loaded", zap.String("slot", slot), zap.String("battle", c.handle.String()))
	c.printf("loaded %s\n", slot)
	return b.Snapshot(), nil
}

func (c *Console) status() error {
	return c.engine.With(c.handle, func(b *battle.Battle) error {
		cur := b.Current()
		foe := b.Opponent(cur).Active()
		if foe != nil {
			c.printf("  foe: %s\n", describe(foe.Name, foe.HP, foe.MaxHP, foe.Status))
		}
		if cl := b.Climate(); cl != "" {
			c.printf("  climate: %s (%d turns)\n", cl, b.ClimateTurns())
		}
		for i, m := range cur.Team.Members {
			mark := " "
			if i == cur.Team.Active {
				mark = "*"
			}
			c.printf(" %s%d %s\n", mark, i+1, describe(m.Name, m.HP, m.MaxHP, m.Status))
		}
		if act := cur.Active(); act != nil {
			for i, mv := range act.Moves {
				c.printf("  move %d: %s (%s) pp %d/%d\n", i+1, mv.Name, mv.Type, mv.PP, mv.MaxPP)
			}
		}
		for i, it := range cur.Items.Items() {
			c.printf("  item %d: %s\n", i+1, it.Item.Name)
		}
		return nil
	})
}

func describe(name string, hp, maxHP int, status string) string {
	s := fmt.Sprintf("%s %d/%d", name, hp, maxHP)
	if status != "" {
		s += " [" + status + "]"
	}
	return s
}

func (c *Console) events(snap battle.Snapshot) {
	for _, e := range snap.Events {
		c.printf("%s\n", e)
	}
}

func (c *Console) announce() error {
	w, err := c.engine.Winner(c.handle)
	if err != nil {
		return err
	}
	if w == nil {
		c.printf("the battle ends in a draw\n")
		return nil
	}
	c.printf("%s wins!\n", w.Name)
	return nil
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
