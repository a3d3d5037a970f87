package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/battlesim/internal/savegame"
)

// ErrSaveNotFound is returned when a save slot holds no row. It matches
// savegame.ErrNotFound under errors.Is.
var ErrSaveNotFound = fmt.Errorf("battle save: %w", savegame.ErrNotFound)

// SaveRecord is one row of battle_saves without the encoded payload.
type SaveRecord struct {
	Slot      string
	Mode      string
	Player1   string
	Player2   string
	Turn      int
	Finished  bool
	UpdatedAt time.Time
}

// SaveRepository stores battle saves in the battle_saves table. The save
// itself is kept as its YAML encoding; the summary columns exist for listing.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Put writes s into slot, replacing any earlier save.
//
// Precondition: slot passes savegame.ValidateSlot.
func (r *SaveRepository) Put(ctx context.Context, slot string, s *savegame.Save) error {
	if err := savegame.ValidateSlot(slot); err != nil {
		return err
	}
	data, err := savegame.Encode(s)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO battle_saves (slot, mode, player1, player2, turn, finished, data, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 ON CONFLICT (slot) DO UPDATE SET
		   mode = EXCLUDED.mode, player1 = EXCLUDED.player1, player2 = EXCLUDED.player2,
		   turn = EXCLUDED.turn, finished = EXCLUDED.finished, data = EXCLUDED.data,
		   updated_at = NOW()`,
		slot, string(s.Mode), s.Player1.Name, s.Player2.Name, s.Progress.Turn, s.Progress.Finished, string(data),
	)
	if err != nil {
		return fmt.Errorf("upserting save %q: %w", slot, err)
	}
	return nil
}

// Get loads the save in slot.
//
// Postcondition: Returns the decoded save or ErrSaveNotFound.
func (r *SaveRepository) Get(ctx context.Context, slot string) (*savegame.Save, error) {
	var data string
	err := r.db.QueryRow(ctx, `SELECT data FROM battle_saves WHERE slot = $1`, slot).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("slot %q: %w", slot, ErrSaveNotFound)
		}
		return nil, fmt.Errorf("querying save %q: %w", slot, err)
	}
	return savegame.Decode([]byte(data))
}

// List returns the occupied slots, sorted.
func (r *SaveRepository) List(ctx context.Context) ([]string, error) {
	records, err := r.Records(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Slot)
	}
	return out, nil
}

// Records returns a summary of every save, sorted by slot.
func (r *SaveRepository) Records(ctx context.Context) ([]SaveRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT slot, mode, player1, player2, turn, finished, updated_at
		 FROM battle_saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		var rec SaveRecord
		if err := rows.Scan(&rec.Slot, &rec.Mode, &rec.Player1, &rec.Player2, &rec.Turn, &rec.Finished, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating save rows: %w", err)
	}
	return out, nil
}

// Delete removes the save in slot.
//
// Postcondition: Returns ErrSaveNotFound when the slot was empty.
func (r *SaveRepository) Delete(ctx context.Context, slot string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM battle_saves WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("deleting save %q: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("slot %q: %w", slot, ErrSaveNotFound)
	}
	return nil
}

var _ savegame.Store = (*SaveRepository)(nil)
