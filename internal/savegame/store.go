package savegame

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Store persists saves by slot name.
type Store interface {
	Put(ctx context.Context, slot string, s *Save) error
	// Get returns ErrNotFound, possibly wrapped, for an empty slot.
	Get(ctx context.Context, slot string) (*Save, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, slot string) error
}

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateSlot rejects slot names that are empty, too long, or not safe as a file name.
func ValidateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("invalid save slot %q: use letters, digits, '-' or '_'", slot)
	}
	return nil
}

const fileExt = ".yaml"

// FileStore keeps one YAML file per slot under a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, creating it when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save dir %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(slot string) string { return filepath.Join(f.dir, slot+fileExt) }

// Put writes s to the slot, replacing any earlier save. The write goes to a
// temporary file first so a crash never leaves a truncated save.
func (f *FileStore) Put(_ context.Context, slot string, s *Save) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, slot+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing save %q: %w", slot, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing save %q: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing save %q: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), f.path(slot)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing save %q: %w", slot, err)
	}
	return nil
}

// Get reads the save in slot.
func (f *FileStore) Get(_ context.Context, slot string) (*Save, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("slot %q: %w", slot, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading save %q: %w", slot, err)
	}
	return Decode(data)
}

// List returns the occupied slots, sorted.
func (f *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("listing saves in %q: %w", f.dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(out)
	return out, nil
}

// Delete removes the slot. Deleting an empty slot returns ErrNotFound.
func (f *FileStore) Delete(_ context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	err := os.Remove(f.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("slot %q: %w", slot, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting save %q: %w", slot, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
