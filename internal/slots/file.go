package slots

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const fileExt = ".sav"

// FileStore keeps each slot in <dir>/<slot>.sav.
type FileStore struct {
	Range
	dir string
}

// NewFileStore creates dir if needed and returns a store with count slots.
func NewFileStore(dir string, count int) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("slots: empty save directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("slots: create %s: %w", dir, err)
	}
	return &FileStore{Range: Range{Count: count}, dir: dir}, nil
}

// Path returns the file backing slot.
func (s *FileStore) Path(slot int) string {
	return filepath.Join(s.dir, strconv.Itoa(slot)+fileExt)
}

// Put writes blob to a temporary file and renames it over the slot, so an
// interrupted save leaves the previous one intact.
func (s *FileStore) Put(ctx context.Context, slot int, blob []byte) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+strconv.Itoa(slot)+fileExt+"-*")
	if err != nil {
		return fmt.Errorf("slots: put %d: %w", slot, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("slots: put %d: %w", slot, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("slots: put %d: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("slots: put %d: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(slot)); err != nil {
		return fmt.Errorf("slots: put %d: %w", slot, err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, slot int) ([]byte, error) {
	if err := s.Check(slot); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("slots: get %d: %w", slot, err)
	}
	return blob, nil
}

func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("slots: list: %w", err)
	}
	var out []Info
	for _, ent := range entries {
		name := ent.Name()
		if ent.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		slot, err := strconv.Atoi(strings.TrimSuffix(name, fileExt))
		if err != nil || s.Check(slot) != nil {
			continue
		}
		fi, err := ent.Info()
		if err != nil {
			continue // removed while listing
		}
		out = append(out, Info{Slot: slot, Size: int(fi.Size()), SavedAt: fi.ModTime().UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, slot int) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrSlotEmpty
	}
	if err != nil {
		return fmt.Errorf("slots: delete %d: %w", slot, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
