package save

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileRepo keeps one JSON document per slot under a data directory.
type FileRepo struct {
	mu  sync.RWMutex
	dir string
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileRepo{dir: dataDir}, nil
}

func (r *FileRepo) Dir() string { return r.dir }

func (r *FileRepo) path(slot string) string {
	return filepath.Join(r.dir, slotName(slot)+".json")
}

func slotName(slot string) string {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return "default"
	}
	return filepath.Base(slot)
}

func (r *FileRepo) Load(ctx context.Context, slot string) (Save, error) {
	if err := ctx.Err(); err != nil {
		return Save{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, err := os.ReadFile(r.path(slot))
	if err != nil {
		if os.IsNotExist(err) {
			return Save{}, ErrNotFound
		}
		return Save{}, err
	}
	return Decode(b)
}

func (r *FileRepo) Store(ctx context.Context, slot string, s Save) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.path(slot)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (r *FileRepo) List(ctx context.Context) ([]SlotInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	out := make([]SlotInfo, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(m)
		if err != nil {
			return nil, err
		}
		s, err := Decode(b)
		if err != nil {
			continue
		}
		out = append(out, s.Info(strings.TrimSuffix(filepath.Base(m), ".json")))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (r *FileRepo) Delete(ctx context.Context, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(slot))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// Decode parses a stored save, reporting malformed data as ErrCorruptSave.
func Decode(b []byte) (Save, error) {
	var s Save
	if err := json.Unmarshal(b, &s); err != nil {
		return Save{}, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if s.Version > CurrentVersion {
		return Save{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptSave, s.Version)
	}
	return s, nil
}
