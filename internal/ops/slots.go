package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"spaceclicker/internal/save"
)

// ExportSlot writes one slot as indented JSON.
func ExportSlot(ctx context.Context, repo save.Repository, slot string, w io.Writer) error {
	s, err := repo.Load(ctx, slot)
	if err != nil {
		return fmt.Errorf("export %q: %w", slot, err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ImportSlot reads a JSON save and stores it under slot. Malformed input is
// rejected with save.ErrCorruptSave before anything is written.
func ImportSlot(ctx context.Context, repo save.Repository, slot string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s, err := save.Decode(b)
	if err != nil {
		return fmt.Errorf("import %q: %w", slot, err)
	}
	return repo.Store(ctx, slot, s)
}

// CopySlots copies every slot from one store to another, overwriting slots
// of the same name, and returns the names copied.
func CopySlots(ctx context.Context, from, to save.Repository) ([]string, error) {
	infos, err := from.List(ctx)
	if err != nil {
		return nil, err
	}
	copied := make([]string, 0, len(infos))
	for _, info := range infos {
		s, err := from.Load(ctx, info.Slot)
		if err != nil {
			return copied, fmt.Errorf("load %q: %w", info.Slot, err)
		}
		if err := to.Store(ctx, info.Slot, s); err != nil {
			return copied, fmt.Errorf("store %q: %w", info.Slot, err)
		}
		copied = append(copied, info.Slot)
	}
	return copied, nil
}
