// Package save defines the persisted game layout and its stores.
package save

import (
	"context"
	"errors"
	"time"

	"spaceclicker/internal/arsenal"
	"spaceclicker/internal/ledger"
	"spaceclicker/internal/mission"
	"spaceclicker/internal/offline"
	"spaceclicker/internal/telemetry"
)

const CurrentVersion = 1

var (
	ErrNotFound    = errors.New("save not found")
	ErrCorruptSave = errors.New("corrupt save")
)

// Save is everything that survives a restart. Live enemies and the wave phase
// are never stored; a loaded game always resumes idle.
type Save struct {
	Version    int    `json:"version"`
	Variant    string `json:"variant"`
	Difficulty string `json:"difficulty,omitempty"`

	Progression ledger.Progression    `json:"progression"`
	Wallet      ledger.Wallet         `json:"wallet"`
	Wave        int                   `json:"wave"`
	Catalog     arsenal.Catalog       `json:"catalog"`
	Clicks      arsenal.ClickUpgrades `json:"clicks"`
	Missions    mission.Tracker       `json:"missions"`
	Stats       telemetry.Stats       `json:"stats"`
	Throughput  offline.Snapshot      `json:"throughput"`

	// Packs counts shop packs bought, by id.
	Packs map[string]int `json:"packs,omitempty"`

	SavedAt time.Time `json:"saved_at"`
}

// Repository stores saves by slot name.
type Repository interface {
	Load(ctx context.Context, slot string) (Save, error)
	Store(ctx context.Context, slot string, s Save) error
	List(ctx context.Context) ([]SlotInfo, error)
	Delete(ctx context.Context, slot string) error
}

type SlotInfo struct {
	Slot    string    `json:"slot"`
	Wave    int       `json:"wave"`
	Level   int       `json:"level"`
	SavedAt time.Time `json:"saved_at"`
}

func (s Save) Info(slot string) SlotInfo {
	return SlotInfo{Slot: slot, Wave: s.Wave, Level: s.Progression.Level, SavedAt: s.SavedAt}
}

// Clone returns a deep copy.
func (s Save) Clone() Save {
	out := s
	out.Wallet = s.Wallet.Clone()
	out.Catalog = s.Catalog.Clone()
	out.Missions = s.Missions.Clone()
	out.Stats = s.Stats.Clone()
	out.Packs = make(map[string]int, len(s.Packs))
	for k, v := range s.Packs {
		out.Packs[k] = v
	}
	return out
}
