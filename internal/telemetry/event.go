package telemetry

import "time"

type EventType string

const (
	EventWaveStarted      EventType = "wave_started"
	EventWaveCompleted    EventType = "wave_completed"
	EventEnemyDestroyed   EventType = "enemy_destroyed"
	EventEnemyLeaked      EventType = "enemy_leaked"
	EventClick            EventType = "click"
	EventLevelUp          EventType = "level_up"
	EventUnlocked         EventType = "unlocked"
	EventPurchase         EventType = "purchase"
	EventUpgrade          EventType = "upgrade"
	EventInstall          EventType = "install"
	EventMissionCompleted EventType = "mission_completed"
	EventMissionClaimed   EventType = "mission_claimed"
	EventMissionsRefresh  EventType = "missions_refreshed"
	EventOfflineApplied   EventType = "offline_applied"
	EventSaved            EventType = "saved"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
