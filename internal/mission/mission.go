package mission

import "time"

// Kind categorizes the progress events a mission listens to.
type Kind string

const (
	KindKill            Kind = "kill"
	KindWaveClear       Kind = "waveClear"
	KindResourceCollect Kind = "resourceCollect"
	KindUpgrade         Kind = "upgrade"
)

func (k Kind) Valid() bool {
	switch k {
	case KindKill, KindWaveClear, KindResourceCollect, KindUpgrade:
		return true
	}
	return false
}

// Reward is the bundle granted when a completed mission is claimed.
type Reward struct {
	Currencies map[string]int `json:"currencies"`
	XP         int            `json:"xp,omitempty"`
}

// Mission is a daily objective of one kind.
type Mission struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Kind        Kind      `json:"kind"`
	Target      int       `json:"target"`
	Progress    int       `json:"progress"`
	Reward      Reward    `json:"reward"`
	Completed   bool      `json:"completed"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// add never decreases progress and never passes the target.
func (m *Mission) add(amount int) bool {
	if m.Completed || amount <= 0 {
		return false
	}
	m.Progress = min(m.Progress+amount, m.Target)
	if m.Progress >= m.Target {
		m.Completed = true
	}
	return true
}

func (m Mission) clone() Mission {
	cur := make(map[string]int, len(m.Reward.Currencies))
	for k, v := range m.Reward.Currencies {
		cur[k] = v
	}
	m.Reward.Currencies = cur
	return m
}
