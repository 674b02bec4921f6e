package enemy

// Roster is the live enemy collection in spawn order. It is not safe for
// concurrent use; the engine serializes access.
type Roster struct {
	enemies []Enemy
	index   map[string]int
}

func NewRoster() *Roster {
	return &Roster{index: map[string]int{}}
}

func (r *Roster) Len() int { return len(r.enemies) }

func (r *Roster) Add(e Enemy) bool {
	if _, exists := r.index[e.ID]; exists {
		return false
	}
	r.index[e.ID] = len(r.enemies)
	r.enemies = append(r.enemies, e)
	return true
}

// Get returns a pointer into the roster. It is invalidated by Remove.
func (r *Roster) Get(id string) (*Enemy, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return &r.enemies[i], true
}

func (r *Roster) Remove(id string) (Enemy, bool) {
	i, ok := r.index[id]
	if !ok {
		return Enemy{}, false
	}
	removed := r.enemies[i]
	r.enemies = append(r.enemies[:i], r.enemies[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.enemies); j++ {
		r.index[r.enemies[j].ID] = j
	}
	return removed, true
}

func (r *Roster) Clear() {
	r.enemies = nil
	r.index = map[string]int{}
}

// List returns a copy in spawn order.
func (r *Roster) List() []Enemy {
	out := make([]Enemy, len(r.enemies))
	copy(out, r.enemies)
	return out
}

// Each visits enemies in spawn order and allows in-place mutation.
func (r *Roster) Each(fn func(e *Enemy)) {
	for i := range r.enemies {
		fn(&r.enemies[i])
	}
}
