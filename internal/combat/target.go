// Package combat selects targets and schedules automatic fire.
package combat

import "spaceclicker/internal/enemy"

// Nearest returns the index of the enemy closest to (x, y) whose distance is
// strictly below radius scaled by its SizeScale. Exact ties keep the first
// enemy found. It returns -1 when nothing is in range.
func Nearest(enemies []enemy.Enemy, x, y, radius float64) int {
	best := -1
	bestDist := 0.0
	for i, e := range enemies {
		scale := e.SizeScale
		if scale <= 0 {
			scale = 1
		}
		d := e.DistanceTo(x, y)
		if d >= radius*scale {
			continue
		}
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// MostAdvanced returns the index of the enemy furthest along the travel axis
// (largest Y), first found on ties, or -1 for an empty list.
func MostAdvanced(enemies []enemy.Enemy) int {
	best := -1
	for i, e := range enemies {
		if best == -1 || e.Position.Y > enemies[best].Position.Y {
			best = i
		}
	}
	return best
}
