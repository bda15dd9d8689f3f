package surface

import "gonum.org/v1/gonum/spatial/r2"

// Propagate lowers the clearance of every unblocked cell to the distance of
// the nearest position in blocked, if that is nearer than its current value.
//
// Cost is O(len(blocked) * len(cells)). Obstacles arrive one at a time, so
// blocked is small per call and no spatial index is kept. Clearance never
// increases here; raising it requires ResetDistanceField.
func Propagate(cells []Cell, blocked []r2.Vec) {
	if len(blocked) == 0 {
		return
	}
	for i := range cells {
		c := &cells[i]
		if c.Blocked {
			continue
		}
		for _, b := range blocked {
			if d := r2.Norm(r2.Sub(c.Position, b)); d < c.Clearance {
				c.Clearance = d
			}
		}
	}
}
