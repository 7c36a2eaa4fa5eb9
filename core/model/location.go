package model

// Location is a position on the simulation grid. Coordinates are bounded to
// [0, gridSize) on both axes; the zero value is the grid origin.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether the location fits a square grid of the given size.
func (l Location) InBounds(gridSize int) bool {
	return l.X >= 0 && l.Y >= 0 && l.X < gridSize && l.Y < gridSize
}

// Distance returns the Manhattan distance between a and b. It is symmetric
// and zero iff a == b.
func Distance(a, b Location) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// StepToward moves exactly one unit from `from` along a single axis toward
// `to`, never overshooting. The x difference is reduced first when non-zero,
// then y. Repeated application reaches `to` in exactly Distance(from, to)
// calls. If from == to the location is returned unchanged.
func StepToward(from, to Location) Location {
	switch {
	case from.X < to.X:
		from.X++
	case from.X > to.X:
		from.X--
	case from.Y < to.Y:
		from.Y++
	case from.Y > to.Y:
		from.Y--
	}
	return from
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
