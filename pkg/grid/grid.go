// Package grid models cells of a planner grid and the unit moves between them.
package grid

import "fmt"

// Position is a grid cell.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String renders the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is the heading of a single step between two consecutive positions.
type Direction int

// Direction values. Undefined covers every delta that is not exactly one unit step
// along a single axis: waiting in place, diagonal moves and multi-cell jumps.
const (
	Undefined Direction = iota
	Up
	Down
	Left
	Right
)

var directionNames = [...]string{
	Undefined: "undefined",
	Up:        "up",
	Down:      "down",
	Left:      "left",
	Right:     "right",
}

// String returns the lower-case direction name.
func (d Direction) String() string {
	if d < Undefined || int(d) >= len(directionNames) {
		return directionNames[Undefined]
	}

	return directionNames[d]
}

// Step classifies the move from one position to the next. Deltas are only taken
// in the direction of the ordered coordinates, so extreme values cannot wrap into
// a unit step.
func Step(from, to Position) Direction {
	switch {
	case from.X == to.X && to.Y > from.Y && to.Y-from.Y == 1:
		return Up
	case from.X == to.X && from.Y > to.Y && from.Y-to.Y == 1:
		return Down
	case from.Y == to.Y && to.X > from.X && to.X-from.X == 1:
		return Right
	case from.Y == to.Y && from.X > to.X && from.X-to.X == 1:
		return Left
	default:
		return Undefined
	}
}
