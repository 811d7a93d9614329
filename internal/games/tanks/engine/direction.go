package engine

// Direction is one of the four cardinal directions.
// North decreases the row, East increases the column.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the cardinal directions in probing order.
var Directions = [4]Direction{North, East, South, West}

// String returns the single-letter compass name.
func (d Direction) String() string {
	switch d {
	case North:
		return "n"
	case East:
		return "e"
	case South:
		return "s"
	case West:
		return "w"
	default:
		return "?"
	}
}

// Opposite returns the mirrored direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	default:
		return East
	}
}
