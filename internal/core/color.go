package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// PlayerColors are assigned to tanks in turn order and wrap around.
var PlayerColors = []Color{ColorBrightCyan, ColorBrightMagenta, ColorBrightGreen, ColorOrange}

// PlayerColor returns the color for the tank at index i.
func PlayerColor(i int) Color {
	if i < 0 {
		i = -i
	}
	return PlayerColors[i%len(PlayerColors)]
}
