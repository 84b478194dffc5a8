// Package draw renders logical game coordinates onto an ANSI terminal using
// half-block characters, and batches the output for slow links.
package draw

import "strconv"

// Point represents a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockLight     = '░'
)

// ResetStyle restores default terminal colors.
const ResetStyle = "\033[0m"

// Color is a canvas pixel color. ColorNone is an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorGray
	ColorOrange
)

// ANSI SGR parameters per color, foreground and background.
var (
	fgCodes = [...]string{"39", "97", "91", "92", "93", "94", "95", "96", "90", "38;5;208"}
	bgCodes = [...]string{"49", "107", "101", "102", "103", "104", "105", "106", "100", "48;5;208"}
)

// Style returns the SGR sequence selecting fg on bg.
func Style(fg, bg Color) string {
	return "\033[0;" + fgCode(fg) + ";" + bgCode(bg) + "m"
}

func fgCode(c Color) string {
	if int(c) < len(fgCodes) {
		return fgCodes[c]
	}
	return "38;5;" + strconv.Itoa(int(c))
}

func bgCode(c Color) string {
	if int(c) < len(bgCodes) {
		return bgCodes[c]
	}
	return "48;5;" + strconv.Itoa(int(c))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
