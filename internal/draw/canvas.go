package draw

import (
	"bytes"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
//
// Render only writes cells that changed since the previous Render, so text
// overlays written over canvas cells must be reported with MarkTextDirty.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	pen            Color   // Color used by drawing operations

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Last rendered cell per terminal position, for diffing
	prev      []cell
	textDirty []bool
	redraw    bool

	// Reusable buffers to reduce allocations
	renderBuf       bytes.Buffer
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// cell is the pair of sub-pixels shown by one terminal character.
type cell struct {
	top, bottom Color
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		pen:           ColorWhite,
	}
	c.allocate(termWidth, termHeight)
	return c
}

func (c *Canvas) allocate(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]Color, c.subPixelHeight*termWidth)
	c.prev = make([]cell, termWidth*termHeight)
	c.textDirty = make([]bool, termWidth*termHeight)
	c.redraw = true
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.allocate(termWidth, termHeight)
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render write every cell.
func (c *Canvas) ForceRedraw() {
	c.redraw = true
}

// MarkTextDirty records that n cells starting at the 1-based canvas position
// (col, row) were overwritten by text, so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for i := 0; i < n; i++ {
		x := col - 1 + i
		if x >= 0 && x < c.termWidth {
			c.textDirty[r*c.termWidth+x] = true
		}
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Pen sets the color used by subsequent drawing operations.
func (c *Canvas) Pen(col Color) {
	c.pen = col
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = c.pen
	}
}

// PixelAt returns the color of the sub-pixel at terminal pixel coordinates.
func (c *Canvas) PixelAt(x, y int) Color {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return ColorNone
}

// Set sets a pixel at logical coordinates (applies scaling).
func (c *Canvas) Set(x, y int) {
	c.SetFloat(float64(x), float64(y))
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	c.setPixel(px, py)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1 := int(math.Floor(p1.X * c.scaleX))
	y1 := int(math.Floor(p1.Y * c.scaleY))
	x2 := int(math.Floor(p2.X * c.scaleX))
	y2 := int(math.Floor(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillRect fills the logical rectangle with top-left (x, y). Any rectangle that
// overlaps the canvas covers at least one pixel.
func (c *Canvas) FillRect(x, y, w, h float64) {
	x0 := int(math.Floor(x * c.scaleX))
	x1 := int(math.Ceil((x+w)*c.scaleX)) - 1
	y0 := int(math.Floor(y * c.scaleY))
	y1 := int(math.Ceil((y+h)*c.scaleY)) - 1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	for py := max(y0, 0); py <= y1 && py < c.subPixelHeight; py++ {
		for px := max(x0, 0); px <= x1 && px < c.termWidth; px++ {
			c.setPixel(px, py)
		}
	}
}

// DrawRect outlines the logical rectangle with top-left (x, y).
func (c *Canvas) DrawRect(x, y, w, h float64) {
	c.DrawPolygon([]Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}, false)
}

// DrawCircle outlines a circle of logical radius r around (cx, cy).
func (c *Canvas) DrawCircle(cx, cy, r float64) {
	if r <= 0 {
		c.SetFloat(cx, cy)
		return
	}
	steps := int(2 * math.Pi * r * math.Max(c.scaleX, c.scaleY))
	if steps < 12 {
		steps = 12
	}
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.SetFloat(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
}

// FillCircle fills a circle of logical radius r around (cx, cy), sampling each
// pixel at its center.
func (c *Canvas) FillCircle(cx, cy, r float64) {
	if r <= 0 {
		return
	}
	y0 := int(math.Floor((cy - r) * c.scaleY))
	y1 := int(math.Ceil((cy + r) * c.scaleY))
	for py := max(y0, 0); py <= y1 && py < c.subPixelHeight; py++ {
		dy := (float64(py)+0.5)/c.scaleY - cy
		if math.Abs(dy) > r {
			continue
		}
		half := math.Sqrt(r*r - dy*dy)
		x0 := int(math.Ceil((cx-half)*c.scaleX - 0.5))
		x1 := int(math.Floor((cx+half)*c.scaleX - 0.5))
		for px := max(x0, 0); px <= x1 && px < c.termWidth; px++ {
			c.setPixel(px, py)
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n])
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// Render writes every cell that changed since the last Render (or every cell
// after ForceRedraw) using colored half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	style := ""
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			i := row*c.termWidth + col
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			if !c.redraw && !c.textDirty[i] && c.prev[i] == cur {
				continue
			}
			c.prev[i] = cur
			c.textDirty[i] = false

			s, ch := cur.glyph()
			c.renderBuf.WriteString("\033[")
			c.renderBuf.WriteString(strconv.Itoa(row + 1 + c.offsetRow))
			c.renderBuf.WriteByte(';')
			c.renderBuf.WriteString(strconv.Itoa(col + 1 + c.offsetCol))
			c.renderBuf.WriteByte('H')
			if s != style {
				c.renderBuf.WriteString(s)
				style = s
			}
			c.renderBuf.WriteRune(ch)
		}
	}
	if style != "" {
		c.renderBuf.WriteString(ResetStyle)
	}
	c.redraw = false

	writeChunks(w, c.renderBuf.Bytes())
}

// glyph picks the style and half-block character showing both sub-pixels.
func (cl cell) glyph() (style string, ch rune) {
	switch {
	case cl.top == ColorNone && cl.bottom == ColorNone:
		return Style(ColorNone, ColorNone), BlockEmpty
	case cl.top == cl.bottom:
		return Style(cl.top, ColorNone), BlockFull
	case cl.bottom == ColorNone:
		return Style(cl.top, ColorNone), BlockUpperHalf
	case cl.top == ColorNone:
		return Style(cl.bottom, ColorNone), BlockLowerHalf
	default:
		return Style(cl.top, cl.bottom), BlockUpperHalf
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	moveTo := func(row, col int) {
		buf.WriteString("\033[")
		buf.WriteString(strconv.Itoa(row))
		buf.WriteByte(';')
		buf.WriteString(strconv.Itoa(col))
		buf.WriteByte('H')
	}

	if hasV {
		if hasH {
			moveTo(top, left)
			buf.WriteString("┌" + line + "┐")
			moveTo(bottom, left)
			buf.WriteString("└" + line + "┘")
		} else {
			moveTo(top, c.offsetCol+1)
			buf.WriteString(line)
			moveTo(bottom, c.offsetCol+1)
			buf.WriteString(line)
		}
	}

	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			moveTo(row, left)
			buf.WriteString("│")
			moveTo(row, right)
			buf.WriteString("│")
		}
	}

	io.WriteString(w, buf.String())
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based canvas position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 1-based screen position, as reported by the
// terminal (offset included), to the logical coordinates of that cell's center.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	px := float64(col-1-c.offsetCol) + 0.5
	py := float64((row-1-c.offsetRow)*2) + 1
	return px / c.scaleX, py / c.scaleY
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
