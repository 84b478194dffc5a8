package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/SpinellyA/freefall-io/internal/draw"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/loop/world"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// styles are the lipgloss styles of every text overlay.
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	item     lipgloss.Style
	selected lipgloss.Style
	hint     lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	health   lipgloss.Style
	danger   lipgloss.Style
	empty    lipgloss.Style
	dodge    lipgloss.Style
	warn     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:    r.NewStyle().Foreground(lipgloss.Color("45")).Bold(true),
		subtitle: r.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),
		item:     r.NewStyle().Foreground(lipgloss.Color("252")),
		selected: r.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("45")).Bold(true),
		hint:     r.NewStyle().Foreground(lipgloss.Color("244")),
		label:    r.NewStyle().Foreground(lipgloss.Color("244")).Bold(true),
		value:    r.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		health:   r.NewStyle().Foreground(lipgloss.Color("46")),
		danger:   r.NewStyle().Foreground(lipgloss.Color("196")),
		empty:    r.NewStyle().Foreground(lipgloss.Color("238")),
		dodge:    r.NewStyle().Foreground(lipgloss.Color("51")),
		warn:     r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}

// figlet "small"
var titleArt = []string{
	`  ___ ___ ___ ___ ___ _   _    _    `,
	` | __| _ \ __| __| __/_\ | |  | |   `,
	` | _||   / _|| _|| _/ _ \| |__| |__ `,
	` |_| |_|_\___|___|_/_/ \_\____|____|`,
}

var roundOverArt = []string{
	`  ___  ___  _   _ _  _ ___     _____   _____ ___ `,
	` | _ \/ _ \| | | | \| |   \   / _ \ \ / / __| _ \`,
	` |   / (_) | |_| | .' | |) | | (_) \ V /| _||   /`,
	` |_|_\\___/ \___/|_|\_|___/   \___/ \_/ |___|_|_\`,
}

const hudHealthWidth = 20

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString(draw.SeqClear)
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	showWorld := c.state.GameState == GameStatePlaying || c.state.GameState == GameStateDead
	var snap world.Snapshot
	if showWorld {
		snap = c.world.Snapshot()
		c.drawWorld(snap)
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// drawWorld paints the snapshot onto the canvas, back to front.
func (c *Client) drawWorld(s world.Snapshot) {
	cv := c.canvas

	for _, x := range s.Explosions {
		cv.Pen(draw.ColorOrange)
		cv.FillCircle(x.Center.X, x.Center.Y, x.Radius)
		cv.Pen(draw.ColorYellow)
		cv.DrawCircle(x.Center.X, x.Center.Y, x.Radius)
	}

	cv.Pen(draw.ColorGray)
	for _, p := range s.Trajectory {
		cv.SetFloat(p.X, p.Y)
	}

	cv.Pen(draw.ColorRed)
	for _, e := range s.Enemies {
		c.drawEnemy(e)
	}

	for _, d := range c.debris.Pieces() {
		if d.Faded() {
			cv.Pen(draw.ColorGray)
		} else {
			cv.Pen(draw.ColorOrange)
		}
		cv.SetFloat(d.Pos.X, d.Pos.Y)
	}

	cv.Pen(draw.ColorYellow)
	for _, b := range s.Bullets {
		cv.FillRect(b.X, b.Y, b.W, b.H)
	}

	cv.Pen(draw.ColorGreen)
	for _, g := range s.Grenades {
		cv.FillRect(g.X, g.Y, g.W, g.H)
	}

	p := s.Player
	if !p.Invulnerable || blinkOn(c.clock.Now(), config.InvulnerableBlinkFrequency) {
		cv.Pen(draw.ColorCyan)
		cv.FillRect(p.Box.X, p.Box.Y, p.Box.W, p.Box.H)
	}

	if s.Aiming || c.state.showReticle {
		tip := p.Center.Add(physics.FromAngleDeg(p.AimAngle, p.Box.W))
		cv.Pen(draw.ColorWhite)
		cv.DrawLine(draw.Point{X: p.Center.X, Y: p.Center.Y}, draw.Point{X: tip.X, Y: tip.Y})
	}

	if o := s.DragOrigin; o != nil && c.state.mouseAiming {
		cv.Pen(draw.ColorMagenta)
		cv.DrawRect(o.X-6, o.Y-6, 12, 12)
	}

	if c.state.showReticle {
		r := c.state.reticle
		cv.Pen(draw.ColorMagenta)
		cv.DrawLine(draw.Point{X: r.X - 10, Y: r.Y}, draw.Point{X: r.X + 10, Y: r.Y})
		cv.DrawLine(draw.Point{X: r.X, Y: r.Y - 10}, draw.Point{X: r.X, Y: r.Y + 10})
	}
}

// drawEnemy draws an arrowhead inside the enemy box pointing where it faces.
func (c *Client) drawEnemy(e world.EnemyView) {
	center := e.Box.Center()
	radius := e.Box.W / 2

	pts := c.canvas.BorrowPoints(4)
	corners := [4]physics.Vec{
		physics.FromAngleDeg(e.Facing, radius),
		physics.FromAngleDeg(e.Facing+140, radius),
		physics.FromAngleDeg(e.Facing+180, radius*0.3),
		physics.FromAngleDeg(e.Facing-140, radius),
	}
	for i, v := range corners {
		p := center.Add(v)
		pts[i] = draw.Point{X: p.X, Y: p.Y}
	}
	c.canvas.DrawPolygon(pts, true)
}

// blinkOn alternates between true and false freq times per second.
func blinkOn(now time.Time, freq float64) bool {
	return int64(float64(now.UnixMilli())*freq*2/1000)%2 == 0
}

// text writes s at the 1-based canvas position and marks the cells it covers
// so the canvas repaints them once the text is gone.
func (c *Client) text(col, row int, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() {
		return
	}
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, lipgloss.Width(s))
}

// centered writes s horizontally centered on row.
func (c *Client) centered(row int, s string) {
	col := (c.canvas.TerminalWidth()-lipgloss.Width(s))/2 + 1
	c.text(max(col, 1), row, s)
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(s world.Snapshot) {
	centerY := c.canvas.TerminalHeight() / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch c.state.GameState {
	case GameStateTitle:
		c.drawTitleScreen(centerY)
	case GameStateSettings:
		c.drawSettingsScreen(centerY)
	case GameStatePlaying:
		c.drawPlayingHUD(s)
	case GameStateDead:
		c.drawDeadScreen(centerY, s)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	st := c.styles
	c.centered(centerY-2, st.warn.Render("INACTIVITY WARNING"))

	left := int(config.InactivityDisconnectUser - c.clock.Now().Sub(c.lastInput).Seconds())
	c.centered(centerY, st.item.Render(fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0))))
	c.centered(centerY+2, st.hint.Render("Press any key to continue"))
}

func (c *Client) drawArt(top int, art []string, style lipgloss.Style) int {
	for i, line := range art {
		c.centered(top+i, style.Render(line))
	}
	return top + len(art)
}

// drawTitleScreen draws the title menu.
func (c *Client) drawTitleScreen(centerY int) {
	st := c.styles
	row := c.drawArt(centerY-8, titleArt, st.title)

	c.centered(row+1, st.subtitle.Render("~ hold the lane, throw the grenades ~"))

	items := [titleItems]string{"Play", "Settings", "Quit"}
	row += 3
	for i, label := range items {
		c.centered(row+i, menuItem(st, label, i == c.state.titleIndex))
	}
	row += len(items) + 1

	controls := []string{
		"W/S or Up/Down . . . . . . move",
		"A/D or Left/Right  . . . . dodge",
		"Mouse drag . . . . . . . . throw",
		"I J K L aim, SPACE . . . . throw",
		"ESC  . . . . . . . . . . . menu",
		"Q  . . . . . . . . . . . . quit",
	}
	for i, line := range controls {
		c.centered(row+i, st.hint.Render(line))
	}

	high := c.world.Board().High()
	c.centered(row+len(controls)+1, st.label.Render("HIGH SCORE ")+st.value.Render(fmt.Sprintf("%d", high)))
}

func menuItem(st styles, label string, selected bool) string {
	text := fmt.Sprintf("  %-10s  ", label)
	if selected {
		return st.selected.Render(text)
	}
	return st.item.Render(text)
}

// drawSettingsScreen draws the difficulty and volume pickers.
func (c *Client) drawSettingsScreen(centerY int) {
	st := c.styles
	c.centered(centerY-5, st.title.Render("SETTINGS"))

	d := c.state.Difficulty
	rows := [settingItems]string{
		fmt.Sprintf("Difficulty  < %-6s >", d.Name),
		fmt.Sprintf("Volume      < %-6s >", c.state.Volume),
		"Back",
	}
	for i, label := range rows {
		text := fmt.Sprintf("  %-24s  ", label)
		if i == c.state.settingIdx {
			text = st.selected.Render(text)
		} else {
			text = st.item.Render(text)
		}
		c.centered(centerY-2+i*2, text)
	}

	c.centered(centerY+5, st.hint.Render(fmt.Sprintf("speed x%.2f  spawn rate x%.2f", d.SpeedMultiplier, d.SpawnIntervalMultiplier)))
	c.centered(centerY+7, st.hint.Render("W/S select   A/D change   ESC back"))
}

// drawPlayingHUD draws health, dodge charges and scores.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(s world.Snapshot) {
	st := c.styles
	p := s.Player

	c.text(2, 1, st.label.Render("HP ")+healthBar(st, p.Health, p.MaxHealth)+st.value.Render(fmt.Sprintf(" %3d", p.Health)))

	var dodge strings.Builder
	for i := 0; i < p.MaxDodgeCharges; i++ {
		if i < p.DodgeCharges {
			dodge.WriteString(st.dodge.Render("◆"))
		} else {
			dodge.WriteString(st.empty.Render("◇"))
		}
	}
	c.text(2, 2, st.label.Render("DODGE ")+dodge.String())

	scores := st.label.Render("SCORE ") + st.value.Render(fmt.Sprintf("%-6d", s.Score)) +
		st.label.Render(" HIGH ") + st.value.Render(fmt.Sprintf("%-6d", s.HighScore))
	c.text(c.canvas.TerminalWidth()-lipgloss.Width(scores), 1, scores)

	diff := st.hint.Render(fmt.Sprintf("%-6s", s.Difficulty))
	if s.Aiming {
		diff = st.warn.Render("AIMING") + " " + diff
	}
	c.text(c.canvas.TerminalWidth()-lipgloss.Width(diff), 2, diff)
}

func healthBar(st styles, health, maxHealth int) string {
	filled := 0
	if maxHealth > 0 {
		filled = (health*hudHealthWidth + maxHealth - 1) / maxHealth
	}
	filled = min(max(filled, 0), hudHealthWidth)

	style := st.health
	if health*4 <= maxHealth {
		style = st.danger
	}
	return style.Render(strings.Repeat("█", filled)) + st.empty.Render(strings.Repeat("░", hudHealthWidth-filled))
}

// drawDeadScreen draws the round-over screen over the frozen world.
func (c *Client) drawDeadScreen(centerY int, s world.Snapshot) {
	st := c.styles
	row := c.drawArt(centerY-6, roundOverArt, st.danger)

	c.centered(row+1, st.label.Render("SCORE ")+st.value.Render(fmt.Sprintf("%d", c.state.finalScore)))
	c.centered(row+2, st.label.Render("HIGH  ")+st.value.Render(fmt.Sprintf("%d", s.HighScore)))
	if c.state.newHighScore {
		c.centered(row+4, st.warn.Render("NEW HIGH SCORE!"))
	}

	if c.clock.Now().UnixMilli()/600%2 == 0 {
		c.centered(row+6, st.item.Render(">>  SPACE to retry   ESC for menu  <<"))
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerY int) {
	st := c.styles
	c.centered(centerY-3, st.warn.Render("SERVER SHUTTING DOWN"))
	c.centered(centerY-1, st.item.Render("The server is restarting for maintenance."))
	c.centered(centerY, st.item.Render("Your high score has been saved."))

	remaining := int(c.state.shutdownTimer) + 1
	c.centered(centerY+2, st.hint.Render(fmt.Sprintf("Disconnecting in %d seconds...", remaining)))
	c.centered(centerY+4, st.hint.Render("Press Q to disconnect now"))
}
