package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/SpinellyA/freefall-io/internal/desktop"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/loop/world"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

var (
	backgroundColor = color.RGBA{0x10, 0x10, 0x18, 0xff}
	playerColor     = color.RGBA{0x00, 0xd7, 0xff, 0xff}
	enemyColor      = color.RGBA{0xe0, 0x30, 0x30, 0xff}
	bulletColor     = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	grenadeColor    = color.RGBA{0x30, 0xd0, 0x50, 0xff}
	blastFillColor  = color.RGBA{0xff, 0x87, 0x00, 0x90}
	blastEdgeColor  = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	trajectoryColor = color.RGBA{0x80, 0x80, 0x80, 0xff}
	healthColor     = color.RGBA{0x30, 0xd0, 0x50, 0xff}
	dangerColor     = color.RGBA{0xe0, 0x30, 0x30, 0xff}
	dimColor        = color.RGBA{0x60, 0x60, 0x60, 0xff}
	accentColor     = color.RGBA{0xff, 0x5f, 0xd7, 0xff}
)

// Game adapts a desktop.Session to ebiten.
type Game struct {
	session *desktop.Session
	face    font.Face
	fillImg *ebiten.Image
	fillVs  []ebiten.Vertex
	fillIs  []uint16
}

func newGame(s *desktop.Session) *Game {
	fillImg := ebiten.NewImage(1, 1)
	fillImg.Fill(color.White)
	return &Game{
		session: s,
		face:    basicfont.Face7x13,
		fillImg: fillImg,
	}
}

func (g *Game) Update() error {
	if !g.session.Update(readFrame()) {
		return ebiten.Termination
	}
	return nil
}

func readFrame() desktop.Frame {
	x, y := ebiten.CursorPosition()
	return desktop.Frame{
		Up:      ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:    ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		UpTap:   inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp),
		DownTap: inpututil.IsKeyJustPressed(ebiten.KeyS) || inpututil.IsKeyJustPressed(ebiten.KeyArrowDown),
		Left:    inpututil.IsKeyJustPressed(ebiten.KeyA) || inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft),
		Right:   inpututil.IsKeyJustPressed(ebiten.KeyD) || inpututil.IsKeyJustPressed(ebiten.KeyArrowRight),
		Confirm: inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Back:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		Cursor:  physics.Vec{X: float64(x), Y: float64(y)},
		Press:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Release: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	switch g.session.Phase() {
	case desktop.PhaseTitle:
		g.drawTitle(screen)
	case desktop.PhasePlaying:
		s := g.session.Snapshot()
		g.drawWorld(screen, s)
		g.drawHUD(screen, s)
	case desktop.PhaseOver:
		s := g.session.Snapshot()
		g.drawWorld(screen, s)
		g.drawOver(screen, s)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

func (g *Game) drawWorld(screen *ebiten.Image, s world.Snapshot) {
	for _, x := range s.Explosions {
		vector.DrawFilledCircle(screen, float32(x.Center.X), float32(x.Center.Y), float32(x.Radius), blastFillColor, true)
		vector.StrokeCircle(screen, float32(x.Center.X), float32(x.Center.Y), float32(x.Radius), 2, blastEdgeColor, true)
	}

	for _, p := range s.Trajectory {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 2, trajectoryColor, true)
	}

	for _, e := range s.Enemies {
		g.drawEnemy(screen, e)
	}
	for _, d := range g.session.Debris() {
		clr := blastFillColor
		if d.Faded() {
			clr = trajectoryColor
		}
		vector.DrawFilledRect(screen, float32(d.Pos.X)-1, float32(d.Pos.Y)-1, 3, 3, clr, false)
	}
	for _, b := range s.Bullets {
		fillBox(screen, b, bulletColor)
	}
	for _, gr := range s.Grenades {
		fillBox(screen, gr, grenadeColor)
	}

	p := s.Player
	if !p.Invulnerable || blinkOn(time.Now()) {
		fillBox(screen, p.Box, playerColor)
	}

	if s.Aiming {
		tip := p.Center.Add(physics.FromAngleDeg(p.AimAngle, p.Box.W))
		vector.StrokeLine(screen, float32(p.Center.X), float32(p.Center.Y), float32(tip.X), float32(tip.Y), 2, color.White, true)
		if s.DragOrigin != nil {
			o := *s.DragOrigin
			vector.StrokeCircle(screen, float32(o.X), float32(o.Y), 6, 1, accentColor, true)
		}
	}
}

func blinkOn(now time.Time) bool {
	return now.UnixMilli()*int64(config.InvulnerableBlinkFrequency*2)/1000%2 == 0
}

// drawEnemy fills an arrowhead pointing where the enemy faces.
func (g *Game) drawEnemy(screen *ebiten.Image, e world.EnemyView) {
	center := e.Box.Center()
	radius := e.Box.W / 2
	corners := [4]physics.Vec{
		physics.FromAngleDeg(e.Facing, radius),
		physics.FromAngleDeg(e.Facing+140, radius),
		physics.FromAngleDeg(e.Facing+180, radius*0.3),
		physics.FromAngleDeg(e.Facing-140, radius),
	}

	path := vector.Path{}
	for i, v := range corners {
		p := center.Add(v)
		if i == 0 {
			path.MoveTo(float32(p.X), float32(p.Y))
		} else {
			path.LineTo(float32(p.X), float32(p.Y))
		}
	}
	path.Close()

	g.fillVs, g.fillIs = path.AppendVerticesAndIndicesForFilling(g.fillVs[:0], g.fillIs[:0])
	for i := range g.fillVs {
		g.fillVs[i].ColorR = float32(enemyColor.R) / 255
		g.fillVs[i].ColorG = float32(enemyColor.G) / 255
		g.fillVs[i].ColorB = float32(enemyColor.B) / 255
		g.fillVs[i].ColorA = float32(enemyColor.A) / 255
	}
	screen.DrawTriangles(g.fillVs, g.fillIs, g.fillImg, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
}

func fillBox(screen *ebiten.Image, b physics.Box, clr color.Color) {
	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), clr, false)
}

func (g *Game) centered(screen *ebiten.Image, y int, s string, clr color.Color) {
	w := text.BoundString(g.face, s).Dx()
	text.Draw(screen, s, g.face, (config.ScreenWidth-w)/2, y, clr)
}

func (g *Game) drawTitle(screen *ebiten.Image) {
	mid := config.ScreenHeight / 2
	g.centered(screen, mid-80, "F R E E F A L L", playerColor)
	g.centered(screen, mid-20, fmt.Sprintf("< Difficulty: %s >", g.session.Difficulty().Name), color.White)
	g.centered(screen, mid+5, fmt.Sprintf("Volume: %s  (W/S)", g.session.Volume()), color.White)
	g.centered(screen, mid+50, "Enter to play, Esc to quit", dimColor)
	g.centered(screen, mid+75, "W/S move  A/D dodge  drag the mouse to throw", dimColor)
}

func (g *Game) drawHUD(screen *ebiten.Image, s world.Snapshot) {
	const barW, barH = 200, 12

	p := s.Player
	clr := healthColor
	if p.MaxHealth > 0 && p.Health*4 <= p.MaxHealth {
		clr = dangerColor
	}
	vector.StrokeRect(screen, 10, 10, barW, barH, 1, color.White, false)
	if p.MaxHealth > 0 {
		vector.DrawFilledRect(screen, 11, 11, float32(barW-2)*float32(p.Health)/float32(p.MaxHealth), barH-2, clr, false)
	}

	for i := range p.MaxDodgeCharges {
		x := float32(10 + barW + 20 + i*18)
		if i < p.DodgeCharges {
			vector.DrawFilledCircle(screen, x, 16, 6, playerColor, true)
		} else {
			vector.StrokeCircle(screen, x, 16, 6, 1, dimColor, true)
		}
	}

	text.Draw(screen, fmt.Sprintf("SCORE %d  HIGH %d", s.Score, s.HighScore), g.face, config.ScreenWidth-200, 21, color.White)
	text.Draw(screen, s.Difficulty, g.face, 10, config.ScreenHeight-10, dimColor)
}

func (g *Game) drawOver(screen *ebiten.Image, s world.Snapshot) {
	vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, color.RGBA{0, 0, 0, 0xa0}, false)

	mid := config.ScreenHeight / 2
	score, newHigh := g.session.FinalScore()
	g.centered(screen, mid-40, "ROUND OVER", dangerColor)
	g.centered(screen, mid, fmt.Sprintf("Score: %d", score), color.White)
	if newHigh {
		g.centered(screen, mid+25, "New high score!", accentColor)
	} else {
		g.centered(screen, mid+25, fmt.Sprintf("High score: %d", s.HighScore), dimColor)
	}
	g.centered(screen, mid+70, "Enter to retry, Esc for the title", dimColor)
}
