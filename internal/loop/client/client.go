// Package client runs one terminal session: menus, a world to play in, input
// decoding and rendering.
package client

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"github.com/SpinellyA/freefall-io/internal/audio"
	"github.com/SpinellyA/freefall-io/internal/clock"
	"github.com/SpinellyA/freefall-io/internal/draw"
	"github.com/SpinellyA/freefall-io/internal/input"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/loop/world"
	"github.com/SpinellyA/freefall-io/internal/object"
	"github.com/SpinellyA/freefall-io/internal/physics"
	"github.com/SpinellyA/freefall-io/internal/score"
)

const (
	reticleStartHeight = 150.0 // Logical units above the lane center
	reticleSpeed       = 10.0  // Logical units per frame while an aim key is held
)

// volumeSetter is implemented by audio players with adjustable volume.
type volumeSetter interface {
	SetVolume(v config.Volume)
}

// Client handles rendering and input for a single terminal.
type Client struct {
	world        *world.World
	state        *State
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	clock        clock.Clock
	audio        audio.Player
	debris       *object.DebrisField
	mouse        bool
	styles       styles
	log          *log.Logger
	session      string
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Difficulty   config.Difficulty // Zero value means config.DefaultDifficulty
	Volume       config.Volume     // Empty means config.VolumeNormal
	Board        *score.Board      // Shared high score; defaults to in-memory
	Audio        audio.Player      // Defaults to audio.Nop
	Clock        clock.Clock
	Logger       *log.Logger
	Mouse        bool // Enable SGR mouse tracking for drag-to-aim
	Username     string
}

// New creates a client that reads key presses from r and draws to w.
func New(r *bufio.Reader, w io.Writer, opts Options) *Client {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Difficulty.Name == "" {
		opts.Difficulty = config.DefaultDifficulty
	}
	if opts.Volume == "" {
		opts.Volume = config.VolumeNormal
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	session := uuid.NewString()
	logger := opts.Logger.With("session", session)
	if opts.Username != "" {
		logger = logger.With("user", opts.Username)
	}
	if opts.Board == nil {
		opts.Board = score.NewBoard(&score.MemoryStore{}, logger)
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := opts.TermSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ScreenWidth, config.ScreenHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.ANSI256)

	wld := world.New(world.Options{
		Difficulty: opts.Difficulty,
		Clock:      opts.Clock,
		Board:      opts.Board,
		Logger:     logger,
	})

	return &Client{
		world:        wld,
		state:        NewState(opts.Difficulty, opts.Volume),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    opts.Clock.Now(),
		termSizeFunc: opts.TermSizeFunc,
		clock:        opts.Clock,
		audio:        opts.Audio,
		debris:       object.NewDebrisField(rand.New(rand.NewSource(opts.Clock.Now().UnixNano()))),
		mouse:        opts.Mouse,
		styles:       newStyles(renderer),
		log:          logger,
		session:      session,
	}
}

// Session returns the id that tags this client's log lines.
func (c *Client) Session() string {
	return c.session
}

// Run starts the client loop. It blocks until the player quits, the input
// ends or, after ctx is cancelled, the shutdown notice has been shown.
func (c *Client) Run(ctx context.Context) error {
	defer draw.EnterScreen(c.writer, c.mouse)()

	c.log.Info("session started", "difficulty", c.state.Difficulty.Name, "volume", c.state.Volume)
	lastTime := c.clock.Now()

	for c.state.Running {
		frameStart := c.clock.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		if ctx.Err() != nil && c.state.GameState != GameStateShutdown {
			c.beginShutdown()
		}

		c.processInput()
		c.updateScreen()
		c.update()

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	if c.state.GameState == GameStatePlaying {
		c.world.Board().Commit()
	}
	c.log.Info("session ended", "high", c.world.Board().High())
	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	c.trackActivity()
}

func (c *Client) trackActivity() {
	in := c.state.Input
	idle := c.clock.Now().Sub(c.lastInput).Seconds()
	switch {
	case len(in.Pressed) > 0:
		c.lastInput = c.clock.Now()
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.log.Info("disconnecting inactive session")
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
	}

	if in.Quit || in.Closed {
		c.state.Running = false
	}
}

// update advances the current screen by one frame.
func (c *Client) update() {
	switch c.state.GameState {
	case GameStateTitle:
		c.updateTitleState()
	case GameStateSettings:
		c.updateSettingsState()
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateDead:
		c.updateDeadState()
	case GameStateShutdown:
		c.updateShutdownState()
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

func menuStep(in input.Input) int {
	switch {
	case in.Tapped(input.KeyUp):
		return -1
	case in.Tapped(input.KeyDown):
		return 1
	}
	return 0
}

func confirmed(in input.Input) bool {
	return in.Tapped(input.KeySpace) || in.Tapped(input.KeyEnter)
}

// updateTitleState moves through the title menu.
func (c *Client) updateTitleState() {
	in := c.state.Input
	c.state.titleIndex = wrap(c.state.titleIndex+menuStep(in), titleItems)
	if !confirmed(in) {
		return
	}
	switch c.state.titleIndex {
	case titlePlay:
		c.startRound()
	case titleSettings:
		c.state.settingIdx = settingDifficulty
		c.state.GameState = GameStateSettings
	case titleQuit:
		c.state.Running = false
	}
}

// updateSettingsState cycles difficulty and volume.
func (c *Client) updateSettingsState() {
	in := c.state.Input
	c.state.settingIdx = wrap(c.state.settingIdx+menuStep(in), settingItems)

	step := 0
	switch {
	case in.Tapped(input.KeyLeft):
		step = -1
	case in.Tapped(input.KeyRight):
		step = 1
	}

	switch c.state.settingIdx {
	case settingDifficulty:
		if step != 0 {
			c.setDifficulty(config.CycleDifficulty(c.state.Difficulty, step))
		}
	case settingVolume:
		if step != 0 {
			c.setVolume(config.CycleVolume(c.state.Volume, step))
		}
	case settingBack:
		if confirmed(in) {
			c.state.GameState = GameStateTitle
		}
	}
	if in.Tapped(input.KeyEscape) {
		c.state.GameState = GameStateTitle
	}
}

func (c *Client) setDifficulty(d config.Difficulty) {
	c.state.Difficulty = d
	c.world.SetDifficulty(d)
	c.log.Debug("difficulty changed", "difficulty", d.Name)
}

func (c *Client) setVolume(v config.Volume) {
	c.state.Volume = v
	if vs, ok := c.audio.(volumeSetter); ok {
		vs.SetVolume(v)
	}
	c.log.Debug("volume changed", "volume", v)
}

// startRound starts a fresh round.
func (c *Client) startRound() {
	input.ResetKeyInput(c.inputStream)
	c.world.Board().Refresh()
	c.world.NewRound()
	c.debris.Clear()
	c.state.resetAim()
	c.state.newHighScore = false
	c.state.GameState = GameStatePlaying
}

// updatePlayingState steps the world with this frame's intents.
func (c *Client) updatePlayingState() {
	if c.state.Input.Tapped(input.KeyEscape) {
		c.world.Board().Commit()
		c.state.GameState = GameStateTitle
		return
	}

	c.world.Step(c.intents())
	c.debris.Update(c.world.TimeScale())
	c.handleEvents(c.world.DrainEvents())
}

func (c *Client) handleEvents(events []world.Event) {
	audio.PlayEvents(c.audio, events)
	for _, ev := range events {
		switch ev.Type {
		case world.EventEnemyKilled:
			c.debris.Burst(ev.Pos, config.DebrisPerKill)
		case world.EventPlayerHit:
			c.debris.Burst(ev.Pos, config.DebrisPerHit)
		case world.EventPlayerDied:
			c.state.finalScore = ev.Score
			c.state.resetAim()
			c.state.GameState = GameStateDead
			c.log.Info("player died", "score", ev.Score, "difficulty", c.state.Difficulty.Name)
		case world.EventHighScore:
			c.state.newHighScore = true
			c.log.Info("new high score", "score", ev.Score)
		}
	}
}

// intents translates this frame's keys and mouse reports into world intents.
func (c *Client) intents() world.Intents {
	in := c.state.Input
	st := c.state
	out := world.Intents{
		MoveUp:     in.Up,
		MoveDown:   in.Down,
		DodgeLeft:  in.Tapped(input.KeyLeft),
		DodgeRight: in.Tapped(input.KeyRight),
		Quit:       in.Quit,
	}

	for _, m := range in.Mouse {
		x, y := c.canvas.TerminalToLogical(m.Col, m.Row)
		pos := clampToScreen(physics.Vec{X: x, Y: y})
		st.reticle = pos
		st.showReticle = false
		switch {
		case m.Kind == input.MouseMove:
			out.Pointer = append(out.Pointer, world.PointerEvent{Kind: world.PointerMoved, Pos: pos})
		case m.Kind == input.MousePress && m.Button == 0:
			st.mouseAiming = true
			st.keyAiming = false
			out.Pointer = append(out.Pointer, world.PointerEvent{Kind: world.AimStarted, Pos: pos})
		case m.Kind == input.MouseRelease && st.mouseAiming:
			st.mouseAiming = false
			out.Pointer = append(out.Pointer, world.PointerEvent{Kind: world.AimReleased, Pos: pos})
		}
	}

	var dir physics.Vec
	if in.AimUp {
		dir.Y--
	}
	if in.AimDown {
		dir.Y++
	}
	if in.AimLeft {
		dir.X--
	}
	if in.AimRight {
		dir.X++
	}
	if dir != (physics.Vec{}) {
		st.reticle = clampToScreen(st.reticle.Add(dir.Scale(reticleSpeed)))
		st.showReticle = true
		out.Pointer = append(out.Pointer, world.PointerEvent{Kind: world.PointerMoved, Pos: st.reticle})
	}

	if in.Tapped(input.KeySpace) && !st.mouseAiming {
		st.showReticle = true
		kind := world.AimStarted
		if st.keyAiming {
			kind = world.AimReleased
		}
		st.keyAiming = !st.keyAiming
		out.Pointer = append(out.Pointer, world.PointerEvent{Kind: kind, Pos: st.reticle})
	}
	return out
}

func clampToScreen(p physics.Vec) physics.Vec {
	return physics.Vec{
		X: physics.Clamp(p.X, 0, config.ScreenWidth),
		Y: physics.Clamp(p.Y, 0, config.ScreenHeight),
	}
}

// updateDeadState waits for a restart or a return to the title.
func (c *Client) updateDeadState() {
	in := c.state.Input
	switch {
	case confirmed(in):
		c.startRound()
	case in.Tapped(input.KeyEscape):
		c.state.GameState = GameStateTitle
	}
}

// beginShutdown commits any round in progress and starts the disconnect countdown.
func (c *Client) beginShutdown() {
	if c.state.GameState == GameStatePlaying {
		c.world.Board().Commit()
	}
	c.state.GameState = GameStateShutdown
	c.state.shutdownTimer = config.ShutdownDisplaySeconds
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
