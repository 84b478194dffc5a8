// Package config centralizes all tunable game parameters.
package config

import "time"

// Logical screen - entities use these coordinates; y grows downward.
// Terminal and window renderers scale this to fit.
const (
	ScreenWidth  = 800
	ScreenHeight = 600
)

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	MaxFrameRatio   = 3.0 // Cap on wall delta / target frame for one step
	AimTimeScale    = 0.4 // World slowdown while aiming
)

// Player
const (
	PlayerWidth     = 60
	PlayerHeight    = 100
	MaxHealth       = 100
	MovementPadding = 25
	CenterPull      = 0.001 // Spring pulling the offset back to the lane center
	MoveSpeed       = 0.6   // Velocity added per frame of held movement
	VelocityDamping = 0.9   // Per-frame velocity decay
	AimDragFactor   = 0.2   // Offset integration damping while aiming
	InitialAimAngle = -90.0
)

// Dodge
const (
	MaxDodgeCharges         = 2
	DodgeStep               = 10.0
	DodgeReadyDelay         = 200 * time.Millisecond
	DodgeRechargeCooldown   = 1000 * time.Millisecond
	InvulnerabilityDuration = 1000 * time.Millisecond
)

// Bullets
const (
	BulletSize   = 8
	BulletSpeed  = 3.0
	BulletDamage = 10
)

// Grenades
const (
	GrenadeSize  = 10
	GrenadePower = 10.0
	Gravity      = 0.3
)

// Enemies
const (
	EnemySize          = 60
	EnemySpeed         = 1.0
	EnemyShootCooldown = 2000 * time.Millisecond
	EnemySpawnInterval = 1000 * time.Millisecond
	EnemySpawnMargin   = 50
	EnemySafeZone      = 100 // Half-width of the spawn-free band around the lane
	EnemySpawnDepthMin = 20
	EnemySpawnDepthMax = 100
)

// Explosions
const (
	ExplosionMaxRadius = 80.0
	ExplosionLifetime  = 30.0 // Frames at time scale 1
	ExplosionPush      = 10.0 // One-time positional push on enemies
	ExplosionNudge     = 2.0  // Per-frame vertical velocity nudge on the player
	ExplosionsEnabled  = true
)

// Scoring
const (
	ScorePerGrenadeHit = 1
)

// Collision broad phase. Must be >= the largest interaction distance
// (explosion radius, or enemy + grenade half extents).
const CollisionGridCellSize = 100.0

// Trajectory preview
const (
	TrajectorySteps    = 60
	TrajectoryStride   = 2
	TrajectoryTimeStep = 0.1
)

// Presentation
const (
	InvulnerableBlinkFrequency = 10.0 // Hz
	DebrisPerKill              = 12
	DebrisPerHit               = 5
	DebrisSpeed                = 4.0  // Units per frame
	DebrisLifetime             = 24.0 // Frames at time scale 1
	DebrisDrag                 = 0.92 // Per-frame velocity decay
	DefaultHighScorePath       = "highscore.txt"
)

// Client rendering
const (
	ClientTargetFPS       = TargetFPS
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 200
	MaxTermHeight         = 60
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
