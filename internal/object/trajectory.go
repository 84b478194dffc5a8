package object

import (
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// TrajectoryPreview samples the closed-form arc a grenade launched from origin at
// angleDeg with the given power would follow.
func TrajectoryPreview(origin physics.Vec, angleDeg, power float64) []physics.Vec {
	v := physics.FromAngleDeg(angleDeg, power)
	points := make([]physics.Vec, 0, config.TrajectorySteps/config.TrajectoryStride)
	for i := 0; i < config.TrajectorySteps; i += config.TrajectoryStride {
		t := float64(i) * config.TrajectoryTimeStep
		points = append(points, physics.Vec{
			X: origin.X + v.X*t,
			Y: origin.Y + v.Y*t + 0.5*config.Gravity*t*t,
		})
	}
	return points
}
