package clock

import "time"

// TimeScale converts a wall-clock frame delta into the simulation multiplier.
//
// The multiplier is Speed (difficulty) x AimFactor (while aiming) x the ratio of
// the real frame delta to the target frame time. The ratio is capped at
// MaxFrameRatio so a stalled frame cannot teleport entities.
type TimeScale struct {
	Speed         float64
	AimFactor     float64
	TargetFrame   time.Duration
	MaxFrameRatio float64
}

// Frame returns the multiplier for a frame that took delta of wall time.
// A non-positive delta (the first frame) counts as one target frame.
func (s TimeScale) Frame(delta time.Duration, aiming bool) float64 {
	return s.Dilation(aiming) * s.ratio(delta)
}

// Dilation returns the multiplier without the frame ratio.
func (s TimeScale) Dilation(aiming bool) float64 {
	scale := s.Speed
	if aiming {
		scale *= s.AimFactor
	}
	return scale
}

func (s TimeScale) ratio(delta time.Duration) float64 {
	if delta <= 0 || s.TargetFrame <= 0 {
		return 1
	}
	r := float64(delta) / float64(s.TargetFrame)
	if s.MaxFrameRatio > 0 && r > s.MaxFrameRatio {
		r = s.MaxFrameRatio
	}
	return r
}
