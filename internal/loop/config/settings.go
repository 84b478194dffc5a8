package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownVolume     = errors.New("unknown volume")
)

// Difficulty scales world speed and enemy spawn frequency.
type Difficulty struct {
	Name                    string
	SpeedMultiplier         float64 // Folded into the time scale
	SpawnIntervalMultiplier float64 // Spawn period is EnemySpawnInterval / this
}

// Difficulties in menu order.
var Difficulties = []Difficulty{
	{Name: "Easy", SpeedMultiplier: 0.75, SpawnIntervalMultiplier: 0.5},
	{Name: "Normal", SpeedMultiplier: 1.0, SpawnIntervalMultiplier: 1.0},
	{Name: "Hard", SpeedMultiplier: 1.75, SpawnIntervalMultiplier: 1.25},
}

// DefaultDifficulty is Normal.
var DefaultDifficulty = Difficulties[1]

// ParseDifficulty looks up a difficulty by name, case-insensitively.
func ParseDifficulty(name string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return DefaultDifficulty, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

// CycleDifficulty returns the difficulty step positions away from d, wrapping.
func CycleDifficulty(d Difficulty, step int) Difficulty {
	return Difficulties[cycle(indexOf(len(Difficulties), func(i int) bool {
		return Difficulties[i].Name == d.Name
	}), step, len(Difficulties))]
}

// Volume is a named audio level. It has no effect on the simulation.
type Volume string

const (
	VolumeMute   Volume = "Mute"
	VolumeLow    Volume = "Low"
	VolumeNormal Volume = "Normal"
	VolumeHigh   Volume = "High"
)

// Volumes in menu order.
var Volumes = []Volume{VolumeMute, VolumeLow, VolumeNormal, VolumeHigh}

// ParseVolume looks up a volume level by name, case-insensitively.
func ParseVolume(name string) (Volume, error) {
	for _, v := range Volumes {
		if strings.EqualFold(string(v), name) {
			return v, nil
		}
	}
	return VolumeNormal, fmt.Errorf("%w: %q", ErrUnknownVolume, name)
}

// CycleVolume returns the volume step positions away from v, wrapping.
func CycleVolume(v Volume, step int) Volume {
	return Volumes[cycle(indexOf(len(Volumes), func(i int) bool {
		return Volumes[i] == v
	}), step, len(Volumes))]
}

func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return 0
}

func cycle(i, step, n int) int {
	return ((i+step)%n + n) % n
}

// Settings are the player options chosen at startup.
type Settings struct {
	Difficulty Difficulty
	Volume     Volume
}

// LoadSettings parses difficulty and volume names. Unknown names fall back to
// the defaults and are reported together in the returned error.
func LoadSettings(difficulty, volume string) (Settings, error) {
	d, dErr := ParseDifficulty(difficulty)
	v, vErr := ParseVolume(volume)
	return Settings{Difficulty: d, Volume: v}, errors.Join(dErr, vErr)
}
