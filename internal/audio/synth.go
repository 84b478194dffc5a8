package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// wave is an oscillator shape.
type wave int

const (
	waveSine wave = iota
	waveSquare
	waveNoise
)

// tone is a fixed-frequency oscillator that ends after a number of samples.
type tone struct {
	freq     float64
	phase    float64
	length   int
	position int
	shape    wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newTone(freq float64, d time.Duration, shape wave, rate beep.SampleRate) *tone {
	return &tone{
		freq:   freq,
		length: rate.N(d),
		shape:  shape,
		rate:   rate,
		rng:    rand.New(rand.NewSource(int64(freq*1000) + 1)),
	}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}

		var v float64
		switch o.shape {
		case waveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case waveNoise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

// fade shapes a streamer with a linear attack and an exponential tail.
type fade struct {
	streamer beep.Streamer
	position int
	attack   int
	decay    float64 // Per-sample multiplier after the attack
}

func newFade(s beep.Streamer, attack, halfLife time.Duration, rate beep.SampleRate) *fade {
	hl := rate.N(halfLife)
	if hl < 1 {
		hl = 1
	}
	return &fade{
		streamer: s,
		attack:   rate.N(attack),
		decay:    math.Pow(0.5, 1/float64(hl)),
	}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		var gain float64
		if f.position < f.attack {
			gain = float64(f.position) / float64(f.attack)
		} else {
			gain = math.Pow(f.decay, float64(f.position-f.attack))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// withVolume scales s by a linear gain. Zero or less is silent.
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// note is a short shaped tone.
func note(freq float64, d time.Duration, shape wave, rate beep.SampleRate) beep.Streamer {
	return newFade(newTone(freq, d, shape, rate), 5*time.Millisecond, d/4, rate)
}

// cueStreamer synthesizes the sound for c at full volume.
func cueStreamer(c Cue, rate beep.SampleRate) beep.Streamer {
	switch c {
	case CueThrow:
		return withVolume(note(300, 90*time.Millisecond, waveNoise, rate), 0.3)
	case CueKill:
		return beep.Mix(
			withVolume(note(140, 250*time.Millisecond, waveNoise, rate), 0.5),
			withVolume(note(70, 250*time.Millisecond, waveSine, rate), 0.6),
		)
	case CueHit:
		return withVolume(note(110, 150*time.Millisecond, waveSquare, rate), 0.35)
	case CueDodge:
		return beep.Seq(
			withVolume(note(660, 40*time.Millisecond, waveSine, rate), 0.4),
			withVolume(note(880, 60*time.Millisecond, waveSine, rate), 0.4),
		)
	case CueDeath:
		return beep.Seq(
			withVolume(note(392, 150*time.Millisecond, waveSquare, rate), 0.3),
			withVolume(note(262, 150*time.Millisecond, waveSquare, rate), 0.3),
			withVolume(note(131, 400*time.Millisecond, waveSquare, rate), 0.3),
		)
	case CueHighScore:
		return beep.Seq(
			withVolume(note(988, 80*time.Millisecond, waveSine, rate), 0.5),
			withVolume(note(1319, 200*time.Millisecond, waveSine, rate), 0.5),
		)
	}
	return nil
}
