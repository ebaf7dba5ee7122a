// Package audio plays the laugh sting.
package audio

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Laugh shape: a few falling "ha" syllables.
const (
	syllables     = 4
	syllableLen   = 90 * time.Millisecond
	syllableGap   = 45 * time.Millisecond
	baseFreq      = 330.0
	freqFalloff   = 0.88
	stingVolume   = 0.4
	attackLen     = 8 * time.Millisecond
	releaseLen    = 40 * time.Millisecond
	bellMinPeriod = 250 * time.Millisecond
)

// Sink plays a sting at a pitch multiplier around 1.0.
type Sink interface {
	Sting(pitch float64)
}

// Silent discards every sting.
type Silent struct{}

// Sting does nothing.
func (Silent) Sting(float64) {}

// Speaker synthesizes stings on the local sound card.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	closed bool
}

// NewSpeaker initializes the speaker and starts the mixer.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	s := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

// Sting queues one laugh on the mixer.
func (s *Speaker) Sting(pitch float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	speaker.Lock()
	s.mixer.Add(NewLaugh(sampleRate, pitch))
	speaker.Unlock()
}

// Close silences the mixer.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.closed = true
}

// Bell rings the terminal bell, for sessions that have no speaker.
type Bell struct {
	mu   sync.Mutex
	w    io.Writer
	last time.Time
}

// NewBell creates a bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Sting rings the bell. Stings closer together than a quarter second ring once.
func (b *Bell) Sting(float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	if now.Sub(b.last) < bellMinPeriod {
		return
	}
	b.last = now
	_, _ = b.w.Write([]byte{'\a'})
}

// New picks a sink by name: "speaker", "bell" or "off". A speaker that fails
// to start falls back to silence.
func New(kind string, w io.Writer, logger *log.Logger) Sink {
	switch kind {
	case "speaker":
		s, err := NewSpeaker()
		if err != nil {
			if logger != nil {
				logger.Warn("audio disabled", "err", err)
			}
			return Silent{}
		}
		return s
	case "bell":
		if w == nil {
			return Silent{}
		}
		return NewBell(w)
	default:
		return Silent{}
	}
}

// NewLaugh builds the sting streamer at the given pitch multiplier.
func NewLaugh(rate beep.SampleRate, pitch float64) beep.Streamer {
	if pitch <= 0 {
		pitch = 1
	}
	parts := make([]beep.Streamer, 0, syllables*2)
	freq := baseFreq * pitch
	for i := 0; i < syllables; i++ {
		osc := newOscillator(freq, syllableLen, rate)
		parts = append(parts, newEnvelope(osc, syllableLen, attackLen, releaseLen, rate))
		parts = append(parts, beep.Silence(rate.N(syllableGap)))
		freq *= freqFalloff
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   math.Log2(stingVolume),
	}
}

// oscillator generates a square-ish wave, bright enough to read as a voice.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

func newOscillator(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, duration: rate.N(duration), rate: rate}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		// Sine plus a third harmonic
		val := 0.75*math.Sin(2*math.Pi*o.phase) + 0.25*math.Sin(6*math.Pi*o.phase)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in and out.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; remaining < e.release {
			vol = math.Max(0, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }
