// Package audio sounds a simulated buzzer on the host speaker.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Speaker plays a continuous tone while the buzzer pin is high.
type Speaker struct {
	mu          sync.Mutex
	freq        float64
	ctrl        *beep.Ctrl
	initialized bool
}

func NewSpeaker(freq float64) *Speaker {
	if freq <= 0 {
		freq = 2000
	}
	return &Speaker{freq: freq}
}

// Init opens the audio device and starts the paused tone.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(20*time.Millisecond)); err != nil {
		return err
	}
	tone, err := generators.SineTone(sampleRate, s.freq)
	if err != nil {
		return err
	}
	s.ctrl = &beep.Ctrl{Streamer: tone, Paused: true}
	speaker.Play(s.ctrl)
	s.initialized = true
	return nil
}

// Set follows the buzzer pin level. It is a no-op before Init.
func (s *Speaker) Set(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = !on
	speaker.Unlock()
}

func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	s.initialized = false
}
