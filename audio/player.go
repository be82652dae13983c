package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/hitgrid/parameter"
)

// Player mixes cues onto the speaker
// Calls before Init or after Close are ignored, so a disabled player is safe to use
type Player struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
	played      [CueCount]int
}

// NewPlayer creates an idle player
func NewPlayer() *Player {
	return &Player{
		rate:  beep.SampleRate(parameter.CueSampleRate),
		mixer: &beep.Mixer{},
	}
}

// Init opens the speaker and starts the mixer
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues one cue
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || c < 0 || c >= CueCount {
		return
	}
	s := NewCue(c, p.rate)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	p.played[c]++
}

// Played returns how many times c was queued
func (p *Player) Played(c Cue) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c < 0 || c >= CueCount {
		return 0
	}
	return p.played[c]
}

// Close silences the mixer and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}
