package audio

import (
	"github.com/gopxl/beep"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/parameter"
)

// Cue identifies a contact sound
type Cue int

const (
	CueOverlap   Cue = iota // soft tone when overlap nodes meet
	CueCollision            // sharper tone when collision nodes meet
	CueSolid                // low thud against a solid surface
	CueCount
)

// CueForRole picks the cue announcing a new contact on role
func CueForRole(r core.Role) Cue {
	switch r {
	case core.RoleCollision:
		return CueCollision
	case core.RoleSolid:
		return CueSolid
	default:
		return CueOverlap
	}
}

// NewCue builds a fresh streamer for one playback of c
func NewCue(c Cue, rate beep.SampleRate) beep.Streamer {
	d := parameter.CueDuration
	switch c {
	case CueCollision:
		// Fundamental plus a fifth above, slightly buzzy
		base := NewEnvelope(NewOscillator(parameter.CueFrequency, d, WaveSquare, rate), d, parameter.CueAttack, parameter.CueRelease, rate)
		fifth := NewEnvelope(NewOscillator(parameter.CueFrequency*1.5, d, WaveSine, rate), d, parameter.CueAttack, parameter.CueRelease, rate)
		return newVolume(beep.Mix(newVolume(base, 0.4), newVolume(fifth, 0.6)), parameter.CueVolume)
	case CueSolid:
		thud := NewEnvelope(NewOscillator(parameter.CueFrequency/4, d, WaveSaw, rate), d, parameter.CueAttack, parameter.CueRelease, rate)
		return newVolume(thud, parameter.CueVolume)
	default:
		tone := NewEnvelope(NewOscillator(parameter.CueFrequency, d, WaveSine, rate), d, parameter.CueAttack, parameter.CueRelease, rate)
		return newVolume(tone, parameter.CueVolume)
	}
}
