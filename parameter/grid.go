package parameter

import "time"

// Chunk Grid Defaults
const (
	// DefaultChunkWidth is the world-unit width of one chunk
	DefaultChunkWidth = 64.0

	// DefaultChunkHeight is the world-unit height of one chunk
	DefaultChunkHeight = 64.0

	// DefaultLocatorBucketCap is the initial capacity of a chunk's draw-ordered bucket
	DefaultLocatorBucketCap = 8
)

// Draw Layers determine render order, higher values are drawn on top
const (
	LayerBackground = 0
	LayerTerrain    = 100
	LayerPickup     = 200
	LayerActor      = 300
	LayerPlayer     = 350
	LayerEffect     = 400
	LayerOverlay    = 1000
)

// Sandbox timing
const (
	// StepInterval is the fixed simulation step of the sandbox command
	StepInterval = 50 * time.Millisecond

	// FrameInterval is the render interval of the sandbox command (~30 FPS)
	FrameInterval = 33 * time.Millisecond
)

// Contact cue audio
const (
	CueSampleRate = 44100
	CueFrequency  = 660.0
	CueDuration   = 60 * time.Millisecond
	CueAttack     = 5 * time.Millisecond
	CueRelease    = 30 * time.Millisecond
	CueVolume     = 0.25
)
