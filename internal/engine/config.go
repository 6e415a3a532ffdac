package engine

// Audio output format.
const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// Musical time. One bar is four beats; one loop window is four bars.
const (
	BeatsPerBar   = 4
	BarsPerWindow = 4
)

// Pattern lengths (16th-note melody slots, 8th-note bass slots).
const (
	MelodySteps   = 16
	BasslineSteps = 8
)

// Tempo bounds across all tiers.
const (
	MinBPM = 85
	MaxBPM = 180
)

// windowTailSeconds pads the rendered window so releases that start near the
// final bar line are not truncated.
const windowTailSeconds = 0.5

// overlapMarginSeconds is how far ahead of the window boundary the next
// render is armed, covering timer jitter so consecutive windows stay gapless.
const overlapMarginSeconds = 0.05

// Config drives everything the engine derives: tempo, genre, energy, and the
// generated patterns. StreakDays is carried for future modulation and has no
// effect on generation.
type Config struct {
	Contributions int
	StreakDays    int
}

// ConfigUpdate is a partial Config; nil fields are left unchanged.
type ConfigUpdate struct {
	Contributions *int
	StreakDays    *int
}
