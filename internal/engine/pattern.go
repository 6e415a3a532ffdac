package engine

import "math"

// rng is a mulberry32 step generator: a single 32-bit state advanced by a
// fixed multiply-xor-shift recurrence. Every pattern derived from a given
// seed is bit-identical across runs, which is what makes a contribution
// count map to exactly one piece of music.
type rng struct {
	state uint32
}

func newRNG(seed uint32) *rng {
	return &rng{state: seed}
}

// next returns the next value in [0, 1).
func (r *rng) next() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// intn returns a uniform integer in [0, n).
func (r *rng) intn(n int) int {
	return int(r.next() * float64(n))
}

// patterns holds everything the composer needs that is derived from the
// contribution count. Regenerated atomically whenever the count changes.
type patterns struct {
	root    float64
	scale   Scale
	melody  [MelodySteps]float64   // frequency per 16th slot, 0 = silence
	bass    [BasslineSteps]float64 // frequency per 8th slot, root-weighted
}

// noteProbability is the chance a melody slot carries a pitched note rather
// than silence.
const noteProbability = 0.7

// bassDegrees is the root-weighted draw table for bassline scale degrees:
// the root appears twice, so it lands twice as often as any other degree.
var bassDegrees = [6]int{0, 0, 2, 3, 4, 5}

// generatePatterns derives root, scale, melody and bassline for a
// contribution count. The whole output is a pure function of the count.
func generatePatterns(contributions int) patterns {
	if contributions < 0 {
		contributions = 0
	}
	r := newRNG(uint32(contributions))

	genre := genreFor(bpmFor(contributions))

	p := patterns{
		root:  rootPitches[contributions%12],
		scale: genreScales[genre][r.intn(3)],
	}

	for i := 0; i < MelodySteps; i++ {
		if r.next() >= noteProbability {
			continue // rest
		}
		degree := r.intn(len(p.scale))
		octave := 0
		if r.next() < 0.5 {
			octave = 1
		}
		p.melody[i] = p.freq(degree, octave)
	}

	for i := 0; i < BasslineSteps; i++ {
		degree := bassDegrees[r.intn(len(bassDegrees))]
		p.bass[i] = p.freq(degree, 0)
	}

	return p
}

// freq converts a scale degree and octave to a frequency relative to the
// root. Degrees past the end of the scale wrap upward an octave.
func (p *patterns) freq(degree, octave int) float64 {
	wrap := degree / len(p.scale)
	semitone := p.scale[degree%len(p.scale)]
	return p.root * math.Pow(2, float64(semitone+(wrap+octave)*12)/12)
}
