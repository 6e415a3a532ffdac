package engine

import "math"

// The primitives each render exactly one timed sound event into a mono mix
// buffer at an absolute sample offset from the start of the loop window. The
// whole window is rendered ahead of time and handed to the output device as
// one unit, so per-event timing never depends on "now".

// softSat applies gentle tanh-like saturation — no harsh clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// asr returns a click-free amplitude envelope at normalized progress [0,1]:
// linear attack, sustain plateau, linear release. attack/release are
// fractions of the total duration.
func asr(progress, attack, release float64) float64 {
	switch {
	case progress <= 0 || progress >= 1:
		return 0
	case progress < attack:
		return progress / attack
	case progress > 1-release:
		return (1 - progress) / release
	default:
		return 1
	}
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels
// at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// ---- Oscillators ---------------------------------------------------------

type oscShape int

const (
	shapeSine oscShape = iota
	shapeTriangle
	shapeSaw
	shapeSquare
)

// osc returns the oscillator sample for a phase in radians.
func osc(shape oscShape, phase float64) float64 {
	switch shape {
	case shapeTriangle:
		return (2.0 / math.Pi) * math.Asin(math.Sin(phase))
	case shapeSaw:
		_, p := math.Modf(phase / (2 * math.Pi))
		return 2*p - 1
	case shapeSquare:
		return math.Tanh(math.Sin(phase) * 3.4)
	default:
		return math.Sin(phase)
	}
}

// ---- Filters -------------------------------------------------------------

// onePole is a simple RC low-pass. Cheap enough to run per voice at a
// time-varying cutoff.
type onePole struct {
	prev  float64
	alpha float64
}

func (f *onePole) setCutoff(cutoff float64) {
	rc := 1.0 / (2 * math.Pi * cutoff)
	dt := 1.0 / SampleRate
	f.alpha = dt / (rc + dt)
}

func (f *onePole) process(x float64) float64 {
	f.prev += f.alpha * (x - f.prev)
	return f.prev
}

// biquad is a two-pole low-pass with adjustable resonance.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newLowpass(cutoff, q float64) *biquad {
	wc := 2 * math.Pi * cutoff / SampleRate
	cosw := math.Cos(wc)
	alpha := math.Sin(wc) / (2 * q)

	a0 := 1 + alpha
	f := &biquad{
		b0: (1 - cosw) / 2 / a0,
		b1: (1 - cosw) / a0,
		b2: (1 - cosw) / 2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
	return f
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

// ---- Primitives ----------------------------------------------------------

// span converts a start time and duration in seconds into a clamped sample
// range within the mix buffer.
func span(mix []float64, at, dur float64) (start, n int) {
	start = int(at * SampleRate)
	n = int(dur * SampleRate)
	if start < 0 {
		n += start
		start = 0
	}
	if start+n > len(mix) {
		n = len(mix) - start
	}
	return start, n
}

// toneOpts parameterizes renderTone.
type toneOpts struct {
	shape   oscShape
	attack  float64 // fraction of duration
	release float64 // fraction of duration
	vol     float64
	cutoff  float64 // low-pass cutoff in Hz
}

// renderTone renders a single filtered oscillator note. The composer raises
// the cutoff with the contribution count so busier graphs sound brighter.
func renderTone(mix []float64, at, dur, freq float64, o toneOpts) {
	start, n := span(mix, at, dur)
	if n <= 0 || freq <= 0 {
		return
	}
	var lp onePole
	lp.setCutoff(o.cutoff)
	step := 2 * math.Pi * freq / SampleRate
	phase := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		s := osc(o.shape, phase) * asr(p, o.attack, o.release) * o.vol
		mix[start+i] += lp.process(s)
		phase += step
	}
}

// renderKick renders a pitch-swept sine kick. The hard variant layers a
// soft-clipped square for the hardstyle/hardcore punch.
func renderKick(mix []float64, at float64, hard bool, vol float64) {
	const dur = 0.25
	start, n := span(mix, at, dur)
	if n <= 0 {
		return
	}
	startFreq, endFreq, decay := 160.0, 42.0, 16.0
	if hard {
		startFreq, endFreq, decay = 320.0, 48.0, 13.0
	}
	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		freq := startFreq * math.Pow(endFreq/startFreq, p*2.2)
		phase += 2 * math.Pi * freq / SampleRate
		env := math.Exp(-t * decay)
		s := math.Sin(phase) * env * 0.85
		s += math.Sin(2*math.Pi*2100*t) * math.Exp(-t*250) * 0.20 // transient click
		if hard {
			// Distorted square layer, driven hard into the saturator.
			s += softSat(osc(shapeSquare, phase)*3.2) * env * 0.45
		}
		mix[start+i] += softSat(s) * vol
	}
}

// renderSnare renders a band-passed noise burst layered with a short
// pitch-dropping tone.
func renderSnare(mix []float64, at float64, seed *uint64, vol float64) {
	const dur = 0.2
	start, n := span(mix, at, dur)
	if n <= 0 {
		return
	}
	lp1, lp2 := 0.0, 0.0 // two lowpasses, band-pass by difference
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		env := math.Exp(-t * 26)
		raw := lcg(seed)
		lp1 = lp1*0.70 + raw*0.30
		lp2 = lp2*0.96 + raw*0.04
		body := (lp1 - lp2) * env * 0.9
		toneFreq := 190 - 400*t
		tone := math.Sin(2*math.Pi*toneFreq*t) * math.Exp(-t*40) * 0.30
		mix[start+i] += softSat(body+tone) * vol
	}
}

// renderClap renders the trance backbeat: three staggered noise bursts
// through the same band-pass, a touch brighter than the snare.
func renderClap(mix []float64, at float64, seed *uint64, vol float64) {
	const dur = 0.18
	start, n := span(mix, at, dur)
	if n <= 0 {
		return
	}
	lp1, lp2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		raw := lcg(seed)
		lp1 = lp1*0.55 + raw*0.45
		lp2 = lp2*0.93 + raw*0.07
		band := lp1 - lp2
		// Bursts at 0, 11 and 22 ms, then the tail.
		env := 0.0
		for _, onset := range [3]float64{0, 0.011, 0.022} {
			if t >= onset {
				env = math.Max(env, math.Exp(-(t-onset)*55))
			}
		}
		env = math.Max(env, math.Exp(-t*14)*0.5)
		mix[start+i] += softSat(band*env*1.1) * vol
	}
}

// renderHihat renders a high-passed noise burst. The open variant keeps a
// lower cutoff and rings longer.
func renderHihat(mix []float64, at float64, open bool, seed *uint64, vol float64) {
	decay, dur := 42.0, 0.06
	var hp onePole
	hp.setCutoff(7000)
	if open {
		decay, dur = 15.0, 0.18
		hp.setCutoff(4500)
	}
	start, n := span(mix, at, dur)
	if n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		raw := lcg(seed)
		s := (raw - hp.process(raw)) * math.Exp(-t*decay)
		mix[start+i] += softSat(s*0.8) * vol
	}
}

// renderBass renders two detuned oscillators, one an octave below, through a
// resonant low-pass.
func renderBass(mix []float64, at, dur, freq, vol float64) {
	start, n := span(mix, at, dur)
	if n <= 0 || freq <= 0 {
		return
	}
	lp := newLowpass(math.Min(freq*4, 2200), 2.2)
	step := 2 * math.Pi * freq / SampleRate
	phase, subPhase := 0.0, 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		env := asr(p, 0.02, 0.2)
		s := osc(shapeSaw, phase)*0.55 + osc(shapeSine, subPhase)*0.45
		mix[start+i] += softSat(lp.process(s)*env) * vol
		phase += step * 1.004
		subPhase += step / 2
	}
}

// renderPad renders 3-5 detuned oscillator layers at the same fundamental
// with a slow swell, summed and scaled by the layer count.
func renderPad(mix []float64, at, dur, freq float64, layers int, vol float64) {
	start, n := span(mix, at, dur)
	if n <= 0 || freq <= 0 {
		return
	}
	if layers < 3 {
		layers = 3
	} else if layers > 5 {
		layers = 5
	}
	detunes := [5]float64{-0.006, -0.002, 0.0, 0.003, 0.007}
	phases := make([]float64, layers)
	scale := 1.0 / float64(layers)
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		env := asr(p, 0.3, 0.35)
		s := 0.0
		for l := 0; l < layers; l++ {
			s += osc(shapeSine, phases[l])
			phases[l] += 2 * math.Pi * freq * (1 + detunes[l]) / SampleRate
		}
		mix[start+i] += softSat(s*scale*env) * vol
	}
}

// renderLead renders two slightly detuned oscillators through a filter whose
// cutoff sweeps up and back down across the note for a wailing timbre.
func renderLead(mix []float64, at, dur, freq, vol float64) {
	start, n := span(mix, at, dur)
	if n <= 0 || freq <= 0 {
		return
	}
	var lp onePole
	step := 2 * math.Pi * freq / SampleRate
	phase, detPhase := 0.0, 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		lp.setCutoff(600 + 3400*math.Sin(math.Pi*p))
		env := asr(p, 0.05, 0.25)
		s := osc(shapeSaw, phase)*0.5 + osc(shapeSaw, detPhase)*0.5
		mix[start+i] += softSat(lp.process(s)*env) * vol
		phase += step
		detPhase += step * 1.012
	}
}
