package engine

import "math"

// windowRender carries the state for laying out one loop window. Everything
// operates on musical time: a beat is 60/bpm seconds, a bar is four beats.
type windowRender struct {
	mix    []float64
	pat    patterns
	beat   float64
	bar    float64
	bright float64 // tone low-pass cutoff, rises with contributions
	seed   uint64  // noise state shared by the percussion voices
	rnd    *rng    // window-local draws (trigger probabilities)
}

// renderWindow renders BarsPerWindow bars of the arrangement for the current
// config into a stereo float32 buffer ready for the output device. The
// window index salts the local generator so consecutive windows vary while a
// given (count, index) pair always renders the same bytes.
func renderWindow(cfg Config, pat patterns, windowIdx uint32) []byte {
	bpm := bpmFor(cfg.Contributions)
	genre := genreFor(bpm)

	beat := 60.0 / float64(bpm)
	bar := BeatsPerBar * beat
	n := int((bar*BarsPerWindow + windowTailSeconds) * SampleRate)

	c := float64(cfg.Contributions)
	if c < 0 {
		c = 0
	}
	w := &windowRender{
		mix:    make([]float64, n),
		pat:    pat,
		beat:   beat,
		bar:    bar,
		bright: 900 + math.Min(c, 4000)/4000*2600,
		seed:   uint64(cfg.Contributions)*0x9E3779B97F4A7C15 + uint64(windowIdx),
		rnd:    newRNG(uint32(cfg.Contributions) ^ windowIdx*0x9E3779B9),
	}

	switch genre {
	case GenreChillout:
		w.composeChillout()
	case GenreTechno:
		w.composeTechno()
	case GenreTrance:
		w.composeTrance()
	case GenreHardstyle:
		w.composeHardstyle()
	case GenreHardcore:
		w.composeHardcore()
	}

	buf := make([]byte, n*8)
	for i, s := range w.mix {
		putStereoF32(buf, i, softSat(s*0.85))
	}
	return buf
}

// triad returns the chord frequencies stacked in thirds on a scale degree.
// notes=3 gives a triad, notes=4 adds the seventh.
func (w *windowRender) triad(degree, notes int) []float64 {
	freqs := make([]float64, notes)
	for i := range freqs {
		freqs[i] = w.pat.freq(degree+i*2, 0)
	}
	return freqs
}

// padProgression is the rotating pad progression, one scale degree per
// bar (I-vi-IV-V flavored within whatever scale was picked).
var padProgression = [4]int{0, 5, 3, 4}

func (w *windowRender) composeChillout() {
	sixteenth := w.beat / 4
	for b := 0; b < BarsPerWindow; b++ {
		at := float64(b) * w.bar

		for _, f := range w.triad(padProgression[b], 3) {
			renderPad(w.mix, at, w.bar*0.95, f, 3, 0.24)
		}

		// Melody on every other 16th slot, soft and round.
		for step := 0; step < MelodySteps; step += 2 {
			f := w.pat.melody[step]
			if f == 0 {
				continue
			}
			renderTone(w.mix, at+float64(step)*sixteenth, sixteenth*1.8, f, toneOpts{
				shape:   shapeSine,
				attack:  0.1,
				release: 0.4,
				vol:     0.20,
				cutoff:  w.bright * 0.7,
			})
		}

		// Minimal kick on beats 1 and 3 only.
		renderKick(w.mix, at, false, 0.45)
		renderKick(w.mix, at+2*w.beat, false, 0.45)
	}
}

func (w *windowRender) composeTechno() {
	eighth := w.beat / 2
	for b := 0; b < BarsPerWindow; b++ {
		at := float64(b) * w.bar

		for beat := 0; beat < BeatsPerBar; beat++ {
			bt := at + float64(beat)*w.beat
			renderKick(w.mix, bt, false, 0.9) // four on the floor
			renderHihat(w.mix, bt+eighth, false, &w.seed, 0.8)
			if beat == 1 || beat == 3 {
				renderSnare(w.mix, bt, &w.seed, 0.7)
			}
		}

		for step := 0; step < BasslineSteps; step++ {
			if w.rnd.next() >= 0.8 {
				continue
			}
			renderBass(w.mix, at+float64(step)*eighth, eighth*0.9, w.pat.bass[step], 0.5)
		}

		// Short sawtooth stabs at 8th resolution.
		for step := 0; step < 8; step++ {
			f := w.pat.melody[step*2]
			if f == 0 {
				continue
			}
			renderTone(w.mix, at+float64(step)*eighth, eighth*0.8, f, toneOpts{
				shape:   shapeSaw,
				attack:  0.02,
				release: 0.3,
				vol:     0.26,
				cutoff:  w.bright,
			})
		}
	}
}

func (w *windowRender) composeTrance() {
	eighth := w.beat / 2
	sixteenth := w.beat / 4
	for b := 0; b < BarsPerWindow; b++ {
		at := float64(b) * w.bar

		for beat := 0; beat < BeatsPerBar; beat++ {
			bt := at + float64(beat)*w.beat
			renderKick(w.mix, bt, false, 1.0)
			renderHihat(w.mix, bt+eighth, true, &w.seed, 0.7)
			if beat == 1 || beat == 3 {
				renderClap(w.mix, bt, &w.seed, 0.7)
			}
		}

		// Rolling 16th bassline.
		for step := 0; step < 16; step++ {
			f := w.pat.bass[(step/2)%BasslineSteps]
			renderBass(w.mix, at+float64(step)*sixteenth, sixteenth*0.9, f, 0.42)
		}

		// Richer pad voicings held for two bars.
		if b%2 == 0 {
			degree := padProgression[(b/2)%len(padProgression)]
			for _, f := range w.triad(degree, 4) {
				renderPad(w.mix, at, w.bar*1.9, f, 4, 0.20)
			}
		}

		for step := 0; step < 8; step++ {
			f := w.pat.melody[step*2]
			if f == 0 {
				continue
			}
			renderLead(w.mix, at+float64(step)*eighth, eighth*0.9, f, 0.28)
		}
	}
}

func (w *windowRender) composeHardstyle() {
	for b := 0; b < BarsPerWindow; b++ {
		at := float64(b) * w.bar

		for beat := 0; beat < BeatsPerBar; beat++ {
			bt := at + float64(beat)*w.beat
			renderKick(w.mix, bt, true, 1.0)
			// Reverse-bass feel: bass lands on the off-beat of every beat.
			renderBass(w.mix, bt+w.beat/2, w.beat*0.45, w.pat.bass[(beat*2)%BasslineSteps], 0.6)
		}

		// Snare roll closing every 4th bar.
		if b == BarsPerWindow-1 {
			for j := 0; j < 4; j++ {
				renderSnare(w.mix, at+3*w.beat+float64(j)*w.beat/4, &w.seed, 0.75)
			}
		}

		// Lead on quarter notes, every other bar.
		if b%2 == 1 {
			for beat := 0; beat < BeatsPerBar; beat++ {
				f := w.pat.melody[(beat*4)%MelodySteps]
				if f == 0 {
					continue
				}
				renderLead(w.mix, at+float64(beat)*w.beat, w.beat*0.9, f, 0.32)
			}
		}
	}
}

func (w *windowRender) composeHardcore() {
	eighth := w.beat / 2
	for b := 0; b < BarsPerWindow; b++ {
		at := float64(b) * w.bar

		for beat := 0; beat < BeatsPerBar; beat++ {
			bt := at + float64(beat)*w.beat
			renderKick(w.mix, bt, true, 1.1)
			if b%2 == 1 {
				renderKick(w.mix, bt+eighth, true, 0.8) // extra off-beat kick
			}
			renderHihat(w.mix, bt, false, &w.seed, 0.9)
			renderHihat(w.mix, bt+eighth, false, &w.seed, 0.9)
		}

		// Aggressive bass stabs at 8th resolution.
		for step := 0; step < BasslineSteps; step++ {
			renderBass(w.mix, at+float64(step)*eighth, eighth*0.6, w.pat.bass[step], 0.55)
		}

		// Lead an octave up for the screaming register.
		for step := 0; step < 8; step++ {
			f := w.pat.melody[step*2]
			if f == 0 {
				continue
			}
			renderLead(w.mix, at+float64(step)*eighth, eighth*0.9, f*2, 0.26)
		}
	}
}
