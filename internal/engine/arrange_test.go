package engine

import (
	"bytes"
	"testing"
)

// One representative contribution count per genre.
var genreCounts = []struct {
	contributions int
	genre         Genre
}{
	{50, GenreChillout},
	{500, GenreTechno},
	{1200, GenreTrance},
	{3100, GenreHardstyle},
	{5000, GenreHardcore},
}

func TestRenderWindowEveryGenre(t *testing.T) {
	for _, tc := range genreCounts {
		t.Run(tc.genre.String(), func(t *testing.T) {
			cfg := Config{Contributions: tc.contributions}
			pat := generatePatterns(tc.contributions)

			if got := genreFor(bpmFor(tc.contributions)); got != tc.genre {
				t.Fatalf("count maps to %v, want %v", got, tc.genre)
			}

			buf := renderWindow(cfg, pat, 0)

			bpm := bpmFor(tc.contributions)
			bar := BeatsPerBar * 60.0 / float64(bpm)
			wantFrames := int((bar*BarsPerWindow + windowTailSeconds) * SampleRate)
			if len(buf) != wantFrames*8 {
				t.Fatalf("window length: got %d bytes, want %d", len(buf), wantFrames*8)
			}

			silent := true
			for _, b := range buf {
				if b != 0 {
					silent = false
					break
				}
			}
			if silent {
				t.Fatal("rendered window is silent")
			}
		})
	}
}

func TestRenderWindowDeterministic(t *testing.T) {
	cfg := Config{Contributions: 1200}
	pat := generatePatterns(cfg.Contributions)

	a := renderWindow(cfg, pat, 3)
	b := renderWindow(cfg, pat, 3)
	if !bytes.Equal(a, b) {
		t.Fatal("same (count, window) pair rendered different audio")
	}

	c := renderWindow(cfg, pat, 4)
	if bytes.Equal(a, c) {
		t.Fatal("consecutive windows rendered identical audio; window salt is dead")
	}
}

func TestTriadStacksThirds(t *testing.T) {
	w := &windowRender{pat: patterns{root: 220, scale: scaleNaturalMinor}}

	freqs := w.triad(0, 4)
	if len(freqs) != 4 {
		t.Fatalf("got %d notes, want 4", len(freqs))
	}
	want := []float64{
		w.pat.freq(0, 0),
		w.pat.freq(2, 0),
		w.pat.freq(4, 0),
		w.pat.freq(6, 0),
	}
	for i := range want {
		if freqs[i] != want[i] {
			t.Fatalf("note %d: got %v, want %v", i, freqs[i], want[i])
		}
	}
	for i := 1; i < len(freqs); i++ {
		if freqs[i] <= freqs[i-1] {
			t.Fatalf("chord notes must ascend: %v", freqs)
		}
	}
}
