package engine

// Scale is an ordered set of semitone offsets from a root pitch.
type Scale []int

var (
	scaleMajor         = Scale{0, 2, 4, 5, 7, 9, 11}
	scaleNaturalMinor  = Scale{0, 2, 3, 5, 7, 8, 10}
	scaleHarmonicMinor = Scale{0, 2, 3, 5, 7, 8, 11}
	scaleMajorPenta    = Scale{0, 2, 4, 7, 9}
	scaleMinorPenta    = Scale{0, 3, 5, 7, 10}
	scaleDorian        = Scale{0, 2, 3, 5, 7, 9, 10}
	scalePhrygian      = Scale{0, 1, 3, 5, 7, 8, 10}
	scaleMixolydian    = Scale{0, 2, 4, 5, 7, 9, 10}
)

// genreScales lists each genre's candidate scales; the pattern generator
// picks one pseudo-randomly per regeneration.
var genreScales = [...][3]Scale{
	GenreChillout:  {scaleMajorPenta, scaleMajor, scaleMixolydian},
	GenreTechno:    {scaleMinorPenta, scaleNaturalMinor, scaleDorian},
	GenreTrance:    {scaleNaturalMinor, scaleHarmonicMinor, scaleDorian},
	GenreHardstyle: {scaleNaturalMinor, scalePhrygian, scaleHarmonicMinor},
	GenreHardcore:  {scalePhrygian, scaleNaturalMinor, scaleMinorPenta},
}

// rootPitches holds one fundamental per pitch class, C3 through B3.
// The root is picked by contribution count mod 12.
var rootPitches = [12]float64{
	130.81, // C3
	138.59, // C#3
	146.83, // D3
	155.56, // D#3
	164.81, // E3
	174.61, // F3
	185.00, // F#3
	196.00, // G3
	207.65, // G#3
	220.00, // A3
	233.08, // A#3
	246.94, // B3
}
