package engine

import "math"

// Genre identifies the arrangement style derived from tempo.
type Genre int

const (
	GenreChillout Genre = iota
	GenreTechno
	GenreTrance
	GenreHardstyle
	GenreHardcore
)

func (g Genre) String() string { return genreInfos[g].Label }

// Energy identifies the intensity bucket derived directly from the
// contribution count, independent of genre.
type Energy int

const (
	EnergyLurker Energy = iota
	EnergyCasual
	EnergyRegular
	EnergyCommitted
	EnergyDedicated
	EnergyGrinder
	EnergyMachine
	EnergyLegend
)

func (e Energy) String() string { return energyInfos[e].Label }

// GenreInfo is static display metadata for a genre.
type GenreInfo struct {
	Label string
	Glyph string
	Color string
}

// EnergyInfo is static display metadata for an energy level.
type EnergyInfo struct {
	Label string
	Glyph string
	Color string
	Desc  string
	Mood  string
}

var genreInfos = [...]GenreInfo{
	GenreChillout:  {Label: "chillout", Glyph: "🌙", Color: "#6ec6ff"},
	GenreTechno:    {Label: "techno", Glyph: "🎛️", Color: "#9c6eff"},
	GenreTrance:    {Label: "trance", Glyph: "🌀", Color: "#ff6ec7"},
	GenreHardstyle: {Label: "hardstyle", Glyph: "⚡", Color: "#ff9b3d"},
	GenreHardcore:  {Label: "hardcore", Glyph: "🔥", Color: "#ff3d3d"},
}

var energyInfos = [...]EnergyInfo{
	EnergyLurker:    {Label: "lurker", Glyph: "👀", Color: "#8a9ba8", Desc: "A quiet year", Mood: "ambient drift"},
	EnergyCasual:    {Label: "casual", Glyph: "🌱", Color: "#7fbf7f", Desc: "Commits here and there", Mood: "easy sway"},
	EnergyRegular:   {Label: "regular", Glyph: "☕", Color: "#6ec6ff", Desc: "A steady habit", Mood: "head nod"},
	EnergyCommitted: {Label: "committed", Glyph: "💪", Color: "#6e8cff", Desc: "Rarely misses a day", Mood: "forward drive"},
	EnergyDedicated: {Label: "dedicated", Glyph: "🚀", Color: "#9c6eff", Desc: "Shipping constantly", Mood: "rising pulse"},
	EnergyGrinder:   {Label: "grinder", Glyph: "⚙️", Color: "#ff6ec7", Desc: "Deep in the graph", Mood: "relentless churn"},
	EnergyMachine:   {Label: "machine", Glyph: "🤖", Color: "#ff9b3d", Desc: "Inhuman output", Mood: "piston hammer"},
	EnergyLegend:    {Label: "legend", Glyph: "🏆", Color: "#ff3d3d", Desc: "The graph is solid green", Mood: "total overdrive"},
}

// Info returns the genre's display metadata.
func (g Genre) Info() GenreInfo { return genreInfos[g] }

// Info returns the energy level's display metadata.
func (e Energy) Info() EnergyInfo { return energyInfos[e] }

// bpmFor maps a contribution count to a tempo. Five contiguous tiers, each a
// linear ramp across its own sub-range, continuous and non-decreasing over
// [0, inf), capped at MaxBPM. Negative counts clamp to the chillout floor.
func bpmFor(contributions int) int {
	c := float64(contributions)
	if c < 0 {
		c = 0
	}
	var bpm float64
	switch {
	case c <= 200:
		bpm = 85 + (c/200)*24
	case c <= 800:
		bpm = 110 + ((c-200)/600)*17
	case c <= 2000:
		bpm = 128 + ((c-800)/1200)*11
	case c < 4000:
		bpm = 140 + ((c-2000)/2000)*14
	default:
		bpm = 155 + math.Min((c-4000)/4000, 1)*25
	}
	return int(math.Round(bpm))
}

// genreFor maps a tempo to its genre via fixed breakpoints.
func genreFor(bpm int) Genre {
	switch {
	case bpm < 110:
		return GenreChillout
	case bpm < 128:
		return GenreTechno
	case bpm < 140:
		return GenreTrance
	case bpm < 155:
		return GenreHardstyle
	default:
		return GenreHardcore
	}
}

// energyBreaks are the lower bounds of each energy level above the first.
var energyBreaks = [...]int{100, 300, 600, 1000, 1500, 2500, 4000}

// energyFor maps a contribution count to its energy level.
func energyFor(contributions int) Energy {
	level := Energy(0)
	for _, b := range energyBreaks {
		if contributions < b {
			break
		}
		level++
	}
	return level
}
