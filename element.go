package xml2ly

type (
	// Element is a music element owned by a Measure or a Tuplet. The set of
	// elements is closed: *Note, *Chord, *Tuplet, *Barline, *Clef, *Key,
	// *Time and *Skip.
	Element interface {
		Node
		element()
	}

	// Note is a single note or rest. Duration is in whole notes; Divisions
	// keeps the raw MusicXML duration for printers that want to reproduce it.
	// Chord and the tuplet fields are the flags as read from the document;
	// the ChordTupletAssembler uses them to place the note.
	Note struct {
		Pitch     Pitch    `yaml:",omitempty"`
		Rest      bool     `yaml:",omitempty"`
		Unpitched bool     `yaml:",omitempty"`
		Grace     bool     `yaml:",omitempty"`
		Duration  Rational `yaml:"duration"`
		Divisions int      `yaml:"-"`
		Type      string   `yaml:",omitempty"`
		Dots      int      `yaml:",omitempty"`
		Staff     int      `yaml:"-"`
		Voice     int      `yaml:"-"`
		Chord     bool     `yaml:"-"`

		// TimeModification is the actual:normal ratio of the note, e.g. 3:2
		// for a triplet eighth.
		TimeModification *Ratio         `yaml:"-"`
		Tuplets          []TupletMarker `yaml:"-"`

		Tie           TieType  `yaml:",omitempty"`
		Articulations []string `yaml:",flow,omitempty"`
		Dynamics      []string `yaml:",flow,omitempty"`
		Wedges        []Wedge  `yaml:",flow,omitempty"`
		Lyrics        []Lyric  `yaml:",omitempty"`

		// Line is the source line of the note, for diagnostics.
		Line int `yaml:"-"`
	}

	// Pitch of a note. Step is one of "C" ... "B"; Alter is in semitones and
	// can be fractional for microtones.
	Pitch struct {
		Step   string  `yaml:",omitempty"`
		Alter  float64 `yaml:",omitempty"`
		Octave int     `yaml:",omitempty"`
	}

	// Ratio is a tuplet ratio: Actual notes are played in the time of Normal
	// notes.
	Ratio struct {
		Actual int
		Normal int
	}

	// TupletMarker is a <tuplet> notation of a note.
	TupletMarker struct {
		Type   TupletMarkerType
		Number int
	}

	TupletMarkerType int

	TieType string

	// Wedge is a crescendo or diminuendo hairpin start, or a hairpin stop.
	Wedge string

	Lyric struct {
		Number   string `yaml:",omitempty"`
		Syllabic string `yaml:",omitempty"`
		Text     string
	}

	// Chord is two or more notes sharing one onset. Articulations, dynamics
	// and wedges that were attached to the first note are owned by the chord.
	Chord struct {
		Notes         []*Note
		Articulations []string `yaml:",flow,omitempty"`
		Dynamics      []string `yaml:",flow,omitempty"`
		Wedges        []Wedge  `yaml:",flow,omitempty"`
	}

	// Tuplet groups notes, chords and nested tuplets played with the ratio
	// Actual:Normal.
	Tuplet struct {
		Number  int `yaml:"-"`
		Ratio   Ratio
		Members []Element
	}

	// Barline is a barline drawn at the left or right end of a measure, or
	// in the middle. Repeat is "forward", "backward" or empty; Ending is the
	// ending number text and EndingType its MusicXML type.
	Barline struct {
		Location   string `yaml:",omitempty"`
		Style      string `yaml:",omitempty"`
		Repeat     string `yaml:",omitempty"`
		Times      int    `yaml:",omitempty"`
		Ending     string `yaml:",omitempty"`
		EndingType string `yaml:"endingType,omitempty"`
	}

	Clef struct {
		Sign         string
		Line         int `yaml:",omitempty"`
		OctaveChange int `yaml:"octaveChange,omitempty"`
	}

	Key struct {
		Fifths int
		Mode   string `yaml:",omitempty"`
	}

	Time struct {
		Beats    string
		BeatType int    `yaml:"beatType"`
		Symbol   string `yaml:",omitempty"`
	}

	// Skip is invisible time, inserted for <forward> and to pad voices that
	// lag behind the measure position.
	Skip struct {
		Duration Rational `yaml:"duration"`
	}
)

const (
	TupletNone TupletMarkerType = iota
	TupletStart
	TupletStop
)

const (
	TieNone     TieType = ""
	TieStart    TieType = "start"
	TieStop     TieType = "stop"
	TieContinue TieType = "continue"
)

const (
	WedgeCrescendo  Wedge = "crescendo"
	WedgeDiminuendo Wedge = "diminuendo"
	WedgeStop       Wedge = "stop"
)

func (*Note) element()    {}
func (*Chord) element()   {}
func (*Tuplet) element()  {}
func (*Barline) element() {}
func (*Clef) element()    {}
func (*Key) element()     {}
func (*Time) element()    {}
func (*Skip) element()    {}

// BelongsToTuplet is true if the note has a time modification or any tuplet
// notation.
func (n *Note) BelongsToTuplet() bool {
	return n.TimeModification != nil || len(n.Tuplets) > 0
}

// Duration of the chord is the duration of its first note.
func (c *Chord) Duration() Rational {
	if len(c.Notes) == 0 {
		return Rational{}
	}
	return c.Notes[0].Duration
}

// Duration of the tuplet is the sum of the durations of its members.
func (t *Tuplet) Duration() Rational {
	return elementsDuration(t.Members)
}

// ElementDuration returns how much e advances time within its measure.
func ElementDuration(e Element) Rational {
	switch e := e.(type) {
	case *Note:
		if e.Grace {
			return Rational{}
		}
		return e.Duration
	case *Chord:
		return e.Duration()
	case *Tuplet:
		return e.Duration()
	case *Skip:
		return e.Duration
	}
	return Rational{}
}
