package lilypond

import (
	"fmt"
	"math"
	"strings"

	"github.com/vsariola/xml2ly"
)

// Pitch is a diatonic pitch: Notename is 0 for c ... 6 for b, Octave is the
// MusicXML octave (4 is the octave of the middle c) and Alteration is in
// semitones.
type Pitch struct {
	Octave     int
	Notename   int
	Alteration float64
}

// Duration is a note value: DurationLog 0 is a whole note, 2 a quarter,
// -1 a breve.
type Duration struct {
	DurationLog int
	Dots        int
}

var (
	noteNames = []string{"c", "d", "e", "f", "g", "a", "b"}
	// alteration suffixes in quarter tones, from -2 to +2 semitones
	alterationSuffixes = []string{"eses", "eseh", "es", "eh", "", "ih", "is", "isih", "isis"}
	typeLogs           = map[string]int{
		"maxima": -3, "long": -2, "breve": -1, "whole": 0, "half": 1, "quarter": 2,
		"eighth": 3, "16th": 4, "32nd": 5, "64th": 6, "128th": 7, "256th": 8, "512th": 9, "1024th": 10,
	}
)

// NewPitch converts a MusicXML pitch. It returns false for a step that is
// not one of A-G.
func NewPitch(p xml2ly.Pitch) (Pitch, bool) {
	i := strings.Index("CDEFGAB", strings.ToUpper(p.Step))
	if i < 0 || len(p.Step) != 1 {
		return Pitch{}, false
	}
	return Pitch{Octave: p.Octave, Notename: i, Alteration: p.Alter}, true
}

// Steps is the diatonic index of the pitch, counting from the c of octave 0.
func (p Pitch) Steps() int {
	return p.Octave*7 + p.Notename
}

// Name is the Dutch note name without the octave marks.
func (p Pitch) Name() string {
	n := noteNames[p.Notename]
	q := int(math.Round(p.Alteration*2)) + 4
	if q < 0 {
		q = 0
	} else if q >= len(alterationSuffixes) {
		q = len(alterationSuffixes) - 1
	}
	suffix := alterationSuffixes[q]
	if (n == "e" || n == "a") && strings.HasPrefix(suffix, "es") {
		// es, as, eses, ases
		suffix = suffix[1:]
	}
	return n + suffix
}

// String is the pitch in absolute octave notation: c is the c of MusicXML
// octave 3, c' the middle c.
func (p Pitch) String() string {
	return p.Name() + octaveMarks(p.Octave-3)
}

// Relative is the pitch in relative notation, following prev.
func (p Pitch) Relative(prev Pitch) string {
	diff := p.Steps() - prev.Steps()
	// a note goes to the octave that is within a fourth of the previous one
	return p.Name() + octaveMarks(floorDiv(diff+3, 7))
}

func octaveMarks(n int) string {
	if n < 0 {
		return strings.Repeat(",", -n)
	}
	return strings.Repeat("'", n)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (d Duration) String() string {
	names := map[int]string{
		-1: "\\breve",
		-2: "\\longa",
		-3: "\\maxima",
	}
	n := names[d.DurationLog]
	if n == "" {
		n = fmt.Sprintf("%d", 1<<uint(d.DurationLog))
	}
	return n + strings.Repeat(".", d.Dots)
}

// Length is the duration in whole notes.
func (d Duration) Length() xml2ly.Rational {
	var base xml2ly.Rational
	if d.DurationLog >= 0 {
		base = xml2ly.NewRational(1, 1<<uint(d.DurationLog))
	} else {
		base = xml2ly.NewRational(1<<uint(-d.DurationLog), 1)
	}
	ret, dot := base, base
	for i := 0; i < d.Dots; i++ {
		dot = dot.Mul(xml2ly.NewRational(1, 2))
		ret = ret.Add(dot)
	}
	return ret
}

// FromType returns the duration of a MusicXML note type such as "eighth".
func FromType(typ string, dots int) (Duration, bool) {
	log, ok := typeLogs[typ]
	return Duration{DurationLog: log, Dots: dots}, ok
}

// LengthToken returns the LilyPond duration for a length in whole notes:
// a plain or dotted note value when one matches exactly, otherwise a scaled
// whole note such as "1*5/16".
func LengthToken(length xml2ly.Rational) (string, error) {
	if length.Sign() <= 0 {
		return "", fmt.Errorf("cannot print a duration of %v", length)
	}
	for log := -3; log <= 10; log++ {
		for dots := 0; dots <= 3; dots++ {
			d := Duration{DurationLog: log, Dots: dots}
			if d.Length().Equal(length) {
				return d.String(), nil
			}
		}
	}
	if length.Den() == 1 {
		return fmt.Sprintf("1*%d", length.Num()), nil
	}
	return fmt.Sprintf("1*%d/%d", length.Num(), length.Den()), nil
}
