package lilypond

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vsariola/xml2ly"
)

var (
	articulationEvents = map[string]string{
		"staccato":        "-.",
		"accent":          "->",
		"tenuto":          "--",
		"staccatissimo":   "-!",
		"strong-accent":   "-^",
		"detached-legato": "-_",
		"fermata":         "\\fermata",
	}
	dynamicMarks = map[string]bool{
		"ppppp": true, "pppp": true, "ppp": true, "pp": true, "p": true, "mp": true,
		"mf": true, "f": true, "ff": true, "fff": true, "ffff": true, "fffff": true,
		"fp": true, "sf": true, "sff": true, "sp": true, "spp": true, "sfz": true, "rfz": true, "fz": true, "n": true,
	}
	wedgeEvents = map[xml2ly.Wedge]string{
		xml2ly.WedgeCrescendo:  "\\<",
		xml2ly.WedgeDiminuendo: "\\>",
		xml2ly.WedgeStop:       "\\!",
	}
	barStyles = map[string]string{
		"regular":     "|",
		"dotted":      ";",
		"dashed":      "!",
		"heavy":       ".",
		"light-light": "||",
		"light-heavy": "|.",
		"heavy-light": ".|",
		"heavy-heavy": "..",
		"tick":        "'",
		"short":       ",",
		"none":        "",
	}
	clefNames = map[string]string{
		"G1": "french", "G2": "treble",
		"F3": "varbaritone", "F4": "bass", "F5": "subbass",
		"C1": "soprano", "C2": "mezzosoprano", "C3": "alto", "C4": "tenor", "C5": "baritone",
	}
	// line of fifths, c is at index 8
	lineOfFifths = []string{"fes", "ces", "ges", "des", "as", "es", "bes", "f",
		"c", "g", "d", "a", "e", "b", "fis", "cis", "gis", "dis", "ais", "eis", "bis"}
	// tonic offset along the line of fifths from the major key with the
	// same signature
	modeOffsets = map[string]int{
		"": 0, "major": 0, "ionian": 0, "minor": 3, "aeolian": 3, "dorian": 2,
		"phrygian": 4, "lydian": -1, "mixolydian": 1, "locrian": 5,
	}
)

// printer turns the content of a voice into LilyPond music. Each measure
// goes on its own line, ending with a bar check.
type printer struct {
	opts    Options
	lines   []string
	depth   int
	tokens  []string
	measure xml2ly.Rational
	scale   []xml2ly.Rational
	prev    *Pitch
	lyrics  lyricCollector
	err     error
}

// Voice prints the music of v. The first return value is the music, one
// line per measure; the second one has the lyric syllables of each verse
// found in the voice.
func Voice(v *xml2ly.Voice, opts Options) (string, []string, error) {
	p := &printer{opts: opts, depth: 1}
	xml2ly.Walk(p, v)
	if p.err != nil {
		return "", nil, p.err
	}
	return strings.Join(p.lines, "\n"), p.lyrics.verses(), nil
}

func (p *printer) Enter(n xml2ly.Node) bool {
	if p.err != nil {
		return false
	}
	switch n := n.(type) {
	case *xml2ly.Repeat:
		p.repeat(n)
		return false
	case *xml2ly.Measure:
		p.measure = n.Duration()
		p.tokens = nil
	case *xml2ly.Tuplet:
		p.tokens = append(p.tokens, fmt.Sprintf("\\tuplet %d/%d {", n.Ratio.Actual, n.Ratio.Normal))
		p.scale = append(p.scale, xml2ly.NewRational(int64(n.Ratio.Actual), int64(n.Ratio.Normal)))
	case *xml2ly.Chord:
		p.chord(n)
		return false
	case *xml2ly.Note:
		p.note(n)
	case *xml2ly.Skip:
		d, err := LengthToken(n.Duration)
		p.fail(err)
		p.tokens = append(p.tokens, "s"+d)
	case *xml2ly.Barline:
		if n.Repeat != "" || n.Ending != "" {
			// repeats and endings are printed as \repeat
			break
		}
		if s, ok := barStyles[n.Style]; ok {
			p.tokens = append(p.tokens, fmt.Sprintf("\\bar %q", s))
		}
	case *xml2ly.Clef:
		p.tokens = append(p.tokens, fmt.Sprintf("\\clef %q", clefName(n)))
	case *xml2ly.Key:
		p.key(n)
	case *xml2ly.Time:
		p.tokens = append(p.tokens, timeSignature(n))
	}
	return true
}

func (p *printer) Leave(n xml2ly.Node) {
	switch n.(type) {
	case *xml2ly.Measure:
		if len(p.tokens) > 0 {
			p.line(strings.Join(p.tokens, " ") + " |")
		}
		p.tokens = nil
	case *xml2ly.Tuplet:
		p.tokens = append(p.tokens, "}")
		p.scale = p.scale[:len(p.scale)-1]
	}
}

func (p *printer) line(s string) {
	p.lines = append(p.lines, strings.Repeat("  ", p.depth)+s)
}

func (p *printer) fail(err error) {
	if err != nil && p.err == nil {
		p.err = err
	}
}

func (p *printer) repeat(r *xml2ly.Repeat) {
	p.line(fmt.Sprintf("\\repeat volta %d {", r.Times))
	p.depth++
	if r.CommonPart != nil {
		xml2ly.Walk(p, r.CommonPart)
	}
	p.depth--
	p.line("}")
	if len(r.Endings) == 0 {
		return
	}
	p.line("\\alternative {")
	p.depth++
	for _, e := range r.Endings {
		p.line("{")
		p.depth++
		xml2ly.Walk(p, e)
		p.depth--
		p.line("}")
	}
	p.depth--
	p.line("}")
}

func (p *printer) pitch(n *xml2ly.Note) string {
	pt, ok := NewPitch(n.Pitch)
	if !ok {
		p.fail(fmt.Errorf("note on line %v has no valid pitch (step %q)", n.Line, n.Pitch.Step))
		return ""
	}
	var s string
	if p.opts.Absolute || p.prev == nil {
		s = pt.String()
	} else {
		s = pt.Relative(*p.prev)
	}
	p.prev = &pt
	return s
}

func (p *printer) duration(n *xml2ly.Note) string {
	if d, ok := FromType(n.Type, n.Dots); ok {
		return d.String()
	}
	if n.Grace {
		return "8"
	}
	// inside \tuplet, the printed value is the one before the scaling
	l := n.Duration
	for _, s := range p.scale {
		l = l.Mul(s)
	}
	d, err := LengthToken(l)
	p.fail(err)
	return d
}

func (p *printer) note(n *xml2ly.Note) {
	var s string
	switch {
	case n.Rest && !n.Grace && len(p.scale) == 0 && n.Duration.Equal(p.measure):
		// a rest filling the whole measure
		d, err := LengthToken(n.Duration)
		p.fail(err)
		s = "R" + d
	case n.Rest:
		s = "r" + p.duration(n)
	default:
		s = p.pitch(n) + p.duration(n)
		p.lyrics.add(n)
	}
	if n.Grace {
		s = "\\grace " + s
	}
	p.tokens = append(p.tokens, s+postEvents(n.Tie, n.Articulations, n.Dynamics, n.Wedges))
}

func (p *printer) chord(c *xml2ly.Chord) {
	if len(c.Notes) == 0 {
		return
	}
	head := c.Notes[0]
	pitches := make([]string, len(c.Notes))
	var first *Pitch
	tie := xml2ly.TieNone
	for i, n := range c.Notes {
		pitches[i] = p.pitch(n)
		if i == 0 {
			first = p.prev
		}
		if n.Tie == xml2ly.TieStart || n.Tie == xml2ly.TieContinue {
			tie = xml2ly.TieStart
		}
	}
	// the next note is relative to the first note of the chord
	p.prev = first
	p.lyrics.add(head)
	s := "<" + strings.Join(pitches, " ") + ">" + p.duration(head)
	if head.Grace {
		s = "\\grace " + s
	}
	arts := append(append([]string(nil), c.Articulations...), head.Articulations...)
	dyns := append(append([]string(nil), c.Dynamics...), head.Dynamics...)
	wedges := append(append([]xml2ly.Wedge(nil), c.Wedges...), head.Wedges...)
	p.tokens = append(p.tokens, s+postEvents(tie, arts, dyns, wedges))
}

func postEvents(tie xml2ly.TieType, arts, dyns []string, wedges []xml2ly.Wedge) string {
	var b strings.Builder
	if tie == xml2ly.TieStart || tie == xml2ly.TieContinue {
		b.WriteString("~")
	}
	for _, a := range arts {
		b.WriteString(articulationEvents[a])
	}
	for _, d := range dyns {
		if dynamicMarks[d] {
			b.WriteString("\\" + d)
		} else {
			b.WriteString("_\\markup \\italic " + String(d))
		}
	}
	for _, w := range wedges {
		b.WriteString(wedgeEvents[w])
	}
	return b.String()
}

func (p *printer) key(k *xml2ly.Key) {
	offset, ok := modeOffsets[k.Mode]
	mode := k.Mode
	if !ok || mode == "" {
		offset, mode = 0, "major"
	}
	i := 8 + k.Fifths + offset
	if i < 0 || i >= len(lineOfFifths) {
		p.fail(fmt.Errorf("key signature with %v fifths is out of range", k.Fifths))
		return
	}
	p.tokens = append(p.tokens, fmt.Sprintf("\\key %s \\%s", lineOfFifths[i], mode))
}

func clefName(c *xml2ly.Clef) string {
	var name string
	switch c.Sign {
	case "percussion":
		name = "percussion"
	case "TAB":
		name = "tab"
	default:
		line := c.Line
		if line == 0 {
			line = map[string]int{"G": 2, "F": 4, "C": 3}[c.Sign]
		}
		name = clefNames[c.Sign+strconv.Itoa(line)]
		if name == "" {
			name = "treble"
		}
	}
	switch {
	case c.OctaveChange > 0:
		name += "^" + strconv.Itoa(7*c.OctaveChange+1)
	case c.OctaveChange < 0:
		name += "_" + strconv.Itoa(-7*c.OctaveChange+1)
	}
	return name
}

// timeSignature handles compound numerators such as "3+2", which LilyPond
// writes as \time 3,2 5/8.
func timeSignature(t *xml2ly.Time) string {
	parts := strings.Split(t.Beats, "+")
	if len(parts) == 1 {
		return fmt.Sprintf("\\time %s/%d", strings.TrimSpace(t.Beats), t.BeatType)
	}
	sum := 0
	for i, s := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Sprintf("\\time %s/%d", t.Beats, t.BeatType)
		}
		parts[i] = strconv.Itoa(v)
		sum += v
	}
	return fmt.Sprintf("\\time %s %d/%d", strings.Join(parts, ","), sum, t.BeatType)
}

// lyricCollector aligns the syllables of every verse with the notes of the
// voice, so that they can be printed with \lyricsto. Notes without a
// syllable in a verse get a "_" skip.
type lyricCollector struct {
	order []string
	verse map[string][]string
	notes int
}

func (l *lyricCollector) add(n *xml2ly.Note) {
	if n.Grace || n.Rest || n.Tie == xml2ly.TieStop || n.Tie == xml2ly.TieContinue {
		return
	}
	l.notes++
	for _, ly := range n.Lyrics {
		num := ly.Number
		if num == "" {
			num = "1"
		}
		if l.verse == nil {
			l.verse = map[string][]string{}
		}
		syllables, ok := l.verse[num]
		if !ok {
			l.order = append(l.order, num)
		}
		for len(syllables) < l.notes-1 {
			syllables = append(syllables, "_")
		}
		if len(syllables) >= l.notes {
			// more than one lyric with the same number
			continue
		}
		s := String(ly.Text)
		if ly.Syllabic == "begin" || ly.Syllabic == "middle" {
			s += " --"
		}
		l.verse[num] = append(syllables, s)
	}
}

func (l *lyricCollector) verses() []string {
	var ret []string
	for _, num := range l.order {
		syllables := l.verse[num]
		for len(syllables) > 0 && syllables[len(syllables)-1] == "_" {
			syllables = syllables[:len(syllables)-1]
		}
		ret = append(ret, strings.Join(syllables, " "))
	}
	return ret
}
