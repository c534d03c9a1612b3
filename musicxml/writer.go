package musicxml

import (
	"fmt"
	"io"

	xml "github.com/subchen/go-xmldom"
	"github.com/vsariola/xml2ly"
)

const doctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">`

// Write writes the score as a partwise MusicXML document.
//
// Every part gets a single divisions value that expresses all its durations
// exactly. Voices are written one after another within each measure,
// separated by backups; the measures of the voices are matched by their
// index, so voices that skip measures should be padded first.
func Write(w io.Writer, s *xml2ly.Score) error {
	doc := xml.NewDocument("score-partwise")
	doc.Directives = append(doc.Directives, doctype)
	doc.Root.SetAttributeValue("version", "3.1")
	if s.Title != "" {
		doc.Root.CreateNode("work").CreateNode("work-title").Text = s.Title
	}
	if s.Composer != "" {
		c := doc.Root.CreateNode("identification").CreateNode("creator")
		c.SetAttributeValue("type", "composer")
		c.Text = s.Composer
	}
	pl := doc.Root.CreateNode("part-list")
	for _, g := range s.PartGroups {
		writePartGroup(pl, g, 1)
	}
	for _, p := range s.Parts() {
		if err := writePart(doc.Root, p); err != nil {
			return fmt.Errorf("part %v: %v", p.ID, err)
		}
	}
	if _, err := io.WriteString(w, doc.XMLPretty()); err != nil {
		return fmt.Errorf("could not write MusicXML: %v", err)
	}
	return nil
}

// writePartGroup numbers the groups by their depth, which keeps the numbers
// of the groups open at the same time distinct.
func writePartGroup(pl *xml.Node, g *xml2ly.PartGroup, depth int) {
	if !g.Implicit {
		start := pl.CreateNode("part-group")
		start.SetAttributeValue("type", "start")
		start.SetAttributeValue("number", fmt.Sprint(depth))
		if g.Name != "" {
			start.CreateNode("group-name").Text = g.Name
		}
		if g.Abbreviation != "" {
			start.CreateNode("group-abbreviation").Text = g.Abbreviation
		}
		sym := start.CreateNode("group-symbol")
		sym.SetAttributeValue("default-x", fmt.Sprint(g.DefaultX))
		sym.Text = g.Symbol.String()
		if g.Barline {
			start.CreateNode("group-barline").Text = "yes"
		}
		depth++
	}
	for _, e := range g.Elements {
		switch e := e.(type) {
		case *xml2ly.Part:
			sp := pl.CreateNode("score-part").SetAttributeValue("id", e.ID)
			sp.CreateNode("part-name").Text = e.Name
			if e.Abbreviation != "" {
				sp.CreateNode("part-abbreviation").Text = e.Abbreviation
			}
		case *xml2ly.PartGroup:
			writePartGroup(pl, e, depth)
		}
	}
	if !g.Implicit {
		stop := pl.CreateNode("part-group")
		stop.SetAttributeValue("type", "stop")
		stop.SetAttributeValue("number", fmt.Sprint(depth-1))
	}
}

type partWriter struct {
	divisions int64
	staves    int
	// first is true while writing the first voice of a measure, and
	// firstOnStaff while writing the first voice of a staff; barlines, keys
	// and times are written once per measure, clefs once per staff
	first, firstOnStaff bool
}

type voiceRef struct {
	staff    int
	voice    *xml2ly.Voice
	measures []*xml2ly.Measure
}

func writePart(root *xml.Node, p *xml2ly.Part) error {
	var voices []voiceRef
	count := 0
	for _, sn := range p.StaffNumbers() {
		st := p.Staves[sn]
		for _, vn := range st.VoiceNumbers() {
			v := st.Voices[vn]
			ms := v.Measures()
			voices = append(voices, voiceRef{staff: sn, voice: v, measures: ms})
			if len(ms) > count {
				count = len(ms)
			}
		}
	}
	pw := &partWriter{divisions: divisionsOf(p), staves: len(p.Staves)}
	part := root.CreateNode("part").SetAttributeValue("id", p.ID)
	for i := 0; i < count; i++ {
		mn := part.CreateNode("measure")
		number := ""
		for _, v := range voices {
			if i < len(v.measures) {
				number = v.measures[i].Number
				break
			}
		}
		if number == "" {
			number = fmt.Sprint(i + 1)
		}
		mn.SetAttributeValue("number", number)
		if i == 0 {
			attr := mn.CreateNode("attributes")
			attr.CreateNode("divisions").Text = fmt.Sprint(pw.divisions)
			if pw.staves > 1 {
				attr.CreateNode("staves").Text = fmt.Sprint(pw.staves)
			}
		}
		pw.first = true
		seen := map[int]bool{}
		var backup xml2ly.Rational
		for _, v := range voices {
			if i >= len(v.measures) {
				continue
			}
			pw.firstOnStaff = !seen[v.staff]
			seen[v.staff] = true
			if !backup.IsZero() {
				mn.CreateNode("backup").CreateNode("duration").Text = pw.duration(backup)
			}
			m := v.measures[i]
			for _, e := range m.Elements {
				if err := pw.element(mn, e, v.staff, v.voice.Number, nil); err != nil {
					return fmt.Errorf("measure %v: %v", number, err)
				}
			}
			backup = m.Duration()
			pw.first = false
		}
	}
	return nil
}

// tupletContext is the chain of tuplets enclosing an element, innermost
// last.
type tupletContext []*xml2ly.Tuplet

func (pw *partWriter) element(mn *xml.Node, e xml2ly.Element, staff, voice int, tc tupletContext) error {
	switch e := e.(type) {
	case *xml2ly.Note:
		pw.note(mn, e, nil, staff, voice, tc)
	case *xml2ly.Chord:
		for _, n := range e.Notes {
			pw.note(mn, n, e, staff, voice, tc)
		}
	case *xml2ly.Tuplet:
		inner := append(append(tupletContext(nil), tc...), e)
		for _, m := range e.Members {
			if err := pw.element(mn, m, staff, voice, inner); err != nil {
				return err
			}
		}
	case *xml2ly.Skip:
		fw := mn.CreateNode("forward")
		fw.CreateNode("duration").Text = pw.duration(e.Duration)
		fw.CreateNode("voice").Text = fmt.Sprint(voice)
		if pw.staves > 1 {
			fw.CreateNode("staff").Text = fmt.Sprint(staff)
		}
	case *xml2ly.Clef:
		if !pw.firstOnStaff {
			return nil
		}
		c := mn.CreateNode("attributes").CreateNode("clef")
		if pw.staves > 1 {
			c.SetAttributeValue("number", fmt.Sprint(staff))
		}
		c.CreateNode("sign").Text = e.Sign
		if e.Line != 0 {
			c.CreateNode("line").Text = fmt.Sprint(e.Line)
		}
		if e.OctaveChange != 0 {
			c.CreateNode("clef-octave-change").Text = fmt.Sprint(e.OctaveChange)
		}
	case *xml2ly.Key:
		if !pw.first {
			return nil
		}
		k := mn.CreateNode("attributes").CreateNode("key")
		k.CreateNode("fifths").Text = fmt.Sprint(e.Fifths)
		if e.Mode != "" {
			k.CreateNode("mode").Text = e.Mode
		}
	case *xml2ly.Time:
		if !pw.first {
			return nil
		}
		t := mn.CreateNode("attributes").CreateNode("time")
		if e.Symbol != "" {
			t.SetAttributeValue("symbol", e.Symbol)
		}
		t.CreateNode("beats").Text = e.Beats
		t.CreateNode("beat-type").Text = fmt.Sprint(e.BeatType)
	case *xml2ly.Barline:
		if !pw.first {
			return nil
		}
		bl := mn.CreateNode("barline").SetAttributeValue("location", e.Location)
		if e.Style != "" {
			bl.CreateNode("bar-style").Text = e.Style
		}
		if e.EndingType != "" {
			bl.CreateNode("ending").
				SetAttributeValue("number", e.Ending).
				SetAttributeValue("type", e.EndingType)
		}
		if e.Repeat != "" {
			r := bl.CreateNode("repeat").SetAttributeValue("direction", e.Repeat)
			if e.Times > 0 {
				r.SetAttributeValue("times", fmt.Sprint(e.Times))
			}
		}
	default:
		return fmt.Errorf("unknown element %T", e)
	}
	return nil
}

// note writes a note in MusicXML element order. Dynamics and wedges become
// a direction before the note. For the notes of a chord, the first one
// carries the articulations, dynamics and wedges of the chord.
func (pw *partWriter) note(mn *xml.Node, n *xml2ly.Note, c *xml2ly.Chord, staff, voice int, tc tupletContext) {
	chord := c != nil && c.Notes[0] != n
	var dynamics, articulations []string
	var wedges []xml2ly.Wedge
	if c != nil && !chord {
		dynamics = append(dynamics, c.Dynamics...)
		wedges = append(wedges, c.Wedges...)
		articulations = append(articulations, c.Articulations...)
	}
	dynamics = append(dynamics, n.Dynamics...)
	wedges = append(wedges, n.Wedges...)
	articulations = append(articulations, n.Articulations...)
	if len(dynamics) > 0 || len(wedges) > 0 {
		d := mn.CreateNode("direction")
		if len(dynamics) > 0 {
			dn := d.CreateNode("direction-type").CreateNode("dynamics")
			for _, s := range dynamics {
				dn.CreateNode(s)
			}
		}
		for _, w := range wedges {
			d.CreateNode("direction-type").CreateNode("wedge").SetAttributeValue("type", string(w))
		}
		if pw.staves > 1 {
			d.CreateNode("staff").Text = fmt.Sprint(staff)
		}
	}
	nn := mn.CreateNode("note")
	if n.Grace {
		nn.CreateNode("grace")
	}
	if chord {
		nn.CreateNode("chord")
	}
	switch {
	case n.Rest:
		nn.CreateNode("rest")
	case n.Unpitched:
		u := nn.CreateNode("unpitched")
		u.CreateNode("display-step").Text = n.Pitch.Step
		u.CreateNode("display-octave").Text = fmt.Sprint(n.Pitch.Octave)
	default:
		p := nn.CreateNode("pitch")
		p.CreateNode("step").Text = n.Pitch.Step
		if n.Pitch.Alter != 0 {
			p.CreateNode("alter").Text = fmt.Sprint(n.Pitch.Alter)
		}
		p.CreateNode("octave").Text = fmt.Sprint(n.Pitch.Octave)
	}
	if !n.Grace {
		nn.CreateNode("duration").Text = pw.duration(n.Duration)
	}
	if n.Tie == xml2ly.TieStop || n.Tie == xml2ly.TieContinue {
		nn.CreateNode("tie").SetAttributeValue("type", "stop")
	}
	if n.Tie == xml2ly.TieStart || n.Tie == xml2ly.TieContinue {
		nn.CreateNode("tie").SetAttributeValue("type", "start")
	}
	nn.CreateNode("voice").Text = fmt.Sprint(voice)
	if n.Type != "" {
		nn.CreateNode("type").Text = n.Type
	}
	for i := 0; i < n.Dots; i++ {
		nn.CreateNode("dot")
	}
	if len(tc) > 0 {
		r := xml2ly.Ratio{Actual: 1, Normal: 1}
		for _, t := range tc {
			r.Actual *= t.Ratio.Actual
			r.Normal *= t.Ratio.Normal
		}
		tm := nn.CreateNode("time-modification")
		tm.CreateNode("actual-notes").Text = fmt.Sprint(r.Actual)
		tm.CreateNode("normal-notes").Text = fmt.Sprint(r.Normal)
	}
	if pw.staves > 1 {
		nn.CreateNode("staff").Text = fmt.Sprint(staff)
	}
	var notations *xml.Node
	notation := func(name string) *xml.Node {
		if notations == nil {
			notations = nn.CreateNode("notations")
		}
		return notations.CreateNode(name)
	}
	if n.Tie == xml2ly.TieStop || n.Tie == xml2ly.TieContinue {
		notation("tied").SetAttributeValue("type", "stop")
	}
	if n.Tie == xml2ly.TieStart || n.Tie == xml2ly.TieContinue {
		notation("tied").SetAttributeValue("type", "start")
	}
	if !chord {
		for i, t := range tc {
			if firstLeaf(t) == n {
				notation("tuplet").SetAttributeValue("type", "start").SetAttributeValue("number", fmt.Sprint(i+1))
			}
		}
		for i := len(tc) - 1; i >= 0; i-- {
			if lastLeaf(tc[i]) == n {
				notation("tuplet").SetAttributeValue("type", "stop").SetAttributeValue("number", fmt.Sprint(i+1))
			}
		}
	}
	if len(articulations) > 0 {
		var arts *xml.Node
		for _, a := range articulations {
			if a == "fermata" {
				notation("fermata")
				continue
			}
			if arts == nil {
				arts = notation("articulations")
			}
			arts.CreateNode(a)
		}
	}
	for _, l := range n.Lyrics {
		ln := nn.CreateNode("lyric")
		if l.Number != "" {
			ln.SetAttributeValue("number", l.Number)
		}
		if l.Syllabic != "" {
			ln.CreateNode("syllabic").Text = l.Syllabic
		}
		ln.CreateNode("text").Text = l.Text
	}
}

// firstLeaf returns the first note of the tuplet, descending into chords
// and nested tuplets.
func firstLeaf(t *xml2ly.Tuplet) *xml2ly.Note {
	if len(t.Members) == 0 {
		return nil
	}
	return leaf(t.Members[0], true)
}

func lastLeaf(t *xml2ly.Tuplet) *xml2ly.Note {
	if len(t.Members) == 0 {
		return nil
	}
	return leaf(t.Members[len(t.Members)-1], false)
}

func leaf(e xml2ly.Element, first bool) *xml2ly.Note {
	switch e := e.(type) {
	case *xml2ly.Note:
		return e
	case *xml2ly.Chord:
		if len(e.Notes) > 0 {
			return e.Notes[0]
		}
	case *xml2ly.Tuplet:
		if first {
			return firstLeaf(e)
		}
		return lastLeaf(e)
	}
	return nil
}

// duration converts whole notes to divisions.
func (pw *partWriter) duration(d xml2ly.Rational) string {
	q := d.Mul(xml2ly.NewRational(4*pw.divisions, 1))
	return fmt.Sprint(q.Num() / q.Den())
}

// divisionsOf returns the smallest number of divisions per quarter note
// that expresses every duration of the part as an integer.
func divisionsOf(p *xml2ly.Part) int64 {
	div := int64(1)
	xml2ly.Inspect(p, func(n xml2ly.Node) bool {
		var d xml2ly.Rational
		switch n := n.(type) {
		case *xml2ly.Note:
			d = n.Duration
		case *xml2ly.Skip:
			d = n.Duration
		default:
			return true
		}
		q := d.Mul(xml2ly.NewRational(4, 1))
		div = lcm(div, q.Den())
		return true
	})
	return div
}

func lcm(a, b int64) int64 {
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	return a / x * b
}
