package builder

import (
	"strconv"

	"github.com/vsariola/xml2ly"
	"github.com/vsariola/xml2ly/musicxml"
)

type (
	noteState struct {
		n           *xml2ly.Note
		duration    int
		hasDuration bool
		ratio       xml2ly.Ratio
	}

	directionState struct {
		staff    int
		dynamics []string
		wedges   []xml2ly.Wedge
	}
)

var noteTypes = map[string]bool{
	"1024th": true, "512th": true, "256th": true, "128th": true,
	"64th": true, "32nd": true, "16th": true, "eighth": true,
	"quarter": true, "half": true, "whole": true, "breve": true,
	"long": true, "maxima": true,
}

func (b *Builder) startNote(e *musicxml.Element) {
	b.note = &noteState{n: &xml2ly.Note{Staff: 1, Voice: 1, Line: e.Line}}
}

func (b *Builder) noteChild(e *musicxml.Element) error {
	n := b.note.n
	parent := b.parent()
	var err error
	switch e.Name {
	case "grace":
		n.Grace = true
	case "chord":
		n.Chord = true
	case "rest":
		n.Rest = true
	case "unpitched":
		n.Unpitched = true
	case "step", "display-step":
		n.Pitch.Step = e.Text
	case "alter":
		n.Pitch.Alter, err = strconv.ParseFloat(e.Text, 64)
		if err != nil {
			return xml2ly.Malformed(e.Line, "<alter>: %q is not a number", e.Text)
		}
	case "octave", "display-octave":
		n.Pitch.Octave, err = intText(e)
	case "duration":
		if parent == "note" {
			b.note.duration, err = intText(e)
			b.note.hasDuration = true
		}
	case "voice":
		if parent == "note" {
			n.Voice, err = intText(e)
		}
	case "staff":
		if parent == "note" {
			n.Staff, err = intText(e)
		}
	case "type":
		if parent == "note" {
			if noteTypes[e.Text] {
				n.Type = e.Text
			} else {
				b.warn(e.Line, "unknown note type %q, the duration is used instead", e.Text)
			}
		}
	case "dot":
		n.Dots++
	case "actual-notes":
		if parent == "time-modification" {
			b.note.ratio.Actual, err = intText(e)
		}
	case "normal-notes":
		if parent == "time-modification" {
			b.note.ratio.Normal, err = intText(e)
		}
	case "time-modification":
		r := b.note.ratio
		if r.Actual <= 0 || r.Normal <= 0 {
			return xml2ly.Malformed(e.Line, "time modification %d:%d", r.Actual, r.Normal)
		}
		n.TimeModification = &r
	case "tie", "tied":
		n.Tie = mergeTie(n.Tie, e.Attr["type"])
	case "tuplet":
		return b.tuplet(e)
	case "fermata":
		n.Articulations = append(n.Articulations, e.Name)
	case "text":
		if b.lyric != nil && parent == "lyric" {
			if b.lyric.Text != "" {
				b.lyric.Text += " "
			}
			b.lyric.Text += e.Text
		}
	case "syllabic":
		if b.lyric != nil {
			b.lyric.Syllabic = e.Text
		}
	case "lyric":
		if b.lyric != nil && !b.cfg.IgnoreLyrics {
			n.Lyrics = append(n.Lyrics, *b.lyric)
		}
		b.lyric = nil
	default:
		switch parent {
		case "articulations":
			n.Articulations = append(n.Articulations, e.Name)
		case "dynamics":
			if !b.cfg.IgnoreDynamics {
				n.Dynamics = append(n.Dynamics, dynamicName(e))
			}
		}
	}
	return err
}

func (b *Builder) tuplet(e *musicxml.Element) error {
	number, err := intAttr(e, "number", 1)
	if err != nil {
		return err
	}
	m := xml2ly.TupletMarker{Number: number}
	switch e.Attr["type"] {
	case "start":
		m.Type = xml2ly.TupletStart
	case "stop":
		m.Type = xml2ly.TupletStop
	default:
		b.warn(e.Line, "unknown tuplet type %q, ignored", e.Attr["type"])
		return nil
	}
	b.note.n.Tuplets = append(b.note.n.Tuplets, m)
	return nil
}

func mergeTie(t xml2ly.TieType, typ string) xml2ly.TieType {
	switch typ {
	case "start":
		if t == xml2ly.TieStop || t == xml2ly.TieContinue {
			return xml2ly.TieContinue
		}
		return xml2ly.TieStart
	case "stop":
		if t == xml2ly.TieStart || t == xml2ly.TieContinue {
			return xml2ly.TieContinue
		}
		return xml2ly.TieStop
	case "continue":
		return xml2ly.TieContinue
	}
	return t
}

func dynamicName(e *musicxml.Element) string {
	if e.Name == "other-dynamics" {
		return e.Text
	}
	return e.Name
}

// endNote completes the note and hands it to the assembler of its voice.
// The voice is padded up to the position of the note first. Chord members
// share the onset of the chord head and do not move the position.
func (b *Builder) endNote(e *musicxml.Element) error {
	ns := b.note
	b.note = nil
	b.lyric = nil
	n := ns.n
	if b.measure == nil {
		return xml2ly.Structural(e.Line, "note outside of a measure")
	}
	if !n.Grace {
		if !ns.hasDuration {
			return xml2ly.Malformed(e.Line, "note without a duration")
		}
		d, err := b.wholeNotes(ns.duration, e.Line)
		if err != nil {
			return err
		}
		n.Duration = d
		n.Divisions = ns.duration
	}
	if n.Chord {
		n.Tuplets = nil
	}
	vs := b.voiceState(n.Staff, n.Voice)
	b.curStaff, b.curVoice = n.Staff, n.Voice
	if !n.Chord {
		b.pad(vs)
		st := b.staff(n.Staff)
		n.Dynamics = append(st.dynamics, n.Dynamics...)
		n.Wedges = append(st.wedges, n.Wedges...)
		st.dynamics, st.wedges = nil, nil
	}
	if err := vs.asm.SubmitNote(n); err != nil {
		return err
	}
	if !n.Chord && !n.Grace {
		vs.pos.Advance(n.Duration)
		b.measure.cursor.Advance(n.Duration)
	}
	return nil
}

func (b *Builder) directionChild(e *musicxml.Element) error {
	var err error
	switch e.Name {
	case "staff":
		if b.parent() == "direction" {
			b.direction.staff, err = intText(e)
		}
	case "wedge":
		switch w := xml2ly.Wedge(e.Attr["type"]); w {
		case xml2ly.WedgeCrescendo, xml2ly.WedgeDiminuendo, xml2ly.WedgeStop:
			b.direction.wedges = append(b.direction.wedges, w)
		case "continue":
		default:
			b.warn(e.Line, "unknown wedge type %q, ignored", w)
		}
	default:
		if b.parent() == "dynamics" {
			b.direction.dynamics = append(b.direction.dynamics, dynamicName(e))
		}
	}
	return err
}

// endDirection queues the dynamics and wedges of the direction for the
// next note on its staff.
func (b *Builder) endDirection() error {
	d := b.direction
	b.direction = nil
	if b.part == nil || b.cfg.IgnoreDynamics {
		return nil
	}
	st := b.staff(d.staff)
	st.dynamics = append(st.dynamics, d.dynamics...)
	st.wedges = append(st.wedges, d.wedges...)
	return nil
}
