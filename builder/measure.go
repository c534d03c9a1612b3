package builder

import (
	"sort"

	"github.com/vsariola/xml2ly"
	"github.com/vsariola/xml2ly/musicxml"
)

type (
	// partState is the state of the <part> being read.
	partState struct {
		part      *xml2ly.Part
		divisions int
		staves    map[int]*staffState
		voices    map[voiceKey]*voiceState
		order     []voiceKey
		history   []measureRecord

		// markers of a right barline that take effect at the next measure
		carried barlineMarkers
	}

	voiceKey struct {
		staff, voice int
	}

	// staffState remembers the current attributes of a staff and the
	// directions waiting for the next note on it.
	staffState struct {
		clef     *xml2ly.Clef
		key      *xml2ly.Key
		time     *xml2ly.Time
		dynamics []string
		wedges   []xml2ly.Wedge
	}

	voiceState struct {
		voice   *xml2ly.Voice
		staff   int
		asm     *assembler
		pos     positionTracker
		repeats repeatDriver
		// active is true if the voice has content in the current measure
		active bool
	}

	measureState struct {
		number   string
		cursor   positionTracker
		barlines []*xml2ly.Barline
	}

	measureRecord struct {
		number string
		length xml2ly.Rational
	}
)

func (b *Builder) startPart(e *musicxml.Element) error {
	if err := b.closePartList(e.Line); err != nil {
		return err
	}
	id := e.Attr["id"]
	p, ok := b.parts[id]
	if !ok {
		return xml2ly.Structural(e.Line, "part %q is not in the part list", id)
	}
	b.part = &partState{
		part:   p,
		staves: map[int]*staffState{},
		voices: map[voiceKey]*voiceState{},
	}
	b.curStaff, b.curVoice = 1, 1
	return nil
}

func (b *Builder) endPart(e *musicxml.Element) error {
	if b.part == nil {
		return nil
	}
	for _, k := range b.part.order {
		n, err := b.part.voices[k].repeats.Close()
		if err != nil {
			return err
		}
		if n > 0 {
			b.warn(e.Line, "%d repeat(s) of part %q staff %d voice %d not closed", n, b.part.part.ID, k.staff, k.voice)
		}
	}
	b.part = nil
	return nil
}

func (b *Builder) startMeasure(e *musicxml.Element) error {
	if b.part == nil {
		return xml2ly.Structural(e.Line, "measure outside of a part")
	}
	b.measure = &measureState{number: e.Attr["number"]}
	return nil
}

func (b *Builder) staff(number int) *staffState {
	st, ok := b.part.staves[number]
	if !ok {
		st = &staffState{}
		// key and time come before <staves> in <attributes> and hold for
		// every staff of the part
		if first, ok := b.part.staves[1]; ok && number != 1 {
			st.key, st.time = first.key, first.time
		}
		b.part.staves[number] = st
	}
	return st
}

// voiceState returns the voice, creating it if needed, and marks it active
// in the current measure. A new voice starts with the current clef, key and
// time of its staff.
func (b *Builder) voiceState(staff, voice int) *voiceState {
	p := b.part
	k := voiceKey{staff, voice}
	vs, ok := p.voices[k]
	if !ok {
		v, _ := p.part.Staff(staff).Voice(voice)
		vs = &voiceState{voice: v, staff: staff, asm: newAssembler(), repeats: repeatDriver{voice: v}}
		p.voices[k] = vs
		p.order = append(p.order, k)
		if b.cfg.PadVoices {
			for _, h := range p.history {
				m := &xml2ly.Measure{Number: h.number}
				if !h.length.IsZero() {
					m.Elements = []xml2ly.Element{&xml2ly.Skip{Duration: h.length}}
				}
				vs.repeats.AppendMeasure(m)
			}
		}
		st := b.staff(staff)
		vs.active = true
		if st.clef != nil {
			vs.asm.Append(clone(st.clef))
		}
		if st.key != nil {
			vs.asm.Append(clone(st.key))
		}
		if st.time != nil {
			vs.asm.Append(clone(st.time))
		}
	}
	if !vs.active {
		vs.active = true
		vs.pos.ResetForNewMeasure()
	}
	return vs
}

// pad fills the voice with a skip up to the current position of the measure.
func (b *Builder) pad(vs *voiceState) {
	if gap := vs.pos.PadUpTo(b.measure.cursor.Position()); !gap.IsZero() {
		vs.asm.Append(&xml2ly.Skip{Duration: gap})
	}
}

func (b *Builder) shiftChild(e *musicxml.Element) error {
	var err error
	switch e.Name {
	case "duration":
		b.shift.duration, err = intText(e)
	case "staff":
		b.shift.staff, err = intText(e)
	case "voice":
		b.shift.voice, err = intText(e)
	case "backup", "forward":
		s := b.shift
		b.shift = nil
		if b.measure == nil {
			return xml2ly.Structural(e.Line, "<%s> outside of a measure", e.Name)
		}
		d, err := b.wholeNotes(s.duration, e.Line)
		if err != nil {
			return err
		}
		if e.Name == "backup" {
			if f := b.measure.cursor.Backup(d); f != nil {
				f.Line = e.Line
				b.cfg.report(f)
			}
			return nil
		}
		return b.forward(s, d)
	}
	return err
}

// forward moves the measure position ahead. The target voice gets a skip
// if it has reached the position; a voice that already has content beyond
// it is left alone.
func (b *Builder) forward(s *shiftState, d xml2ly.Rational) error {
	if s.staff > 0 {
		b.curStaff = s.staff
	}
	if s.voice > 0 {
		b.curVoice = s.voice
	}
	vs := b.voiceState(b.curStaff, b.curVoice)
	b.pad(vs)
	if vs.pos.Position().Equal(b.measure.cursor.Position()) && !d.IsZero() {
		vs.asm.Append(&xml2ly.Skip{Duration: d})
		vs.pos.Advance(d)
	}
	b.measure.cursor.Advance(d)
	return nil
}

func (b *Builder) wholeNotes(duration, line int) (xml2ly.Rational, error) {
	if b.part == nil || b.part.divisions <= 0 {
		return xml2ly.Rational{}, xml2ly.Malformed(line, "duration given before divisions")
	}
	if duration < 0 {
		return xml2ly.Rational{}, xml2ly.Malformed(line, "negative duration %d", duration)
	}
	return xml2ly.WholeNotes(duration, b.part.divisions), nil
}

// endMeasure closes the measure in every voice of the part: the voice is
// padded to the length of the measure, the assembled elements get the
// barlines, and the measure is fed to the repeat structure of the voice.
func (b *Builder) endMeasure(e *musicxml.Element) error {
	m := b.measure
	b.measure = nil
	if m == nil || b.part == nil {
		return nil
	}
	p := b.part
	length := m.cursor.Length()
	left, right := p.carried, barlineMarkers{}
	p.carried = barlineMarkers{}
	var leftBars, rightBars []*xml2ly.Barline
	for _, bl := range m.barlines {
		if bl.Location == "left" {
			leftBars = append(leftBars, bl)
			left.add(bl)
		} else {
			rightBars = append(rightBars, bl)
			right.add(bl)
		}
	}
	// a forward repeat or an ending start on a right barline opens at the
	// next measure
	p.carried.forward, right.forward = right.forward, false
	p.carried.hasEnding, p.carried.endingStart, right.hasEnding = right.hasEnding, right.endingStart, false
	for _, k := range p.order {
		vs := p.voices[k]
		if !vs.active {
			if !b.cfg.PadVoices {
				// no measure for the voice, but its repeats follow the
				// barlines all the same
				if err := vs.repeats.Left(left); err != nil {
					return err
				}
				if err := vs.repeats.Right(right); err != nil {
					return err
				}
				continue
			}
			vs.pos.ResetForNewMeasure()
		}
		vs.active = false
		if gap := vs.pos.PadUpTo(length); !gap.IsZero() {
			vs.asm.Append(&xml2ly.Skip{Duration: gap})
		}
		elems, failures := vs.asm.Flush()
		for _, f := range failures {
			f.Line = e.Line
			b.cfg.report(f)
		}
		meas := &xml2ly.Measure{Number: m.number}
		for _, bl := range leftBars {
			meas.Elements = append(meas.Elements, clone(bl))
		}
		meas.Elements = append(meas.Elements, elems...)
		for _, bl := range rightBars {
			meas.Elements = append(meas.Elements, clone(bl))
		}
		last := vs.voice.LastMeasure()
		if err := vs.repeats.Left(left); err != nil {
			return err
		}
		if last != nil && m.number != "" && last.Number == m.number {
			// exporters split a measure at a repeat sign, keeping its number
			b.warn(e.Line, "measure %q repeated in staff %d voice %d, merged with the previous one", m.number, k.staff, k.voice)
			last.Elements = append(last.Elements, meas.Elements...)
		} else if err := vs.repeats.AppendMeasure(meas); err != nil {
			return err
		}
		if err := vs.repeats.Right(right); err != nil {
			return err
		}
	}
	p.history = append(p.history, measureRecord{number: m.number, length: length})
	return nil
}

func (m *barlineMarkers) add(bl *xml2ly.Barline) {
	switch bl.Repeat {
	case "forward":
		m.forward = true
	case "backward":
		m.backward = true
		m.backwardTimes = bl.Times
	}
	switch bl.EndingType {
	case "start":
		m.hasEnding = true
		m.endingStart = bl.Ending
	case "stop":
		m.endingStop = true
		m.endingKind = xml2ly.EndingHooked
	case "discontinue":
		m.endingStop = true
		m.endingKind = xml2ly.EndingHookless
	}
}

func (b *Builder) barlineChild(e *musicxml.Element) error {
	switch e.Name {
	case "bar-style":
		b.barline.Style = e.Text
	case "repeat":
		switch dir := e.Attr["direction"]; dir {
		case "forward", "backward":
			b.barline.Repeat = dir
		default:
			b.warn(e.Line, "unknown repeat direction %q, ignored", dir)
		}
		times, err := intAttr(e, "times", 0)
		if err != nil {
			return err
		}
		b.barline.Times = times
	case "ending":
		switch typ := e.Attr["type"]; typ {
		case "start", "stop", "discontinue":
			b.barline.EndingType = typ
			b.barline.Ending = e.Attr["number"]
		default:
			b.warn(e.Line, "unknown ending type %q, ignored", typ)
		}
	}
	return nil
}

func (b *Builder) endBarline() error {
	bl := b.barline
	b.barline = nil
	if b.measure == nil {
		return xml2ly.Structural(0, "barline outside of a measure")
	}
	b.measure.barlines = append(b.measure.barlines, bl)
	return nil
}

// attributesChild handles the contents of <attributes>.
func (b *Builder) attributesChild(e *musicxml.Element) error {
	var err error
	switch e.Name {
	case "divisions":
		if b.part == nil {
			return nil
		}
		var d int
		if d, err = intText(e); err != nil {
			return err
		}
		if d <= 0 {
			return xml2ly.Malformed(e.Line, "divisions must be positive, got %d", d)
		}
		b.part.divisions = d
	case "staves":
		if b.part == nil {
			return nil
		}
		var n int
		if n, err = intText(e); err != nil {
			return err
		}
		for i := 1; i <= n; i++ {
			b.staff(i)
		}
	case "fifths":
		if b.key != nil {
			b.key.Fifths, err = intText(e)
		}
	case "mode":
		if b.key != nil {
			b.key.Mode = e.Text
		}
	case "beats":
		if b.time != nil {
			if b.time.Beats != "" {
				b.time.Beats += "+"
			}
			b.time.Beats += e.Text
		}
	case "beat-type":
		if b.time != nil {
			b.time.BeatType, err = intText(e)
		}
	case "sign":
		if b.clef != nil {
			b.clef.Sign = e.Text
		}
	case "line":
		if b.clef != nil && b.parent() == "clef" {
			b.clef.Line, err = intText(e)
		}
	case "clef-octave-change":
		if b.clef != nil {
			b.clef.OctaveChange, err = intText(e)
		}
	case "key":
		k := b.key
		b.key = nil
		if k == nil {
			return nil
		}
		return b.applyAttribute(e, 0, k)
	case "time":
		t := b.time
		b.time = nil
		if t == nil || t.Beats == "" {
			// senza misura
			return nil
		}
		t.Symbol = e.Attr["symbol"]
		return b.applyAttribute(e, 0, t)
	case "clef":
		c := b.clef
		b.clef = nil
		if c == nil {
			return nil
		}
		return b.applyAttribute(e, 1, c)
	}
	return err
}

// applyAttribute remembers a clef, key or time on its staff, or on all
// staves if the element has no staff number, and appends it to the voices
// already on those staves.
func (b *Builder) applyAttribute(e *musicxml.Element, def int, attr xml2ly.Element) error {
	if b.part == nil || b.measure == nil {
		return xml2ly.Structural(e.Line, "<%s> outside of a measure", e.Name)
	}
	number, err := intAttr(e, "number", def)
	if err != nil {
		return err
	}
	var staves []int
	if number > 0 {
		b.staff(number)
		staves = []int{number}
	} else {
		b.staff(1)
		staves = sortedKeys(b.part.staves)
	}
	for _, n := range staves {
		st := b.staff(n)
		switch a := attr.(type) {
		case *xml2ly.Clef:
			st.clef = a
		case *xml2ly.Key:
			st.key = a
		case *xml2ly.Time:
			st.time = a
		}
		for _, k := range b.part.order {
			if k.staff != n {
				continue
			}
			vs := b.voiceState(k.staff, k.voice)
			b.pad(vs)
			vs.asm.Append(clone(attr))
		}
	}
	return nil
}

// clone copies the elements that are shared by several voices.
func clone(e xml2ly.Element) xml2ly.Element {
	switch e := e.(type) {
	case *xml2ly.Clef:
		c := *e
		return &c
	case *xml2ly.Key:
		c := *e
		return &c
	case *xml2ly.Time:
		c := *e
		return &c
	case *xml2ly.Barline:
		c := *e
		return &c
	}
	return e
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
