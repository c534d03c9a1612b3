package xml2ly

import (
	"sort"
)

type (
	// Score is the root of the score model: the header fields and the
	// top-level part groups in left-to-right nesting order. Every part of the
	// score is reachable through exactly one PartGroup.
	Score struct {
		Title      string       `yaml:",omitempty"`
		Composer   string       `yaml:",omitempty"`
		PartGroups []*PartGroup `yaml:"partGroups"`
	}

	// PartGroup is a brace, bracket etc. drawn around consecutive parts. The
	// Number is the transient number used in the MusicXML document to pair
	// start and stop markers; the same number can be reused by groups that
	// do not overlap, so it is not an identity.
	PartGroup struct {
		Number       int `yaml:"-"`
		Name         string
		Abbreviation string `yaml:",omitempty"`
		Symbol       PartGroupSymbol
		// DefaultX is the horizontal offset of the group symbol in tenths.
		// Groups more to the left (more negative) enclose groups more to the
		// right.
		DefaultX float64 `yaml:"defaultX"`
		Barline  bool    `yaml:",omitempty"`
		// Implicit is true for the group synthesized for parts that appear
		// outside of any explicit group.
		Implicit bool               `yaml:",omitempty"`
		Elements []PartGroupElement `yaml:"-"`
	}

	// PartGroupElement is either a *Part or a nested *PartGroup.
	PartGroupElement interface {
		Node
		partGroupElement()
	}

	// PartGroupSymbol is the symbol drawn at the left of a part group.
	PartGroupSymbol int

	// Part is a single instrument of the score. Staves are keyed by their
	// number, starting from 1.
	Part struct {
		ID           string `yaml:"id"`
		Name         string `yaml:",omitempty"`
		Abbreviation string `yaml:",omitempty"`
		Staves       map[int]*Staff
	}

	// Staff owns the voices written on it, keyed by voice number.
	Staff struct {
		Number int
		Voices map[int]*Voice
	}

	// Voice is a single melodic line of a staff. Content is a sequence of
	// segments (runs of measures) and repeats, which in turn contain
	// segments and nested repeats.
	Voice struct {
		Number  int
		Content []VoiceElement
	}

	// VoiceElement is either a *Segment or a *Repeat.
	VoiceElement interface {
		Node
		voiceElement()
	}

	// Segment is a run of consecutive measures that are not separated by
	// repeat structure.
	Segment struct {
		Measures []*Measure
	}

	// Measure owns the music elements of one voice in one measure. Number is
	// the measure number as written in the document; it is not necessarily
	// numeric.
	Measure struct {
		Number   string
		Elements []Element
	}
)

const (
	SymbolNone PartGroupSymbol = iota
	SymbolBrace
	SymbolBracket
	SymbolLine
	SymbolSquare
)

var partGroupSymbolNames = []string{"none", "brace", "bracket", "line", "square"}

func (s PartGroupSymbol) String() string {
	if s < 0 || int(s) >= len(partGroupSymbolNames) {
		return "none"
	}
	return partGroupSymbolNames[s]
}

// ParsePartGroupSymbol returns the symbol with the given MusicXML name; ok is
// false for names that are not known.
func ParsePartGroupSymbol(name string) (symbol PartGroupSymbol, ok bool) {
	for i, n := range partGroupSymbolNames {
		if n == name {
			return PartGroupSymbol(i), true
		}
	}
	return SymbolNone, false
}

func (*Part) partGroupElement()      {}
func (*PartGroup) partGroupElement() {}
func (*Segment) voiceElement()       {}
func (*Repeat) voiceElement()        {}

// Parts returns all parts of the score in the order they are drawn, top to
// bottom.
func (s *Score) Parts() []*Part {
	var ret []*Part
	for _, g := range s.PartGroups {
		ret = append(ret, g.Parts()...)
	}
	return ret
}

// Parts returns all parts of the group, including those in nested groups,
// in order.
func (g *PartGroup) Parts() []*Part {
	var ret []*Part
	for _, e := range g.Elements {
		switch e := e.(type) {
		case *Part:
			ret = append(ret, e)
		case *PartGroup:
			ret = append(ret, e.Parts()...)
		}
	}
	return ret
}

// Staff returns the staff with the given number, creating it if the part
// does not have it yet.
func (p *Part) Staff(number int) *Staff {
	if p.Staves == nil {
		p.Staves = map[int]*Staff{}
	}
	s, ok := p.Staves[number]
	if !ok {
		s = &Staff{Number: number, Voices: map[int]*Voice{}}
		p.Staves[number] = s
	}
	return s
}

// StaffNumbers returns the numbers of the staves of the part in ascending
// order.
func (p *Part) StaffNumbers() []int {
	return sortedKeys(p.Staves)
}

// Voice returns the voice with the given number, creating it if the staff
// does not have it yet. The second return value is true if the voice was
// created.
func (s *Staff) Voice(number int) (*Voice, bool) {
	if s.Voices == nil {
		s.Voices = map[int]*Voice{}
	}
	v, ok := s.Voices[number]
	if !ok {
		v = &Voice{Number: number}
		s.Voices[number] = v
	}
	return v, !ok
}

// VoiceNumbers returns the numbers of the voices of the staff in ascending
// order.
func (s *Staff) VoiceNumbers() []int {
	return sortedKeys(s.Voices)
}

// Measures returns all measures of the voice in document order, flattening
// the repeat structure: for a repeat, the measures of the common part come
// first and then the measures of each ending.
func (v *Voice) Measures() []*Measure {
	return measuresOf(v.Content)
}

// LastMeasure returns the most recently added measure of the voice, or nil.
func (v *Voice) LastMeasure() *Measure {
	m := v.Measures()
	if len(m) == 0 {
		return nil
	}
	return m[len(m)-1]
}

func measuresOf(content []VoiceElement) []*Measure {
	var ret []*Measure
	for _, e := range content {
		switch e := e.(type) {
		case *Segment:
			ret = append(ret, e.Measures...)
		case *Repeat:
			if e.CommonPart != nil {
				ret = append(ret, measuresOf(e.CommonPart.Content)...)
			}
			for _, end := range e.Endings {
				ret = append(ret, measuresOf(end.Content)...)
			}
		}
	}
	return ret
}

// appendMeasure adds the measure to the last segment of content, starting a
// new segment if content does not end with one.
func appendMeasure(content []VoiceElement, m *Measure) []VoiceElement {
	if len(content) > 0 {
		if seg, ok := content[len(content)-1].(*Segment); ok {
			seg.Measures = append(seg.Measures, m)
			return content
		}
	}
	return append(content, &Segment{Measures: []*Measure{m}})
}

// AppendMeasure adds a measure at the end of the voice, outside of any
// repeat.
func (v *Voice) AppendMeasure(m *Measure) {
	v.Content = appendMeasure(v.Content, m)
}

// Duration returns the sum of the durations of the elements of the measure
// that advance time.
func (m *Measure) Duration() Rational {
	return elementsDuration(m.Elements)
}

func elementsDuration(elems []Element) Rational {
	var ret Rational
	for _, e := range elems {
		ret = ret.Add(ElementDuration(e))
	}
	return ret
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
