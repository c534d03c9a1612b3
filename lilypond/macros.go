package lilypond

import (
	"fmt"
	"strings"

	"github.com/vsariola/xml2ly"
)

// Variable is a LilyPond variable definition: Name = { Music }.
type Variable struct {
	Name  string
	Music string
}

type VoiceMacro struct {
	Variable
	Style  string
	Lyrics []Variable
}

// ScoreMacros is the data the score templates are executed with: the
// options, the score and the music of every voice, printed in advance and
// named after the part, staff and voice.
type ScoreMacros struct {
	Options
	Score  *xml2ly.Score
	Voices []*VoiceMacro

	voices map[*xml2ly.Voice]*VoiceMacro
}

var voiceStyles = []string{"\\voiceOne ", "\\voiceTwo ", "\\voiceThree ", "\\voiceFour "}

func NewScoreMacros(s *xml2ly.Score, o Options) (*ScoreMacros, error) {
	m := &ScoreMacros{Options: o, Score: s, voices: map[*xml2ly.Voice]*VoiceMacro{}}
	used := map[string]bool{}
	for i, part := range s.Parts() {
		base := Identifier(part.Name)
		if base == "" {
			base = "Part"
		}
		name := base
		for k := i + 1; used[name]; k++ {
			name = base + NumberWords(k)
		}
		used[name] = true
		for _, sn := range part.StaffNumbers() {
			staff := part.Staves[sn]
			numbers := staff.VoiceNumbers()
			for j, vn := range numbers {
				v := staff.Voices[vn]
				music, verses, err := Voice(v, o)
				if err != nil {
					return nil, fmt.Errorf("part %v, staff %v, voice %v: %v", part.ID, sn, vn, err)
				}
				vm := &VoiceMacro{Variable: Variable{Name: name + "Staff" + NumberWords(sn) + "Voice" + NumberWords(vn), Music: music}}
				if len(numbers) > 1 && j < len(voiceStyles) {
					vm.Style = voiceStyles[j]
				}
				for k, verse := range verses {
					vm.Lyrics = append(vm.Lyrics, Variable{Name: vm.Name + "Lyrics" + NumberWords(k+1), Music: verse})
				}
				m.Voices = append(m.Voices, vm)
				m.voices[v] = vm
			}
		}
	}
	return m, nil
}

func (m *ScoreMacros) Voice(v *xml2ly.Voice) *VoiceMacro {
	return m.voices[v]
}

func (m *ScoreMacros) Quote(s string) string {
	return String(s)
}

func (m *ScoreMacros) AsPart(e xml2ly.PartGroupElement) *xml2ly.Part {
	p, _ := e.(*xml2ly.Part)
	return p
}

func (m *ScoreMacros) AsGroup(e xml2ly.PartGroupElement) *xml2ly.PartGroup {
	g, _ := e.(*xml2ly.PartGroup)
	return g
}

// GroupContext is the staff group context for a part group: a brace is a
// PianoStaff, other groups are StaffGroups when the barlines go through
// the group and ChoirStaffs otherwise.
func (m *ScoreMacros) GroupContext(g *xml2ly.PartGroup) string {
	switch {
	case g.Symbol == xml2ly.SymbolBrace:
		return "PianoStaff"
	case g.Barline:
		return "StaffGroup"
	}
	return "ChoirStaff"
}

func (m *ScoreMacros) GroupWith(g *xml2ly.PartGroup) string {
	var settings []string
	switch g.Symbol {
	case xml2ly.SymbolSquare:
		settings = append(settings, "systemStartDelimiter = #'SystemStartSquare")
	case xml2ly.SymbolLine, xml2ly.SymbolNone:
		settings = append(settings, "systemStartDelimiter = #'SystemStartBar")
	}
	return with(append(settings, names(g.Name, g.Abbreviation)...))
}

func (m *ScoreMacros) PartWith(p *xml2ly.Part) string {
	return with(names(p.Name, p.Abbreviation))
}

func names(name, abbreviation string) []string {
	var ret []string
	if name != "" {
		ret = append(ret, "instrumentName = "+String(name))
	}
	if abbreviation != "" {
		ret = append(ret, "shortInstrumentName = "+String(abbreviation))
	}
	return ret
}

func with(settings []string) string {
	if len(settings) == 0 {
		return ""
	}
	return " \\with { " + strings.Join(settings, " ") + " }"
}
