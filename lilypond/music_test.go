package lilypond_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vsariola/xml2ly"
	"github.com/vsariola/xml2ly/lilypond"
)

func note(step string, octave int, typ string, num, den int64) *xml2ly.Note {
	return &xml2ly.Note{Pitch: xml2ly.Pitch{Step: step, Octave: octave}, Type: typ, Duration: xml2ly.NewRational(num, den)}
}

func TestVoiceMusic(t *testing.T) {
	c := note("C", 4, "quarter", 1, 4)
	c.Tie = xml2ly.TieStart
	c.Articulations = []string{"accent"}
	c.Dynamics = []string{"mf"}
	rest := note("", 0, "eighth", 1, 12)
	rest.Rest = true
	grace := note("C", 5, "eighth", 0, 1)
	grace.Grace = true

	v := &xml2ly.Voice{Number: 1}
	v.AppendMeasure(&xml2ly.Measure{Number: "1", Elements: []xml2ly.Element{
		&xml2ly.Clef{Sign: "G", Line: 2},
		&xml2ly.Key{Fifths: -3, Mode: "minor"},
		&xml2ly.Time{Beats: "3+2", BeatType: 8},
		c,
		&xml2ly.Tuplet{Ratio: xml2ly.Ratio{Actual: 3, Normal: 2}, Members: []xml2ly.Element{
			note("D", 5, "eighth", 1, 12), rest, note("E", 5, "eighth", 1, 12),
		}},
		&xml2ly.Skip{Duration: xml2ly.NewRational(1, 8)},
	}})
	r := xml2ly.NewRepeat(2)
	r.SetCommonPart()
	whole := note("", 0, "", 5, 8)
	whole.Rest = true
	r.AppendMeasure(&xml2ly.Measure{Number: "2", Elements: []xml2ly.Element{whole}})
	r.AddEnding(&xml2ly.RepeatEnding{Number: "1"})
	r.AppendMeasure(&xml2ly.Measure{Number: "3", Elements: []xml2ly.Element{
		&xml2ly.Chord{Notes: []*xml2ly.Note{note("G", 4, "quarter", 1, 4), note("B", 4, "quarter", 1, 4)}, Wedges: []xml2ly.Wedge{xml2ly.WedgeCrescendo}},
	}})
	r.AddEnding(&xml2ly.RepeatEnding{Number: "2", Kind: xml2ly.EndingHookless})
	r.AppendMeasure(&xml2ly.Measure{Number: "4", Elements: []xml2ly.Element{
		grace, note("C", 5, "half", 1, 2), &xml2ly.Barline{Location: "right", Style: "light-heavy"},
	}})
	r.Complete()
	v.Content = append(v.Content, r)

	music, verses, err := lilypond.Voice(v, lilypond.Options{Absolute: true})
	if err != nil {
		t.Fatalf("Voice failed: %v", err)
	}
	want := strings.Join([]string{
		`  \clef "treble" \key c \minor \time 3,2 5/8 c'4~->\mf \tuplet 3/2 { d''8 r8 e''8 } s8 |`,
		`  \repeat volta 2 {`,
		`    R1*5/8 |`,
		`  }`,
		`  \alternative {`,
		`    {`,
		`      <g' b'>4\< |`,
		`    }`,
		`    {`,
		`      \grace c''8 c''2 \bar "|." |`,
		`    }`,
		`  }`,
	}, "\n")
	if music != want {
		t.Fatalf("got music\n%s\nwant\n%s", music, want)
	}
	if len(verses) != 0 {
		t.Fatalf("got verses %v, expected none", verses)
	}
}

func TestVoiceRelative(t *testing.T) {
	v := &xml2ly.Voice{Number: 1}
	v.AppendMeasure(&xml2ly.Measure{Number: "1", Elements: []xml2ly.Element{
		note("C", 4, "quarter", 1, 4),
		note("G", 4, "quarter", 1, 4),
		note("F", 4, "quarter", 1, 4),
		&xml2ly.Chord{Notes: []*xml2ly.Note{note("C", 5, "quarter", 1, 4), note("E", 5, "quarter", 1, 4), note("G", 5, "quarter", 1, 4)}},
		note("C", 3, "quarter", 1, 4),
	}})
	music, _, err := lilypond.Voice(v, lilypond.Options{})
	if err != nil {
		t.Fatalf("Voice failed: %v", err)
	}
	want := `  c'4 g'4 f4 <c' e g>4 c,,4 |`
	if music != want {
		t.Fatalf("got %s want %s", music, want)
	}
}

func TestVoiceLyrics(t *testing.T) {
	n1 := note("C", 4, "quarter", 1, 4)
	n1.Lyrics = []xml2ly.Lyric{{Number: "1", Syllabic: "begin", Text: "Hal"}}
	n2 := note("D", 4, "quarter", 1, 4)
	n2.Lyrics = []xml2ly.Lyric{{Number: "1", Syllabic: "end", Text: "lo"}}
	rest := note("", 0, "quarter", 1, 4)
	rest.Rest = true
	n4 := note("E", 4, "quarter", 1, 4)
	n4.Tie = xml2ly.TieStart
	n5 := note("E", 4, "quarter", 1, 4)
	n5.Tie = xml2ly.TieStop
	n6 := note("F", 4, "quarter", 1, 4)
	n6.Lyrics = []xml2ly.Lyric{{Number: "1", Text: "there"}, {Number: "2", Text: "you"}}
	v := &xml2ly.Voice{Number: 1}
	v.AppendMeasure(&xml2ly.Measure{Number: "1", Elements: []xml2ly.Element{n1, n2, rest, n4, n5, n6}})
	_, verses, err := lilypond.Voice(v, lilypond.Options{Absolute: true})
	if err != nil {
		t.Fatalf("Voice failed: %v", err)
	}
	want := []string{`"Hal" -- "lo" _ "there"`, `_ _ _ "you"`}
	if !reflect.DeepEqual(verses, want) {
		t.Fatalf("got verses %q want %q", verses, want)
	}
}

func TestVoiceBadPitch(t *testing.T) {
	v := &xml2ly.Voice{Number: 1}
	v.AppendMeasure(&xml2ly.Measure{Number: "1", Elements: []xml2ly.Element{note("X", 4, "quarter", 1, 4)}})
	if _, _, err := lilypond.Voice(v, lilypond.Options{}); err == nil {
		t.Fatalf("a note with step X was printed")
	}
}
