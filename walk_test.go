package xml2ly_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vsariola/xml2ly"
	"gopkg.in/yaml.v3"
)

func testScore() *xml2ly.Score {
	quarter := xml2ly.NewRational(1, 4)
	n := func(step string) *xml2ly.Note {
		return &xml2ly.Note{Pitch: xml2ly.Pitch{Step: step, Octave: 4}, Duration: quarter, Type: "quarter"}
	}
	r := xml2ly.NewRepeat(2)
	r.SetCommonPart()
	r.AppendMeasure(&xml2ly.Measure{Number: "2", Elements: []xml2ly.Element{
		&xml2ly.Chord{Notes: []*xml2ly.Note{n("C"), n("E")}},
		&xml2ly.Tuplet{Ratio: xml2ly.Ratio{Actual: 3, Normal: 2}, Members: []xml2ly.Element{n("D"), n("E"), n("F")}},
	}})
	r.AddEnding(&xml2ly.RepeatEnding{Number: "1"})
	r.AppendMeasure(&xml2ly.Measure{Number: "3", Elements: []xml2ly.Element{&xml2ly.Skip{Duration: quarter}}})
	r.Complete()
	part := &xml2ly.Part{ID: "P1", Name: "Flute"}
	v2, _ := part.Staff(2).Voice(1)
	v2.AppendMeasure(&xml2ly.Measure{Number: "1"})
	v1, _ := part.Staff(1).Voice(1)
	v1.AppendMeasure(&xml2ly.Measure{Number: "1", Elements: []xml2ly.Element{
		&xml2ly.Clef{Sign: "G", Line: 2}, &xml2ly.Key{Fifths: -1}, &xml2ly.Time{Beats: "4", BeatType: 4}, n("C"),
	}})
	v1.Content = append(v1.Content, r)
	return &xml2ly.Score{
		Title:      "Test",
		PartGroups: []*xml2ly.PartGroup{{Implicit: true, Elements: []xml2ly.PartGroupElement{part}}},
	}
}

type kindCounter struct {
	enter, leave []string
}

func (k *kindCounter) Enter(n xml2ly.Node) bool {
	name := reflect.TypeOf(n).Elem().Name()
	k.enter = append(k.enter, name)
	// do not descend into tuplets
	_, tuplet := n.(*xml2ly.Tuplet)
	return !tuplet
}

func (k *kindCounter) Leave(n xml2ly.Node) {
	k.leave = append(k.leave, reflect.TypeOf(n).Elem().Name())
}

func TestWalkOrder(t *testing.T) {
	var k kindCounter
	xml2ly.Walk(&k, testScore())
	expected := []string{
		"Score", "PartGroup", "Part",
		"Staff", "Voice", "Segment", "Measure", "Clef", "Key", "Time", "Note",
		"Repeat", "RepeatCommonPart", "Segment", "Measure", "Chord", "Note", "Note", "Tuplet",
		"RepeatEnding", "Segment", "Measure", "Skip",
		"Staff", "Voice", "Segment", "Measure",
	}
	if !reflect.DeepEqual(k.enter, expected) {
		t.Fatalf("got enter order %v, expected %v", k.enter, expected)
	}
	if len(k.leave) != len(k.enter) {
		t.Fatalf("got %v leaves for %v enters", len(k.leave), len(k.enter))
	}
	if k.leave[len(k.leave)-1] != "Score" {
		t.Fatalf("the root was not left last")
	}
}

func TestInspectNotes(t *testing.T) {
	count := 0
	xml2ly.Inspect(testScore(), func(n xml2ly.Node) bool {
		if _, ok := n.(*xml2ly.Note); ok {
			count++
		}
		return true
	})
	if count != 6 {
		t.Fatalf("got %v notes, expected 6", count)
	}
}

func TestMeasuresFlattenRepeats(t *testing.T) {
	s := testScore()
	v := s.Parts()[0].Staves[1].Voices[1]
	var numbers []string
	for _, m := range v.Measures() {
		numbers = append(numbers, m.Number)
	}
	if !reflect.DeepEqual(numbers, []string{"1", "2", "3"}) {
		t.Fatalf("got measures %v, expected 1, 2, 3", numbers)
	}
	if d := v.Measures()[1].Duration(); d.String() != "1" {
		t.Fatalf("got measure duration %v, expected 1", d)
	}
}

func TestScoreYaml(t *testing.T) {
	out, err := yaml.Marshal(testScore())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, s := range []string{"title: Test", "implicit: true", "repeat:", "commonPart:", "chord:", "tuplet:", "skip:", "sequence: 1"} {
		if !strings.Contains(string(out), s) {
			t.Fatalf("the yaml dump does not contain %q:\n%s", s, out)
		}
	}
}
