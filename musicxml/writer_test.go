package musicxml_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/vsariola/xml2ly/builder"
	"github.com/vsariola/xml2ly/musicxml"
	"gopkg.in/yaml.v3"
)

const roundTripDoc = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
<work><work-title>Round trip</work-title></work>
<part-list>
  <part-group type="start" number="1"><group-name>Strings</group-name><group-symbol default-x="-7">bracket</group-symbol></part-group>
  <part-group type="start" number="2"><group-name>Orchestra</group-name><group-symbol default-x="-20">brace</group-symbol></part-group>
  <score-part id="P1"><part-name>Violin</part-name></score-part>
  <part-group type="stop" number="1"/>
  <part-group type="stop" number="2"/>
  <score-part id="P2"><part-name>Cello</part-name></score-part>
</part-list>
<part id="P1">
<measure number="1">
  <attributes><divisions>6</divisions><key><fifths>2</fifths></key><time><beats>2</beats><beat-type>4</beat-type></time><clef><sign>G</sign><line>2</line></clef></attributes>
  <direction><direction-type><dynamics><mf/></dynamics></direction-type></direction>
  <note><pitch><step>C</step><alter>1</alter><octave>5</octave></pitch><duration>6</duration><voice>1</voice><type>quarter</type>
    <notations><articulations><staccato/></articulations></notations>
    <lyric number="1"><syllabic>single</syllabic><text>la</text></lyric></note>
  <note><chord/><pitch><step>E</step><octave>5</octave></pitch><duration>6</duration><voice>1</voice><type>quarter</type></note>
  <note><pitch><step>D</step><octave>5</octave></pitch><duration>2</duration><voice>1</voice><type>eighth</type>
    <time-modification><actual-notes>3</actual-notes><normal-notes>2</normal-notes></time-modification>
    <notations><tuplet type="start"/></notations></note>
  <note><rest/><duration>2</duration><voice>1</voice><type>eighth</type>
    <time-modification><actual-notes>3</actual-notes><normal-notes>2</normal-notes></time-modification></note>
  <note><pitch><step>F</step><octave>5</octave></pitch><duration>2</duration><voice>1</voice><type>eighth</type>
    <tie type="start"/>
    <time-modification><actual-notes>3</actual-notes><normal-notes>2</normal-notes></time-modification>
    <notations><tied type="start"/><tuplet type="stop"/></notations></note>
  <backup><duration>12</duration></backup>
  <forward><duration>6</duration><voice>2</voice></forward>
  <note><pitch><step>A</step><octave>4</octave></pitch><duration>3</duration><voice>2</voice><type>eighth</type></note>
</measure>
<measure number="2">
  <barline location="left"><repeat direction="forward"/></barline>
  <note><pitch><step>F</step><octave>5</octave></pitch><duration>12</duration><voice>1</voice><type>half</type><tie type="stop"/><notations><tied type="stop"/></notations></note>
  <barline location="right"><bar-style>light-heavy</bar-style><repeat direction="backward"/></barline>
</measure>
</part>
<part id="P2">
<measure number="1">
  <attributes><divisions>1</divisions><clef><sign>F</sign><line>4</line></clef></attributes>
  <note><pitch><step>D</step><octave>3</octave></pitch><duration>2</duration><type>half</type></note>
</measure>
<measure number="2">
  <barline location="left"><ending number="1" type="start"/></barline>
  <note><pitch><step>A</step><octave>2</octave></pitch><duration>2</duration><type>half</type></note>
  <barline location="right"><ending number="1" type="stop"/><repeat direction="backward"/></barline>
</measure>
<measure number="3">
  <barline location="left"><ending number="2" type="start"/></barline>
  <note><pitch><step>D</step><octave>2</octave></pitch><duration>2</duration><type>half</type></note>
  <barline location="right"><ending number="2" type="discontinue"/></barline>
</measure>
</part>
</score-partwise>`

func TestWriteRoundTrip(t *testing.T) {
	s1, err := builder.Build(strings.NewReader(roundTripDoc), builder.Config{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	var buf bytes.Buffer
	if err := musicxml.Write(&buf, s1); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	s2, err := builder.Build(bytes.NewReader(buf.Bytes()), builder.Config{})
	if err != nil {
		t.Fatalf("Build of the written document failed: %v\n%s", err, buf.String())
	}
	y1, err := yaml.Marshal(s1)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	y2, err := yaml.Marshal(s2)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	if string(y1) != string(y2) {
		t.Fatalf("the score changed in the round trip.\noriginal:\n%s\nwritten and read back:\n%s\ndocument:\n%s", y1, y2, buf.String())
	}
}

type textCollector map[string][]string

func (c textCollector) StartElement(e *musicxml.Element) error { return nil }

func (c textCollector) EndElement(e *musicxml.Element) error {
	c[e.Name] = append(c[e.Name], e.Text)
	return nil
}

func TestWriteDivisions(t *testing.T) {
	s, err := builder.Build(strings.NewReader(roundTripDoc), builder.Config{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	var buf bytes.Buffer
	if err := musicxml.Write(&buf, s); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	c := textCollector{}
	if err := musicxml.Parse(&buf, c); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// P1 has quarters, triplet eighths and an eighth skip
	if !reflect.DeepEqual(c["divisions"], []string{"6", "1"}) {
		t.Fatalf("got divisions %v, expected 6 and 1", c["divisions"])
	}
	if !reflect.DeepEqual(c["work-title"], []string{"Round trip"}) {
		t.Fatalf("got work titles %v", c["work-title"])
	}
	if len(c["backup"]) != 1 || len(c["forward"]) != 2 {
		t.Fatalf("got %v backups and %v forwards, expected 1 and 2", len(c["backup"]), len(c["forward"]))
	}
}
