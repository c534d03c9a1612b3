package musicxml_test

import (
	"archive/zip"
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/vsariola/xml2ly/musicxml"
)

type recorder struct {
	events []string
	ends   map[string]*musicxml.Element
}

func (r *recorder) StartElement(e *musicxml.Element) error {
	r.events = append(r.events, "+"+e.Name)
	return nil
}

func (r *recorder) EndElement(e *musicxml.Element) error {
	r.events = append(r.events, "-"+e.Name)
	if r.ends == nil {
		r.ends = map[string]*musicxml.Element{}
	}
	r.ends[e.Name] = e
	return nil
}

const smallDoc = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part id="P1">
    <measure number="1">
      <note default-x="12.5">
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration> 4 </duration>
      </note>
    </measure>
  </part>
</score-partwise>
`

func TestParseEvents(t *testing.T) {
	var r recorder
	if err := musicxml.Parse(strings.NewReader(smallDoc), &r); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	expected := []string{
		"+score-partwise", "+part", "+measure", "+note", "+pitch", "+step", "-step",
		"+octave", "-octave", "-pitch", "+duration", "-duration", "-note", "-measure", "-part", "-score-partwise",
	}
	if !reflect.DeepEqual(r.events, expected) {
		t.Fatalf("got events %v, expected %v", r.events, expected)
	}
	if d := r.ends["duration"]; d.Text != "4" || d.Line != 7 {
		t.Fatalf("got duration text %q on line %v, expected \"4\" on line 7", d.Text, d.Line)
	}
	if v, err := r.ends["duration"].TextInt(); err != nil || v != 4 {
		t.Fatalf("TextInt returned %v, %v", v, err)
	}
	n := r.ends["note"]
	if n.Line != 5 || n.Attr["default-x"] != "12.5" {
		t.Fatalf("got note on line %v with attributes %v", n.Line, n.Attr)
	}
	if v, err := n.AttrInt("default-x", 0); err == nil {
		t.Fatalf("AttrInt of 12.5 returned %v, expected an error", v)
	}
	if v, err := n.AttrFloat("default-x", 0); err != nil || v != 12.5 {
		t.Fatalf("AttrFloat returned %v, %v; expected 12.5", v, err)
	}
	if v, err := n.AttrInt("missing", -1); err != nil || v != -1 {
		t.Fatalf("AttrInt of a missing attribute returned %v, %v; expected the default", v, err)
	}
	if m := r.ends["measure"]; m.Text != "" {
		t.Fatalf("measure text is %q, expected the white space to be trimmed", m.Text)
	}
}

func TestParseLatin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><work><work-title>Tr\xe4umerei</work-title></work>"
	var r recorder
	if err := musicxml.Parse(strings.NewReader(doc), &r); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if title := r.ends["work-title"].Text; title != "Träumerei" {
		t.Fatalf("got title %q, expected Träumerei", title)
	}
}

func TestParseSyntaxError(t *testing.T) {
	var r recorder
	if err := musicxml.Parse(strings.NewReader("<a><b></a>"), &r); err == nil {
		t.Fatalf("Parse of a malformed document did not fail")
	}
}

func TestOpenMXL(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	files := []struct{ name, body string }{
		{"META-INF/container.xml", `<container><rootfiles><rootfile full-path="score/song.xml" media-type="application/vnd.recordare.musicxml+xml"/></rootfiles></container>`},
		{"other.xml", `<other/>`},
		{"score/song.xml", smallDoc},
	}
	for _, f := range files {
		fw, err := w.Create(f.name)
		if err != nil {
			t.Fatalf("zip create failed: %v", err)
		}
		fw.Write([]byte(f.body))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}
	rc, err := musicxml.OpenMXL(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("OpenMXL failed: %v", err)
	}
	defer rc.Close()
	var r recorder
	if err := musicxml.Parse(rc, &r); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.events[0] != "+score-partwise" {
		t.Fatalf("got %v, expected the rootfile to be opened", r.events[0])
	}
}
