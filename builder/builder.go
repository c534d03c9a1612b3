// Package builder reconstructs the score model from the flat element stream
// of a MusicXML document.
package builder

import (
	"errors"
	"io"

	"github.com/vsariola/xml2ly"
	"github.com/vsariola/xml2ly/musicxml"
)

type (
	// Builder is a musicxml.Handler that builds a score model. A Builder is
	// good for one document; it is not safe for concurrent use.
	Builder struct {
		cfg    Config
		score  *xml2ly.Score
		groups *partGroupResolver
		parts  map[string]*xml2ly.Part
		path   []string

		partListClosed bool
		group          *groupEvent
		scorePart      *xml2ly.Part

		part      *partState
		measure   *measureState
		note      *noteState
		lyric     *xml2ly.Lyric
		direction *directionState
		barline   *xml2ly.Barline
		shift     *shiftState
		key       *xml2ly.Key
		time      *xml2ly.Time
		clef      *xml2ly.Clef

		// staff and voice of the latest note or forward, the default target
		// of a forward
		curStaff, curVoice int
	}

	groupEvent struct {
		name, abbreviation string
		symbol             xml2ly.PartGroupSymbol
		defaultX           float64
		barline            bool
	}

	shiftState struct {
		duration     int
		staff, voice int
	}
)

// New returns a Builder ready to receive the events of one document.
func New(cfg Config) *Builder {
	score := &xml2ly.Score{}
	return &Builder{
		cfg:    cfg,
		score:  score,
		groups: newPartGroupResolver(score),
		parts:  map[string]*xml2ly.Part{},
	}
}

// Build parses a MusicXML document and returns its score model.
func Build(r io.Reader, cfg Config) (*xml2ly.Score, error) {
	b := New(cfg)
	if err := musicxml.Parse(r, b); err != nil {
		return nil, err
	}
	return b.Score()
}

// BuildFile is like Build, but reads a .xml, .musicxml or .mxl file.
func BuildFile(filename string, cfg Config) (*xml2ly.Score, error) {
	b := New(cfg)
	if err := musicxml.ParseFile(filename, b); err != nil {
		return nil, err
	}
	return b.Score()
}

// Score finishes the score model and returns it. It should be called after
// the whole document has been parsed without errors.
func (b *Builder) Score() (*xml2ly.Score, error) {
	if !b.partListClosed {
		if err := b.closePartList(0); err != nil {
			return nil, err
		}
	}
	return b.score, nil
}

func (b *Builder) StartElement(e *musicxml.Element) error {
	b.path = append(b.path, e.Name)
	return located(b.start(e), e.Line)
}

func (b *Builder) EndElement(e *musicxml.Element) error {
	b.path = b.path[:len(b.path)-1]
	return located(b.end(e), e.Line)
}

func (b *Builder) start(e *musicxml.Element) error {
	switch e.Name {
	case "part-group":
		b.group = &groupEvent{}
	case "score-part":
		b.scorePart = &xml2ly.Part{ID: e.Attr["id"]}
	case "part":
		return b.startPart(e)
	case "measure":
		return b.startMeasure(e)
	case "note":
		b.startNote(e)
	case "lyric":
		if b.note != nil {
			b.lyric = &xml2ly.Lyric{Number: e.Attr["number"]}
		}
	case "direction":
		b.direction = &directionState{staff: 1}
	case "barline":
		loc := e.Attr["location"]
		if loc == "" {
			loc = "right"
		}
		b.barline = &xml2ly.Barline{Location: loc}
	case "backup", "forward":
		b.shift = &shiftState{}
	case "key":
		b.key = &xml2ly.Key{}
	case "time":
		b.time = &xml2ly.Time{}
	case "clef":
		b.clef = &xml2ly.Clef{}
	}
	return nil
}

func (b *Builder) end(e *musicxml.Element) error {
	switch {
	case b.note != nil:
		if e.Name == "note" {
			return b.endNote(e)
		}
		return b.noteChild(e)
	case b.direction != nil:
		if e.Name == "direction" {
			return b.endDirection()
		}
		return b.directionChild(e)
	case b.barline != nil:
		if e.Name == "barline" {
			return b.endBarline()
		}
		return b.barlineChild(e)
	case b.shift != nil:
		return b.shiftChild(e)
	case b.group != nil:
		return b.groupChild(e)
	case b.scorePart != nil:
		return b.scorePartChild(e)
	}
	switch e.Name {
	case "work-title", "movement-title":
		if b.score.Title == "" {
			b.score.Title = e.Text
		}
	case "creator":
		if e.Attr["type"] == "composer" && b.score.Composer == "" {
			b.score.Composer = e.Text
		}
	case "part-list":
		return b.closePartList(e.Line)
	case "part":
		return b.endPart(e)
	case "measure":
		return b.endMeasure(e)
	default:
		return b.attributesChild(e)
	}
	return nil
}

// parent returns the name of the element enclosing the one that just ended.
func (b *Builder) parent() string {
	if len(b.path) == 0 {
		return ""
	}
	return b.path[len(b.path)-1]
}

func (b *Builder) groupChild(e *musicxml.Element) error {
	var err error
	switch e.Name {
	case "group-name":
		b.group.name = e.Text
	case "group-abbreviation":
		b.group.abbreviation = e.Text
	case "group-symbol":
		sym, ok := xml2ly.ParsePartGroupSymbol(e.Text)
		if !ok {
			b.warn(e.Line, "unknown part group symbol %q, using none", e.Text)
		}
		b.group.symbol = sym
		b.group.defaultX, err = floatAttr(e, "default-x")
	case "group-barline":
		b.group.barline = e.Text == "yes" || e.Text == "Mensurstrich"
	case "part-group":
		g := b.group
		b.group = nil
		number, err := intAttr(e, "number", 1)
		if err != nil {
			return err
		}
		switch e.Attr["type"] {
		case "start":
			b.groups.StartGroup(number, g.name, g.abbreviation, g.symbol, g.defaultX, g.barline)
		case "stop":
			return b.groups.StopGroup(number)
		default:
			b.warn(e.Line, "unknown part group type %q, ignored", e.Attr["type"])
		}
	}
	return err
}

func (b *Builder) scorePartChild(e *musicxml.Element) error {
	switch e.Name {
	case "part-name":
		if b.parent() == "score-part" {
			b.scorePart.Name = e.Text
		}
	case "part-abbreviation":
		if b.parent() == "score-part" {
			b.scorePart.Abbreviation = e.Text
		}
	case "score-part":
		p := b.scorePart
		b.scorePart = nil
		if p.ID == "" {
			return xml2ly.Structural(e.Line, "score part without an id")
		}
		if _, ok := b.parts[p.ID]; ok {
			return xml2ly.Structural(e.Line, "score part %q declared twice", p.ID)
		}
		b.parts[p.ID] = p
		b.groups.RegisterPart(p)
	}
	return nil
}

// closePartList closes the groups still open at the end of the part list,
// innermost first, and then the implicit group.
func (b *Builder) closePartList(line int) error {
	if b.partListClosed {
		return nil
	}
	b.partListClosed = true
	open := b.groups.OpenNumbers()
	for i := len(open) - 1; i >= 0; i-- {
		b.warn(line, "part group %d not stopped by the end of the part list", open[i])
		if err := b.groups.StopGroup(open[i]); err != nil {
			return err
		}
	}
	b.groups.CloseImplicit()
	return nil
}

func (b *Builder) warn(line int, format string, args ...any) {
	b.cfg.report(xml2ly.NewFailure(xml2ly.RecoverableDrift, line, format, args...))
}

// located sets the line of the failure in err, unless it already has one.
func located(err error, line int) error {
	if err == nil {
		return nil
	}
	var f *xml2ly.Failure
	if errors.As(err, &f) && f.Line == 0 {
		f.Line = line
	}
	return err
}

func intAttr(e *musicxml.Element, name string, def int) (int, error) {
	v, err := e.AttrInt(name, def)
	if err != nil {
		return 0, xml2ly.Malformed(e.Line, "attribute %s of <%s>: %v", name, e.Name, err)
	}
	return v, nil
}

func floatAttr(e *musicxml.Element, name string) (float64, error) {
	v, err := e.AttrFloat(name, 0)
	if err != nil {
		return 0, xml2ly.Malformed(e.Line, "attribute %s of <%s>: %v", name, e.Name, err)
	}
	return v, nil
}

func intText(e *musicxml.Element) (int, error) {
	v, err := e.TextInt()
	if err != nil {
		return 0, xml2ly.Malformed(e.Line, "<%s>: %v", e.Name, err)
	}
	return v, nil
}
