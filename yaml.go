package xml2ly

// The score model has interface-typed children, which yaml.v3 would marshal
// without telling what kind of node they are. The marshalers here write
// every such child as a single-key mapping from the kind to the node.

type partGroupYaml PartGroup

func (g *PartGroup) MarshalYAML() (interface{}, error) {
	elems := make([]map[string]interface{}, 0, len(g.Elements))
	for _, e := range g.Elements {
		switch e := e.(type) {
		case *Part:
			elems = append(elems, map[string]interface{}{"part": e})
		case *PartGroup:
			elems = append(elems, map[string]interface{}{"partGroup": e})
		}
	}
	return struct {
		Group    partGroupYaml `yaml:",inline"`
		Elements []map[string]interface{}
	}{partGroupYaml(*g), elems}, nil
}

func (s PartGroupSymbol) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (m *Measure) MarshalYAML() (interface{}, error) {
	return struct {
		Number   string
		Elements []map[string]interface{} `yaml:",omitempty"`
	}{m.Number, elementsYaml(m.Elements)}, nil
}

func (t *Tuplet) MarshalYAML() (interface{}, error) {
	return struct {
		Ratio   Ratio `yaml:",flow"`
		Members []map[string]interface{}
	}{t.Ratio, elementsYaml(t.Members)}, nil
}

func (v *Voice) MarshalYAML() (interface{}, error) {
	return struct {
		Number  int
		Content []map[string]interface{}
	}{v.Number, contentYaml(v.Content)}, nil
}

func (r *Repeat) MarshalYAML() (interface{}, error) {
	type ending struct {
		Number   string
		Kind     RepeatEndingKind
		Sequence int
		Content  []map[string]interface{}
	}
	endings := make([]ending, 0, len(r.Endings))
	for _, e := range r.Endings {
		endings = append(endings, ending{e.Number, e.Kind, e.Sequence, contentYaml(e.Content)})
	}
	var common []map[string]interface{}
	if r.CommonPart != nil {
		common = contentYaml(r.CommonPart.Content)
	}
	return struct {
		Times      int
		CommonPart []map[string]interface{} `yaml:"commonPart"`
		Endings    []ending                 `yaml:",omitempty"`
	}{r.Times, common, endings}, nil
}

func contentYaml(content []VoiceElement) []map[string]interface{} {
	ret := make([]map[string]interface{}, 0, len(content))
	for _, e := range content {
		switch e := e.(type) {
		case *Segment:
			ret = append(ret, map[string]interface{}{"segment": e.Measures})
		case *Repeat:
			ret = append(ret, map[string]interface{}{"repeat": e})
		}
	}
	return ret
}

func elementsYaml(elems []Element) []map[string]interface{} {
	ret := make([]map[string]interface{}, 0, len(elems))
	for _, e := range elems {
		ret = append(ret, map[string]interface{}{ElementKind(e): e})
	}
	return ret
}

// ElementKind returns the lower case name of the kind of e.
func ElementKind(e Element) string {
	switch e.(type) {
	case *Note:
		return "note"
	case *Chord:
		return "chord"
	case *Tuplet:
		return "tuplet"
	case *Barline:
		return "barline"
	case *Clef:
		return "clef"
	case *Key:
		return "key"
	case *Time:
		return "time"
	case *Skip:
		return "skip"
	}
	return "unknown"
}
