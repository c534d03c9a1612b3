package xml2ly

// Node is any node of the score model tree. The set of nodes is closed; see
// Walk for the traversal order.
type Node interface {
	node()
}

// Visitor is called by Walk. Enter is called before the children of a node
// are walked; if it returns false, the children are skipped. Leave is called
// after the children, even when they were skipped.
type Visitor interface {
	Enter(n Node) bool
	Leave(n Node)
}

func (*Score) node()            {}
func (*PartGroup) node()        {}
func (*Part) node()             {}
func (*Staff) node()            {}
func (*Voice) node()            {}
func (*Segment) node()          {}
func (*Repeat) node()           {}
func (*RepeatCommonPart) node() {}
func (*RepeatEnding) node()     {}
func (*Measure) node()          {}
func (*Note) node()             {}
func (*Chord) node()            {}
func (*Tuplet) node()           {}
func (*Barline) node()          {}
func (*Clef) node()             {}
func (*Key) node()              {}
func (*Time) node()             {}
func (*Skip) node()             {}

// Walk traverses the tree rooted at n depth first. Staves and voices are
// visited in ascending number order, everything else in document order.
func Walk(v Visitor, n Node) {
	if !v.Enter(n) {
		v.Leave(n)
		return
	}
	switch n := n.(type) {
	case *Score:
		for _, g := range n.PartGroups {
			Walk(v, g)
		}
	case *PartGroup:
		for _, e := range n.Elements {
			Walk(v, e)
		}
	case *Part:
		for _, num := range n.StaffNumbers() {
			Walk(v, n.Staves[num])
		}
	case *Staff:
		for _, num := range n.VoiceNumbers() {
			Walk(v, n.Voices[num])
		}
	case *Voice:
		walkContent(v, n.Content)
	case *Segment:
		for _, m := range n.Measures {
			Walk(v, m)
		}
	case *Repeat:
		if n.CommonPart != nil {
			Walk(v, n.CommonPart)
		}
		for _, e := range n.Endings {
			Walk(v, e)
		}
	case *RepeatCommonPart:
		walkContent(v, n.Content)
	case *RepeatEnding:
		walkContent(v, n.Content)
	case *Measure:
		walkElements(v, n.Elements)
	case *Chord:
		for _, note := range n.Notes {
			Walk(v, note)
		}
	case *Tuplet:
		walkElements(v, n.Members)
	case *Note, *Barline, *Clef, *Key, *Time, *Skip:
	}
	v.Leave(n)
}

func walkContent(v Visitor, content []VoiceElement) {
	for _, e := range content {
		Walk(v, e)
	}
}

func walkElements(v Visitor, elems []Element) {
	for _, e := range elems {
		Walk(v, e)
	}
}

// Inspect is a convenience wrapper of Walk for visitors that only need
// Enter.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

type inspector func(Node) bool

func (f inspector) Enter(n Node) bool { return f(n) }
func (f inspector) Leave(Node)        {}
