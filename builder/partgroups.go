package builder

import (
	"math"

	"github.com/vsariola/xml2ly"
)

// partGroupResolver infers the nesting of part groups. MusicXML has no
// explicit nesting for them: groups are opened and closed by numbered
// markers, and which group encloses which is told by the horizontal
// position of the group symbols.
//
// The open groups are kept sorted ascending by DefaultX, so the front of the
// list is always the leftmost, outermost group. Parts go to the front group;
// a group that is stopped becomes the first child of the new front group, or
// a top level group of the score if no group remains open.
type partGroupResolver struct {
	score    *xml2ly.Score
	open     []*xml2ly.PartGroup
	implicit *xml2ly.PartGroup
}

func newPartGroupResolver(score *xml2ly.Score) *partGroupResolver {
	return &partGroupResolver{score: score}
}

// StartGroup opens the group with the given number, or returns it if it is
// already open, and places it in the open list by defaultX. Among groups
// with equal defaultX the one seen first stays in front.
func (r *partGroupResolver) StartGroup(number int, name, abbreviation string, symbol xml2ly.PartGroupSymbol, defaultX float64, barline bool) *xml2ly.PartGroup {
	g := r.find(number)
	if g != nil {
		r.remove(g)
	} else {
		g = &xml2ly.PartGroup{Number: number}
	}
	g.Name = name
	g.Abbreviation = abbreviation
	g.Symbol = symbol
	g.DefaultX = defaultX
	g.Barline = barline
	r.insert(g)
	return g
}

// StopGroup closes the group with the given number.
func (r *partGroupResolver) StopGroup(number int) error {
	g := r.find(number)
	if g == nil {
		return xml2ly.Structural(0, "part group %d stopped but it is not open", number)
	}
	r.close(g)
	return nil
}

// RegisterPart attaches the part to the front group, synthesizing an
// implicit group if none is open.
func (r *partGroupResolver) RegisterPart(p *xml2ly.Part) {
	if len(r.open) == 0 {
		r.implicit = &xml2ly.PartGroup{Implicit: true, DefaultX: math.Inf(-1)}
		r.insert(r.implicit)
	}
	front := r.open[0]
	front.Elements = append(front.Elements, p)
}

// OpenNumbers returns the numbers of the explicit groups still open, front
// first.
func (r *partGroupResolver) OpenNumbers() []int {
	var ret []int
	for _, g := range r.open {
		if !g.Implicit {
			ret = append(ret, g.Number)
		}
	}
	return ret
}

// CloseImplicit force-closes the implicit group if it is open.
func (r *partGroupResolver) CloseImplicit() {
	if r.implicit == nil {
		return
	}
	g := r.implicit
	r.implicit = nil
	for _, o := range r.open {
		if o == g {
			r.close(g)
			return
		}
	}
}

func (r *partGroupResolver) close(g *xml2ly.PartGroup) {
	r.remove(g)
	if len(r.open) == 0 {
		r.score.PartGroups = append(r.score.PartGroups, g)
		return
	}
	// g is no longer in the open list, so it never becomes its own child
	front := r.open[0]
	front.Elements = append([]xml2ly.PartGroupElement{g}, front.Elements...)
}

func (r *partGroupResolver) find(number int) *xml2ly.PartGroup {
	for _, g := range r.open {
		if !g.Implicit && g.Number == number {
			return g
		}
	}
	return nil
}

func (r *partGroupResolver) insert(g *xml2ly.PartGroup) {
	i := len(r.open)
	for i > 0 && r.open[i-1].DefaultX > g.DefaultX {
		i--
	}
	r.open = append(r.open, nil)
	copy(r.open[i+1:], r.open[i:])
	r.open[i] = g
}

func (r *partGroupResolver) remove(g *xml2ly.PartGroup) {
	for i, o := range r.open {
		if o == g {
			r.open = append(r.open[:i], r.open[i+1:]...)
			return
		}
	}
}
