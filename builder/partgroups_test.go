package builder

import (
	"reflect"
	"testing"

	"github.com/vsariola/xml2ly"
)

func TestPartGroupNestingByDefaultX(t *testing.T) {
	score := &xml2ly.Score{}
	r := newPartGroupResolver(score)
	g1 := r.StartGroup(1, "Strings", "", xml2ly.SymbolBracket, -7, true)
	g2 := r.StartGroup(2, "Orchestra", "", xml2ly.SymbolBrace, -20, false)
	if err := r.StopGroup(1); err != nil {
		t.Fatalf("stop 1 failed: %v", err)
	}
	if err := r.StopGroup(2); err != nil {
		t.Fatalf("stop 2 failed: %v", err)
	}
	if !reflect.DeepEqual(score.PartGroups, []*xml2ly.PartGroup{g2}) {
		t.Fatalf("got top level %v, expected only group 2", score.PartGroups)
	}
	if len(g2.Elements) != 1 || g2.Elements[0] != g1 {
		t.Fatalf("group 1 is not the first child of group 2: %v", g2.Elements)
	}
}

func TestPartGroupTopLevelOrder(t *testing.T) {
	score := &xml2ly.Score{}
	r := newPartGroupResolver(score)
	a := r.StartGroup(1, "A", "", xml2ly.SymbolBracket, -10, false)
	if err := r.StopGroup(1); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	// number 1 is reused by an unrelated group
	b := r.StartGroup(1, "B", "", xml2ly.SymbolBracket, -5, false)
	if err := r.StopGroup(1); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if a == b {
		t.Fatalf("a reused number returned the closed group")
	}
	if !reflect.DeepEqual(score.PartGroups, []*xml2ly.PartGroup{a, b}) {
		t.Fatalf("got %v, expected groups A and B", score.PartGroups)
	}
}

func TestPartGroupTiesKeepFirstInFront(t *testing.T) {
	score := &xml2ly.Score{}
	r := newPartGroupResolver(score)
	first := r.StartGroup(1, "first", "", xml2ly.SymbolBracket, -10, false)
	second := r.StartGroup(2, "second", "", xml2ly.SymbolBracket, -10, false)
	p := &xml2ly.Part{ID: "P1"}
	r.RegisterPart(p)
	if err := r.StopGroup(2); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := r.StopGroup(1); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	expected := []xml2ly.PartGroupElement{second, p}
	if !reflect.DeepEqual(first.Elements, expected) {
		t.Fatalf("got elements %v, expected %v", first.Elements, expected)
	}
}

func TestPartGroupImplicit(t *testing.T) {
	score := &xml2ly.Score{}
	r := newPartGroupResolver(score)
	p1 := &xml2ly.Part{ID: "P1"}
	p2 := &xml2ly.Part{ID: "P2"}
	r.RegisterPart(p1)
	r.RegisterPart(p2)
	r.CloseImplicit()
	if len(score.PartGroups) != 1 {
		t.Fatalf("got %v top level groups, expected 1", len(score.PartGroups))
	}
	g := score.PartGroups[0]
	if !g.Implicit {
		t.Fatalf("the top level group is not implicit")
	}
	if !reflect.DeepEqual(g.Parts(), []*xml2ly.Part{p1, p2}) {
		t.Fatalf("got parts %v, expected P1 and P2", g.Parts())
	}
}

func TestPartGroupStopUnknown(t *testing.T) {
	r := newPartGroupResolver(&xml2ly.Score{})
	r.StartGroup(1, "", "", xml2ly.SymbolNone, 0, false)
	err := r.StopGroup(2)
	if err == nil {
		t.Fatalf("stopping a group that is not open did not fail")
	}
	if !isKind(err, xml2ly.StructuralViolation) {
		t.Fatalf("got %v, expected a structural violation", err)
	}
}

func TestPartGroupFractionalDefaultX(t *testing.T) {
	score := &xml2ly.Score{}
	r := newPartGroupResolver(score)
	inner := r.StartGroup(1, "inner", "", xml2ly.SymbolBracket, -7.2, false)
	outer := r.StartGroup(2, "outer", "", xml2ly.SymbolBrace, -7.9, false)
	if err := r.StopGroup(1); err != nil {
		t.Fatalf("stop 1 failed: %v", err)
	}
	if err := r.StopGroup(2); err != nil {
		t.Fatalf("stop 2 failed: %v", err)
	}
	if !reflect.DeepEqual(score.PartGroups, []*xml2ly.PartGroup{outer}) {
		t.Fatalf("got top level %v, expected only the outer group", score.PartGroups)
	}
	if len(outer.Elements) != 1 || outer.Elements[0] != inner {
		t.Fatalf("the inner group is not the first child of the outer group: %v", outer.Elements)
	}
}
