package builder

import (
	"github.com/vsariola/xml2ly"
)

// assembler places the notes of one voice into the elements of a measure,
// grouping them into chords and tuplets. Notes arrive one at a time with the
// chord and tuplet flags read from the document.
//
// A chord is only announced by its second note, so every standalone note is
// remembered as a possible chord head: headSlot points to the element list
// that holds it and headIndex to its position there. When a chord note
// arrives, the head is replaced in place by a Chord.
type assembler struct {
	elements []xml2ly.Element
	tuplets  []*xml2ly.Tuplet

	headSlot  *[]xml2ly.Element
	headIndex int
	chord     *xml2ly.Chord

	// ratio is the most recent time modification, used for tuplets that
	// start on a note without one.
	ratio xml2ly.Ratio
}

func newAssembler() *assembler {
	return &assembler{ratio: xml2ly.Ratio{Actual: 3, Normal: 2}}
}

// SubmitNote places the note. Structural problems are returned as errors
// without a line number.
func (a *assembler) SubmitNote(n *xml2ly.Note) error {
	if n.Chord {
		return a.submitChordNote(n)
	}
	a.chord = nil
	if n.TimeModification != nil {
		a.ratio = *n.TimeModification
	}
	for _, m := range n.Tuplets {
		if m.Type == xml2ly.TupletStart {
			a.tuplets = append(a.tuplets, &xml2ly.Tuplet{Number: m.Number, Ratio: a.nestedRatio()})
		}
	}
	c := a.container()
	*c = append(*c, n)
	a.headSlot, a.headIndex = c, len(*c)-1
	for _, m := range n.Tuplets {
		if m.Type == xml2ly.TupletStop {
			if err := a.stopTuplet(m.Number); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *assembler) submitChordNote(n *xml2ly.Note) error {
	if n.Rest {
		return xml2ly.Structural(0, "rest marked as a chord member")
	}
	if a.chord != nil {
		a.chord.Notes = append(a.chord.Notes, n)
		return nil
	}
	if a.headSlot == nil {
		return xml2ly.Structural(0, "chord member without a preceding note")
	}
	head, ok := (*a.headSlot)[a.headIndex].(*xml2ly.Note)
	if !ok {
		return xml2ly.Structural(0, "chord member without a preceding note")
	}
	if head.Rest {
		return xml2ly.Structural(0, "chord member following a rest")
	}
	c := &xml2ly.Chord{
		Notes:         []*xml2ly.Note{head, n},
		Articulations: head.Articulations,
		Dynamics:      head.Dynamics,
		Wedges:        head.Wedges,
	}
	head.Articulations, head.Dynamics, head.Wedges = nil, nil, nil
	(*a.headSlot)[a.headIndex] = c
	a.chord = c
	return nil
}

// Append adds an element that is not a note, e.g. a clef change or a skip.
// It ends any chord in progress.
func (a *assembler) Append(e xml2ly.Element) {
	c := a.container()
	*c = append(*c, e)
	a.headSlot = nil
	a.chord = nil
}

// Flush returns the elements of the measure and resets the assembler for
// the next measure. Tuplets still open are closed and returned as drift
// failures, one per tuplet.
func (a *assembler) Flush() ([]xml2ly.Element, []*xml2ly.Failure) {
	var failures []*xml2ly.Failure
	for len(a.tuplets) > 0 {
		t := a.tuplets[len(a.tuplets)-1]
		failures = append(failures, xml2ly.NewFailure(xml2ly.RecoverableDrift, 0,
			"tuplet %d not stopped by the end of the measure", t.Number))
		a.pop()
	}
	ret := a.elements
	a.elements = nil
	a.headSlot = nil
	a.chord = nil
	return ret, failures
}

// container is the element list new content goes to: the members of the
// innermost open tuplet, or the measure.
func (a *assembler) container() *[]xml2ly.Element {
	if len(a.tuplets) > 0 {
		return &a.tuplets[len(a.tuplets)-1].Members
	}
	return &a.elements
}

func (a *assembler) stopTuplet(number int) error {
	if len(a.tuplets) == 0 {
		return xml2ly.Structural(0, "tuplet %d stopped but no tuplet is open", number)
	}
	i := len(a.tuplets) - 1
	for i >= 0 && a.tuplets[i].Number != number {
		i--
	}
	if i < 0 {
		return xml2ly.Structural(0, "tuplet %d stopped but it is not open", number)
	}
	for len(a.tuplets) > i {
		a.pop()
	}
	return nil
}

// pop closes the innermost tuplet and adds it to its parent container.
func (a *assembler) pop() {
	t := a.tuplets[len(a.tuplets)-1]
	a.tuplets = a.tuplets[:len(a.tuplets)-1]
	c := a.container()
	*c = append(*c, t)
}

// nestedRatio is the ratio of a tuplet starting inside the open tuplets. The
// time modification of a note is the product of the ratios of all the
// tuplets it belongs to, so the ratios of the open tuplets are divided out
// when they divide evenly.
func (a *assembler) nestedRatio() xml2ly.Ratio {
	r := a.ratio
	for _, t := range a.tuplets {
		if t.Ratio.Actual > 0 && t.Ratio.Normal > 0 &&
			r.Actual%t.Ratio.Actual == 0 && r.Normal%t.Ratio.Normal == 0 &&
			r.Actual > t.Ratio.Actual {
			r.Actual /= t.Ratio.Actual
			r.Normal /= t.Ratio.Normal
		}
	}
	return r
}
