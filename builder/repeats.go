package builder

import (
	"github.com/vsariola/xml2ly"
)

// repeatDriver feeds the measures of one voice into its repeat structure. It
// keeps a stack of the repeats that are still being built, innermost last;
// the phase of each repeat tells where its new content goes.
type repeatDriver struct {
	voice *xml2ly.Voice
	open  []*xml2ly.Repeat
}

// barlineMarkers are the repeat related parts of the barlines of a measure.
type barlineMarkers struct {
	forward     bool
	endingStart string
	hasEnding   bool

	backward      bool
	backwardTimes int
	endingStop    bool
	endingKind    xml2ly.RepeatEndingKind
}

func (d *repeatDriver) top() *xml2ly.Repeat {
	if len(d.open) == 0 {
		return nil
	}
	return d.open[len(d.open)-1]
}

// AppendMeasure adds the measure to the innermost open repeat, or to the
// voice if no repeat is open.
func (d *repeatDriver) AppendMeasure(m *xml2ly.Measure) error {
	if r := d.top(); r != nil {
		return r.AppendMeasure(m)
	}
	d.voice.AppendMeasure(m)
	return nil
}

// Left applies the markers found at the left barline, before the measure is
// appended.
func (d *repeatDriver) Left(b barlineMarkers) error {
	if b.forward {
		if err := d.startRepeat(2, false); err != nil {
			return err
		}
	}
	if b.hasEnding {
		r := d.top()
		if r == nil || r.Phase == xml2ly.RepeatCompleted {
			if err := d.startRepeat(2, true); err != nil {
				return err
			}
			r = d.top()
		}
		if err := r.AddEnding(&xml2ly.RepeatEnding{Number: b.endingStart}); err != nil {
			return err
		}
	}
	return nil
}

// Right applies the markers found at the right barline, after the measure
// has been appended.
func (d *repeatDriver) Right(b barlineMarkers) error {
	if b.endingStop {
		r := d.top()
		if r == nil || r.Phase != xml2ly.RepeatInEndings {
			return xml2ly.Structural(0, "ending stopped but no ending is open")
		}
		r.LastEnding().Kind = b.endingKind
		if !b.backward {
			return d.completeTop()
		}
	}
	if !b.backward {
		return nil
	}
	r := d.top()
	if r == nil {
		if err := d.startRepeat(2, true); err != nil {
			return err
		}
		r = d.top()
	}
	if b.backwardTimes > 0 {
		r.Times = b.backwardTimes
	}
	if r.Phase == xml2ly.RepeatInEndings {
		// the repeat goes on with the next ending
		return nil
	}
	return d.completeTop()
}

// startRepeat opens a new repeat nested in the current content. With
// takeTrailing, the repeat has no forward barline and its common part takes
// the content following the last repeat.
func (d *repeatDriver) startRepeat(times int, takeTrailing bool) error {
	r := xml2ly.NewRepeat(times)
	if err := r.SetCommonPart(); err != nil {
		return err
	}
	parent := d.top()
	if takeTrailing {
		if parent == nil {
			r.CommonPart.Content = d.voice.TakeTrailingContent()
		} else {
			content, err := parent.TakeTrailingContent()
			if err != nil {
				return err
			}
			r.CommonPart.Content = content
		}
	}
	if parent == nil {
		d.voice.Content = append(d.voice.Content, r)
	} else if err := parent.AppendRepeat(r); err != nil {
		return err
	}
	d.open = append(d.open, r)
	return nil
}

func (d *repeatDriver) completeTop() error {
	r := d.top()
	if r == nil {
		return nil
	}
	if err := r.Complete(); err != nil {
		return err
	}
	d.open = d.open[:len(d.open)-1]
	return nil
}

// Close completes the repeats still open at the end of the part, innermost
// first. It returns how many there were.
func (d *repeatDriver) Close() (int, error) {
	n := len(d.open)
	for len(d.open) > 0 {
		if err := d.completeTop(); err != nil {
			return n, err
		}
	}
	return n, nil
}
