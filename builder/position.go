package builder

import (
	"github.com/vsariola/xml2ly"
)

// positionTracker keeps the position within the current measure, in whole
// notes. It never goes negative: a backup past the start of the measure is
// clamped to zero and reported as drift.
type positionTracker struct {
	pos xml2ly.Rational
	// max is the furthest position reached in the measure, which is the
	// length of the measure as written.
	max xml2ly.Rational
}

// Advance moves the position forward by a note, rest or forward duration.
func (t *positionTracker) Advance(d xml2ly.Rational) {
	t.pos = t.pos.Add(d)
	if t.pos.Cmp(t.max) > 0 {
		t.max = t.pos
	}
}

// Backup moves the position back. If that would cross the start of the
// measure, the position is clamped to zero and a RecoverableDrift failure
// is returned; otherwise the result is nil.
func (t *positionTracker) Backup(d xml2ly.Rational) *xml2ly.Failure {
	p := t.pos.Sub(d)
	if p.Sign() < 0 {
		f := xml2ly.NewFailure(xml2ly.RecoverableDrift, 0,
			"backup of %v from position %v crosses the measure start, clamped to 0", d, t.pos)
		t.pos = xml2ly.Rational{}
		return f
	}
	t.pos = p
	return nil
}

// PadUpTo moves the position to target if target is ahead, returning the
// gap that has to be filled with a skip. The gap is zero if target is not
// ahead.
func (t *positionTracker) PadUpTo(target xml2ly.Rational) xml2ly.Rational {
	gap := target.Sub(t.pos)
	if gap.Sign() <= 0 {
		return xml2ly.Rational{}
	}
	t.Advance(gap)
	return gap
}

// ResetForNewMeasure zeroes the position and the measure length.
func (t *positionTracker) ResetForNewMeasure() {
	t.pos = xml2ly.Rational{}
	t.max = xml2ly.Rational{}
}

func (t *positionTracker) Position() xml2ly.Rational {
	return t.pos
}

func (t *positionTracker) Length() xml2ly.Rational {
	return t.max
}
