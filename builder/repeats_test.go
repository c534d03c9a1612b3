package builder

import (
	"testing"

	"github.com/vsariola/xml2ly"
)

func TestRepeatDriverClose(t *testing.T) {
	v := &xml2ly.Voice{Number: 1}
	d := repeatDriver{voice: v}
	if err := d.startRepeat(2, false); err != nil {
		t.Fatalf("starting the outer repeat failed: %v", err)
	}
	if err := d.startRepeat(3, false); err != nil {
		t.Fatalf("starting the inner repeat failed: %v", err)
	}
	outer, inner := d.open[0], d.open[1]
	n, err := d.Close()
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if n != 2 || len(d.open) != 0 {
		t.Fatalf("Close returned %v with %v repeats left open, expected 2 and none", n, len(d.open))
	}
	if outer.Phase != xml2ly.RepeatCompleted || inner.Phase != xml2ly.RepeatCompleted {
		t.Fatalf("got phases %v and %v, expected both completed", outer.Phase, inner.Phase)
	}
	if n, err := d.Close(); n != 0 || err != nil {
		t.Fatalf("closing again returned %v, %v", n, err)
	}
}

func TestRepeatDriverEndingStopWithoutEnding(t *testing.T) {
	d := repeatDriver{voice: &xml2ly.Voice{Number: 1}}
	err := d.Right(barlineMarkers{endingStop: true})
	if !isKind(err, xml2ly.StructuralViolation) {
		t.Fatalf("got %v, expected a structural violation", err)
	}
}
