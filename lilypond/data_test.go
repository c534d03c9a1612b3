package lilypond_test

import (
	"testing"

	"github.com/vsariola/xml2ly"
	"github.com/vsariola/xml2ly/lilypond"
)

func TestDuration(t *testing.T) {
	for _, c := range []struct {
		d    lilypond.Duration
		want string
	}{
		{lilypond.Duration{DurationLog: 2, Dots: 1}, "4."},
		{lilypond.Duration{DurationLog: 0}, "1"},
		{lilypond.Duration{DurationLog: 4, Dots: 2}, "16.."},
		{lilypond.Duration{DurationLog: -1}, "\\breve"},
	} {
		if got := c.d.String(); got != c.want {
			t.Errorf("got %s want %s", got, c.want)
		}
	}
}

func TestPitch(t *testing.T) {
	for _, c := range []struct {
		p    lilypond.Pitch
		want string
	}{
		{lilypond.Pitch{Octave: 4, Notename: 0}, "c'"},
		{lilypond.Pitch{Octave: 6, Notename: 3, Alteration: -1}, "fes'''"},
		{lilypond.Pitch{Octave: 2, Notename: 2, Alteration: -1}, "es,"},
		{lilypond.Pitch{Octave: 3, Notename: 5, Alteration: -2}, "ases"},
		{lilypond.Pitch{Octave: 5, Notename: 0, Alteration: 1}, "cis''"},
		{lilypond.Pitch{Octave: 3, Notename: 6, Alteration: 0.5}, "bih"},
		{lilypond.Pitch{Octave: 1, Notename: 4, Alteration: 2}, "gisis,,"},
	} {
		if got := c.p.String(); got != c.want {
			t.Errorf("got %s want %s", got, c.want)
		}
	}
}

func TestRelativePitch(t *testing.T) {
	prev := lilypond.Pitch{Octave: 4, Notename: 0}
	for _, c := range []struct {
		p    lilypond.Pitch
		want string
	}{
		{lilypond.Pitch{Octave: 4, Notename: 4}, "g'"},
		{lilypond.Pitch{Octave: 4, Notename: 3}, "f"},
		{lilypond.Pitch{Octave: 3, Notename: 4}, "g"},
		{lilypond.Pitch{Octave: 3, Notename: 3}, "f,"},
		{lilypond.Pitch{Octave: 5, Notename: 0}, "c'"},
		{lilypond.Pitch{Octave: 2, Notename: 0}, "c,,"},
	} {
		if got := c.p.Relative(prev); got != c.want {
			t.Errorf("after c' got %s want %s", got, c.want)
		}
	}
}

func TestNewPitch(t *testing.T) {
	p, ok := lilypond.NewPitch(xml2ly.Pitch{Step: "B", Alter: -1, Octave: 3})
	if !ok || p.String() != "bes" {
		t.Fatalf("got %v, %v expected bes", p.String(), ok)
	}
	if _, ok := lilypond.NewPitch(xml2ly.Pitch{Octave: 3}); ok {
		t.Fatalf("a pitch without a step was accepted")
	}
	if _, ok := lilypond.NewPitch(xml2ly.Pitch{Step: "H", Octave: 3}); ok {
		t.Fatalf("step H was accepted")
	}
}

func TestLengthToken(t *testing.T) {
	for _, c := range []struct {
		num, den int64
		want     string
	}{
		{1, 4, "4"},
		{3, 8, "4."},
		{7, 8, "2.."},
		{1, 12, "1*1/12"},
		{5, 16, "1*5/16"},
		{2, 1, "\\breve"},
		{3, 1, "\\breve."},
		{5, 1, "1*5"},
	} {
		got, err := lilypond.LengthToken(xml2ly.NewRational(c.num, c.den))
		if err != nil {
			t.Fatalf("LengthToken(%v/%v) failed: %v", c.num, c.den, err)
		}
		if got != c.want {
			t.Errorf("LengthToken(%v/%v) got %s want %s", c.num, c.den, got, c.want)
		}
	}
	if _, err := lilypond.LengthToken(xml2ly.Rational{}); err == nil {
		t.Fatalf("LengthToken of zero did not fail")
	}
}
