package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/vsariola/xml2ly"
)

func TestDefaultPreferences(t *testing.T) {
	p := loadDefaultPreferences()
	if !p.Builder.PadVoices || p.Builder.IgnoreLyrics {
		t.Fatalf("got builder preferences %+v", p.Builder)
	}
	if p.LilyPond.Version != "2.24.0" || p.LilyPond.StaffSize != 20 || !p.LilyPond.Absolute {
		t.Fatalf("got LilyPond preferences %+v", p.LilyPond)
	}
	if cfg := p.BuilderConfig(); !cfg.PadVoices {
		t.Fatalf("the builder config does not pad voices")
	}
}

func TestLogReporter(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	logReporter{file: "a.xml"}.Report(xml2ly.NewFailure(xml2ly.RecoverableDrift, 12, "backup of %v", "1/4"))
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.WarnLevel || e.Message != "backup of 1/4" {
		t.Fatalf("got entry %+v, expected a warning", e)
	}
	if e.Data["line"] != 12 || e.Data["file"] != "a.xml" || e.Data["kind"] != xml2ly.RecoverableDrift {
		t.Fatalf("got fields %v", e.Data)
	}

	logError("b.xml", xml2ly.Structural(3, "unknown part %q", "P9"))
	e = hook.LastEntry()
	if e.Level != logrus.ErrorLevel || e.Message != `unknown part "P9"` || e.Data["kind"] != xml2ly.StructuralViolation {
		t.Fatalf("got entry %+v, expected a structural error", e)
	}
}
