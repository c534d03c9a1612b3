package builder

import (
	"github.com/vsariola/xml2ly"
)

// Config is everything a Builder needs besides the document. The zero value
// is a valid configuration that drops all warnings.
type Config struct {
	// Reporter receives the RecoverableDrift failures. Fatal failures are not
	// reported, they are returned as errors.
	Reporter xml2ly.Reporter

	IgnoreLyrics   bool
	IgnoreDynamics bool

	// PadVoices fills the measures in which a voice has no content with
	// invisible skips, so that all voices of a part have the same measures.
	PadVoices bool
}

func (c *Config) report(f *xml2ly.Failure) {
	if c.Reporter != nil {
		c.Reporter.Report(f)
	}
}
