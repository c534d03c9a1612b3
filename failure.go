package xml2ly

import (
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Failure kinds. StructuralViolation and MalformedNumeric abort the
// translation; RecoverableDrift is reported and translation continues with a
// best-effort correction.
const (
	StructuralViolation ftag.Kind = "STRUCTURAL_VIOLATION"
	MalformedNumeric    ftag.Kind = "MALFORMED_NUMERIC"
	RecoverableDrift    ftag.Kind = "RECOVERABLE_DRIFT"
)

// Failure is one classified problem found in the input document. Line is the
// source line of the offending element, 0 if not known.
type Failure struct {
	Kind   ftag.Kind
	Line   int
	Detail string
}

// Reporter receives the failures that do not abort the translation. The
// builder never formats or prints failures itself.
type Reporter interface {
	Report(f *Failure)
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(f *Failure)

func (r ReporterFunc) Report(f *Failure) {
	r(f)
}

func NewFailure(kind ftag.Kind, line int, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Line: line, Detail: fmt.Sprintf(format, args...)}
}

func (f *Failure) Error() string {
	if f.Line > 0 {
		return fmt.Sprintf("line %d: %s", f.Line, f.Detail)
	}
	return f.Detail
}

// Fatal is true for the kinds that abort the translation.
func (f *Failure) Fatal() bool {
	return f.Kind != RecoverableDrift
}

// Abort wraps the failure into an error tagged with its kind, to be returned
// up to the caller of the translation. ftag.Get(err) returns the kind and
// errors.As recovers the *Failure.
func Abort(f *Failure) error {
	return fault.Wrap(f, ftag.With(f.Kind), fmsg.With(string(f.Kind)))
}

// Structural returns an aborting error of kind StructuralViolation.
func Structural(line int, format string, args ...any) error {
	return Abort(NewFailure(StructuralViolation, line, format, args...))
}

// Malformed returns an aborting error of kind MalformedNumeric.
func Malformed(line int, format string, args ...any) error {
	return Abort(NewFailure(MalformedNumeric, line, format, args...))
}
