package main

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vsariola/xml2ly"
)

// logReporter logs the failures the builder recovers from as warnings.
type logReporter struct {
	file string
}

func (r logReporter) Report(f *xml2ly.Failure) {
	failureEntry(r.file, f).Warn(f.Detail)
}

func failureEntry(file string, f *xml2ly.Failure) *logrus.Entry {
	fields := logrus.Fields{"file": file, "kind": f.Kind}
	if f.Line > 0 {
		fields["line"] = f.Line
	}
	return logrus.WithFields(fields)
}

// logError logs an error that stopped the processing of a file, with the
// failure kind and line when the error came from the translation.
func logError(file string, err error) {
	var f *xml2ly.Failure
	if errors.As(err, &f) {
		failureEntry(file, f).Error(f.Detail)
		return
	}
	logrus.WithField("file", file).Error(err)
}
