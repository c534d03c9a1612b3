package lilypond

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/xml2ly"
)

// Options of the LilyPond output. Absolute selects absolute octave marks
// for every note; otherwise the music is printed in \relative mode.
type Options struct {
	Version       string
	StaffSize     int
	Absolute      bool
	CompressRests bool
	Paper         string
}

type Generator struct {
	Template *template.Template
	Options  Options
}

//go:embed templates/*
var templateFS embed.FS

const DefaultVersion = "2.24.0"

// New returns a new generator using the default .ly templates
func New(opts Options) (*Generator, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.ly")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return newGenerator(tmpl, opts), nil
}

func NewFromTemplates(opts Options, templateDirectory string) (*Generator, error) {
	globPtrn := filepath.Join(templateDirectory, "*.ly")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return newGenerator(tmpl, opts), nil
}

func newGenerator(tmpl *template.Template, opts Options) *Generator {
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	return &Generator{Template: tmpl, Options: opts}
}

// Score prints the score as a LilyPond file.
func (g *Generator) Score(s *xml2ly.Score) (string, error) {
	macros, err := NewScoreMacros(s, g.Options)
	if err != nil {
		return "", fmt.Errorf(`could not print the music: %v`, err)
	}
	result := bytes.NewBufferString("")
	if err := g.Template.ExecuteTemplate(result, "score.ly", macros); err != nil {
		return "", fmt.Errorf(`could not execute template "score.ly": %v`, err)
	}
	return result.String(), nil
}
