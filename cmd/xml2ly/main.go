package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vsariola/xml2ly/builder"
	"github.com/vsariola/xml2ly/lilypond"
	"github.com/vsariola/xml2ly/musicxml"
	"github.com/vsariola/xml2ly/version"
)

var inputPatterns = []string{"*.xml", "*.musicxml", "*.mxl"}

func main() {
	safe := flag.Bool("n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	list := flag.Bool("l", false, "Do not write files; just list files that would change instead.")
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	yamlOut := flag.Bool("y", false, "Output the score model as .yml file instead of LilyPond.")
	xmlOut := flag.Bool("x", false, "Output the score model as MusicXML (.out.xml) instead of LilyPond.")
	tmplDir := flag.String("t", "", "Use the LilyPond templates in this directory instead of the standard templates.")
	outPath := flag.String("o", "", "Directory or filename where to write the output. Extension is ignored. Directory and its parents are created if needed. By default, everything is placed in the current working directory.")
	quiet := flag.Bool("q", false, "Quiet: do not print warnings, only errors.")
	trace := flag.Bool("trace", false, "Print the files processed and written.")
	relative := flag.Bool("r", false, "Print the LilyPond music in relative octave mode.")
	noLyrics := flag.Bool("nolyrics", false, "Ignore lyrics.")
	noDynamics := flag.Bool("nodynamics", false, "Ignore dynamics and hairpins.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case *quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	case *trace:
		logrus.SetLevel(logrus.DebugLevel)
	}
	prefs := MakePreferences()
	if prefs.YmlError != nil {
		logrus.Warnf("could not read the user preferences: %v", prefs.YmlError)
	}
	if *relative {
		prefs.LilyPond.Absolute = false
	}
	if *noLyrics {
		prefs.Builder.IgnoreLyrics = true
	}
	if *noDynamics {
		prefs.Builder.IgnoreDynamics = true
	}
	lily := !*yamlOut && !*xmlOut // LilyPond is the default output
	var gen *lilypond.Generator
	if lily {
		var err error
		if *tmplDir != "" {
			gen, err = lilypond.NewFromTemplates(prefs.LilyPond, *tmplDir)
		} else {
			gen, err = lilypond.New(prefs.LilyPond)
		}
		if err != nil {
			logrus.Errorf("error creating the LilyPond generator: %v", err)
			os.Exit(1)
		}
	}
	output := func(filename string, extension string, contents []byte) error {
		if *stdout {
			fmt.Print(string(contents))
			return nil
		}
		_, name := filepath.Split(filename)
		var dir string
		if *outPath != "" {
			// check if it's an already existing directory and the user just forgot trailing slash
			if info, err := os.Stat(*outPath); err == nil && info.IsDir() {
				dir = *outPath
			} else {
				outdir, outname := filepath.Split(*outPath)
				if outdir != "" {
					dir = outdir
				}
				if outname != "" {
					name = outname
				}
			}
		}
		if dir == "" {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
			}
		}
		name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
		f := filepath.Join(dir, name)
		original, err := os.ReadFile(f)
		if err == nil {
			if bytes.Equal(original, contents) {
				logrus.Debugf("%v is up to date", f)
				return nil // no need to update
			}
			if !*list && *safe {
				return fmt.Errorf("file %v would be overwritten", f)
			}
		}
		if *list {
			fmt.Println(f)
			return nil
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %v", dir, err)
		}
		if err := os.WriteFile(f, contents, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %v", f, err)
		}
		logrus.Debugf("wrote %v", f)
		return nil
	}
	process := func(filename string) error {
		logrus.Debugf("processing %v", filename)
		cfg := prefs.BuilderConfig()
		cfg.Reporter = logReporter{file: filename}
		score, err := builder.BuildFile(filename, cfg)
		if err != nil {
			return err
		}
		if lily {
			ly, err := gen.Score(score)
			if err != nil {
				return fmt.Errorf("printing LilyPond failed: %v", err)
			}
			if err := output(filename, ".ly", []byte(ly)); err != nil {
				return fmt.Errorf("error outputting ly file: %v", err)
			}
		}
		if *yamlOut {
			yamlScore, err := yaml.Marshal(score)
			if err != nil {
				return fmt.Errorf("could not marshal the score as yaml file: %v", err)
			}
			if err := output(filename, ".yml", yamlScore); err != nil {
				return fmt.Errorf("error outputting yaml file: %v", err)
			}
		}
		if *xmlOut {
			var buf bytes.Buffer
			if err := musicxml.Write(&buf, score); err != nil {
				return fmt.Errorf("could not write the score as MusicXML: %v", err)
			}
			if err := output(filename, ".out.xml", buf.Bytes()); err != nil {
				return fmt.Errorf("error outputting xml file: %v", err)
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			var files []string
			for _, pattern := range inputPatterns {
				matches, err := filepath.Glob(filepath.Join(param, pattern))
				if err != nil {
					logrus.Errorf("could not glob the path %v for %v files: %v", param, pattern, err)
					retval = 1
					continue
				}
				files = append(files, matches...)
			}
			for _, file := range files {
				if err := process(file); err != nil {
					logError(file, err)
					retval = 1
				}
			}
		} else {
			if err := process(param); err != nil {
				logError(param, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "xml2ly translates MusicXML scores (.xml, .musicxml or .mxl) to LilyPond.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
