package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/vsariola/xml2ly/builder"
	"github.com/vsariola/xml2ly/lilypond"
)

type (
	Preferences struct {
		Builder  BuilderPreferences
		LilyPond lilypond.Options
		YmlError error `yaml:"-"`
	}

	BuilderPreferences struct {
		IgnoreLyrics   bool
		IgnoreDynamics bool
		PadVoices      bool
	}
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// ReadCustomConfigYml modifies the target argument, i.e. needs a pointer
func ReadCustomConfigYml(filename string, target interface{}) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	path := filepath.Join(configDir, "xml2ly", filename)
	bytes, err2 := os.ReadFile(path)
	if err2 != nil {
		return false, err2
	}
	err = yaml.Unmarshal(bytes, target)
	return true, err
}

func MakePreferences() Preferences {
	preferences := loadDefaultPreferences()
	exists, err := ReadCustomConfigYml("preferences.yml", &preferences)
	if exists {
		preferences.YmlError = err
	}
	return preferences
}

func (p Preferences) BuilderConfig() builder.Config {
	return builder.Config{
		IgnoreLyrics:   p.Builder.IgnoreLyrics,
		IgnoreDynamics: p.Builder.IgnoreDynamics,
		PadVoices:      p.Builder.PadVoices,
	}
}
