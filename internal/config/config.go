package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"

	"github.com/combcal/combcal/internal/model"
)

// Source is the configuration shape of one calendar feed. The json
// tags match the legacy deployment format, where the whole source list
// arrives as a single JSON array in an environment variable.
type Source struct {
	ID              string `koanf:"id" json:"Id"`
	URL             string `koanf:"url" json:"Url"`
	Duration        *int   `koanf:"duration" json:"Duration"`
	PadStartMinutes *int   `koanf:"padstartminutes" json:"PadStartMinutes"`
	Prefix          string `koanf:"prefix" json:"Prefix"`
	MakeUnique      bool   `koanf:"makeunique" json:"MakeUnique"`
	Dedup           bool   `koanf:"deduplicate" json:"Deduplicate"`
}

// Calendar configures the combined feed itself.
type Calendar struct {
	// Name is the display name (X-WR-CALNAME) of the combined feed.
	Name string `koanf:"name"`
	// DaysHistory is the historical retention window in days; zero
	// disables historical filtering.
	DaysHistory int `koanf:"dayshistory"`
	// Sources lists the feeds to combine.
	Sources []Source `koanf:"sources"`
	// SourcesJSON optionally carries the source list as a JSON array
	// (COMBCAL_CALENDAR_SOURCESJSON); when set it replaces Sources.
	SourcesJSON string `koanf:"sourcesjson"`
}

// Application is the top-level configuration, loaded from struct
// defaults, then an optional YAML file, then COMBCAL_-prefixed
// environment variables.
type Application struct {
	Listen   string   `koanf:"listen"`
	Calendar Calendar `koanf:"calendar"`
}

// Load reads the configuration. A missing file is fine; environment
// variables alone can configure the service.
func Load(path string) (Application, error) {
	k := koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Listen: "127.0.0.1:8080",
	}, "koanf"), nil)
	if err != nil {
		return Application{}, fmt.Errorf("loading config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			return Application{}, fmt.Errorf("loading config file: %w", err)
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "COMBCAL_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, "COMBCAL_")), "_", ".")
			return key, value
		},
	}), nil)
	if err != nil {
		return Application{}, fmt.Errorf("loading config from environment: %w", err)
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if app.Calendar.SourcesJSON != "" {
		var sources []Source
		if err := json.Unmarshal([]byte(app.Calendar.SourcesJSON), &sources); err != nil {
			return Application{}, fmt.Errorf("parsing sources JSON: %w", err)
		}
		app.Calendar.Sources = sources
	}

	return app, nil
}

// ModelSources converts the configured sources into the pipeline's
// descriptor type.
func (c Calendar) ModelSources() []model.Source {
	out := make([]model.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, model.Source{
			ID:              s.ID,
			URL:             s.URL,
			Duration:        s.Duration,
			PadStartMinutes: s.PadStartMinutes,
			Prefix:          s.Prefix,
			MakeUnique:      s.MakeUnique,
			Dedup:           s.Dedup,
		})
	}
	return out
}
