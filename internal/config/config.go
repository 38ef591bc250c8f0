// Package config loads dqb settings from defaults, a YAML file, DQB_
// environment variables and command line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gopsql/dqb/catalog"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// DefaultFile is loaded when no config file is given and it exists in
	// the working directory.
	DefaultFile = "dqb.yaml"

	DefaultDriver = string(catalog.PostgreSQL)
	DefaultListen = ":8080"

	envPrefix = "DQB_"
)

var ErrNoMetadataSource = errors.New("either connection_string or metadata_file must be set")

// Settings selects the database the table metadata comes from and how
// statements are rendered and served.
type Settings struct {
	Driver           string `koanf:"driver"`
	ConnectionString string `koanf:"connection_string"`
	MetadataFile     string `koanf:"metadata_file"`
	Listen           string `koanf:"listen"`
	Formatted        bool   `koanf:"formatted"`
	Verbose          bool   `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Load reads the settings. cfgFile may be empty, in which case DefaultFile
// is used if present. flags may be nil; only flags that were set on the
// command line are applied, with kebab-case names mapped to snake_case keys
// (--connection-string sets connection_string).
func Load(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"driver":    DefaultDriver,
		"listen":    DefaultListen,
		"formatted": false,
		"verbose":   false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			cfgFile = DefaultFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// DQB_CONNECTION_STRING -> connection_string
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	s.File = cfgFile
	return &s, nil
}

// Validate checks the driver, replacing an alias such as "postgres" with
// its canonical name, and requires a metadata source.
func (s *Settings) Validate() error {
	driver, err := catalog.ParseDriver(s.Driver)
	if err != nil {
		return err
	}
	s.Driver = string(driver)
	if s.ConnectionString == "" && s.MetadataFile == "" {
		return ErrNoMetadataSource
	}
	return nil
}

// Source returns where table metadata is read from: the snapshot file if
// one is configured, the database otherwise. Options are passed to the
// catalog reader.
func (s *Settings) Source(options ...interface{}) catalog.Source {
	if s.MetadataFile != "" {
		return catalog.FileSource{Path: s.MetadataFile}
	}
	return catalog.DatabaseSource{
		Driver:           catalog.Driver(s.Driver),
		ConnectionString: s.ConnectionString,
		Options:          options,
	}
}
