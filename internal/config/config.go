// Package config loads hatch settings from hatch.yml and HATCH_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds every setting hatch reads.
type Config struct {
	Template  TemplateConfig
	Patch     PatchConfig
	Framework FrameworkConfig
	State     StateConfig
	Log       LogConfig
}

type TemplateConfig struct {
	Source string // Template source reference; empty means the bundled templates
}

type PatchConfig struct {
	Strict bool // Fail when a patch matches nothing
}

type FrameworkConfig struct {
	Bin     string // Project-local CLI
	New     string // CLI that creates projects
	Version string // Skip version detection when set
}

type StateConfig struct {
	File string // Relative to the project root
}

type LogConfig struct {
	File string // "-" disables the log file
}

// New returns a viper instance with hatch's defaults, config search paths
// and environment binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("template.source", "")
	v.SetDefault("patch.strict", true)
	v.SetDefault("framework.bin", "bin/rails")
	v.SetDefault("framework.new", "rails")
	v.SetDefault("framework.version", "")
	v.SetDefault("state.file", "tmp/hatch.toml")
	v.SetDefault("log.file", "")

	v.SetConfigName("hatch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, "hatch"))

	v.SetEnvPrefix("HATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configuration into v. An explicit file must exist; the default
// search paths may hold nothing.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Config{
		Template: TemplateConfig{Source: v.GetString("template.source")},
		Patch:    PatchConfig{Strict: v.GetBool("patch.strict")},
		Framework: FrameworkConfig{
			Bin:     v.GetString("framework.bin"),
			New:     v.GetString("framework.new"),
			Version: v.GetString("framework.version"),
		},
		State: StateConfig{File: v.GetString("state.file")},
		Log:   LogConfig{File: v.GetString("log.file")},
	}, nil
}

// Used returns the config file viper read, or "".
func Used(v *viper.Viper) string {
	return v.ConfigFileUsed()
}
