// Package config holds the viper-backed configuration singleton for the
// trending pipeline. Precedence is flags > environment > config file >
// defaults; flag precedence is applied by the command layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the configuration singleton. baseDir anchors the
// default data, database and export locations, matching the original
// layout of data/, database/ and exports/ next to the program.
func Initialize(baseDir string) error {
	v = viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file search paths: alongside the program, then the user
	// config directory.
	v.AddConfigPath(baseDir)
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "trending"))
	}

	// TRENDING_DATA_DIR, TRENDING_DB, TRENDING_EXPORT, TRENDING_LOG_FILE
	v.SetEnvPrefix("TRENDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("data-dir", filepath.Join(baseDir, "data"))
	v.SetDefault("db", filepath.Join(baseDir, "database", "trending_by_time.db"))
	v.SetDefault("export", filepath.Join(baseDir, "exports", "trending_by_time_full_export.csv"))
	v.SetDefault("log-file", "")
	// Reserved row-pruning knob carried through to the normalizer.
	v.SetDefault("star-threshold", 0.5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env apply.
	}

	return nil
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetFloat64 retrieves a float configuration value.
func GetFloat64(key string) float64 {
	if v == nil {
		return 0
	}
	return v.GetFloat64(key)
}

// Set overrides a configuration value.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
