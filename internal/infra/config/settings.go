package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tsukiyo-oss/journaldoc/internal/app/config"
)

// RawSettings represents the structure of setting.json. JSON tags are
// used for marshaling/unmarshaling; pointer fields distinguish "absent"
// from "explicitly zero" so env and defaults only fill in what the file
// didn't set.
type RawSettings struct {
	BasePath       *string `json:"base_path"`
	Capacity       *int    `json:"capacity"`
	HighWaterBytes *int    `json:"high_water_bytes"`
	TypeTag        *string `json:"type_tag"`
	SchemaVersion  *uint32 `json:"schema_version"`
	FsyncSnapshot  *bool   `json:"fsync_snapshot"`
}

// LoadSettings loads configuration from multiple sources with the
// following priority:
//  1. setting.json (if present in baseDir)
//  2. environment variables (override the JSON file)
//  3. default values (fill in whatever neither source set)
func LoadSettings(baseDir string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	jsonPath := filepath.Join(baseDir, "setting.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		configSource = "json"
		settingPath = jsonPath
	}

	overrideFromEnv(settings, &configSource)
	applyDefaults(settings, baseDir)

	return buildAppConfig(settings, configSource, settingPath), nil
}

// overrideFromEnv overrides settings with environment variables, if set.
func overrideFromEnv(settings *RawSettings, configSource *string) {
	if v := os.Getenv("JOURNALDOC_BASE_PATH"); v != "" {
		settings.BasePath = &v
		markEnvSourced(configSource)
	}
	if v := os.Getenv("JOURNALDOC_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Capacity = &n
			markEnvSourced(configSource)
		}
	}
	if v := os.Getenv("JOURNALDOC_HIGH_WATER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.HighWaterBytes = &n
			markEnvSourced(configSource)
		}
	}
	if v := os.Getenv("JOURNALDOC_TYPE_TAG"); v != "" {
		settings.TypeTag = &v
		markEnvSourced(configSource)
	}
	if v := os.Getenv("JOURNALDOC_SCHEMA_VERSION"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			u := uint32(n)
			settings.SchemaVersion = &u
			markEnvSourced(configSource)
		}
	}
	if v := os.Getenv("JOURNALDOC_FSYNC_SNAPSHOT"); v != "" {
		b := toBool(v)
		settings.FsyncSnapshot = &b
		markEnvSourced(configSource)
	}
}

func markEnvSourced(configSource *string) {
	if *configSource == "default" {
		*configSource = "env"
	}
}

// applyDefaults fills in default values for any field neither the JSON
// file nor the environment set. defaultBasePath is baseDir itself, so a
// store with no explicit base_path lives alongside its setting.json.
func applyDefaults(settings *RawSettings, defaultBasePath string) {
	if settings.BasePath == nil {
		v := defaultBasePath
		settings.BasePath = &v
	}
	if settings.Capacity == nil {
		v := 1 << 20 // 1 MiB
		settings.Capacity = &v
	}
	if settings.HighWaterBytes == nil {
		v := *settings.Capacity / 2
		settings.HighWaterBytes = &v
	}
	if settings.TypeTag == nil {
		v := "journaldoc"
		settings.TypeTag = &v
	}
	if settings.SchemaVersion == nil {
		v := uint32(1)
		settings.SchemaVersion = &v
	}
	if settings.FsyncSnapshot == nil {
		v := true
		settings.FsyncSnapshot = &v
	}
}

// buildAppConfig converts RawSettings to AppConfig.
func buildAppConfig(settings *RawSettings, configSource, settingPath string) *config.AppConfig {
	return config.NewAppConfig(
		*settings.BasePath,
		*settings.Capacity,
		*settings.HighWaterBytes,
		*settings.TypeTag,
		*settings.SchemaVersion,
		*settings.FsyncSnapshot,
		configSource,
		settingPath,
	)
}

// toBool converts various string representations to boolean.
func toBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// CreateDefaultSettings creates a default setting.json content, used by
// the CLI's "init" subcommand.
func CreateDefaultSettings(basePath string) []byte {
	settings := &RawSettings{}
	applyDefaults(settings, basePath)

	data, _ := json.MarshalIndent(settings, "", "  ")
	return data
}
