package asrconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Loader loads Config from environment variables. Tests can override Lookup
// to inject a deterministic map instead of the real environment, the same
// pattern as the teacher's config.Loader.
type Loader struct {
	Lookup func(string) (string, bool)
}

// Load retrieves the session configuration from environment variables, with
// an optional ASRSTREAM_CONFIG JSON blob applied before individual overrides.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := Config{
		ChunkProfile:  DefaultChunkProfile,
		EOUDebounceMs: DefaultEOUDebounceMs,
		DebugFeatures: DefaultDebugFeatures,
		ModelDir:      DefaultModelDir,
		LogLevel:      DefaultLogLevel,
	}

	if raw, ok := l.Lookup("ASRSTREAM_CONFIG"); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(l.Lookup, "ASRSTREAM_CHUNK_PROFILE", &cfg.ChunkProfile)
	overrideString(l.Lookup, "ASRSTREAM_MODEL_DIR", &cfg.ModelDir)
	overrideString(l.Lookup, "ASRSTREAM_LOG_LEVEL", &cfg.LogLevel)
	if err := overrideInt(l.Lookup, "ASRSTREAM_EOU_DEBOUNCE_MS", &cfg.EOUDebounceMs); err != nil {
		return Config{}, err
	}
	if err := overrideBool(l.Lookup, "ASRSTREAM_DEBUG_FEATURES", &cfg.DebugFeatures); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyJSON(raw string, cfg *Config) error {
	type jsonConfig struct {
		ChunkProfile  string `json:"chunk_profile"`
		EOUDebounceMs *int   `json:"eou_debounce_ms"`
		DebugFeatures *bool  `json:"debug_features"`
		ModelDir      string `json:"model_dir"`
		LogLevel      string `json:"log_level"`
	}
	var payload jsonConfig
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("asrconfig: decode ASRSTREAM_CONFIG: %w", err)
	}
	if payload.ChunkProfile != "" {
		cfg.ChunkProfile = payload.ChunkProfile
	}
	if payload.EOUDebounceMs != nil {
		cfg.EOUDebounceMs = *payload.EOUDebounceMs
	}
	if payload.DebugFeatures != nil {
		cfg.DebugFeatures = *payload.DebugFeatures
	}
	if payload.ModelDir != "" {
		cfg.ModelDir = payload.ModelDir
	}
	if payload.LogLevel != "" {
		cfg.LogLevel = payload.LogLevel
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("asrconfig: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("asrconfig: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}
