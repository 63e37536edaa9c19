package asrconfig

import "testing"

func TestLoaderDefaults(t *testing.T) {
	loader := Loader{
		Lookup: func(string) (string, bool) { return "", false },
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ChunkProfile != DefaultChunkProfile {
		t.Errorf("ChunkProfile = %q, want %q", cfg.ChunkProfile, DefaultChunkProfile)
	}
	if cfg.EOUDebounceMs != DefaultEOUDebounceMs {
		t.Errorf("EOUDebounceMs = %d, want %d", cfg.EOUDebounceMs, DefaultEOUDebounceMs)
	}
	if cfg.DebugFeatures != DefaultDebugFeatures {
		t.Errorf("DebugFeatures = %v, want %v", cfg.DebugFeatures, DefaultDebugFeatures)
	}
	if cfg.ModelDir != DefaultModelDir {
		t.Errorf("ModelDir = %q, want %q", cfg.ModelDir, DefaultModelDir)
	}
}

func TestLoaderJSON(t *testing.T) {
	env := map[string]string{
		"ASRSTREAM_CONFIG": `{"chunk_profile":"medium","eou_debounce_ms":2000,"model_dir":"/opt/models"}`,
	}
	loader := Loader{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ChunkProfile != "medium" {
		t.Errorf("ChunkProfile = %q, want medium", cfg.ChunkProfile)
	}
	if cfg.EOUDebounceMs != 2000 {
		t.Errorf("EOUDebounceMs = %d, want 2000", cfg.EOUDebounceMs)
	}
	if cfg.ModelDir != "/opt/models" {
		t.Errorf("ModelDir = %q, want /opt/models", cfg.ModelDir)
	}
	// Unset fields keep defaults.
	if cfg.DebugFeatures != DefaultDebugFeatures {
		t.Errorf("DebugFeatures = %v, want default %v", cfg.DebugFeatures, DefaultDebugFeatures)
	}
}

func TestLoaderEnvOverridesJSON(t *testing.T) {
	env := map[string]string{
		"ASRSTREAM_CONFIG":          `{"chunk_profile":"medium"}`,
		"ASRSTREAM_CHUNK_PROFILE":   "long",
		"ASRSTREAM_EOU_DEBOUNCE_MS": "500",
		"ASRSTREAM_DEBUG_FEATURES":  "true",
	}
	loader := Loader{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ChunkProfile != "long" {
		t.Errorf("ChunkProfile = %q, want long (env override)", cfg.ChunkProfile)
	}
	if cfg.EOUDebounceMs != 500 {
		t.Errorf("EOUDebounceMs = %d, want 500", cfg.EOUDebounceMs)
	}
	if !cfg.DebugFeatures {
		t.Error("DebugFeatures = false, want true")
	}
}

func TestLoaderInvalidJSON(t *testing.T) {
	env := map[string]string{
		"ASRSTREAM_CONFIG": `{bad json}`,
	}
	loader := Loader{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoaderRejectsInvalidChunkProfile(t *testing.T) {
	env := map[string]string{
		"ASRSTREAM_CHUNK_PROFILE": "extra-long",
	}
	loader := Loader{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected validation error for unknown chunk_profile")
	}
}
