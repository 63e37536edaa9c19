//go:build onnx

package models

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// resolveORTLibPath locates the ONNX Runtime shared library. Search order,
// grounded on the teacher's resolveORTLibPath (internal/engine/ort_lib.go):
//  1. ASRSTREAM_ORT_LIB_PATH environment variable (explicit override)
//  2. lib/<goos>-<goarch>/ relative to the executable
//  3. ../lib/<goos>-<goarch>/ relative to the executable
//  4-5. the same two, relative to CWD, only when ASRSTREAM_DEV_MODE=1
//
// CWD-based lookup stays off by default to prevent shared library hijacking.
func resolveORTLibPath() (string, error) {
	if envPath := os.Getenv("ASRSTREAM_ORT_LIB_PATH"); envPath != "" {
		info, err := os.Stat(envPath)
		if err != nil {
			return "", fmt.Errorf("ort: ASRSTREAM_ORT_LIB_PATH=%q does not exist", envPath)
		}
		if info.IsDir() {
			return "", fmt.Errorf("ort: ASRSTREAM_ORT_LIB_PATH=%q is a directory, expected a file", envPath)
		}
		return envPath, nil
	}

	filename := ortLibFilename()
	libRel := filepath.Join("lib", runtime.GOOS+"-"+runtime.GOARCH, filename)
	libRelParent := filepath.Join("..", "lib", runtime.GOOS+"-"+runtime.GOARCH, filename)

	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		for _, rel := range []string{libRel, libRelParent} {
			path := filepath.Join(exeDir, rel)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	if os.Getenv("ASRSTREAM_DEV_MODE") == "1" {
		if dir, err := os.Getwd(); err == nil {
			for _, rel := range []string{libRel, libRelParent} {
				path := filepath.Join(dir, rel)
				if _, err := os.Stat(path); err == nil {
					return path, nil
				}
			}
		}
	}

	return "", fmt.Errorf("ort: shared library not found; searched lib/<os>-<arch>/%s relative to executable (set ASRSTREAM_ORT_LIB_PATH to override, or ASRSTREAM_DEV_MODE=1 to enable CWD lookup)", filename)
}

func ortLibFilename() string {
	switch runtime.GOOS {
	case "darwin":
		return "libonnxruntime.dylib"
	case "windows":
		return "onnxruntime.dll"
	default:
		return "libonnxruntime.so"
	}
}

// modelArtifacts lists the three opaque model files §6 names, in the order
// LoadDir loads them.
var modelArtifacts = []string{"streaming_encoder.onnx", "decoder.onnx", "joint_decision.onnx"}

// validateModelDirLayout checks all three model artifacts exist under dir
// before any ORT session is opened, so a missing-model-directory mistake is
// reported as one clear error instead of surfacing as a confusing failure
// partway through LoadDir (with earlier sessions already opened and needing
// to be torn down).
func validateModelDirLayout(dir string) error {
	var missing []string
	for _, name := range modelArtifacts {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		if info.IsDir() {
			return fmt.Errorf("ort: model_dir entry %q is a directory, expected a file", path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("ort: model_dir %q is missing artifact(s) %v", dir, missing)
	}
	return nil
}
