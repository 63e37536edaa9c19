//go:build onnx

package models

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortInitOnce ensures the ONNX Runtime environment is initialized exactly
// once across all three model sessions, same as the teacher's ortInitOnce in
// internal/engine/silero.go — generalized from one session to three sharing
// the same process-wide environment.
var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func ensureORTEnvironment() error {
	ortInitOnce.Do(func() {
		libPath, err := resolveORTLibPath()
		if err != nil {
			ortInitErr = fmt.Errorf("resolve ORT lib: %w", err)
			return
		}
		ort.SetSharedLibraryPath(libPath)
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}
