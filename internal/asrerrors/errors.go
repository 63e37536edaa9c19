// Package asrerrors defines the sentinel error kinds surfaced by the
// streaming session, matching the package-level sentinel style the rest of
// this module's ancestry uses (ErrWrongSampleRate, ErrNativeUnavailable).
package asrerrors

import "errors"

var (
	// ErrNotInitialized is returned when a session method is called before
	// its model collaborators were loaded.
	ErrNotInitialized = errors.New("asrcore: session not initialized")

	// ErrInvalidAudio is returned for a NaN sample or a chunk whose length
	// does not match the active profile's chunk_samples.
	ErrInvalidAudio = errors.New("asrcore: invalid audio")

	// ErrInferenceFailed wraps any underlying model invocation failure.
	// Cache tensors are left unchanged when this is returned.
	ErrInferenceFailed = errors.New("asrcore: inference failed")

	// ErrTokenizerFailed is returned when finish() cannot decode the
	// accumulated ids to text.
	ErrTokenizerFailed = errors.New("asrcore: tokenizer failed")

	// ErrBusy is returned when a concurrent call is made into a session
	// that is already processing a call.
	ErrBusy = errors.New("asrcore: session busy")
)
