package audiobuf

import "fmt"

// Profile is an immutable chunk-size preset selected at session construction.
// Values are calibration constants tied to the trained encoder; the long
// profile's chunk_samples (50928) is not (mel_frames-1)*hop like the other
// two, and Validate skips that check for it.
type Profile struct {
	Name            string
	ChunkSamples    int
	MelFrames       int
	ValidOutLen     int
	PreCacheFrames  int
	ShiftSamples    int
	LatencyMillis   int
}

const (
	SampleRate = 16000
	HopLength  = 160
)

var (
	ProfileShort = Profile{
		Name:           "short",
		ChunkSamples:   2560,
		MelFrames:      17,
		ValidOutLen:    2,
		PreCacheFrames: 16,
		ShiftSamples:   1280,
		LatencyMillis:  160,
	}
	ProfileMedium = Profile{
		Name:           "medium",
		ChunkSamples:   10080,
		MelFrames:      64,
		ValidOutLen:    4,
		PreCacheFrames: 9,
		ShiftSamples:   5120,
		LatencyMillis:  320,
	}
	ProfileLong = Profile{
		Name:           "long",
		ChunkSamples:   50928,
		MelFrames:      320,
		ValidOutLen:    20,
		PreCacheFrames: 9,
		ShiftSamples:   25600,
		LatencyMillis:  1600,
	}
)

// ByName resolves one of "short", "medium", "long" (default "short" for "").
func ByName(name string) (Profile, error) {
	switch name {
	case "", "short":
		return ProfileShort, nil
	case "medium":
		return ProfileMedium, nil
	case "long":
		return ProfileLong, nil
	default:
		return Profile{}, fmt.Errorf("audiobuf: unknown chunk profile %q", name)
	}
}

// Validate checks the invariants from the data model: chunk_samples equals
// (mel_frames-1)*hop for short/medium (long is a calibration constant), and
// shift_samples never exceeds chunk_samples.
func (p Profile) Validate() error {
	if p.ShiftSamples <= 0 || p.ShiftSamples > p.ChunkSamples {
		return fmt.Errorf("audiobuf: profile %q: shift_samples %d must be in (0, chunk_samples=%d]", p.Name, p.ShiftSamples, p.ChunkSamples)
	}
	if p.Name != "long" {
		want := (p.MelFrames - 1) * HopLength
		if p.ChunkSamples != want {
			return fmt.Errorf("audiobuf: profile %q: chunk_samples=%d but (mel_frames-1)*hop=%d", p.Name, p.ChunkSamples, want)
		}
	}
	if p.ValidOutLen <= 0 {
		return fmt.Errorf("audiobuf: profile %q: valid_out_len must be positive", p.Name)
	}
	return nil
}
