// Package eou implements the sample-accurate end-of-utterance debounce
// state machine. It is reworked from the teacher's frame-hysteresis
// boundaryDetector (internal/server/server.go), which confirms speech
// START/END after minSpeechFrames/minSilenceFrames consecutive frames;
// here the unit of debounce is elapsed samples rather than frame counts,
// and confirmation latches permanently instead of toggling START/END.
package eou

import "github.com/strmasr/asrcore/internal/audiobuf"

// Debouncer tracks the sample-accurate silent run following an EOU
// prediction and latches a single confirmation per session.
type Debouncer struct {
	debounceMillis int

	totalSamplesProcessed int64
	firstDetectedAt       *int64
	confirmed             bool
}

// New builds a Debouncer with the given debounce threshold in milliseconds.
func New(debounceMillis int) *Debouncer {
	return &Debouncer{debounceMillis: debounceMillis}
}

// Reset clears all state, re-arming the debouncer for a fresh session.
func (d *Debouncer) Reset() {
	d.totalSamplesProcessed = 0
	d.firstDetectedAt = nil
	d.confirmed = false
}

// Confirmed reports whether the EOU callback has already latched.
func (d *Debouncer) Confirmed() bool {
	return d.confirmed
}

// Update advances the debouncer by shiftSamples and applies one chunk's
// decoder result, per §4.5. It returns true exactly once — the moment
// confirmation latches — so the caller knows to invoke the EOU callback.
func (d *Debouncer) Update(shiftSamples int64, ids []int64, eouPredicted bool) bool {
	d.totalSamplesProcessed += shiftSamples

	if !eouPredicted {
		d.firstDetectedAt = nil
		return false
	}

	if len(ids) > 0 {
		d.firstDetectedAt = nil
		return false
	}

	if d.firstDetectedAt == nil {
		at := d.totalSamplesProcessed
		d.firstDetectedAt = &at
	}

	elapsedMillis := (d.totalSamplesProcessed - *d.firstDetectedAt) * 1000 / int64(audiobuf.SampleRate)
	if elapsedMillis >= int64(d.debounceMillis) && !d.confirmed {
		d.confirmed = true
		return true
	}
	return false
}
