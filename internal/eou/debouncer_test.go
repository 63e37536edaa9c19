package eou

import "testing"

func TestUpdateNoEOUClearsRun(t *testing.T) {
	d := New(1280)
	if fired := d.Update(1280, nil, false); fired {
		t.Fatal("should not fire without eou_predicted")
	}
	if d.firstDetectedAt != nil {
		t.Fatal("firstDetectedAt should stay nil when eou_predicted is false")
	}
}

func TestUpdateTokensInvalidateSilentRun(t *testing.T) {
	d := New(1280)
	d.Update(1280, nil, true)
	if d.firstDetectedAt == nil {
		t.Fatal("expected silent run to start")
	}
	d.Update(1280, []int64{5}, true)
	if d.firstDetectedAt != nil {
		t.Fatal("non-empty ids must clear the silent run even when eou_predicted is true")
	}
}

func TestUpdateConfirmsAfterDebounceThreshold(t *testing.T) {
	d := New(1280)
	// 1280ms at 16kHz = 20480 samples. Drive it in 1280-sample steps.
	fired := false
	for i := 0; i < 20 && !fired; i++ {
		fired = d.Update(1280, nil, true)
	}
	if !fired {
		t.Fatal("expected debouncer to confirm within 20 steps of 1280 samples each (25600 samples >> 20480 needed)")
	}
	if !d.Confirmed() {
		t.Fatal("Confirmed() should report true after firing")
	}
}

func TestUpdateDoesNotRefireAfterConfirm(t *testing.T) {
	d := New(1280)
	for i := 0; i < 20; i++ {
		d.Update(1280, nil, true)
	}
	if !d.Confirmed() {
		t.Fatal("precondition: should be confirmed")
	}
	if fired := d.Update(1280, nil, true); fired {
		t.Fatal("must not fire a second time in the same session")
	}
}

func TestResetRearms(t *testing.T) {
	d := New(1280)
	for i := 0; i < 20; i++ {
		d.Update(1280, nil, true)
	}
	d.Reset()
	if d.Confirmed() {
		t.Fatal("Reset should clear confirmed")
	}
	fired := false
	for i := 0; i < 20 && !fired; i++ {
		fired = d.Update(1280, nil, true)
	}
	if !fired {
		t.Fatal("debouncer should be able to confirm again after Reset")
	}
}

func TestHigherDebounceDoesNotConfirmWithinSameWindow(t *testing.T) {
	d := New(2000)
	// Start the silent run, then let 1500ms worth of samples (24000) elapse:
	// below the 2000ms/32000-sample threshold.
	d.Update(1280, nil, true)
	fired := d.Update(24000, nil, true)
	if fired {
		t.Fatal("should not confirm before reaching the debounce threshold")
	}
}
