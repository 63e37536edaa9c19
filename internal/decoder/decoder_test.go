package decoder

import (
	"context"
	"errors"
	"testing"

	"github.com/strmasr/asrcore/internal/tensor"
)

// fakeModel advances a counter every call so tests can assert exactly how
// many decoder steps ran; it never actually uses h/c numerically.
type fakeModel struct {
	calls int
}

func (m *fakeModel) Run(ctx context.Context, lastTokenID int64, h, c tensor.Tensor) (tensor.Tensor, tensor.Tensor, tensor.Tensor, error) {
	m.calls++
	return tensor.New(tensor.Shape{1, 1, 4}), h.Clone(), c.Clone(), nil
}

// scriptedJoint returns one logits vector per call, in order, then repeats
// the last one. Lets tests drive exact blank/token/EOU sequences.
type scriptedJoint struct {
	script [][]float32
	calls  int
}

func (j *scriptedJoint) Run(ctx context.Context, encoderFrame, decoderOut tensor.Tensor) ([]float32, error) {
	idx := j.calls
	if idx >= len(j.script) {
		idx = len(j.script) - 1
	}
	j.calls++
	return j.script[idx], nil
}

// failingJoint errors on its failOnCall'th invocation (1-based), having
// emitted ok logits scripted up to that point.
type failingJoint struct {
	script    [][]float32
	failOnCall int
	calls     int
}

var errJointBoom = errors.New("joint: boom")

func (j *failingJoint) Run(ctx context.Context, encoderFrame, decoderOut tensor.Tensor) ([]float32, error) {
	j.calls++
	if j.calls == j.failOnCall {
		return nil, errJointBoom
	}
	idx := j.calls - 1
	if idx >= len(j.script) {
		idx = len(j.script) - 1
	}
	return j.script[idx], nil
}

func testVocab() Vocab {
	return Vocab{Size: 3, BlankID: 3, EOUID: 4, StartID: 3}
}

func oneHot(size int, idx int) []float32 {
	v := make([]float32, size)
	v[idx] = 10
	return v
}

func encodedOutput(numFeatures, framesOut int) tensor.Tensor {
	return tensor.New(tensor.Shape{1, int64(numFeatures), int64(framesOut)})
}

func TestStepImmediateBlankAdvancesFrame(t *testing.T) {
	vocab := testVocab()
	model := &fakeModel{}
	joint := &scriptedJoint{script: [][]float32{oneHot(5, 3), oneHot(5, 3)}}
	d := New(model, joint, vocab, tensor.Shape{1, 1, 4})

	ids, eou, err := d.Step(context.Background(), encodedOutput(8, 2), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 || eou {
		t.Fatalf("ids=%v eou=%v, want empty/false", ids, eou)
	}
	if model.calls != 2 {
		t.Fatalf("model.calls = %d, want 2 (one per frame, immediate blank)", model.calls)
	}
}

func TestStepEmitsTokenThenBlank(t *testing.T) {
	vocab := testVocab()
	model := &fakeModel{}
	joint := &scriptedJoint{script: [][]float32{oneHot(5, 0), oneHot(5, 3)}}
	d := New(model, joint, vocab, tensor.Shape{1, 1, 4})

	ids, eou, err := d.Step(context.Background(), encodedOutput(8, 1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != 0 {
		t.Fatalf("ids = %v, want [0]", ids)
	}
	if eou {
		t.Fatal("eou should be false")
	}
	if d.state.LastTokenID != 0 {
		t.Fatalf("state.LastTokenID = %d, want 0 (committed on token emission)", d.state.LastTokenID)
	}
}

func TestStepEOUDoesNotUpdateState(t *testing.T) {
	vocab := testVocab()
	model := &fakeModel{}
	joint := &scriptedJoint{script: [][]float32{oneHot(5, 4)}}
	d := New(model, joint, vocab, tensor.Shape{1, 1, 4})
	startToken := d.state.LastTokenID

	ids, eou, err := d.Step(context.Background(), encodedOutput(8, 1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids = %v, want empty on EOU", ids)
	}
	if !eou {
		t.Fatal("expected eou predicted")
	}
	if d.state.LastTokenID != startToken {
		t.Fatalf("LastTokenID changed on EOU branch, want unchanged (%d != %d)", d.state.LastTokenID, startToken)
	}
}

func TestStepRespectsMaxSymbolsPerFrame(t *testing.T) {
	vocab := testVocab()
	model := &fakeModel{}
	// Joint always emits a non-blank, non-EOU token: inner loop must stop
	// at MaxSymbolsPerFrame, never looping forever on one frame.
	joint := &scriptedJoint{script: [][]float32{oneHot(5, 1)}}
	d := New(model, joint, vocab, tensor.Shape{1, 1, 4})

	ids, _, err := d.Step(context.Background(), encodedOutput(8, 1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != MaxSymbolsPerFrame {
		t.Fatalf("len(ids) = %d, want %d", len(ids), MaxSymbolsPerFrame)
	}
}

func TestStepValidOutLenBoundsFrames(t *testing.T) {
	vocab := testVocab()
	model := &fakeModel{}
	joint := &scriptedJoint{script: [][]float32{oneHot(5, 3)}}
	d := New(model, joint, vocab, tensor.Shape{1, 1, 4})

	// frames_out = 9 but valid_out_len = 2: only 2 frames should be decoded.
	_, _, err := d.Step(context.Background(), encodedOutput(8, 9), 2)
	if err != nil {
		t.Fatal(err)
	}
	if model.calls != 2 {
		t.Fatalf("model.calls = %d, want 2 (bounded by valid_out_len, not frames_out)", model.calls)
	}
}

func TestStepOnMidCallErrorLeavesStateUnchangedAndDiscardsPartialIDs(t *testing.T) {
	vocab := testVocab()
	model := &fakeModel{}
	// First symbol of frame 0 emits a real token (id 0), second call fails.
	joint := &failingJoint{
		script:    [][]float32{oneHot(5, 0)},
		failOnCall: 2,
	}
	d := New(model, joint, vocab, tensor.Shape{1, 1, 4})
	startToken := d.state.LastTokenID

	ids, eou, err := d.Step(context.Background(), encodedOutput(8, 1), 1)
	if !errors.Is(err, errJointBoom) && err == nil {
		t.Fatal("expected an error")
	}
	if ids != nil {
		t.Fatalf("ids = %v, want nil on mid-call failure — the already-decoded token is discarded together with the uncommitted state", ids)
	}
	if eou {
		t.Fatal("eou = true, want false on error")
	}
	if d.state.LastTokenID != startToken {
		t.Fatalf("state.LastTokenID = %d after failed Step, want unchanged %d", d.state.LastTokenID, startToken)
	}

	// A retry of the same encoded output must behave deterministically: same
	// script position reset means the same token emits again, not a
	// different one (the earlier bug advanced d.state mid-call, so a retry
	// started from a different last_token_id than the original attempt).
	joint2 := &scriptedJoint{script: [][]float32{oneHot(5, 0), oneHot(5, 3)}}
	d2 := New(model, joint2, vocab, tensor.Shape{1, 1, 4})
	d2.state = d.state // resume from the state the failed attempt left behind
	retryIDs, _, err := d2.Step(context.Background(), encodedOutput(8, 1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(retryIDs) != 1 || retryIDs[0] != 0 {
		t.Fatalf("retry ids = %v, want [0] (deterministic replay)", retryIDs)
	}
}

func TestResetRestoresStartState(t *testing.T) {
	vocab := testVocab()
	model := &fakeModel{}
	joint := &scriptedJoint{script: [][]float32{oneHot(5, 0), oneHot(5, 3)}}
	d := New(model, joint, vocab, tensor.Shape{1, 1, 4})

	_, _, err := d.Step(context.Background(), encodedOutput(8, 1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.state.LastTokenID == vocab.StartID {
		t.Fatal("precondition failed: state should have changed")
	}

	d.Reset()
	if d.state.LastTokenID != vocab.StartID {
		t.Fatalf("after Reset, LastTokenID = %d, want StartID %d", d.state.LastTokenID, vocab.StartID)
	}
}
