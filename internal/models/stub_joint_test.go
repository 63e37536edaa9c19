package models

import (
	"context"
	"testing"

	"github.com/strmasr/asrcore/internal/tensor"
)

func argmaxOf(logits []float32) int {
	best := 0
	for i := 1; i < len(logits); i++ {
		if logits[i] > logits[best] {
			best = i
		}
	}
	return best
}

func TestStubJointMostlyBlank(t *testing.T) {
	j := NewStubJoint()
	frame := tensor.New(tensor.Shape{1, 1, 1})
	decOut := tensor.New(tensor.Shape{1, 1, 1})

	for i := 1; i < StubToggleInterval; i++ {
		logits, err := j.Run(context.Background(), frame, decOut)
		if err != nil {
			t.Fatal(err)
		}
		if argmaxOf(logits) != StubVocab {
			t.Fatalf("call %d: argmax = %d, want blank index %d", i, argmaxOf(logits), StubVocab)
		}
	}
}

func TestStubJointTogglesTokenAtInterval(t *testing.T) {
	j := NewStubJoint()
	frame := tensor.New(tensor.Shape{1, 1, 1})
	decOut := tensor.New(tensor.Shape{1, 1, 1})

	var logits []float32
	for i := 0; i < StubToggleInterval; i++ {
		var err error
		logits, err = j.Run(context.Background(), frame, decOut)
		if err != nil {
			t.Fatal(err)
		}
	}
	if argmaxOf(logits) != 0 {
		t.Fatalf("at the toggle call, argmax = %d, want token 0", argmaxOf(logits))
	}
}

func TestStubJointEOUAtMultiple(t *testing.T) {
	j := NewStubJoint()
	frame := tensor.New(tensor.Shape{1, 1, 1})
	decOut := tensor.New(tensor.Shape{1, 1, 1})

	var logits []float32
	totalCalls := StubToggleInterval * StubEOUMultiple
	for i := 0; i < totalCalls; i++ {
		var err error
		logits, err = j.Run(context.Background(), frame, decOut)
		if err != nil {
			t.Fatal(err)
		}
	}
	if argmaxOf(logits) != StubVocab+1 {
		t.Fatalf("at toggle %d, argmax = %d, want EOU index %d", StubEOUMultiple, argmaxOf(logits), StubVocab+1)
	}
}
