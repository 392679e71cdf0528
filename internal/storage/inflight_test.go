package storage

import (
	"context"
	"testing"
)

func TestInflightRegistry(t *testing.T) {
	r := NewInflightRegistry()

	ctx1, cancel1 := context.WithCancel(context.Background())
	defer cancel1()
	token1 := r.Replace(5, cancel1)

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	token2 := r.Replace(5, cancel2)

	if ctx1.Err() == nil {
		t.Error("Replace did not cancel the previous resolution")
	}
	if token1 == token2 {
		t.Error("tokens must differ")
	}

	// A stale release must not drop the newer registration.
	r.Release(5, token1)
	r.Cancel(5)
	if ctx2.Err() == nil {
		t.Error("Cancel did not reach the current resolution")
	}

	ctx3, cancel3 := context.WithCancel(context.Background())
	defer cancel3()
	token3 := r.Replace(5, cancel3)
	r.Release(5, token3)
	r.Cancel(5)
	if ctx3.Err() != nil {
		t.Error("released resolution was cancelled")
	}
}
