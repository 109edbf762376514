package memstore

import (
	"context"
	"testing"
)

func TestSeedAndRoundTrip(t *testing.T) {
	s := New("alpha", "beta")
	ctx := context.Background()

	labels, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(labels) != 2 {
		t.Fatalf("labels = %v", labels)
	}

	if err := s.Save(ctx, []string{"gamma"}); err != nil {
		t.Fatal(err)
	}
	labels, _ = s.Load(ctx)
	if len(labels) != 1 || labels[0] != "gamma" {
		t.Errorf("labels = %v, want [gamma]", labels)
	}

	// Load returns a copy; mutating it must not leak back.
	labels[0] = "mutated"
	again, _ := s.Load(ctx)
	if again[0] != "gamma" {
		t.Error("Load leaked internal state")
	}
}
