package utils

import "testing"

func TestNewRandDeterministic(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 100; i++ {
		va, vb := a.Float64(), b.Float64()
		if va != vb {
			t.Fatalf("step %d: same seed produced %v and %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("step %d: value %v outside [0,1)", i, va)
		}
	}
}

func TestSequenceRand(t *testing.T) {
	s := NewSequenceRand(0.1, 0.5, 0.9)
	want := []float64{0.1, 0.5, 0.9, 0.1, 0.5}
	for i, w := range want {
		if got := s.Float64(); got != w {
			t.Errorf("call %d: got %v, want %v", i, got, w)
		}
	}

	empty := NewSequenceRand()
	if got := empty.Float64(); got != 0 {
		t.Errorf("empty sequence: got %v, want 0", got)
	}
}

func TestRandomInRange(t *testing.T) {
	tests := []struct {
		name     string
		r        float64
		min, max float64
		want     float64
	}{
		{"lower bound", 0, 1.0, 2.5, 1.0},
		{"midpoint", 0.5, 1.0, 3.0, 2.0},
		{"negative range", 0.25, -4, 4, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RandomInRange(NewSequenceRand(tt.r), tt.min, tt.max)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChance(t *testing.T) {
	rng := NewSequenceRand(0.3, 0.7)
	if !Chance(rng, 0.6) {
		t.Error("0.3 < 0.6 should pass")
	}
	if Chance(rng, 0.6) {
		t.Error("0.7 >= 0.6 should fail")
	}
}

func TestFork(t *testing.T) {
	parent := NewRand(42)
	child := Fork(parent)
	next := parent.Float64()

	ref := NewRand(42)
	ref.Float64()
	if want := ref.Float64(); next != want {
		t.Errorf("fork consumed more than one parent value: got %v, want %v", next, want)
	}

	for i := 0; i < 10; i++ {
		child.Float64()
	}
	if got, want := parent.Float64(), ref.Float64(); got != want {
		t.Errorf("drawing from the child advanced the parent: got %v, want %v", got, want)
	}

	a, b := Fork(NewRand(7)), Fork(NewRand(7))
	for i := 0; i < 20; i++ {
		if va, vb := a.Float64(), b.Float64(); va != vb {
			t.Fatalf("step %d: forks of equal seeds diverged: %v vs %v", i, va, vb)
		}
	}
}
