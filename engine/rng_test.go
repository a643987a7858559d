package engine

import (
	"reflect"
	"testing"
)

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Intn(6)
		b := rng2.Intn(6)
		if a != b {
			t.Fatalf("draw %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Intn_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.Intn(6)
		if r < 0 || r >= 6 {
			t.Fatalf("draw out of range [0,6): got %d", r)
		}
	}
}

func TestRNG_Shuffle_IsPermutation(t *testing.T) {
	rng := NewRNG(7)
	xs := []int{0, 1, 2, 3, 4, 5, 6, 7}
	rng.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })

	seen := make([]bool, len(xs))
	for _, x := range xs {
		if seen[x] {
			t.Fatalf("duplicate %d after shuffle: %v", x, xs)
		}
		seen[x] = true
	}
	if rng.Position() != int64(len(xs)-1) {
		t.Errorf("position = %d, want %d", rng.Position(), len(xs)-1)
	}
}

func TestRNG_Shuffle_SameSeedSameOrder(t *testing.T) {
	shuffle := func(seed int64) []int {
		xs := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		NewRNG(seed).Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
		return xs
	}
	if a, b := shuffle(3), shuffle(3); !reflect.DeepEqual(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	rng := NewRNG(42)
	for i := 0; i < 10; i++ {
		rng.Intn(6)
	}

	var expected [5]int
	for i := range expected {
		expected[i] = rng.Intn(6)
	}

	restored := RestoreRNG(42, 10)
	if restored.Position() != 10 {
		t.Fatalf("expected position 10, got %d", restored.Position())
	}
	if restored.Seed() != 42 {
		t.Fatalf("expected seed 42, got %d", restored.Seed())
	}
	for i, want := range expected {
		if got := restored.Intn(6); got != want {
			t.Fatalf("draw %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := NewRNG(1)
	rng2 := NewRNG(2)

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Intn(100) != rng2.Intn(100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}
