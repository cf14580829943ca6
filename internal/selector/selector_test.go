package selector

import (
	"testing"
	"time"
)

func TestResolveFirstHitWins(t *testing.T) {
	cands := List("a", "b", "c", "d")
	probes := 0
	res, ok := Resolve(cands, func(c Candidate) (int, bool) {
		probes++
		if c.Selector == "c" {
			return 42, true
		}
		return 0, false
	})
	if !ok {
		t.Fatal("Resolve returned not found")
	}
	if res.Handle != 42 {
		t.Errorf("Handle = %d, want 42", res.Handle)
	}
	if res.Selector != "c" {
		t.Errorf("Selector = %q, want %q", res.Selector, "c")
	}
	// Exactly N+1 probes for N misses before the hit, and none after.
	if res.Attempts != 3 || probes != 3 {
		t.Errorf("attempts = %d (probes %d), want 3", res.Attempts, probes)
	}
}

func TestResolveExhausted(t *testing.T) {
	cands := List("a", "b")
	res, ok := Resolve(cands, func(Candidate) (int, bool) { return 0, false })
	if ok {
		t.Fatal("Resolve reported success for all-miss candidates")
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
}

func TestResolveEmptyList(t *testing.T) {
	_, ok := Resolve(nil, func(Candidate) (int, bool) {
		t.Fatal("probe called for empty candidate list")
		return 0, false
	})
	if ok {
		t.Fatal("Resolve reported success for empty candidate list")
	}
}

func TestResolveAppliesDefaultTimeout(t *testing.T) {
	cands := []Candidate{
		{Selector: "a"},
		{Selector: "b", Timeout: 5 * time.Second},
	}
	var seen []time.Duration
	Resolve(cands, func(c Candidate) (int, bool) {
		seen = append(seen, c.Timeout)
		return 0, false
	})
	if len(seen) != 2 {
		t.Fatalf("probes = %d, want 2", len(seen))
	}
	if seen[0] != DefaultTimeout {
		t.Errorf("default timeout = %v, want %v", seen[0], DefaultTimeout)
	}
	if seen[1] != 5*time.Second {
		t.Errorf("explicit timeout = %v, want 5s", seen[1])
	}
}

func TestList(t *testing.T) {
	cands := List("x", "y")
	if len(cands) != 2 || cands[0].Selector != "x" || cands[1].Selector != "y" {
		t.Errorf("List built %+v", cands)
	}
}
