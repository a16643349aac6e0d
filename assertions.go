package immutability

import (
	"reflect"
	"testing"
)

// AssertClassified fails the test unless typ classifies as want in r.
//
// Use it to pin the classification of domain types so that adding a mutable
// field to a previously immutable struct breaks the build:
//
//	func TestOrderIsImmutable(t *testing.T) {
//	    immutability.AssertClassified(t, immutability.Default(),
//	        reflect.TypeOf(Order{}), immutability.ConstructionInvariant)
//	}
func AssertClassified(t testing.TB, r *Registry, typ reflect.Type, want Classification) {
	t.Helper()

	got := r.Classify(typ)
	if got != want {
		t.Errorf("Classify(%s) = %s, want %s", typ, got, want)
		return
	}
	t.Logf("✓ %s classified %s", typ, got)
}

// AssertVerified fails the test unless v verifies as want in r.
func AssertVerified(t testing.TB, r *Registry, v any, want Classification) {
	t.Helper()

	got := r.Verify(v)
	if got != want {
		t.Errorf("Verify(%T) = %s, want %s", v, got, want)
		return
	}
	t.Logf("✓ %T verified %s", v, got)
}

// AssertLatchGuardedUntilClosed checks the full latch lifecycle of v: it must
// classify LatchGuarded, verify Unverified while open, and verify
// LatchGuarded after closeLatch returns.
func AssertLatchGuardedUntilClosed(t testing.TB, r *Registry, v any, closeLatch func()) {
	t.Helper()

	if got := r.Classify(reflect.TypeOf(v)); got != LatchGuarded {
		t.Fatalf("Classify(%T) = %s, want %s", v, got, LatchGuarded)
	}
	if got := r.Verify(v); got != Unverified {
		t.Errorf("Verify(%T) with open latch = %s, want %s", v, got, Unverified)
	}

	closeLatch()

	if got := r.Verify(v); got != LatchGuarded {
		t.Errorf("Verify(%T) with closed latch = %s, want %s", v, got, LatchGuarded)
		return
	}
	t.Logf("✓ %T latch-guarded: unverified while open, trusted once closed", v)
}
