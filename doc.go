// Package immutability classifies Go types and values by how far the claim
// "this value is deeply immutable" can be trusted.
//
// # Overview
//
// The package does not prove immutability by walking private fields. It
// aggregates trust signals that types declare up front, and gates mutation of
// composite structures cheaply: "may this value go into a deeply-immutable
// collection?"
//
// # Trust levels
//
// Four ordered levels, weakest first:
//
//   - Unverified            - no signal found; treat as mutable
//   - LatchGuarded          - trusted once the instance's one-way latch closes
//   - ConstructionInvariant - state fixed by the end of every constructor
//   - PlatformConstant      - guaranteed by the language and runtime
//
// # Architecture
//
// The package components:
//
//   - classification.go - the ordered lattice
//   - capability.go     - Intrinsic, Invariant, and Latch contracts
//   - registry.go       - type overrides with locked intrinsic entries
//   - classifier.go     - registry-then-rules type classification
//   - verifier.go       - instance check of LatchGuarded latches
//   - config.go         - Config, logger and metrics wiring
//   - metrics.go        - prometheus counters
//   - assertions.go     - test helpers for downstream suites
//
// The immutability command (cmd/immutability) applies the same rules to
// source code through go/types, without running it.
//
// # Quick Start
//
// Declare trust on your own types:
//
//	type Money struct {
//	    immutability.InvariantMarker
//	    cents int64
//	}
//
//	type Draft struct {
//	    closed atomic.Bool
//	    body   string
//	}
//
//	func (d *Draft) IsClosed() bool { return d.closed.Load() }
//	func (d *Draft) Publish()       { d.closed.Store(true) }
//
// Then ask:
//
//	immutability.Classify(reflect.TypeOf(Money{}))  // ConstructionInvariant
//	immutability.Classify(reflect.TypeOf(&Draft{})) // LatchGuarded
//
//	d := &Draft{body: "hello"}
//	immutability.Verify(d) // Unverified: latch still open
//	d.Publish()
//	immutability.Verify(d) // LatchGuarded
//
// # Product types
//
// A struct whose fields are all exported is a product type. It classifies as
// the weakest of its components; predeclared scalar fields always count as
// PlatformConstant, and the scan stops at the first Unverified field.
// Structs with unexported fields are opaque and are classified only through
// their capabilities. Arrays and slices are always Unverified, whatever their
// element type. Pointers end the structural recursion, so product
// classification always terminates.
//
// # The Registry
//
// Types you cannot modify are declared through the registry:
//
//	reg := immutability.Default()
//	reg.RegisterOverride(reflect.TypeOf(vendor.Config{}), immutability.ConstructionInvariant)
//	reg.RegisterVerified(reflect.TypeOf(Point{}), immutability.PlatformConstant)
//
// Predeclared scalars, string, time.Time, time.Duration, netip.Addr and a few
// other standard library value types are seeded as locked PlatformConstant
// entries. Locked entries can be neither overridden nor removed.
//
// # Failure policy
//
// Classification is fail-closed: missing, ambiguous, or unreadable evidence
// yields Unverified, never an error. Registry writes report success as a
// bool. Passing a nil type or nil value is a programming error and panics.
//
// # Concurrency
//
// Registry operations are safe from any goroutine and atomic per type. A
// Latch implementation must publish its close with release semantics (for
// example atomic.Bool); Verify reads it through IsClosed, so once Verify
// observes the latch closed every write made before the close is visible.
package immutability
