package immutability

import "reflect"

// Intrinsic is implemented by types whose immutability is guaranteed at the
// platform level, typically closed sets of constant values.
type Intrinsic interface {
	PlatformConstant()
}

// Invariant marks a type whose observable state is fixed by the end of every
// constructor path, and whose exposed references lead only to other
// Invariant or platform-constant values. The engine cannot detect a breach of
// this contract; it is the implementer's promise.
type Invariant interface {
	ConstructionInvariant()
}

// InvariantMarker declares the Invariant contract by embedding:
//
//	type Money struct {
//	    immutability.InvariantMarker
//	    amount int64
//	    currency string
//	}
//
// A struct whose fields are all exported is a product type and is classified
// by its components instead, so the marker only matters on opaque types.
type InvariantMarker struct{}

// ConstructionInvariant implements Invariant.
func (InvariantMarker) ConstructionInvariant() {}

// Latch is implemented by types that stay mutable after construction until a
// one-way latch closes. IsClosed must return false until some point after
// construction and true permanently thereafter.
//
// The closing side must publish the transition with release semantics (for
// example sync/atomic.Bool.Store) so that a reader observing true also
// observes every write made before the close.
type Latch interface {
	IsClosed() bool
}

var (
	intrinsicType = reflect.TypeOf((*Intrinsic)(nil)).Elem()
	invariantType = reflect.TypeOf((*Invariant)(nil)).Elem()
	latchType     = reflect.TypeOf((*Latch)(nil)).Elem()
)
