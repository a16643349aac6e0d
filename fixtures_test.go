package immutability

import (
	"reflect"
	"sync/atomic"
)

// Ledger is opaque and latch-guarded: appendable until Close.
type Ledger struct {
	closed  atomic.Bool
	entries []string
}

func (l *Ledger) IsClosed() bool { return l.closed.Load() }
func (l *Ledger) Close()         { l.closed.Store(true) }

func (l *Ledger) Append(s string) {
	if l.closed.Load() {
		panic("ledger closed")
	}
	l.entries = append(l.entries, s)
}

// Money declares the construction invariant by embedding the marker.
type Money struct {
	InvariantMarker
	cents    int64
	currency string
}

// Sealed declares the platform-constant capability.
type Sealed struct {
	kind int
}

func (Sealed) PlatformConstant() {}

// Status follows the named-constant enum idiom.
type Status int

const (
	StatusDraft Status = iota
	StatusFinal
)

// Flags holds only scalars.
type Flags struct {
	Visible bool
	Count   int
}

// Tagged holds a slice next to constant fields.
type Tagged struct {
	Name  string
	Tags  []string
	Count int
}

// Envelope wraps a latch-guarded ledger.
type Envelope struct {
	ID  int
	Doc *Ledger
}

// Outer nests a latch-guarded component two levels down.
type Outer struct {
	Label string
	Inner Envelope
}

// Priced mixes an invariant with scalars.
type Priced struct {
	Amount Money
	Qty    int
}

// Mixed combines an invariant component with a latch-guarded one.
type Mixed struct {
	Amount Money
	Env    Envelope
}

// Handle holds a latch through an interface-typed field.
type Handle struct {
	L Latch
}

// Pair holds two latches, read in declaration order.
type Pair struct {
	First  *Ledger
	Second *countingLatch
}

type countingLatch struct {
	reads  atomic.Int32
	closed atomic.Bool
}

func (c *countingLatch) IsClosed() bool {
	c.reads.Add(1)
	return c.closed.Load()
}

type brokenLatch struct {
	reason string
}

func (b brokenLatch) IsClosed() bool { panic(b.reason) }

type opaqueCache struct {
	items map[string]int
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
