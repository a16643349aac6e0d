// Package static classifies Go types from source, without running the code.
//
// It applies the same resolution order as the runtime classifier in package
// immutability, but over go/types: capabilities are matched by method set
// against structurally built interfaces, so scanned packages need not import
// immutability at all.
package static

import (
	"go/token"
	"go/types"
	"log/slog"

	"github.com/alexshd/immutability"
)

// Classifier resolves static classifications. Overrides are keyed by
// types.TypeString with full package paths, e.g. "example.com/pkg.Order"
// or "*example.com/pkg.Draft".
//
// A Classifier is not safe for concurrent writes; build it, then scan.
type Classifier struct {
	overrides map[string]override
	log       *slog.Logger

	intrinsic *types.Interface
	invariant *types.Interface
	latch     *types.Interface
}

type override struct {
	level  immutability.Classification
	locked bool
}

// lockedNames mirrors the runtime registry's intrinsic seeds.
var lockedNames = []string{
	"bool", "string",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64", "complex64", "complex128",
	"reflect.Type", "reflect.Kind",
	"time.Duration", "time.Month", "time.Weekday", "time.Time",
	"net/netip.Addr", "net/netip.Prefix", "net/netip.AddrPort",
}

// NewClassifier returns a classifier seeded with the locked intrinsic names.
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Classifier{
		overrides: make(map[string]override, len(lockedNames)),
		log:       logger,
		intrinsic: methodInterface("PlatformConstant", nil),
		invariant: methodInterface("ConstructionInvariant", nil),
		latch: methodInterface("IsClosed", types.NewTuple(
			types.NewVar(token.NoPos, nil, "", types.Typ[types.Bool]))),
	}
	for _, name := range lockedNames {
		c.overrides[name] = override{level: immutability.PlatformConstant, locked: true}
	}
	return c
}

// Override sets the level for a qualified type name. It returns false for
// locked names.
func (c *Classifier) Override(name string, level immutability.Classification) bool {
	if cur, ok := c.overrides[name]; ok && cur.locked {
		c.log.Warn("override refused for locked type", "type", name)
		return false
	}
	c.overrides[name] = override{level: level}
	c.log.Debug("override stored", "type", name, "classification", level)
	return true
}

// Classify resolves t the way immutability.Registry.Classify resolves a
// reflect.Type.
func (c *Classifier) Classify(t types.Type) immutability.Classification {
	t = types.Unalias(t)
	if isSequence(t) {
		return immutability.Unverified
	}
	if o, ok := c.overrides[types.TypeString(t, nil)]; ok {
		return o.level
	}

	u := t.Underlying()
	switch {
	case types.Implements(t, c.intrinsic) || isConstantBasic(u):
		return immutability.PlatformConstant
	case IsProduct(t):
		return c.aggregate(u.(*types.Struct))
	case types.Implements(t, c.invariant):
		return immutability.ConstructionInvariant
	case types.Implements(t, c.latch):
		return immutability.LatchGuarded
	}
	return immutability.Unverified
}

func (c *Classifier) aggregate(s *types.Struct) immutability.Classification {
	resolved := immutability.PlatformConstant
	for i := 0; i < s.NumFields() && resolved != immutability.Unverified; i++ {
		ft := types.Unalias(s.Field(i).Type())
		if isPrimitive(ft) {
			continue
		}
		resolved = immutability.Weaker(resolved, c.Classify(ft))
	}
	return resolved
}

// IsProduct reports whether t is a struct whose fields are all exported.
func IsProduct(t types.Type) bool {
	s, ok := t.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := 0; i < s.NumFields(); i++ {
		if !s.Field(i).Exported() {
			return false
		}
	}
	return true
}

func isSequence(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Slice, *types.Array:
		return true
	}
	return false
}

// isPrimitive matches predeclared boolean and numeric types only; named
// scalars go through Classify so their overrides apply.
func isPrimitive(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Info()&(types.IsBoolean|types.IsNumeric) != 0
}

func isConstantBasic(u types.Type) bool {
	b, ok := u.(*types.Basic)
	return ok && b.Info()&(types.IsBoolean|types.IsNumeric|types.IsString) != 0
}

func methodInterface(name string, results *types.Tuple) *types.Interface {
	sig := types.NewSignatureType(nil, nil, nil, nil, results, false)
	fn := types.NewFunc(token.NoPos, nil, name, sig)
	iface := types.NewInterfaceType([]*types.Func{fn}, nil)
	iface.Complete()
	return iface
}
