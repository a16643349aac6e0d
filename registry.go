package immutability

import (
	"fmt"
	"log/slog"
	"net/netip"
	"reflect"
	"sort"
	"sync"
	"time"
)

// Registry maps types to classifications. It bypasses or seeds the
// structural classifier and is safe for concurrent use.
//
// Locked entries are seeded once at construction for platform-known constant
// types and can never be overridden or removed. Every other entry is
// caller-registered and unlocked.
//
// Each operation is atomic per type; operations on different types are not
// ordered against each other.
type Registry struct {
	entries sync.Map // reflect.Type -> entry
	log     *slog.Logger
	metrics *Metrics
}

type entry struct {
	level  Classification
	locked bool
}

// Entry is one registry association, as returned by All.
type Entry struct {
	Type           reflect.Type
	Classification Classification
}

// Registry write operations, used as the metrics "operation" label.
const (
	opAutoDetect = "auto_detect"
	opOverride   = "override"
	opVerified   = "verified"
	opDeregister = "deregister"
)

// intrinsics are the types seeded as locked PlatformConstant entries.
// math/big types are mutable in place and are deliberately absent.
var intrinsics = []reflect.Type{
	reflect.TypeOf(false),
	reflect.TypeOf(int(0)), reflect.TypeOf(int8(0)), reflect.TypeOf(int16(0)),
	reflect.TypeOf(int32(0)), reflect.TypeOf(int64(0)),
	reflect.TypeOf(uint(0)), reflect.TypeOf(uint8(0)), reflect.TypeOf(uint16(0)),
	reflect.TypeOf(uint32(0)), reflect.TypeOf(uint64(0)), reflect.TypeOf(uintptr(0)),
	reflect.TypeOf(float32(0)), reflect.TypeOf(float64(0)),
	reflect.TypeOf(complex64(0)), reflect.TypeOf(complex128(0)),
	reflect.TypeOf(""),

	reflect.TypeOf((*reflect.Type)(nil)).Elem(),
	reflect.TypeOf(reflect.TypeOf(0)),
	reflect.TypeOf(reflect.Kind(0)),

	reflect.TypeOf(time.Duration(0)),
	reflect.TypeOf(time.Month(0)),
	reflect.TypeOf(time.Weekday(0)),
	reflect.TypeOf(time.Time{}),

	reflect.TypeOf(netip.Addr{}),
	reflect.TypeOf(netip.Prefix{}),
	reflect.TypeOf(netip.AddrPort{}),
}

// NewRegistry returns a registry seeded with the locked intrinsic entries
// plus cfg.Intrinsics.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{log: cfg.Logger, metrics: cfg.Metrics}
	locked := entry{level: PlatformConstant, locked: true}
	for _, t := range intrinsics {
		r.entries.Store(t, locked)
	}
	for _, t := range cfg.Intrinsics {
		mustType("NewRegistry", t)
		r.entries.Store(t, locked)
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, created and seeded on first use.
// It lives for the lifetime of the process.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(DefaultConfig())
	})
	return defaultRegistry
}

// Lookup returns the registered classification for t, locked or not.
func (r *Registry) Lookup(t reflect.Type) (Classification, bool) {
	mustType("Lookup", t)
	e, ok := r.load(t)
	return e.level, ok
}

// All returns a snapshot of every entry, sorted by type name.
func (r *Registry) All() []Entry {
	var out []Entry
	r.entries.Range(func(k, v any) bool {
		out = append(out, Entry{Type: k.(reflect.Type), Classification: v.(entry).level})
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return typeName(out[i].Type) < typeName(out[j].Type)
	})
	return out
}

// Len returns the number of entries, locked and unlocked.
func (r *Registry) Len() int {
	n := 0
	r.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// AutoDetect stores the structurally detected classification of t as an
// unlocked entry. It returns false when t has a locked entry.
func (r *Registry) AutoDetect(t reflect.Type) bool {
	mustType("AutoDetect", t)
	if r.isLocked(t) {
		r.metrics.observeWrite(opAutoDetect, false)
		return false
	}
	return r.write(opAutoDetect, t, r.detect(t))
}

// RegisterOverride stores c for t as an unlocked entry, replacing any prior
// unlocked entry. The registration is trusted, not verified. It returns false
// when t has a locked entry.
//
// Registering Unverified is a cheap way to short-circuit detection for
// heavily used mutable types.
func (r *Registry) RegisterOverride(t reflect.Type, c Classification) bool {
	mustType("RegisterOverride", t)
	mustLevel("RegisterOverride", c)
	return r.write(opOverride, t, c)
}

// RegisterVerified stores c for t only when a fresh structural detection of
// t agrees with c. Components are still resolved through the registry.
func (r *Registry) RegisterVerified(t reflect.Type, c Classification) bool {
	mustType("RegisterVerified", t)
	mustLevel("RegisterVerified", c)
	if r.isLocked(t) || r.detect(t) != c {
		r.metrics.observeWrite(opVerified, false)
		return false
	}
	return r.write(opVerified, t, c)
}

// Deregister removes the unlocked entry for t. It returns false when the
// entry is absent or locked.
func (r *Registry) Deregister(t reflect.Type) bool {
	mustType("Deregister", t)
	for {
		cur, ok := r.entries.Load(t)
		if !ok || cur.(entry).locked {
			r.metrics.observeWrite(opDeregister, false)
			return false
		}
		if r.entries.CompareAndDelete(t, cur) {
			r.metrics.observeWrite(opDeregister, true)
			r.logger().Debug("registry entry removed", "type", typeName(t))
			return true
		}
	}
}

// AutoDetectAll applies AutoDetect to each distinct type and returns the
// types that were not written.
func (r *Registry) AutoDetectAll(ts ...reflect.Type) []reflect.Type {
	var failed []reflect.Type
	for _, t := range distinct(ts) {
		if !r.AutoDetect(t) {
			failed = append(failed, t)
		}
	}
	return failed
}

// RegisterAll applies RegisterVerified (verify true) or RegisterOverride
// (verify false) to each entry and returns the types that were not written.
func (r *Registry) RegisterAll(levels map[reflect.Type]Classification, verify bool) []reflect.Type {
	var failed []reflect.Type
	for t, c := range levels {
		var ok bool
		if verify {
			ok = r.RegisterVerified(t, c)
		} else {
			ok = r.RegisterOverride(t, c)
		}
		if !ok {
			failed = append(failed, t)
		}
	}
	return failed
}

// DeregisterAll applies Deregister to each distinct type and returns the
// types that were absent or locked.
func (r *Registry) DeregisterAll(ts ...reflect.Type) []reflect.Type {
	var failed []reflect.Type
	for _, t := range distinct(ts) {
		if !r.Deregister(t) {
			failed = append(failed, t)
		}
	}
	return failed
}

// LookupOf is Lookup for a static type.
func LookupOf[T any](r *Registry) (Classification, bool) {
	return r.Lookup(reflect.TypeOf((*T)(nil)).Elem())
}

// RegisterOverrideOf is RegisterOverride for a static type.
func RegisterOverrideOf[T any](r *Registry, c Classification) bool {
	return r.RegisterOverride(reflect.TypeOf((*T)(nil)).Elem(), c)
}

// write stores an unlocked entry unless a locked one exists. The
// compare-and-swap loop keeps the locked check and the store indivisible
// for t.
func (r *Registry) write(op string, t reflect.Type, c Classification) bool {
	next := entry{level: c}
	for {
		cur, loaded := r.entries.Load(t)
		if !loaded {
			if _, loaded = r.entries.LoadOrStore(t, next); !loaded {
				break
			}
			continue
		}
		if cur.(entry).locked {
			r.metrics.observeWrite(op, false)
			r.logger().Debug("registry write refused for locked type",
				"type", typeName(t), "operation", op)
			return false
		}
		if r.entries.CompareAndSwap(t, cur, next) {
			break
		}
	}
	r.metrics.observeWrite(op, true)
	r.logger().Debug("registry entry stored",
		"type", typeName(t), "classification", c, "operation", op)
	return true
}

func (r *Registry) load(t reflect.Type) (entry, bool) {
	v, ok := r.entries.Load(t)
	if !ok {
		return entry{}, false
	}
	return v.(entry), true
}

func (r *Registry) isLocked(t reflect.Type) bool {
	e, ok := r.load(t)
	return ok && e.locked
}

func (r *Registry) logger() *slog.Logger {
	if r.log != nil {
		return r.log
	}
	return slog.Default()
}

func distinct(ts []reflect.Type) []reflect.Type {
	seen := make(map[reflect.Type]struct{}, len(ts))
	out := make([]reflect.Type, 0, len(ts))
	for _, t := range ts {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func typeName(t reflect.Type) string {
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

func mustType(op string, t reflect.Type) {
	if t == nil {
		panic(fmt.Sprintf("immutability: %s called with nil type", op))
	}
}

func mustLevel(op string, c Classification) {
	if !c.Valid() {
		panic(fmt.Sprintf("immutability: %s called with invalid %s", op, c))
	}
}
