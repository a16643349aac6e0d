package immutability

import "reflect"

// Classify resolves the classification of t. It never fails: when no trust
// signal is found the result is Unverified.
//
// Resolution order:
//  1. Array and slice types are Unverified, before anything else.
//  2. A registry entry for t is returned unmodified.
//  3. The first rule that applies: DetectPlatformConstant, DetectProduct,
//     DetectInvariant, DetectLatch.
//  4. Otherwise Unverified.
//
// Classify panics if t is nil.
func (r *Registry) Classify(t reflect.Type) Classification {
	mustType("Classify", t)
	c := r.classify(t)
	r.metrics.observeClassify(c)
	return c
}

// IsClassified reports whether t classifies above Unverified.
func (r *Registry) IsClassified(t reflect.Type) bool {
	return r.Classify(t).IsClassified()
}

// IsUnclassified reports whether t classifies as Unverified.
func (r *Registry) IsUnclassified(t reflect.Type) bool {
	return !r.Classify(t).IsClassified()
}

// ClassifyOf is Classify for a static type.
func ClassifyOf[T any](r *Registry) Classification {
	return r.Classify(reflect.TypeOf((*T)(nil)).Elem())
}

// Classify classifies t against the Default registry.
func Classify(t reflect.Type) Classification {
	return Default().Classify(t)
}

func (r *Registry) classify(t reflect.Type) Classification {
	if isSequence(t) {
		return Unverified
	}
	if e, ok := r.load(t); ok {
		return e.level
	}
	return r.detect(t)
}

// detect applies the ordered rules to t without consulting t's own registry
// entry. Component types are still resolved through the registry.
func (r *Registry) detect(t reflect.Type) Classification {
	if isSequence(t) {
		return Unverified
	}
	if c, ok := DetectPlatformConstant(t); ok {
		return c
	}
	if c, ok := r.DetectProduct(t); ok {
		return c
	}
	if c, ok := DetectInvariant(t); ok {
		return c
	}
	if c, ok := DetectLatch(t); ok {
		return c
	}
	return Unverified
}

// DetectPlatformConstant reports PlatformConstant for types implementing
// Intrinsic and for scalar and string kinds, which covers Go's named-constant
// enum idiom.
func DetectPlatformConstant(t reflect.Type) (Classification, bool) {
	if t.Implements(intrinsicType) || isScalar(t.Kind()) || t.Kind() == reflect.String {
		return PlatformConstant, true
	}
	return Unverified, false
}

// DetectProduct aggregates the components of a product type: the weakest
// classification of its non-primitive fields, PlatformConstant when there are
// none. Scanning stops at the first Unverified field.
func (r *Registry) DetectProduct(t reflect.Type) (Classification, bool) {
	if !IsProduct(t) {
		return Unverified, false
	}
	resolved := PlatformConstant
	for i := 0; i < t.NumField() && resolved != Unverified; i++ {
		ft := t.Field(i).Type
		if isPrimitive(ft) {
			continue
		}
		resolved = Weaker(resolved, r.classify(ft))
	}
	return resolved, true
}

// DetectInvariant reports ConstructionInvariant for types implementing
// Invariant, directly or through an embedded InvariantMarker.
func DetectInvariant(t reflect.Type) (Classification, bool) {
	if t.Implements(invariantType) {
		return ConstructionInvariant, true
	}
	return Unverified, false
}

// DetectLatch reports LatchGuarded for types implementing Latch.
func DetectLatch(t reflect.Type) (Classification, bool) {
	if t.Implements(latchType) {
		return LatchGuarded, true
	}
	return Unverified, false
}

// IsProduct reports whether t is a struct whose fields are all exported.
// Structs with unexported fields are opaque and are classified only through
// their capabilities.
func IsProduct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			return false
		}
	}
	return true
}

func isSequence(t reflect.Type) bool {
	k := t.Kind()
	return k == reflect.Array || k == reflect.Slice
}

// isPrimitive reports whether t is a predeclared scalar. Named scalar types
// are not primitive so that registry overrides on them are honored.
func isPrimitive(t reflect.Type) bool {
	return isScalar(t.Kind()) && t.PkgPath() == ""
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
