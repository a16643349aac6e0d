package immutability

import (
	"reflect"
)

// Verify classifies v's dynamic type and, when that yields LatchGuarded,
// confirms the latch has actually closed on this instance.
//
// A value implementing Latch is checked directly. A product value is checked
// component by component at any depth; the first open latch ends the scan.
// Anything else claiming LatchGuarded cannot be confirmed. In every failed
// case, including a latch read or component access that panics, the result is
// Unverified.
//
// Verify never mutates v. It panics if v is nil.
func (r *Registry) Verify(v any) Classification {
	if v == nil {
		panic("immutability: Verify called with nil value")
	}
	c := r.verify(v)
	r.metrics.observeVerify(c)
	return c
}

// IsVerified reports whether v verifies above Unverified.
func (r *Registry) IsVerified(v any) bool {
	return r.Verify(v).IsClassified()
}

// IsUnverifiedValue reports whether v verifies as Unverified.
func (r *Registry) IsUnverifiedValue(v any) bool {
	return !r.Verify(v).IsClassified()
}

// Verify verifies v against the Default registry.
func Verify(v any) Classification {
	return Default().Verify(v)
}

func (r *Registry) verify(v any) Classification {
	t := reflect.TypeOf(v)
	result := r.classify(t)
	if result != LatchGuarded {
		return result
	}

	if l, ok := v.(Latch); ok {
		if r.readLatch(t, l) {
			return LatchGuarded
		}
		return Unverified
	}
	if IsProduct(t) && r.latchesClosed(reflect.ValueOf(v)) {
		return LatchGuarded
	}
	return Unverified
}

// latchesClosed walks the components of the product value v and reports
// whether every latch reachable through latch-typed or product-typed fields
// is closed. It returns false on the first open latch or unreadable field.
func (r *Registry) latchesClosed(v reflect.Value) bool {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		ft := t.Field(i).Type
		switch {
		case ft.Implements(latchType):
			l, ok := latchOf(v.Field(i))
			if !ok || !r.readLatch(ft, l) {
				return false
			}
		case IsProduct(ft):
			if !r.latchesClosed(v.Field(i)) {
				return false
			}
		}
	}
	return true
}

// readLatch reports whether l is closed. A panicking read counts as open.
func (r *Registry) readLatch(t reflect.Type, l Latch) (closed bool) {
	defer func() {
		if p := recover(); p != nil {
			r.logger().Warn("latch read failed", "type", typeName(t), "panic", p)
			closed = false
		}
	}()
	return l.IsClosed()
}

func latchOf(fv reflect.Value) (Latch, bool) {
	if !fv.CanInterface() {
		return nil, false
	}
	switch fv.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice:
		if fv.IsNil() {
			return nil, false
		}
	}
	l, ok := fv.Interface().(Latch)
	return l, ok
}
