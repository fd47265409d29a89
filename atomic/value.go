package atomic

import "sync/atomic"

// Value is a comparable T matched with ==, unlike Reference which matches
// pointers. The zero value holds the zero T.
type Value[T comparable] struct {
	_ nocmp
	p atomic.Pointer[T]
}

type String = Value[string]

func NewValue[T comparable](v T) *Value[T] {
	z := &Value[T]{}
	z.Store(v)
	return z
}

func NewString(v string) *String {
	return NewValue(v)
}

func (z *Value[T]) Load() T {
	return unpackV(z.p.Load())
}

func (z *Value[T]) Store(v T) {
	z.p.Store(packV(v))
}

func (z *Value[T]) Get() T {
	return z.Load()
}

func (z *Value[T]) Set(v T) {
	z.Store(v)
}

func (z *Value[T]) CompareAndSet(old, new T) (swapped bool) {
	var next *T

	for {
		current := z.p.Load()
		if unpackV(current) != old {
			return false
		}

		if next == nil {
			next = packV(new)
		}

		if z.p.CompareAndSwap(current, next) {
			return true
		}
	}
}

// WeakCompareAndSet makes one swap attempt and may fail if an equal value
// was stored concurrently.
func (z *Value[T]) WeakCompareAndSet(old, new T) (swapped bool) {
	current := z.p.Load()
	if unpackV(current) != old {
		return false
	}
	return z.p.CompareAndSwap(current, packV(new))
}

func (z *Value[T]) Swap(v T) (old T) {
	return unpackV(z.p.Swap(packV(v)))
}
