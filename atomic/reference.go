package atomic

import (
	"fmt"
	"sync/atomic"
)

// Reference is a *T compared by identity. The zero value holds nil.
type Reference[T any] struct {
	_ nocmp
	p atomic.Pointer[T]
}

func NewReference[T any](ref *T) *Reference[T] {
	r := &Reference[T]{}
	if ref != nil {
		r.p.Store(ref)
	}
	return r
}

func (r *Reference[T]) Get() *T {
	return r.p.Load()
}

func (r *Reference[T]) Set(ref *T) {
	r.p.Store(ref)
}

func (r *Reference[T]) CompareAndSet(expected, new *T) (swapped bool) {
	return r.p.CompareAndSwap(expected, new)
}

// WeakCompareAndSet is CompareAndSet: a pointer swap never fails spuriously.
func (r *Reference[T]) WeakCompareAndSet(expected, new *T) (swapped bool) {
	return r.p.CompareAndSwap(expected, new)
}

func (r *Reference[T]) Swap(new *T) (old *T) {
	return r.p.Swap(new)
}

func (r *Reference[T]) String() string {
	return fmt.Sprintf("atomic.Reference(%p)", r.Get())
}
