package atomic

import (
	"fmt"
	"sync/atomic"
)

// MarkableReference holds a *T and a boolean mark that are read and
// replaced together. The zero value holds (nil, false) and is ready for use.
//
// References are matched by identity (pointer equality). Distinct pointers to
// zero-size values may compare equal, so T should not be zero-size when
// identity matters.
type MarkableReference[T any] struct {
	_ nocmp
	p atomic.Pointer[pair[T]]
}

func NewMarkableReference[T any](ref *T, mark bool) *MarkableReference[T] {
	m := &MarkableReference[T]{}
	if ref != nil || mark {
		m.p.Store(packPair(ref, mark))
	}
	return m
}

func (m *MarkableReference[T]) Reference() *T {
	ref, _ := unpackPair(m.p.Load())
	return ref
}

func (m *MarkableReference[T]) IsMarked() bool {
	_, mark := unpackPair(m.p.Load())
	return mark
}

// Get returns the reference and the mark from a single snapshot.
func (m *MarkableReference[T]) Get() (*T, bool) {
	return unpackPair(m.p.Load())
}

func (m *MarkableReference[T]) Set(ref *T, mark bool) {
	m.p.Store(packPair(ref, mark))
}

// CompareAndSet replaces the pair with (newRef, newMark) if the current
// reference is expectedRef and the current mark is expectedMark.
// It does not fail spuriously: a lost pointer swap is retried for as long as
// the cell still holds the expected pair.
func (m *MarkableReference[T]) CompareAndSet(expectedRef, newRef *T, expectedMark, newMark bool) (swapped bool) {
	var next *pair[T]

	for {
		current := m.p.Load()
		ref, mark := unpackPair(current)

		if ref != expectedRef || mark != expectedMark {
			return false
		}

		if ref == newRef && mark == newMark {
			return true
		}

		if next == nil {
			next = packPair(newRef, newMark)
		}

		if m.p.CompareAndSwap(current, next) {
			return true
		}
	}
}

// WeakCompareAndSet makes a single swap attempt. It may report false even
// though the expected pair was held, when a concurrent writer republished an
// equal pair between the read and the swap. It never succeeds on a mismatch.
func (m *MarkableReference[T]) WeakCompareAndSet(expectedRef, newRef *T, expectedMark, newMark bool) (swapped bool) {
	current := m.p.Load()
	ref, mark := unpackPair(current)

	if ref != expectedRef || mark != expectedMark {
		return false
	}

	if ref == newRef && mark == newMark {
		return true
	}

	return m.p.CompareAndSwap(current, packPair(newRef, newMark))
}

// AttemptMark sets the mark to newMark if the current reference is
// expectedRef. The reference is left untouched either way.
func (m *MarkableReference[T]) AttemptMark(expectedRef *T, newMark bool) bool {
	var next *pair[T]

	for {
		current := m.p.Load()
		ref, mark := unpackPair(current)

		if ref != expectedRef {
			return false
		}

		if mark == newMark {
			return true
		}

		if next == nil {
			next = packPair(ref, newMark)
		}

		if m.p.CompareAndSwap(current, next) {
			return true
		}
	}
}

func (m *MarkableReference[T]) String() string {
	ref, mark := m.Get()
	return fmt.Sprintf("atomic.MarkableReference(%p, %t)", ref, mark)
}
