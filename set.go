package atomics

import (
	"cmp"

	"github.com/Azizi-X/atomics/atomic"
)

type node[T cmp.Ordered] struct {
	value T
	// marked once the node is logically removed
	next atomic.MarkableReference[node[T]]
}

// Set is a sorted, lock-free set. Each link carries a deletion mark for the
// node that owns it, so a removal is claimed and unlinked in two CAS steps
// that never lose a concurrent insert. The zero value is an empty set.
type Set[T cmp.Ordered] struct {
	head atomic.MarkableReference[node[T]]
	size atomic.Integer
}

func NewSet[T cmp.Ordered](values ...T) *Set[T] {
	s := &Set[T]{}
	for _, value := range values {
		s.Add(value)
	}
	return s
}

// find returns the link that points at the first live node holding a value
// >= value, and that node. Marked nodes met on the way are unlinked.
func (s *Set[T]) find(value T) (*atomic.MarkableReference[node[T]], *node[T]) {
retry:
	for {
		pred := &s.head
		curr := pred.Reference()

		for curr != nil {
			succ, marked := curr.next.Get()

			for marked {
				if !pred.CompareAndSet(curr, succ, false, false) {
					continue retry
				}

				curr = succ
				if curr == nil {
					return pred, nil
				}
				succ, marked = curr.next.Get()
			}

			if curr.value >= value {
				return pred, curr
			}

			pred = &curr.next
			curr = succ
		}

		return pred, nil
	}
}

func (s *Set[T]) Add(value T) bool {
	n := &node[T]{value: value}

	for {
		pred, curr := s.find(value)
		if curr != nil && curr.value == value {
			return false
		}

		n.next.Set(curr, false)

		if pred.CompareAndSet(curr, n, false, false) {
			s.size.IncrementAndGet()
			return true
		}
	}
}

func (s *Set[T]) Remove(value T) bool {
	for {
		pred, curr := s.find(value)
		if curr == nil || curr.value != value {
			return false
		}

		succ := curr.next.Reference()

		// AttemptMark would also report success if another remover had
		// already marked curr.
		if !curr.next.CompareAndSet(succ, succ, false, true) {
			continue
		}

		s.size.DecrementAndGet()
		pred.CompareAndSet(curr, succ, false, false)
		return true
	}
}

func (s *Set[T]) Contains(value T) bool {
	curr := s.head.Reference()

	for curr != nil && curr.value < value {
		curr = curr.next.Reference()
	}

	return curr != nil && curr.value == value && !curr.next.IsMarked()
}

// Len is exact once concurrent updates have returned.
func (s *Set[T]) Len() int {
	return int(s.size.Get())
}

// Values returns the live values in ascending order. Under concurrent
// updates the result is not a single snapshot.
func (s *Set[T]) Values() (values []T) {
	for curr := s.head.Reference(); curr != nil; {
		next, marked := curr.next.Get()
		if !marked {
			values = append(values, curr.value)
		}
		curr = next
	}
	return
}

// Clear removes values one by one and returns how many it removed.
func (s *Set[T]) Clear() (removed int) {
	for _, value := range s.Values() {
		if s.Remove(value) {
			removed++
		}
	}
	return
}
