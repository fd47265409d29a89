// Package atomictest torture-tests the cells of package atomic from many
// goroutines and checks that every observed transition fits a single
// sequential history.
package atomictest

import (
	"fmt"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/Azizi-X/atomics/atomic"
	"github.com/Azizi-X/atomics/debug"
)

// Token is the referent swapped in by the drivers. Every Token is a distinct
// allocation, so each successful transition leads to a state never seen before.
type Token struct {
	Thread int
	Access int
}

func (tok *Token) String() string {
	if tok == nil {
		return "<nil>"
	}
	return fmt.Sprintf("thread %d access %d", tok.Thread, tok.Access)
}

// State is one observable (reference, mark) value of a cell.
type State struct {
	Ref  *Token
	Mark bool
}

func (s State) String() string {
	return fmt.Sprintf("(%v, %t)", s.Ref, s.Mark)
}

type Config struct {
	Threads  int
	Accesses int
	Logger   *debug.Logger
}

func (cfg Config) withDefaults() Config {
	if cfg.Threads <= 0 {
		cfg.Threads = 8
	}
	if cfg.Accesses <= 0 {
		cfg.Accesses = 1000
	}
	return cfg
}

// History records observed transitions. A linearizable cell never moves out
// of one state into two different successors.
type History struct {
	next map[State]State
	mu   sync.Mutex
}

// Observe records from → to and reports via t if from already had a
// different successor. It returns false if the transition was already known.
func (h *History) Observe(t testing.TB, from, to State) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.next == nil {
		h.next = make(map[State]State)
	}

	if prev, exists := h.next[from]; exists {
		if prev != to {
			t.Errorf("inconsistency:\n from %v\n  old %v\n  new %v", from, prev, to)
		}
		return false
	}

	h.next[from] = to
	return true
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.next)
}

// Walk follows recorded transitions from start and reports whether it reaches
// end after exactly steps transitions.
func (h *History) Walk(start, end State, steps int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	state := start
	for range steps {
		next, ok := h.next[state]
		if !ok {
			return false
		}
		state = next
	}

	_, more := h.next[state]
	return state == end && !more
}

func run(cfg Config, fn func(thread int) int) int {
	var (
		group errgroup.Group
		total atomic.Integer
	)

	for thread := range cfg.Threads {
		group.Go(func() error {
			n := fn(thread)
			total.AddAndGet(int64(n))
			cfg.Logger.Verbose("thread %d: %d/%d transitions", thread, n, cfg.Accesses)
			return nil
		})
	}

	_ = group.Wait()
	return int(total.Get())
}

// Markable races CompareAndSet, WeakCompareAndSet and AttemptMark on cell.
// Marks only move from false to true for a given Token so that no state is
// visited twice.
func Markable(t testing.TB, cfg Config, cell *atomic.MarkableReference[Token]) {
	t.Helper()

	cfg = cfg.withDefaults()
	h := &History{}

	ref, mark := cell.Get()
	start := State{Ref: ref, Mark: mark}

	succeeded := run(cfg, func(thread int) (n int) {
		for access := range cfg.Accesses {
			ref, mark := cell.Get()
			from := State{Ref: ref, Mark: mark}

			var to State
			var ok bool

			switch {
			case access%3 == 2 && !mark:
				to = State{Ref: ref, Mark: true}
				ok = cell.AttemptMark(ref, true)
			case access%3 == 1:
				to = State{Ref: &Token{Thread: thread, Access: access}, Mark: access%2 == 0}
				ok = cell.WeakCompareAndSet(ref, to.Ref, mark, to.Mark)
			default:
				to = State{Ref: &Token{Thread: thread, Access: access}, Mark: false}
				ok = cell.CompareAndSet(ref, to.Ref, mark, to.Mark)
			}

			// AttemptMark also succeeds when another thread set the mark first.
			if ok && h.Observe(t, from, to) {
				n++
			}
		}
		return n
	})

	ref, mark = cell.Get()
	end := State{Ref: ref, Mark: mark}

	if succeeded == 0 {
		t.Errorf("no transition succeeded")
		return
	}

	if !h.Walk(start, end, succeeded) {
		t.Errorf("history of %d transitions from %v does not end at %v", succeeded, start, end)
	}
}

// References races CompareAndSet on cell with fresh Tokens.
func References(t testing.TB, cfg Config, cell *atomic.Reference[Token]) {
	t.Helper()

	cfg = cfg.withDefaults()
	h := &History{}

	start := State{Ref: cell.Get()}

	succeeded := run(cfg, func(thread int) (n int) {
		for access := range cfg.Accesses {
			from := cell.Get()
			to := &Token{Thread: thread, Access: access}

			var ok bool
			if access%2 == 0 {
				ok = cell.CompareAndSet(from, to)
			} else {
				ok = cell.WeakCompareAndSet(from, to)
			}

			if ok && h.Observe(t, State{Ref: from}, State{Ref: to}) {
				n++
			}
		}
		return n
	})

	if !h.Walk(start, State{Ref: cell.Get()}, succeeded) {
		t.Errorf("history of %d transitions from %v does not end at %v", succeeded, start, cell.Get())
	}
}

// Integers races GetAndIncrement on cell. Every value handed out must be
// unique and contiguous.
func Integers(t testing.TB, cfg Config, cell *atomic.Integer) {
	t.Helper()

	cfg = cfg.withDefaults()
	start := cell.Get()

	var mu sync.Mutex
	seen := make(map[int64]int, cfg.Threads*cfg.Accesses)

	run(cfg, func(thread int) int {
		got := make([]int64, 0, cfg.Accesses)
		for range cfg.Accesses {
			got = append(got, cell.GetAndIncrement())
		}

		mu.Lock()
		for _, v := range got {
			seen[v]++
		}
		mu.Unlock()

		return len(got)
	})

	total := int64(cfg.Threads * cfg.Accesses)

	if end := cell.Get(); end != start+total {
		t.Errorf("final value %d, want %d", end, start+total)
	}

	for v := start; v < start+total; v++ {
		if seen[v] != 1 {
			t.Errorf("value %d handed out %d times", v, seen[v])
			return
		}
	}
}
