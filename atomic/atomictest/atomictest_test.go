package atomictest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Azizi-X/atomics/atomic"
)

type recorder struct {
	testing.TB
	errors []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestHistory(t *testing.T) {
	t.Parallel()

	a, b, c := &Token{Access: 1}, &Token{Access: 2}, &Token{Access: 3}
	rec := &recorder{TB: t}
	h := &History{}

	assert.True(t, h.Observe(rec, State{Ref: a}, State{Ref: b}))
	assert.True(t, h.Observe(rec, State{Ref: b}, State{Ref: b, Mark: true}))
	assert.False(t, h.Observe(rec, State{Ref: b}, State{Ref: b, Mark: true}))
	assert.Empty(t, rec.errors)
	assert.Equal(t, 2, h.Len())

	assert.True(t, h.Walk(State{Ref: a}, State{Ref: b, Mark: true}, 2))
	assert.False(t, h.Walk(State{Ref: a}, State{Ref: b}, 1), "b has a successor")
	assert.False(t, h.Walk(State{Ref: a}, State{Ref: b, Mark: true}, 3))

	assert.False(t, h.Observe(rec, State{Ref: a}, State{Ref: c}))
	assert.Len(t, rec.errors, 1)
}

func TestDrivers(t *testing.T) {
	t.Parallel()

	rec := &recorder{TB: t}

	Markable(rec, Config{}, &atomic.MarkableReference[Token]{})
	References(rec, Config{Threads: 4, Accesses: 500}, atomic.NewReference(&Token{}))
	Integers(rec, Config{Threads: 4, Accesses: 500}, atomic.NewInteger(10))

	assert.Empty(t, rec.errors)
}
