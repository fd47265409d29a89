package atomic_test

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azizi-X/atomics/atomic"
	"github.com/Azizi-X/atomics/atomic/atomictest"
)

const Seed = 42

type item struct {
	name string
}

type casFunc func(m *atomic.MarkableReference[item], er, nr *item, em, nm bool) bool

var casFuncs = map[string]casFunc{
	"strong": (*atomic.MarkableReference[item]).CompareAndSet,
	"weak":   (*atomic.MarkableReference[item]).WeakCompareAndSet,
}

func TestMarkableReferenceZeroValue(t *testing.T) {
	t.Parallel()

	var o atomic.MarkableReference[item]

	assert.False(t, o.IsMarked())
	assert.Nil(t, o.Reference())

	ref, mark := o.Get()
	assert.Nil(t, ref)
	assert.False(t, mark)
}

func TestMarkableReferenceInit(t *testing.T) {
	t.Parallel()

	d := &item{name: "d"}

	tests := map[string]struct {
		ref  *item
		mark bool
	}{
		"defaults":       {nil, false},
		"reference":      {d, false},
		"reference mark": {d, true},
		"mark only":      {nil, true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			o := atomic.NewMarkableReference(test.ref, test.mark)

			assert.Same(t, test.ref, o.Reference())
			assert.Equal(t, test.mark, o.IsMarked())

			ref, mark := o.Get()
			assert.Same(t, test.ref, ref)
			assert.Equal(t, test.mark, mark)
		})
	}
}

func TestMarkableReferenceSet(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(Seed)
	o := atomic.NewMarkableReference(&item{name: "initial"}, false)

	for i := 0; i < 100; i++ {
		d := &item{name: faker.Word()}
		m := faker.Bool()

		o.Set(d, m)

		ref, mark := o.Get()
		require.Same(t, d, ref)
		require.Equal(t, m, mark)
		require.Same(t, d, o.Reference())
		require.Equal(t, m, o.IsMarked())
	}

	o.Set(nil, false)
	assert.Nil(t, o.Reference())
	assert.False(t, o.IsMarked())
}

func TestMarkableReferenceCompareAndSet(t *testing.T) {
	t.Parallel()

	for name, cas := range casFuncs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d1, d2, d3 := &item{name: "d1"}, &item{name: "d2"}, &item{name: "d3"}
			o := atomic.NewMarkableReference(d1, true)

			require.True(t, cas(o, d1, d2, true, false))
			assert.False(t, o.IsMarked())
			assert.Same(t, d2, o.Reference())

			require.False(t, cas(o, d1, d3, true, true))
			assert.False(t, o.IsMarked())
			assert.Same(t, d2, o.Reference())
			assert.NotSame(t, d3, o.Reference())

			// right reference, wrong mark
			require.False(t, cas(o, d2, d3, true, true))
			assert.Same(t, d2, o.Reference())
			assert.False(t, o.IsMarked())
		})
	}
}

func TestMarkableReferenceCompareAndSetIdentity(t *testing.T) {
	t.Parallel()

	for name, cas := range casFuncs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d := &item{name: "same"}
			twin := &item{name: "same"}
			o := atomic.NewMarkableReference(d, false)

			require.Equal(t, *d, *twin)
			assert.False(t, cas(o, twin, &item{}, false, true))
			assert.Same(t, d, o.Reference())
			assert.False(t, o.IsMarked())
		})
	}
}

func TestMarkableReferenceCompareAndSetFromZero(t *testing.T) {
	t.Parallel()

	for name, cas := range casFuncs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var o atomic.MarkableReference[item]
			d := &item{name: "d"}

			require.False(t, cas(&o, nil, d, true, true))
			require.True(t, cas(&o, nil, d, false, true))

			ref, mark := o.Get()
			assert.Same(t, d, ref)
			assert.True(t, mark)
		})
	}
}

func TestMarkableReferenceCompareAndSetRoundTrip(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(Seed)

	for name, cas := range casFuncs {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				er, nr := &item{name: faker.Word()}, &item{name: faker.Word()}
				em, nm := faker.Bool(), faker.Bool()

				o := atomic.NewMarkableReference(er, em)

				require.True(t, cas(o, er, nr, em, nm))
				require.True(t, cas(o, nr, er, nm, em))

				ref, mark := o.Get()
				require.Same(t, er, ref)
				require.Equal(t, em, mark)
			}
		})
	}
}

func TestMarkableReferenceCompareAndSetUnchanged(t *testing.T) {
	t.Parallel()

	d := &item{name: "d"}
	o := atomic.NewMarkableReference(d, true)

	assert.True(t, o.CompareAndSet(d, d, true, true))
	assert.True(t, o.WeakCompareAndSet(d, d, true, true))

	ref, mark := o.Get()
	assert.Same(t, d, ref)
	assert.True(t, mark)
}

func TestMarkableReferenceAttemptMark(t *testing.T) {
	t.Parallel()

	d := &item{name: "d"}
	other := &item{name: "d"}
	o := atomic.NewMarkableReference(d, false)

	assert.False(t, o.IsMarked())
	assert.True(t, o.AttemptMark(d, true))
	assert.True(t, o.IsMarked())
	assert.Same(t, d, o.Reference())

	// already marked
	assert.True(t, o.AttemptMark(d, true))
	assert.True(t, o.IsMarked())

	assert.False(t, o.AttemptMark(other, false))
	assert.True(t, o.IsMarked())
	assert.Same(t, d, o.Reference())

	assert.True(t, o.AttemptMark(d, false))
	assert.False(t, o.IsMarked())
	assert.Same(t, d, o.Reference())
}

func TestMarkableReferenceAttemptMarkZero(t *testing.T) {
	t.Parallel()

	var o atomic.MarkableReference[item]

	assert.False(t, o.AttemptMark(&item{}, true))
	assert.True(t, o.AttemptMark(nil, true))
	assert.True(t, o.IsMarked())
	assert.Nil(t, o.Reference())
}

func TestMarkableReferenceString(t *testing.T) {
	t.Parallel()

	var o atomic.MarkableReference[item]
	assert.Equal(t, "atomic.MarkableReference(0x0, false)", o.String())

	o.Set(&item{}, true)
	assert.Regexp(t, `^atomic\.MarkableReference\(0x[0-9a-f]+, true\)$`, o.String())
}

func TestMarkableReferenceNoTornReads(t *testing.T) {
	t.Parallel()

	a, b := &item{name: "a"}, &item{name: "b"}
	o := atomic.NewMarkableReference(a, true)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			o.Set(b, false)
			o.Set(a, true)
		}
	}()

	for i := 0; i < 100000; i++ {
		ref, mark := o.Get()
		if (ref == a) != mark {
			close(stop)
			wg.Wait()
			t.Fatalf("torn read: (%v, %t)", ref, mark)
		}
	}

	close(stop)
	wg.Wait()
}

func TestMarkableReferenceConcurrent(t *testing.T) {
	t.Parallel()

	atomictest.Markable(t, atomictest.Config{Threads: 8, Accesses: 2000}, &atomic.MarkableReference[atomictest.Token]{})
	atomictest.Markable(t, atomictest.Config{Threads: 4, Accesses: 2000}, atomic.NewMarkableReference(&atomictest.Token{}, true))
}

type cyclic struct {
	cell atomic.MarkableReference[cyclic]
	name string
}

func TestMarkableReferenceSelfCycle(t *testing.T) {
	collected := make(chan struct{})

	func() {
		o := &cyclic{name: "o"}
		o.cell.Set(o, true)
		require.Same(t, o, o.cell.Reference())

		runtime.AddCleanup(o, func(ch chan struct{}) { close(ch) }, collected)
	}()

	deadline := time.After(10 * time.Second)

	for {
		runtime.GC()

		select {
		case <-collected:
			return
		case <-deadline:
			t.Fatal("self-referencing cell was never collected")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
