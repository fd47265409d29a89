package atomic

import (
	"strconv"
	"sync/atomic"
)

// Integer is an int64 that wraps around on overflow like the hardware
// instructions behind it. The zero value holds 0.
type Integer struct {
	_ nocmp
	v atomic.Int64
}

func NewInteger(v int64) *Integer {
	i := &Integer{}
	i.v.Store(v)
	return i
}

func (i *Integer) Get() int64 {
	return i.v.Load()
}

func (i *Integer) Set(v int64) {
	i.v.Store(v)
}

func (i *Integer) CompareAndSet(expected, new int64) (swapped bool) {
	return i.v.CompareAndSwap(expected, new)
}

func (i *Integer) WeakCompareAndSet(expected, new int64) (swapped bool) {
	return i.v.CompareAndSwap(expected, new)
}

func (i *Integer) Swap(v int64) (old int64) {
	return i.v.Swap(v)
}

func (i *Integer) IncrementAndGet() int64 {
	return i.v.Add(1)
}

func (i *Integer) GetAndIncrement() int64 {
	return i.v.Add(1) - 1
}

func (i *Integer) DecrementAndGet() int64 {
	return i.v.Add(-1)
}

func (i *Integer) GetAndDecrement() int64 {
	return i.v.Add(-1) + 1
}

func (i *Integer) AddAndGet(delta int64) int64 {
	return i.v.Add(delta)
}

func (i *Integer) GetAndAdd(delta int64) int64 {
	return i.v.Add(delta) - delta
}

func (i *Integer) String() string {
	return strconv.FormatInt(i.Get(), 10)
}
