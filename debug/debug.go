package debug

import (
	"fmt"
	"sync"
)

const (
	maxDepth = 32
)

// Debugger fans published errors out to its callbacks, each in its own
// goroutine. A nil *Debugger publishes nothing.
type Debugger struct {
	mu       sync.Mutex
	callback []func(err error, stack Stack) error
	seen     map[string]struct{}
	maxDepth int
	strip    bool
	dedupe   bool
	Calls    int
}

func (d *Debugger) Publish(msg any, formats ...any) error {
	if d == nil {
		return nil
	}

	var err error

	switch v := msg.(type) {
	case nil:
		return nil
	case error:
		err = v
	case string:
		err = fmt.Errorf(v, formats...)
	default:
		err = fmt.Errorf(fmt.Sprint(msg), formats...)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.Calls++
	stack := makeStack(err.Error(), 4, stackOptions{
		strip:    d.strip,
		maxDepth: d.maxDepth,
		calls:    d.Calls,
	})

	if d.dedupe {
		hash := stack.Hash()
		if _, ok := d.seen[hash]; ok {
			return err
		}
		if d.seen == nil {
			d.seen = map[string]struct{}{}
		}
		d.seen[hash] = struct{}{}
	}

	for _, callback := range d.callback {
		go callback(err, stack)
	}
	return err
}

func (d *Debugger) SetStrip(strip bool) *Debugger {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.strip = strip
	return d
}

func (d *Debugger) SetMaxDepth(depth int) *Debugger {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.maxDepth = depth
	return d
}

// SetDedupe drops reports whose message and call site were already published.
func (d *Debugger) SetDedupe(dedupe bool) *Debugger {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dedupe = dedupe
	if !dedupe {
		d.seen = nil
	}
	return d
}

func (d *Debugger) AddCallback(callback func(err error, stack Stack) error) *Debugger {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = append(d.callback, callback)
	return d
}

func NewDebugger() *Debugger {
	return &Debugger{
		maxDepth: maxDepth,
	}
}
