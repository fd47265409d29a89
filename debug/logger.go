package debug

import (
	"errors"
	"fmt"
	"sync"
)

const (
	Info    = 0
	Verbose = 1
)

// Logger publishes formatted messages at or below its level. A nil *Logger
// discards everything.
type Logger struct {
	mu       sync.Mutex
	callback []func(message string, stack Stack, level int)
	maxDepth int
	level    int
	strip    bool
	Calls    int
}

func (l *Logger) SetStrip(strip bool) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.strip = strip
	return l
}

func (l *Logger) SetMaxDepth(depth int) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxDepth = depth
	return l
}

func (l *Logger) SetLevel(level int) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	return l
}

func (l *Logger) Info(msg string, formats ...any) error {
	return l.log(Info, msg, formats...)
}

func (l *Logger) Verbose(msg string, formats ...any) error {
	return l.log(Verbose, msg, formats...)
}

func (l *Logger) Log(level int, msg string, formats ...any) error {
	return l.log(level, msg, formats...)
}

// log keeps the call depth equal for every exported entry point.
func (l *Logger) log(level int, msg string, formats ...any) error {
	if l == nil {
		return nil
	}

	msg = fmt.Sprintf(msg, formats...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level {
		return errors.New(msg)
	}

	l.Calls++

	stack := makeStack(msg, 5, stackOptions{
		strip:    l.strip,
		maxDepth: l.maxDepth,
		calls:    l.Calls,
	})

	for _, callback := range l.callback {
		go callback(msg, stack, level)
	}

	return errors.New(msg)
}

func (l *Logger) AddCallback(callback func(message string, stack Stack, level int)) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.callback = append(l.callback, callback)
	return l
}

func NewLogger() *Logger {
	return &Logger{
		maxDepth: maxDepth,
		level:    Verbose,
	}
}
