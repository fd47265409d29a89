package debug

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

type MemStats struct {
	Total       uint64
	Alloc       uint64
	TotalAlloc  uint64
	Mallocs     uint64
	HeapAlloc   uint64
	HeapObjects uint64
}

// Stack is the context captured when a Debugger or Logger publishes.
type Stack struct {
	Message  string
	Time     int64
	Frames   []StackFrame
	MemStats MemStats
	Total    int
}

type StackFrame struct {
	Function string
	File     string
	Line     int
}

type stackOptions struct {
	strip    bool
	maxDepth int
	calls    int
}

// Hash identifies the message and call site, ignoring time and memory.
func (s *Stack) Hash(extra ...string) string {
	var builder strings.Builder

	builder.WriteString(s.Message)

	for i := range extra {
		builder.WriteString(extra[i])
	}

	for _, frame := range s.Frames {
		builder.WriteString(frame.Function)
		builder.WriteString(frame.File)
		builder.WriteString(strconv.Itoa(frame.Line))
	}

	sum := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(sum[:])
}

func (s *Stack) Caller() (StackFrame, bool) {
	if len(s.Frames) == 0 {
		return StackFrame{}, false
	}
	return s.Frames[0], true
}
