package debug

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/mem"
)

func stripPath(frameFile string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return frameFile
	}

	rel, err := filepath.Rel(cwd, frameFile)
	if err != nil {
		return frameFile
	}

	return filepath.ToSlash(rel)
}

func frames(skip int, options stackOptions) (stack []StackFrame) {
	depth := options.maxDepth
	if depth <= 0 {
		depth = maxDepth
	}

	pc := make([]uintptr, depth)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pc[:n])

	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			file := frame.File
			if options.strip {
				file = stripPath(frame.File)
			}

			stack = append(stack, StackFrame{
				Function: frame.Function,
				File:     file,
				Line:     frame.Line,
			})
		}
		if !more {
			return stack
		}
	}
}

func memStats() MemStats {
	var total uint64
	var stats runtime.MemStats

	runtime.ReadMemStats(&stats)

	if memory, _ := mem.VirtualMemory(); memory != nil {
		total = memory.Total
	}

	return MemStats{
		Total:       total,
		Alloc:       stats.Alloc,
		TotalAlloc:  stats.TotalAlloc,
		Mallocs:     stats.Mallocs,
		HeapAlloc:   stats.HeapAlloc,
		HeapObjects: stats.HeapObjects,
	}
}

func makeStack(message string, skip int, options stackOptions) Stack {
	return Stack{
		Message:  message,
		Time:     time.Now().UnixMilli(),
		Frames:   frames(skip, options),
		MemStats: memStats(),
		Total:    options.calls,
	}
}
