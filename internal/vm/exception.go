package vm

import "fmt"

// exceptionEntry is one raw entry in the VM's exception log: a
// message, the pc it was raised at, and a sub-index distinguishing
// which operand/argument of a multi-operand instruction raised it —
// ported from EXCEPTION_LOG's (message, pc, subIndex) tuple shape.
// Unlike the original's process-global, mutex-guarded log, this log is
// a field on Runtime: the VM is single-threaded per SPEC_FULL.md §5,
// so a global was never required, and Go idiom avoids mutable package
// globals where a value can simply be threaded through instead.
type exceptionEntry struct {
	Message  string
	PC       int
	SubIndex int
}

// ExceptionLog accumulates exceptionEntries raised while executing one
// Runtime's instruction stream. Execute drains it into ExecutionError
// values carrying each entry's pc and sub-index; no source range is
// looked up for them.
type ExceptionLog struct {
	entries []exceptionEntry
}

func (l *ExceptionLog) push(message string, pc, subIndex int) {
	l.entries = append(l.entries, exceptionEntry{Message: message, PC: pc, SubIndex: subIndex})
}

func (l *ExceptionLog) pushf(pc, subIndex int, format string, args ...any) {
	l.push(fmt.Sprintf(format, args...), pc, subIndex)
}

// Drain returns every entry logged so far and resets the log, mirroring
// the original's drain-on-exception-return behavior at the top of
// execute().
func (l *ExceptionLog) Drain() []exceptionEntry {
	out := l.entries
	l.entries = nil
	return out
}

// HasEntries reports whether anything has been logged since the last
// Drain. The dispatch loop does not consult it; it decides on the
// status each opcode returns.
func (l *ExceptionLog) HasEntries() bool { return len(l.entries) > 0 }
