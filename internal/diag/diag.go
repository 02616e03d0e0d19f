// Package diag collects the three error categories the pipeline raises:
// lowering diagnostics (accumulated, never abort a lowering pass),
// programming-bug panics (a typed wrapper so a recovering host still
// gets an error-satisfying value), and runtime exceptions (built from
// the VM's drained, range-fixed-up exception log).
package diag

import (
	"fmt"

	"github.com/ryota2357/lico-sub000/internal/ir"
)

// Diagnostic is one lowering-time error: a human-readable message
// together with the source range of the construct that produced it.
// Lowering never aborts on the first Diagnostic — it keeps lowering and
// returns every Diagnostic collected in the pass, mirroring
// ctx.push_error's accumulate-don't-abort behavior in the grounding
// sources.
type Diagnostic struct {
	Message string
	Range   ir.Range
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s (at %d..%d)", d.Message, d.Range.Start, d.Range.End)
}

// Collector accumulates Diagnostics during a single lowering pass.
type Collector struct {
	diags []Diagnostic
}

func (c *Collector) Push(message string, rng ir.Range) {
	c.diags = append(c.diags, Diagnostic{Message: message, Range: rng})
}

func (c *Collector) Pushf(rng ir.Range, format string, args ...any) {
	c.Push(fmt.Sprintf(format, args...), rng)
}

func (c *Collector) Diagnostics() []Diagnostic { return c.diags }
func (c *Collector) HasErrors() bool           { return len(c.diags) > 0 }

// BugError wraps a programming-bug panic (a violated internal
// invariant: jump-integrity failure, a scope marker finished out of
// order, a Strage key misused) so that a host recovering the panic
// still receives a typed, error-satisfying value, mirroring the
// teacher's own `_error` wrapper in interp.go.
type BugError struct {
	Msg string
}

func (e *BugError) Error() string { return "internal error: " + e.Msg }

// Bug panics with a *BugError built from a formatted message. It is
// used for invariant violations that indicate a compiler or VM bug,
// never for user-facing lowering or runtime errors.
func Bug(format string, args ...any) {
	panic(&BugError{Msg: fmt.Sprintf(format, args...)})
}

// RuntimeException is a single entry in the VM's exception log: a
// message, the program counter it was raised at, and a sub-index
// distinguishing which operand/argument of a multi-operand instruction
// raised it (see SPEC_FULL.md §4.4.6 for the codegen-vs-VM sub-index
// distinction). Nothing in this module fills in Range; the VM reports
// its drained exception log as vm.ExecutionError values instead.
type RuntimeException struct {
	Message  string
	PC       int
	SubIndex int
	Range    ir.Range
	HasRange bool
}

func (e *RuntimeException) Error() string {
	if e.HasRange {
		return fmt.Sprintf("%s (at %d..%d)", e.Message, e.Range.Start, e.Range.End)
	}
	return e.Message
}
