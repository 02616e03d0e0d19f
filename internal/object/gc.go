package object

// Color is the Bacon-Rajan trial-deletion color, ported from the
// Black/Purple/Gray/White states pms_gc.rs's PmsInner tracks. Go's own
// GC already reclaims memory; this state machine exists purely to
// reproduce the original's *observable* collection order (see
// SPEC_FULL.md §4.5 / DESIGN.md) so that, e.g., a table whose only
// remaining reference is through a cycle gets deterministically broken
// at the same point the original breaks it, rather than whenever the Go
// garbage collector next happens to run.
type Color uint8

const (
	// Black is an object in active use, reachable from outside the
	// collector's view and not considered a candidate for a cycle.
	Black Color = iota
	// Purple is an object that *might* be part of a garbage cycle: its
	// refcount was decremented but did not reach zero.
	Purple
	// Gray marks an object during markGray while the collector
	// speculatively assumes its internal edges don't count.
	Gray
	// White marks an object scanRoot has found reachable only through a
	// cycle, or one whose refcount Release brought to zero.
	White
)

// Child is implemented by every heap object whose children need to be
// visited for cycle tracing: Array (each element), Table (each
// key/value and method), Function (each captured cell). A NativeFunction
// has no Language-level children and trivially satisfies this with an
// empty Children.
type Child interface {
	Children() []Traceable
}

// Traceable is the subset of Object that participates in reference
// counting: it has a gcHeader and can be released/retained.
type Traceable interface {
	Object
	Child
	header() *gcHeader
}

// gcHeader is embedded in every heap object, mirroring PmsInner's
// ref_count/color/buffered fields exactly.
type gcHeader struct {
	refcount int
	color    Color
	buffered bool
}

func (h *gcHeader) header() *gcHeader { return h }

// Heap owns the root buffer cycle collection scans. One Heap is created
// per Runtime (internal/vm); it is not safe for concurrent use, matching
// §5's single-threaded VM model.
type Heap struct {
	roots    []Traceable
	guarding bool
	pending  []Traceable
}

func NewHeap() *Heap { return &Heap{} }

// Retain increments t's refcount and marks it Black: an object freshly
// stored somewhere is, by definition, not part of a suspect cycle until
// proven otherwise by a later Release.
func (h *Heap) Retain(t Traceable) {
	if t == nil {
		return
	}
	hdr := t.header()
	hdr.refcount++
	hdr.color = Black
}

// Release is the Go analogue of custom_drop: decrement the refcount; at
// zero, release its children too and mark it White (genuinely dead);
// if still positive, mark Purple and buffer it as a cycle-collection
// root candidate. Children to release (and Release calls made while a
// release is already running) are queued on h.pending and drained by
// the outermost call rather than recursed into, mirroring the
// original's thread-local RecursiveDropGuard with a plain field since
// the VM is single-threaded.
func (h *Heap) Release(t Traceable) {
	if t == nil {
		return
	}
	if h.guarding {
		h.pending = append(h.pending, t)
		return
	}
	h.guarding = true
	h.releaseOne(t)
	for len(h.pending) > 0 {
		next := h.pending[0]
		h.pending = h.pending[1:]
		h.releaseOne(next)
	}
	h.guarding = false
}

func (h *Heap) releaseOne(t Traceable) {
	hdr := t.header()
	hdr.refcount--
	if hdr.refcount <= 0 {
		hdr.color = Black
		for _, c := range t.Children() {
			if rc, ok := c.(Traceable); ok {
				h.pending = append(h.pending, rc)
			}
		}
		hdr.color = White
		hdr.buffered = false
	} else {
		hdr.color = Purple
		h.addRoot(t)
	}
}

// LiveRoots reports how many candidate cycle roots are currently
// buffered awaiting the next CollectCycles pass — used only for trace
// logging around a collection pass, not for any collection decision.
func (h *Heap) LiveRoots() int { return len(h.roots) }

func (h *Heap) addRoot(t Traceable) {
	hdr := t.header()
	if hdr.buffered {
		return
	}
	hdr.buffered = true
	h.roots = append(h.roots, t)
}

// CollectCycles runs Bacon-Rajan trial deletion over the buffered
// roots: markGray, then scanRoot (restoring live subgraphs with
// scanBlack), then collectWhite. internal/vm calls
// this at every top-level Execute return (SPEC_FULL.md §4.5 / §8.1
// property 6); it's also exported for tests that want to assert the
// heap is free of cyclic garbage at an intermediate point.
func (h *Heap) CollectCycles() {
	roots := h.roots
	h.roots = nil

	for _, r := range roots {
		if r.header().color == Purple {
			h.markGray(r)
		} else {
			r.header().buffered = false
		}
	}
	for _, r := range roots {
		h.scanRoot(r)
	}
	for _, r := range roots {
		r.header().buffered = false
		h.collectWhite(r)
	}
}

func (h *Heap) markGray(t Traceable) {
	hdr := t.header()
	if hdr.color == Gray {
		return
	}
	hdr.color = Gray
	for _, c := range t.Children() {
		rc, ok := c.(Traceable)
		if !ok {
			continue
		}
		rc.header().refcount--
		h.markGray(rc)
	}
}

func (h *Heap) scanRoot(t Traceable) {
	hdr := t.header()
	if hdr.color != Gray {
		return
	}
	if hdr.refcount > 0 {
		h.scanBlack(t)
	} else {
		hdr.color = White
		for _, c := range t.Children() {
			if rc, ok := c.(Traceable); ok {
				h.scanRoot(rc)
			}
		}
	}
}

func (h *Heap) scanBlack(t Traceable) {
	hdr := t.header()
	hdr.color = Black
	for _, c := range t.Children() {
		rc, ok := c.(Traceable)
		if !ok {
			continue
		}
		rc.header().refcount++
		if rc.header().color != Black {
			h.scanBlack(rc)
		}
	}
}

func (h *Heap) collectWhite(t Traceable) {
	hdr := t.header()
	if hdr.color != White || hdr.buffered {
		return
	}
	hdr.color = Black
	children := t.Children()
	if c, ok := t.(clearer); ok {
		c.clearChildren()
	}
	for _, c := range children {
		if rc, ok := c.(Traceable); ok {
			h.collectWhite(rc)
		}
	}
}

// clearer lets collectWhite nil out a heap object's internal pointers
// once it's determined to be cyclic garbage, breaking the cycle at the
// Go memory level too so the Go runtime can actually reclaim it instead
// of merely being told it's logically White.
type clearer interface {
	clearChildren()
}
