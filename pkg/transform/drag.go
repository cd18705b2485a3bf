package transform

// Phase is the state of a drag session.
type Phase int

const (
	// Idle means no pointer is held down.
	Idle Phase = iota
	// Dragging means a pointer is down and moves emit pan deltas.
	Dragging
)

// DragSession turns pointer-down/move/up sequences into pan deltas. One
// session serves both mouse drags and single-finger touch drags; the two
// input modalities are interchangeable deltas feeding ApplyPan.
type DragSession struct {
	phase Phase
	lastX float64
	lastY float64
}

// Phase reports the current session phase.
func (d *DragSession) Phase() Phase {
	return d.phase
}

// Press starts a drag at the given pointer position.
func (d *DragSession) Press(x, y float64) {
	d.phase = Dragging
	d.lastX = x
	d.lastY = y
}

// Move reports the delta since the previous position. ok is false while
// the session is idle, in which case the move is ignored.
func (d *DragSession) Move(x, y float64) (dx, dy float64, ok bool) {
	if d.phase != Dragging {
		return 0, 0, false
	}
	dx = x - d.lastX
	dy = y - d.lastY
	d.lastX = x
	d.lastY = y
	return dx, dy, true
}

// Release ends the drag. Subsequent moves emit nothing until the next
// press.
func (d *DragSession) Release() {
	d.phase = Idle
}
