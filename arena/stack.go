package arena

import "fmt"

// Frame tags, stored as the first byte of every control-stack entry.
const (
	TagFor   = 'F'
	TagGosub = 'G'
)

const (
	forFrameSize   = 10
	gosubFrameSize = 6
)

// Frame is the common shape of a control-stack entry, letting callers that
// only need to display or enumerate frames (e.g. a monitor) treat FOR and
// GOSUB frames uniformly.
type Frame interface {
	Tag() byte
}

// ForFrame is a pushed FOR-loop's saved state.
type ForFrame struct {
	Variable byte
	Terminal int16
	Step     int16
	Cursor   int16
	Line     uint16
}

// Tag identifies this as a FOR frame.
func (ForFrame) Tag() byte { return TagFor }

// GosubFrame is a pushed GOSUB's saved return point.
type GosubFrame struct {
	Cursor int16
	Line   uint16
}

// Tag identifies this as a GOSUB frame.
func (GosubFrame) Tag() byte { return TagGosub }

// ErrStackStuffed is raised when a frame walk encounters an unrecognized tag.
var ErrStackStuffed = fmt.Errorf("stack stuffed")

// StackTop returns the current control-stack pointer (byte offset).
func (a *Arena) StackTop() int { return a.stackTop }

// SetStackTop forcibly repositions the stack pointer; used by WARMSTART to
// reset the stack while leaving the program and variables intact.
func (a *Arena) SetStackTop(p int) { a.stackTop = p }

// ResetStack moves the stack top back to the arena's end, discarding all
// frames and DIM'd array storage carved below it.
func (a *Arena) ResetStack() { a.stackTop = len(a.buf) }

func (a *Arena) checkRoom(size int) error {
	if a.stackTop-size < a.progEnd+stackSlack {
		return ErrNoMem
	}
	return nil
}

// PushFor pushes a FOR frame onto the control stack.
func (a *Arena) PushFor(f ForFrame) error {
	if err := a.checkRoom(forFrameSize); err != nil {
		return err
	}
	a.stackTop -= forFrameSize
	p := a.stackTop
	a.buf[p] = TagFor
	a.buf[p+1] = f.Variable
	a.writeCell(p+2, f.Terminal)
	a.writeCell(p+4, f.Step)
	a.writeCell(p+6, f.Cursor)
	a.writeCell(p+8, int16(f.Line))
	return nil
}

// PushGosub pushes a GOSUB return frame onto the control stack.
func (a *Arena) PushGosub(f GosubFrame) error {
	if err := a.checkRoom(gosubFrameSize); err != nil {
		return err
	}
	a.stackTop -= gosubFrameSize
	p := a.stackTop
	a.buf[p] = TagGosub
	a.buf[p+1] = 0
	a.writeCell(p+2, f.Cursor)
	a.writeCell(p+4, int16(f.Line))
	return nil
}

func (a *Arena) frameSizeAt(p int) int {
	switch a.buf[p] {
	case TagFor:
		return forFrameSize
	case TagGosub:
		return gosubFrameSize
	default:
		return 0
	}
}

func (a *Arena) readFor(p int) ForFrame {
	return ForFrame{
		Variable: a.buf[p+1],
		Terminal: a.readCell(p + 2),
		Step:     a.readCell(p + 4),
		Cursor:   a.readCell(p + 6),
		Line:     uint16(a.readCell(p + 8)),
	}
}

func (a *Arena) readGosub(p int) GosubFrame {
	return GosubFrame{
		Cursor: a.readCell(p + 2),
		Line:   uint16(a.readCell(p + 4)),
	}
}

// WalkForNext implements NEXT's frame walk: starting from
// the current stack top, skip frames until a FOR frame whose Variable
// matches is found. Any other tag encountered along the way that is not a
// match is skipped over (an inner, already-exited loop or pending gosub);
// an unrecognized tag is ErrStackStuffed. Returns the matching frame and its
// offset, or ok=false if the stack is exhausted (a dangling NEXT).
func (a *Arena) WalkForNext(variable byte) (frame ForFrame, offset int, ok bool, err error) {
	p := a.stackTop
	for p < len(a.buf) {
		switch a.buf[p] {
		case TagFor:
			f := a.readFor(p)
			if f.Variable == variable {
				return f, p, true, nil
			}
			p += forFrameSize
		case TagGosub:
			p += gosubFrameSize
		default:
			return ForFrame{}, 0, false, ErrStackStuffed
		}
	}
	return ForFrame{}, 0, false, nil
}

// WalkForReturn implements the shared RETURN frame walk: find the nearest
// GOSUB frame, skipping over (discarding) any FOR frames above it, since a
// RETURN exits any loops entered since the matching GOSUB.
func (a *Arena) WalkForReturn() (frame GosubFrame, offset int, ok bool, err error) {
	p := a.stackTop
	for p < len(a.buf) {
		switch a.buf[p] {
		case TagFor:
			p += forFrameSize
		case TagGosub:
			return a.readGosub(p), p, true, nil
		default:
			return GosubFrame{}, 0, false, ErrStackStuffed
		}
	}
	return GosubFrame{}, 0, false, nil
}

// PopTo sets the stack top to offset, keeping the frame found there as the
// new top and discarding any frames above it (nearer the old top).
func (a *Arena) PopTo(offset int) {
	a.stackTop = offset
}

// Frames returns every live control-stack frame, innermost (nearest the
// top) first, for read-only inspection such as a monitor's stack panel.
// An unrecognized tag stops the walk early rather than erroring, since
// display code should never itself raise ErrStackStuffed.
func (a *Arena) Frames() []Frame {
	var frames []Frame
	p := a.stackTop
	for p < len(a.buf) {
		switch a.buf[p] {
		case TagFor:
			frames = append(frames, a.readFor(p))
			p += forFrameSize
		case TagGosub:
			frames = append(frames, a.readGosub(p))
			p += gosubFrameSize
		default:
			return frames
		}
	}
	return frames
}

// PopDiscard removes the frame at offset together with any frames above it
// (nearer the old top), used when a FOR loop's terminal test fails and the
// loop, along with any abandoned inner frames, is discarded for good.
func (a *Arena) PopDiscard(offset int) {
	size := a.frameSizeAt(offset)
	a.stackTop = offset + size
}
