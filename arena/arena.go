// Package arena implements the single owned byte region that backs variable
// storage, array storage, the stored program, and the control stack.
package arena

import (
	"encoding/binary"
	"fmt"
)

const (
	// NumLetters is the number of single-letter variable/array names, A-Z.
	NumLetters = 26
	cellSize   = 2

	varsOffset    = 0
	arrOffOffset  = NumLetters * cellSize
	arrSizeOffset = 2 * NumLetters * cellSize
	progStart     = 3 * NumLetters * cellSize

	// DefaultSize is the default arena size in bytes.
	DefaultSize = 32768

	// stackSlack is the minimum gap that must remain between program-end
	// and the control-stack top at every statement boundary.
	stackSlack = 4
)

// ErrNoMem is raised when the control stack would collide with the program region.
var ErrNoMem = fmt.Errorf("not enough memory")

// Arena owns the backing byte array and all the fixed-offset views into it.
type Arena struct {
	buf      []byte
	progEnd  int
	stackTop int
}

// New allocates an arena of the given size, cleared to its initial state.
func New(size int) *Arena {
	a := &Arena{buf: make([]byte, size)}
	a.NewProgram()
	return a
}

// Clear zeroes the variable table, array tables, and resets the control
// stack top to the arena's end. It does not touch the program region.
func (a *Arena) Clear() {
	for i := 0; i < progStart; i++ {
		a.buf[i] = 0
	}
	a.stackTop = len(a.buf)
}

// NewProgram empties the program region and clears variables/arrays/stack.
func (a *Arena) NewProgram() {
	a.progEnd = progStart
	a.Clear()
}

// ClearProgram empties the program region only, leaving variables, arrays,
// and the control stack untouched. Used by LOAD, which replaces the
// program text but preserves everything else, unlike NEW.
func (a *Arena) ClearProgram() {
	a.progEnd = progStart
}

// Size returns the total arena capacity in bytes.
func (a *Arena) Size() int { return len(a.buf) }

// FreeBytes returns the number of bytes available between the program end
// and the control stack top; backs the FRE() function.
func (a *Arena) FreeBytes() int16 {
	free := a.stackTop - a.progEnd
	if free < 0 {
		free = 0
	}
	if free > 32767 {
		free = 32767
	}
	return int16(free)
}

func letterIndex(letter byte) (int, error) {
	if letter < 'A' || letter > 'Z' {
		return 0, fmt.Errorf("bad variable letter %q", letter)
	}
	return int(letter - 'A'), nil
}

// Variable returns the value of scalar variable letter (A-Z).
func (a *Arena) Variable(letter byte) (int16, error) {
	i, err := letterIndex(letter)
	if err != nil {
		return 0, err
	}
	return a.readCell(varsOffset + i*cellSize), nil
}

// SetVariable assigns the value of scalar variable letter (A-Z).
func (a *Arena) SetVariable(letter byte, v int16) error {
	i, err := letterIndex(letter)
	if err != nil {
		return err
	}
	a.writeCell(varsOffset+i*cellSize, v)
	return nil
}

func (a *Arena) readCell(off int) int16 {
	return int16(binary.LittleEndian.Uint16(a.buf[off:]))
}

func (a *Arena) writeCell(off int, v int16) {
	binary.LittleEndian.PutUint16(a.buf[off:], uint16(v))
}

// ArraySize returns the declared element count of array letter, 0 if undeclared.
func (a *Arena) ArraySize(letter byte) (int16, error) {
	i, err := letterIndex(letter)
	if err != nil {
		return 0, err
	}
	return a.readCell(arrSizeOffset + i*cellSize), nil
}

// Dim declares array letter with size elements. Reuses existing
// storage when it is already big enough, otherwise carves size*2 new bytes
// from the top of the arena.
func (a *Arena) Dim(letter byte, size int) error {
	i, err := letterIndex(letter)
	if err != nil {
		return err
	}
	if size < 0 {
		return fmt.Errorf("array size must be non-negative")
	}
	curSize := int(a.readCell(arrSizeOffset + i*cellSize))
	curOff := int(a.readCell(arrOffOffset + i*cellSize))

	if curSize >= size && curOff != 0 {
		a.zeroArray(curOff, size)
		a.writeCell(arrSizeOffset+i*cellSize, int16(size))
		return nil
	}

	needed := size * cellSize
	if a.stackTop-needed < a.progEnd+stackSlack {
		return ErrNoMem
	}
	a.stackTop -= needed
	newOff := a.stackTop
	a.zeroArray(newOff, size)
	a.writeCell(arrOffOffset+i*cellSize, int16(newOff))
	a.writeCell(arrSizeOffset+i*cellSize, int16(size))
	return nil
}

func (a *Arena) zeroArray(offset, size int) {
	for j := 0; j < size*cellSize; j++ {
		a.buf[offset+j] = 0
	}
}

// ArrayGet reads element index of array letter.
func (a *Arena) ArrayGet(letter byte, index int) (int16, error) {
	i, err := letterIndex(letter)
	if err != nil {
		return 0, err
	}
	size := int(a.readCell(arrSizeOffset + i*cellSize))
	if index < 0 || index >= size {
		return 0, fmt.Errorf("array index %d out of bounds [0,%d)", index, size)
	}
	off := int(a.readCell(arrOffOffset + i*cellSize))
	return a.readCell(off + index*cellSize), nil
}

// ArraySet writes element index of array letter.
func (a *Arena) ArraySet(letter byte, index int, v int16) error {
	i, err := letterIndex(letter)
	if err != nil {
		return err
	}
	size := int(a.readCell(arrSizeOffset + i*cellSize))
	if index < 0 || index >= size {
		return fmt.Errorf("array index %d out of bounds [0,%d)", index, size)
	}
	off := int(a.readCell(arrOffOffset + i*cellSize))
	a.writeCell(off+index*cellSize, v)
	return nil
}
