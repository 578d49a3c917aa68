// Package monitor is a read-only inspector attached to a running
// interpreter: a live view of the arena's variables, arrays, control
// stack, and program listing, driven either from a line-oriented prompt
// or a tview-based TUI. It never mutates
// interpreter state beyond single-stepping it; the interpreter remains
// the sole driver of program semantics.
package monitor

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/sbelectronics/tbasic/arena"
	"github.com/sbelectronics/tbasic/interp"
)

// VarEntry is one named scalar variable with a non-zero value, the shape
// the variable panel renders.
type VarEntry struct {
	Letter byte
	Value  int16
}

// ArrEntry is one declared array.
type ArrEntry struct {
	Letter byte
	Size   int16
}

// Snapshot is a point-in-time read of everything a monitor panel displays.
type Snapshot struct {
	Mode        interp.Mode
	CurrentLine uint16
	Vars        []VarEntry
	Arrays      []ArrEntry
	Frames      []arena.Frame
	FreeBytes   int16
}

// TakeSnapshot reads the interpreter's current state. Only letters with a
// non-zero value or a declared array are reported, using lo.Range/lo.FilterMap
// over the full 26-letter namespace the way a register/memory summary
// view would.
func TakeSnapshot(in *interp.Interpreter) Snapshot {
	a := in.Arena
	letters := lo.Range(arena.NumLetters)

	vars := lo.FilterMap(letters, func(i int, _ int) (VarEntry, bool) {
		letter := byte('A' + i)
		v, _ := a.Variable(letter)
		return VarEntry{Letter: letter, Value: v}, v != 0
	})

	arrays := lo.FilterMap(letters, func(i int, _ int) (ArrEntry, bool) {
		letter := byte('A' + i)
		size, _ := a.ArraySize(letter)
		return ArrEntry{Letter: letter, Size: size}, size > 0
	})

	return Snapshot{
		Mode:        in.Mode(),
		CurrentLine: in.CurrentLine(),
		Vars:        vars,
		Arrays:      arrays,
		Frames:      a.Frames(),
		FreeBytes:   a.FreeBytes(),
	}
}

// RenderVars formats the variable panel's text.
func (s Snapshot) RenderVars() string {
	if len(s.Vars) == 0 {
		return "(all zero)"
	}
	lines := lo.Map(s.Vars, func(v VarEntry, _ int) string {
		return fmt.Sprintf("%c = %d", v.Letter, v.Value)
	})
	return strings.Join(lines, "\n")
}

// RenderArrays formats the array panel's text.
func (s Snapshot) RenderArrays() string {
	if len(s.Arrays) == 0 {
		return "(none declared)"
	}
	lines := lo.Map(s.Arrays, func(v ArrEntry, _ int) string {
		return fmt.Sprintf("%c(%d)", v.Letter, v.Size-1)
	})
	return strings.Join(lines, "\n")
}

// RenderStack formats the control-stack panel's text, innermost frame
// first.
func (s Snapshot) RenderStack() string {
	if len(s.Frames) == 0 {
		return "(empty)"
	}
	var b strings.Builder
	for _, f := range s.Frames {
		switch v := f.(type) {
		case arena.ForFrame:
			fmt.Fprintf(&b, "FOR %c TO %d STEP %d (resume line %d)\n", v.Variable, v.Terminal, v.Step, v.Line)
		case arena.GosubFrame:
			fmt.Fprintf(&b, "GOSUB (return line %d)\n", v.Line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderProgram formats the full program listing.
func RenderProgram(a *arena.Arena) string {
	var b strings.Builder
	a.Walk(func(lineNum uint16, body []byte) bool {
		fmt.Fprintf(&b, "%d %s", lineNum, body)
		return true
	})
	if b.Len() == 0 {
		return "(empty program)"
	}
	return strings.TrimRight(b.String(), "\n")
}

// modeLabel renders the interpreter's mode for status lines.
func modeLabel(m interp.Mode) string {
	if m == interp.ModeProgram {
		return "RUN"
	}
	return "direct"
}
