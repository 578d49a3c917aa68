package interp

import (
	"fmt"

	"github.com/sbelectronics/tbasic/arena"
	"github.com/sbelectronics/tbasic/eval"
	"github.com/sbelectronics/tbasic/host"
)

// Banner text printed on cold start, followed by the free-byte report.
const bannerText = "Not-So-Tiny Basic, a Go port of Palo Alto Tiny BASIC"

// LineResult classifies the outcome of feeding one raw line through
// ProcessLine.
type LineResult int

const (
	// LineEmpty means the line was blank (after an optional, absent line
	// number): nothing to execute or store.
	LineEmpty LineResult = iota
	// LineDirect means no line number was present: the caller should
	// execute DirectBody.
	LineDirect
	// LineBadNumber means the line-number literal exceeded the maximum
	// accepted value.
	LineBadNumber
	// LineDeleted means a bare `<n>` (no body) removed any existing line
	// with that number; it is reported even when no such line existed.
	LineDeleted
	// LineStored means the line was inserted or replaced in the program.
	LineStored
	// LineNoMem means the program store had no room left for the line.
	LineNoMem
)

// ProcessLine takes one raw entered line: uppercase outside quotes, parse
// an optional leading line number, and either report a direct-mode command
// body or splice the line into the program store.
func ProcessLine(a *arena.Arena, raw []byte) (result LineResult, directBody []byte) {
	line := make([]byte, len(raw)+1)
	copy(line, raw)
	line[len(raw)] = '\n'
	UppercaseOutsideQuotes(line)

	s := eval.NewScanner(line)
	n := s.ParseLineNumber()
	s.SkipBlanks()

	if n == 0 {
		if s.Peek() == '\n' {
			return LineEmpty, nil
		}
		return LineDirect, line[s.Pos:]
	}
	if n == arena.OverflowSentinel {
		return LineBadNumber, nil
	}

	body := line[s.Pos:]
	if len(body)-1 > arena.MaxBodyLen {
		return LineNoMem, nil
	}
	isDelete := len(body) == 1 // just the trailing newline
	rec := arena.EncodeRecord(n, body[:len(body)-1])
	if err := a.Insert(rec); err != nil {
		return LineNoMem, nil
	}
	if isDelete {
		return LineDeleted, nil
	}
	return LineStored, nil
}

// REPL drives the top-level PROMPT/PARSE/WARMSTART/EXEC/EXIT state
// machine.
type REPL struct {
	Arena      *arena.Arena
	Host       host.Host
	Interp     *Interpreter
	ShowBanner bool
}

// NewREPL returns a REPL over a, driving statements through a fresh
// Interpreter against h.
func NewREPL(a *arena.Arena, h host.Host) *REPL {
	return &REPL{Arena: a, Host: h, Interp: New(a, h)}
}

func (r *REPL) print(msg string) {
	for _, b := range []byte(msg) {
		r.Host.Putch(b)
	}
	r.Host.PutNL()
}

// Banner prints the startup banner and free-byte count. File autorun
// suppresses it.
func (r *REPL) Banner() {
	if !r.ShowBanner {
		return
	}
	r.print(bannerText)
	r.print(fmt.Sprintf("%d bytes free.", r.Arena.FreeBytes()))
}

// Run enters the interactive loop: read a line, either execute it directly
// or splice it into the program, report errors, and repeat until
// BYE/SYSTEM or EOF.
func (r *REPL) Run() {
	r.Banner()
	for {
		if !r.warmstart() {
			return
		}
	}
}

// warmstart implements the WARMSTART/PROMPT state: reset the control stack
// (leaving program and variables intact), print OK, and process typed
// lines (storing, deleting or rejecting numbered ones) until one is
// executed in direct mode or the program store runs out of room. Returns
// false when the REPL should exit.
func (r *REPL) warmstart() bool {
	r.Arena.ResetStack()
	r.print("OK")

	for {
		line, status := ReadLine(r.Host, r.Interp.Echo, defaultLineBufferSize)
		if status == LineCancelled {
			r.Host.PutNL()
			continue
		}
		if status == LineEOF && len(line) == 0 {
			return false
		}

		result, direct := ProcessLine(r.Arena, line)
		switch result {
		case LineEmpty, LineStored, LineDeleted:
			continue
		case LineBadNumber:
			r.print("Invalid line number")
			continue
		case LineNoMem:
			r.print("Not enough memory!")
			return true
		case LineDirect:
			return r.execDirect(direct)
		}
	}
}

// execDirect runs a typed direct-mode line and reports any resulting error.
// Every error, break included, returns to the prompt; only BYE/SYSTEM ends
// the REPL.
func (r *REPL) execDirect(body []byte) bool {
	if err := r.Interp.RunDirect(body); err != nil {
		r.reportError(err)
		return true
	}
	return !r.Interp.ExitRequested()
}

// RunProgram executes the stored program (RUN or file autorun) and reports
// any resulting error. It returns nothing; a BYE/SYSTEM request is visible
// afterwards through Interp.ExitRequested.
func (r *REPL) RunProgram() {
	err := r.Interp.RunProgram()
	if err != nil {
		r.reportError(err)
	}
}

func (r *REPL) reportError(err *Error) {
	r.print(err.Kind.String())
	if err.Kind == KindSyntax && err.Line != nil {
		for _, b := range []byte(err.CaretLine()) {
			r.Host.Putch(b)
		}
	}
}
