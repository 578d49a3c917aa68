// Package interp implements the statement dispatch loop and control-flow
// stack driving program execution.
package interp

import (
	"github.com/sbelectronics/tbasic/arena"
	"github.com/sbelectronics/tbasic/eval"
	"github.com/sbelectronics/tbasic/host"
)

// Mode distinguishes direct-mode execution (a typed line with no line
// number, run once) from program-mode execution (stored lines run in
// ascending order, driven by RUN or autorun).
type Mode int

const (
	ModeDirect Mode = iota
	ModeProgram
)

// Outcome is the transition a statement handler reports back to the
// dispatch loop.
type Outcome int

const (
	// OutcomeContinue means more statements remain to execute from the
	// interpreter's current scanner (either `:` was consumed, or a jump
	// repositioned the scanner onto a new line's body).
	OutcomeContinue Outcome = iota
	// OutcomeNextLine means this line is finished: advance to the next
	// stored line in program mode, or return to the prompt in direct mode.
	OutcomeNextLine
	// OutcomeHalt means the program itself has finished (END, STOP, or a
	// GOTO/GOSUB target past the last stored line): stop running
	// immediately rather than advancing to whatever record happens to
	// follow the current one.
	OutcomeHalt
	// OutcomeExit means BYE/SYSTEM was executed.
	OutcomeExit
)

// Interpreter ties together the arena, the host, and the evaluator to
// execute statements read directly from stored or typed source text.
type Interpreter struct {
	Arena *arena.Arena
	Host  host.Host
	Echo  bool

	mode        Mode
	currentLine uint16
	offset      int // arena offset of the current stored record (program mode)
	scanner     *eval.Scanner
	directBuf   []byte // retained so GOSUB from direct mode can RETURN into it
	exited      bool
}

// New returns an interpreter over the given arena and host.
func New(a *arena.Arena, h host.Host) *Interpreter {
	return &Interpreter{Arena: a, Host: h, Echo: true}
}

// Mode reports whether the interpreter is currently in direct or program mode.
func (in *Interpreter) Mode() Mode { return in.mode }

// CurrentLine reports the line number currently executing (0 in direct mode).
func (in *Interpreter) CurrentLine() uint16 { return in.currentLine }

// ExitRequested reports whether the last run ended with BYE/SYSTEM, which
// asks the enclosing REPL to shut down rather than return to the prompt.
func (in *Interpreter) ExitRequested() bool { return in.exited }

func (in *Interpreter) newExprEvaluator() *eval.Evaluator {
	return eval.New(in.scanner, in.Arena, evalHost{in.Host})
}

// evalHost adapts the full host.Host interface to the small surface eval.Host needs.
type evalHost struct{ h host.Host }

func (e evalHost) Peek(addr int16) byte { return e.h.Peek(addr) }
func (e evalHost) Inp(port int16) byte  { return e.h.Inp(port) }
func (e evalHost) Rand(n int16) int16   { return e.h.Rand(n) }

// RunDirect executes a single typed line (no stored line number) once, in
// direct mode, returning to the caller when the line finishes or an error
// occurs.
func (in *Interpreter) RunDirect(line []byte) *Error {
	in.StartDirect(line)
	return in.run()
}

// RunProgram begins program-mode execution at the first stored line.
func (in *Interpreter) RunProgram() *Error {
	if !in.StartProgram() {
		return nil // empty program: nothing to run
	}
	return in.run()
}

// StartDirect positions the interpreter to begin a direct-mode line without
// running it, letting a caller (e.g. a single-stepping monitor) drive
// execution one Step at a time.
func (in *Interpreter) StartDirect(line []byte) {
	in.mode = ModeDirect
	in.currentLine = 0
	in.exited = false
	in.directBuf = line
	in.scanner = eval.NewScanner(line)
}

// StartProgram positions the interpreter at the first stored line without
// running it. Returns false if the program is empty.
func (in *Interpreter) StartProgram() bool {
	in.mode = ModeProgram
	in.exited = false
	return in.gotoOffset(in.Arena.FindLine(0))
}

// gotoOffset repositions execution to the record at offset. Returns false
// if offset is at or past program end (nothing more to run).
func (in *Interpreter) gotoOffset(offset int) bool {
	lineNum, body, ok := in.Arena.RecordAt(offset)
	if !ok {
		return false
	}
	in.offset = offset
	in.currentLine = lineNum
	in.mode = ModeProgram
	in.scanner = eval.NewScanner(body)
	return true
}

// gotoDirect restores direct-mode execution at the given cursor within the
// retained direct-mode buffer (used when a GOSUB entered from direct mode
// RETURNs).
func (in *Interpreter) gotoDirect(cursor int) {
	in.mode = ModeDirect
	in.currentLine = 0
	in.scanner = eval.NewScanner(in.directBuf)
	in.scanner.Pos = cursor
}

// run drives the statement dispatch loop until the line (direct mode) or
// program (program mode) finishes, BYE/SYSTEM is hit, or an error occurs.
func (in *Interpreter) run() *Error {
	for {
		outcome, err := in.Step()
		if err != nil {
			return err
		}
		if outcome == OutcomeExit {
			in.exited = true
			return nil
		}
		if outcome == OutcomeHalt {
			return nil
		}
	}
}

// Step executes exactly one statement and advances the interpreter's
// position accordingly, the unit of work a single-stepping monitor drives
// one call at a time. OutcomeHalt means the line (direct mode) or the
// program (program mode, including running off the last stored line) has
// finished; the caller should stop calling Step.
func (in *Interpreter) Step() (Outcome, *Error) {
	if in.mode == ModeProgram {
		if in.Host.KeyHit() {
			if in.Host.Getch() == 0x03 { // Ctrl-C
				return OutcomeHalt, NewError(KindBreak)
			}
		}
	}

	outcome, err := in.stepStatement()
	if err != nil {
		return outcome, err
	}

	switch outcome {
	case OutcomeNextLine:
		if in.mode == ModeDirect {
			return OutcomeHalt, nil
		}
		if !in.gotoOffset(in.Arena.NextRecordOffset(in.offset)) {
			return OutcomeHalt, nil // program ran off the end: clean completion
		}
		return OutcomeContinue, nil
	}
	return outcome, nil
}

// stepStatement executes exactly one statement from the interpreter's
// current scanner and reports the dispatch outcome.
func (in *Interpreter) stepStatement() (Outcome, *Error) {
	s := in.scanner
	s.SkipBlanks()
	for s.Peek() == ':' { // empty statement
		s.Pos++
		s.SkipBlanks()
	}
	if s.AtEnd() {
		return OutcomeNextLine, nil
	}

	if isAssignmentStart(s) {
		return in.stmtAssign(s)
	}

	kw := s.MatchTable(eval.StatementTable)
	handler, ok := statementHandlers[kw]
	if !ok {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	return handler(in, s)
}

// afterStatement inspects the cursor: `:` means another statement
// follows on the same line; anything else ends the line.
func afterStatement(s *eval.Scanner) Outcome {
	s.SkipBlanks()
	if s.Peek() == ':' {
		s.Pos++
		return OutcomeContinue
	}
	return OutcomeNextLine
}

// isAssignmentStart distinguishes the bare-assignment shorthand (`VAR =
// expr` / `ARR(i) = expr`) from a multi-letter statement keyword. Since
// identifiers are always exactly one letter, a letter immediately followed
// by another letter can only be the start of a keyword (FOR, PRINT, ...);
// a letter followed by `(` or `=` (or blanks) can only be an assignment
// target, because no statement keyword is a single letter.
func isAssignmentStart(s *eval.Scanner) bool {
	if s.Pos >= len(s.Buf) {
		return false
	}
	c := s.Buf[s.Pos]
	if c < 'A' || c > 'Z' {
		return false
	}
	if s.Pos+1 < len(s.Buf) {
		next := s.Buf[s.Pos+1]
		if next >= 'A' && next <= 'Z' {
			return false
		}
	}
	return true
}
