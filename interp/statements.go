package interp

import (
	"fmt"

	"github.com/sbelectronics/tbasic/arena"
	"github.com/sbelectronics/tbasic/eval"
)

// handlerFunc executes one statement whose keyword has already been
// consumed from s, returning the dispatch outcome.
type handlerFunc func(in *Interpreter, s *eval.Scanner) (Outcome, *Error)

var statementHandlers = map[int]handlerFunc{
	eval.StmtList:   (*Interpreter).stmtList,
	eval.StmtLoad:   (*Interpreter).stmtLoad,
	eval.StmtNew:    (*Interpreter).stmtNew,
	eval.StmtRun:    (*Interpreter).stmtRun,
	eval.StmtSave:   (*Interpreter).stmtSave,
	eval.StmtNext:   (*Interpreter).stmtNext,
	eval.StmtLet:    (*Interpreter).stmtLet,
	eval.StmtIf:     (*Interpreter).stmtIf,
	eval.StmtGoto:   (*Interpreter).stmtGoto,
	eval.StmtGosub:  (*Interpreter).stmtGosub,
	eval.StmtReturn: (*Interpreter).stmtReturn,
	eval.StmtRem:    (*Interpreter).stmtRem,
	eval.StmtFor:    (*Interpreter).stmtFor,
	eval.StmtInput:  (*Interpreter).stmtInput,
	eval.StmtPrint:  (*Interpreter).stmtPrint,
	eval.StmtPoke:   (*Interpreter).stmtPoke,
	eval.StmtStop:   (*Interpreter).stmtStop,
	eval.StmtBye:    (*Interpreter).stmtBye,
	eval.StmtSystem: (*Interpreter).stmtBye,
	eval.StmtOut:    (*Interpreter).stmtOut,
	eval.StmtSleep:  (*Interpreter).stmtSleep,
	eval.StmtClear:  (*Interpreter).stmtClear,
	eval.StmtDim:    (*Interpreter).stmtDim,
	eval.StmtEnd:    (*Interpreter).stmtEnd,
}

// checkStatementEnd reports whether the cursor, after skipping blanks, sits
// at a statement terminator (newline, colon, or end of buffer).
func checkStatementEnd(s *eval.Scanner) bool {
	s.SkipBlanks()
	return s.Peek() == '\n' || s.Peek() == ':' || s.Peek() == 0
}

// evalExpr evaluates a full expression at the cursor, turning the
// evaluator's error flag into an invalid-expression Error.
func (in *Interpreter) evalExpr(s *eval.Scanner) (int16, *Error) {
	e := in.newExprEvaluator()
	v := e.Eval()
	if e.ErrorFlag {
		return 0, NewError(KindInvalidExpression)
	}
	return v, nil
}

// stmtAssign implements bare `VAR = expr` / `ARR(index) = expr`.
func (in *Interpreter) stmtAssign(s *eval.Scanner) (Outcome, *Error) {
	letter := s.Buf[s.Pos]
	s.Pos++

	if s.Peek() == '(' {
		s.Pos++
		index, err := in.evalExpr(s)
		if err != nil {
			return OutcomeNextLine, err
		}
		s.SkipBlanks()
		if s.Peek() != ')' {
			return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
		}
		s.Pos++
		s.SkipBlanks()
		if s.Peek() != '=' {
			return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
		}
		s.Pos++
		s.SkipBlanks()
		value, err := in.evalExpr(s)
		if err != nil {
			return OutcomeNextLine, err
		}
		if !checkStatementEnd(s) {
			return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
		}
		if err := in.Arena.ArraySet(letter, int(index), value); err != nil {
			return OutcomeNextLine, NewError(KindBounds)
		}
		return afterStatement(s), nil
	}

	s.SkipBlanks()
	if s.Peek() != '=' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	s.Pos++
	s.SkipBlanks()
	value, err := in.evalExpr(s)
	if err != nil {
		return OutcomeNextLine, err
	}
	if !checkStatementEnd(s) {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	if verr := in.Arena.SetVariable(letter, value); verr != nil {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	return afterStatement(s), nil
}

func (in *Interpreter) stmtLet(s *eval.Scanner) (Outcome, *Error) {
	s.SkipBlanks()
	c := s.Peek()
	if c < 'A' || c > 'Z' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	return in.stmtAssign(s)
}

// stmtIf implements IF: non-zero continues at the current cursor, zero
// skips to the next stored line. An expression that ends the line with no
// trailing statement is itself an invalid-expression error.
func (in *Interpreter) stmtIf(s *eval.Scanner) (Outcome, *Error) {
	v, err := in.evalExpr(s)
	if err != nil {
		return OutcomeNextLine, err
	}
	if s.AtEnd() {
		return OutcomeNextLine, NewError(KindInvalidExpression)
	}
	if v != 0 {
		return OutcomeContinue, nil
	}
	return OutcomeNextLine, nil
}

func (in *Interpreter) stmtGoto(s *eval.Scanner) (Outcome, *Error) {
	n, err := in.evalExpr(s)
	if err != nil {
		return OutcomeNextLine, err
	}
	if !s.AtEnd() {
		return OutcomeNextLine, NewError(KindInvalidExpression)
	}
	return in.jumpTo(uint16(n))
}

// jumpTo repositions execution at findline(n); running off the end of the
// program is a clean halt (matches END's own mechanism).
func (in *Interpreter) jumpTo(n uint16) (Outcome, *Error) {
	in.mode = ModeProgram
	offset := in.Arena.FindLine(n)
	if !in.gotoOffset(offset) {
		return OutcomeHalt, nil
	}
	return OutcomeContinue, nil
}

func (in *Interpreter) stmtGosub(s *eval.Scanner) (Outcome, *Error) {
	n, err := in.evalExpr(s)
	if err != nil {
		return OutcomeNextLine, err
	}
	if !s.AtEnd() {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	if perr := in.Arena.PushGosub(arena.GosubFrame{Cursor: int16(s.Pos), Line: in.currentLine}); perr != nil {
		return OutcomeNextLine, NewError(KindNoMem)
	}
	return in.jumpTo(uint16(n))
}

func (in *Interpreter) stmtReturn(s *eval.Scanner) (Outcome, *Error) {
	frame, offset, ok, err := in.Arena.WalkForReturn()
	if err != nil {
		return OutcomeNextLine, NewError(KindStackStuffed)
	}
	if !ok {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	in.Arena.PopDiscard(offset) // discard the gosub frame and any inner FOR frames above it
	return in.restore(frame.Line, int(frame.Cursor))
}

// restore repositions execution at a saved (line, cursor) pair, handling
// both the direct-mode (line 0, retained buffer) and program-mode case.
func (in *Interpreter) restore(line uint16, cursor int) (Outcome, *Error) {
	if line == 0 {
		in.gotoDirect(cursor)
		return OutcomeContinue, nil
	}
	offset := in.Arena.FindLine(line)
	_, _, ok := in.Arena.RecordAt(offset)
	if !ok {
		return OutcomeHalt, nil
	}
	in.gotoOffset(offset)
	in.scanner.Pos = cursor
	return OutcomeContinue, nil
}

// stmtNext implements NEXT: expects an immediately following variable
// name, then walks the stack for the matching FOR frame.
func (in *Interpreter) stmtNext(s *eval.Scanner) (Outcome, *Error) {
	s.SkipBlanks()
	c := s.Peek()
	if c < 'A' || c > 'Z' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	s.Pos++
	if !checkStatementEnd(s) {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}

	frame, offset, ok, err := in.Arena.WalkForNext(c)
	if err != nil {
		return OutcomeNextLine, NewError(KindStackStuffed)
	}
	if !ok {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}

	v, _ := in.Arena.Variable(c)
	v += frame.Step
	_ = in.Arena.SetVariable(c, v)

	if (frame.Step > 0 && v <= frame.Terminal) || (frame.Step < 0 && v >= frame.Terminal) {
		in.Arena.PopTo(offset)
		return in.restore(frame.Line, int(frame.Cursor))
	}
	in.Arena.PopDiscard(offset)
	return afterStatement(s), nil
}

// stmtFor implements FOR V = init TO term [STEP s]. The body always runs
// once before the terminal is first tested, since the test happens at
// NEXT.
func (in *Interpreter) stmtFor(s *eval.Scanner) (Outcome, *Error) {
	s.SkipBlanks()
	c := s.Peek()
	if c < 'A' || c > 'Z' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	s.Pos++
	s.SkipBlanks()
	if s.Peek() != '=' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	s.Pos++
	s.SkipBlanks()

	initial, err := in.evalExpr(s)
	if err != nil {
		return OutcomeNextLine, err
	}
	if s.MatchTable(eval.ToTable) != 0 {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	terminal, err := in.evalExpr(s)
	if err != nil {
		return OutcomeNextLine, err
	}

	step := int16(1)
	if s.MatchTable(eval.StepTable) == 0 {
		step, err = in.evalExpr(s)
		if err != nil {
			return OutcomeNextLine, err
		}
	}
	if !checkStatementEnd(s) {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}

	if perr := in.Arena.PushFor(arena.ForFrame{
		Variable: c, Terminal: terminal, Step: step,
		Cursor: int16(s.Pos), Line: in.currentLine,
	}); perr != nil {
		return OutcomeNextLine, NewError(KindNoMem)
	}
	_ = in.Arena.SetVariable(c, initial)
	return afterStatement(s), nil
}

func (in *Interpreter) stmtRem(s *eval.Scanner) (Outcome, *Error) {
	s.Pos = len(s.Buf)
	return OutcomeNextLine, nil
}

// stmtPrint implements PRINT: comma-separated quoted strings or
// expressions, trailing `;` suppresses the newline.
func (in *Interpreter) stmtPrint(s *eval.Scanner) (Outcome, *Error) {
	if s.Peek() == ':' {
		in.Host.PutNL()
		return afterStatement(s), nil
	}
	if s.AtEnd() {
		return OutcomeNextLine, nil
	}

	for {
		s.SkipBlanks()
		if q := s.Peek(); q == '"' || q == '\'' {
			body, ok := readQuoted(s, q)
			if !ok {
				return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
			}
			for _, b := range body {
				in.Host.Putch(b)
			}
		} else {
			v, err := in.evalExpr(s)
			if err != nil {
				return OutcomeNextLine, err
			}
			for _, b := range []byte(fmt.Sprintf("%d", v)) {
				in.Host.Putch(b)
			}
		}

		switch {
		case s.Peek() == ',':
			s.Pos++
		case s.Peek() == ';' && (s.Pos+1 >= len(s.Buf) || s.Buf[s.Pos+1] == '\n' || s.Buf[s.Pos+1] == ':'):
			s.Pos++
			return afterStatement(s), nil
		case checkStatementEnd(s):
			in.Host.PutNL()
			return afterStatement(s), nil
		default:
			return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
		}
	}
}

// readQuoted consumes a quoted string literal starting at the delimiter
// and returns its contents verbatim (case preserved).
func readQuoted(s *eval.Scanner, delim byte) ([]byte, bool) {
	start := s.Pos + 1
	i := start
	for i < len(s.Buf) && s.Buf[i] != delim {
		if s.Buf[i] == '\n' {
			return nil, false
		}
		i++
	}
	if i >= len(s.Buf) {
		return nil, false
	}
	body := s.Buf[start:i]
	s.Pos = i + 1
	s.SkipBlanks()
	return body, true
}

// stmtInput implements INPUT V: prompt with `?`, accept an optional
// leading `-` then decimal digits (not a full expression).
func (in *Interpreter) stmtInput(s *eval.Scanner) (Outcome, *Error) {
	s.SkipBlanks()
	c := s.Peek()
	if c < 'A' || c > 'Z' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	s.Pos++
	if !checkStatementEnd(s) {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}

	for {
		in.Host.Putch('?')
		line, status := ReadLine(in.Host, in.Echo, defaultLineBufferSize)
		if status == LineCancelled || status == LineEOF {
			return OutcomeHalt, nil
		}

		ls := eval.NewScanner(line)
		neg := false
		if ls.Peek() == '-' {
			neg = true
			ls.Pos++
		}
		v, ok := ls.ParseDecimalLiteral()
		ls.SkipBlanks()
		if !ok || ls.Pos < len(ls.Buf) {
			in.Host.PutNL()
			for _, b := range []byte("bad input") {
				in.Host.Putch(b)
			}
			in.Host.PutNL()
			continue
		}
		if neg {
			v = -v
		}
		_ = in.Arena.SetVariable(c, v)
		return afterStatement(s), nil
	}
}

func (in *Interpreter) stmtPoke(s *eval.Scanner) (Outcome, *Error) {
	addr, val, err := in.evalPair(s)
	if err != nil {
		return OutcomeNextLine, err
	}
	in.Host.Poke(addr, byte(val))
	return afterStatement(s), nil
}

func (in *Interpreter) stmtOut(s *eval.Scanner) (Outcome, *Error) {
	port, val, err := in.evalPair(s)
	if err != nil {
		return OutcomeNextLine, err
	}
	in.Host.Outp(port, byte(val))
	return afterStatement(s), nil
}

// evalPair evaluates `expr, expr` followed by a statement terminator, the
// shared shape of POKE and OUT.
func (in *Interpreter) evalPair(s *eval.Scanner) (first, second int16, err *Error) {
	first, err = in.evalExpr(s)
	if err != nil {
		return 0, 0, err
	}
	s.SkipBlanks()
	if s.Peek() != ',' {
		return 0, 0, NewSyntaxError(s.Buf, s.Pos)
	}
	s.Pos++
	s.SkipBlanks()
	second, err = in.evalExpr(s)
	if err != nil {
		return 0, 0, err
	}
	if !checkStatementEnd(s) {
		return 0, 0, NewSyntaxError(s.Buf, s.Pos)
	}
	return first, second, nil
}

func (in *Interpreter) stmtSleep(s *eval.Scanner) (Outcome, *Error) {
	ms, err := in.evalExpr(s)
	if err != nil {
		return OutcomeNextLine, err
	}
	in.Host.Sleep(ms)
	return afterStatement(s), nil
}

// stmtList implements LIST [n]: n is a plain line-number literal
// (not a full expression), and the statement must end the line.
func (in *Interpreter) stmtList(s *eval.Scanner) (Outcome, *Error) {
	n := s.ParseLineNumber()
	s.SkipBlanks()
	if !s.AtEnd() {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	_ = in.Arena.PrintProgram(hostWriter{in.Host}, n)
	return OutcomeNextLine, nil
}

// hostWriter adapts host.Host's Putch to io.Writer for PrintProgram/SAVE.
type hostWriter struct{ h interface{ Putch(byte) } }

func (w hostWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		w.h.Putch(b)
	}
	return len(p), nil
}

func (in *Interpreter) stmtNew(s *eval.Scanner) (Outcome, *Error) {
	if !s.AtEnd() {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	in.Arena.NewProgram()
	return OutcomeNextLine, nil
}

func (in *Interpreter) stmtClear(s *eval.Scanner) (Outcome, *Error) {
	in.Arena.Clear()
	return afterStatement(s), nil
}

// stmtDim implements DIM V(n): n is the maximum zero-based subscript,
// so the array gets n+1 cells.
func (in *Interpreter) stmtDim(s *eval.Scanner) (Outcome, *Error) {
	s.SkipBlanks()
	c := s.Peek()
	if c < 'A' || c > 'Z' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	s.Pos++
	s.SkipBlanks()
	if s.Peek() != '(' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	s.Pos++
	n, err := in.evalExpr(s)
	if err != nil {
		return OutcomeNextLine, err
	}
	s.SkipBlanks()
	if s.Peek() != ')' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	s.Pos++
	if !checkStatementEnd(s) {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	if derr := in.Arena.Dim(c, int(n)+1); derr != nil {
		return OutcomeNextLine, NewError(KindNoMem)
	}
	return afterStatement(s), nil
}

func (in *Interpreter) stmtRun(s *eval.Scanner) (Outcome, *Error) {
	in.mode = ModeProgram
	if !in.gotoOffset(in.Arena.FindLine(0)) {
		return OutcomeHalt, nil
	}
	return OutcomeContinue, nil
}

func (in *Interpreter) stmtEnd(s *eval.Scanner) (Outcome, *Error) {
	if !s.AtEnd() {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	return OutcomeHalt, nil
}

func (in *Interpreter) stmtStop(s *eval.Scanner) (Outcome, *Error) {
	if !s.AtEnd() {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	for _, b := range []byte("break!") {
		in.Host.Putch(b)
	}
	in.Host.PutNL()
	return OutcomeHalt, nil
}

func (in *Interpreter) stmtBye(s *eval.Scanner) (Outcome, *Error) {
	return OutcomeExit, nil
}

// stmtSave implements SAVE "fn": delegates to the host's
// byte-stream write, emitting the program text via PrintProgram.
func (in *Interpreter) stmtSave(s *eval.Scanner) (Outcome, *Error) {
	s.SkipBlanks()
	q := s.Peek()
	if q != '"' && q != '\'' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	name, ok := readQuoted(s, q)
	if !ok {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	if err := in.Host.OpenWrite(string(name)); err != nil {
		return OutcomeNextLine, NewError(KindIO)
	}
	_ = in.Arena.PrintProgram(hostWriter{in.Host}, 0)
	_ = in.Host.CloseFile()
	return OutcomeNextLine, nil
}

// stmtLoad implements LOAD "fn": reads lines from the file as if
// typed, with echo suppressed, stopping at anything other than a clean
// insert or an empty line.
func (in *Interpreter) stmtLoad(s *eval.Scanner) (Outcome, *Error) {
	s.SkipBlanks()
	q := s.Peek()
	if q != '"' && q != '\'' {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	name, ok := readQuoted(s, q)
	if !ok {
		return OutcomeNextLine, NewSyntaxError(s.Buf, s.Pos)
	}
	if err := in.Host.OpenRead(string(name)); err != nil {
		return OutcomeNextLine, NewError(KindIO)
	}
	defer func() { _ = in.Host.CloseFile() }()

	in.Arena.ClearProgram()
	for {
		line, status := ReadLine(in.Host, false, defaultLineBufferSize)
		if status == LineEOF && len(line) == 0 {
			return OutcomeNextLine, nil
		}
		if status == LineCancelled {
			return OutcomeNextLine, nil
		}
		switch result, _ := ProcessLine(in.Arena, line); result {
		case LineStored, LineEmpty:
			continue
		default:
			return OutcomeNextLine, nil
		}
	}
}
