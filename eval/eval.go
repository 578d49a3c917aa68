package eval

import "github.com/sbelectronics/tbasic/arena"

// Host is the subset of host-interface functions the evaluator needs to
// resolve PEEK/INP/RAND; kept minimal and local to avoid coupling the
// evaluator to the full host package.
type Host interface {
	Peek(addr int16) byte
	Inp(port int16) byte
	Rand(n int16) int16
}

// Evaluator is a recursive-descent parser over a Scanner's bytes, producing
// 16-bit signed integers. It shares a single error flag across all levels
// instead of threading an error return through every call: this keeps the
// descent itself pure and lets the statement layer decide whether a given
// expression even needed to succeed. Evaluation always continues to a
// well-defined cursor position after an error, so the statement layer can
// report the offending column.
type Evaluator struct {
	Scanner   *Scanner
	Arena     *arena.Arena
	Host      Host
	ErrorFlag bool
}

// New returns an evaluator reading from s against the given arena and host.
func New(s *Scanner, a *arena.Arena, h Host) *Evaluator {
	return &Evaluator{Scanner: s, Arena: a, Host: h}
}

func (e *Evaluator) fail() int16 {
	e.ErrorFlag = true
	return 0
}

// Eval parses and evaluates a full expression at level 1 (relational), the
// entry point for every caller.
func (e *Evaluator) Eval() int16 {
	return e.level1()
}

// level1 is the relational level: an optional trailing relational operator
// over two level-2 operands; relationals do not chain.
func (e *Evaluator) level1() int16 {
	lhs := e.level2()
	rel := e.Scanner.MatchTable(RelationalTable)
	if rel == RelUnknown {
		return lhs
	}
	rhs := e.level2()
	var result bool
	switch rel {
	case RelGE:
		result = lhs >= rhs
	case RelNE:
		result = lhs != rhs
	case RelGT:
		result = lhs > rhs
	case RelEQ:
		result = lhs == rhs
	case RelLE:
		result = lhs <= rhs
	case RelLT:
		result = lhs < rhs
	}
	if result {
		return 1
	}
	return 0
}

// level2 is the additive level: optional leading unary +/- (taken by
// substituting a zero operand), then left-associative + and -.
func (e *Evaluator) level2() int16 {
	var v int16
	s := e.Scanner
	s.SkipBlanks()
	switch s.Peek() {
	case '+':
		s.Pos++
		v = 0 + e.level3()
	case '-':
		s.Pos++
		v = 0 - e.level3()
	default:
		v = e.level3()
	}
	for {
		s.SkipBlanks()
		switch s.Peek() {
		case '+':
			s.Pos++
			v += e.level3()
		case '-':
			s.Pos++
			v -= e.level3()
		default:
			return v
		}
	}
}

// level3 is the multiplicative level: left-associative *, /, and MOD. Division
// by zero sets the error flag but does not abort parsing; the partial
// result is undefined but the cursor still advances to the end of the
// expression.
func (e *Evaluator) level3() int16 {
	v := e.level4()
	s := e.Scanner
	for {
		s.SkipBlanks()
		switch s.Peek() {
		case '*':
			s.Pos++
			v *= e.level4()
		case '/':
			s.Pos++
			rhs := e.level4()
			if rhs == 0 {
				e.fail()
				continue
			}
			v /= rhs
		default:
			if matchMod(s) {
				rhs := e.level4()
				if rhs == 0 {
					e.fail()
					continue
				}
				v %= rhs
			} else {
				return v
			}
		}
	}
}

// matchMod recognizes the MOD operator as a plain keyword, not via a table
// (it is the only multi-letter operator at this level).
func matchMod(s *Scanner) bool {
	start := s.Pos
	if start+3 > len(s.Buf) {
		return false
	}
	if upperByte(s.Buf[start]) != 'M' || upperByte(s.Buf[start+1]) != 'O' || upperByte(s.Buf[start+2]) != 'D' {
		return false
	}
	s.Pos = start + 3
	s.SkipBlanks()
	return true
}

// level4 parses atoms: literals, variable/array
// references, function calls, and parenthesized sub-expressions.
func (e *Evaluator) level4() int16 {
	s := e.Scanner
	s.SkipBlanks()

	if hv, ok := s.TryParseHexLiteral(); ok {
		s.SkipBlanks()
		return hv
	}
	if dv, ok := s.ParseDecimalLiteral(); ok {
		s.SkipBlanks()
		return dv
	}
	if s.Peek() == '(' {
		s.Pos++
		v := e.level1()
		s.SkipBlanks()
		if s.Peek() != ')' {
			return e.fail()
		}
		s.Pos++
		s.SkipBlanks()
		return v
	}

	c := s.Peek()
	if c >= 'A' && c <= 'Z' {
		letter := c
		s.Pos++
		switch {
		case s.Peek() == '(':
			s.Pos++
			index := e.level1()
			s.SkipBlanks()
			if s.Peek() != ')' {
				return e.fail()
			}
			s.Pos++
			s.SkipBlanks()
			v, err := e.Arena.ArrayGet(letter, int(index))
			if err != nil {
				return e.fail()
			}
			return v
		case s.Peek() >= 'A' && s.Peek() <= 'Z':
			// A second consecutive letter means this is a multi-letter
			// function name (PEEK, ABS, HIGH, LOW, INP, FRE, RAND); rewind
			// to the first letter and match it against the function table.
			s.Pos--
		default:
			// Not '(' and not another letter: a bare single-letter variable.
			v, err := e.Arena.Variable(letter)
			if err != nil {
				return e.fail()
			}
			s.SkipBlanks()
			return v
		}
	}

	fn := s.MatchTable(FunctionTable)
	if fn == FuncUnknown {
		return e.fail()
	}
	return e.evalFunction(fn)
}

func (e *Evaluator) evalFunction(fn int) int16 {
	s := e.Scanner
	switch fn {
	case FuncHigh:
		return 1
	case FuncLow:
		return 0
	}

	s.SkipBlanks()
	if s.Peek() != '(' {
		return e.fail()
	}
	s.Pos++
	arg := e.level1()
	s.SkipBlanks()
	if s.Peek() != ')' {
		return e.fail()
	}
	s.Pos++
	s.SkipBlanks()

	switch fn {
	case FuncPeek:
		return int16(e.Host.Peek(arg))
	case FuncAbs:
		if arg < 0 {
			return -arg
		}
		return arg
	case FuncInp:
		return int16(e.Host.Inp(arg))
	case FuncFre:
		// Takes (and ignores) an argument, like the other functions.
		return e.Arena.FreeBytes()
	case FuncRand:
		if arg <= 0 {
			return e.fail()
		}
		return e.Host.Rand(arg)
	default:
		return e.fail()
	}
}
