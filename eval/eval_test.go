package eval

import (
	"testing"

	"github.com/sbelectronics/tbasic/arena"
)

type fakeHost struct {
	mem  [65536]byte
	port [256]byte
	seed int16
}

func (h *fakeHost) Peek(addr int16) byte { return h.mem[uint16(addr)] }
func (h *fakeHost) Inp(port int16) byte  { return h.port[uint16(port)&0xFF] }
func (h *fakeHost) Rand(n int16) int16 {
	if n <= 0 {
		return 0
	}
	return h.seed % n
}

func evalString(t *testing.T, a *arena.Arena, h Host, src string) (int16, bool) {
	t.Helper()
	s := NewScanner(append([]byte(src), '\n'))
	e := New(s, a, h)
	v := e.Eval()
	return v, e.ErrorFlag
}

func TestArithmeticPrecedence(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	v, errFlag := evalString(t, a, &fakeHost{}, "2+3*4")
	if errFlag || v != 14 {
		t.Errorf("got %d, errFlag=%v, want 14", v, errFlag)
	}
}

func TestHexLiteralAndMod(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	v, errFlag := evalString(t, a, &fakeHost{}, "&HFF MOD 16")
	if errFlag || v != 15 {
		t.Errorf("got %d, errFlag=%v, want 15", v, errFlag)
	}
}

func TestLowercaseHexLiteral(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	v, errFlag := evalString(t, a, &fakeHost{}, "&h10")
	if errFlag || v != 16 {
		t.Errorf("got %d, errFlag=%v, want 16", v, errFlag)
	}
}

func TestRelationalOperators(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	cases := []struct {
		src  string
		want int16
	}{
		{"5>=5", 1},
		{"5<>5", 0},
		{"5>4", 1},
		{"5=5", 1},
		{"4<=5", 1},
		{"4<5", 1},
	}
	for _, c := range cases {
		v, errFlag := evalString(t, a, &fakeHost{}, c.src)
		if errFlag || v != c.want {
			t.Errorf("%s: got %d, errFlag=%v, want %d", c.src, v, errFlag, c.want)
		}
	}
}

func TestVariableAndArrayReference(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	_ = a.SetVariable('I', 7)
	_ = a.Dim('A', 10)
	_ = a.ArraySet('A', 3, 99)

	v, errFlag := evalString(t, a, &fakeHost{}, "I")
	if errFlag || v != 7 {
		t.Errorf("got %d want 7", v)
	}
	v, errFlag = evalString(t, a, &fakeHost{}, "A(3)")
	if errFlag || v != 99 {
		t.Errorf("got %d want 99", v)
	}
}

func TestArrayBoundsErrorSetsFlag(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	_ = a.Dim('A', 3)
	_, errFlag := evalString(t, a, &fakeHost{}, "A(5)")
	if !errFlag {
		t.Error("expected error flag set for out-of-bounds array access")
	}
}

func TestFunctions(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	h := &fakeHost{}
	h.mem[100] = 42

	v, errFlag := evalString(t, a, h, "PEEK(100)")
	if errFlag || v != 42 {
		t.Errorf("PEEK: got %d want 42", v)
	}
	v, errFlag = evalString(t, a, h, "ABS(0-5)")
	if errFlag || v != 5 {
		t.Errorf("ABS: got %d want 5", v)
	}
	v, errFlag = evalString(t, a, h, "HIGH")
	if errFlag || v != 1 {
		t.Errorf("HIGH: got %d want 1", v)
	}
	v, errFlag = evalString(t, a, h, "LOW")
	if errFlag || v != 0 {
		t.Errorf("LOW: got %d want 0", v)
	}
}

func TestFreTakesParenArgument(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	v, errFlag := evalString(t, a, &fakeHost{}, "FRE(0)")
	if errFlag || v != a.FreeBytes() {
		t.Errorf("FRE(0): got %d, errFlag=%v, want %d", v, errFlag, a.FreeBytes())
	}
	if _, errFlag := evalString(t, a, &fakeHost{}, "FRE"); !errFlag {
		t.Error("expected error flag when FRE has no parens")
	}
}

func TestFunctionNameWithoutParenIsSyntaxError(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	_, errFlag := evalString(t, a, &fakeHost{}, "ABS")
	if !errFlag {
		t.Error("expected error flag when function name has no parens")
	}
}

func TestDivisionByZeroSetsFlagButContinues(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	s := NewScanner([]byte("1/0+5\n"))
	e := New(s, a, &fakeHost{})
	_ = e.Eval()
	if !e.ErrorFlag {
		t.Error("expected error flag set on division by zero")
	}
	if s.Pos != len("1/0+5") {
		t.Errorf("expected cursor to reach end of expression, stopped at %d", s.Pos)
	}
}

func TestUnaryMinusWrapsOnMinInt16(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	_ = a.SetVariable('A', -32768)
	v, errFlag := evalString(t, a, &fakeHost{}, "-A")
	if errFlag || v != -32768 {
		t.Errorf("got %d, want wraparound to -32768", v)
	}
}

func TestLeadingUnaryMinus(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	v, errFlag := evalString(t, a, &fakeHost{}, "-5+3")
	if errFlag || v != -2 {
		t.Errorf("got %d want -2", v)
	}
}

func TestUnmatchedParenIsError(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	_, errFlag := evalString(t, a, &fakeHost{}, "(1+2")
	if !errFlag {
		t.Error("expected error flag for unmatched paren")
	}
}
