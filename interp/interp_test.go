package interp

import (
	"strings"
	"testing"

	"github.com/sbelectronics/tbasic/arena"
	"github.com/sbelectronics/tbasic/host"
)

func runProgram(t *testing.T, lines []string) string {
	t.Helper()
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("")
	for _, line := range lines {
		result, _ := ProcessLine(a, []byte(line))
		if result != LineStored {
			t.Fatalf("line %q: got result %v, want LineStored", line, result)
		}
	}
	in := New(a, h)
	if err := in.RunProgram(); err != nil {
		t.Fatalf("RunProgram: %v", err)
	}
	return h.Output.String()
}

func runDirect(t *testing.T, src string) string {
	t.Helper()
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("")
	in := New(a, h)
	if err := in.RunDirect([]byte(src)); err != nil {
		t.Fatalf("RunDirect(%q): %v", src, err)
	}
	return h.Output.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	if got := runDirect(t, "PRINT 2+3*4"); got != "14\n" {
		t.Errorf("got %q, want %q", got, "14\n")
	}
}

func TestHexLiteralAndMod(t *testing.T) {
	if got := runDirect(t, "PRINT &HFF MOD 16"); got != "15\n" {
		t.Errorf("got %q, want %q", got, "15\n")
	}
}

func TestLoopAndArray(t *testing.T) {
	got := runProgram(t, []string{
		"10 DIM A(5)",
		"20 FOR I=0 TO 5",
		"30 A(I)=I*I",
		"40 NEXT I",
		"50 FOR I=0 TO 5",
		"60 PRINT A(I)",
		"70 NEXT I",
	})
	want := "0\n1\n4\n9\n16\n25\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGosubReturn(t *testing.T) {
	got := runProgram(t, []string{
		`10 GOSUB 100`,
		`20 PRINT "DONE"`,
		`30 END`,
		`100 PRINT "SUB"`,
		`110 RETURN`,
	})
	want := "SUB\nDONE\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRelationalOperators(t *testing.T) {
	if got := runDirect(t, "PRINT 5>=5"); got != "1\n" {
		t.Errorf("got %q, want %q", got, "1\n")
	}
	if got := runDirect(t, "PRINT 5<>5"); got != "0\n" {
		t.Errorf("got %q, want %q", got, "0\n")
	}
}

func TestEditThenList(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("")

	for _, line := range []string{"10 PRINT 1", "10 PRINT 2"} {
		result, _ := ProcessLine(a, []byte(line))
		if result != LineStored {
			t.Fatalf("line %q: got result %v, want LineStored", line, result)
		}
	}

	in := New(a, h)
	if err := in.RunDirect([]byte("LIST")); err != nil {
		t.Fatalf("RunDirect(LIST): %v", err)
	}
	if got := h.Output.String(); got != "10 PRINT 2\n" {
		t.Errorf("got %q, want %q", got, "10 PRINT 2\n")
	}
}

func TestForWithZeroIterationsStillRunsBodyOnce(t *testing.T) {
	got := runProgram(t, []string{
		"10 FOR I=1 TO 0",
		"20 PRINT I",
		"30 NEXT I",
	})
	if got != "1\n" {
		t.Errorf("got %q, want %q (body runs once before the bound is tested)", got, "1\n")
	}
}

func TestReturnDiscardsForFramesEnteredSinceGosub(t *testing.T) {
	got := runProgram(t, []string{
		"10 GOSUB 100",
		"20 END",
		"100 FOR I=1 TO 3",
		"110 RETURN",
		"120 NEXT I",
	})
	if got != "" {
		t.Errorf("got %q, want no output (RETURN should unwind the FOR frame)", got)
	}
}

func TestDimBoundsError(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("")
	in := New(a, h)

	if err := in.RunDirect([]byte("DIM A(0)")); err != nil {
		t.Fatalf("DIM A(0): %v", err)
	}
	if err := in.RunDirect([]byte("A(0)=5")); err != nil {
		t.Fatalf("A(0)=5: %v", err)
	}
	err := in.RunDirect([]byte("A(1)=5"))
	if err == nil {
		t.Fatal("A(1)=5: want a bounds error, got none")
	}
	if err.Kind != KindBounds {
		t.Errorf("Kind = %v, want KindBounds", err.Kind)
	}
}

func TestClearZeroesVariablesAndArrays(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("")
	in := New(a, h)

	for _, stmt := range []string{"A=5", "DIM B(3)"} {
		if err := in.RunDirect([]byte(stmt)); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	if err := in.RunDirect([]byte("CLEAR")); err != nil {
		t.Fatalf("CLEAR: %v", err)
	}
	if v, _ := a.Variable('A'); v != 0 {
		t.Errorf("A = %d, want 0 after CLEAR", v)
	}
	if sz, _ := a.ArraySize('B'); sz != 0 {
		t.Errorf("B array size = %d, want 0 after CLEAR", sz)
	}
}

func TestInputWithLeadingMinus(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("-5\n")
	in := New(a, h)
	if err := in.RunDirect([]byte("INPUT A")); err != nil {
		t.Fatalf("INPUT A: %v", err)
	}
	if v, _ := a.Variable('A'); v != -5 {
		t.Errorf("A = %d, want -5", v)
	}
}

func TestLoadMissingFileIsIOError(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("")
	in := New(a, h)

	err := in.RunDirect([]byte(`LOAD "NOPE"`))
	if err == nil {
		t.Fatal(`LOAD "NOPE": want an I/O error, got none`)
	}
	if err.Kind != KindIO {
		t.Errorf("Kind = %v, want KindIO", err.Kind)
	}
}

func TestColonSeparatesStatements(t *testing.T) {
	if got := runDirect(t, "A=2 : PRINT A*A"); got != "4\n" {
		t.Errorf("got %q, want %q", got, "4\n")
	}
}

func TestREPLEnterRunAndBye(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("10 PRINT 123\nRUN\nBYE\nPRINT 999\n")
	r := NewREPL(a, h)
	r.Interp.Echo = false
	r.Run()

	out := h.Output.String()
	if !strings.Contains(out, "123\n") {
		t.Errorf("output %q missing program output", out)
	}
	if strings.Contains(out, "999") {
		t.Errorf("output %q shows input processed after BYE", out)
	}
}

func TestREPLRejectsInvalidLineNumber(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("65001 PRINT 1\nLIST\nBYE\n")
	r := NewREPL(a, h)
	r.Interp.Echo = false
	r.Run()

	out := h.Output.String()
	if !strings.Contains(out, "Invalid line number") {
		t.Errorf("output %q missing invalid-line-number message", out)
	}
	if strings.Contains(out, "65001") {
		t.Errorf("output %q suggests the overflow line was stored", out)
	}
}

func TestStopPrintsBreak(t *testing.T) {
	got := runProgram(t, []string{
		"10 PRINT 1",
		"20 STOP",
		"30 PRINT 2",
	})
	if got != "1\nbreak!\n" {
		t.Errorf("got %q, want %q", got, "1\nbreak!\n")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := arena.New(arena.DefaultSize)
	h := host.NewScriptedHost("")
	in := New(a, h)

	for _, line := range []string{"10 PRINT 1", "20 END"} {
		result, _ := ProcessLine(a, []byte(line))
		if result != LineStored {
			t.Fatalf("line %q: got result %v, want LineStored", line, result)
		}
	}

	if err := in.RunDirect([]byte(`SAVE "PROG"`)); err != nil {
		t.Fatalf(`SAVE "PROG": %v`, err)
	}
	if err := in.RunDirect([]byte("NEW")); err != nil {
		t.Fatalf("NEW: %v", err)
	}
	if err := in.RunDirect([]byte(`LOAD "PROG"`)); err != nil {
		t.Fatalf(`LOAD "PROG": %v`, err)
	}

	var out strings.Builder
	a.Walk(func(lineNum uint16, body []byte) bool {
		out.WriteString(strings.TrimRight(string(body), "\n"))
		out.WriteByte('\n')
		return true
	})
	want := "PRINT 1\nEND\n"
	if out.String() != want {
		t.Errorf("program after LOAD = %q, want %q", out.String(), want)
	}
}
