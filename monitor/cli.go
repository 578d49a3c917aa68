package monitor

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sbelectronics/tbasic/interp"
)

// RunCLI drives a line-oriented monitor prompt over an interpreter that
// has already been positioned at the start of a program (StartProgram).
// Commands: step/s (single statement), run/r (run to completion or break),
// vars/v, arrays/a, stack/k, list/l, quit/q.
func RunCLI(in *interp.Interpreter, input io.Reader, output io.Writer, history *CommandHistory) error {
	scanner := bufio.NewScanner(input)
	fmt.Fprintln(output, "tbasic monitor: step, run, vars, arrays, stack, list, quit")

	for {
		fmt.Fprint(output, "(mon) ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())
		history.Add(cmd)

		switch cmd {
		case "quit", "q", "exit":
			return nil
		case "step", "s":
			outcome, err := in.Step()
			printStepResult(output, outcome, err)
		case "run", "r":
			for {
				outcome, err := in.Step()
				if err != nil {
					fmt.Fprintf(output, "error: %v\n", err)
					break
				}
				if outcome == interp.OutcomeHalt || outcome == interp.OutcomeExit {
					fmt.Fprintln(output, "stopped")
					break
				}
			}
		case "vars", "v":
			fmt.Fprintln(output, TakeSnapshot(in).RenderVars())
		case "arrays", "a":
			fmt.Fprintln(output, TakeSnapshot(in).RenderArrays())
		case "stack", "k":
			fmt.Fprintln(output, TakeSnapshot(in).RenderStack())
		case "list", "l":
			fmt.Fprintln(output, RenderProgram(in.Arena))
		case "":
			continue
		default:
			fmt.Fprintf(output, "unknown command %q\n", cmd)
		}
	}
	return scanner.Err()
}

func printStepResult(output io.Writer, outcome interp.Outcome, err *interp.Error) {
	if err != nil {
		fmt.Fprintf(output, "error: %v\n", err)
		return
	}
	if outcome == interp.OutcomeHalt || outcome == interp.OutcomeExit {
		fmt.Fprintln(output, "stopped")
	}
}
