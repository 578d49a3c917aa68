package monitor

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sbelectronics/tbasic/interp"
)

// TUI is the tview-based arena inspector: panels for the program listing,
// variables, arrays, and control stack, plus a command input that can
// single-step, run-to-break, and quit.
type TUI struct {
	Interp  *interp.Interpreter
	History *CommandHistory

	App          *tview.Application
	ProgramView  *tview.TextView
	VarsView     *tview.TextView
	ArraysView   *tview.TextView
	StackView    *tview.TextView
	OutputView   *tview.TextView
	StatusView   *tview.TextView
	CommandInput *tview.InputField

	running bool
}

// NewTUI builds the layout and key bindings around an interpreter that has
// already been positioned (StartProgram/StartDirect) but not yet run.
func NewTUI(in *interp.Interpreter, history *CommandHistory) *TUI {
	t := &TUI{
		Interp:  in,
		History: history,
		App:     tview.NewApplication(),
	}
	t.initViews()
	t.App.SetRoot(t.buildLayout(), true).SetFocus(t.CommandInput)
	t.refresh()
	return t
}

func (t *TUI) initViews() {
	t.ProgramView = textPanel(" Program ")
	t.VarsView = textPanel(" Variables ")
	t.ArraysView = textPanel(" Arrays ")
	t.StackView = textPanel(" Stack ")
	t.OutputView = textPanel(" Output ")
	t.OutputView.SetWrap(true)
	t.StatusView = textPanel(" Status ")

	t.CommandInput = tview.NewInputField().SetLabel("> ")
	t.CommandInput.SetBorder(true).SetTitle(" Command (step/run/quit) ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
	t.CommandInput.SetInputCapture(t.handleHistoryKeys)
}

func textPanel(title string) *tview.TextView {
	v := tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.SetBorder(true).SetTitle(title)
	return v
}

func (t *TUI) buildLayout() tview.Primitive {
	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.ProgramView, 0, 2, false).
		AddItem(t.OutputView, 0, 1, false)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.VarsView, 0, 1, false).
		AddItem(t.ArraysView, 0, 1, false).
		AddItem(t.StackView, 0, 1, false).
		AddItem(t.StatusView, 3, 0, false)

	main := tview.NewFlex().
		AddItem(left, 0, 2, false).
		AddItem(right, 0, 1, false)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(main, 0, 1, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) handleHistoryKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		t.CommandInput.SetText(t.History.Previous())
		return nil
	case tcell.KeyDown:
		t.CommandInput.SetText(t.History.Next())
		return nil
	}
	return event
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	t.CommandInput.SetText("")
	t.History.Add(cmd)

	switch cmd {
	case "quit", "q":
		t.App.Stop()
		return
	case "step", "s":
		outcome, err := t.Interp.Step()
		t.report(outcome, err)
	case "run", "r":
		t.running = true
		for t.running {
			outcome, err := t.Interp.Step()
			if err != nil || outcome == interp.OutcomeHalt || outcome == interp.OutcomeExit {
				t.running = false
				t.report(outcome, err)
				break
			}
		}
	}
	t.refresh()
}

func (t *TUI) report(outcome interp.Outcome, err *interp.Error) {
	if err != nil {
		fmt.Fprintf(t.OutputView, "error: %v\n", err)
		return
	}
	if outcome == interp.OutcomeHalt || outcome == interp.OutcomeExit {
		fmt.Fprintln(t.OutputView, "stopped")
	}
}

func (t *TUI) refresh() {
	snap := TakeSnapshot(t.Interp)
	t.ProgramView.SetText(RenderProgram(t.Interp.Arena))
	t.VarsView.SetText(snap.RenderVars())
	t.ArraysView.SetText(snap.RenderArrays())
	t.StackView.SetText(snap.RenderStack())
	t.StatusView.SetText(fmt.Sprintf("mode=%s line=%d free=%d", modeLabel(snap.Mode), snap.CurrentLine, snap.FreeBytes))
}

// Run starts the tview event loop.
func (t *TUI) Run() error {
	return t.App.Run()
}

// RunTUI runs the TUI monitor over an already-positioned interpreter.
func RunTUI(in *interp.Interpreter, history *CommandHistory) error {
	return NewTUI(in, history).Run()
}
