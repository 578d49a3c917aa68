package monitor

import "testing"

func TestCommandHistoryAdd(t *testing.T) {
	h := NewCommandHistory(0)

	h.Add("step")
	h.Add("run")
	h.Add("vars")

	if h.Size() != 3 {
		t.Errorf("Size = %d, want 3", h.Size())
	}

	all := h.GetAll()
	if len(all) != 3 || all[0] != "step" {
		t.Errorf("GetAll = %v, want [step run vars]", all)
	}
}

func TestCommandHistoryIgnoreEmpty(t *testing.T) {
	h := NewCommandHistory(0)

	h.Add("step")
	h.Add("")
	h.Add("run")

	if h.Size() != 2 {
		t.Errorf("Size = %d, want 2 (empty commands should be ignored)", h.Size())
	}
}

func TestCommandHistoryIgnoreDuplicates(t *testing.T) {
	h := NewCommandHistory(0)

	h.Add("step")
	h.Add("step")
	h.Add("run")

	if h.Size() != 2 {
		t.Errorf("Size = %d, want 2 (duplicate should be ignored)", h.Size())
	}
}

func TestCommandHistoryPreviousNext(t *testing.T) {
	h := NewCommandHistory(0)
	h.Add("step")
	h.Add("run")

	if got := h.Previous(); got != "run" {
		t.Errorf("Previous() = %q, want run", got)
	}
	if got := h.Previous(); got != "step" {
		t.Errorf("Previous() = %q, want step", got)
	}
	if got := h.Previous(); got != "" {
		t.Errorf("Previous() at start = %q, want empty", got)
	}
	if got := h.Next(); got != "run" {
		t.Errorf("Next() = %q, want run", got)
	}
}

func TestCommandHistoryMaxSize(t *testing.T) {
	h := NewCommandHistory(2)
	h.Add("a")
	h.Add("b")
	h.Add("c")

	all := h.GetAll()
	if len(all) != 2 || all[0] != "b" || all[1] != "c" {
		t.Errorf("GetAll = %v, want [b c]", all)
	}
}
