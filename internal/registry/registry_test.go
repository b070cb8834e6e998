package registry

import (
	"testing"

	"github.com/vovakirdan/fbmandel/internal/core"
)

type constEvaluator struct {
	id    string
	count int
}

func (e constEvaluator) ID() string    { return e.id }
func (e constEvaluator) Title() string { return "Constant " + e.id }
func (e constEvaluator) Evaluate(_ core.Point, max int) core.EscapeResult {
	return core.EscapeResult{Count: e.count, Max: max}
}

func TestRegisterAndCreate(t *testing.T) {
	Register("test-const", func() Evaluator { return constEvaluator{id: "test-const", count: 3} })

	if !Exists("test-const") {
		t.Fatal("Exists() should report a registered evaluator")
	}

	ev, err := Create("test-const")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if got := ev.Evaluate(core.Pt(0, 0), 10); got.Count != 3 || got.Max != 10 {
		t.Errorf("Evaluate() = %+v, expected count 3 of 10", got)
	}

	found := false
	for _, info := range List() {
		if info.ID == "test-const" {
			found = true
			if info.Title != "Constant test-const" {
				t.Errorf("List() title = %q, expected %q", info.Title, "Constant test-const")
			}
		}
	}
	if !found {
		t.Error("List() should include the registered evaluator")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-evaluator"); err == nil {
		t.Error("Create() should fail for an unknown ID")
	}
	if Exists("no-such-evaluator") {
		t.Error("Exists() should be false for an unknown ID")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", func() Evaluator { return constEvaluator{id: "test-dup"} })

	defer func() {
		if recover() == nil {
			t.Error("Register() should panic on a duplicate ID")
		}
	}()
	Register("test-dup", func() Evaluator { return constEvaluator{id: "test-dup"} })
}

func TestListSorted(t *testing.T) {
	Register("test-b", func() Evaluator { return constEvaluator{id: "test-b"} })
	Register("test-a", func() Evaluator { return constEvaluator{id: "test-a"} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}
