package solve_test

import (
	"context"
	"testing"

	"github.com/fexpr-lang/fexpr/solve"
)

func TestParseKissatOutputSatisfiable(t *testing.T) {
	out := "c comment\ns SATISFIABLE\nv 1 -2 3 0\n"
	model := solve.ParseKissatOutput(out)
	if len(model) != 3 {
		t.Fatalf("expected 3 literals, got %d: %v", len(model), model)
	}
	if model[0] != 1 || model[1] != -2 || model[2] != 3 {
		t.Fatalf("unexpected model %v", model)
	}
}

func TestParseKissatOutputUnsatisfiable(t *testing.T) {
	out := "c comment\ns UNSATISFIABLE\n"
	model := solve.ParseKissatOutput(out)
	if len(model) != 0 {
		t.Fatalf("expected no model for UNSATISFIABLE output, got %v", model)
	}
}

func TestParseD4Output(t *testing.T) {
	out := "c some stats\ns 12345678901234567890\n"
	n, err := solve.ParseD4Output(out)
	if err != nil {
		t.Fatalf("ParseD4Output failed: %v", err)
	}
	if n.String() != "12345678901234567890" {
		t.Fatalf("got %s, want 12345678901234567890", n.String())
	}
}

func TestParseD4OutputMissingCountLine(t *testing.T) {
	if _, err := solve.ParseD4Output("c nothing useful\n"); err == nil {
		t.Fatalf("expected an error when no count line is present")
	}
}

func TestParseAllSATLine(t *testing.T) {
	model := solve.ParseAllSATLine("1 -2 3 0")
	if len(model) != 3 || model[0] != 1 || model[1] != -2 || model[2] != 3 {
		t.Fatalf("unexpected model %v", model)
	}
}

func TestSatisfyReportsUnavailableForMissingBinary(t *testing.T) {
	paths := solve.Paths{Kissat: "fexpr-definitely-not-a-real-binary"}
	_, err := solve.Satisfy(context.Background(), paths, "p cnf 1 1\n1 0\n")
	if err == nil {
		t.Fatalf("expected an error for a nonexistent solver binary")
	}
	var unavailable *solve.ErrUnavailable
	if !isUnavailable(err, &unavailable) {
		t.Fatalf("expected *solve.ErrUnavailable, got %T: %v", err, err)
	}
}

func isUnavailable(err error, target **solve.ErrUnavailable) bool {
	u, ok := err.(*solve.ErrUnavailable)
	if ok {
		*target = u
	}
	return ok
}
