package diff_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/diff"
	"github.com/fexpr-lang/fexpr/formula"
	"github.com/fexpr-lang/fexpr/solve"
	"github.com/fexpr-lang/fexpr/variable"
)

func TestCompareIdenticalFormulasHaveNoDifference(t *testing.T) {
	a := arena.New()
	vars := variable.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	root := a.And(x, y)

	fa := formula.New(a, vars, root)
	fb := formula.New(a, vars, root)

	res, err := diff.Compare(fa, fb, diff.Weak, diff.Weak, 64)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(res.OnlyA) != 0 || len(res.OnlyB) != 0 {
		t.Fatalf("expected no side-specific clauses, got onlyA=%v onlyB=%v", res.OnlyA, res.OnlyB)
	}
	if len(res.Common) != 2 {
		t.Fatalf("expected 2 shared clauses, got %d", len(res.Common))
	}
	wantCommon := [][]int{{1}, {2}}
	if diff := cmp.Diff(wantCommon, res.Common); diff != "" {
		t.Fatalf("Common clauses mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareDetectsRemovedConstraint(t *testing.T) {
	a := arena.New()
	vars := variable.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))

	fa := formula.New(a, vars, a.And(x, y))
	fb := formula.New(a, vars, x)

	res, err := diff.Compare(fa, fb, diff.Weak, diff.Weak, 64)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(res.Common) != 1 {
		t.Fatalf("expected the shared 'x' clause, got %d common clauses", len(res.Common))
	}
	if len(res.OnlyA) != 1 {
		t.Fatalf("expected the 'y' clause to be A-only, got %d", len(res.OnlyA))
	}
	if len(res.OnlyB) != 0 {
		t.Fatalf("expected nothing B-only, got %d", len(res.OnlyB))
	}
}

func TestCompareRejectsMismatchedVariableTables(t *testing.T) {
	a := arena.New()
	varsA := variable.New()
	varsB := variable.New()
	fa := formula.New(a, varsA, a.Var(varsA.InternNamed("x")))
	fb := formula.New(a, varsB, a.Var(varsB.InternNamed("x")))

	if _, err := diff.Compare(fa, fb, diff.Weak, diff.Weak, 64); err == nil {
		t.Fatalf("expected an error comparing formulas over distinct variable tables")
	}
}

func TestCompareBottomStrongIntroducesAuxVarsButStaysComparable(t *testing.T) {
	a := arena.New()
	vars := variable.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	z := a.Var(vars.InternNamed("z"))

	fa := formula.New(a, vars, a.Or(a.And(x, y), z))
	fb := formula.New(a, vars, a.Or(a.And(x, y), z))

	res, err := diff.Compare(fa, fb, diff.BottomStrong, diff.BottomStrong, 64)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(res.OnlyA) != 0 || len(res.OnlyB) != 0 {
		t.Fatalf("identical formulas under identical Tseitin numbering should fully coincide, got onlyA=%v onlyB=%v", res.OnlyA, res.OnlyB)
	}
}

func TestCompareAllowsIndependentKindsPerSide(t *testing.T) {
	a := arena.New()
	vars := variable.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	z := a.Var(vars.InternNamed("z"))
	root := a.Or(a.And(x, y), z)

	fa := formula.New(a, vars, root)
	fb := formula.New(a, vars, root)

	res, err := diff.Compare(fa, fb, diff.Weak, diff.BottomStrong, 64)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if res.LeftStrength != diff.Weak || res.RightStrength != diff.BottomStrong {
		t.Fatalf("expected LeftStrength=weak RightStrength=bottom-strong, got %v/%v", res.LeftStrength, res.RightStrength)
	}
}

func TestCompareWithCountsReportsUnavailableRatherThanFailing(t *testing.T) {
	a := arena.New()
	vars := variable.New()
	x := a.Var(vars.InternNamed("x"))
	fa := formula.New(a, vars, x)
	fb := formula.New(a, vars, x)

	res, err := diff.CompareWithCounts(context.Background(), fa, fb, diff.Weak, diff.Weak, 64, solve.Paths{})
	if err != nil {
		t.Fatalf("expected a missing counter to be a benign failure, got error: %v", err)
	}
	if !res.CountsUnavailable {
		t.Fatalf("expected CountsUnavailable to be set when the #SAT solver cannot run")
	}
	if res.Models != nil {
		t.Fatalf("expected Models to stay nil when counts are unavailable, got %+v", res.Models)
	}
	if len(res.Common) != 1 {
		t.Fatalf("expected the clause-level diff to still be valid, got %d common clauses", len(res.Common))
	}
}

func TestCompareTopStrongPreservesOutermostConnective(t *testing.T) {
	a := arena.New()
	vars := variable.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	root := a.Or(x, y)

	fa := formula.New(a, vars, root)
	fb := formula.New(a, vars, root)

	res, err := diff.Compare(fa, fb, diff.TopStrong, diff.TopStrong, 64)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(res.Common) != len(res.A.Clauses) {
		t.Fatalf("identical formulas should have every clause in common")
	}
	if len(res.A.Clauses) != 1 {
		t.Fatalf("top-strong must keep Or(x, y) as its single clause, got %d clauses", len(res.A.Clauses))
	}
}
