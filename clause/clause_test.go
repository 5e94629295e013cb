package clause_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/clause"
	"github.com/fexpr-lang/fexpr/formula"
	"github.com/fexpr-lang/fexpr/rewrite"
	"github.com/fexpr-lang/fexpr/variable"
)

func TestMaterializeSimpleConjunction(t *testing.T) {
	vars := variable.New()
	a := arena.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	root := a.And(a.Or(x, y), a.Not(x))
	f := formula.New(a, vars, root)

	set, err := clause.Materialize(f)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if set.NumVars() != 2 || set.NumClauses() != 2 {
		t.Fatalf("expected 2 vars / 2 clauses, got %d/%d", set.NumVars(), set.NumClauses())
	}
}

func TestMaterializeRejectsNonCNF(t *testing.T) {
	vars := variable.New()
	a := arena.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	root := a.And(a.Or(x, a.And(x, y)), y) // nested And inside an Or: not CNF
	f := formula.New(a, vars, root)

	if _, err := clause.Materialize(f); err == nil {
		t.Fatalf("expected an error for a non-CNF-shaped formula")
	}
}

func TestWriteDIMACSFormat(t *testing.T) {
	vars := variable.New()
	a := arena.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	root := a.And(a.Or(x, y))
	f := formula.New(a, vars, root)

	set, err := clause.Materialize(f)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	var b strings.Builder
	if err := set.WriteDIMACS(&b); err != nil {
		t.Fatalf("WriteDIMACS failed: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "p cnf 2 1\n") {
		t.Fatalf("expected DIMACS header 'p cnf 2 1', got:\n%s", out)
	}
	if !strings.Contains(out, "c 1 x\n") || !strings.Contains(out, "c 2 y\n") {
		t.Fatalf("expected variable dictionary comments, got:\n%s", out)
	}
}

func TestMaterializeAfterTseitinIncludesAuxVars(t *testing.T) {
	vars := variable.New()
	a := arena.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	z := a.Var(vars.InternNamed("z"))
	root := a.Or(a.And(x, y), z)
	tseitinRoot := rewrite.Tseitin(a, vars, root)
	f := formula.New(a, vars, tseitinRoot)

	set, err := clause.Materialize(f)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if set.NumVars() <= 3 {
		t.Fatalf("expected auxiliary variables included in the DIMACS range, got %d vars", set.NumVars())
	}
}

func TestExtractClausesMatchesExpectedLiterals(t *testing.T) {
	vars := variable.New()
	a := arena.New()
	xVar := vars.InternNamed("x")
	yVar := vars.InternNamed("y")
	x := a.Var(xVar)
	y := a.Var(yVar)
	root := a.And(a.Or(x, a.Not(y)), y)

	got, err := clause.ExtractClauses(a, root)
	if err != nil {
		t.Fatalf("ExtractClauses failed: %v", err)
	}
	want := [][]clause.Literal{
		{{Var: xVar}, {Var: yVar, Neg: true}},
		{{Var: yVar}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExtractClauses mismatch (-want +got):\n%s", diff)
	}
}
