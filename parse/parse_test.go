package parse_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/clause"
	"github.com/fexpr-lang/fexpr/parse"
	"github.com/fexpr-lang/fexpr/variable"
)

func TestParseCNFBasic(t *testing.T) {
	src := "c 1 x\nc 2 y\np cnf 2 2\n1 -2 0\n-1 2 0\n"
	a := arena.New()
	vars := variable.New()
	f, err := parse.CNF(strings.NewReader(src), a, vars)
	if err != nil {
		t.Fatalf("CNF parse failed: %v", err)
	}
	e := a.Get(f.Root)
	if e.Kind != arena.KindAnd || len(e.Kids) != 2 {
		t.Fatalf("expected 2 clauses, got kind %v with %d kids", e.Kind, len(e.Kids))
	}
	if name, ok := vars.LookupNamed("x"); !ok || name < 1 {
		t.Fatalf("expected variable dictionary name 'x' to be interned")
	}
}

func TestParseCNFHeaderMismatchIsError(t *testing.T) {
	src := "p cnf 2 3\n1 2 0\n"
	a := arena.New()
	vars := variable.New()
	if _, err := parse.CNF(strings.NewReader(src), a, vars); err == nil {
		t.Fatalf("expected an error when declared clause count does not match")
	}
}

func TestParseSATNamedAndAuxVars(t *testing.T) {
	src := "c 1 x\np sat 2\n*(1 -2)\n"
	a := arena.New()
	vars := variable.New()
	f, err := parse.SAT(strings.NewReader(src), a, vars)
	if err != nil {
		t.Fatalf("SAT parse failed: %v", err)
	}
	e := a.Get(f.Root)
	if e.Kind != arena.KindAnd || len(e.Kids) != 2 {
		t.Fatalf("expected And of 2 literals, got kind %v with %d kids", e.Kind, len(e.Kids))
	}
	if _, ok := vars.LookupNamed("x"); !ok {
		t.Fatalf("expected 'x' to be Named")
	}
	if len(f.SubVars()) != 2 {
		t.Fatalf("expected 2 sub-variables total, got %d", len(f.SubVars()))
	}
	named := f.NamedVars()
	if len(named) != 1 {
		t.Fatalf("expected 1 named variable (the undeclared slot is Auxiliary), got %d", len(named))
	}
}

func TestParseSATNestedOperators(t *testing.T) {
	src := "p sat 3\n+(1 *(2 -3))\n"
	a := arena.New()
	vars := variable.New()
	f, err := parse.SAT(strings.NewReader(src), a, vars)
	if err != nil {
		t.Fatalf("SAT parse failed: %v", err)
	}
	e := a.Get(f.Root)
	if e.Kind != arena.KindOr || len(e.Kids) != 2 {
		t.Fatalf("expected Or of 2 terms, got kind %v with %d kids", e.Kind, len(e.Kids))
	}
}

func TestParseModelInfix(t *testing.T) {
	src := "def(A) & (def(B) | !def(C))\n"
	a := arena.New()
	vars := variable.New()
	f, err := parse.Model(strings.NewReader(src), a, vars)
	if err != nil {
		t.Fatalf("Model parse failed: %v", err)
	}
	e := a.Get(f.Root)
	if e.Kind != arena.KindAnd || len(e.Kids) != 2 {
		t.Fatalf("expected top-level And of 2 terms, got kind %v with %d kids", e.Kind, len(e.Kids))
	}
	if _, ok := vars.LookupNamed("A"); !ok {
		t.Fatalf("expected 'A' to be interned as a named variable")
	}
}

func TestParseModelMultipleLinesConjoined(t *testing.T) {
	src := "# a comment\ndef(A)\ndef(B)\n"
	a := arena.New()
	vars := variable.New()
	f, err := parse.Model(strings.NewReader(src), a, vars)
	if err != nil {
		t.Fatalf("Model parse failed: %v", err)
	}
	e := a.Get(f.Root)
	if e.Kind != arena.KindAnd || len(e.Kids) != 2 {
		t.Fatalf("expected the two lines conjoined, got kind %v with %d kids", e.Kind, len(e.Kids))
	}
}

func TestParseModelSingleLineNotWrapped(t *testing.T) {
	src := "def(A)\n"
	a := arena.New()
	vars := variable.New()
	f, err := parse.Model(strings.NewReader(src), a, vars)
	if err != nil {
		t.Fatalf("Model parse failed: %v", err)
	}
	if a.Get(f.Root).Kind != arena.KindVar {
		t.Fatalf("a single-line .model file should not be wrapped in a trivial And")
	}
}

func TestParseModelProducesExpectedClauseLiterals(t *testing.T) {
	src := "def(A) & (def(B) | !def(C))\n"
	a := arena.New()
	vars := variable.New()
	f, err := parse.Model(strings.NewReader(src), a, vars)
	if err != nil {
		t.Fatalf("Model parse failed: %v", err)
	}
	aVar, _ := vars.LookupNamed("A")
	bVar, _ := vars.LookupNamed("B")
	cVar, _ := vars.LookupNamed("C")

	got, err := clause.ExtractClauses(a, f.Root)
	if err != nil {
		t.Fatalf("ExtractClauses failed: %v", err)
	}
	want := [][]clause.Literal{
		{{Var: aVar}},
		{{Var: bVar}, {Var: cVar, Neg: true}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parsed clause literals mismatch (-want +got):\n%s", diff)
	}
}
