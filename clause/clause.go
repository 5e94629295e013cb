// Package clause implements the clause materializer: it turns a CNF-shaped
// formula.Formula into a flat list of signed-integer clauses plus a
// stable, dense DIMACS variable numbering, and writes that out in the
// standard DIMACS CNF text format.
package clause

import (
	"fmt"
	"sort"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/formula"
	"github.com/fexpr-lang/fexpr/variable"
)

// NotCNFError reports that a formula was not CNF-shaped (an And of Ors of
// literals, or a degenerate single clause or literal) at materialization
// time.
type NotCNFError struct {
	ExprID arena.ExprID
	Reason string
}

func (e *NotCNFError) Error() string {
	return fmt.Sprintf("clause: expression %d is not CNF-shaped: %s", e.ExprID, e.Reason)
}

// Set is a materialized clause set: a dense list of signed-integer
// clauses, together with the variable each DIMACS index refers to.
type Set struct {
	Clauses [][]int
	// Vars[i] is the variable.ID that DIMACS variable i+1 refers to.
	Vars  []variable.ID
	table *variable.Table
}

// NumVars returns the DIMACS variable count V.
func (s *Set) NumVars() int { return len(s.Vars) }

// NumClauses returns the DIMACS clause count C.
func (s *Set) NumClauses() int { return len(s.Clauses) }

// Literal is a variable occurrence, exported so that callers needing
// several clause sets on a shared, comparable DIMACS numbering (the diff
// engine) can extract raw clauses themselves before choosing the
// variable range to number against.
type Literal struct {
	Var variable.ID
	Neg bool
}

type literal = Literal

// Materialize extracts the clause set of f. f.Root must be CNF-shaped:
// the constants true/false, a single literal, a single disjunction of
// literals, or a conjunction of any of those.
//
// The DIMACS variable range always includes every Named variable in
// f.Vars (so that multiple formulas sharing a variable.Table, as diff
// compares, get a stable, comparable numbering even if one side happens
// not to mention a given feature), plus any Auxiliary variable that
// actually appears in a produced clause.
func Materialize(f *formula.Formula) (*Set, error) {
	clauses, err := ExtractClauses(f.Arena, f.Root)
	if err != nil {
		return nil, err
	}

	used := make(map[variable.ID]bool)
	for _, cl := range clauses {
		for _, lit := range cl {
			used[lit.Var] = true
		}
	}

	var included []variable.ID
	for _, id := range f.Vars.Ids() {
		if f.Vars.IsNamed(id) || used[id] {
			included = append(included, id)
		}
	}
	sort.Slice(included, func(i, j int) bool { return included[i] < included[j] })

	return BuildSet(clauses, included, f.Vars), nil
}

// BuildSet remaps clauses (raw variable.ID literals, as returned by
// ExtractClauses) against an explicit, already-chosen variable range and
// numbering order, and wraps the result as a Set. Callers that need
// several clause sets numbered identically — the diff engine comparing
// two sides of a shared variable.Table — compute one shared `included`
// list and call BuildSet once per side against it.
func BuildSet(clauses [][]Literal, included []variable.ID, table *variable.Table) *Set {
	remap := make(map[variable.ID]int, len(included))
	for i, id := range included {
		remap[id] = i + 1
	}

	intClauses := make([][]int, len(clauses))
	for i, cl := range clauses {
		row := make([]int, len(cl))
		for j, lit := range cl {
			v := remap[lit.Var]
			if lit.Neg {
				v = -v
			}
			row[j] = v
		}
		intClauses[i] = row
	}

	return &Set{Clauses: intClauses, Vars: included, table: table}
}

// ExtractClauses walks a CNF-shaped expression and returns its clauses as
// raw variable-literal rows, without committing to any DIMACS numbering.
func ExtractClauses(a *arena.Arena, root arena.ExprID) ([][]Literal, error) {
	return extractClauses(a, root)
}

func extractClauses(a *arena.Arena, root arena.ExprID) ([][]literal, error) {
	e := a.Get(root)
	switch e.Kind {
	case arena.KindVar:
		return [][]literal{{{Var: e.Var}}}, nil
	case arena.KindNot:
		lit, err := literalOf(a, root)
		if err != nil {
			return nil, err
		}
		return [][]literal{{lit}}, nil
	case arena.KindOr:
		lits, err := clauseLiterals(a, root)
		if err != nil {
			return nil, err
		}
		return [][]literal{lits}, nil
	case arena.KindAnd:
		clauses := make([][]literal, 0, len(e.Kids))
		for _, k := range e.Kids {
			kd := a.Get(k)
			switch kd.Kind {
			case arena.KindOr:
				lits, err := clauseLiterals(a, k)
				if err != nil {
					return nil, err
				}
				clauses = append(clauses, lits)
			case arena.KindVar, arena.KindNot:
				lit, err := literalOf(a, k)
				if err != nil {
					return nil, err
				}
				clauses = append(clauses, []literal{lit})
			default:
				return nil, &NotCNFError{ExprID: k, Reason: fmt.Sprintf("nested %v inside a conjunction", kd.Kind)}
			}
		}
		return clauses, nil
	default:
		return nil, &NotCNFError{ExprID: root, Reason: fmt.Sprintf("unexpected kind %v at CNF root", e.Kind)}
	}
}

func clauseLiterals(a *arena.Arena, orID arena.ExprID) ([]literal, error) {
	e := a.Get(orID)
	lits := make([]literal, 0, len(e.Kids))
	for _, k := range e.Kids {
		lit, err := literalOf(a, k)
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)
	}
	return lits, nil
}

func literalOf(a *arena.Arena, id arena.ExprID) (literal, error) {
	e := a.Get(id)
	switch e.Kind {
	case arena.KindVar:
		return literal{Var: e.Var}, nil
	case arena.KindNot:
		c := a.Get(e.Kids[0])
		if c.Kind != arena.KindVar {
			return literal{}, &NotCNFError{ExprID: id, Reason: "negation of a non-literal"}
		}
		return literal{Var: c.Var, Neg: true}, nil
	default:
		return literal{}, &NotCNFError{ExprID: id, Reason: fmt.Sprintf("expected a literal, found %v", e.Kind)}
	}
}
