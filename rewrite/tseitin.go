package rewrite

import (
	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/traverse"
	"github.com/fexpr-lang/fexpr/variable"
)

// defAnd returns the clauses defining vLit <-> And(kids): (¬vLit ∨ kid) for
// each kid, plus (vLit ∨ ¬kid1 ∨ ... ∨ ¬kidN).
func defAnd(a *arena.Arena, vLit arena.ExprID, kids []arena.ExprID) []arena.ExprID {
	clauses := make([]arena.ExprID, 0, len(kids)+1)
	for _, k := range kids {
		clauses = append(clauses, a.Or(a.Not(vLit), k))
	}
	backward := make([]arena.ExprID, 0, len(kids)+1)
	backward = append(backward, vLit)
	for _, k := range kids {
		backward = append(backward, a.Negate(k))
	}
	clauses = append(clauses, a.Or(backward...))
	return clauses
}

// defOr returns the clauses defining vLit <-> Or(kids): (¬vLit ∨ kid1 ∨
// ... ∨ kidN), plus (¬kid ∨ vLit) for each kid.
func defOr(a *arena.Arena, vLit arena.ExprID, kids []arena.ExprID) []arena.ExprID {
	clauses := make([]arena.ExprID, 0, len(kids)+1)
	forward := make([]arena.ExprID, 0, len(kids)+1)
	forward = append(forward, a.Not(vLit))
	forward = append(forward, kids...)
	clauses = append(clauses, a.Or(forward...))
	for _, k := range kids {
		clauses = append(clauses, a.Or(a.Negate(k), vLit))
	}
	return clauses
}

// TseitinLiteral computes the Tseitin literal abbreviating root and the
// defining clauses that make it equivalent to root: root holds iff the
// conjunction of defs holds and the returned literal is true. Every
// non-literal subexpression reachable from root gets exactly one auxiliary
// variable, allocated the first time its id is abbreviated and memoized on
// the arena (arena.Arena.AbbrevOf/SetAbbrevOf); a subexpression shared
// within one call's traversal is abbreviated once via litOf, since the
// traversal visits each id at most once, and a subexpression shared across
// separate calls — including calls made against a different formula built
// over the same arena — reuses that same memoized auxiliary rather than
// allocating a fresh one, so two formulas sharing a subexpression id stay
// comparable after Tseitin. Each call still emits its own defs for every
// abbreviation it visits, including ones reused from an earlier call, so
// its result is a self-contained CNF for root regardless of what else has
// already run over the arena; hash-consing makes a recomputed defining
// clause identical to the one a prior call already introduced.
func TseitinLiteral(a *arena.Arena, vars *variable.Table, root arena.ExprID) (lit arena.ExprID, defs []arena.ExprID) {
	litOf := make(map[arena.ExprID]arena.ExprID)
	traverse.PostorderRev(a, root, func(id arena.ExprID) {
		e := a.Get(id)
		switch e.Kind {
		case arena.KindVar:
			litOf[id] = id
		case arena.KindNot:
			// Not of a literal is a literal; Not of a compound is the
			// negation of that compound's own abbreviation, still a
			// literal, and introduces no new variable.
			litOf[id] = a.Negate(litOf[e.Kids[0]])
		case arena.KindAnd:
			kidLits := make([]arena.ExprID, len(e.Kids))
			for i, k := range e.Kids {
				kidLits[i] = litOf[k]
			}
			v, ok := a.AbbrevOf(id)
			if !ok {
				v = a.Var(vars.NewAux())
				a.SetAbbrevOf(id, v)
			}
			defs = append(defs, defAnd(a, v, kidLits)...)
			litOf[id] = v
		case arena.KindOr:
			kidLits := make([]arena.ExprID, len(e.Kids))
			for i, k := range e.Kids {
				kidLits[i] = litOf[k]
			}
			v, ok := a.AbbrevOf(id)
			if !ok {
				v = a.Var(vars.NewAux())
				a.SetAbbrevOf(id, v)
			}
			defs = append(defs, defOr(a, v, kidLits)...)
			litOf[id] = v
		}
	})
	return litOf[root], defs
}

// Tseitin returns a new id for the conjunction of root's Tseitin
// definitions and its abbreviation literal: a CNF-shaped formula whose
// models, restricted to root's own variables, are exactly root's models
// (each auxiliary is fully defined by its clauses, so model counts agree
// too), using one auxiliary variable per non-literal subexpression of root,
// reused from the arena's memo when an earlier call already abbreviated
// that subexpression (see TseitinLiteral).
func Tseitin(a *arena.Arena, vars *variable.Table, root arena.ExprID) arena.ExprID {
	lit, defs := TseitinLiteral(a, vars, root)
	return a.And(append(defs, lit)...)
}
