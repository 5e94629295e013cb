package rewrite

import (
	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/traverse"
	"github.com/fexpr-lang/fexpr/variable"
)

// Distributive rewrites the formula rooted at root into an equivalent
// CNF-shaped formula (an And of Ors of literals) by pushing to negation
// normal form and then distributing Or over And via the Cartesian-product
// law: Or(And(a,b), c) = And(Or(a,c), Or(b,c)). This is exact (the result
// is logically equivalent to root, not merely equisatisfiable) but can
// blow up exponentially in the number of clauses; see PartialDistributive
// for a hybrid that bounds the blowup.
//
// It returns root, mutated in place.
func Distributive(a *arena.Arena, root arena.ExprID) arena.ExprID {
	traverse.PrePostorderRev(a, root, nnfPre(a), distributivePost(a))
	return root
}

// conjuncts returns the list of clause-shaped ids that, conjoined, are
// equivalent to id: id's own children if id is a KindAnd, or the
// singleton [id] otherwise (id is already a single clause or a literal).
func conjuncts(a *arena.Arena, id arena.ExprID) []arena.ExprID {
	e := a.Get(id)
	if e.Kind == arena.KindAnd {
		return e.Kids
	}
	return []arena.ExprID{id}
}

// clauseLiterals returns the literal terms of a clause-shaped id: id's own
// children if id is a KindOr, or the singleton [id] otherwise (id is
// already a single literal).
func clauseLiterals(a *arena.Arena, id arena.ExprID) []arena.ExprID {
	e := a.Get(id)
	if e.Kind == arena.KindOr {
		return e.Kids
	}
	return []arena.ExprID{id}
}

// distributeOr computes the Cartesian product of the clause lists of a set
// of already-CNF-shaped children, returning the resulting flat list of
// clause ids.
func distributeOr(a *arena.Arena, children []arena.ExprID) []arena.ExprID {
	acc := [][]arena.ExprID{{}}
	for _, child := range children {
		childClauses := conjuncts(a, child)
		next := make([][]arena.ExprID, 0, len(acc)*len(childClauses))
		for _, accClause := range acc {
			for _, cc := range childClauses {
				lits := clauseLiterals(a, cc)
				combined := make([]arena.ExprID, 0, len(accClause)+len(lits))
				combined = append(combined, accClause...)
				combined = append(combined, lits...)
				next = append(next, combined)
			}
		}
		acc = next
	}
	clauses := make([]arena.ExprID, len(acc))
	for i, lits := range acc {
		clauses[i] = a.Or(lits...)
	}
	return clauses
}

// blowup predicts the number of clauses distributeOr would produce for
// children, saturating at a value greater than any realistic threshold on
// overflow rather than wrapping around.
func blowup(a *arena.Arena, children []arena.ExprID) int {
	const cap = 1 << 30
	product := 1
	for _, child := range children {
		n := len(conjuncts(a, child))
		if n == 0 {
			return 0
		}
		product *= n
		if product > cap {
			return cap
		}
	}
	return product
}

func distributivePost(a *arena.Arena) func(arena.ExprID) {
	return func(id arena.ExprID) {
		e := a.Get(id)
		switch e.Kind {
		case arena.KindVar, arena.KindNot:
			// Already a literal.
		case arena.KindAnd:
			a.Set(id, e)
		case arena.KindOr:
			clauses := distributeOr(a, e.Kids)
			a.Set(id, arena.Expr{Kind: arena.KindAnd, Kids: clauses})
		}
	}
}

// PartialDistributive rewrites root into CNF like Distributive, except
// that at each disjunction it predicts the number of clauses full
// distribution would produce and, when that exceeds maxBlowup, abbreviates
// each compound (non-literal) child with a fresh auxiliary variable and a
// full biconditional definition (rewrite.defAnd/defOr) instead of
// distributing it. Each auxiliary variable is fully defined by its
// clauses, so the result's models restricted to root's own variables are
// exactly root's models, at the cost of one auxiliary variable per
// abbreviated child. A maxBlowup of 0
// or less disables the threshold and behaves exactly like Distributive.
//
// It returns a new id for the conjunction of any definitions introduced
// and the (possibly rewritten) root, or root itself unchanged if no
// abbreviation was needed anywhere.
func PartialDistributive(a *arena.Arena, vars *variable.Table, root arena.ExprID, maxBlowup int) arena.ExprID {
	var defs []arena.ExprID
	post := func(id arena.ExprID) {
		e := a.Get(id)
		switch e.Kind {
		case arena.KindVar, arena.KindNot:
		case arena.KindAnd:
			a.Set(id, e)
		case arena.KindOr:
			if maxBlowup <= 0 || blowup(a, e.Kids) <= maxBlowup {
				clauses := distributeOr(a, e.Kids)
				a.Set(id, arena.Expr{Kind: arena.KindAnd, Kids: clauses})
				return
			}
			terms := make([]arena.ExprID, 0, len(e.Kids))
			for _, k := range e.Kids {
				kd := a.Get(k)
				switch kd.Kind {
				case arena.KindVar, arena.KindNot:
					terms = append(terms, k)
				case arena.KindAnd:
					v := a.Var(vars.NewAux())
					defs = append(defs, defAnd(a, v, kd.Kids)...)
					terms = append(terms, v)
				case arena.KindOr:
					v := a.Var(vars.NewAux())
					defs = append(defs, defOr(a, v, kd.Kids)...)
					terms = append(terms, v)
				}
			}
			a.Set(id, arena.Expr{Kind: arena.KindOr, Kids: terms})
		}
	}
	traverse.PrePostorderRev(a, root, nnfPre(a), post)
	if len(defs) == 0 {
		return root
	}
	return a.And(append(defs, root)...)
}
