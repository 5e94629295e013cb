// Package rewrite implements the formula transformations that operate on
// an arena.Arena in place: negation-pushdown into negation normal form,
// two flavors of CNF clausification (total and partial/threshold
// distributive expansion, and Tseitin's and Plaisted-Greenbaum's
// definitional encodings), and an explicit simplification pass.
//
// NNF, Distributive and Simplify return the same arena.ExprID they were
// given: the arena's Set/Revalidate contract means a rewrite mutates what
// an id *means*, never which id a caller's handle refers to. The two
// definitional encodings (Tseitin,
// PlaistedGreenbaum) introduce fresh top-level conjuncts (the auxiliary
// variables' defining clauses) that cannot be attached to the original
// root id without changing its meaning for other observers, so they return
// a new id for the conjunction of the definitions and the (possibly
// rewritten) root literal; PartialDistributive likewise returns a new id
// whenever it introduces definitions.
package rewrite

import (
	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/traverse"
)

// NNF rewrites the formula rooted at root into negation normal form:
// negation pushed down to the leaves via De Morgan's laws, so that every
// KindNot node wraps a KindVar. It returns root, mutated in place.
func NNF(a *arena.Arena, root arena.ExprID) arena.ExprID {
	traverse.PrePostorderRev(a, root, nnfPre(a), canonPost(a))
	return root
}

// nnfPre returns the pre-visitor that pushes a negation one level down
// when it wraps a compound expression, via arena.Arena.Negate.
func nnfPre(a *arena.Arena) func(arena.ExprID) {
	return func(id arena.ExprID) {
		e := a.Get(id)
		if e.Kind != arena.KindNot {
			return
		}
		child := a.Get(e.Kids[0])
		switch child.Kind {
		case arena.KindAnd:
			negated := make([]arena.ExprID, len(child.Kids))
			for i, k := range child.Kids {
				negated[i] = a.Negate(k)
			}
			a.Set(id, arena.Expr{Kind: arena.KindOr, Kids: negated})
		case arena.KindOr:
			negated := make([]arena.ExprID, len(child.Kids))
			for i, k := range child.Kids {
				negated[i] = a.Negate(k)
			}
			a.Set(id, arena.Expr{Kind: arena.KindAnd, Kids: negated})
		case arena.KindVar:
			// Already a literal; nothing to push down.
		}
	}
}

// canonPost re-canonicalizes id after its children have been rewritten:
// a child that changed shape underneath id (for instance from Or to And
// via De Morgan) may now need to be flattened into id, or id's own shape
// may now collapse to a constant or a unit.
func canonPost(a *arena.Arena) func(arena.ExprID) {
	return func(id arena.ExprID) {
		a.Set(id, a.Get(id))
	}
}
