package rewrite

import (
	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/traverse"
	"github.com/fexpr-lang/fexpr/variable"
)

// PlaistedGreenbaum returns a CNF-shaped formula equi-assignable with
// root: every model of the result restricted to root's variables is a
// model of root, and vice versa, but the two are not equi-countable — the
// auxiliary variables introduced here are only implied by their defining
// subexpression, not equivalent to it, so an auxiliary can be set to true
// spuriously without falsifying anything, inflating the model count
// relative to Tseitin's.
//
// This is possible because PlaistedGreenbaum first rewrites root into
// negation normal form: once every negation wraps a literal, root's truth
// requirement flows down to every subexpression in a single, uniform
// polarity, and only one direction of Tseitin's biconditional ("if the
// auxiliary holds, its definition holds") is needed to preserve that
// requirement.
func PlaistedGreenbaum(a *arena.Arena, vars *variable.Table, root arena.ExprID) arena.ExprID {
	nnfRoot := NNF(a, root)
	lit, defs := plaistedGreenbaumLiteral(a, vars, nnfRoot)
	return a.And(append(defs, lit)...)
}

func plaistedGreenbaumLiteral(a *arena.Arena, vars *variable.Table, root arena.ExprID) (lit arena.ExprID, defs []arena.ExprID) {
	litOf := make(map[arena.ExprID]arena.ExprID)
	traverse.PostorderRev(a, root, func(id arena.ExprID) {
		e := a.Get(id)
		switch e.Kind {
		case arena.KindVar, arena.KindNot:
			// Post-NNF, KindNot always wraps a KindVar directly.
			litOf[id] = id
		case arena.KindAnd:
			v := a.Var(vars.NewAux())
			for _, k := range e.Kids {
				defs = append(defs, a.Or(a.Not(v), litOf[k]))
			}
			litOf[id] = v
		case arena.KindOr:
			v := a.Var(vars.NewAux())
			terms := make([]arena.ExprID, 0, len(e.Kids)+1)
			terms = append(terms, a.Not(v))
			for _, k := range e.Kids {
				terms = append(terms, litOf[k])
			}
			defs = append(defs, a.Or(terms...))
			litOf[id] = v
		}
	})
	return litOf[root], defs
}
