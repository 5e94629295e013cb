package rewrite

import (
	"sort"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/traverse"
)

// Simplify applies commutativity, idempotency, and contradiction/tautology
// detection to every And/Or reachable from root, none of which
// arena.Arena.Expr applies automatically. Operands are sorted into a
// canonical order (grounded on the same base-literal grouping used by the
// reference implementation's simp_expr macro: x and Not(x) sort adjacent
// to each other), exact duplicates are removed, and a conjunction
// containing both x and Not(x) collapses to false, a disjunction
// containing both to true.
//
// It returns root, mutated in place; this is the transform the to_canon
// command applies.
func Simplify(a *arena.Arena, root arena.ExprID) arena.ExprID {
	traverse.PostorderRev(a, root, func(id arena.ExprID) {
		e := a.Get(id)
		if e.Kind != arena.KindAnd && e.Kind != arena.KindOr {
			return
		}
		kids, absorbed := simplifyKids(a, e.Kids)
		if absorbed {
			if e.Kind == arena.KindAnd {
				a.Set(id, a.Get(a.False()))
			} else {
				a.Set(id, a.Get(a.True()))
			}
			return
		}
		a.Set(id, arena.Expr{Kind: e.Kind, Kids: kids})
	})
	return root
}

// baseAndSign returns id's underlying literal id and whether id itself is
// the negation of it: baseAndSign(x) = (x, false), baseAndSign(Not(x)) =
// (x, true).
func baseAndSign(a *arena.Arena, id arena.ExprID) (base arena.ExprID, negated bool) {
	e := a.Get(id)
	if e.Kind == arena.KindNot {
		return e.Kids[0], true
	}
	return id, false
}

// simplifyKids sorts kids so that an operand and its negation are
// adjacent, then removes exact duplicates and detects an adjacent
// operand/negation pair. absorbed reports the latter: the caller must
// replace the whole And/Or with its absorbing constant.
func simplifyKids(a *arena.Arena, kids []arena.ExprID) (result []arena.ExprID, absorbed bool) {
	sorted := make([]arena.ExprID, len(kids))
	copy(sorted, kids)
	sort.Slice(sorted, func(i, j int) bool {
		bi, _ := baseAndSign(a, sorted[i])
		bj, _ := baseAndSign(a, sorted[j])
		if bi != bj {
			return bi < bj
		}
		return sorted[i] < sorted[j]
	})
	out := make([]arena.ExprID, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 {
			prev := out[len(out)-1]
			if prev == id {
				continue
			}
			pb, _ := baseAndSign(a, prev)
			cb, _ := baseAndSign(a, id)
			if pb == cb {
				return nil, true
			}
		}
		out = append(out, id)
	}
	return out, false
}
