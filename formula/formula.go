// Package formula implements the Formula handle: a root expression bound
// to its arena and variable table. Everything downstream (clause
// materialization, diffing, the CLI) treats a *Formula as the unit of
// work, rather than a bare arena.ExprID. A Formula does not store a
// variable set: SubVars and NamedVars recompute it by walking the arena
// from Root on every call.
package formula

import (
	"sort"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/traverse"
	"github.com/fexpr-lang/fexpr/variable"
)

// Formula pins a root expression within an arena and variable table. The
// zero value is not usable; use New.
type Formula struct {
	Arena *arena.Arena
	Vars  *variable.Table
	Root  arena.ExprID
}

// New returns a Formula rooted at root, within a and vars.
func New(a *arena.Arena, vars *variable.Table, root arena.ExprID) *Formula {
	return &Formula{Arena: a, Vars: vars, Root: root}
}

// WithRoot returns a new Formula sharing this one's arena and variable
// table but rooted at a different expression. Rewrites that must
// introduce new top-level conjuncts (Tseitin, PlaistedGreenbaum,
// PartialDistributive when abbreviation triggers) return a new root id
// rather than mutating this Formula's root in place, since that changes
// what the id set means for anyone else still holding the old root.
func (f *Formula) WithRoot(root arena.ExprID) *Formula {
	return New(f.Arena, f.Vars, root)
}

// SubExprs returns every expression id reachable from Root, including
// Root itself, in postorder (children before parents).
func (f *Formula) SubExprs() []arena.ExprID {
	var ids []arena.ExprID
	traverse.PostorderRev(f.Arena, f.Root, func(id arena.ExprID) {
		ids = append(ids, id)
	})
	return ids
}

// SubVars returns every variable id referenced by a KindVar subexpression
// of Root, in ascending order, without duplicates.
func (f *Formula) SubVars() []variable.ID {
	seen := make(map[variable.ID]bool)
	var ids []variable.ID
	for _, id := range f.SubExprs() {
		e := f.Arena.Get(id)
		if e.Kind != arena.KindVar {
			continue
		}
		if !seen[e.Var] {
			seen[e.Var] = true
			ids = append(ids, e.Var)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NamedVars returns the subset of SubVars that are Named, i.e. the
// variables natural to the problem rather than auxiliaries introduced by a
// clausification rewrite.
func (f *Formula) NamedVars() []variable.ID {
	var ids []variable.ID
	for _, id := range f.SubVars() {
		if f.Vars.IsNamed(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// String renders Root as a fully-parenthesized infix expression.
func (f *Formula) String() string {
	return f.Arena.Format(f.Root, f.Vars)
}
