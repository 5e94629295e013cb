// Package arena implements the shared, hash-consed expression arena: the
// DAG of Boolean expressions (variables, negation, conjunction,
// disjunction) that every rewrite in this repository reads and mutates.
//
// Expressions are addressed by dense, 1-based ExprID values, never by
// pointer, so that a Formula (see package formula) can cheaply refer to a
// subexpression without holding a reference into the arena's backing
// storage, and so that rewrites can replace an expression's meaning
// in-place (Set) while every existing reference to its id observes the
// change (see the Set/Revalidate contract in the package doc for Set).
package arena

import (
	"fmt"

	"github.com/fexpr-lang/fexpr/variable"
)

// ExprID identifies an expression node within an Arena. Valid ids start at
// 1; 0 is never valid and is returned by lookups that fail.
type ExprID int

// Kind distinguishes the four expression node shapes.
type Kind uint8

const (
	KindVar Kind = iota
	KindNot
	KindAnd
	KindOr
)

func (k Kind) String() string {
	switch k {
	case KindVar:
		return "Var"
	case KindNot:
		return "Not"
	case KindAnd:
		return "And"
	case KindOr:
		return "Or"
	default:
		return "?"
	}
}

// Expr is the value stored at one ExprID. For KindVar, Var is the
// referenced variable and Kids is empty. For KindNot, Kids holds exactly
// one child. For KindAnd/KindOr, Kids holds zero or more children: zero
// kids represents the constant true (And) or false (Or); the constructors
// in this package never leave a single-kid And/Or in the arena (unit
// collapse), and never leave a KindNot wrapping another KindNot (double
// negation elimination).
type Expr struct {
	Kind Kind
	Var  variable.ID
	Kids []ExprID
}

func (e Expr) hash() uint64 {
	h := uint64(1469598103934665603) // FNV-1a offset basis
	mix := func(x uint64) {
		h ^= x
		h *= 1099511628211
	}
	mix(uint64(e.Kind))
	mix(uint64(e.Var))
	for _, k := range e.Kids {
		mix(uint64(k))
	}
	return h
}

func (e Expr) equal(o Expr) bool {
	if e.Kind != o.Kind || e.Var != o.Var || len(e.Kids) != len(o.Kids) {
		return false
	}
	for i := range e.Kids {
		if e.Kids[i] != o.Kids[i] {
			return false
		}
	}
	return true
}

// ReferentialError reports that an id was used which does not resolve to a
// live expression or variable. Every occurrence indicates a bug in the
// engine (a dangling or foreign id crossing an arena boundary), not a
// condition a caller of this package can trigger through normal use;
// accordingly it is only ever raised via panic, mirroring gophersat's own
// panics on malformed internal state (e.g. bf.go's "invalid formula type").
type ReferentialError struct {
	ExprID ExprID
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("arena: dangling expression id %d", e.ExprID)
}

// Arena owns a DAG of hash-consed expressions. The zero value is not
// usable; use New. An Arena is not safe for concurrent use: it is meant to
// be owned exclusively by one goroutine for its lifetime, exactly like the
// variable.Table it is typically paired with.
type Arena struct {
	exprs   []Expr             // index 0 is an unused sentinel
	buckets map[uint64][]ExprID
	negCache map[ExprID]ExprID
	abbrevCache map[ExprID]ExprID

	trueID  ExprID
	falseID ExprID
}

// New returns an empty Arena, with the constants true and false already
// interned.
func New() *Arena {
	a := &Arena{
		exprs:       []Expr{{}}, // reserve index 0
		buckets:     make(map[uint64][]ExprID),
		negCache:    make(map[ExprID]ExprID),
		abbrevCache: make(map[ExprID]ExprID),
	}
	a.trueID = a.intern(Expr{Kind: KindAnd})
	a.falseID = a.intern(Expr{Kind: KindOr})
	return a
}

// True returns the id of the constant true expression (the empty
// conjunction).
func (a *Arena) True() ExprID { return a.trueID }

// False returns the id of the constant false expression (the empty
// disjunction).
func (a *Arena) False() ExprID { return a.falseID }

// Valid reports whether id refers to a live expression.
func (a *Arena) Valid(id ExprID) bool {
	return id >= 1 && int(id) < len(a.exprs)
}

func (a *Arena) mustValid(id ExprID) {
	if !a.Valid(id) {
		panic(&ReferentialError{ExprID: id})
	}
}

// Get returns the expression stored at id. It panics with a
// *ReferentialError if id is not live.
func (a *Arena) Get(id ExprID) Expr {
	a.mustValid(id)
	return a.exprs[id]
}

// Children returns the direct children of id, in order. It never returns
// nil for KindNot/KindVar consistency reasons; callers that need to
// distinguish "no children" from "one child" should switch on Kind
// instead.
func (a *Arena) Children(id ExprID) []ExprID {
	e := a.Get(id)
	out := make([]ExprID, len(e.Kids))
	copy(out, e.Kids)
	return out
}

// Var interns (or reuses) the expression representing variable v.
func (a *Arena) Var(v variable.ID) ExprID {
	return a.Expr(Expr{Kind: KindVar, Var: v})
}

// Not interns (or reuses) the negation of x, applying double-negation
// elimination.
func (a *Arena) Not(x ExprID) ExprID {
	return a.Expr(Expr{Kind: KindNot, Kids: []ExprID{x}})
}

// And interns (or reuses) the conjunction of xs, applying associative
// flattening and empty/unit collapse. It does not sort, deduplicate, or
// detect contradictions; see package rewrite's Simplify for that.
func (a *Arena) And(xs ...ExprID) ExprID {
	return a.Expr(Expr{Kind: KindAnd, Kids: xs})
}

// Or interns (or reuses) the disjunction of xs, applying associative
// flattening and empty/unit collapse.
func (a *Arena) Or(xs ...ExprID) ExprID {
	return a.Expr(Expr{Kind: KindOr, Kids: xs})
}

// Expr canonicalizes and interns raw, applying:
//   - double negation elimination (Not(Not x) -> x),
//   - associative flattening of nested same-kind And/Or,
//   - empty-And/Or collapse to the true/false constants,
//   - unit-And/Or collapse to the sole child.
//
// It does NOT apply commutativity or idempotency: two Ands built from the
// same elements in different orders, or with duplicate elements, are
// distinct expressions unless and until rewrite.Simplify is applied
// explicitly. This mirrors the arena's documented contract, not the
// automatic sort+dedup performed by the reference implementation this
// engine was distilled from.
func (a *Arena) Expr(raw Expr) ExprID {
	switch raw.Kind {
	case KindVar:
		return a.intern(Expr{Kind: KindVar, Var: raw.Var})
	case KindNot:
		child := raw.Kids[0]
		a.mustValid(child)
		if a.exprs[child].Kind == KindNot {
			return a.exprs[child].Kids[0]
		}
		return a.intern(Expr{Kind: KindNot, Kids: []ExprID{child}})
	case KindAnd, KindOr:
		flat := a.flatten(raw.Kind, raw.Kids)
		switch len(flat) {
		case 0:
			if raw.Kind == KindAnd {
				return a.trueID
			}
			return a.falseID
		case 1:
			return flat[0]
		default:
			return a.intern(Expr{Kind: raw.Kind, Kids: flat})
		}
	default:
		panic(fmt.Sprintf("arena: invalid expression kind %v", raw.Kind))
	}
}

// flatten splices the children of any kid that is itself a same-kind
// And/Or into the result, implementing associative flattening.
func (a *Arena) flatten(kind Kind, kids []ExprID) []ExprID {
	out := make([]ExprID, 0, len(kids))
	for _, k := range kids {
		a.mustValid(k)
		ke := a.exprs[k]
		if ke.Kind == kind {
			out = append(out, ke.Kids...)
		} else {
			out = append(out, k)
		}
	}
	return out
}

// intern returns the canonical id for e: the id of the first
// structurally-equal expression ever added to the arena, or a freshly
// allocated one if none exists yet.
func (a *Arena) intern(e Expr) ExprID {
	h := e.hash()
	for _, id := range a.buckets[h] {
		if a.exprs[id].equal(e) {
			return id
		}
	}
	id := ExprID(len(a.exprs))
	a.exprs = append(a.exprs, e)
	a.buckets[h] = append(a.buckets[h], id)
	return id
}

// Set replaces the expression stored at id with the canonicalization of
// raw, applying the same reductions as Expr, and revalidates id's bucket
// entry so future interning can discover it. Existing references to id
// held by other expressions' Kids observe the new value immediately;
// Set does not merge id with any other id that happens to already be
// canonical for the same shape, it only changes what id itself contains
// (mirroring the arena's documented set+revalidate contract for identity-
// preserving, in-place rewrites).
//
// Set invalidates the whole negation memo, since any id's meaning may have
// changed transitively through a shared child.
func (a *Arena) Set(id ExprID, raw Expr) {
	a.mustValid(id)
	var resolved Expr
	switch raw.Kind {
	case KindVar:
		resolved = Expr{Kind: KindVar, Var: raw.Var}
	case KindNot:
		child := raw.Kids[0]
		a.mustValid(child)
		if a.exprs[child].Kind == KindNot {
			resolved = a.exprs[a.exprs[child].Kids[0]]
		} else {
			resolved = Expr{Kind: KindNot, Kids: []ExprID{child}}
		}
	case KindAnd, KindOr:
		flat := a.flatten(raw.Kind, raw.Kids)
		switch len(flat) {
		case 0:
			if raw.Kind == KindAnd {
				resolved = a.exprs[a.trueID]
			} else {
				resolved = a.exprs[a.falseID]
			}
		case 1:
			resolved = a.exprs[flat[0]]
		default:
			resolved = Expr{Kind: raw.Kind, Kids: flat}
		}
	default:
		panic(fmt.Sprintf("arena: invalid expression kind %v", raw.Kind))
	}
	a.exprs[id] = resolved
	h := resolved.hash()
	a.buckets[h] = append(a.buckets[h], id)
	a.negCache = make(map[ExprID]ExprID)
}

// CanonicalOf returns the id that Expr(a.Get(id)) would currently return:
// the canonical representative for id's structural shape. If id is already
// canonical, it returns id itself.
func (a *Arena) CanonicalOf(id ExprID) ExprID {
	e := a.Get(id)
	for _, cand := range a.buckets[e.hash()] {
		if a.exprs[cand].equal(e) {
			return cand
		}
	}
	return id
}

// Negate returns the id of the negation of id, applying De Morgan's laws
// recursively for And/Or so the result is itself pushed toward literals
// rather than left as a bare KindNot wrapper, and memoizing so repeated
// negation of shared subexpressions is cheap.
func (a *Arena) Negate(id ExprID) ExprID {
	if cached, ok := a.negCache[id]; ok {
		return cached
	}
	e := a.Get(id)
	var result ExprID
	switch e.Kind {
	case KindVar:
		result = a.Not(id)
	case KindNot:
		result = e.Kids[0]
	case KindAnd:
		negKids := make([]ExprID, len(e.Kids))
		for i, k := range e.Kids {
			negKids[i] = a.Negate(k)
		}
		result = a.Or(negKids...)
	case KindOr:
		negKids := make([]ExprID, len(e.Kids))
		for i, k := range e.Kids {
			negKids[i] = a.Negate(k)
		}
		result = a.And(negKids...)
	default:
		panic(fmt.Sprintf("arena: invalid expression kind %v", e.Kind))
	}
	a.negCache[id] = result
	return result
}

// Len returns the number of allocated expressions (excluding the id-0
// sentinel).
func (a *Arena) Len() int {
	return len(a.exprs) - 1
}

// AbbrevOf returns the auxiliary literal previously assigned to id by an
// abbreviating rewrite (rewrite.TseitinLiteral), if any. This lets a rewrite
// invoked separately over two different formulas that share this arena
// reuse the same auxiliary variable for a subexpression id they both
// reference, rather than allocating a fresh one on each call.
func (a *Arena) AbbrevOf(id ExprID) (ExprID, bool) {
	lit, ok := a.abbrevCache[id]
	return lit, ok
}

// SetAbbrevOf records id's auxiliary literal for future AbbrevOf lookups.
func (a *Arena) SetAbbrevOf(id ExprID, lit ExprID) {
	a.abbrevCache[id] = lit
}
