package traverse_test

import (
	"testing"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/traverse"
	"github.com/fexpr-lang/fexpr/variable"
)

func TestPostorderRevVisitsChildrenFirst(t *testing.T) {
	vars := variable.New()
	a := arena.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	conj := a.And(x, y)

	var order []arena.ExprID
	traverse.PostorderRev(a, conj, func(id arena.ExprID) {
		order = append(order, id)
	})
	if len(order) != 3 {
		t.Fatalf("expected 3 visits, got %d: %v", len(order), order)
	}
	if order[len(order)-1] != conj {
		t.Fatalf("root must be visited last in postorder, got order %v", order)
	}
	seenX, seenY := false, false
	for _, id := range order[:len(order)-1] {
		if id == x {
			seenX = true
		}
		if id == y {
			seenY = true
		}
	}
	if !seenX || !seenY {
		t.Fatalf("expected both children visited before the root, got %v", order)
	}
}

func TestPostorderRevVisitsSharedNodeOnce(t *testing.T) {
	vars := variable.New()
	a := arena.New()
	x := a.Var(vars.InternNamed("x"))
	shared := a.Not(x)
	root := a.And(shared, shared)

	count := make(map[arena.ExprID]int)
	traverse.PostorderRev(a, root, func(id arena.ExprID) {
		count[id]++
	})
	if count[shared] != 1 {
		t.Fatalf("shared subexpression visited %d times, want 1", count[shared])
	}
	if count[root] != 1 {
		t.Fatalf("root visited %d times, want 1", count[root])
	}
}

func TestPreorderRevShortCircuits(t *testing.T) {
	vars := variable.New()
	a := arena.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	inner := a.And(x, y)
	notInner := a.Not(inner)

	var visited []arena.ExprID
	traverse.PreorderRev(a, notInner, func(id arena.ExprID) bool {
		visited = append(visited, id)
		return id != notInner // stop descending as soon as we see the root
	})
	if len(visited) != 1 || visited[0] != notInner {
		t.Fatalf("expected traversal to stop after the root, got %v", visited)
	}
}

func TestPrePostorderRevSeesLiveMutation(t *testing.T) {
	vars := variable.New()
	a := arena.New()
	x := a.Var(vars.InternNamed("x"))
	y := a.Var(vars.InternNamed("y"))
	notX := a.Not(x)
	root := a.And(notX, y)

	var postOrder []arena.ExprID
	traverse.PrePostorderRev(a, root, func(id arena.ExprID) {
		// Rewrite notX to Not(y) the first time we see it as a pre-visit.
		if id == notX {
			a.Set(id, arena.Expr{Kind: arena.KindNot, Kids: []arena.ExprID{y}})
		}
	}, func(id arena.ExprID) {
		postOrder = append(postOrder, id)
	})

	if got := a.Get(notX); got.Kids[0] != y {
		t.Fatalf("expected the pre-visitor's mutation to stick, got child %d", got.Kids[0])
	}
	// The walk must have descended into y (notX's new child) rather than
	// x (notX's old child) after the rewrite.
	found := false
	for _, id := range postOrder {
		if id == y {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected traversal to follow the rewritten child y, postorder was %v", postOrder)
	}
}
