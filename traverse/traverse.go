// Package traverse implements the three DAG walks used by the rewrites in
// package rewrite: PostorderRev (children before parents), PreorderRev
// (parents before children, with short-circuiting), and PrePostorderRev
// (both, fused into one pass).
//
// All three read a node's children on demand, after the node's pre-visit
// callback (if any) has run and before its post-visit callback, rather
// than snapshotting the DAG shape up front. This is deliberate: a
// pre-visitor is allowed to call arena.Arena.Set on the node it was just
// given, and the traversal walks the node's new children, not its old
// ones. Children a post-visitor installs are not walked. Each id is nonetheless visited at most once
// per traversal, so structural sharing (the same subexpression reachable
// from multiple parents) does not cause repeated work.
package traverse

import "github.com/fexpr-lang/fexpr/arena"

// PostorderRev walks the DAG rooted at root, calling visit on every
// reachable id exactly once, after all of that id's children have already
// been visited.
func PostorderRev(a *arena.Arena, root arena.ExprID, visit func(arena.ExprID)) {
	PrePostorderRev(a, root, nil, visit)
}

// PreorderRev walks the DAG rooted at root, calling visit on every
// reachable id before its children, at most once. If visit returns false,
// that id's children are not descended into (but siblings and the rest of
// the DAG still are).
func PreorderRev(a *arena.Arena, root arena.ExprID, visit func(arena.ExprID) bool) {
	seen := make(map[arena.ExprID]bool)
	stack := []arena.ExprID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		descend := true
		if visit != nil {
			descend = visit(id)
		}
		if !descend {
			continue
		}
		kids := a.Children(id)
		for i := len(kids) - 1; i >= 0; i-- {
			if !seen[kids[i]] {
				stack = append(stack, kids[i])
			}
		}
	}
}

// PrePostorderRev walks the DAG rooted at root, calling pre on each
// reachable id before descending into its (possibly just-rewritten)
// children, and post after all of its children have been fully processed.
// Either callback may be nil.
func PrePostorderRev(a *arena.Arena, root arena.ExprID, pre func(arena.ExprID), post func(arena.ExprID)) {
	seen := make(map[arena.ExprID]bool)
	done := make(map[arena.ExprID]bool)
	stack := []arena.ExprID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		if done[id] {
			stack = stack[:len(stack)-1]
			continue
		}
		if !seen[id] {
			seen[id] = true
			if pre != nil {
				pre(id)
			}
			// Read children after pre ran: pre may have rewritten id in
			// place (e.g. pushing a negation down via De Morgan), and the
			// walk must follow the new shape.
			kids := a.Children(id)
			for i := len(kids) - 1; i >= 0; i-- {
				if !done[kids[i]] {
					stack = append(stack, kids[i])
				}
			}
			continue
		}
		if post != nil {
			post(id)
		}
		done[id] = true
		stack = stack[:len(stack)-1]
	}
}
