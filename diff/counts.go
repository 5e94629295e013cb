package diff

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/clause"
	"github.com/fexpr-lang/fexpr/formula"
	"github.com/fexpr-lang/fexpr/rewrite"
	"github.com/fexpr-lang/fexpr/solve"
)

// modelDiff counts models lost (A and not B), gained (B and not A), and
// kept (A and B) by running the external #SAT solver over three
// Tseitin-encoded queries built directly in fa's shared arena. fa and fb
// must share the same arena.Arena, not just the same variable.Table,
// since building "A and not B" requires combining both roots into one
// expression.
func modelDiff(ctx context.Context, fa, fb *formula.Formula, paths solve.Paths) (*ModelDiff, error) {
	if fa.Arena != fb.Arena {
		return nil, fmt.Errorf("diff: model-count diff requires both formulas to share an arena.Arena")
	}
	a := fa.Arena

	lostRoot := a.And(fa.Root, a.Not(fb.Root))
	gainedRoot := a.And(a.Not(fa.Root), fb.Root)
	keptRoot := a.And(fa.Root, fb.Root)

	lost, err := countRoot(ctx, fa, lostRoot, paths)
	if err != nil {
		return nil, fmt.Errorf("diff: counting lost models: %w", err)
	}
	gained, err := countRoot(ctx, fa, gainedRoot, paths)
	if err != nil {
		return nil, fmt.Errorf("diff: counting gained models: %w", err)
	}
	kept, err := countRoot(ctx, fa, keptRoot, paths)
	if err != nil {
		return nil, fmt.Errorf("diff: counting kept models: %w", err)
	}
	return &ModelDiff{Lost: lost, Gained: gained, Kept: kept}, nil
}

func countRoot(ctx context.Context, f *formula.Formula, root arena.ExprID, paths solve.Paths) (*big.Int, error) {
	cnfRoot := rewrite.Tseitin(f.Arena, f.Vars, root)
	set, err := clause.Materialize(f.WithRoot(cnfRoot))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := set.WriteDIMACS(&buf); err != nil {
		return nil, err
	}
	return solve.Count(ctx, paths, buf.String())
}
