package diff

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// WriteArtifacts writes the DIMACS text of both sides plus a human-readable
// report to dir, as "a.dimacs", "b.dimacs", and "diff.txt". The report
// holds the clause and model counts followed by a character-level diff of
// the two DIMACS texts rendered by DiffPrettyText, which marks insertions
// and deletions with ANSI color codes.
func WriteArtifacts(dir string, res *Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var bufA, bufB bytes.Buffer
	if err := res.A.WriteDIMACS(&bufA); err != nil {
		return err
	}
	if err := res.B.WriteDIMACS(&bufB); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "a.dimacs"), bufA.Bytes(), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "b.dimacs"), bufB.Bytes(), 0o644); err != nil {
		return err
	}

	dmp := diffpatch.New()
	diffs := dmp.DiffMain(bufA.String(), bufB.String(), true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var out bytes.Buffer
	fmt.Fprintf(&out, "left strength: %s\n", res.LeftStrength)
	fmt.Fprintf(&out, "right strength: %s\n", res.RightStrength)
	fmt.Fprintf(&out, "common clauses: %d\n", len(res.Common))
	fmt.Fprintf(&out, "only in A: %d\n", len(res.OnlyA))
	fmt.Fprintf(&out, "only in B: %d\n", len(res.OnlyB))
	if res.Models != nil {
		fmt.Fprintf(&out, "models lost: %s\n", res.Models.Lost)
		fmt.Fprintf(&out, "models gained: %s\n", res.Models.Gained)
		fmt.Fprintf(&out, "models kept: %s\n", res.Models.Kept)
	} else if res.CountsUnavailable {
		out.WriteString("models: unavailable (external counter could not run)\n")
	}
	out.WriteString("\n")
	out.WriteString(dmp.DiffPrettyText(diffs))

	return os.WriteFile(filepath.Join(dir, "diff.txt"), out.Bytes(), 0o644)
}
