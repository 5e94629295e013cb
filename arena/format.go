package arena

import (
	"strings"

	"github.com/fexpr-lang/fexpr/variable"
)

// Format renders id as a fully-parenthesized infix expression using the
// same concrete syntax .model source uses: "!" for negation, "&" for
// conjunction, "|" for disjunction, and explicit "true"/"false" constants
// for an empty And/Or. A variable renders as its recorded source spelling
// (variable.Table.Surface), so a Named variable parsed from "def(a)" prints
// back as "def(a)" rather than the bare interned name "a".
func (a *Arena) Format(id ExprID, vars *variable.Table) string {
	var b strings.Builder
	a.format(&b, id, vars)
	return b.String()
}

func (a *Arena) format(b *strings.Builder, id ExprID, vars *variable.Table) {
	e := a.Get(id)
	switch e.Kind {
	case KindVar:
		b.WriteString(vars.Surface(e.Var))
	case KindNot:
		b.WriteByte('!')
		a.format(b, e.Kids[0], vars)
	case KindAnd:
		if len(e.Kids) == 0 {
			b.WriteString("true")
			return
		}
		a.formatList(b, e.Kids, "&", vars)
	case KindOr:
		if len(e.Kids) == 0 {
			b.WriteString("false")
			return
		}
		a.formatList(b, e.Kids, "|", vars)
	}
}

func (a *Arena) formatList(b *strings.Builder, kids []ExprID, sep string, vars *variable.Table) {
	b.WriteByte('(')
	for i, k := range kids {
		if i > 0 {
			b.WriteString(sep)
		}
		a.format(b, k, vars)
	}
	b.WriteByte(')')
}
