// Package variable implements the variable table: the interning of
// variable identities used throughout the formula engine.
//
// A variable is either Named (declared by a user-facing name, such as a
// feature name from a feature model) or Auxiliary (introduced internally by
// a rewrite such as Tseitin's transformation). Both kinds share one dense,
// 1-based id space; id 0 is reserved and never assigned.
package variable

import "fmt"

// ID identifies a variable within a Table. Valid ids start at 1; 0 is never
// a valid id and is returned by lookups that fail.
type ID int

// Kind distinguishes the two flavors of variable.
type Kind int

const (
	// Named variables are interned by name: interning the same name twice
	// returns the same ID.
	Named Kind = iota
	// Auxiliary variables are never interned; every call to NewAux
	// allocates a fresh ID and the next discriminator in sequence.
	Auxiliary
)

// DefaultAuxPrefix is used to render an Auxiliary variable's display name
// when no other prefix has been configured on the Table.
const DefaultAuxPrefix = "_aux_"

// entry is the internal record kept for each allocated id.
type entry struct {
	kind    Kind
	name    string // for Named: the interned name; for Auxiliary: unused
	surface string // for Named: the source syntax's own spelling, if set by SetSurface
	disc    uint64 // for Auxiliary: the discriminator used to build the display name
}

// Table interns and stores variables. The zero value is not usable; use
// New. A Table is not safe for concurrent use without external
// synchronization, matching the non-reentrant, single-owner-thread model of
// the rest of the engine.
type Table struct {
	entries   []entry // index 0 is an unused sentinel, mirroring formula's id-0 convention
	byName    map[string]ID
	nextAux   uint64
	auxPrefix string
}

// New returns an empty Table using DefaultAuxPrefix for auxiliary display
// names.
func New() *Table {
	return &Table{
		entries:   []entry{{}}, // reserve index 0
		byName:    make(map[string]ID),
		auxPrefix: DefaultAuxPrefix,
	}
}

// SetAuxPrefix overrides the prefix used when rendering auxiliary variable
// names. It does not rename variables already allocated.
func (t *Table) SetAuxPrefix(prefix string) {
	t.auxPrefix = prefix
}

// InternNamed returns the ID for name, allocating a new one on first use
// and returning the same ID on every subsequent call with the same name.
func (t *Table) InternNamed(name string) ID {
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := ID(len(t.entries))
	t.entries = append(t.entries, entry{kind: Named, name: name})
	t.byName[name] = id
	return id
}

// LookupNamed returns the ID previously interned for name, and whether it
// was found.
func (t *Table) LookupNamed(name string) (ID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// NewAux allocates a fresh Auxiliary variable id. Unlike InternNamed, this
// always allocates: two calls never return the same id, and each new
// auxiliary gets the next discriminator (0, 1, 2, ...) for its display
// name.
func (t *Table) NewAux() ID {
	id := ID(len(t.entries))
	disc := t.nextAux
	t.nextAux++
	t.entries = append(t.entries, entry{kind: Auxiliary, disc: disc})
	return id
}

// Kind reports whether id is Named or Auxiliary. It panics if id is out of
// range, since that indicates a caller bug (a dangling or foreign id), not
// a recoverable condition.
func (t *Table) Kind(id ID) Kind {
	t.mustValid(id)
	return t.entries[id].kind
}

// Name returns the display name of id: the interned string for a Named
// variable, or "<prefix><discriminator>" for an Auxiliary one.
func (t *Table) Name(id ID) string {
	t.mustValid(id)
	e := t.entries[id]
	if e.kind == Named {
		return e.name
	}
	return fmt.Sprintf("%s%d", t.auxPrefix, e.disc)
}

// SetSurface records how id was spelled in its original source syntax (for
// example, a .model atom "def(a)" for a Named variable interned under the
// bare name "a"), for use by anything re-emitting the formula in a
// human-readable form. It does not affect Name, InternNamed, or LookupNamed,
// which continue to key on the bare interned name.
func (t *Table) SetSurface(id ID, surface string) {
	t.mustValid(id)
	t.entries[id].surface = surface
}

// Surface returns id's recorded source-syntax spelling, or its Name if none
// was set via SetSurface.
func (t *Table) Surface(id ID) string {
	t.mustValid(id)
	if s := t.entries[id].surface; s != "" {
		return s
	}
	return t.Name(id)
}

// IsNamed reports whether id was produced by InternNamed.
func (t *Table) IsNamed(id ID) bool {
	return t.Kind(id) == Named
}

// Len returns the number of allocated variables (excluding the id-0
// sentinel).
func (t *Table) Len() int {
	return len(t.entries) - 1
}

// Valid reports whether id refers to an allocated variable.
func (t *Table) Valid(id ID) bool {
	return id >= 1 && int(id) < len(t.entries)
}

func (t *Table) mustValid(id ID) {
	if !t.Valid(id) {
		panic(fmt.Sprintf("variable: invalid id %d", id))
	}
}

// Ids returns every allocated id in allocation order.
func (t *Table) Ids() []ID {
	ids := make([]ID, 0, t.Len())
	for i := 1; i < len(t.entries); i++ {
		ids = append(ids, ID(i))
	}
	return ids
}
