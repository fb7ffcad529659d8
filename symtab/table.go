package symtab

// Table is a SymbolTable (SPEC_FULL.md §3.6): an ordered — not a map —
// sequence of entries, because overloaded functions legally share an id,
// and declaration order matters for both codegen and the .outsymboltable
// dump. Counters back the checker's per-function temp/if/while label
// allocation (§4.6).
type Table struct {
	Name    string
	Scope   string // owning class id, "" for the global table or a free function
	Values  []Entry

	nextTemp  int
	nextIf    int
	nextWhile int
}

// New builds an empty table named name, scoped under scope ("" for none).
func New(name, scope string) *Table {
	return &Table{Name: name, Scope: scope}
}

// Add appends an entry and returns it, mirroring the teacher's and the
// original's "insert, then hand back a reference to keep working with it"
// idiom.
func (t *Table) Add(e Entry) Entry {
	t.Values = append(t.Values, e)
	return e
}

// Get returns the first entry with the given id, or nil.
func (t *Table) Get(id string) Entry {
	for _, e := range t.Values {
		if e.ID() == id {
			return e
		}
	}
	return nil
}

// GetAll returns every entry with the given id (used for overload and
// redefinition checks, where more than one match is expected and legal).
func (t *Table) GetAll(id string) []Entry {
	var out []Entry
	for _, e := range t.Values {
		if e.ID() == id {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether any entry has the given id.
func (t *Table) Contains(id string) bool {
	return t.Get(id) != nil
}

// Functions returns every Function entry in this table, in declaration order.
func (t *Table) Functions() []*Function {
	var out []*Function
	for _, e := range t.Values {
		if f, ok := e.(*Function); ok {
			out = append(out, f)
		}
	}
	return out
}

// Classes returns every Class entry in this table, in declaration order.
func (t *Table) Classes() []*Class {
	var out []*Class
	for _, e := range t.Values {
		if c, ok := e.(*Class); ok {
			out = append(out, c)
		}
	}
	return out
}

// Inherits returns this table's Inherit entry's names, or nil if absent.
func (t *Table) Inherits() []string {
	for _, e := range t.Values {
		if i, ok := e.(*Inherit); ok {
			return i.Names
		}
	}
	return nil
}

// ReplaceFunction swaps a declared-but-not-yet-defined stub for its full
// definition in place, preserving declaration order (SPEC_FULL.md §4.5:
// "locate the matching ... stub ... replace it with a fully defined copy").
func (t *Table) ReplaceFunction(stub, def *Function) bool {
	for i, e := range t.Values {
		if fn, ok := e.(*Function); ok && fn == stub {
			t.Values[i] = def
			return true
		}
	}
	return false
}

// NextTemp allocates and returns the next temporary-variable ordinal.
func (t *Table) NextTemp() int { t.nextTemp++; return t.nextTemp }

// NextIf allocates and returns the next if-statement label ordinal.
func (t *Table) NextIf() int { t.nextIf++; return t.nextIf }

// NextWhile allocates and returns the next while-statement label ordinal.
func (t *Table) NextWhile() int { t.nextWhile++; return t.nextWhile }

// GetAllInherited collects every entry named id from cls's ancestor classes
// (not cls itself), walking the inheritance DAG depth-first with a
// visited set to guard against cycles a prior pass failed to reject
// (SPEC_FULL.md §4.5/§4.6).
func GetAllInherited(global *Table, cls *Class, id string) []Entry {
	visited := map[string]struct{}{cls.Id: {}}
	return collectInherited(global, cls, id, visited)
}

func collectInherited(global *Table, cls *Class, id string, visited map[string]struct{}) []Entry {
	var out []Entry
	for _, parentName := range cls.Table.Inherits() {
		parentEntry := global.Get(parentName)
		parent, ok := parentEntry.(*Class)
		if !ok {
			continue
		}
		if _, seen := visited[parent.Id]; seen {
			continue
		}
		visited[parent.Id] = struct{}{}
		out = append(out, parent.Table.GetAll(id)...)
		out = append(out, collectInherited(global, parent, id, visited)...)
	}
	return out
}

// InheritanceHasCycle reports whether walking cls's Inherit list (and its
// ancestors', transitively) revisits a class already on the current path.
// Run once after every class is installed (SPEC_FULL.md §4.5).
func InheritanceHasCycle(global *Table, cls *Class) bool {
	return hasCycle(global, cls.Table.Inherits(), map[string]struct{}{cls.Id: {}})
}

func hasCycle(global *Table, names []string, path map[string]struct{}) bool {
	for _, name := range names {
		if _, onPath := path[name]; onPath {
			return true
		}
	}
	next := make(map[string]struct{}, len(path)+len(names))
	for k := range path {
		next[k] = struct{}{}
	}
	for _, name := range names {
		next[name] = struct{}{}
	}
	for _, name := range names {
		entry := global.Get(name)
		cls, ok := entry.(*Class)
		if !ok {
			continue
		}
		if hasCycle(global, cls.Table.Inherits(), next) {
			return true
		}
	}
	return false
}
