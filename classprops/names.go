package classprops

import (
	"github.com/t14raptor/go-fast/ast"

	"github.com/t14raptor/go-fast-classprops/helper"
	"github.com/t14raptor/go-fast-classprops/uid"
)

// PrivateNameEntry records one private field declared in a class's own
// body. ID is the fresh identifier the lowering targets: a WeakMap (or
// static descriptor) binding in spec mode, a masking key in loose mode.
type PrivateNameEntry struct {
	Name   string
	ID     *ast.Identifier
	Static bool
}

// PrivateNamesMap maps declared private names to their entries, in
// declaration order. It is read-only once built.
type PrivateNamesMap struct {
	entries map[string]*PrivateNameEntry
	order   []string
}

func (m *PrivateNamesMap) Get(name string) (*PrivateNameEntry, bool) {
	e, ok := m.entries[name]
	return e, ok
}

func (m *PrivateNamesMap) Len() int {
	return len(m.order)
}

// Entries returns the entries in declaration order.
func (m *PrivateNamesMap) Entries() []*PrivateNameEntry {
	out := make([]*PrivateNameEntry, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.entries[name])
	}
	return out
}

func (m *PrivateNamesMap) has(member *ast.PrivateDotExpression) bool {
	_, ok := m.entries[member.Identifier.Identifier.Name]
	return ok
}

// BuildPrivateNamesMap scans the declared members of one class body
// and allocates a collision-free internal identifier per private
// field. Non-private members and private methods are ignored; nested
// classes contribute nothing.
func BuildPrivateNamesMap(body ast.ClassElements, uids *uid.Allocator) *PrivateNamesMap {
	m := &PrivateNamesMap{entries: make(map[string]*PrivateNameEntry)}
	for i := range body {
		field, ok := body[i].Element.(*ast.FieldDefinition)
		if !ok {
			continue
		}
		private, ok := field.Key.Expr.(*ast.PrivateIdentifier)
		if !ok {
			continue
		}
		name := private.Identifier.Name
		if _, dup := m.entries[name]; dup {
			// The parser rejects duplicate private declarations.
			continue
		}
		m.entries[name] = &PrivateNameEntry{
			Name:   name,
			ID:     uids.UID(name),
			Static: field.Static,
		}
		m.order = append(m.order, name)
	}
	return m
}

// BuildPrivateNamesNodes returns the statements binding each internal
// identifier in the class's enclosing scope: `var _x = new WeakMap()`
// per instance entry in spec mode, `var _x = _classPrivateFieldLooseKey("x")`
// per entry in loose mode. Static entries in spec mode are bound by
// their initializer statement and get no node here.
func BuildPrivateNamesNodes(names *PrivateNamesMap, mode Mode, inj *helper.Injector) ast.Statements {
	var out ast.Statements
	for _, e := range names.Entries() {
		switch {
		case mode == ModeLoose:
			key := callExpr(inj.Ref(helper.ClassPrivateFieldLooseKey), strLit(e.Name))
			out = append(out, varDecl(e.ID, key))
		case !e.Static:
			store := &ast.NewExpression{Callee: expr(&ast.Identifier{Name: "WeakMap"})}
			out = append(out, varDecl(e.ID, store))
		}
	}
	return out
}
