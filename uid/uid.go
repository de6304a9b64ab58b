// Package uid allocates collision-free identifiers for generated code.
//
// An Allocator is an explicit arena of names: it is seeded with every
// identifier visible in a tree and hands out fresh underscore-prefixed
// names with a monotonically increasing suffix.
package uid

import (
	"strconv"
	"strings"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/token"
)

type Allocator struct {
	used     map[string]struct{}
	declared []*ast.Identifier
}

type nameCollector struct {
	ast.NoopVisitor
	names map[string]struct{}
}

func (v *nameCollector) VisitIdentifier(n *ast.Identifier) {
	v.names[n.Name] = struct{}{}
}

// VisitClassLiteral walks class elements explicitly; the generic child
// traversal does not cover them on every go-fast revision, and a name
// bound inside a member body must still seed the arena.
func (v *nameCollector) VisitClassLiteral(n *ast.ClassLiteral) {
	if n.Name != nil {
		v.names[n.Name.Name] = struct{}{}
	}
	if n.SuperClass != nil {
		n.SuperClass.VisitWith(v.V)
	}
	for i := range n.Body {
		switch el := n.Body[i].Element.(type) {
		case *ast.FieldDefinition:
			el.Key.VisitWith(v.V)
			if el.Initializer != nil {
				el.Initializer.VisitWith(v.V)
			}
		case *ast.MethodDefinition:
			el.Key.VisitWith(v.V)
			el.Body.VisitWith(v.V)
		case *ast.ClassStaticBlock:
			el.Block.VisitWith(v.V)
		}
	}
}

// New builds an allocator seeded with every identifier name reachable
// from root. Nil root starts from an empty arena.
func New(root ast.VisitableNode) *Allocator {
	a := &Allocator{used: make(map[string]struct{})}
	if root != nil {
		v := &nameCollector{names: a.used}
		v.V = v
		root.VisitWith(v)
	}
	return a
}

// UID returns a fresh identifier derived from base, guaranteed not to
// collide with any seeded or previously allocated name.
func (a *Allocator) UID(base string) *ast.Identifier {
	name := "_" + sanitize(base)
	if _, taken := a.used[name]; taken {
		for i := 2; ; i++ {
			if _, taken := a.used[name+strconv.Itoa(i)]; !taken {
				name += strconv.Itoa(i)
				break
			}
		}
	}
	a.used[name] = struct{}{}
	return &ast.Identifier{Name: name}
}

// DeclaredUID is UID plus registration for Declarations.
func (a *Allocator) DeclaredUID(base string) *ast.Identifier {
	id := a.UID(base)
	a.declared = append(a.declared, id)
	return id
}

// Declarations returns a single `var _a, _b;` statement covering every
// DeclaredUID handed out so far, or no statements if there were none.
// The caller splices it into the scope enclosing the generated code.
func (a *Allocator) Declarations() ast.Statements {
	if len(a.declared) == 0 {
		return nil
	}
	decl := &ast.VariableDeclaration{Token: token.Var}
	for _, id := range a.declared {
		decl.List = append(decl.List, ast.VariableDeclarator{
			Target: &ast.BindingTarget{Target: &ast.Identifier{Name: id.Name}},
		})
	}
	return ast.Statements{{Stmt: decl}}
}

func sanitize(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '$':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "ref"
	}
	return b.String()
}
