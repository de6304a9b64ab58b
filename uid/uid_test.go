package uid_test

import (
	"testing"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/parser"

	"github.com/t14raptor/go-fast-classprops/uid"
)

func TestUIDAvoidsSeededNames(t *testing.T) {
	prog, err := parser.ParseFile(`var _x = 1; function f(_x2) { return _x + _x2; }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := uid.New(prog)

	if got := a.UID("x").Name; got != "_x3" {
		t.Errorf("UID(x) = %s, want _x3", got)
	}
	if got := a.UID("y").Name; got != "_y" {
		t.Errorf("UID(y) = %s, want _y", got)
	}
}

func TestUIDSeedsClassMemberBindings(t *testing.T) {
	prog, err := parser.ParseFile(`class A { f() { var _x = 1; return _x; } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := uid.New(prog)

	if got := a.UID("x").Name; got != "_x2" {
		t.Errorf("UID(x) = %s, want _x2 past the method-body binding", got)
	}
}

func TestUIDNeverRepeats(t *testing.T) {
	a := uid.New(nil)
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		name := a.UID("obj").Name
		if _, dup := seen[name]; dup {
			t.Fatalf("UID repeated %s", name)
		}
		seen[name] = struct{}{}
	}
}

func TestSanitize(t *testing.T) {
	a := uid.New(nil)
	if got := a.UID("a.b[0]").Name; got != "_ab0" {
		t.Errorf("UID(a.b[0]) = %s, want _ab0", got)
	}
	if got := a.UID("!!!").Name; got != "_ref" {
		t.Errorf("UID(!!!) = %s, want _ref", got)
	}
}

func TestDeclarations(t *testing.T) {
	a := uid.New(nil)
	if decls := a.Declarations(); decls != nil {
		t.Fatalf("empty allocator declared %d statements", len(decls))
	}

	a.UID("plain")
	obj := a.DeclaredUID("obj")
	old := a.DeclaredUID("old")

	decls := a.Declarations()
	if len(decls) != 1 {
		t.Fatalf("got %d statements, want 1", len(decls))
	}
	decl, ok := decls[0].Stmt.(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("declared %T, want var declaration", decls[0].Stmt)
	}
	if len(decl.List) != 2 {
		t.Fatalf("declared %d names, want 2", len(decl.List))
	}
	first := decl.List[0].Target.Target.(*ast.Identifier).Name
	second := decl.List[1].Target.Target.(*ast.Identifier).Name
	if first != obj.Name || second != old.Name {
		t.Errorf("declared [%s %s], want [%s %s]", first, second, obj.Name, old.Name)
	}
	if decl.List[0].Initializer != nil {
		t.Error("declared temporaries must not carry initializers")
	}
}
