package helper_test

import (
	"testing"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/parser"

	"github.com/t14raptor/go-fast-classprops/helper"
	"github.com/t14raptor/go-fast-classprops/uid"
)

func TestRefDeduplicates(t *testing.T) {
	inj := helper.NewInjector(uid.New(nil))

	first := inj.Ref(helper.ClassPrivateFieldGet)
	second := inj.Ref(helper.ClassPrivateFieldGet)
	if first.Name != second.Name {
		t.Errorf("repeated refs name %s and %s", first.Name, second.Name)
	}
	if first == second {
		t.Error("refs must be distinct nodes")
	}

	stmts := inj.Statements()
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1 declaration", len(stmts))
	}
	fn, ok := stmts[0].Stmt.(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("injected %T, want function declaration", stmts[0].Stmt)
	}
	if fn.Function.Name.Name != first.Name {
		t.Errorf("declared %s, referenced %s", fn.Function.Name.Name, first.Name)
	}
}

func TestRefAvoidsExistingBindings(t *testing.T) {
	prog, err := parser.ParseFile(`function _defineProperty(o) { return o; }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	inj := helper.NewInjector(uid.New(prog))

	ref := inj.Ref(helper.DefineProperty)
	if ref.Name == "_defineProperty" {
		t.Errorf("helper name %s collides with an existing binding", ref.Name)
	}
}

func TestLooseKeyHelperCarriesCounter(t *testing.T) {
	uids := uid.New(nil)
	inj := helper.NewInjector(uids)

	ref := inj.Ref(helper.ClassPrivateFieldLooseKey)
	stmts := inj.Statements()
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want counter + function", len(stmts))
	}
	decl, ok := stmts[0].Stmt.(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("first statement is %T, want the counter declaration", stmts[0].Stmt)
	}
	counter := decl.List[0].Target.Target.(*ast.Identifier).Name
	if counter == "_privateKeyId" {
		// The arena was empty, so the original name is expected. Allocate
		// it up front in a second injector to force the rename.
		uids2 := uid.New(nil)
		uids2.UID("privateKeyId")
		inj2 := helper.NewInjector(uids2)
		inj2.Ref(helper.ClassPrivateFieldLooseKey)
		decl2 := inj2.Statements()[0].Stmt.(*ast.VariableDeclaration)
		renamed := decl2.List[0].Target.Target.(*ast.Identifier).Name
		if renamed == "_privateKeyId" {
			t.Error("counter binding not renamed on collision")
		}
	}
	fn, ok := stmts[1].Stmt.(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("second statement is %T, want the key function", stmts[1].Stmt)
	}
	if fn.Function.Name.Name != ref.Name {
		t.Errorf("declared %s, referenced %s", fn.Function.Name.Name, ref.Name)
	}
}

func TestStatementsFollowFirstUseOrder(t *testing.T) {
	inj := helper.NewInjector(uid.New(nil))
	setRef := inj.Ref(helper.ClassPrivateFieldSet)
	getRef := inj.Ref(helper.ClassPrivateFieldGet)

	stmts := inj.Statements()
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	names := make([]string, 2)
	for i, s := range stmts {
		names[i] = s.Stmt.(*ast.FunctionDeclaration).Function.Name.Name
	}
	if names[0] != setRef.Name || names[1] != getRef.Name {
		t.Errorf("order %v, want [%s %s]", names, setRef.Name, getRef.Name)
	}
}

func TestUnknownHelperPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("unknown helper did not panic")
		}
	}()
	helper.NewInjector(uid.New(nil)).Ref(helper.Name("noSuchHelper"))
}
