// Package classprops lowers class instance/static field declarations
// and private-field accesses into older-target constructs.
//
// The pass operates on a go-fast AST owned by the caller: it builds a
// table of the class's private names, rewrites every use site in the
// class's lexical extent, and hands back the initializer statements for
// the caller to splice into the class's construction sequence. Two
// strategies are supported: ModeSpec routes accesses through runtime
// helpers backed by per-instance WeakMap (or per-class descriptor)
// storage, ModeLoose rewrites to direct property access under a
// masking key.
package classprops

import (
	"fmt"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/token"

	"github.com/t14raptor/go-fast-classprops/helper"
	"github.com/t14raptor/go-fast-classprops/uid"
)

type Mode int

const (
	ModeSpec Mode = iota
	ModeLoose
)

// Initializers holds the statements produced for one lowered class.
// Static statements install on the class object and run once, after
// the class binding exists; Instance statements install on `this` and
// belong at the top of the constructor.
type Initializers struct {
	Static   ast.Statements
	Instance ast.Statements
}

// LowerClass rewrites every private-name use site in the class extent
// and converts the class's field declarations into initializer
// statements, removing the field elements from the class body. The
// names map must have been built from this same class's members; ref
// is the expression the host uses to address the class object.
func LowerClass(class *ast.ClassLiteral, ref ast.Expr, names *PrivateNamesMap, mode Mode, uids *uid.Allocator, inj *helper.Injector) Initializers {
	var h accessHandler
	switch mode {
	case ModeSpec:
		h = &specHandler{
			names:    names,
			classRef: expr(ref),
			memo:     newMemoiser(uids),
			uids:     uids,
			inj:      inj,
		}
	case ModeLoose:
		h = &looseHandler{names: names, inj: inj}
	default:
		panic(fmt.Sprintf("classprops: unknown lowering mode %d", mode))
	}
	rewriteReferences(class, names, h)

	b := &fieldBuilder{names: names, inj: inj}
	var out Initializers
	kept := class.Body[:0]
	for i := range class.Body {
		field, ok := class.Body[i].Element.(*ast.FieldDefinition)
		if !ok {
			kept = append(kept, class.Body[i])
			continue
		}
		_, private := field.Key.Expr.(*ast.PrivateIdentifier)
		kind := fieldKind{Static: field.Static, Private: private, Loose: mode == ModeLoose}
		var target ast.Expr
		if field.Static {
			target = cloneExpr(ref)
		} else {
			target = &ast.ThisExpression{}
		}
		stmt := buildFieldInitializer(b, kind, target, field)
		if field.Static {
			out.Static = append(out.Static, stmt)
		} else {
			out.Instance = append(out.Instance, stmt)
		}
	}
	class.Body = kept
	return out
}

// accessHandler is the mode-specific lowering strategy the walker
// dispatches private-member use sites to.
type accessHandler interface {
	handleRead(member *ast.PrivateDotExpression) ast.Expr
	handleWrite(op token.Token, member *ast.PrivateDotExpression, value *ast.Expression) ast.Expr
	handleUpdate(update *ast.UpdateExpression, member *ast.PrivateDotExpression) ast.Expr
	handleCall(member *ast.PrivateDotExpression, args ast.Expressions) ast.Expr
}

func expr(e ast.Expr) *ast.Expression {
	return &ast.Expression{Expr: e}
}

func cloneExpr(e ast.Expr) ast.Expr {
	return (&ast.Expression{Expr: e}).Clone().Expr
}

func strLit(value string) *ast.StringLiteral {
	raw := `"` + value + `"`
	return &ast.StringLiteral{Value: value, Raw: &raw}
}

func numberLit(value float64, raw string) *ast.NumberLiteral {
	return &ast.NumberLiteral{Value: value, Raw: &raw}
}

func voidZero() ast.Expr {
	return &ast.UnaryExpression{Operator: token.Void, Operand: expr(numberLit(0, "0"))}
}

func callExpr(callee ast.Expr, args ...ast.Expr) *ast.CallExpression {
	call := &ast.CallExpression{Callee: expr(callee)}
	for _, a := range args {
		call.ArgumentList = append(call.ArgumentList, *expr(a))
	}
	return call
}

func member(object ast.Expr, property ast.Expr) *ast.MemberExpression {
	return &ast.MemberExpression{Object: expr(object), Property: &ast.MemberProperty{
		Prop: &ast.ComputedProperty{Expr: expr(property)},
	}}
}

func varDecl(id *ast.Identifier, init ast.Expr) ast.Statement {
	return ast.Statement{Stmt: &ast.VariableDeclaration{
		Token: token.Var,
		List: ast.VariableDeclarators{{
			Target:      &ast.BindingTarget{Target: &ast.Identifier{Name: id.Name}},
			Initializer: expr(init),
		}},
	}}
}

func exprStmt(e ast.Expr) ast.Statement {
	return ast.Statement{Stmt: &ast.ExpressionStatement{Expression: expr(e)}}
}
