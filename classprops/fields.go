package classprops

import (
	"fmt"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/token"

	"github.com/t14raptor/go-fast-classprops/helper"
)

// fieldKind selects the installation strategy for one field
// declaration. All eight combinations are meaningful and each has its
// own builder; a missing table entry is an internal bug, not an input
// error.
type fieldKind struct {
	Static  bool
	Private bool
	Loose   bool
}

type fieldBuilder struct {
	names *PrivateNamesMap
	inj   *helper.Injector
}

type initializerBuilder func(b *fieldBuilder, target ast.Expr, field *ast.FieldDefinition) ast.Statement

var initializerBuilders = map[fieldKind]initializerBuilder{
	{Static: false, Private: false, Loose: false}: buildPublicSpec,
	{Static: false, Private: false, Loose: true}:  buildPublicLoose,
	{Static: false, Private: true, Loose: false}:  buildInstancePrivateSpec,
	{Static: false, Private: true, Loose: true}:   buildPrivateLooseDefine,
	{Static: true, Private: false, Loose: false}:  buildPublicSpec,
	{Static: true, Private: false, Loose: true}:   buildPublicLoose,
	{Static: true, Private: true, Loose: false}:   buildStaticPrivateSpec,
	{Static: true, Private: true, Loose: true}:    buildPrivateLooseDefine,
}

func buildFieldInitializer(b *fieldBuilder, kind fieldKind, target ast.Expr, field *ast.FieldDefinition) ast.Statement {
	build, ok := initializerBuilders[kind]
	if !ok {
		panic(fmt.Sprintf("classprops: no initializer builder for %+v", kind))
	}
	return build(b, target, field)
}

func (b *fieldBuilder) entry(field *ast.FieldDefinition) *PrivateNameEntry {
	private, ok := field.Key.Expr.(*ast.PrivateIdentifier)
	if !ok {
		panic("classprops: private builder invoked on public field")
	}
	e, ok := b.names.Get(private.Identifier.Name)
	if !ok {
		panic(fmt.Sprintf("classprops: unresolved private name #%s", private.Identifier.Name))
	}
	return e
}

// fieldValue is the installed value: the declared initializer, or
// undefined for a bare declaration.
func fieldValue(field *ast.FieldDefinition) ast.Expr {
	if field.Initializer == nil {
		return voidZero()
	}
	return field.Initializer.Expr
}

// descriptor builds the `{ writable: true, value: v }` object the
// WeakMap and static-descriptor storage forms share.
func descriptor(value ast.Expr) *ast.ObjectLiteral {
	return &ast.ObjectLiteral{Value: ast.Properties{
		{Prop: &ast.PropertyKeyed{
			Key:   expr(strLit("writable")),
			Kind:  ast.PropertyKindValue,
			Value: expr(&ast.BooleanLiteral{Value: true}),
		}},
		{Prop: &ast.PropertyKeyed{
			Key:   expr(strLit("value")),
			Kind:  ast.PropertyKindValue,
			Value: expr(value),
		}},
	}}
}

// buildPublicSpec installs a public field with the defineProperty
// helper so the installation is a definition, not an assignment, and
// never trips an inherited setter.
func buildPublicSpec(b *fieldBuilder, target ast.Expr, field *ast.FieldDefinition) ast.Statement {
	return exprStmt(callExpr(b.inj.Ref(helper.DefineProperty), target, field.Key.Expr, fieldValue(field)))
}

// buildPublicLoose installs a public field with plain assignment,
// matching pre-class-fields constructor code.
func buildPublicLoose(b *fieldBuilder, target ast.Expr, field *ast.FieldDefinition) ast.Statement {
	assign := &ast.AssignExpression{
		Operator: token.Assign,
		Left:     expr(member(target, field.Key.Expr)),
		Right:    expr(fieldValue(field)),
	}
	return exprStmt(assign)
}

// buildInstancePrivateSpec registers the instance in the field's
// WeakMap: `_x.set(this, { writable: true, value: v })`.
func buildInstancePrivateSpec(b *fieldBuilder, target ast.Expr, field *ast.FieldDefinition) ast.Statement {
	e := b.entry(field)
	set := member(&ast.Identifier{Name: e.ID.Name}, strLit("set"))
	return exprStmt(callExpr(set, target, descriptor(fieldValue(field))))
}

// buildStaticPrivateSpec binds the per-class descriptor the static
// access helpers close over: `var _x = { writable: true, value: v }`.
// The statement doubles as the field's declaration node.
func buildStaticPrivateSpec(b *fieldBuilder, target ast.Expr, field *ast.FieldDefinition) ast.Statement {
	return varDecl(b.entry(field).ID, descriptor(fieldValue(field)))
}

// buildPrivateLooseDefine installs the masked property non-enumerably:
// `Object.defineProperty(target, _x, { writable: true, value: v })`.
func buildPrivateLooseDefine(b *fieldBuilder, target ast.Expr, field *ast.FieldDefinition) ast.Statement {
	e := b.entry(field)
	define := member(&ast.Identifier{Name: "Object"}, strLit("defineProperty"))
	return exprStmt(callExpr(define, target, &ast.Identifier{Name: e.ID.Name}, descriptor(fieldValue(field))))
}
