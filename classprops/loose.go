package classprops

import (
	"fmt"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/token"

	"github.com/t14raptor/go-fast-classprops/helper"
)

// looseHandler rewrites a private access to direct property access
// under the masking key: `o.#x` becomes
// `_classPrivateFieldLooseBase(o, _x)[_x]`. The result is an ordinary
// member expression, so one rewrite serves reads, writes, updates and
// calls alike; the runtime base helper carries the brand check.
type looseHandler struct {
	names *PrivateNamesMap
	inj   *helper.Injector
}

func (h *looseHandler) base(m *ast.PrivateDotExpression) *ast.MemberExpression {
	name := m.Identifier.Identifier.Name
	e, ok := h.names.Get(name)
	if !ok {
		panic(fmt.Sprintf("classprops: unresolved private name #%s", name))
	}
	baseCall := &ast.CallExpression{
		Callee: expr(h.inj.Ref(helper.ClassPrivateFieldLooseBase)),
		ArgumentList: ast.Expressions{
			*m.Left,
			*expr(&ast.Identifier{Name: e.ID.Name}),
		},
	}
	return member(baseCall, &ast.Identifier{Name: e.ID.Name})
}

func (h *looseHandler) handleRead(m *ast.PrivateDotExpression) ast.Expr {
	return h.base(m)
}

func (h *looseHandler) handleWrite(op token.Token, m *ast.PrivateDotExpression, value *ast.Expression) ast.Expr {
	// Compound operators keep working: a member expression target is
	// evaluated once as a reference.
	return &ast.AssignExpression{Operator: op, Left: expr(h.base(m)), Right: value}
}

func (h *looseHandler) handleUpdate(update *ast.UpdateExpression, m *ast.PrivateDotExpression) ast.Expr {
	update.Operand = expr(h.base(m))
	return update
}

func (h *looseHandler) handleCall(m *ast.PrivateDotExpression, args ast.Expressions) ast.Expr {
	// The base object is the receiver, which is what a loose private
	// method call wants.
	return &ast.CallExpression{Callee: expr(h.base(m)), ArgumentList: args}
}
