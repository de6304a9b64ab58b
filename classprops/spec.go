package classprops

import (
	"fmt"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/token"

	"github.com/t14raptor/go-fast-classprops/helper"
	"github.com/t14raptor/go-fast-classprops/uid"
)

// specHandler lowers private accesses through the runtime helpers,
// preserving full access-control semantics. Instance entries read and
// write WeakMap storage; static entries read and write a descriptor
// bound in the enclosing scope, with the class reference passed along
// for the helper's provenance check.
type specHandler struct {
	names    *PrivateNamesMap
	classRef *ast.Expression
	memo     *memoiser
	uids     *uid.Allocator
	inj      *helper.Injector
}

func (h *specHandler) entry(member *ast.PrivateDotExpression) *PrivateNameEntry {
	name := member.Identifier.Identifier.Name
	e, ok := h.names.Get(name)
	if !ok {
		// The walker only dispatches names it found in the map.
		panic(fmt.Sprintf("classprops: unresolved private name #%s", name))
	}
	return e
}

func (h *specHandler) idRef(e *PrivateNameEntry) ast.Expr {
	return &ast.Identifier{Name: e.ID.Name}
}

func (h *specHandler) getWith(recv ast.Expr, e *PrivateNameEntry) ast.Expr {
	if e.Static {
		return callExpr(h.inj.Ref(helper.ClassStaticPrivateFieldGet), recv, cloneExpr(h.classRef.Expr), h.idRef(e))
	}
	return callExpr(h.inj.Ref(helper.ClassPrivateFieldGet), recv, h.idRef(e))
}

func (h *specHandler) setWith(recv ast.Expr, e *PrivateNameEntry, value ast.Expr) ast.Expr {
	if e.Static {
		return callExpr(h.inj.Ref(helper.ClassStaticPrivateFieldSet), recv, cloneExpr(h.classRef.Expr), h.idRef(e), value)
	}
	return callExpr(h.inj.Ref(helper.ClassPrivateFieldSet), recv, h.idRef(e), value)
}

func (h *specHandler) handleRead(member *ast.PrivateDotExpression) ast.Expr {
	return h.getWith(h.memo.receiver(member.Left), h.entry(member))
}

func (h *specHandler) handleWrite(op token.Token, member *ast.PrivateDotExpression, value *ast.Expression) ast.Expr {
	e := h.entry(member)
	if op == token.Assign {
		return h.setWith(h.memo.receiver(member.Left), e, value.Expr)
	}
	binOp, logical, ok := binaryOpOf(op)
	if !ok {
		panic(fmt.Sprintf("classprops: unsupported assignment operator %s on private member", op.String()))
	}
	h.memo.memoise(member.Left, 2)
	if logical {
		// o.#x ||= v  =>  get(o, _x) || set(o, _x, v)
		return &ast.BinaryExpression{
			Operator: binOp,
			Left:     expr(h.getWith(h.memo.receiver(member.Left), e)),
			Right:    expr(h.setWith(h.memo.receiver(member.Left), e, value.Expr)),
		}
	}
	// The set receiver is built first so the capture assignment lands
	// in the first evaluated argument position; the get then reuses the
	// temporary and runs before the helper stores.
	recvSet := h.memo.receiver(member.Left)
	recvGet := h.memo.receiver(member.Left)
	combined := &ast.BinaryExpression{
		Operator: binOp,
		Left:     expr(h.getWith(recvGet, e)),
		Right:    value,
	}
	return h.setWith(recvSet, e, combined)
}

func (h *specHandler) handleUpdate(update *ast.UpdateExpression, member *ast.PrivateDotExpression) ast.Expr {
	e := h.entry(member)
	binOp := token.Plus
	if update.Operator == token.Decrement {
		binOp = token.Minus
	}
	h.memo.memoise(member.Left, 2)
	recvSet := h.memo.receiver(member.Left)
	recvGet := h.memo.receiver(member.Left)
	// Unary plus reproduces the numeric coercion of ++/--.
	old := &ast.UnaryExpression{Operator: token.Plus, Operand: expr(h.getWith(recvGet, e))}

	if !update.Postfix {
		next := &ast.BinaryExpression{Operator: binOp, Left: expr(old), Right: expr(numberLit(1, "1"))}
		return h.setWith(recvSet, e, next)
	}

	// o.#x++  =>  (set(o, _x, (_t = +get(o, _x)) + 1), _t)
	tmp := h.uids.DeclaredUID("old")
	captured := &ast.AssignExpression{
		Operator: token.Assign,
		Left:     expr(&ast.Identifier{Name: tmp.Name}),
		Right:    expr(old),
	}
	next := &ast.BinaryExpression{Operator: binOp, Left: expr(captured), Right: expr(numberLit(1, "1"))}
	return &ast.SequenceExpression{Sequence: ast.Expressions{
		*expr(h.setWith(recvSet, e, next)),
		*expr(&ast.Identifier{Name: tmp.Name}),
	}}
}

func (h *specHandler) handleCall(member *ast.PrivateDotExpression, args ast.Expressions) ast.Expr {
	e := h.entry(member)
	// Two reads: once for the get, once as the `.call` receiver.
	h.memo.memoise(member.Left, 2)
	callee := h.getWith(h.memo.receiver(member.Left), e)
	return optimizeCall(callee, h.memo.receiver(member.Left), args)
}

// binaryOpOf maps a compound assignment operator to the binary
// operator it applies, flagging the short-circuiting forms. The parser
// stores the base operator on AssignExpression (Plus for `+=`), so the
// mapping is identity over the valid compound operators.
func binaryOpOf(op token.Token) (binOp token.Token, logical, ok bool) {
	switch op {
	case token.Plus, token.Minus, token.Multiply, token.Exponent,
		token.Slash, token.Remainder, token.And, token.Or,
		token.ExclusiveOr, token.ShiftLeft, token.ShiftRight,
		token.UnsignedShiftRight:
		return op, false, true
	case token.LogicalAnd, token.LogicalOr, token.Coalesce:
		return op, true, true
	}
	return 0, false, false
}
