package classprops

import (
	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/ast/ext"
	"github.com/t14raptor/go-fast/token"

	"github.com/t14raptor/go-fast-classprops/uid"
)

// memoiser caches one-time evaluations of receiver expressions so the
// several reads a compound lowering introduces observe the side effects
// of the original expression exactly once. Entries are keyed by node
// identity and live for a single LowerClass call.
type memoEntry struct {
	id       *ast.Identifier
	count    int
	assigned bool
}

type memoiser struct {
	entries map[ast.Expr]*memoEntry
	uids    *uid.Allocator
}

func newMemoiser(uids *uid.Allocator) *memoiser {
	return &memoiser{entries: make(map[ast.Expr]*memoEntry), uids: uids}
}

// memoise registers object for count future reads. Receivers whose
// re-evaluation cannot be observed (identifiers, this) are not
// memoised; receiver re-clones them instead.
func (m *memoiser) memoise(object *ast.Expression, count int) {
	if !ext.MayHaveSideEffects(object) {
		return
	}
	if e, ok := m.entries[object.Expr]; ok {
		e.count += count
		return
	}
	m.entries[object.Expr] = &memoEntry{
		id:    m.uids.DeclaredUID(receiverBase(object.Expr)),
		count: count,
	}
}

// receiver returns the expression for one read of object: the
// `_obj = object` capture on the first read of a memoised receiver,
// the bare temporary afterwards, or a safe copy when the receiver was
// never memoised. Each read consumes one unit of the registered count;
// reading past it means a handler lied about its use count.
func (m *memoiser) receiver(object *ast.Expression) ast.Expr {
	e, ok := m.entries[object.Expr]
	if !ok {
		return cloneExpr(object.Expr)
	}
	if e.count <= 0 {
		panic("classprops: receiver read past its registered use count")
	}
	e.count--
	if !e.assigned {
		e.assigned = true
		return &ast.AssignExpression{
			Operator: token.Assign,
			Left:     expr(&ast.Identifier{Name: e.id.Name}),
			Right:    expr(object.Expr),
		}
	}
	return &ast.Identifier{Name: e.id.Name}
}

func receiverBase(object ast.Expr) string {
	switch o := object.(type) {
	case *ast.Identifier:
		return o.Name
	case *ast.CallExpression:
		if callee, ok := o.Callee.Expr.(*ast.Identifier); ok {
			return callee.Name
		}
	}
	return "obj"
}
