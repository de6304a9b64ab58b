package classprops

import (
	"github.com/t14raptor/go-fast/ast"
)

// referenceWalker traverses the lexical extent of the class being
// lowered and hands every use of an active private name to the mode
// handler. Rewrites happen in pre-order by replacing Expression.Expr;
// the replacement never contains the matched access again, so children
// of the new node are visited safely to catch nested accesses.
type referenceWalker struct {
	ast.NoopVisitor
	names   *PrivateNamesMap
	handler accessHandler
}

func rewriteReferences(class *ast.ClassLiteral, names *PrivateNamesMap, h accessHandler) {
	w := &referenceWalker{names: names, handler: h}
	w.V = w
	// The heritage clause evaluates in the outer private environment
	// and is not part of this class's extent.
	walkElements(w, class.Body, false)
}

// walkElements visits the class elements that belong to the active
// extent. A restricted walk covers only the material evaluated in the
// enclosing scope: computed keys. Member bodies, field initializers
// and static blocks of a shadowing class are left for that class's own
// lowering.
func walkElements(w *referenceWalker, body ast.ClassElements, restricted bool) {
	for i := range body {
		switch el := body[i].Element.(type) {
		case *ast.FieldDefinition:
			if el.Computed {
				el.Key.VisitWith(w.V)
			}
			if !restricted && el.Initializer != nil {
				el.Initializer.VisitWith(w.V)
			}
		case *ast.MethodDefinition:
			if el.Computed {
				el.Key.VisitWith(w.V)
			}
			if !restricted {
				el.Body.VisitWith(w.V)
			}
		case *ast.ClassStaticBlock:
			if !restricted {
				el.Block.VisitWith(w.V)
			}
		}
	}
}

// VisitClassLiteral applies the shadowing rule to classes nested in
// the extent: a nested class that redeclares an active private name
// owns every reference inside its member bodies, so the walker must
// not descend into them with the outer map.
func (w *referenceWalker) VisitClassLiteral(n *ast.ClassLiteral) {
	if n.SuperClass != nil {
		n.SuperClass.VisitWith(w.V)
	}
	walkElements(w, n.Body, redeclaresActiveName(n.Body, w.names))
}

// redeclaresActiveName reports whether any private member declared in
// body collides with an entry of the active map. Private methods count:
// they shadow just like fields even though they never get map entries.
func redeclaresActiveName(body ast.ClassElements, names *PrivateNamesMap) bool {
	for i := range body {
		var key *ast.Expression
		switch el := body[i].Element.(type) {
		case *ast.FieldDefinition:
			key = el.Key
		case *ast.MethodDefinition:
			key = el.Key
		default:
			continue
		}
		if private, ok := key.Expr.(*ast.PrivateIdentifier); ok {
			if _, ok := names.Get(private.Identifier.Name); ok {
				return true
			}
		}
	}
	return false
}

// VisitExpression is the rewrite dispatch point. Use sites are matched
// against the syntactic context that owns them: assignment target,
// update operand, call target, or plain read. A bare PrivateIdentifier
// that is not the property of a member access (a brand check) never
// matches and is left untouched.
func (w *referenceWalker) VisitExpression(n *ast.Expression) {
	switch e := n.Expr.(type) {
	case *ast.AssignExpression:
		if member := w.match(e.Left); member != nil {
			n.Expr = w.handler.handleWrite(e.Operator, member, e.Right)
		}
	case *ast.UpdateExpression:
		if member := w.match(e.Operand); member != nil {
			n.Expr = w.handler.handleUpdate(e, member)
		}
	case *ast.CallExpression:
		if member := w.match(e.Callee); member != nil {
			n.Expr = w.handler.handleCall(member, e.ArgumentList)
		}
	case *ast.PrivateDotExpression:
		if w.names.has(e) {
			n.Expr = w.handler.handleRead(e)
		}
	}
	n.VisitChildrenWith(w.V)
}

func (w *referenceWalker) match(e *ast.Expression) *ast.PrivateDotExpression {
	if e == nil || e.Expr == nil {
		return nil
	}
	if member, ok := e.Expr.(*ast.PrivateDotExpression); ok && w.names.has(member) {
		return member
	}
	return nil
}
