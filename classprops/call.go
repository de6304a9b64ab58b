package classprops

import (
	"github.com/t14raptor/go-fast/ast"
)

// optimizeCall builds the receiver-preserving call for a lowered
// private method access: `get(o, _x).call(o, args...)`. A `super`
// receiver folds to `this`, which is what the original member call
// passed.
func optimizeCall(callee ast.Expr, thisArg ast.Expr, args ast.Expressions) ast.Expr {
	if _, ok := thisArg.(*ast.SuperExpression); ok {
		thisArg = &ast.ThisExpression{}
	}
	call := &ast.CallExpression{
		Callee:       expr(member(callee, strLit("call"))),
		ArgumentList: ast.Expressions{*expr(thisArg)},
	}
	call.ArgumentList = append(call.ArgumentList, args...)
	return call
}
