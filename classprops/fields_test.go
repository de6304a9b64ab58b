package classprops

import (
	"testing"

	"github.com/t14raptor/go-fast/token"
)

func TestInitializerBuilderTable(t *testing.T) {
	for _, static := range []bool{false, true} {
		for _, private := range []bool{false, true} {
			for _, loose := range []bool{false, true} {
				kind := fieldKind{Static: static, Private: private, Loose: loose}
				if initializerBuilders[kind] == nil {
					t.Errorf("no builder for %+v", kind)
				}
			}
		}
	}
}

func TestCompoundOperatorMapping(t *testing.T) {
	cases := []struct {
		assign  token.Token
		bin     token.Token
		logical bool
	}{
		{token.AddAssign, token.Plus, false},
		{token.SubtractAssign, token.Minus, false},
		{token.MultiplyAssign, token.Multiply, false},
		{token.ExponentAssign, token.Exponent, false},
		{token.QuotientAssign, token.Slash, false},
		{token.RemainderAssign, token.Remainder, false},
		{token.AndAssign, token.And, false},
		{token.OrAssign, token.Or, false},
		{token.ExclusiveOrAssign, token.ExclusiveOr, false},
		{token.ShiftLeftAssign, token.ShiftLeft, false},
		{token.ShiftRightAssign, token.ShiftRight, false},
		{token.UnsignedShiftRightAssign, token.UnsignedShiftRight, false},
		{token.LogicalAndAssign, token.LogicalAnd, true},
		{token.LogicalOrAssign, token.LogicalOr, true},
		{token.CoalesceAssign, token.Coalesce, true},
	}
	for _, c := range cases {
		bin, logical, ok := binaryOpOf(c.assign)
		if !ok {
			t.Errorf("%s not mapped", c.assign)
			continue
		}
		if bin != c.bin || logical != c.logical {
			t.Errorf("%s mapped to (%s, %v), want (%s, %v)", c.assign, bin, logical, c.bin, c.logical)
		}
	}
	if _, _, ok := binaryOpOf(token.Assign); ok {
		t.Error("plain assignment must not map to a binary operator")
	}
}
