package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testScope struct {
	params    []float64
	rank      float64
	rands     []float64
	randCalls int
}

func (s *testScope) Param(i int) float64 {
	if i < 1 || i > len(s.params) {
		return 0
	}
	return s.params[i-1]
}

func (s *testScope) Rank() float64 { return s.rank }

func (s *testScope) Rand() float64 {
	v := 0.0
	if s.randCalls < len(s.rands) {
		v = s.rands[s.randCalls]
	}
	s.randCalls++
	return v
}

func TestCompileExprEval(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		scope *testScope
		want  float64
	}{
		{"literal", "60", &testScope{}, 60},
		{"negative_literal", " -2.5 ", &testScope{}, -2.5},
		{"float_division", "1/2", &testScope{}, 0.5},
		{"precedence", "2+3*4", &testScope{}, 14},
		{"parens", "(2+3)*4", &testScope{}, 20},
		{"exponent", "1e2 + .5", &testScope{}, 100.5},
		{"params", "$1 * 2 + $2", &testScope{params: []float64{3, 1}}, 7},
		{"unbound_param", "$3 + 1", &testScope{params: []float64{3}}, 1},
		{"rank", "10 + $rank * 20", &testScope{rank: 0.5}, 20},
		{"rand", "360 * $rand", &testScope{rands: []float64{0.25}}, 90},
		{"modulo", "10 % 3", &testScope{}, 1},
		{"modulo_fraction", "7.5 % 2", &testScope{}, 1.5},
		{"modulo_keeps_dividend_sign", "-7 % 3", &testScope{}, -1},
		{"modulo_precedence", "2 + 10 % 4 * 2", &testScope{}, 6},
		{"modulo_param", "$1 % 360", &testScope{params: []float64{400}}, 40},
		{"unary_chain", "-(-2) * +3", &testScope{}, 6},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := CompileExpr(c.src)
			require.NoError(t, err)
			assert.InDelta(t, c.want, e.Eval(c.scope), 1e-9)
		})
	}
}

func TestExprRandDrawsPerOccurrence(t *testing.T) {
	e := MustCompileExpr("$rand + $rand * 10")
	s := &testScope{rands: []float64{0.1, 0.2}}

	assert.InDelta(t, 2.1, e.Eval(s), 1e-9)
	assert.Equal(t, 2, s.randCalls)
}

func TestExprEvalDoesNotLeakBetweenScopes(t *testing.T) {
	e := MustCompileExpr("$1 + $rank")

	assert.InDelta(t, 5.5, e.Eval(&testScope{params: []float64{5}, rank: 0.5}), 1e-9)
	assert.InDelta(t, 1, e.Eval(&testScope{params: []float64{1}}), 1e-9)
	assert.InDelta(t, 0, e.Eval(nil), 1e-9)
}

func TestCompileExprRejects(t *testing.T) {
	for _, src := range []string{"", "   ", "$foo", "$0", "abc", "sin(1)", "1 +", "1 %", "% 2", "(1 + 2", "1 + 2)", "2 3", "1 & 2"} {
		t.Run(src, func(t *testing.T) {
			_, err := CompileExpr(src)
			require.ErrorIs(t, err, ErrInvalidExpression)
		})
	}
}

func TestExprIsLiteral(t *testing.T) {
	assert.True(t, MustCompileExpr("42").IsLiteral())
	assert.False(t, MustCompileExpr("40 + 2").IsLiteral())
}
