package pattern

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/d5/tengo/v2"
)

// Scope supplies the runtime operands of an expression.
type Scope interface {
	// Param returns the 1-based parameter $i, or 0 when unbound.
	Param(i int) float64
	// Rank returns the difficulty in [0, 1].
	Rank() float64
	// Rand returns a uniform value in [0, 1).
	Rand() float64
}

type zeroScope struct{}

func (zeroScope) Param(int) float64 { return 0 }
func (zeroScope) Rank() float64     { return 0 }
func (zeroScope) Rand() float64     { return 0 }

const (
	exprOut  = "__out"
	exprRank = "__rank"
	exprRand = "__rand"
	exprMod  = "__mod"
)

// Expr is a compiled BulletML numeric expression. Literals are kept as plain
// numbers; everything else runs as a tengo program that is cloned per
// evaluation so a shared tree is never written to.
type Expr struct {
	src      string
	literal  bool
	value    float64
	compiled *tengo.Compiled
	params   []int
	rank     bool
	rand     bool
}

// CompileExpr compiles the text content of a value node.
func CompileExpr(src string) (*Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	if v, err := strconv.ParseFloat(src, 64); err == nil {
		return &Expr{src: src, literal: true, value: v}, nil
	}

	code, refs, err := translateExpr(src)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(exprOut + " := (" + code + ")"))
	if refs.rank {
		_ = script.Add(exprRank, 0.0)
	}
	if refs.rand {
		_ = script.Add(exprRand, randFunc(zeroScope{}))
	}
	if refs.mod {
		_ = script.Add(exprMod, modFunc)
	}
	for _, p := range refs.params {
		_ = script.Add(paramVar(p), 0.0)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, src, err)
	}

	return &Expr{
		src:      src,
		compiled: compiled,
		params:   refs.params,
		rank:     refs.rank,
		rand:     refs.rand,
	}, nil
}

// MustCompileExpr is CompileExpr for expressions known to be valid.
func MustCompileExpr(src string) *Expr {
	e, err := CompileExpr(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expr) String() string { return e.src }

// IsLiteral reports whether the expression is a constant.
func (e *Expr) IsLiteral() bool { return e.literal }

// Eval computes the expression. A runtime failure is logged and yields 0 so a
// running bullet is never aborted mid-tick.
func (e *Expr) Eval(s Scope) float64 {
	if e == nil {
		return 0
	}
	if e.literal {
		return e.value
	}
	if s == nil {
		s = zeroScope{}
	}

	c := e.compiled.Clone()
	if e.rank {
		_ = c.Set(exprRank, s.Rank())
	}
	if e.rand {
		_ = c.Set(exprRand, randFunc(s))
	}
	for _, p := range e.params {
		_ = c.Set(paramVar(p), s.Param(p))
	}

	if err := c.Run(); err != nil {
		slog.Warn("pattern: expression failed", "expr", e.src, "err", err)
		return 0
	}
	return c.Get(exprOut).Float()
}

func randFunc(s Scope) *tengo.UserFunction {
	return &tengo.UserFunction{Name: "rand", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: s.Rand()}, nil
	}}
}

// modFunc is float modulo; tengo's % only accepts integers.
var modFunc = &tengo.UserFunction{Name: "mod", Value: func(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 2 {
		return nil, tengo.ErrWrongNumArguments
	}
	a, ok := tengo.ToFloat64(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "float", Found: args[0].TypeName()}
	}
	b, ok := tengo.ToFloat64(args[1])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "second", Expected: "float", Found: args[1].TypeName()}
	}
	return &tengo.Float{Value: math.Mod(a, b)}, nil
}}

func paramVar(i int) string {
	return "__p" + strconv.Itoa(i)
}

type exprRefs struct {
	params []int
	rank   bool
	rand   bool
	mod    bool
}

// translateExpr rewrites BulletML syntax into tengo: $rank and $n become
// globals, $rand becomes a call so every occurrence draws a new value, every
// numeric literal is forced to float so "1/2" stays 0.5, and a % b becomes
// a call to the float modulo.
func translateExpr(src string) (string, exprRefs, error) {
	var (
		toks []string
		refs exprRefs
		seen = map[int]bool{}
	)

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '$':
			j := i + 1
			for j < len(src) && isIdentByte(src[j]) {
				j++
			}
			name := src[i+1 : j]
			switch {
			case name == "rand":
				toks = append(toks, exprRand+"()")
				refs.rand = true
			case name == "rank":
				toks = append(toks, exprRank)
				refs.rank = true
			case isDigits(name):
				n, err := strconv.Atoi(name)
				if err != nil || n < 1 {
					return "", refs, fmt.Errorf("%w: %q: bad parameter $%s", ErrInvalidExpression, src, name)
				}
				toks = append(toks, paramVar(n))
				if !seen[n] {
					seen[n] = true
					refs.params = append(refs.params, n)
				}
			default:
				return "", refs, fmt.Errorf("%w: %q: unknown variable $%s", ErrInvalidExpression, src, name)
			}
			i = j

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			j := i
			for j < len(src) && (isDigit(src[j]) || src[j] == '.') {
				j++
			}
			if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
				k := j + 1
				if k < len(src) && (src[k] == '+' || src[k] == '-') {
					k++
				}
				if k < len(src) && isDigit(src[k]) {
					for j = k; j < len(src) && isDigit(src[j]); j++ {
					}
				}
			}
			v, err := strconv.ParseFloat(src[i:j], 64)
			if err != nil {
				return "", refs, fmt.Errorf("%w: %q: bad number %q", ErrInvalidExpression, src, src[i:j])
			}
			lit := strconv.FormatFloat(v, 'f', -1, 64)
			if !strings.Contains(lit, ".") {
				lit += ".0"
			}
			toks = append(toks, lit)
			i = j

		case isIdentByte(c):
			return "", refs, fmt.Errorf("%w: %q: unexpected identifier at offset %d", ErrInvalidExpression, src, i)

		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case strings.IndexByte("+-*/%()", c) >= 0:
			toks = append(toks, string(c))
			i++

		default:
			return "", refs, fmt.Errorf("%w: %q: unexpected %q at offset %d", ErrInvalidExpression, src, c, i)
		}
	}

	p := &exprParser{toks: toks}
	code, err := p.sum()
	if err == nil && p.pos < len(toks) {
		err = fmt.Errorf("unexpected %q", toks[p.pos])
	}
	if err != nil {
		return "", refs, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, src, err)
	}
	refs.mod = p.mod

	sort.Ints(refs.params)
	return code, refs, nil
}

// exprParser re-emits a token stream as fully parenthesized tengo source.
type exprParser struct {
	toks []string
	pos  int
	mod  bool
}

func (p *exprParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *exprParser) sum() (string, error) {
	left, err := p.product()
	if err != nil {
		return "", err
	}
	for op := p.peek(); op == "+" || op == "-"; op = p.peek() {
		p.pos++
		right, err := p.product()
		if err != nil {
			return "", err
		}
		left = "(" + left + " " + op + " " + right + ")"
	}
	return left, nil
}

func (p *exprParser) product() (string, error) {
	left, err := p.unary()
	if err != nil {
		return "", err
	}
	for op := p.peek(); op == "*" || op == "/" || op == "%"; op = p.peek() {
		p.pos++
		right, err := p.unary()
		if err != nil {
			return "", err
		}
		if op == "%" {
			p.mod = true
			left = exprMod + "(" + left + ", " + right + ")"
			continue
		}
		left = "(" + left + " " + op + " " + right + ")"
	}
	return left, nil
}

func (p *exprParser) unary() (string, error) {
	if op := p.peek(); op == "+" || op == "-" {
		p.pos++
		operand, err := p.unary()
		if err != nil {
			return "", err
		}
		if op == "+" {
			return operand, nil
		}
		return "(-" + operand + ")", nil
	}
	return p.primary()
}

func (p *exprParser) primary() (string, error) {
	tok := p.peek()
	switch tok {
	case "":
		return "", fmt.Errorf("unexpected end of expression")
	case "(":
		p.pos++
		inner, err := p.sum()
		if err != nil {
			return "", err
		}
		if p.peek() != ")" {
			return "", fmt.Errorf("missing )")
		}
		p.pos++
		return "(" + inner + ")", nil
	case ")", "+", "-", "*", "/", "%":
		return "", fmt.Errorf("unexpected %q", tok)
	}
	p.pos++
	return tok, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
