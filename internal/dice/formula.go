package dice

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNonDeterministic is returned when a deterministic evaluation meets a dice term
	ErrNonDeterministic = errors.New("formula contains dice")

	// ErrUnresolvedReference is returned when a formula still holds an @reference
	ErrUnresolvedReference = errors.New("formula contains unresolved reference")
)

// node is an element of a parsed formula
type node interface {
	eval(ctx *evalContext) (float64, error)
}

type evalContext struct {
	roller Roller
	rolls  []int
}

type numberNode struct{ value float64 }

type refNode struct{ path string }

type diceNode struct {
	spec  *diceSpec
	count node // set when the count is a parenthesized expression
}

type unaryNode struct {
	op string
	x  node
}

type binaryNode struct {
	op   string
	l, r node
}

type callNode struct {
	name string
	args []node
}

func (n numberNode) eval(*evalContext) (float64, error) { return n.value, nil }

func (n refNode) eval(*evalContext) (float64, error) {
	return 0, fmt.Errorf("%w: @%s", ErrUnresolvedReference, n.path)
}

func (n unaryNode) eval(ctx *evalContext) (float64, error) {
	v, err := n.x.eval(ctx)
	if err != nil {
		return 0, err
	}
	if n.op == "-" {
		return -v, nil
	}
	return v, nil
}

func (n binaryNode) eval(ctx *evalContext) (float64, error) {
	l, err := n.l.eval(ctx)
	if err != nil {
		return 0, err
	}
	r, err := n.r.eval(ctx)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, errors.New("division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, errors.New("modulo by zero")
		}
		return math.Mod(l, r), nil
	}
	return 0, fmt.Errorf("unknown operator %q", n.op)
}

var functions = map[string]func(args []float64) (float64, error){
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"round": unary(math.Round),
	"trunc": unary(math.Trunc),
	"abs":   unary(math.Abs),
	"min": func(args []float64) (float64, error) {
		if len(args) == 0 {
			return 0, errors.New("min needs arguments")
		}
		out := args[0]
		for _, a := range args[1:] {
			out = math.Min(out, a)
		}
		return out, nil
	},
	"max": func(args []float64) (float64, error) {
		if len(args) == 0 {
			return 0, errors.New("max needs arguments")
		}
		out := args[0]
		for _, a := range args[1:] {
			out = math.Max(out, a)
		}
		return out, nil
	},
}

func unary(f func(float64) float64) func([]float64) (float64, error) {
	return func(args []float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		return f(args[0]), nil
	}
}

func (n callNode) eval(ctx *evalContext) (float64, error) {
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(ctx)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return functions[n.name](args)
}

// parser is a recursive-descent parser over lexed tokens
type parser struct {
	tokens []token
	pos    int
}

// parse turns a formula into an expression tree
func parse(src string) (node, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty formula")
	}

	p := &parser{tokens: tokens}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q at %d", p.peek().text, p.peek().start)
	}
	return n, nil
}

func (p *parser) peek() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) isOp(ops string) bool {
	t := p.peek()
	return t != nil && t.kind == tokOp && len(t.text) == 1 && containsByte(ops, t.text[0])
}

func containsByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+-") {
		op := p.peek().text
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*/%") {
		op := p.peek().text
		p.pos++
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.isOp("+-") {
		op := p.peek().text
		p.pos++
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: op, x: x}, nil
	}

	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); t != nil && t.kind == tokFlavor; t = p.peek() {
		p.pos++
	}
	return n, nil
}

func (p *parser) primary() (node, error) {
	t := p.peek()
	if t == nil {
		return nil, errors.New("unexpected end of formula")
	}

	switch t.kind {
	case tokNumber:
		p.pos++
		return numberNode{value: t.num}, nil

	case tokRef:
		p.pos++
		return refNode{path: t.text}, nil

	case tokDice:
		if t.dice.suffix {
			return nil, fmt.Errorf("unexpected %q at %d", t.text, t.start)
		}
		p.pos++
		return diceNode{spec: t.dice}, nil

	case tokIdent:
		if _, ok := functions[t.text]; !ok {
			return nil, fmt.Errorf("unknown term %q at %d", t.text, t.start)
		}
		p.pos++
		if next := p.peek(); next == nil || next.kind != tokLParen {
			return nil, fmt.Errorf("expected ( after %s", t.text)
		}
		p.pos++
		var args []node
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			next := p.peek()
			if next == nil {
				return nil, errors.New("unterminated function call")
			}
			p.pos++
			if next.kind == tokRParen {
				break
			}
			if next.kind != tokComma {
				return nil, fmt.Errorf("unexpected %q in call to %s", next.text, t.text)
			}
		}
		return callNode{name: t.text, args: args}, nil

	case tokLParen:
		p.pos++
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if next := p.peek(); next == nil || next.kind != tokRParen {
			return nil, errors.New("missing closing parenthesis")
		}
		p.pos++
		if next := p.peek(); next != nil && next.kind == tokDice && next.dice.suffix {
			p.pos++
			return diceNode{spec: next.dice, count: inner}, nil
		}
		return inner, nil
	}

	return nil, fmt.Errorf("unexpected %q at %d", t.text, t.start)
}

// Validate reports whether formula is syntactically valid
func Validate(formula string) error {
	_, err := parse(formula)
	return err
}

// IsValid is Validate as a predicate; blank formulas are not valid
func IsValid(formula string) bool {
	return Validate(formula) == nil
}

// Evaluate computes a formula that contains no dice and no references
func Evaluate(formula string) (float64, error) {
	n, err := parse(formula)
	if err != nil {
		return 0, err
	}
	return n.eval(&evalContext{})
}

// EvaluateInt evaluates a deterministic formula and truncates the result
func EvaluateInt(formula string) (int, error) {
	v, err := Evaluate(formula)
	if err != nil {
		return 0, err
	}
	return int(math.Trunc(v)), nil
}

// IsDeterministic reports whether formula evaluates without rolling
func IsDeterministic(formula string) bool {
	_, err := Evaluate(formula)
	return err == nil
}
