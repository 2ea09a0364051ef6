package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EvalExpr evaluates a restricted arithmetic expression: numbers, the
// constants pi and e, the operators + - * /, parentheses, and a small
// set of math functions (sqrt, sin, cos, tan, asin, acos, atan, log,
// exp). Dimension arguments like "2*sqrt(5)" are accepted without
// reaching for a general expression evaluator.
func EvalExpr(s string) (float64, error) {
	p := &exprParser{src: s}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("expression %q: unexpected %q", s, p.src[p.pos:])
	}
	return v, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			w, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v += w
		case '-':
			p.pos++
			w, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v -= w
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			w, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			v *= w
		case '/':
			p.pos++
			w, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if w == 0 {
				return 0, fmt.Errorf("expression %q: division by zero", p.src)
			}
			v /= w
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parseFactor()
}

var exprFuncs = map[string]func(float64) float64{
	"sqrt": math.Sqrt,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"log":  math.Log,
	"exp":  math.Exp,
}

var exprConsts = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func (p *exprParser) parseFactor() (float64, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("expression %q: missing closing parenthesis", p.src)
		}
		p.pos++
		return v, nil
	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			if (c < '0' || c > '9') && c != '.' {
				break
			}
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return 0, fmt.Errorf("expression %q: bad number %q", p.src, p.src[start:p.pos])
		}
		return v, nil
	case c >= 'a' && c <= 'z':
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= 'a' && p.src[p.pos] <= 'z' {
			p.pos++
		}
		name := p.src[start:p.pos]
		if p.peek() == '(' {
			fn, ok := exprFuncs[name]
			if !ok {
				return 0, fmt.Errorf("expression %q: unknown function %q (known: %s)",
					p.src, name, strings.Join(funcNames(), ", "))
			}
			p.pos++
			v, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			if p.peek() != ')' {
				return 0, fmt.Errorf("expression %q: missing closing parenthesis", p.src)
			}
			p.pos++
			return fn(v), nil
		}
		if v, ok := exprConsts[name]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("expression %q: unknown constant %q", p.src, name)
	default:
		return 0, fmt.Errorf("expression %q: unexpected character %q", p.src, c)
	}
}

func funcNames() []string {
	return []string{"acos", "asin", "atan", "cos", "exp", "log", "sin", "sqrt", "tan"}
}
