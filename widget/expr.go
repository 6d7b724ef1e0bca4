package widget

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Gauge compute expressions are plain arithmetic over dotted data paths,
// e.g. "used / total * 100" or "(mem.active + mem.buffcache) / mem.total".
// The grammar is closed: numbers, identifiers with dots and digits,
// + - * /, and parentheses. Nothing else parses, so a stored expression can
// never reach beyond the fetched data object.

type exprNode interface {
	eval(data interface{}) float64
}

type numberNode float64

func (n numberNode) eval(interface{}) float64 { return float64(n) }

type pathNode string

func (p pathNode) eval(data interface{}) float64 {
	return LookupNumber(data, string(p))
}

type binaryNode struct {
	op          byte
	left, right exprNode
}

func (b binaryNode) eval(data interface{}) float64 {
	l := b.left.eval(data)
	r := b.right.eval(data)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		if r == 0 {
			return 0
		}
		return l / r
	}
	return 0
}

// Evaluate parses and evaluates an arithmetic expression against the data
// object. Missing paths contribute 0 and division by zero yields 0; only a
// malformed expression returns an error.
func Evaluate(expr string, data interface{}) (float64, error) {
	p := &exprParser{input: expr}
	node, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return node.eval(data), nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// expr := term (('+'|'-') term)*
func (p *exprParser) parseExpr() (exprNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

// term := factor (('*'|'/') factor)*
func (p *exprParser) parseTerm() (exprNode, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

// factor := number | path | '(' expr ')' | '-' factor
func (p *exprParser) parseFactor() (exprNode, error) {
	c := p.peek()
	switch {
	case c == 0:
		return nil, fmt.Errorf("unexpected end of expression")
	case c == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	case c == '-':
		p.pos++
		inner, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: '-', left: numberNode(0), right: inner}, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isIdentStart(rune(c)):
		return p.parsePath()
	}
	return nil, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
}

func (p *exprParser) parseNumber() (exprNode, error) {
	start := p.pos
	for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
		p.pos++
	}
	n, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q", p.input[start:p.pos])
	}
	return numberNode(n), nil
}

func (p *exprParser) parsePath() (exprNode, error) {
	start := p.pos
	for p.pos < len(p.input) {
		r := rune(p.input[p.pos])
		if !isIdentStart(r) && !unicode.IsDigit(r) && r != '.' {
			break
		}
		p.pos++
	}
	path := strings.TrimSuffix(p.input[start:p.pos], ".")
	if path == "" {
		return nil, fmt.Errorf("empty path at position %d", start)
	}
	return pathNode(path), nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}
