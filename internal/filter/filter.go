// Package filter evaluates client-side predicates against document field
// maps. The expression language is deliberately restricted: comparisons
// between fields['NAME'] references and literals, combined with && and ||.
// Nothing is ever executed; unknown constructs fail at compile time.
//
//	fields['STATUS'] == 'Open' && fields['AMOUNT'] > 100
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Predicate is a compiled predicate expression
type Predicate struct {
	root node
}

// Compile parses a predicate expression. Filtering with a predicate
// requires fetching the whole cabinet first, so callers should treat this
// as the expensive retrieval path.
func Compile(input string) (*Predicate, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: toks}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q", p.peek().text)
	}

	return &Predicate{root: root}, nil
}

// Eval evaluates the predicate against one document's field map
func (p *Predicate) Eval(fields map[string]string) bool {
	return p.root.eval(fields)
}

// nodes

type node interface {
	eval(fields map[string]string) bool
}

type logicalNode struct {
	op    string // "&&" or "||"
	left  node
	right node
}

func (n *logicalNode) eval(fields map[string]string) bool {
	if n.op == "&&" {
		return n.left.eval(fields) && n.right.eval(fields)
	}
	return n.left.eval(fields) || n.right.eval(fields)
}

type compareNode struct {
	op    string
	left  operand
	right operand
}

func (n *compareNode) eval(fields map[string]string) bool {
	a := n.left.value(fields)
	b := n.right.value(fields)

	// Numeric comparison when both sides parse as numbers
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)

	var cmp int
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			cmp = -1
		case fa > fb:
			cmp = 1
		}
	} else {
		cmp = strings.Compare(a, b)
	}

	switch n.op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

// operand is a field reference or a literal
type operand struct {
	field   string
	literal string
}

func (o operand) value(fields map[string]string) string {
	if o.field != "" {
		return fields[o.field]
	}
	return o.literal
}

// parser

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return token{}, fmt.Errorf("expected %s, got %q", kind, t.text)
	}
	return t, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "||", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "&&", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseComparison() (node, error) {
	if p.peek().kind == tokLParen {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	opTok, err := p.expect(tokOp)
	if err != nil {
		return nil, err
	}

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	return &compareNode{op: opTok.text, left: left, right: right}, nil
}

func (p *parser) parseOperand() (operand, error) {
	t := p.next()
	switch t.kind {
	case tokFields:
		if _, err := p.expect(tokLBracket); err != nil {
			return operand{}, err
		}
		name, err := p.expect(tokString)
		if err != nil {
			return operand{}, err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return operand{}, err
		}
		return operand{field: name.text}, nil
	case tokString, tokNumber:
		return operand{literal: t.text}, nil
	default:
		return operand{}, fmt.Errorf("expected fields[...] or a literal, got %q", t.text)
	}
}

// lexer

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokFields
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokString
	tokNumber
	tokOp
	tokAnd
	tokOr
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokFields:
		return "fields"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokOp:
		return "comparison operator"
	case tokAnd:
		return "'&&'"
	case tokOr:
		return "'||'"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
}

func lex(input string) ([]token, error) {
	var toks []token
	runes := []rune(input)
	i := 0

	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '[':
			toks = append(toks, token{tokLBracket, "["})
			i++
		case r == ']':
			toks = append(toks, token{tokRBracket, "]"})
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == '&':
			if i+1 < len(runes) && runes[i+1] == '&' {
				toks = append(toks, token{tokAnd, "&&"})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected '&' at position %d", i)
			}
		case r == '|':
			if i+1 < len(runes) && runes[i+1] == '|' {
				toks = append(toks, token{tokOr, "||"})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected '|' at position %d", i)
			}
		case r == '=' || r == '!':
			if i+1 < len(runes) && runes[i+1] == '=' {
				toks = append(toks, token{tokOp, string(r) + "="})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected %q at position %d", string(r), i)
			}
		case r == '<' || r == '>':
			if i+1 < len(runes) && runes[i+1] == '=' {
				toks = append(toks, token{tokOp, string(r) + "="})
				i += 2
			} else {
				toks = append(toks, token{tokOp, string(r)})
				i++
			}
		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated string at position %d", i)
			}
			toks = append(toks, token{tokString, string(runes[i+1 : j])})
			i = j + 1
		case unicode.IsDigit(r) || r == '-':
			j := i + 1
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, string(runes[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			word := string(runes[i:j])
			if word != "fields" {
				return nil, fmt.Errorf("unknown identifier %q; only fields[...] references are allowed", word)
			}
			toks = append(toks, token{tokFields, word})
			i = j
		default:
			return nil, fmt.Errorf("unexpected %q at position %d", string(r), i)
		}
	}

	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}
