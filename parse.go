package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Expr = Term { ('+' | '-') Term }
// Term = Factor { ('*' | '×' | '/' | '÷') Factor }
// Factor = Unary [ ('^' | '**') Factor ]
// Unary = ('+' | '-') Unary | num | '(' Expr ')'

// Parse parses an arithmetic expression. Every error Parse returns implements
// InputError and matches ErrSyntax. The options are applied in order.
func Parse(src string, opts ...ParseOption) (Node, error) {
	p := parsectx{max: DefaultMaxDepth}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	scan := lex(strings.NewReader(src))
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	if n == nil {
		if tok.kind == tokenClose {
			return nil, &BracketError{Col: tok.pos, Right: tok.text}
		}
		return nil, &EmptyExpressionError{Col: tok.pos}
	}
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, lexToken{})
	}
	return n, nil
}

// MustParse is like Parse but panics if the expression cannot be parsed.
func MustParse(src string, opts ...ParseOption) Node {
	n, err := Parse(src, opts...)
	if err != nil {
		panic("calc: Parse(" + strconv.Quote(src) + "): " + err.Error())
	}
	return n
}

// parseterm parses operands joined by operators more binding than until. If
// there is no error, then parseterm pushes the last token it scans, including
// EOF. If the input is an empty subexpression, the result is nil with no
// error; callers must create an error, since empty subexpressions are never
// legal.
func parseterm(scan *lexer, p *parsectx, until operator) (Node, error) {
	n, err := parselhs(scan, p)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == 0 {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			// Only right-associative operators recurse without bound.
			if prec.right {
				if err := p.enter(tok); err != nil {
					return nil, err
				}
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if prec.right {
				p.leave()
			}
			if rhs == nil {
				return nil, p.missing(scan.must(), tok)
			}
			n = &BinaryOp{Op: prec.op, Left: n, Right: rhs, Col: tok.pos}
		case tokenNum, tokenOpen, tokenClose, tokenEOF:
			// End of expression. There is no implicit multiplication, so a
			// number or bracket here is for the caller to reject.
			scan.push(tok)
			return n, nil
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first operand of a term. I.e., operators are unary, and
// any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx) (Node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		v, err := parsenum(tok)
		if err != nil {
			return nil, err
		}
		return &Number{Value: v, Col: tok.pos}, nil
	case tokenOp:
		op := unop(tok.text)
		if op == 0 {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		// Unary operators bind more tightly than any binary operator:
		// -2^2 -> (-2)^2.
		operand, err := parselhs(scan, p)
		if err != nil {
			return nil, err
		}
		p.leave()
		if operand == nil {
			return nil, p.missing(scan.must(), tok)
		}
		return &UnaryOp{Op: op, Operand: operand, Col: tok.pos}, nil
	case tokenOpen:
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		p.parens++
		n, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		p.parens--
		p.leave()
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, tok)
		}
		if n == nil {
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		return n, nil
	case tokenClose, tokenEOF:
		// Let the caller decide what the missing operand means.
		scan.push(tok)
		return nil, nil
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// parsenum converts a number token to a value. Literals without a decimal
// point or exponent are integers unless they overflow int64.
func parsenum(tok lexToken) (Value, error) {
	if !strings.ContainsAny(tok.text, ".eE") {
		if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
			return IntValue(i), nil
		}
	}
	f, err := strconv.ParseFloat(tok.text, 64)
	if err != nil && (math.IsInf(f, 0) || !errors.Is(err, strconv.ErrRange)) {
		return Value{}, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
	}
	return FloatValue(f), nil
}

// missing returns the error for an operator op with no operand, where end is
// the token found in the operand's place. A close bracket outside any
// parentheses is the more useful diagnosis.
func (p *parsectx) missing(end, op lexToken) error {
	if end.kind == tokenClose && p.parens == 0 {
		return &BracketError{Col: end.pos, Right: end.text}
	}
	return &EmptyExpressionError{Col: end.pos, End: end.text, After: op.text}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is the bracket that the
// subexpression should have matched, or the zero token if none.
func itShouldNotHaveEndedThisWay(tok, open lexToken) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: open.pos, Left: open.text}
	case tokenClose:
		return &BracketError{Col: tok.pos, Right: tok.text}
	case tokenNum, tokenOpen:
		return &TrailingError{Col: tok.pos, Text: tok.text}
	default:
		panic("calc: it really should not have ended this way: " + tok.String())
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the operation to use when this operator is selected.
	op BinaryOperator
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of zero.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, Add}
	case "-":
		return operator{1, false, Subtract}
	case "*", "×":
		return operator{5, false, Multiply}
	case "/", "÷":
		return operator{5, false, Divide}
	case "^", "**":
		return operator{15, true, Power}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result is zero.
func unop(text string) UnaryOperator {
	switch text {
	case "+":
		return Identity
	case "-":
		return Negate
	default:
		return 0
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, 0}
