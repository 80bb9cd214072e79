package calc

// DefaultMaxDepth is the default nesting limit for parsing. Parentheses,
// unary operators, and operands of right-associative operators each count as
// one level.
const DefaultMaxDepth = 256

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type depthopt int

// parsectx holds general data for parsing.
type parsectx struct {
	// depth is the current nesting depth.
	depth int
	// max is the nesting limit.
	max int
	// parens is the number of open parentheses.
	parens int
}

// MaxDepth sets the nesting limit for parsing. Expressions nested more deeply
// fail with a *DepthError. A limit of zero or less uses DefaultMaxDepth.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.max = int(o)
	if p.max <= 0 {
		p.max = DefaultMaxDepth
	}
	return p
}

// enter increments the nesting depth, failing if it exceeds the limit.
func (p *parsectx) enter(tok lexToken) error {
	p.depth++
	if p.depth > p.max {
		return &DepthError{Col: tok.pos, Max: p.max}
	}
	return nil
}

func (p *parsectx) leave() {
	p.depth--
}
