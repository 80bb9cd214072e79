package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrEvaluation matches every error resulting from a tree that cannot be
// evaluated, using errors.Is.
var ErrEvaluation = errors.New("evaluation error")

// DefaultMaxEvalDepth is the default limit on the depth of trees passed to
// Eval. Chains of binary operators through their left operands count as one
// level, so only right operands and unary operands add depth.
const DefaultMaxEvalDepth = 1 << 14

// EvalOption is an option for evaluation.
type EvalOption interface {
	evalOption(evalctx) evalctx
}

type evaldepthopt int

// evalctx holds the configuration for a single evaluation.
type evalctx struct {
	max int
}

// EvalMaxDepth sets the limit on tree depth for evaluation. Deeper trees fail
// with a *NodeError. A limit of zero or less uses DefaultMaxEvalDepth.
func EvalMaxDepth(n int) EvalOption {
	return evaldepthopt(n)
}

func (o evaldepthopt) evalOption(e evalctx) evalctx {
	e.max = int(o)
	if e.max <= 0 {
		e.max = DefaultMaxEvalDepth
	}
	return e
}

// Eval evaluates an expression tree. Every error Eval returns matches
// ErrEvaluation. Eval retains nothing from the tree and is safe for concurrent
// use.
func Eval(n Node, opts ...EvalOption) (Value, error) {
	e := evalctx{max: DefaultMaxEvalDepth}
	for _, opt := range opts {
		e = opt.evalOption(e)
	}
	return e.eval(n, 1)
}

// EvalString is a shortcut to parse and evaluate an expression using default
// options.
func EvalString(src string) (Value, error) {
	n, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	return Eval(n)
}

// eval computes the node's value. Operands are evaluated left before right.
func (e *evalctx) eval(n Node, depth int) (Value, error) {
	if depth > e.max {
		return Value{}, &NodeError{Node: n, Kind: NodeTooDeep}
	}
	switch n := n.(type) {
	case *Number:
		if n == nil {
			return Value{}, &NodeError{Kind: NodeMissing}
		}
		switch n.Value.Kind() {
		case Int, Float:
			return n.Value, nil
		default:
			return Value{}, &NodeError{Node: n, Kind: NodeLiteral}
		}
	case *UnaryOp:
		if n == nil || n.Operand == nil {
			return Value{}, &NodeError{Node: n, Kind: NodeMissing}
		}
		f := unaryFunc(n.Op)
		if f == nil {
			return Value{}, &NodeError{Node: n, Kind: NodeOperator}
		}
		x, err := e.eval(n.Operand, depth+1)
		if err != nil {
			return Value{}, err
		}
		r, dk := f(x)
		if dk != domainOK {
			return Value{}, &DomainError{Col: n.Col, Op: n.Op.String(), X: x, Kind: dk}
		}
		return r, nil
	case *BinaryOp:
		return e.evalChain(n, depth)
	case nil:
		return Value{}, &NodeError{Kind: NodeMissing}
	default:
		return Value{}, &NodeError{Node: n, Kind: NodeUnknown}
	}
}

// evalChain evaluates a binary operation together with the run of binary
// operations down its left operands. The run is walked iteratively and counts
// as one level, so long left-associative chains like 1+1+...+1 are not limited
// by depth.
func (e *evalctx) evalChain(n *BinaryOp, depth int) (Value, error) {
	var chain []*BinaryOp
	var cur Node = n
	for {
		b, ok := cur.(*BinaryOp)
		if !ok {
			break
		}
		if b == nil || b.Left == nil || b.Right == nil {
			return Value{}, &NodeError{Node: b, Kind: NodeMissing}
		}
		if binaryFunc(b.Op) == nil {
			return Value{}, &NodeError{Node: b, Kind: NodeOperator}
		}
		chain = append(chain, b)
		cur = b.Left
	}
	x, err := e.eval(cur, depth+1)
	if err != nil {
		return Value{}, err
	}
	for i := len(chain) - 1; i >= 0; i-- {
		b := chain[i]
		y, err := e.eval(b.Right, depth+1)
		if err != nil {
			return Value{}, err
		}
		r, dk := binaryFunc(b.Op)(x, y)
		if dk != domainOK {
			return Value{}, &DomainError{Col: b.Col, Op: b.Op.String(), X: x, Y: y, Binary: true, Kind: dk}
		}
		x = r
	}
	return x, nil
}

// NodeErrorKind classifies a NodeError.
type NodeErrorKind int8

const (
	// NodeUnknown is a node type outside the AST.
	NodeUnknown NodeErrorKind = iota
	// NodeMissing is a nil node or a node with a nil operand.
	NodeMissing
	// NodeOperator is an operator outside the operator table.
	NodeOperator
	// NodeLiteral is a literal whose value is neither an integer nor a real.
	NodeLiteral
	// NodeTooDeep is a tree deeper than the evaluation limit.
	NodeTooDeep
)

// NodeError is an error indicating a tree that does not describe an
// arithmetic expression. Trees returned by Parse never cause NodeErrors other
// than NodeTooDeep.
type NodeError struct {
	// Node is the offending node. It may be nil.
	Node Node
	// Kind describes what is wrong with the node.
	Kind NodeErrorKind
}

func (err *NodeError) Error() string {
	var msg string
	switch err.Kind {
	case NodeMissing:
		msg = "missing operand"
	case NodeOperator:
		switch n := err.Node.(type) {
		case *UnaryOp:
			msg = "unsupported operator " + n.Op.String()
		case *BinaryOp:
			msg = "unsupported operator " + n.Op.String()
		default:
			msg = "unsupported operator"
		}
	case NodeLiteral:
		msg = "disallowed literal type"
		if n, ok := err.Node.(*Number); ok {
			msg += " " + n.Value.Kind().String()
		}
	case NodeTooDeep:
		msg = "expression too deeply nested to evaluate"
	default:
		msg = fmt.Sprintf("unsupported expression %T", err.Node)
	}
	if p := nodepos(err.Node); p > 0 {
		return errpos(p, msg)
	}
	return msg
}

func (err *NodeError) Is(target error) bool {
	return target == ErrEvaluation
}

// nodepos gets the position of a node which may be a nil pointer.
func nodepos(n Node) int {
	switch n := n.(type) {
	case *Number:
		if n != nil {
			return n.Col
		}
	case *UnaryOp:
		if n != nil {
			return n.Col
		}
	case *BinaryOp:
		if n != nil {
			return n.Col
		}
	}
	return 0
}

// DomainErrorKind classifies a DomainError.
type DomainErrorKind int8

const (
	domainOK DomainErrorKind = iota
	// DivideByZero is division with a zero divisor.
	DivideByZero
	// ZeroToNegative is zero raised to a negative power.
	ZeroToNegative
	// NotReal is an operation whose result is not a real number, such as a
	// negative number raised to a fractional power.
	NotReal
	// Overflow is an operation whose result is too large in magnitude to
	// represent.
	Overflow
)

// DomainError is an error returned when an operator is applied to operands
// outside its domain.
type DomainError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator.
	Op string
	// X and Y are the operands. Y is the zero Value for unary operators.
	X, Y Value
	// Binary is whether the operator is binary.
	Binary bool
	// Kind describes why the operation failed.
	Kind DomainErrorKind
}

func (err *DomainError) Error() string {
	expr := err.Op + err.X.String()
	if err.Binary {
		expr = err.X.String() + " " + err.Op + " " + err.Y.String()
	}
	var msg string
	switch err.Kind {
	case DivideByZero:
		msg = "division by zero"
	case ZeroToNegative:
		msg = "zero cannot be raised to a negative power"
	case NotReal:
		msg = expr + " is not a real number"
	case Overflow:
		msg = expr + " overflows"
	default:
		msg = expr + " outside domain (kind " + strconv.Itoa(int(err.Kind)) + ")"
	}
	if err.Col > 0 {
		return errpos(err.Col, msg)
	}
	return msg
}

func (err *DomainError) Is(target error) bool {
	return target == ErrEvaluation
}

// The operator tables are closed. There is no way to add
// entries at run time.
var (
	unaryOps = [...]func(x Value) (Value, DomainErrorKind){
		Negate:   neg,
		Identity: identity,
	}
	binaryOps = [...]func(x, y Value) (Value, DomainErrorKind){
		Add:      add,
		Subtract: sub,
		Multiply: mul,
		Divide:   div,
		Power:    pow,
	}
)

func unaryFunc(op UnaryOperator) func(Value) (Value, DomainErrorKind) {
	if op < 0 || int(op) >= len(unaryOps) {
		return nil
	}
	return unaryOps[op]
}

func binaryFunc(op BinaryOperator) func(Value, Value) (Value, DomainErrorKind) {
	if op < 0 || int(op) >= len(binaryOps) {
		return nil
	}
	return binaryOps[op]
}

// finite checks that a float result is a real number.
func finite(f float64) (Value, DomainErrorKind) {
	switch {
	case math.IsNaN(f):
		return Value{}, NotReal
	case math.IsInf(f, 0):
		return Value{}, Overflow
	}
	return FloatValue(f), domainOK
}

func neg(x Value) (Value, DomainErrorKind) {
	if a, ok := x.Int64(); ok {
		if a == math.MinInt64 {
			return finite(-float64(a))
		}
		return IntValue(-a), domainOK
	}
	return finite(-x.f)
}

func identity(x Value) (Value, DomainErrorKind) {
	return x, domainOK
}

func add(x, y Value) (Value, DomainErrorKind) {
	if x.IsInt() && y.IsInt() {
		if r, ok := addInt(x.i, y.i); ok {
			return IntValue(r), domainOK
		}
	}
	return finite(x.Float64() + y.Float64())
}

func sub(x, y Value) (Value, DomainErrorKind) {
	if x.IsInt() && y.IsInt() {
		if r, ok := subInt(x.i, y.i); ok {
			return IntValue(r), domainOK
		}
	}
	return finite(x.Float64() - y.Float64())
}

func mul(x, y Value) (Value, DomainErrorKind) {
	if x.IsInt() && y.IsInt() {
		if r, ok := mulInt(x.i, y.i); ok {
			return IntValue(r), domainOK
		}
	}
	return finite(x.Float64() * y.Float64())
}

// div always produces a real, even for integer operands.
func div(x, y Value) (Value, DomainErrorKind) {
	d := y.Float64()
	if d == 0 {
		return Value{}, DivideByZero
	}
	return finite(x.Float64() / d)
}

func pow(x, y Value) (Value, DomainErrorKind) {
	if x.IsInt() && y.IsInt() && y.i >= 0 {
		if r, ok := powInt(x.i, y.i); ok {
			return IntValue(r), domainOK
		}
	}
	b, e := x.Float64(), y.Float64()
	if b == 0 && e < 0 {
		return Value{}, ZeroToNegative
	}
	return finite(math.Pow(b, e))
}

func addInt(a, b int64) (int64, bool) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

func subInt(a, b int64) (int64, bool) {
	r := a - b
	if (b > 0 && r > a) || (b < 0 && r < a) {
		return 0, false
	}
	return r, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

// powInt computes a^e by repeated squaring. e must be non-negative.
func powInt(a, e int64) (int64, bool) {
	switch a {
	case 0:
		if e == 0 {
			return 1, true
		}
		return 0, true
	case 1:
		return 1, true
	case -1:
		if e%2 == 0 {
			return 1, true
		}
		return -1, true
	}
	r := int64(1)
	for {
		if e&1 != 0 {
			var ok bool
			if r, ok = mulInt(r, a); !ok {
				return 0, false
			}
		}
		e >>= 1
		if e == 0 {
			return r, true
		}
		var ok bool
		if a, ok = mulInt(a, a); !ok {
			return 0, false
		}
	}
}
