package calc

import (
	"strconv"
	"strings"
)

// Node is a node in the abstract syntax tree of an expression. The set of
// implementations is closed: *Number, *UnaryOp, and *BinaryOp.
type Node interface {
	// Pos returns the 1-based rune position of the token that produced the
	// node, or 0 for nodes not produced by the parser.
	Pos() int
	// String formats the node with every operation parenthesized. The result
	// parses to an identical tree.
	String() string

	node()
}

// Number is a numeric literal.
type Number struct {
	Value Value
	Col   int
}

// UnaryOp applies a unary operator to an operand.
type UnaryOp struct {
	Op      UnaryOperator
	Operand Node
	Col     int
}

// BinaryOp applies a binary operator to two operands.
type BinaryOp struct {
	Op          BinaryOperator
	Left, Right Node
	Col         int
}

func (*Number) node()   {}
func (*UnaryOp) node()  {}
func (*BinaryOp) node() {}

func (n *Number) Pos() int   { return n.Col }
func (n *UnaryOp) Pos() int  { return n.Col }
func (n *BinaryOp) Pos() int { return n.Col }

// UnaryOperator identifies a unary operation.
type UnaryOperator int8

const (
	_ UnaryOperator = iota
	Negate
	Identity
)

func (op UnaryOperator) String() string {
	switch op {
	case Negate:
		return "-"
	case Identity:
		return "+"
	default:
		return "UnaryOperator(" + strconv.Itoa(int(op)) + ")"
	}
}

// BinaryOperator identifies a binary operation.
type BinaryOperator int8

const (
	_ BinaryOperator = iota
	Add
	Subtract
	Multiply
	Divide
	Power
)

func (op BinaryOperator) String() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Power:
		return "^"
	default:
		return "BinaryOperator(" + strconv.Itoa(int(op)) + ")"
	}
}

func (n *Number) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *UnaryOp) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *BinaryOp) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *Number) fmt(b *strings.Builder) {
	b.WriteString(n.Value.String())
}

func (n *UnaryOp) fmt(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.Op.String())
	fmtnode(b, n.Operand)
	b.WriteByte(')')
}

func (n *BinaryOp) fmt(b *strings.Builder) {
	b.WriteByte('(')
	fmtnode(b, n.Left)
	b.WriteByte(' ')
	b.WriteString(n.Op.String())
	b.WriteByte(' ')
	fmtnode(b, n.Right)
	b.WriteByte(')')
}

// fmtnode writes any node. Invalid nodes use invalid characters.
func fmtnode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Number:
		if n != nil {
			n.fmt(b)
			return
		}
	case *UnaryOp:
		if n != nil {
			n.fmt(b)
			return
		}
	case *BinaryOp:
		if n != nil {
			n.fmt(b)
			return
		}
	}
	b.WriteString("$#$")
}
