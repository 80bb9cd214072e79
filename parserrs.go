package calc

import (
	"errors"
	"strconv"
)

// ErrSyntax matches every error resulting from input that is not a
// well-formed arithmetic expression, using errors.Is.
var ErrSyntax = errors.New("syntax error")

// OperatorError is an error indicating an operator token in a position where
// it cannot be applied, e.g. a binary-only operator where an operand was
// expected. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating an unmatched parenthesis in the input.
// It implements InputError.
type BracketError struct {
	// Col is the position of the unmatched bracket.
	Col int
	// Left is the unclosed opening bracket, if any.
	Left string
	// Right is the unopened closing bracket, if any.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating a missing expression: an empty
// input, empty parentheses, or an operator without an operand.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression, or the empty string if
	// the input ended.
	End string
	// After is the operator which required the missing operand, if any.
	After string
}

func (err *EmptyExpressionError) Error() string {
	switch {
	case err.After != "":
		return errpos(err.Col, "no expression after "+strconv.Quote(err.After))
	case err.End != "":
		return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
	default:
		return errpos(err.Col, "empty expression")
	}
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// TrailingError is an error indicating a token following a complete
// expression where an operator was required. There is no implicit
// multiplication, so "2 3" and "2(3)" are both TrailingErrors.
type TrailingError struct {
	// Col is the position of the unexpected token.
	Col int
	// Text is the unexpected token.
	Text string
}

func (err *TrailingError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Text)+" after complete expression")
}

func (err *TrailingError) Pos() int {
	return err.Col
}

// DepthError is an error indicating an expression nested more deeply than the
// parser allows.
type DepthError struct {
	// Col is the position of the token which exceeded the limit.
	Col int
	// Max is the nesting limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested more than "+strconv.Itoa(err.Max)+" levels deep")
}

func (err *DepthError) Pos() int {
	return err.Col
}

func (err *OperatorError) Is(target error) bool        { return target == ErrSyntax }
func (err *BracketError) Is(target error) bool         { return target == ErrSyntax }
func (err *EmptyExpressionError) Is(target error) bool { return target == ErrSyntax }
func (err *TrailingError) Is(target error) bool        { return target == ErrSyntax }
func (err *DepthError) Is(target error) bool           { return target == ErrSyntax }

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based position, in runes, of the start of the token
	// that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*TrailingError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LexError)(nil)
)
