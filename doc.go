// Package calc implements a safe calculator for arithmetic expressions.
//
// Expressions are made of integer and real literals, the binary operators
// + - * / and ^, the unary operators + and -, and parentheses. The multiply
// and divide operators may also be written × and ÷, and ** is a synonym for ^.
// Exponentiation is right-associative and binds more loosely than unary
// operators, so "-2^2" is "(-2)^2". There are no names, no function calls, and
// no implicit multiplication; anything else is a syntax error.
//
// Parse turns source text into a tree of Nodes, and Eval computes the Value of
// a tree. Integer arithmetic stays exact until it would overflow, in which case
// it continues in floating point. Division always produces a real.
//
// Errors from Parse match ErrSyntax and errors from Eval match ErrEvaluation
// under errors.Is, so callers can distinguish bad input from bad math without
// inspecting messages.
package calc
