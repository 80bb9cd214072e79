package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the numeric type of a Value.
type Kind uint8

const (
	// Invalid is the kind of the zero Value. The evaluator rejects it.
	Invalid Kind = iota
	// Int is a 64-bit signed integer.
	Int
	// Float is a 64-bit IEEE 754 floating-point number.
	Float
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the result of evaluating an expression: either an integer or a
// real number. Values are comparable.
type Value struct {
	kind Kind
	i    int64
	f    float64
}

// IntValue returns an integer Value.
func IntValue(i int64) Value {
	return Value{kind: Int, i: i}
}

// FloatValue returns a real Value.
func FloatValue(f float64) Value {
	return Value{kind: Float, f: f}
}

// Kind returns the numeric type of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsInt returns whether v is an integer.
func (v Value) IsInt() bool {
	return v.kind == Int
}

// Int64 returns the integer value of v. ok is false if v is not an integer.
func (v Value) Int64() (i int64, ok bool) {
	return v.i, v.kind == Int
}

// Float64 returns v as a float64, converting integers.
func (v Value) Float64() float64 {
	if v.kind == Int {
		return float64(v.i)
	}
	return v.f
}

// String formats v. Integers have no decimal point. Reals always have either
// a decimal point or an exponent, so that 2.0 and 2 are distinguishable.
func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	default:
		return "<invalid>"
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if a := math.Abs(f); f == 0 || (a >= 1e-4 && a < 1e16) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(f, 'e', -1, 64)
}

// Format implements fmt.Formatter. The verbs v and s use String. Floating-point
// verbs format v as a float64, and integer verbs format integers as int64.
func (v Value) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's', 'q':
		fmt.Fprintf(s, fmt.FormatString(s, verb), v.String())
	case 'e', 'E', 'f', 'F', 'g', 'G':
		fmt.Fprintf(s, fmt.FormatString(s, verb), v.Float64())
	case 'd', 'x', 'X', 'o', 'O', 'b':
		if v.kind == Int {
			fmt.Fprintf(s, fmt.FormatString(s, verb), v.i)
			return
		}
		if verb == 'b' || verb == 'x' || verb == 'X' {
			fmt.Fprintf(s, fmt.FormatString(s, verb), v.f)
			return
		}
		fallthrough
	default:
		fmt.Fprintf(s, "%%!%c(calc.Value=%s)", verb, v.String())
	}
}
