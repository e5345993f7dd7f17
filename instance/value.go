package instance

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is one valuation literal. Integer literals keep their exact int64
// value over the whole int64 range; every other number is carried as float64.
type Value struct {
	i     int64
	f     float64
	isInt bool
}

// IntValue returns an integer valuation.
func IntValue(i int64) Value { return Value{i: i, f: float64(i), isInt: true} }

// FloatValue returns a real-valued valuation.
func FloatValue(f float64) Value { return Value{f: f} }

// IsInt reports whether the literal was an integer.
func (v Value) IsInt() bool { return v.isInt }

// Int64 returns the exact integer for integer literals, and the truncated
// float otherwise.
func (v Value) Int64() int64 {
	if v.isInt {
		return v.i
	}

	return int64(v.f)
}

// Float64 returns the value as float64. Integers beyond 2^53 are rounded.
func (v Value) Float64() float64 { return v.f }

// wholeFloat reports whether a float literal is a whole number that int64
// and float64 both carry exactly.
func (v Value) wholeFloat() bool {
	return !v.isInt && v.f == math.Trunc(v.f) && math.Abs(v.f) <= maxExactInt
}

// UnmarshalYAML decodes integer-tagged scalars straight into int64, so they
// never pass through float64.
func (v *Value) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: valuation must be a number", n.Line)
	}

	switch n.ShortTag() {
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return fmt.Errorf("%w: line %d: %s", ErrValueRange, n.Line, n.Value)
		}
		*v = IntValue(i)
	case "!!float":
		// Digit strings too long for uint64 resolve as floats; they are
		// integers the file meant exactly, so refuse to round them.
		if !strings.ContainsAny(n.Value, ".eE") {
			return fmt.Errorf("%w: line %d: %s", ErrValueRange, n.Line, n.Value)
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return fmt.Errorf("line %d: valuation %q: %w", n.Line, n.Value, err)
		}
		*v = FloatValue(f)
	default:
		return fmt.Errorf("line %d: valuation %q is not a number", n.Line, n.Value)
	}

	return nil
}

// MarshalYAML writes the literal back in its original kind.
func (v Value) MarshalYAML() (any, error) {
	if v.isInt {
		return v.i, nil
	}

	return v.f, nil
}
