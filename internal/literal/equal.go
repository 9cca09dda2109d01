package literal

import (
	"math"
	"math/big"
)

// Equal reports whether a and b are structurally equal.
//
// Dicts compare without regard to entry order, lists and tuples element by
// element. Integers and floats compare by numeric value, so 1 equals 1.0.
// Booleans are not numbers here: True never equals 1. A list never equals a
// tuple.
func Equal(a, b Value) bool {
	if a.isNumeric() && b.isNumeric() {
		return numericEqual(a, b)
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindString:
		return a.Str == b.Str
	case KindList, KindTuple:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KindDict:
		return dictEqual(a, b)
	}
	return false
}

func dictEqual(a, b Value) bool {
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	index := make(map[string]int, len(b.Entries))
	for i, e := range b.Entries {
		k, ok := hashKey(e.Key)
		if !ok {
			return false
		}
		index[k] = i
	}
	for _, e := range a.Entries {
		k, ok := hashKey(e.Key)
		if !ok {
			return false
		}
		j, found := index[k]
		if !found || !Equal(e.Value, b.Entries[j].Value) {
			return false
		}
	}
	return true
}

func numericEqual(a, b Value) bool {
	switch {
	case a.Kind == KindInt && b.Kind == KindInt:
		return a.Int.Cmp(b.Int) == 0
	case a.Kind == KindFloat && b.Kind == KindFloat:
		return a.Float == b.Float
	case a.Kind == KindInt:
		return intFloatEqual(a.Int, b.Float)
	default:
		return intFloatEqual(b.Int, a.Float)
	}
}

func intFloatEqual(i *big.Int, f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return new(big.Float).SetInt(i).Cmp(new(big.Float).SetFloat64(f)) == 0
}

// integralFloat returns the integer value of f when f is finite and has no
// fractional part.
func integralFloat(f float64) (*big.Int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	i, _ := new(big.Float).SetFloat64(f).Int(nil)
	return i, true
}
