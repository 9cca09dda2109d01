package literal

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, in string) Value {
	t.Helper()
	v, err := Parse(in)
	require.NoError(t, err, "parse %q", in)
	return v
}

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{"none", "None", None()},
		{"true", "True", Bool(true)},
		{"false", "False", Bool(false)},
		{"int", "42", Int(42)},
		{"negative int", "-42", Int(-42)},
		{"double negation", "- -7", Int(7)},
		{"positive sign", "+3", Int(3)},
		{"zero", "0", Int(0)},
		{"zeros", "000", Int(0)},
		{"underscores", "1_000_000", Int(1000000)},
		{"hex", "0xff", Int(255)},
		{"octal", "0o17", Int(15)},
		{"binary", "0b101", Int(5)},
		{"hex with leading underscore", "0x_ff", Int(255)},
		{"float", "1.5", Float(1.5)},
		{"float trailing dot", "1.", Float(1)},
		{"float leading dot", ".25", Float(0.25)},
		{"exponent", "1e3", Float(1000)},
		{"negative exponent", "25E-2", Float(0.25)},
		{"negative float", "-0.5", Float(-0.5)},
		{"single quoted", "'abc'", String("abc")},
		{"double quoted", `"abc"`, String("abc")},
		{"empty string", "''", String("")},
		{"escapes", `"a\tb\nc\\d\"e"`, String("a\tb\nc\\d\"e")},
		{"single quote escape", `'it\'s'`, String("it's")},
		{"hex escape", `'\x41'`, String("A")},
		{"unicode escape", `'\u00e9'`, String("é")},
		{"long unicode escape", `'\U0001F600'`, String("😀")},
		{"octal escape", `'\101'`, String("A")},
		{"unknown escape kept", `'\d'`, String(`\d`)},
		{"line continuation", "'a\\\nb'", String("ab")},
		{"raw string", `r'\n'`, String(`\n`)},
		{"raw string escaped quote", `r'a\'b'`, String(`a\'b`)},
		{"unicode prefix", `u'x'`, String("x")},
		{"triple quoted", "'''a\n'b'\n'''", String("a\n'b'\n")},
		{"adjacent concatenation", `'ab' "cd"`, String("abcd")},
		{"utf8 verbatim", "'héllo'", String("héllo")},
		{"surrounding whitespace", "  \n 12 \n", Int(12)},
		{"comment", "# header\n5 # trailing", Int(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustParse(t, tt.input)
			assert.Equal(t, tt.expected.Kind, v.Kind)
			assert.True(t, Equal(tt.expected, v), "expected %s, got %s", tt.expected, v)
		})
	}
}

func TestParse_BigInt(t *testing.T) {
	v := mustParse(t, "123456789012345678901234567890")
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.Equal(t, KindInt, v.Kind)
	assert.Equal(t, 0, v.Int.Cmp(want))
}

func TestParse_FloatOverflow(t *testing.T) {
	v := mustParse(t, "1e999")
	require.Equal(t, KindFloat, v.Kind)
	assert.True(t, math.IsInf(v.Float, 1))
}

func TestParse_Containers(t *testing.T) {
	t.Run("dict", func(t *testing.T) {
		v := mustParse(t, "{'a' : \"1\", 'b' : \"2\"}")
		want := Dict(Pair("a", String("1")), Pair("b", String("2")))
		assert.True(t, Equal(want, v), "got %s", v)
	})

	t.Run("multi-line dict with trailing comma", func(t *testing.T) {
		v := mustParse(t, "{\n  'a' : [\n    \"x\",\n    \"y\",\n  ],\n  'b' : None,\n}")
		want := Dict(Pair("a", List(String("x"), String("y"))), Pair("b", None()))
		assert.True(t, Equal(want, v), "got %s", v)
	})

	t.Run("empty containers", func(t *testing.T) {
		assert.Equal(t, KindDict, mustParse(t, "{}").Kind)
		assert.Equal(t, KindList, mustParse(t, "[ ]").Kind)
		assert.Equal(t, KindTuple, mustParse(t, "()").Kind)
	})

	t.Run("tuple forms", func(t *testing.T) {
		assert.True(t, Equal(Tuple(Int(1)), mustParse(t, "(1,)")))
		assert.True(t, Equal(Tuple(Int(1), Int(2)), mustParse(t, "(1, 2)")))
		assert.True(t, Equal(Int(1), mustParse(t, "(1)")), "parentheses only group")
	})

	t.Run("non-string keys", func(t *testing.T) {
		v := mustParse(t, "{1: 'a', None: 'b', (1, 2): 'c', True: 'd'}")
		require.Equal(t, 4, v.Len())
		got, ok := v.Lookup(Tuple(Int(1), Int(2)))
		require.True(t, ok)
		assert.Equal(t, "c", got.Str)
	})

	t.Run("duplicate key keeps first position and last value", func(t *testing.T) {
		v := mustParse(t, "{'a': 1, 'b': 2, 'a': 3}")
		require.Len(t, v.Entries, 2)
		assert.Equal(t, "a", v.Entries[0].Key.Str)
		assert.True(t, Equal(Int(3), v.Entries[0].Value))
	})

	t.Run("numeric keys collapse", func(t *testing.T) {
		v := mustParse(t, "{1: 'int', 1.0: 'float'}")
		require.Len(t, v.Entries, 1)
		assert.Equal(t, "float", v.Entries[0].Value.Str)
	})

	t.Run("nested", func(t *testing.T) {
		v := mustParse(t, "[{'k': [1, [2, {'z': ()}]]}]")
		assert.Equal(t, KindList, v.Kind)
		assert.Equal(t, "[{'k': [1, [2, {'z': ()}]]}]", v.String())
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "", "empty literal"},
		{"blank", "   \n", "empty literal"},
		{"unterminated string", "'abc", "unterminated string"},
		{"newline in string", "'a\nb'", "unterminated string"},
		{"unterminated dict", "{'a': 1", "unexpected end of input in dict"},
		{"missing colon", "{'a' 1}", "expected ':'"},
		{"set literal", "{1, 2}", "set literals"},
		{"unhashable key", "{[1]: 2}", "unhashable dict key"},
		{"unterminated list", "[1, 2", "unexpected end of input in list"},
		{"double comma", "[1,,2]", "unexpected character"},
		{"trailing content", "1 2", "trailing content"},
		{"unknown name", "null", "unknown name"},
		{"function call", "open('x')", "unknown name"},
		{"bytes", "b'x'", "bytes literals"},
		{"leading zero", "012", "leading zeros"},
		{"bad underscore", "1__0", "invalid number"},
		{"trailing underscore", "10_", "invalid number"},
		{"complex", "1j", "complex literals"},
		{"bad hex", "0xzz", "invalid"},
		{"missing exponent", "1e", "missing exponent"},
		{"sign on string", "-'a'", "unary operator"},
		{"truncated escape", `'\x4'`, "invalid \\x escape"},
		{"named escape", `'\N{DASH}'`, "named Unicode"},
		{"out of range escape", `'\U00110000'`, "illegal Unicode"},
		{"expression", "1 + 2", "trailing content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Contains(t, se.Msg, tt.msg)
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	deep := strings.Repeat("[", 20) + strings.Repeat("]", 20)

	_, err := ParseWithOptions(deep, &Options{MaxDepth: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting depth")

	_, err = ParseWithOptions(deep, &Options{MaxDepth: 20})
	assert.NoError(t, err)
}
