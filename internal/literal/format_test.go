package literal

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{None(), "None"},
		{Bool(true), "True"},
		{Int(-5), "-5"},
		{Float(1), "1.0"},
		{Float(0.5), "0.5"},
		{Float(1e16), "1e+16"},
		{Float(1e-5), "1e-05"},
		{Float(math.Inf(-1)), "-inf"},
		{String("a'b"), `"a'b"`},
		{String("a\nb"), `'a\nb'`},
		{String("\x01"), `'\x01'`},
		{List(), "[]"},
		{Tuple(Int(1)), "(1,)"},
		{Tuple(Int(1), Int(2)), "(1, 2)"},
		{Dict(Pair("b", Int(2)), Pair("a", Int(1))), "{'a': 1, 'b': 2}"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestFormat_Wraps(t *testing.T) {
	v := Dict(
		Pair("key", List(String(strings.Repeat("x", 30)), String(strings.Repeat("y", 30)))),
		Pair("other", None()),
	)

	assert.Equal(t, v.String(), Format(v, 200))

	want := "{\n" +
		"  'key': [\n" +
		"    '" + strings.Repeat("x", 30) + "',\n" +
		"    '" + strings.Repeat("y", 30) + "',\n" +
		"  ],\n" +
		"  'other': None,\n" +
		"}"
	assert.Equal(t, want, Format(v, 40))
}

func TestFormat_RoundTrips(t *testing.T) {
	v := mustParse(t, "{'a': [1, 2.5, (3,)], 'b': {'c': None, 'd': 'it\\'s'}}")
	for _, width := range []int{10, 80} {
		back, err := Parse(Format(v, width))
		if assert.NoError(t, err) {
			assert.True(t, Equal(v, back))
		}
	}
}
