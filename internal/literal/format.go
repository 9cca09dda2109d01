package literal

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultWidth is the line width Format wraps at.
const DefaultWidth = 80

const indentUnit = "  "

// Format renders v for humans. Containers whose one-line form does not fit
// in width columns are spread over several lines; dict entries are sorted by
// key.
func Format(v Value, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var sb strings.Builder
	writePretty(&sb, v, 0, width)
	return sb.String()
}

func writePretty(sb *strings.Builder, v Value, depth, width int) {
	flat := v.String()
	if !v.IsContainer() || v.Len() == 0 || len(indentUnit)*depth+len(flat) <= width {
		sb.WriteString(flat)
		return
	}

	open, close := "[", "]"
	switch v.Kind {
	case KindTuple:
		open, close = "(", ")"
	case KindDict:
		open, close = "{", "}"
	}
	inner := strings.Repeat(indentUnit, depth+1)

	sb.WriteString(open)
	sb.WriteByte('\n')
	if v.Kind == KindDict {
		for _, e := range sortedEntries(v.Entries) {
			sb.WriteString(inner)
			writeRepr(sb, e.Key)
			sb.WriteString(": ")
			writePretty(sb, e.Value, depth+1, width)
			sb.WriteString(",\n")
		}
	} else {
		for _, item := range v.Items {
			sb.WriteString(inner)
			writePretty(sb, item, depth+1, width)
			sb.WriteString(",\n")
		}
	}
	sb.WriteString(strings.Repeat(indentUnit, depth))
	sb.WriteString(close)
}

func writeRepr(sb *strings.Builder, v Value) {
	switch v.Kind {
	case KindNone:
		sb.WriteString("None")
	case KindBool:
		if v.Bool {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case KindInt:
		sb.WriteString(v.Int.String())
	case KindFloat:
		sb.WriteString(formatFloat(v.Float))
	case KindString:
		sb.WriteString(quote(v.Str))
	case KindList:
		writeItems(sb, "[", "]", v.Items, false)
	case KindTuple:
		writeItems(sb, "(", ")", v.Items, len(v.Items) == 1)
	case KindDict:
		sb.WriteByte('{')
		for i, e := range sortedEntries(v.Entries) {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeRepr(sb, e.Key)
			sb.WriteString(": ")
			writeRepr(sb, e.Value)
		}
		sb.WriteByte('}')
	}
}

func writeItems(sb *strings.Builder, open, close string, items []Value, trailingComma bool) {
	sb.WriteString(open)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeRepr(sb, item)
	}
	if trailingComma {
		sb.WriteByte(',')
	}
	sb.WriteString(close)
}

func sortedEntries(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key.String() < sorted[j].Key.String()
	})
	return sorted
}

// formatFloat follows the shortest round-trip representation, always
// showing a decimal point or an exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var sb strings.Builder
	sb.WriteByte(q)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == rune(q) || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == utf8.RuneError && size == 1:
			sb.WriteString(`\x`)
			sb.WriteString(strconv.FormatUint(uint64(s[i-1]), 16))
		case r < 0x100 && !unicode.IsPrint(r):
			sb.WriteString(`\x`)
			writeHex(&sb, uint64(r), 2)
		case !unicode.IsPrint(r) && r <= 0xFFFF:
			sb.WriteString(`\u`)
			writeHex(&sb, uint64(r), 4)
		case !unicode.IsPrint(r):
			sb.WriteString(`\U`)
			writeHex(&sb, uint64(r), 8)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

func writeHex(sb *strings.Builder, n uint64, width int) {
	h := strconv.FormatUint(n, 16)
	for i := len(h); i < width; i++ {
		sb.WriteByte('0')
	}
	sb.WriteString(h)
}
