package literal

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultMaxDepth is the maximum nesting depth of containers.
const DefaultMaxDepth = 1000

// ErrMalformed matches every error returned by Parse.
var ErrMalformed = errors.New("malformed literal")

// SyntaxError is returned when the input is not a valid literal.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("literal: at byte %d: %s", e.Offset, e.Msg)
}

// Is makes errors.Is(err, ErrMalformed) hold for every SyntaxError.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformed
}

// Options controls parser behavior.
type Options struct {
	MaxDepth int // 0 means DefaultMaxDepth
}

func (o *Options) maxDepth() int {
	if o != nil && o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

type parser struct {
	data     string
	pos      int
	depth    int
	maxDepth int
}

// Parse parses a complete literal expression. Leading and trailing
// whitespace and comments are ignored; any other trailing content is an
// error.
func Parse(text string) (Value, error) {
	return ParseWithOptions(text, nil)
}

// ParseWithOptions is like Parse but accepts configuration options.
func ParseWithOptions(text string, opts *Options) (Value, error) {
	p := &parser{data: text, maxDepth: opts.maxDepth()}

	p.skipSpace()
	if p.eof() {
		return Value{}, p.errorf("empty literal")
	}
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if !p.eof() {
		return Value{}, p.errorf("trailing content after literal: %q", p.snippet())
	}
	return v, nil
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.data) }

func (p *parser) peek() byte {
	if p.pos >= len(p.data) {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.data) {
		return 0
	}
	return p.data[p.pos+off]
}

func (p *parser) snippet() string {
	end := p.pos + 20
	if end > len(p.data) {
		end = len(p.data)
	}
	return p.data[p.pos:end]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		case '\\':
			// explicit line joining
			if p.peekAt(1) == '\n' {
				p.pos += 2
			} else if p.peekAt(1) == '\r' && p.peekAt(2) == '\n' {
				p.pos += 3
			} else {
				return
			}
		case '#':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) pushDepth() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf("nesting depth %d exceeds maximum %d", p.depth, p.maxDepth)
	}
	return nil
}

func (p *parser) popDepth() {
	p.depth--
}

func (p *parser) parseValue() (Value, error) {
	if p.eof() {
		return Value{}, p.errorf("unexpected end of input")
	}
	c := p.peek()
	switch {
	case c == '{':
		return p.parseDict()
	case c == '[':
		return p.parseList()
	case c == '(':
		return p.parseParen()
	case c == '\'' || c == '"':
		return p.parseStrings()
	case c == '+' || c == '-':
		return p.parseSigned()
	case isDigit(c) || (c == '.' && isDigit(p.peekAt(1))):
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseWord()
	}
	r, _ := utf8.DecodeRuneInString(p.data[p.pos:])
	return Value{}, p.errorf("unexpected character %q", r)
}

func (p *parser) parseDict() (Value, error) {
	if err := p.pushDepth(); err != nil {
		return Value{}, err
	}
	defer p.popDepth()

	p.pos++ // '{'
	b := newDictBuilder()
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return b.value(), nil
	}

	for {
		keyStart := p.pos
		key, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		p.skipSpace()
		switch p.peek() {
		case ':':
			p.pos++
		case ',', '}':
			return Value{}, p.errorf("set literals are not supported")
		case 0:
			return Value{}, p.errorf("unexpected end of input in dict")
		default:
			return Value{}, p.errorf("expected ':' in dict, got %q", string(p.peek()))
		}
		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		if !b.set(key, val) {
			return Value{}, &SyntaxError{Offset: keyStart, Msg: fmt.Sprintf("unhashable dict key of type %s", key.Kind)}
		}

		p.skipSpace()
		switch p.peek() {
		case '}':
			p.pos++
			return b.value(), nil
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == '}' {
				p.pos++
				return b.value(), nil
			}
		case 0:
			return Value{}, p.errorf("unexpected end of input in dict")
		default:
			return Value{}, p.errorf("expected ',' or '}' in dict, got %q", string(p.peek()))
		}
	}
}

func (p *parser) parseList() (Value, error) {
	items, err := p.parseSequence('[', ']')
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindList, Items: items}, nil
}

// parseParen handles tuples and parenthesized values: "()" and "(a,)" are
// tuples, "(a)" is just a.
func (p *parser) parseParen() (Value, error) {
	if err := p.pushDepth(); err != nil {
		return Value{}, err
	}
	defer p.popDepth()

	p.pos++ // '('
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return Value{Kind: KindTuple, Items: []Value{}}, nil
	}
	first, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	switch p.peek() {
	case ')':
		p.pos++
		return first, nil
	case ',':
		p.pos++
	case 0:
		return Value{}, p.errorf("unexpected end of input in tuple")
	default:
		return Value{}, p.errorf("expected ',' or ')' in tuple, got %q", string(p.peek()))
	}

	items := []Value{first}
	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
			return Value{Kind: KindTuple, Items: items}, nil
		}
		item, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
		p.skipSpace()
		switch p.peek() {
		case ')':
			p.pos++
			return Value{Kind: KindTuple, Items: items}, nil
		case ',':
			p.pos++
		case 0:
			return Value{}, p.errorf("unexpected end of input in tuple")
		default:
			return Value{}, p.errorf("expected ',' or ')' in tuple, got %q", string(p.peek()))
		}
	}
}

func (p *parser) parseSequence(open, close byte) ([]Value, error) {
	if err := p.pushDepth(); err != nil {
		return nil, err
	}
	defer p.popDepth()

	p.pos++ // open
	items := []Value{}
	for {
		p.skipSpace()
		if p.peek() == close {
			p.pos++
			return items, nil
		}
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		switch c := p.peek(); c {
		case close:
			p.pos++
			return items, nil
		case ',':
			p.pos++
		case 0:
			return nil, p.errorf("unexpected end of input in %s", sequenceName(open))
		default:
			return nil, p.errorf("expected ',' or %q in %s, got %q", string(close), sequenceName(open), string(c))
		}
	}
}

func sequenceName(open byte) string {
	if open == '[' {
		return "list"
	}
	return "tuple"
}

func (p *parser) parseSigned() (Value, error) {
	neg := false
	for p.peek() == '+' || p.peek() == '-' {
		if p.peek() == '-' {
			neg = !neg
		}
		p.pos++
		p.skipSpace()
	}
	start := p.pos
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	if !v.isNumeric() {
		return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("unary operator applied to %s", v.Kind)}
	}
	if neg {
		if v.Kind == KindInt {
			v.Int.Neg(v.Int)
		} else {
			v.Float = -v.Float
		}
	}
	return v, nil
}

func (p *parser) parseWord() (Value, error) {
	start := p.pos
	for p.pos < len(p.data) && isIdentChar(p.data[p.pos]) {
		p.pos++
	}
	word := p.data[start:p.pos]

	if q := p.peek(); q == '\'' || q == '"' {
		p.pos = start
		return p.parseStrings()
	}

	switch word {
	case "None":
		return None(), nil
	case "True":
		return Bool(true), nil
	case "False":
		return Bool(false), nil
	}
	return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("unknown name %q", word)}
}

// parseStrings parses one or more adjacent string literals and concatenates
// them.
func (p *parser) parseStrings() (Value, error) {
	var sb strings.Builder
	for {
		if err := p.parseString(&sb); err != nil {
			return Value{}, err
		}
		save := p.pos
		p.skipSpace()
		if !p.atStringStart() {
			p.pos = save
			return String(sb.String()), nil
		}
	}
}

func (p *parser) atStringStart() bool {
	i := p.pos
	for n := 0; n < 2 && i < len(p.data) && isStringPrefix(p.data[i]); n++ {
		i++
	}
	return i < len(p.data) && (p.data[i] == '\'' || p.data[i] == '"')
}

func (p *parser) parseString(sb *strings.Builder) error {
	start := p.pos
	raw := false
	for isIdentChar(p.peek()) {
		switch p.peek() {
		case 'r', 'R':
			raw = true
		case 'u', 'U':
		case 'b', 'B':
			return &SyntaxError{Offset: start, Msg: "bytes literals are not supported"}
		default:
			return &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid string prefix %q", p.data[start:p.pos+1])}
		}
		p.pos++
	}
	if p.pos-start > 2 {
		return &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid string prefix %q", p.data[start:p.pos])}
	}

	quote := p.peek()
	triple := p.peekAt(1) == quote && p.peekAt(2) == quote
	if triple {
		p.pos += 3
	} else {
		p.pos++
	}

	for {
		if p.eof() {
			return &SyntaxError{Offset: start, Msg: "unterminated string literal"}
		}
		c := p.data[p.pos]
		switch {
		case c == quote && !triple:
			p.pos++
			return nil
		case c == quote && p.peekAt(1) == quote && p.peekAt(2) == quote:
			p.pos += 3
			return nil
		case c == '\n' && !triple:
			return &SyntaxError{Offset: start, Msg: "unterminated string literal"}
		case c == '\\':
			if raw {
				// the escaped character is kept and never closes the string
				sb.WriteByte('\\')
				p.pos++
				if !p.eof() {
					sb.WriteByte(p.data[p.pos])
					p.pos++
				}
				continue
			}
			if err := p.parseEscape(sb); err != nil {
				return err
			}
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) parseEscape(sb *strings.Builder) error {
	start := p.pos
	p.pos++ // '\\'
	if p.eof() {
		return &SyntaxError{Offset: start, Msg: "unterminated escape sequence"}
	}
	c := p.data[p.pos]
	p.pos++
	switch c {
	case '\n':
	case '\r':
		if p.peek() == '\n' {
			p.pos++
		}
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'v':
		sb.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		code := int(c - '0')
		for n := 0; n < 2 && isOctDigit(p.peek()); n++ {
			code = code*8 + int(p.data[p.pos]-'0')
			p.pos++
		}
		sb.WriteRune(rune(code))
	case 'x', 'u', 'U':
		width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
		if p.pos+width > len(p.data) {
			return &SyntaxError{Offset: start, Msg: fmt.Sprintf("truncated \\%c escape", c)}
		}
		digits := p.data[p.pos : p.pos+width]
		code, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid \\%c escape %q", c, digits)}
		}
		if code > utf8.MaxRune {
			return &SyntaxError{Offset: start, Msg: fmt.Sprintf("illegal Unicode character \\%c%s", c, digits)}
		}
		p.pos += width
		sb.WriteRune(rune(code))
	case 'N':
		return &SyntaxError{Offset: start, Msg: "named Unicode escapes are not supported"}
	default:
		sb.WriteByte('\\')
		sb.WriteByte(c)
	}
	return nil
}

func (p *parser) parseNumber() (Value, error) {
	start := p.pos

	if p.peek() == '0' {
		if base := radixOf(p.peekAt(1)); base != 0 {
			p.pos += 2
			digStart := p.pos
			for isHexDigit(p.peek()) || p.peek() == '_' {
				p.pos++
			}
			digits := p.data[digStart:p.pos]
			if err := p.checkNumberEnd(start); err != nil {
				return Value{}, err
			}
			if digits == "" || strings.HasSuffix(digits, "_") || strings.Contains(digits, "__") {
				return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid integer literal %q", p.data[start:p.pos])}
			}
			n, ok := new(big.Int).SetString(strings.ReplaceAll(digits, "_", ""), base)
			if !ok {
				return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid integer literal %q", p.data[start:p.pos])}
			}
			return Value{Kind: KindInt, Int: n}, nil
		}
	}

	intPart := p.scanDigits()
	isFloat := false
	var fracPart, expPart string
	if p.peek() == '.' {
		isFloat = true
		p.pos++
		fracPart = p.scanDigits()
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		isFloat = true
		expStart := p.pos
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		expPart = p.scanDigits()
		if expPart == "" {
			return Value{}, &SyntaxError{Offset: expStart, Msg: "missing exponent digits"}
		}
	}
	if err := p.checkNumberEnd(start); err != nil {
		return Value{}, err
	}

	text := p.data[start:p.pos]
	if intPart == "" && fracPart == "" {
		return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid number literal %q", text)}
	}
	for _, part := range []string{intPart, fracPart, expPart} {
		if !validUnderscores(part) {
			return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid number literal %q", text)}
		}
	}
	clean := strings.ReplaceAll(text, "_", "")

	if !isFloat {
		if len(intPart) > 1 && intPart[0] == '0' && strings.Trim(intPart, "0_") != "" {
			return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("leading zeros in decimal integer literal %q", text)}
		}
		n, ok := new(big.Int).SetString(clean, 10)
		if !ok {
			return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid integer literal %q", text)}
		}
		return Value{Kind: KindInt, Int: n}, nil
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid float literal %q", text)}
	}
	return Float(f), nil
}

func (p *parser) scanDigits() string {
	start := p.pos
	for isDigit(p.peek()) || p.peek() == '_' {
		p.pos++
	}
	return p.data[start:p.pos]
}

func (p *parser) checkNumberEnd(start int) error {
	c := p.peek()
	if c == 'j' || c == 'J' {
		return &SyntaxError{Offset: start, Msg: "complex literals are not supported"}
	}
	if isIdentChar(c) {
		return p.errorf("invalid character %q in number literal", string(c))
	}
	return nil
}

// validUnderscores reports whether every '_' in s sits between two digits.
func validUnderscores(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return false
		}
	}
	return true
}

func radixOf(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isStringPrefix(c byte) bool {
	switch c {
	case 'r', 'R', 'u', 'U':
		return true
	}
	return false
}
