package kv3

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// state is a parser state. The parser keeps a stack of them so that closing
// a nested value resumes the enclosing object or array.
type state int

const (
	stateHeader state = iota
	stateSeekValue
	statePropName
	statePropNameQuoted
	stateValueStruct
	stateValueArray
	stateValueString
	stateValueStringMulti
	stateValueBinaryBlob
	stateValueNumber
	stateValueFlagged
	stateComment
	stateCommentBlock
)

var stateNames = [...]string{
	stateHeader:           "header",
	stateSeekValue:        "value",
	statePropName:         "property name",
	statePropNameQuoted:   "quoted property name",
	stateValueStruct:      "object",
	stateValueArray:       "array",
	stateValueString:      "string",
	stateValueStringMulti: "multiline string",
	stateValueBinaryBlob:  "binary blob",
	stateValueNumber:      "number",
	stateValueFlagged:     "flagged value",
	stateComment:          "comment",
	stateCommentBlock:     "block comment",
}

func (s state) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseError describes malformed KV3 text. It unwraps to ErrParse.
type ParseError struct {
	State   string // parser state the error was detected in
	Message string // what was expected
	Offset  int64  // byte offset of Char, or input length at EOF
	Char    byte   // offending character
	EOF     bool   // input ended early
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.EOF {
		return fmt.Sprintf("%s at offset %d: unexpected end of input in %s: %s", ErrParse, e.Offset, e.State, e.Message)
	}

	return fmt.Sprintf("%s at offset %d: unexpected %q in %s: %s", ErrParse, e.Offset, e.Char, e.State, e.Message)
}

// Unwrap returns ErrParse.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// parser is a character driven state machine building an object tree.
// One parser serves exactly one input.
type parser struct {
	r       *bufio.Reader
	root    *Object   // completed top-level value
	states  []state   // state stack, top is last
	objects []*Object // objects under construction, innermost is last
	buf     []byte    // literal accumulator
	name    string    // property name for the next value
	header  string    // raw <!-- ... --> line
	pos     int64     // bytes consumed
	flag    Flag      // flag for the string being read
	prev    byte      // previous character inside a block comment
}

// newParser creates a parser over r.
func newParser(r *bufio.Reader) *parser {
	return &parser{r: r, states: []state{stateHeader}}
}

// run consumes the whole input.
func (p *parser) run() error {
	if p.peekIs(string(utf8BOM)) {
		p.skip(len(utf8BOM))
	}

	for {
		c, err := p.r.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		p.pos++
		if err := p.step(c); err != nil {
			return err
		}
	}

	return p.finish()
}

// step dispatches one character on the state at the top of the stack.
func (p *parser) step(c byte) error {
	switch p.top() {
	case stateHeader:
		return p.readHeader(c)
	case stateSeekValue:
		return p.seekValue(c)
	case statePropName:
		return p.readPropName(c)
	case statePropNameQuoted:
		return p.readPropNameQuoted(c)
	case stateValueStruct:
		return p.readStruct(c)
	case stateValueArray:
		return p.readArray(c)
	case stateValueString:
		return p.readString(c)
	case stateValueStringMulti:
		return p.readStringMulti(c)
	case stateValueBinaryBlob:
		return p.readBinaryBlob(c)
	case stateValueNumber:
		return p.readNumber(c)
	case stateValueFlagged:
		return p.readFlagged(c)
	case stateComment:
		if c == '\n' {
			p.pop()
		}
		return nil
	case stateCommentBlock:
		if p.prev == '*' && c == '/' {
			p.pop()
		}
		p.prev = c
		return nil
	default:
		return p.errorf(c, "corrupt parser state")
	}
}

// readHeader collects the optional <!-- kv3 ... --> line.
func (p *parser) readHeader(c byte) error {
	if len(p.buf) == 0 {
		if isSpace(c) {
			return nil
		}

		// No header: the character belongs to the root value.
		if c != '<' {
			p.replace(stateSeekValue)
			return p.step(c)
		}
	}

	p.buf = append(p.buf, c)
	if bytes.HasSuffix(p.buf, []byte("-->")) {
		p.header = string(p.buf)
		p.buf = p.buf[:0]
		p.replace(stateSeekValue)
	}

	return nil
}

// seekValue decides what kind of value starts at c.
func (p *parser) seekValue(c byte) error {
	if isSpace(c) || c == '=' {
		return nil
	}
	if c == '/' {
		return p.openComment(c)
	}

	if len(p.objects) == 0 {
		if p.root != nil {
			return p.errorf(c, "data after root value")
		}
		if c != '{' && c != '[' {
			return p.errorf(c, "root value must be an object or array")
		}
	}

	switch c {
	case '{':
		p.replace(stateValueStruct)
		p.objects = append(p.objects, NewObject(p.childKey()))
		return nil

	case '[':
		p.replace(stateValueArray)
		p.objects = append(p.objects, NewArray(p.childKey()))
		return nil

	case '}', ']', ',':
		return p.errorf(c, "expected value")

	case '"':
		p.buf = p.buf[:0]
		if p.peekIs(`""`) {
			p.skip(2)
			p.replace(stateValueStringMulti)
			return nil
		}

		p.replace(stateValueString)
		return nil

	case '#':
		if p.peekIs("[") {
			p.skip(1)
			p.buf = p.buf[:0]
			p.replace(stateValueBinaryBlob)
			return nil
		}
	}

	if v, n, ok := p.matchLiteral(c); ok {
		p.skip(n)
		p.add(v)
		p.pop()
		return nil
	}

	p.buf = append(p.buf[:0], c)
	if isDigit(c) || (c == '-' && p.peekDigit()) {
		p.replace(stateValueNumber)
		return nil
	}

	p.replace(stateValueFlagged)
	return nil
}

// readPropName reads a bare property name.
func (p *parser) readPropName(c byte) error {
	if isSpace(c) || c == '=' {
		p.name = string(p.buf)
		p.replace(stateSeekValue)
		return nil
	}

	p.buf = append(p.buf, c)
	return nil
}

// readPropNameQuoted reads a quoted property name.
func (p *parser) readPropNameQuoted(c byte) error {
	if c == '"' && !endsEscaped(p.buf) {
		p.name = unescape(string(p.buf))
		p.replace(stateSeekValue)
		return nil
	}

	p.buf = append(p.buf, c)
	return nil
}

// readStruct handles the space between properties of an object.
func (p *parser) readStruct(c byte) error {
	switch {
	case isSpace(c):
		return nil
	case c == '/':
		return p.openComment(c)
	case c == '}':
		return p.closeObject()
	case c == '"':
		p.buf = p.buf[:0]
		p.push(statePropNameQuoted)
		return nil
	case c == ']' || c == '{' || c == '[' || c == '=' || c == ',':
		return p.errorf(c, "expected property name or '}'")
	default:
		p.buf = append(p.buf[:0], c)
		p.push(statePropName)
		return nil
	}
}

// readArray handles the space between array elements.
func (p *parser) readArray(c byte) error {
	switch {
	case isSpace(c) || c == ',':
		return nil
	case c == '/':
		return p.openComment(c)
	case c == ']':
		return p.closeObject()
	case c == '}' || c == '=' || c == ':':
		return p.errorf(c, "malformed array")
	default:
		p.push(stateSeekValue)
		return p.step(c)
	}
}

// readString reads a quoted string, optionally flagged.
func (p *parser) readString(c byte) error {
	if c != '"' || endsEscaped(p.buf) {
		p.buf = append(p.buf, c)
		return nil
	}

	v := String(unescape(string(p.buf)))
	v.Flag = p.flag
	p.flag = FlagNone
	p.add(v)
	p.pop()

	return nil
}

// readStringMulti reads a triple-quoted string without escape processing.
func (p *parser) readStringMulti(c byte) error {
	if c == '"' && !endsEscaped(p.buf) && p.peekIs(`""`) {
		p.skip(2)
		p.add(String(trimMultiline(string(p.buf))))
		p.pop()
		return nil
	}

	p.buf = append(p.buf, c)
	return nil
}

// readBinaryBlob reads hex digits up to the closing bracket.
func (p *parser) readBinaryBlob(c byte) error {
	if isSpace(c) {
		return nil
	}
	if c != ']' {
		p.buf = append(p.buf, c)
		return nil
	}

	b := make([]byte, hex.DecodedLen(len(p.buf)))
	if _, err := hex.Decode(b, p.buf); err != nil {
		return p.errorf(c, "invalid binary blob: %v", err)
	}

	p.add(Blob(b))
	p.pop()

	return nil
}

// readNumber reads a number up to a separator.
func (p *parser) readNumber(c byte) error {
	if !isSpace(c) && c != ',' && c != '}' && c != ']' {
		p.buf = append(p.buf, c)
		return nil
	}

	v, err := parseNumber(string(p.buf))
	if err != nil {
		return p.errorf(c, "invalid number %q", p.buf)
	}

	p.add(v)
	p.pop()

	// Closing brackets belong to the enclosing container.
	if c == '}' || c == ']' {
		return p.step(c)
	}

	return nil
}

// readFlagged reads a flag keyword and hands the quoted remainder to readString.
func (p *parser) readFlagged(c byte) error {
	if c != ':' {
		if isSpace(c) || c == ',' || c == '}' || c == ']' {
			return p.errorf(c, "expected value, got %q", p.buf)
		}

		p.buf = append(p.buf, c)
		return nil
	}

	flag, ok := ParseFlag(string(p.buf))
	if !ok {
		return p.errorf(c, "unknown flag %q", p.buf)
	}
	if !p.peekIs(`"`) {
		return p.errorf(c, "expected quoted string after flag %q", p.buf)
	}

	p.skip(1)
	p.flag = flag
	p.buf = p.buf[:0]
	p.replace(stateValueString)

	return nil
}

// openComment starts a line or block comment at '/'.
func (p *parser) openComment(c byte) error {
	switch {
	case p.peekIs("/"):
		p.skip(1)
		p.push(stateComment)
	case p.peekIs("*"):
		p.skip(1)
		p.prev = 0
		p.push(stateCommentBlock)
	default:
		return p.errorf(c, "expected comment")
	}

	return nil
}

// closeObject pops the innermost object and attaches it to its parent.
func (p *parser) closeObject() error {
	obj := p.objects[len(p.objects)-1]
	p.objects = p.objects[:len(p.objects)-1]
	p.pop()

	if len(p.objects) == 0 {
		p.root = obj
		p.push(stateSeekValue)
		return nil
	}

	p.objects[len(p.objects)-1].AddProperty(obj.Key, ObjectValue(obj))
	return nil
}

// finish checks the parser ended between values.
func (p *parser) finish() error {
	switch p.top() {
	case stateHeader:
		if len(p.buf) > 0 {
			return p.eofError("unterminated header")
		}
		return p.eofError("no root value")
	case stateCommentBlock:
		return p.eofError("unterminated block comment")
	}

	if p.root == nil || len(p.objects) > 0 {
		return p.eofError("unclosed value")
	}

	return nil
}

// matchLiteral matches true, false and null as whole tokens starting at c.
// It returns the number of lookahead bytes the token spans.
func (p *parser) matchLiteral(c byte) (Value, int, bool) {
	var (
		lit string
		v   Value
	)

	switch c {
	case 't':
		lit, v = "true", Bool(true)
	case 'f':
		lit, v = "false", Bool(false)
	case 'n':
		lit, v = "null", Null()
	default:
		return Value{}, 0, false
	}

	rest := lit[1:]
	ahead, _ := p.r.Peek(len(rest) + 1)
	if len(ahead) < len(rest) || string(ahead[:len(rest)]) != rest {
		return Value{}, 0, false
	}
	if len(ahead) > len(rest) && !isDelimiter(ahead[len(rest)]) {
		return Value{}, 0, false
	}

	return v, len(rest), true
}

// add stores a completed scalar in the innermost object.
func (p *parser) add(v Value) {
	p.objects[len(p.objects)-1].AddProperty(p.name, v)
}

// childKey names a new nested object: the property name, or the index inside arrays.
func (p *parser) childKey() string {
	if n := len(p.objects); n > 0 && p.objects[n-1].IsArray {
		return strconv.Itoa(p.objects[n-1].Count())
	}

	return p.name
}

func (p *parser) top() state {
	if len(p.states) == 0 {
		return stateSeekValue
	}

	return p.states[len(p.states)-1]
}

func (p *parser) push(s state) {
	p.states = append(p.states, s)
}

func (p *parser) pop() {
	if len(p.states) > 0 {
		p.states = p.states[:len(p.states)-1]
	}
}

func (p *parser) replace(s state) {
	p.pop()
	p.push(s)
}

// peekIs reports whether the next bytes equal s without consuming them.
func (p *parser) peekIs(s string) bool {
	b, _ := p.r.Peek(len(s))
	return string(b) == s
}

// peekDigit reports whether the next byte is a digit.
func (p *parser) peekDigit() bool {
	b, _ := p.r.Peek(1)
	return len(b) == 1 && isDigit(b[0])
}

// skip consumes n peeked bytes.
func (p *parser) skip(n int) {
	d, _ := p.r.Discard(n)
	p.pos += int64(d)
}

// errorf builds a ParseError for the character just read.
func (p *parser) errorf(c byte, format string, args ...any) error {
	return &ParseError{
		Offset:  p.pos - 1,
		Char:    c,
		State:   p.top().String(),
		Message: fmt.Sprintf(format, args...),
	}
}

// eofError builds a ParseError for premature end of input.
func (p *parser) eofError(msg string) error {
	return &ParseError{
		Offset:  p.pos,
		State:   p.top().String(),
		Message: msg,
		EOF:     true,
	}
}

// isDelimiter reports whether c may follow a bare literal.
func isDelimiter(c byte) bool {
	return isSpace(c) || c == ',' || c == ']' || c == '}' || c == '/'
}

// parseNumber parses an integer or, when it has a fraction or exponent, a double.
func parseNumber(s string) (Value, error) {
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, err
		}
		return Double(f), nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return Int64(n), nil
	}

	if errors.Is(err, strconv.ErrRange) && s[0] != '-' {
		u, uerr := strconv.ParseUint(s, 10, 64)
		if uerr == nil {
			return UInt64(u), nil
		}
	}

	return Value{}, err
}

// trimMultiline drops one leading and one trailing line break.
func trimMultiline(s string) string {
	switch {
	case strings.HasPrefix(s, "\r\n"):
		s = s[2:]
	case strings.HasPrefix(s, "\n"):
		s = s[1:]
	}

	switch {
	case strings.HasSuffix(s, "\r\n"):
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "\n"):
		s = s[:len(s)-1]
	}

	return s
}
