package kv3

import "strings"

// endsEscaped reports whether the next character after buf is escaped,
// i.e. buf ends with an odd number of backslashes.
func endsEscaped(buf []byte) bool {
	n := 0
	for i := len(buf) - 1; i >= 0 && buf[i] == '\\'; i-- {
		n++
	}

	return n%2 == 1
}

// unescape expands \n and \t and drops the backslash before any other character.
func unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}

		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// escapeString escapes a string for a single-line quoted literal.
func escapeString(s string) string {
	if strings.IndexAny(s, "\"\\\n\t") < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// formatKey returns the key bare when it is an identifier, quoted otherwise.
func formatKey(key string) string {
	if isBareKey(key) {
		return key
	}

	var b strings.Builder
	b.Grow(len(key) + 2)
	b.WriteByte('"')
	for i := 0; i < len(key); i++ {
		switch c := key[i]; c {
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '"', '\'', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')

	return b.String()
}

// isBareKey reports whether a key can be written without quotes.
func isBareKey(key string) bool {
	if key == "" || isDigit(key[0]) {
		return false
	}

	for i := 0; i < len(key); i++ {
		c := key[i]
		if !isDigit(c) && !isLetter(c) && c != '.' && c != '_' {
			return false
		}
	}

	return true
}

// isDigit checks for an ASCII digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isLetter checks for an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isSpace checks for the whitespace the grammar skips.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}
