package wexpr

import "strings"

// The five-entry escape map, both directions. No other escape sequence
// exists in wexpr; anything else is a tokenizer error.
var escapeDecode = map[byte]byte{
	'\\': '\\',
	'r':  '\r',
	'n':  '\n',
	't':  '\t',
	'"':  '"',
}

var escapeEncode = map[byte]string{
	'\\': `\\`,
	'\r': `\r`,
	'\n': `\n`,
	'\t': `\t`,
	'"':  `\"`,
}

// isValidEscape reports whether c is a recognized escape character (the
// byte immediately following a backslash).
func isValidEscape(c byte) bool {
	_, ok := escapeDecode[c]
	return ok
}

// unescapeString reverses escape sequences in a string token's interior
// (quotes already stripped). The caller has already validated every
// escape via isValidEscape while scanning, so this never fails.
func unescapeString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			b.WriteByte(escapeDecode[s[i+1]])
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeString applies the escape map to s so the result may be written
// between quotes verbatim.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if esc, ok := escapeEncode[s[i]]; ok {
			b.WriteString(esc)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
