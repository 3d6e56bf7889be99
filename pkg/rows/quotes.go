package rows

import "strings"

// doubleQuote rewrites single-quoted string literals as double-quoted ones so
// the result can go through the json5 decoder, which only knows '"'. Inside a
// single-quoted literal '"' is escaped and \' becomes a bare quote.
// Double-quoted literals and // comments are copied unchanged. An unterminated
// literal stays unterminated and fails to decode later.
func doubleQuote(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'':
			b.WriteByte('"')
			i = copySingleQuoted(&b, runes, i+1)
		case r == '"':
			i = copyDoubleQuoted(&b, runes, i)
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			end := i
			for end < len(runes) && runes[end] != '\n' {
				end++
			}
			b.WriteString(string(runes[i:end]))
			i = end - 1
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// copySingleQuoted writes the body of a '...' literal starting at runes[i] and
// returns the index of its closing quote.
func copySingleQuoted(b *strings.Builder, runes []rune, i int) int {
	for ; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '\'':
			b.WriteByte('"')
			return i
		case '"':
			b.WriteString(`\"`)
		case '\\':
			if i+1 >= len(runes) {
				b.WriteByte('\\')
				continue
			}
			i++
			if runes[i] == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte('\\')
				b.WriteRune(runes[i])
			}
		default:
			b.WriteRune(r)
		}
	}
	return i
}

// copyDoubleQuoted writes a "..." literal starting at its opening quote and
// returns the index of its closing quote.
func copyDoubleQuoted(b *strings.Builder, runes []rune, i int) int {
	b.WriteByte('"')
	for i++; i < len(runes); i++ {
		r := runes[i]
		b.WriteRune(r)
		switch r {
		case '"':
			return i
		case '\\':
			if i+1 < len(runes) {
				i++
				b.WriteRune(runes[i])
			}
		}
	}
	return i
}
