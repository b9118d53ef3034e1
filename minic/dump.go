package minic

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatToken renders tok as a single dump line:
//
//	KEYWORD    'int' @ 1:1
func FormatToken(tok Token) string {
	return fmt.Sprintf("%-10s %s @ %d:%d", tok.Type, QuoteLexeme(tok.Lexeme), tok.Pos.Line, tok.Pos.Column)
}

// WriteTokens writes one dump line per token.
func WriteTokens(w io.Writer, tokens []Token) error {
	for _, tok := range tokens {
		if _, err := fmt.Fprintln(w, FormatToken(tok)); err != nil {
			return err
		}
	}
	return nil
}

// QuoteLexeme quotes text the way the dump format expects: single quotes
// unless the text holds a single quote and no double quote, with control
// characters escaped.
func QuoteLexeme(text string) string {
	quote := byte('\'')
	if strings.ContainsRune(text, '\'') && !strings.ContainsRune(text, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && w == 1 {
			fmt.Fprintf(&b, "\\x%02x", text[i])
			i++
			continue
		}
		i += w

		switch {
		case r == rune(quote) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, "\\x%02x", r)
		case r < 0x10000:
			fmt.Fprintf(&b, "\\u%04x", r)
		default:
			fmt.Fprintf(&b, "\\U%08x", r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
