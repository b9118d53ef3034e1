package minic

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func (s *scanner) scanIdent() {
	start := s.pos()
	for !s.atEnd() && isIdentByte(s.peek()) {
		s.advance()
	}
	literal := s.src[start.Offset:s.cur.offset]
	s.emit(lookupIdent(literal), literal, start)
}

// numberLen returns the length of the longest numeric literal at the
// cursor, or 0 when none starts here. Accepted shapes are `1`, `1.`,
// `1.5` and `.5`, each with an optional `e[+-]digits` exponent.
func (s *scanner) numberLen() int {
	rest := s.src[s.cur.offset:]
	n := digitsAt(rest, 0)
	switch {
	case n > 0:
		if n < len(rest) && rest[n] == '.' {
			n++
			n += digitsAt(rest, n)
		}
	case len(rest) > 1 && rest[0] == '.' && isDigit(rest[1]):
		n = 1 + digitsAt(rest, 1)
	default:
		return 0
	}

	if n < len(rest) && (rest[n] == 'e' || rest[n] == 'E') {
		exp := n + 1
		if exp < len(rest) && (rest[exp] == '+' || rest[exp] == '-') {
			exp++
		}
		if d := digitsAt(rest, exp); d > 0 {
			n = exp + d
		}
	}
	return n
}

func (s *scanner) scanNumber(n int) {
	start := s.pos()
	s.advanceN(n)
	literal := s.src[start.Offset:s.cur.offset]
	tt := TokenInt
	if strings.ContainsAny(literal, ".eE") {
		tt = TokenFloat
	}
	s.emit(tt, literal, start)
}

func digitsAt(text string, from int) int {
	n := 0
	for from+n < len(text) && isDigit(text[from+n]) {
		n++
	}
	return n
}

func (s *scanner) scanString() *ScanError {
	start := s.pos()
	s.advance() // opening quote

	var sb strings.Builder
	for {
		if s.atEnd() {
			return s.errorAt(UnterminatedString, start, '"', "unterminated string literal")
		}
		switch s.peek() {
		case '"':
			s.advance()
			s.emit(TokenString, sb.String(), start)
			return nil
		case '\\':
			s.advance()
			escPos := s.pos()
			if s.atEnd() {
				return s.errorAt(InvalidEscape, escPos, 0, "invalid escape sequence at end of input")
			}
			decoded, ok := decodeEscape(s.peek())
			if !ok {
				r, _ := utf8.DecodeRuneInString(s.src[s.cur.offset:])
				return s.errorAt(InvalidEscape, escPos, r, fmt.Sprintf("invalid escape sequence '\\%c'", r))
			}
			sb.WriteByte(decoded)
			s.advance()
		default:
			from := s.cur.offset
			s.advance()
			sb.WriteString(s.src[from:s.cur.offset])
		}
	}
}

func decodeEscape(ch byte) (byte, bool) {
	switch ch {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	}
	return 0, false
}
