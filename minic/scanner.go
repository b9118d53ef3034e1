package minic

import (
	"fmt"
	"unicode/utf8"
)

type cursor struct {
	offset int
	line   int
	column int
}

type scanner struct {
	src    string
	cur    cursor
	tokens []Token
}

// Scan tokenizes source. On success the result always ends with a single
// EOF token positioned just after the last character.
func Scan(source string) ([]Token, error) {
	s := newScanner(source)
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.tokens, nil
}

func newScanner(source string) *scanner {
	return &scanner{
		src: source,
		cur: cursor{line: 1, column: 1},
	}
}

func (s *scanner) run() *ScanError {
	for !s.atEnd() {
		ch := s.peek()
		switch {
		case ch == '\n':
			s.advance()
		case isSpace(ch):
			s.skipSpace()
		case ch == '/' && s.peekN(1) == '/':
			s.skipLineComment()
		case ch == '/' && s.peekN(1) == '*':
			if err := s.skipBlockComment(); err != nil {
				return err
			}
		case ch == '"':
			if err := s.scanString(); err != nil {
				return err
			}
		case isIdentStart(ch):
			s.scanIdent()
		default:
			if n := s.numberLen(); n > 0 {
				s.scanNumber(n)
				continue
			}
			if err := s.scanSymbol(); err != nil {
				return err
			}
		}
	}
	s.emit(TokenEOF, "", s.pos())
	return nil
}

func (s *scanner) atEnd() bool {
	return s.cur.offset >= len(s.src)
}

func (s *scanner) peek() byte {
	return s.peekN(0)
}

func (s *scanner) peekN(n int) byte {
	idx := s.cur.offset + n
	if idx >= len(s.src) {
		return 0
	}
	return s.src[idx]
}

// advance consumes one character and returns it.
func (s *scanner) advance() rune {
	if s.atEnd() {
		return 0
	}
	r, w := utf8.DecodeRuneInString(s.src[s.cur.offset:])
	s.cur.offset += w
	if r == '\n' {
		s.cur.line++
		s.cur.column = 1
	} else {
		s.cur.column++
	}
	return r
}

func (s *scanner) advanceN(n int) {
	for i := 0; i < n; i++ {
		s.advance()
	}
}

func (s *scanner) pos() Position {
	return Position{Offset: s.cur.offset, Line: s.cur.line, Column: s.cur.column}
}

func (s *scanner) emit(tt TokenType, lexeme string, start Position) {
	s.tokens = append(s.tokens, Token{
		Type:   tt,
		Lexeme: lexeme,
		Pos:    start,
		Len:    s.cur.offset - start.Offset,
	})
}

func (s *scanner) skipSpace() {
	for !s.atEnd() && isSpace(s.peek()) {
		s.advance()
	}
}

// skipLineComment leaves the terminating newline for the main loop.
func (s *scanner) skipLineComment() {
	for !s.atEnd() && s.peek() != '\n' {
		s.advance()
	}
}

func (s *scanner) skipBlockComment() *ScanError {
	start := s.pos()
	s.advanceN(2)
	for !s.atEnd() {
		if s.peek() == '*' && s.peekN(1) == '/' {
			s.advanceN(2)
			return nil
		}
		s.advance()
	}
	return s.errorAt(UnterminatedComment, start, 0, "unterminated block comment")
}

func (s *scanner) scanSymbol() *ScanError {
	start := s.pos()
	if op, ok := matchOperator(s.src[s.cur.offset:]); ok {
		s.advanceN(len(op.lexeme))
		s.emit(op.typ, op.lexeme, start)
		return nil
	}
	if tt, ok := lookupPunct(s.peek()); ok {
		s.advance()
		s.emit(tt, s.src[start.Offset:s.cur.offset], start)
		return nil
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.cur.offset:])
	return s.errorAt(UnexpectedCharacter, start, r, fmt.Sprintf("unexpected character %q", r))
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentByte(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
