package minic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorCode classifies a scan failure.
type ErrorCode string

const (
	UnterminatedString  ErrorCode = "UnterminatedString"
	UnterminatedComment ErrorCode = "UnterminatedComment"
	InvalidEscape       ErrorCode = "InvalidEscape"
	UnexpectedCharacter ErrorCode = "UnexpectedCharacter"
)

var (
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrInvalidEscape       = errors.New("invalid escape sequence")
	ErrUnexpectedCharacter = errors.New("unexpected character")
)

// ScanError reports the first lexical error in a source. Char is the
// offending character, or 0 when the error was found at end of input.
type ScanError struct {
	Code ErrorCode
	Pos  Position
	Char rune
	Msg  string

	source string
}

func (e *ScanError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scan error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	if frame := e.frame(); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// Unwrap exposes the sentinel matching e.Code so callers can use errors.Is.
func (e *ScanError) Unwrap() error {
	switch e.Code {
	case UnterminatedString:
		return ErrUnterminatedString
	case UnterminatedComment:
		return ErrUnterminatedComment
	case InvalidEscape:
		return ErrInvalidEscape
	case UnexpectedCharacter:
		return ErrUnexpectedCharacter
	}
	return nil
}

// frame quotes the line holding the error with a caret under it. It works
// from Pos.Offset, so the caret lands where the scanner stopped; tabs
// before the caret are echoed to keep it aligned.
func (e *ScanError) frame() string {
	src, off := e.source, e.Pos.Offset
	if src == "" || off < 0 || off > len(src) {
		return ""
	}

	start := strings.LastIndexByte(src[:off], '\n') + 1
	end := len(src)
	if i := strings.IndexByte(src[off:], '\n'); i >= 0 {
		end = off + i
	}
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, src[start:off])

	line := strconv.Itoa(e.Pos.Line)
	return fmt.Sprintf("  --> line %s, column %d\n %s | %s\n %s | %s^",
		line, e.Pos.Column,
		line, strings.TrimRight(src[start:end], "\r"),
		strings.Repeat(" ", len(line)), pad)
}

func (s *scanner) errorAt(code ErrorCode, pos Position, ch rune, msg string) *ScanError {
	return &ScanError{Code: code, Pos: pos, Char: ch, Msg: msg, source: s.src}
}
