package minic

import (
	"fmt"
	"sort"
	"strings"
)

var keywords = map[string]struct{}{
	"if":       {},
	"else":     {},
	"while":    {},
	"for":      {},
	"return":   {},
	"int":      {},
	"float":    {},
	"bool":     {},
	"string":   {},
	"true":     {},
	"false":    {},
	"void":     {},
	"break":    {},
	"continue": {},
}

type operator struct {
	lexeme string
	typ    TokenType
}

// operators is ordered longest first; matchOperator takes the first hit.
var operators = []operator{
	{"++", TokenInc},
	{"--", TokenDec},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"==", TokenEQ},
	{"!=", TokenNotEQ},
	{">=", TokenGTE},
	{"<=", TokenLTE},
	{"+=", TokenPlusEq},
	{"-=", TokenMinusEq},
	{"*=", TokenMulEq},
	{"/=", TokenDivEq},
	{"%=", TokenModEq},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenMul},
	{"/", TokenDiv},
	{"%", TokenMod},
	{">", TokenGT},
	{"<", TokenLT},
	{"=", TokenAssign},
	{"!", TokenNot},
	{"?", TokenQMark},
	{":", TokenColon},
	{".", TokenDot},
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for word := range keywords {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

func lookupIdent(ident string) TokenType {
	if IsKeyword(ident) {
		return TokenKeyword
	}
	return TokenIdent
}

func matchOperator(rest string) (operator, bool) {
	for _, op := range operators {
		if strings.HasPrefix(rest, op.lexeme) {
			return op, true
		}
	}
	return operator{}, false
}

func lookupPunct(ch byte) (TokenType, bool) {
	switch ch {
	case '(':
		return TokenLParen, true
	case ')':
		return TokenRParen, true
	case '{':
		return TokenLBrace, true
	case '}':
		return TokenRBrace, true
	case '[':
		return TokenLBracket, true
	case ']':
		return TokenRBracket, true
	case ',':
		return TokenComma, true
	case ';':
		return TokenSemi, true
	}
	return "", false
}

// Label returns a human description of a token type, as used in
// diagnostics and hover text.
func Label(tt TokenType) string {
	switch tt {
	case TokenEOF:
		return "end of input"
	case TokenKeyword:
		return "keyword"
	case TokenIdent:
		return "identifier"
	case TokenInt:
		return "integer"
	case TokenFloat:
		return "float"
	case TokenString:
		return "string"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenComma:
		return "','"
	case TokenSemi:
		return "';'"
	}
	for _, op := range operators {
		if op.typ == tt {
			return fmt.Sprintf("'%s'", op.lexeme)
		}
	}
	return fmt.Sprintf("%q", strings.ToLower(string(tt)))
}
