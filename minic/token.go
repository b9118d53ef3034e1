package minic

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	TokenEOF TokenType = "EOF"

	TokenKeyword TokenType = "KEYWORD"
	TokenIdent   TokenType = "IDENT"
	TokenInt     TokenType = "INT"
	TokenFloat   TokenType = "FLOAT"
	TokenString  TokenType = "STRING"

	TokenInc     TokenType = "INC"     // ++
	TokenDec     TokenType = "DEC"     // --
	TokenAnd     TokenType = "AND"     // &&
	TokenOr      TokenType = "OR"      // ||
	TokenEQ      TokenType = "EQ"      // ==
	TokenNotEQ   TokenType = "NEQ"     // !=
	TokenGTE     TokenType = "GE"      // >=
	TokenLTE     TokenType = "LE"      // <=
	TokenPlusEq  TokenType = "PLUSEQ"  // +=
	TokenMinusEq TokenType = "MINUSEQ" // -=
	TokenMulEq   TokenType = "MULTEQ"  // *=
	TokenDivEq   TokenType = "DIVEQ"   // /=
	TokenModEq   TokenType = "MODEQ"   // %=
	TokenPlus    TokenType = "PLUS"    // +
	TokenMinus   TokenType = "MINUS"   // -
	TokenMul     TokenType = "MUL"     // *
	TokenDiv     TokenType = "DIV"     // /
	TokenMod     TokenType = "MOD"     // %
	TokenGT      TokenType = "GT"      // >
	TokenLT      TokenType = "LT"      // <
	TokenAssign  TokenType = "ASSIGN"  // =
	TokenNot     TokenType = "NOT"     // !
	TokenQMark   TokenType = "QMARK"   // ?
	TokenColon   TokenType = "COLON"   // :
	TokenDot     TokenType = "DOT"     // .

	TokenLParen   TokenType = "LPAREN"
	TokenRParen   TokenType = "RPAREN"
	TokenLBrace   TokenType = "LBRACE"
	TokenRBrace   TokenType = "RBRACE"
	TokenLBracket TokenType = "LBRACK"
	TokenRBracket TokenType = "RBRACK"
	TokenComma    TokenType = "COMMA"
	TokenSemi     TokenType = "SEMI"
)

var tokenTypes = []TokenType{
	TokenKeyword, TokenIdent, TokenInt, TokenFloat, TokenString,
	TokenInc, TokenDec, TokenAnd, TokenOr, TokenEQ, TokenNotEQ, TokenGTE, TokenLTE,
	TokenPlusEq, TokenMinusEq, TokenMulEq, TokenDivEq, TokenModEq,
	TokenPlus, TokenMinus, TokenMul, TokenDiv, TokenMod,
	TokenGT, TokenLT, TokenAssign, TokenNot, TokenQMark, TokenColon, TokenDot,
	TokenLParen, TokenRParen, TokenLBrace, TokenRBrace, TokenLBracket, TokenRBracket,
	TokenComma, TokenSemi,
	TokenEOF,
}

// TokenTypes returns every token type the scanner can produce.
func TokenTypes() []TokenType {
	out := make([]TokenType, len(tokenTypes))
	copy(out, tokenTypes)
	return out
}

// Token is a single lexical unit. Lexeme holds the decoded value for
// strings and the raw source text for everything else.
type Token struct {
	Type   TokenType
	Lexeme string
	Pos    Position
	Len    int
}

// Raw returns the slice of source the token was scanned from.
func (t Token) Raw(source string) string {
	end := t.Pos.Offset + t.Len
	if t.Pos.Offset < 0 || end > len(source) {
		return ""
	}
	return source[t.Pos.Offset:end]
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Pos.Offset + t.Len
}

// Position identifies a character in the source. Line and Column are
// 1-based; Offset is a byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}
