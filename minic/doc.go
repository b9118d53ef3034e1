// Package minic implements the lexical scanner for minic, a small C-like
// language. Scan turns source text into a flat token sequence:
//   - Identifiers and the reserved words `if else while for return int float
//     bool string true false void break continue`.
//   - Integer and float literals (`10`, `3.14`, `.5`, `2.`, `6e-2`).
//   - Double-quoted strings with the escapes \" \\ \n \t \r \0; the token
//     lexeme is the decoded value.
//   - Operators resolved by longest match (`+=` beats `+`) and the
//     punctuation `( ) { } [ ] , ;`.
//
// Line comments start with `//` and block comments are delimited by
// `/*` and `*/`. The first lexical error aborts the scan and is returned as
// a *ScanError carrying the line and column of the problem.
package minic
