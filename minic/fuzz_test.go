package minic

import (
	"strings"
	"testing"
)

func FuzzScanDoesNotPanic(f *testing.F) {
	f.Add("")
	f.Add("int x = 10;")
	f.Add("\"hola \\\"mundo\\\"\\n\"")
	f.Add("/* open")
	f.Add("a?.b:c; // tail")
	f.Add("3.14e-2 .5 1e 1..2")
	f.Add("\"\\")

	f.Fuzz(func(t *testing.T, source string) {
		tokens, err := Scan(source)
		if err != nil {
			return
		}
		if tokens[len(tokens)-1].Type != TokenEOF {
			t.Fatalf("missing EOF for %q", source)
		}

		var b strings.Builder
		prev := 0
		for i, tk := range tokens {
			if tk.Type == TokenEOF && i != len(tokens)-1 {
				t.Fatalf("EOF before end for %q", source)
			}
			if tk.Pos.Offset < prev {
				t.Fatalf("tokens out of order for %q", source)
			}
			gap := source[prev:tk.Pos.Offset]
			rest, err := Scan(gap)
			if err != nil || len(rest) != 1 {
				t.Fatalf("gap %q is not trivia", gap)
			}
			raw := tk.Raw(source)
			switch {
			case tk.Type == TokenString:
				if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
					t.Fatalf("string raw span %q not quoted", raw)
				}
			case tk.Type != TokenEOF && (raw != tk.Lexeme || raw == ""):
				t.Fatalf("raw %q differs from lexeme %q", raw, tk.Lexeme)
			}
			b.WriteString(gap)
			b.WriteString(raw)
			prev = tk.End()
		}
		if b.String() != source {
			t.Fatalf("reconstruction mismatch for %q", source)
		}
	})
}
