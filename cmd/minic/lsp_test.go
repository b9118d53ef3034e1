package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

const testURI = "file:///tmp/test.mc"

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	origStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close write pipe: %v", err)
	}
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		_ = r.Close()
	}()

	if err := runCLI([]string{"minic", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp failed: %v", err)
	}
}

func TestDiagnosticsForSource(t *testing.T) {
	td.Cmp(t, diagnosticsForSource("int x = 1;\n"), []lspDiagnostic{})

	td.Cmp(t, diagnosticsForSource("int x;\n  y = @;\n"), []lspDiagnostic{{
		Range: lspRange{
			Start: lspPosition{Line: 1, Character: 6},
			End:   lspPosition{Line: 1, Character: 7},
		},
		Severity: lspSeverityError,
		Code:     "UnexpectedCharacter",
		Source:   "minic-lsp",
		Message:  "unexpected character '@'",
	}})
}

func TestDiagnosticsUseUTF16Characters(t *testing.T) {
	diags := diagnosticsForSource("\"😀\" @")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	td.Cmp(t, diags[0].Range.Start, lspPosition{Line: 0, Character: 5})
}

func TestCompletionItemsAreSortedKeywords(t *testing.T) {
	items := completionItems()
	if len(items) != 14 {
		t.Fatalf("expected 14 completion items, got %d", len(items))
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		if item.Kind != lspCompletionKeyword || item.Detail != "keyword" {
			t.Fatalf("unexpected completion item: %#v", item)
		}
		labels = append(labels, item.Label)
	}
	if !slices.IsSorted(labels) {
		t.Fatalf("expected sorted completion labels, got %v", labels)
	}
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), io.Discard)
	params := `{"textDocument":{"uri":"` + testURI + `","text":"/* open\n"}}`

	messages := server.dispatch(lspRequest{JSONRPC: "2.0", Method: "textDocument/didOpen", Params: json.RawMessage(params)})
	if len(messages) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(messages))
	}
	td.Cmp(t, messages[0].Method, lspPublishDiagnostics)

	published, ok := messages[0].Params.(lspPublishParams)
	if !ok {
		t.Fatalf("unexpected params payload: %#v", messages[0].Params)
	}
	td.Cmp(t, published.URI, testURI)
	td.Cmp(t, published.Diagnostics, []lspDiagnostic{{
		Range:    lspRange{End: lspPosition{Character: 1}},
		Severity: lspSeverityError,
		Code:     "UnterminatedComment",
		Source:   "minic-lsp",
		Message:  "unterminated block comment",
	}})
	td.Cmp(t, server.docs[testURI], "/* open\n")
}

func TestDidChangeUsesLastContentChange(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), io.Discard)
	server.docs[testURI] = "@"
	params := `{"textDocument":{"uri":"` + testURI + `"},"contentChanges":[{"text":"@"},{"text":"x;"}]}`

	messages := server.dispatch(lspRequest{JSONRPC: "2.0", Method: "textDocument/didChange", Params: json.RawMessage(params)})
	if len(messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(messages))
	}
	td.Cmp(t, messages[0].Params, lspPublishParams{URI: testURI, Diagnostics: []lspDiagnostic{}})
	td.Cmp(t, server.docs[testURI], "x;")
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), io.Discard)
	server.docs[testURI] = "\"open"

	messages := server.dispatch(lspRequest{
		JSONRPC: "2.0",
		Method:  "textDocument/didClose",
		Params:  json.RawMessage(`{"textDocument":{"uri":"` + testURI + `"}}`),
	})
	if len(messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(messages))
	}
	td.Cmp(t, messages[0].Params, lspPublishParams{URI: testURI, Diagnostics: []lspDiagnostic{}})
	if _, ok := server.docs[testURI]; ok {
		t.Fatalf("document should be forgotten after close")
	}
}

func TestHoverDescribesToken(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), io.Discard)
	server.docs[testURI] = "int x;\nwhile (x >= 10) {}\n"
	params := `{"textDocument":{"uri":"` + testURI + `"},"position":{"line":1,"character":10}}`

	messages := server.dispatch(lspRequest{JSONRPC: "2.0", ID: rawID("1"), Method: "textDocument/hover", Params: json.RawMessage(params)})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}
	hover, ok := messages[0].Result.(lspHover)
	if !ok {
		t.Fatalf("unexpected hover result: %#v", messages[0].Result)
	}
	td.Cmp(t, hover.Contents.Kind, "markdown")
	td.Cmp(t, hover.Contents.Value, "`GE`\n\nminic '>=' ('>=') at 2:10")
	td.Cmp(t, hover.Range, lspRange{
		Start: lspPosition{Line: 1, Character: 9},
		End:   lspPosition{Line: 1, Character: 11},
	})
}

func TestHoverOnWhitespaceReturnsNil(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), io.Discard)
	server.docs[testURI] = "a  b"
	params := `{"textDocument":{"uri":"` + testURI + `"},"position":{"line":0,"character":2}}`

	messages := server.dispatch(lspRequest{JSONRPC: "2.0", ID: rawID("2"), Method: "textDocument/hover", Params: json.RawMessage(params)})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}
	td.Cmp(t, messages[0].Result, lspNull)
}

func TestNullResultsAreWrittenExplicitly(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), io.Discard)
	messages := server.dispatch(lspRequest{JSONRPC: "2.0", ID: rawID("7"), Method: "shutdown"})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}

	var out bytes.Buffer
	if err := writeFrame(bufio.NewWriter(&out), messages[0]); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	body, err := readFrame(bufio.NewReader(&out))
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	td.Cmp(t, string(body), `{"jsonrpc":"2.0","id":7,"result":null}`)

	if got := server.dispatch(lspRequest{JSONRPC: "2.0", Method: "shutdown"}); len(got) != 0 {
		t.Fatalf("shutdown notification should not be answered, got %#v", got)
	}
}

func TestDispatchErrors(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), io.Discard)

	messages := server.dispatch(lspRequest{JSONRPC: "2.0", ID: rawID("3"), Method: "workspace/symbol"})
	if len(messages) != 1 || messages[0].Error == nil {
		t.Fatalf("expected method not found error, got %#v", messages)
	}
	td.Cmp(t, messages[0].Error.Code, lspMethodNotFound)

	messages = server.dispatch(lspRequest{JSONRPC: "2.0", Method: "workspace/didChangeConfiguration"})
	td.CmpEmpty(t, messages)

	messages = server.dispatch(lspRequest{JSONRPC: "2.0", ID: rawID("4"), Method: "textDocument/hover", Params: json.RawMessage(`[]`)})
	if len(messages) != 1 || messages[0].Error == nil {
		t.Fatalf("expected invalid params error, got %#v", messages)
	}
	td.Cmp(t, messages[0].Error.Code, lspInvalidParams)
}

func TestTokenAtPositionUsesUTF16CharacterOffsets(t *testing.T) {
	tok, ok := tokenAtPosition("\"😀😀\" x\n", lspPosition{Line: 0, Character: 7})
	if !ok {
		t.Fatalf("expected token at position")
	}
	td.Cmp(t, tok.Lexeme, "x")

	if _, ok := tokenAtPosition("x\n", lspPosition{Line: 4, Character: 0}); ok {
		t.Fatalf("expected no token past the last line")
	}
}

func TestLSPPositionOf(t *testing.T) {
	source := "ab\n\"😀\"c"
	td.Cmp(t, lspPositionOf(source, 0), lspPosition{})
	td.Cmp(t, lspPositionOf(source, 3), lspPosition{Line: 1})
	td.Cmp(t, lspPositionOf(source, len(source)-1), lspPosition{Line: 1, Character: 4})
	td.Cmp(t, lspPositionOf(source, 100), lspPosition{Line: 1, Character: 5})
}

func TestReadFrame(t *testing.T) {
	var in bytes.Buffer
	frame(&in, `{"a":1}`)
	in.WriteString("Content-Type: x\r\n\r\n")

	r := bufio.NewReader(&in)
	body, err := readFrame(r)
	if err != nil {
		t.Fatalf("read first frame: %v", err)
	}
	td.Cmp(t, string(body), `{"a":1}`)

	_, err = readFrame(r)
	if !errors.Is(err, errMissingContentLength) {
		t.Fatalf("expected missing Content-Length error, got %v", err)
	}

	_, err = readFrame(r)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestServeRoundTrip(t *testing.T) {
	var in bytes.Buffer
	frame(&in, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	frame(&in, `{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"`+testURI+`","text":"x = \"\\q\";"}}}`)
	frame(&in, `{"jsonrpc":"2.0","method":"exit"}`)

	var out bytes.Buffer
	if err := newLSPServer(&in, &out).serve(); err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	r := bufio.NewReader(&out)
	first, err := readFrame(r)
	if err != nil {
		t.Fatalf("read initialize response: %v", err)
	}
	td.Cmp(t, string(first), td.All(td.Contains(`"id":1`), td.Contains(`"hoverProvider":true`)))

	second, err := readFrame(r)
	if err != nil {
		t.Fatalf("read diagnostics: %v", err)
	}
	var published struct {
		Method string           `json:"method"`
		Params lspPublishParams `json:"params"`
	}
	if err := json.Unmarshal(second, &published); err != nil {
		t.Fatalf("decode diagnostics: %v", err)
	}
	td.Cmp(t, published.Method, lspPublishDiagnostics)
	td.Cmp(t, published.Params.Diagnostics, td.Len(1))
	td.Cmp(t, published.Params.Diagnostics[0].Code, "InvalidEscape")
	td.Cmp(t, published.Params.Diagnostics[0].Range.Start, lspPosition{Line: 0, Character: 6})
}

func frame(buf *bytes.Buffer, body string) {
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteString("\r\n\r\n")
	buf.WriteString(body)
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}
