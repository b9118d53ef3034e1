package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mgomes/minic/minic"
)

const (
	lspMethodNotFound = -32601
	lspInvalidParams  = -32602

	lspSeverityError      = 1
	lspCompletionKeyword  = 14
	lspSyncFull           = 1
	lspDiagnosticSource   = "minic-lsp"
	lspPublishDiagnostics = "textDocument/publishDiagnostics"
)

type lspRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type lspRange struct {
	Start lspPosition `json:"start"`
	End   lspPosition `json:"end"`
}

type lspDiagnostic struct {
	Range    lspRange `json:"range"`
	Severity int      `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

type lspPublishParams struct {
	URI         string          `json:"uri"`
	Diagnostics []lspDiagnostic `json:"diagnostics"`
}

type lspCompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail"`
}

type lspMarkup struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type lspHover struct {
	Contents lspMarkup `json:"contents"`
	Range    lspRange  `json:"range"`
}

type lspDocumentParams struct {
	TextDocument struct {
		URI     string `json:"uri"`
		Text    string `json:"text"`
		Version int    `json:"version"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
	Position lspPosition `json:"position"`
}

type lspHandler func(*lspServer, lspRequest, lspDocumentParams) []lspMessage

var lspHandlers = map[string]lspHandler{
	"initialize":              (*lspServer).initialize,
	"shutdown":                (*lspServer).shutdown,
	"textDocument/didOpen":    (*lspServer).didOpen,
	"textDocument/didChange":  (*lspServer).didChange,
	"textDocument/didClose":   (*lspServer).didClose,
	"textDocument/completion": (*lspServer).completion,
	"textDocument/hover":      (*lspServer).hover,
}

// lspServer is a stdio language server that reports scan errors as
// diagnostics. Documents are rescanned in full on every change.
type lspServer struct {
	in   *bufio.Reader
	out  *bufio.Writer
	docs map[string]string
}

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	return &lspServer{
		in:   bufio.NewReader(r),
		out:  bufio.NewWriter(w),
		docs: make(map[string]string),
	}
}

func runLSP() error {
	return newLSPServer(os.Stdin, os.Stdout).serve()
}

func (s *lspServer) serve() error {
	for {
		body, err := readFrame(s.in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var req lspRequest
		if err := json.Unmarshal(body, &req); err != nil {
			continue
		}
		for _, msg := range s.dispatch(req) {
			if err := writeFrame(s.out, msg); err != nil {
				return err
			}
		}
		if req.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) dispatch(req lspRequest) []lspMessage {
	handler, ok := lspHandlers[req.Method]
	if !ok {
		if req.ID == nil {
			// Unknown notifications are dropped.
			return nil
		}
		return []lspMessage{errorReply(req, lspMethodNotFound, "method not found")}
	}

	var params lspDocumentParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			if req.ID == nil {
				return nil
			}
			return []lspMessage{errorReply(req, lspInvalidParams, "invalid params: "+err.Error())}
		}
	}
	return handler(s, req, params)
}

func (s *lspServer) initialize(req lspRequest, _ lspDocumentParams) []lspMessage {
	return []lspMessage{reply(req, map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync":   lspSyncFull,
			"hoverProvider":      true,
			"completionProvider": map[string]any{"resolveProvider": false},
		},
		"serverInfo": map[string]any{"name": lspDiagnosticSource},
	})}
}

func (s *lspServer) shutdown(req lspRequest, _ lspDocumentParams) []lspMessage {
	if req.ID == nil {
		return nil
	}
	return []lspMessage{reply(req, nil)}
}

func (s *lspServer) didOpen(_ lspRequest, params lspDocumentParams) []lspMessage {
	uri := params.TextDocument.URI
	s.docs[uri] = params.TextDocument.Text
	return []lspMessage{publish(uri, diagnosticsForSource(s.docs[uri]))}
}

func (s *lspServer) didChange(_ lspRequest, params lspDocumentParams) []lspMessage {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	uri := params.TextDocument.URI
	s.docs[uri] = params.ContentChanges[len(params.ContentChanges)-1].Text
	return []lspMessage{publish(uri, diagnosticsForSource(s.docs[uri]))}
}

func (s *lspServer) didClose(_ lspRequest, params lspDocumentParams) []lspMessage {
	uri := params.TextDocument.URI
	delete(s.docs, uri)
	return []lspMessage{publish(uri, nil)}
}

func (s *lspServer) completion(req lspRequest, _ lspDocumentParams) []lspMessage {
	if req.ID == nil {
		return nil
	}
	return []lspMessage{reply(req, map[string]any{
		"isIncomplete": false,
		"items":        completionItems(),
	})}
}

func (s *lspServer) hover(req lspRequest, params lspDocumentParams) []lspMessage {
	if req.ID == nil {
		return nil
	}
	source := s.docs[params.TextDocument.URI]
	tok, ok := tokenAtPosition(source, params.Position)
	if !ok {
		return []lspMessage{reply(req, nil)}
	}
	return []lspMessage{reply(req, lspHover{
		Contents: lspMarkup{Kind: "markdown", Value: hoverText(tok)},
		Range: lspRange{
			Start: lspPositionOf(source, tok.Pos.Offset),
			End:   lspPositionOf(source, tok.End()),
		},
	})}
}

// lspNull stands in for a nil result, which omitempty would drop from a
// success reply.
var lspNull = json.RawMessage("null")

func reply(req lspRequest, result any) lspMessage {
	if result == nil {
		result = lspNull
	}
	return lspMessage{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func errorReply(req lspRequest, code int, message string) lspMessage {
	return lspMessage{JSONRPC: "2.0", ID: req.ID, Error: &lspResponseError{Code: code, Message: message}}
}

func publish(uri string, diags []lspDiagnostic) lspMessage {
	if diags == nil {
		diags = []lspDiagnostic{}
	}
	return lspMessage{
		JSONRPC: "2.0",
		Method:  lspPublishDiagnostics,
		Params:  lspPublishParams{URI: uri, Diagnostics: diags},
	}
}

// diagnosticsForSource scans source and converts the first scan error,
// if any, into a one-character diagnostic.
func diagnosticsForSource(source string) []lspDiagnostic {
	_, err := minic.Scan(source)
	if err == nil {
		return []lspDiagnostic{}
	}

	var scanErr *minic.ScanError
	if !errors.As(err, &scanErr) {
		return []lspDiagnostic{{Severity: lspSeverityError, Source: lspDiagnosticSource, Message: err.Error()}}
	}
	start := lspPositionOf(source, scanErr.Pos.Offset)
	end := start
	end.Character++
	return []lspDiagnostic{{
		Range:    lspRange{Start: start, End: end},
		Severity: lspSeverityError,
		Code:     string(scanErr.Code),
		Source:   lspDiagnosticSource,
		Message:  scanErr.Msg,
	}}
}

func completionItems() []lspCompletionItem {
	words := minic.Keywords()
	items := make([]lspCompletionItem, 0, len(words))
	for _, word := range words {
		items = append(items, lspCompletionItem{Label: word, Kind: lspCompletionKeyword, Detail: "keyword"})
	}
	return items
}

func hoverText(tok minic.Token) string {
	return fmt.Sprintf("`%s`\n\nminic %s (%s) at %d:%d",
		tok.Type, minic.Label(tok.Type), minic.QuoteLexeme(tok.Lexeme), tok.Pos.Line, tok.Pos.Column)
}

func tokenAtPosition(source string, pos lspPosition) (minic.Token, bool) {
	offset, ok := offsetOf(source, pos)
	if !ok {
		return minic.Token{}, false
	}
	tokens, err := minic.Scan(source)
	if err != nil {
		return minic.Token{}, false
	}
	for _, tok := range tokens {
		if tok.Type != minic.TokenEOF && offset >= tok.Pos.Offset && offset < tok.End() {
			return tok, true
		}
	}
	return minic.Token{}, false
}

// offsetOf maps an LSP position, whose character is counted in UTF-16
// code units, to a byte offset.
func offsetOf(source string, pos lspPosition) (int, bool) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, false
	}
	start := 0
	for line := 0; line < pos.Line; line++ {
		idx := strings.IndexByte(source[start:], '\n')
		if idx < 0 {
			return 0, false
		}
		start += idx + 1
	}

	offset, units := start, 0
	for offset < len(source) && source[offset] != '\n' && units < pos.Character {
		r, w := utf8.DecodeRuneInString(source[offset:])
		units += utf16Len(r)
		offset += w
	}
	return offset, true
}

func lspPositionOf(source string, offset int) lspPosition {
	offset = min(max(offset, 0), len(source))
	prefix := source[:offset]
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	pos := lspPosition{Line: strings.Count(prefix, "\n")}
	for _, r := range prefix[lineStart:] {
		pos.Character += utf16Len(r)
	}
	return pos
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
