package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/minic/minic"
)

type entryKind int

const (
	entryTokens entryKind = iota
	entryFailure
	entryNote
)

// transcriptEntry is one block of explorer output. Token entries keep the
// scan result and are rendered on every View, so toggling raw spans also
// affects earlier lines.
type transcriptEntry struct {
	kind   entryKind
	input  string
	tokens []minic.Token
	text   string
}

func scanEntry(input string) transcriptEntry {
	tokens, err := minic.Scan(input)
	if err == nil {
		return transcriptEntry{kind: entryTokens, input: input, tokens: tokens}
	}

	text := err.Error()
	var scanErr *minic.ScanError
	if errors.As(err, &scanErr) {
		text = fmt.Sprintf("%s at %d:%d: %s", scanErr.Code, scanErr.Pos.Line, scanErr.Pos.Column, scanErr.Msg)
	}
	return transcriptEntry{kind: entryFailure, input: input, text: text}
}

func noteEntry(input, text string) transcriptEntry {
	return transcriptEntry{kind: entryNote, input: input, text: text}
}

func (e transcriptEntry) styledLines(rawSpans bool) []string {
	var style lipgloss.Style
	marker := "✗ "
	switch e.kind {
	case entryTokens:
		out := make([]string, 0, len(e.tokens))
		for _, tok := range e.tokens {
			out = append(out, "    "+renderTokenLine(tok)+mutedStyle.Render(e.rawSuffix(tok, rawSpans)))
		}
		return out
	case entryNote:
		style, marker = resultStyle, "→ "
	default:
		style = errorStyle
	}

	lines := strings.Split(e.text, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i > 0 {
			marker = "  "
		}
		out = append(out, "  "+style.Render(marker+line))
	}
	return out
}

func (e transcriptEntry) rawSuffix(tok minic.Token, rawSpans bool) string {
	if !rawSpans {
		return ""
	}
	return fmt.Sprintf("  [%d:%d] %s", tok.Pos.Offset, tok.End(), minic.QuoteLexeme(tok.Raw(e.input)))
}

// recall walks previously scanned inputs. pos equals len(inputs) while a
// fresh line is being edited.
type recall struct {
	inputs []string
	pos    int
}

func (r *recall) add(input string) {
	r.inputs = append(r.inputs, input)
	r.pos = len(r.inputs)
}

func (r *recall) reset() {
	r.pos = len(r.inputs)
}

func (r *recall) back() (string, bool) {
	if len(r.inputs) == 0 {
		return "", false
	}
	if r.pos > 0 {
		r.pos--
	}
	return r.inputs[r.pos], true
}

func (r *recall) forward() (string, bool) {
	if r.pos >= len(r.inputs) {
		return "", false
	}
	r.pos++
	if r.pos == len(r.inputs) {
		return "", true
	}
	return r.inputs[r.pos], true
}

type explorerKeys struct {
	Prev     key.Binding
	Next     key.Binding
	Submit   key.Binding
	Quit     key.Binding
	Clear    key.Binding
	Complete key.Binding
	Raw      key.Binding
	Help     key.Binding
}

var explorerKeyMap = explorerKeys{
	Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous input")),
	Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next input")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "scan")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete keyword")),
	Raw:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "raw")),
	Help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
}

var explorerHelp = []struct {
	key  string
	desc string
}{
	{"↑/↓", "Navigate input history"},
	{"Tab", "Complete keyword"},
	{"Enter", "Scan the line"},
	{":help", "Toggle this help"},
	{":raw", "Toggle raw source spans"},
	{":kinds", "List token kinds"},
	{":keywords", "List reserved words"},
	{":clear", "Clear the transcript"},
	{":quit", "Exit"},
}

// explorerModel is the bubbletea model behind `minic repl`. Every submitted
// line is scanned on its own, so positions are relative to that line.
type explorerModel struct {
	input      textinput.Model
	transcript []transcriptEntry
	recall     recall
	width      int
	height     int
	helpOpen   bool
	rawSpans   bool
	done       bool
	ready      bool
}

func newExplorer() explorerModel {
	ti := textinput.New()
	ti.Placeholder = "type some source..."
	ti.Prompt = "minic> "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()
	return explorerModel{input: ti}
}

func (m explorerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-10, 10)
		m.ready = true
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *explorerModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	k := explorerKeyMap
	switch {
	case key.Matches(msg, k.Quit):
		m.done = true
		return tea.Quit, true
	case key.Matches(msg, k.Submit):
		return m.submit(), true
	case key.Matches(msg, k.Clear):
		m.transcript = nil
	case key.Matches(msg, k.Raw):
		m.rawSpans = !m.rawSpans
	case key.Matches(msg, k.Help):
		m.helpOpen = !m.helpOpen
	case key.Matches(msg, k.Complete):
		m.complete()
	case key.Matches(msg, k.Prev):
		if prev, ok := m.recall.back(); ok {
			m.setInput(prev)
		}
	case key.Matches(msg, k.Next):
		if next, ok := m.recall.forward(); ok {
			m.setInput(next)
		}
	default:
		return nil, false
	}
	return nil, true
}

func (m *explorerModel) setInput(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
}

// submit scans the current line, or runs it as a command when it starts
// with a colon. Leading whitespace shifts columns, so lines are kept as typed.
func (m *explorerModel) submit() tea.Cmd {
	line := m.input.Value()
	if strings.TrimSpace(line) == "" {
		return nil
	}
	m.setInput("")

	if strings.HasPrefix(line, ":") {
		m.recall.reset()
		return m.runCommand(strings.TrimSpace(line))
	}
	m.transcript = append(m.transcript, scanEntry(line))
	m.recall.add(line)
	return nil
}

func (m *explorerModel) runCommand(line string) tea.Cmd {
	name := strings.Fields(line)[0]
	switch name {
	case ":help", ":h":
		m.helpOpen = !m.helpOpen
	case ":clear", ":c":
		m.transcript = nil
	case ":raw", ":r":
		m.rawSpans = !m.rawSpans
	case ":kinds", ":k":
		kinds := minic.TokenTypes()
		names := make([]string, len(kinds))
		for i, tt := range kinds {
			names[i] = string(tt)
		}
		m.transcript = append(m.transcript, noteEntry(line, strings.Join(names, " ")))
	case ":keywords", ":kw":
		m.transcript = append(m.transcript, noteEntry(line, strings.Join(minic.Keywords(), " ")))
	case ":quit", ":q":
		m.done = true
		return tea.Quit
	default:
		m.transcript = append(m.transcript, transcriptEntry{kind: entryFailure, input: line, text: "unknown command " + name})
	}
	return nil
}

// complete extends the word ending at the cursor to a keyword. Several
// candidates are listed instead.
func (m *explorerModel) complete() {
	value := []rune(m.input.Value())
	cursor := min(max(m.input.Position(), 0), len(value))
	head, tail := string(value[:cursor]), string(value[cursor:])

	start := len(head)
	for start > 0 && isWordByte(head[start-1]) {
		start--
	}
	prefix := head[start:]
	if prefix == "" {
		return
	}

	var matches []string
	for _, word := range minic.Keywords() {
		if strings.HasPrefix(word, prefix) {
			matches = append(matches, word)
		}
	}
	switch len(matches) {
	case 0:
	case 1:
		completed := head[:start] + matches[0]
		m.input.SetValue(completed + tail)
		m.input.SetCursor(utf8.RuneCountInString(completed))
	default:
		m.transcript = append(m.transcript, noteEntry("", "completions: "+strings.Join(matches, ", ")))
	}
}

func isWordByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (m explorerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.done {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("minic scanner") + " " + mutedStyle.Render("token explorer") + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(0, min(m.width-2, 60)))) + "\n\n")

	body := m.transcriptLines()
	reserved := 8
	if m.helpOpen {
		reserved += len(explorerHelp) + 3
	}
	if room := m.height - reserved; room > 0 && len(body) > room {
		body = body[len(body)-room:]
	}
	for _, line := range body {
		b.WriteString(line + "\n")
	}

	if m.helpOpen {
		b.WriteString(renderHelpPanel(m.width) + "\n")
	}
	b.WriteString(m.input.View() + "\n\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m explorerModel) transcriptLines() []string {
	var out []string
	for _, entry := range m.transcript {
		if entry.input != "" {
			out = append(out, mutedStyle.Render("  › ")+entry.input)
		}
		out = append(out, entry.styledLines(m.rawSpans)...)
		out = append(out, "")
	}
	return out
}

func (m explorerModel) footer() string {
	k := explorerKeyMap
	parts := make([]string, 0, 4)
	for _, binding := range []key.Binding{k.Help, k.Raw, k.Clear, k.Quit} {
		help := binding.Help()
		desc := help.Desc
		if help == k.Raw.Help() {
			desc += ":" + onOff(m.rawSpans)
		}
		parts = append(parts, helpKeyStyle.Render(help.Key)+helpDescStyle.Render(" "+desc))
	}
	return strings.Join(parts, "  ")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func renderHelpPanel(width int) string {
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help")}
	for _, h := range explorerHelp {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-9s", h.key)),
			helpDescStyle.Render(h.desc)))
	}

	panel := borderStyle
	if width > 4 {
		panel = panel.MaxWidth(width)
	}
	return panel.Render(strings.Join(lines, "\n"))
}

func runREPL() error {
	_, err := tea.NewProgram(newExplorer(), tea.WithAltScreen()).Run()
	return err
}
