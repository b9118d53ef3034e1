package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/minic/minic"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	keywordStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	literalStyle = lipgloss.NewStyle().
			Foreground(successColor)

	operatorStyle = lipgloss.NewStyle().
			Foreground(highlightColor)
)

func tokenStyle(tt minic.TokenType) lipgloss.Style {
	switch tt {
	case minic.TokenKeyword:
		return keywordStyle
	case minic.TokenInt, minic.TokenFloat, minic.TokenString:
		return literalStyle
	case minic.TokenIdent:
		return lipgloss.NewStyle()
	case minic.TokenEOF:
		return mutedStyle
	default:
		return operatorStyle
	}
}

// renderTokenLine is the styled variant of minic.FormatToken.
func renderTokenLine(tok minic.Token) string {
	style := tokenStyle(tok.Type)
	return fmt.Sprintf("%s %s %s",
		style.Render(fmt.Sprintf("%-10s", tok.Type)),
		style.Render(minic.QuoteLexeme(tok.Lexeme)),
		mutedStyle.Render(fmt.Sprintf("@ %d:%d", tok.Pos.Line, tok.Pos.Column)),
	)
}
