package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red    = "#FF6188" // Errors
	Orange = "#FC9867" // Warnings
	Yellow = "#FFD866" // Highlights
	Green  = "#A9DC76" // Success
	Cyan   = "#78DCE8" // Info
	Purple = "#AB9DF2" // Deck names

	Comment = "#727072" // Dim text
	Border  = "#5B595C"
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	InfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Red))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	DeckStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Purple)).Bold(true)

	// Card preview box
	CardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(0, 1)
)
