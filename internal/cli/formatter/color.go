// Package formatter renders CLI output: stage badges, gate flags and
// aligned tables, styled with lipgloss.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/jalon/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColors swaps every style for an unstyled one. Called when stdout
// is not a terminal.
func DisableColors() {
	plain := lipgloss.NewStyle()
	StyleGreen = plain
	StyleYellow = plain
	StyleRed = plain
	StyleBlue = plain
	StylePurple = plain
	StyleDim = plain
	StyleFg = plain
	StyleHeader = plain
	StyleBold = plain
}

// StageBadge returns a colored badge for a project stage.
func StageBadge(stage domain.Stage) string {
	switch stage {
	case domain.StagePreparation:
		return StyleBlue.Render("● PRÉPARATION")
	case domain.StageQuoteCreated:
		return StyleYellow.Render("● DEVIS CRÉÉ")
	case domain.StageQuoteValidated:
		return StylePurple.Render("● DEVIS VALIDÉ")
	case domain.StageActive:
		return StyleGreen.Render("● ACTIF")
	default:
		return StyleDim.Render("● " + strings.ToUpper(string(stage)))
	}
}

// QuoteBadge returns a colored badge for a quote state.
func QuoteBadge(state domain.QuoteState) string {
	switch state {
	case domain.QuoteDraft:
		return StyleYellow.Render("brouillon")
	case domain.QuoteConfirmed:
		return StyleGreen.Render("confirmé")
	case domain.QuoteCancelled:
		return StyleRed.Render("annulé")
	default:
		return StyleDim.Render(string(state))
	}
}

// GateMark renders a readiness checkmark for stage-action preconditions.
func GateMark(ok bool) string {
	if ok {
		return StyleGreen.Render("✓")
	}
	return StyleRed.Render("✗")
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
