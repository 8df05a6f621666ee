package theme

import "github.com/charmbracelet/lipgloss"

// Palette, 256-color codes.
var (
	ColorPrimary   = lipgloss.Color("63")
	ColorSuccess   = lipgloss.Color("42")
	ColorError     = lipgloss.Color("196")
	ColorBorder    = lipgloss.Color("238")
	ColorMuted     = lipgloss.Color("245")
	ColorHighlight = lipgloss.Color("229")
	colorBarBg     = lipgloss.Color("236")
	colorBarFg     = lipgloss.Color("252")
)

// Pane frames.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleActiveBorder = StyleBorder.
				BorderForeground(ColorPrimary)
)

// Text styles shared by the panes and the plain CLI table.
var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	// StyleHeader marks result column headers.
	StyleHeader = StyleTitle.UnsetPadding()

	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)

	// StyleSelected marks the explorer node under the cursor.
	StyleSelected = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	// StyleCursor marks the result cell under the cursor.
	StyleCursor = lipgloss.NewStyle().Reverse(true)
)

// Status bar.
var (
	StyleStatusBar = lipgloss.NewStyle().
			Background(colorBarBg).
			Foreground(colorBarFg).
			Padding(0, 1)

	// StyleKey renders a key binding inside the status bar hints.
	StyleKey = lipgloss.NewStyle().
			Background(colorBarBg).
			Foreground(ColorHighlight).
			Bold(true)
)
