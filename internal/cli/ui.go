package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// UI styles
var (
	bannerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	taglineStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Italic(true).
		MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))
)

// DisplayWelcomeBanner shows the welcome banner before interactive
// prompts start.
func DisplayWelcomeBanner() {
	banner := `
███████╗████████╗ ██████╗  ██████╗██╗  ██╗███████╗███████╗████████╗ ██████╗██╗  ██╗
██╔════╝╚══██╔══╝██╔═══██╗██╔════╝██║ ██╔╝██╔════╝██╔════╝╚══██╔══╝██╔════╝██║  ██║
███████╗   ██║   ██║   ██║██║     █████╔╝ █████╗  █████╗     ██║   ██║     ███████║
╚════██║   ██║   ██║   ██║██║     ██╔═██╗ ██╔══╝  ██╔══╝     ██║   ██║     ██╔══██║
███████║   ██║   ╚██████╔╝╚██████╗██║  ██╗██║     ███████╗   ██║   ╚██████╗██║  ██║
╚══════╝   ╚═╝    ╚═════╝  ╚═════╝╚═╝  ╚═╝╚═╝     ╚══════╝   ╚═╝    ╚═════╝╚═╝  ╚═╝
`

	fmt.Print(bannerStyle.Render(banner))
	fmt.Println()
	fmt.Println(taglineStyle.Render("Fetch historical and real-time stock data from your terminal"))
}
