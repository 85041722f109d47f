package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Brand colors
var (
	// Vermilion: #E34234
	vermilion = lipgloss.Color("#E34234")
	// Success green
	successGreen = lipgloss.Color("#00C853")
	// Warning yellow
	warningYellow = lipgloss.Color("#FFC107")
	// Muted gray
	mutedGray = lipgloss.Color("#9E9E9E")
)

// Style definitions
var (
	// Section header style
	sectionStyle = lipgloss.NewStyle().
			Foreground(vermilion).
			Bold(true)

	// Success style
	successStyle = lipgloss.NewStyle().
			Foreground(successGreen).
			Bold(true)

	// Warning style
	warningStyle = lipgloss.NewStyle().
			Foreground(warningYellow).
			Bold(true)

	// Muted text style
	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	// Input prompt style
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F08A5D"))

	// Label column in key/value listings
	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Width(18)
)

// printLogo prints the styled CFL logo with version
func printLogo(w io.Writer, ver string) {
	// Gradient blocks █▓▒░
	gradient := lipgloss.NewStyle().Foreground(vermilion).Render("█▓▒░")
	title := lipgloss.NewStyle().Foreground(vermilion).Bold(true).Render("cfl")
	versionText := lipgloss.NewStyle().Foreground(mutedGray).Render(ver)

	fmt.Fprintf(w, "%s %s %s\n", gradient, title, versionText)
	fmt.Fprintln(w, mutedStyle.Render("Company Fuzzy Lookup"))
	fmt.Fprintln(w)
}

// printSection prints a styled section header
func printSection(w io.Writer, text string) {
	fmt.Fprintln(w, sectionStyle.Render(text))
}

// printField prints one aligned key/value line
func printField(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "  %s %v\n", labelStyle.Render(label), value)
}

// printSuccess prints a success message
func printSuccess(w io.Writer, text string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+text))
}

// printWarning prints a warning message
func printWarning(w io.Writer, text string) {
	fmt.Fprintln(w, warningStyle.Render("⚠️  "+text))
}

// printMuted prints muted text
func printMuted(w io.Writer, text string) {
	fmt.Fprintln(w, mutedStyle.Render(text))
}

// printPrompt prints an input prompt on same line
func printPrompt(w io.Writer, text string) {
	fmt.Fprint(w, promptStyle.Render(text))
}
