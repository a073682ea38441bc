package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Color scheme for sdklaunch
var (
	// Primary actions
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	// Secondary actions
	Highlight = color.New(color.FgHiCyan, color.Bold)
	Muted     = color.New(color.Faint)
	Bold      = color.New(color.Bold)

	// Strategy colors
	StrategyCache        = color.New(color.FgHiBlack)
	StrategyEnv          = color.New(color.FgGreen)
	StrategyPath         = color.New(color.FgBlue)
	StrategyRegistry     = color.New(color.FgMagenta)
	StrategyProgramFiles = color.New(color.FgYellow)
)

// Status marks. Built lazily so they follow the current color setting.
func CheckMark() string { return color.GreenString("✓") }
func CrossMark() string { return color.RedString("✗") }
func Arrow() string     { return color.CyanString("→") }

// InitColors initializes color settings from the configured mode
// ("auto", "always" or "never") and the environment
func InitColors(mode string) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		EnableColors()
		return
	case "never":
		DisableColors()
		return
	}

	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		DisableColors()
	}

	// Respect TERM environment variable
	if os.Getenv("TERM") == "dumb" {
		DisableColors()
	}
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	Success.Fprintf(w, "%s %s\n", CheckMark(), fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(w io.Writer, format string, args ...interface{}) {
	Error.Fprintf(w, "%s Error: %s\n", CrossMark(), fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, format string, args ...interface{}) {
	Warning.Fprintf(w, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, format string, args ...interface{}) {
	Info.Fprintf(w, "%s %s\n", Arrow(), fmt.Sprintf(format, args...))
}

// PrintKeyValue prints a key-value pair with color
func PrintKeyValue(w io.Writer, key, value string) {
	Bold.Fprintf(w, "%s: ", key)
	fmt.Fprintln(w, value)
}

// PrintHeader prints a section header
func PrintHeader(w io.Writer, text string) {
	fmt.Fprintln(w)
	Bold.Fprintln(w, text)
	Muted.Fprintln(w, "────────────────────────────────────────")
}

// ColorizeStrategy returns a colored strategy name
func ColorizeStrategy(strategy string) string {
	switch strategy {
	case "cache":
		return StrategyCache.Sprint(strategy)
	case "env":
		return StrategyEnv.Sprint(strategy)
	case "path":
		return StrategyPath.Sprint(strategy)
	case "registry":
		return StrategyRegistry.Sprint(strategy)
	case "programfiles":
		return StrategyProgramFiles.Sprint(strategy)
	default:
		return strategy
	}
}

// SprintStatus returns a check or cross mark followed by text
func SprintStatus(ok bool, text string) string {
	if ok {
		return fmt.Sprintf("%s %s", CheckMark(), text)
	}
	return fmt.Sprintf("%s %s", CrossMark(), text)
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}

// AreColorsEnabled returns whether colors are currently enabled
func AreColorsEnabled() bool {
	return !color.NoColor
}
