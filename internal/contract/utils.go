package contract

import (
	"fmt"
	"os"

	"github.com/arosling/casewatch/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	controlColor = color.New(color.FgRed, color.Bold)     // control breaches are standard danger
	redColor     = color.New(color.FgRed, color.Bold)     // red threshold tier
	amberColor   = color.New(color.FgYellow)              // amber threshold tier, standard caution
	warningColor = color.New(color.FgMagenta, color.Bold) // warning limit, strong distinct signal
	withinColor  = color.New(color.FgCyan)                // informational / low-priority signal
	mutedColor   = color.New(color.FgWhite, color.Faint)  // no-baseline / no-threshold rows
)

// ColorLabel returns a colored breach label for console output (table).
func ColorLabel(label schema.Label) string {
	switch label {
	case schema.ControlBreachLabel:
		return controlColor.Sprint(string(label))
	case schema.WarningBreachLabel:
		return warningColor.Sprint(string(label))
	case schema.NoBaselineLabel:
		return mutedColor.Sprint(string(label))
	default:
		return withinColor.Sprint(string(label))
	}
}

// ColorSeverity returns a colored threshold severity for console output (table).
func ColorSeverity(severity schema.Severity) string {
	switch severity {
	case schema.RedSeverity, schema.BreachSeverity:
		return redColor.Sprint(string(severity))
	case schema.AmberSeverity:
		return amberColor.Sprint(string(severity))
	case schema.NoThresholdSeverity:
		return mutedColor.Sprint(string(severity))
	default:
		return withinColor.Sprint(string(severity))
	}
}

// TruncateEntity shortens an entity display string to maxLen, keeping the
// tail which carries the organism (the part analysts scan for).
func TruncateEntity(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-(maxLen-3):]
}

// SelectOutputFile returns a file handle for output: the named file when
// set, otherwise stdout.
func SelectOutputFile(outputFile string) (*os.File, error) {
	if outputFile == "" {
		return os.Stdout, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, fmt.Errorf("cannot create output file %q: %w", outputFile, err)
	}
	return f, nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning.
func LogWarn(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
	}
}
