package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Scoring label constants.
const (
	StrongValue    = "Strong"    // Strong market
	PromisingValue = "Promising" // Promising market
	ModerateValue  = "Moderate"  // Moderate market
	WeakValue      = "Weak"      // Weak market
)

// Color variables for console output.
var (
	StrongColor    = color.New(color.FgGreen, color.Bold) // strong opportunity
	PromisingColor = color.New(color.FgCyan, color.Bold)  // promising, worth a closer look
	ModerateColor  = color.New(color.FgYellow)            // standard caution, not bold
	WeakColor      = color.New(color.FgRed)               // weak signal or poor fit
)

// GetPlainLabel returns a plain text label for a 0-100 score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return StrongValue
	case score >= 60:
		return PromisingValue
	case score >= 40:
		return ModerateValue
	default:
		return WeakValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case PromisingValue:
		return PromisingColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Weak"
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for fetch caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".marketscope_cache.db"
	}
	return filepath.Join(homeDir, ".marketscope_cache.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for run history.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".marketscope_runs.db"
	}
	return filepath.Join(homeDir, ".marketscope_runs.db")
}

// Truncate shortens s to maxWidth runes with an ellipsis suffix.
// maxWidth must leave room for the ellipsis and at least one character.
func Truncate(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
