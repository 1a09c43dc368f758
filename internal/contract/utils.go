package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Risk label constants.
const (
	CleanValue   = "Clean"
	WatchValue   = "Watch"
	HotfixValue  = "Hotfix"
	MissingValue = "Missing"
)

// Color variables for console output.
var (
	CleanColor   = color.New(color.FgGreen)               // a healthy release
	WatchColor   = color.New(color.FgYellow)              // standard caution, not bold
	HotfixColor  = color.New(color.FgMagenta, color.Bold) // strong, distinct warning
	MissingColor = color.New(color.FgRed, color.Bold)     // unresolved follow-up work
)

// ColorizeLabel applies the matching color to a plain label when colors
// are enabled. Unknown labels pass through unchanged.
func ColorizeLabel(text string, useColors bool) string {
	if !useColors {
		return text
	}
	switch text {
	case CleanValue:
		return CleanColor.Sprint(text)
	case WatchValue:
		return WatchColor.Sprint(text)
	case HotfixValue:
		return HotfixColor.Sprint(text)
	case MissingValue:
		return MissingColor.Sprint(text)
	default:
		return text
	}
}

// TruncateTitle shortens a PR title for table display, appending an
// ellipsis when anything was cut.
func TruncateTitle(title string, maxLen int) string {
	if maxLen <= 3 || len(title) <= maxLen {
		return title
	}
	return title[:maxLen-3] + "..."
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
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

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".releaseflow_cache.db"
	}
	return filepath.Join(homeDir, ".releaseflow_cache.db")
}
