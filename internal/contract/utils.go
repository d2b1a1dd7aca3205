package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Germination quality label constants.
const (
	ExcellentValue = "Excellent" // Excellent value
	GoodValue      = "Good"      // Good value
	FairValue      = "Fair"      // Fair value
	PoorValue      = "Poor"      // Poor value
)

// NotAvailable is printed for indices that are undefined for a replicate.
const NotAvailable = "N/A"

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // ExcellentColor represents a strong lot.
	GoodColor      = color.New(color.FgCyan)              // GoodColor represents an acceptable lot.
	FairColor      = color.New(color.FgYellow)            // FairColor represents caution, not bold.
	PoorColor      = color.New(color.FgRed, color.Bold)   // PoorColor represents a failing lot.
	MutedColor     = color.New(color.FgHiBlack)           // MutedColor dims N/A markers.
)

// GetPlainLabel returns a plain text quality label for a germinability percentage.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(germinability float64) string {
	switch {
	case math.IsNaN(germinability):
		return NotAvailable
	case germinability >= 90:
		return ExcellentValue
	case germinability >= 75:
		return GoodValue
	case germinability >= 50:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored quality label for console output (table).
func GetColorLabel(germinability float64) string {
	text := GetPlainLabel(germinability)

	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	case PoorValue:
		return PoorColor.Sprint(text)
	default:
		return MutedColor.Sprint(text)
	}
}

// FormatValue renders v with the given precision, or N/A when v is undefined.
func FormatValue(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// FormatColorValue is FormatValue with a dimmed N/A marker when colors are enabled.
func FormatColorValue(v float64, precision int, useColors bool) string {
	s := FormatValue(v, precision)
	if useColors && s == NotAvailable {
		return MutedColor.Sprint(s)
	}
	return s
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

// LogInfo logs an informational message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// LogAnalysisHeader prints a concise, 2-line header before an analysis.
func LogAnalysisHeader(cfg *Config, treatments, replicates int) {
	source := filepath.Base(cfg.InputPath)
	if cfg.InputPath == StdinPath || source == "" || source == "." {
		source = "stdin"
	}

	if cfg.UseEmojis {
		LogInfo("🌱 Input: %s (%d treatments, %d replicates)", source, treatments, replicates)
		LogInfo("📐 T50 basis: %s, correlation: %s, workers: %d", cfg.T50Basis, cfg.CorrelationScope, cfg.Workers)
		return
	}
	LogInfo("Input: %s (%d treatments, %d replicates)", source, treatments, replicates)
	LogInfo("T50 basis: %s, correlation: %s, workers: %d", cfg.T50Basis, cfg.CorrelationScope, cfg.Workers)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".germtrack_history.db"
	}
	return filepath.Join(homeDir, ".germtrack_history.db")
}

// TruncateName truncates a treatment or replicate name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave space for the ellipsis and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
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
