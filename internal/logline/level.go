package logline

import "strings"

// Severity names used on the wire, lowest to highest.
const (
	LevelDebug    = "DEBUG"
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
)

// ParseLevel normalizes a severity name case-insensitively. Unknown or empty
// values map to INFO so a misconfigured minimum never silences the log.
func ParseLevel(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case LevelDebug:
		return LevelDebug
	case LevelWarning, "WARN":
		return LevelWarning
	case LevelError:
		return LevelError
	case LevelCritical, "FATAL":
		return LevelCritical
	default:
		return LevelInfo
	}
}

// LevelRank orders severities for minimum-level comparisons.
func LevelRank(level string) int {
	switch ParseLevel(level) {
	case LevelDebug:
		return 10
	case LevelWarning:
		return 30
	case LevelError:
		return 40
	case LevelCritical:
		return 50
	default:
		return 20
	}
}
