package types

import (
	"fmt"
	"go/token"
	"strings"
)

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule       string
	Category   string
	Filename   string
	Message    string
	Suggestion string
	Note       string
	Start      token.Position
	End        token.Position
	Severity   Severity
	Confidence float64 // 0.0 to 1.0
	// Edits rewrite the source so that the issue disappears.
	Edits []TextEdit `json:",omitempty"`
}

// TextEdit replaces the bytes in [Start, End) with NewText.
type TextEdit struct {
	Start   int
	End     int
	NewText string
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity accepts the names used in configuration files.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return SeverityError, nil
	case "WARNING":
		return SeverityWarning, nil
	case "INFO":
		return SeverityInfo, nil
	case "OFF":
		return SeverityOff, nil
	}
	return SeverityError, fmt.Errorf("invalid severity: %q", s)
}

// MarshalText lets yaml, toml and json encode severities by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ConfigRule represents a rule configuration.
type ConfigRule struct {
	Severity Severity `yaml:"severity" toml:"severity"`
}
