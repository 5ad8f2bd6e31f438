// Package report renders decode results as text or JSON.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/raven-betanet/elf-decoder/internal/inspect"
)

// Format names an output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Reporter writes a batch report to w
type Reporter interface {
	Render(w io.Writer, batch *inspect.BatchReport) error
}

// ParseFormat parses "text" or "json", case-insensitively
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported output format: %s (valid: text, json)", s)
}

// New returns the reporter for format. Color only affects text output.
func New(format Format, color bool) (Reporter, error) {
	switch format {
	case FormatText:
		return &TextReporter{Color: color}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	}
	return nil, fmt.Errorf("unsupported output format: %s", format)
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%X", v)
}
