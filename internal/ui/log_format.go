package ui

import (
	"strings"
	"time"

	"github.com/five82/docket/internal/logtail"
)

type logParts struct {
	timestamp string
	level     string
	component string
	message   string
	attrs     string
}

func logEntryParts(entry logtail.Entry) logParts {
	parts := logParts{
		level:   strings.ToUpper(strings.TrimSpace(entry.Level)),
		message: strings.TrimSpace(entry.Message),
	}
	if !entry.Time.IsZero() {
		parts.timestamp = entry.Time.In(time.Local).Format("2006-01-02 15:04:05")
	}
	if component := strings.TrimSpace(entry.Component); component != "" {
		parts.component = "[" + component + "]"
	}
	attrs := make([]string, 0, len(entry.Attrs))
	for _, attr := range entry.Attrs {
		value := strings.TrimSpace(attr.Value)
		if attr.Key == "" || value == "" {
			continue
		}
		attrs = append(attrs, attr.Key+"="+value)
	}
	parts.attrs = strings.Join(attrs, " ")
	return parts
}

// formatLogEntry renders an entry as plain text:
// "2006-01-02 15:04:05 WARN [state] – tasks not saved  error=disk full"
func formatLogEntry(entry logtail.Entry) string {
	parts := logEntryParts(entry)
	if parts.level == "" && parts.timestamp == "" {
		return entry.Message
	}
	fields := make([]string, 0, 3)
	for _, f := range []string{parts.timestamp, parts.level, parts.component} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	header := strings.Join(fields, " ")
	if parts.message != "" {
		header += " – " + parts.message
	}
	if parts.attrs != "" {
		header += "  " + parts.attrs
	}
	return header
}
