package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is one decoded line of docket's JSON log.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	Attrs     []Attr
	Raw       string
}

// Attr is a key/value pair attached to an entry, rendered as text.
type Attr struct {
	Key   string
	Value string
}

// Parse decodes a line written by slog's JSON handler. Lines that are not
// JSON objects come back with only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	trimmed := strings.TrimSpace(line)

	var fields map[string]any
	if !strings.HasPrefix(trimmed, "{") || json.Unmarshal([]byte(trimmed), &fields) != nil {
		entry.Message = line
		return entry
	}

	for key, value := range fields {
		switch key {
		case "time":
			if s, ok := value.(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					entry.Time = ts
				}
			}
		case "level":
			entry.Level = strings.ToUpper(fmt.Sprint(value))
		case "msg":
			entry.Message = fmt.Sprint(value)
		case "component":
			entry.Component = fmt.Sprint(value)
		default:
			entry.Attrs = append(entry.Attrs, Attr{Key: key, Value: stringify(value)})
		}
	}
	sort.Slice(entry.Attrs, func(i, j int) bool {
		return entry.Attrs[i].Key < entry.Attrs[j].Key
	})
	return entry
}

// ParseAll decodes every line.
func ParseAll(lines []string) []Entry {
	if len(lines) == 0 {
		return nil
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, Parse(line))
	}
	return entries
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64, bool, nil:
		return fmt.Sprint(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
