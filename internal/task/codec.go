package task

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"
)

// Encode serializes the collection in order as a JSON array of task records.
// An empty collection encodes as "[]".
func Encode(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses a persisted collection. Comments and trailing commas are
// tolerated so a hand-edited slot still loads. Blank input is an empty
// collection. Records without an id get a fresh one and duplicate ids are
// dropped (first occurrence wins), keeping ids unique.
func Decode(raw string) ([]Task, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var tasks []Task
	if err := json.Unmarshal(jsonc.ToJSON([]byte(raw)), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	seen := make(map[string]struct{}, len(tasks))
	out := tasks[:0]
	for _, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			t.ID = NewID()
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
