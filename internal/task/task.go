package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority ranks a task. The zero value is not a valid priority; tasks
// loaded with an empty or unknown priority keep it and sort last.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned to newly added tasks.
const DefaultPriority = PriorityMedium

// Rank returns the sort rank for the priority (lower sorts first).
// Unknown priorities rank after every known one.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() < 3
}

// Next returns the following priority in the low → medium → high cycle.
// Unknown priorities restart at low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Label returns a capitalized display label ("High"), or "" for unknown values.
func (p Priority) Label() string {
	if !p.Valid() {
		return ""
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Task is a single user-entered item.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	Priority  Priority  `json:"priority"`
}

// New builds an incomplete, medium-priority task with a fresh id. The text
// is stored as given; callers trim and validate.
func New(text string, now time.Time) Task {
	return Task{
		ID:        NewID(),
		Text:      text,
		CreatedAt: now,
		Priority:  DefaultPriority,
	}
}

// NewID returns a fresh opaque task identifier.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a copy of the slice. A nil or empty input yields nil.
func Clone(tasks []Task) []Task {
	if len(tasks) == 0 {
		return nil
	}
	dup := make([]Task, len(tasks))
	copy(dup, tasks)
	return dup
}

// IndexOf returns the position of the task with id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
