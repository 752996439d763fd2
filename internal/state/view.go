package state

import (
	"slices"
	"sort"
	"strings"

	"github.com/five82/docket/internal/task"
)

// Filter selects tasks by completion.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

var filterOrder = []Filter{FilterAll, FilterActive, FilterCompleted}

// Next returns the following filter in the all → active → completed cycle.
func (f Filter) Next() Filter {
	return nextIn(filterOrder, f)
}

func (f Filter) match(t task.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// SortMode orders the visible list.
type SortMode string

const (
	// SortCreated shows the newest task first.
	SortCreated SortMode = "created"
	// SortPriority shows high, medium, low, then unknown priorities.
	SortPriority SortMode = "priority"
	// SortManual shows the canonical order, so reorders are visible.
	SortManual SortMode = "manual"
)

var sortOrder = []SortMode{SortCreated, SortPriority, SortManual}

// Next returns the following sort mode in the cycle.
func (m SortMode) Next() SortMode {
	return nextIn(sortOrder, m)
}

func nextIn[T comparable](order []T, current T) T {
	i := slices.Index(order, current)
	return order[(i+1)%len(order)]
}

// View holds the derived-view parameters applied by Project.
type View struct {
	Filter Filter
	Search string
	SortBy SortMode
}

// Project returns the visible list for tasks under v: filter, then
// case-insensitive substring search, then a stable sort. A blank search
// matches everything; otherwise the search text is matched as typed,
// surrounding spaces included. The input is not modified and the result
// never aliases it.
func Project(tasks []task.Task, v View) []task.Task {
	var needle string
	if strings.TrimSpace(v.Search) != "" {
		needle = strings.ToLower(v.Search)
	}

	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !v.Filter.match(t) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Text), needle) {
			continue
		}
		out = append(out, t)
	}

	switch v.SortBy {
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortManual:
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// Splice maps a move inside the visible list back onto the canonical order.
// visibleIDs is the visible list in display order; the entry at from moves
// to index to. The result holds the reordered visible tasks followed by every
// task outside the visible subset in its original relative order. Equal or
// out-of-range indexes return a copy of canonical unchanged.
func Splice(canonical []task.Task, visibleIDs []string, from, to int) []task.Task {
	n := len(visibleIDs)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return task.Clone(canonical)
	}

	order := slices.Clone(visibleIDs)
	moved := order[from]
	order = slices.Delete(order, from, from+1)
	order = slices.Insert(order, to, moved)

	byID := make(map[string]task.Task, len(canonical))
	for _, t := range canonical {
		byID[t.ID] = t
	}

	out := make([]task.Task, 0, len(canonical))
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		t, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, t)
	}
	for _, t := range canonical {
		if !seen[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
