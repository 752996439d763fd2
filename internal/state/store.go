package state

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/five82/docket/internal/clock"
	"github.com/five82/docket/internal/kv"
	"github.com/five82/docket/internal/prefs"
	"github.com/five82/docket/internal/task"
)

// DefaultUndoWindow is how long a deleted task stays recoverable.
const DefaultUndoWindow = 6 * time.Second

// Options configures Open.
type Options struct {
	Slots      kv.Store
	Clock      clock.Clock
	Logger     *slog.Logger
	UndoWindow time.Duration
}

// Counts summarizes the whole collection, ignoring the current view.
type Counts struct {
	Total     int
	Active    int
	Completed int
}

// Snapshot is a copy of the store state taken under the lock.
type Snapshot struct {
	Tasks   []task.Task
	Visible []task.Task
	View    View
	Counts  Counts

	EditingID  string
	DraggingID string

	HasUndo       bool
	Undo          task.Task
	UndoRemaining time.Duration

	Dark bool
}

type undoSlot struct {
	task    task.Task
	timer   *clock.Timer
	expires time.Time
	gen     uint64
}

// Store owns the task collection and every piece of derived state. All
// methods are safe for concurrent use; the undo expiry fires on the clock's
// goroutine.
type Store struct {
	mu sync.Mutex

	slots      kv.Store
	clock      clock.Clock
	logger     *slog.Logger
	undoWindow time.Duration

	tasks      []task.Task
	view       View
	editingID  string
	draggingID string
	undo       *undoSlot
	undoGen    uint64
	dark       bool

	changes chan struct{}
}

// Open loads the persisted collection and theme flag and returns a ready
// store. Missing or unreadable task data yields an empty collection.
func Open(opts Options) (*Store, error) {
	if opts.Slots == nil {
		return nil, errors.New("state: slot store is nil")
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = DefaultUndoWindow
	}

	s := &Store{
		slots:      opts.Slots,
		clock:      opts.Clock,
		logger:     opts.Logger.With("component", "state"),
		undoWindow: opts.UndoWindow,
		view:       View{Filter: FilterAll, SortBy: SortCreated},
		changes:    make(chan struct{}, 1),
	}
	s.tasks = s.loadTasks()
	s.dark = prefs.Load(opts.Slots).Dark
	s.logger.Debug("store opened", "tasks", len(s.tasks), "dark", s.dark)
	return s, nil
}

func (s *Store) loadTasks() []task.Task {
	raw, ok, err := s.slots.Get(kv.SlotTasks)
	if err != nil {
		s.logger.Warn("read task slot failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	tasks, err := task.Decode(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable task data", "error", err)
		return nil
	}
	return tasks
}

// Changes delivers a signal after any state change. Signals coalesce: a
// reader that falls behind sees one pending signal, not a backlog.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// Close stops a pending undo expiry. The slot store belongs to the caller.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.undo != nil {
		s.undo.timer.Stop()
	}
}

// Snapshot returns a copy of the current state with the visible list
// already projected.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Tasks:      task.Clone(s.tasks),
		Visible:    Project(s.tasks, s.view),
		View:       s.view,
		Counts:     countTasks(s.tasks),
		EditingID:  s.editingID,
		DraggingID: s.draggingID,
		Dark:       s.dark,
	}
	if s.undo != nil {
		snap.HasUndo = true
		snap.Undo = s.undo.task
		if remaining := s.undo.expires.Sub(s.clock.Now()); remaining > 0 {
			snap.UndoRemaining = remaining
		}
	}
	return snap
}

// Tasks returns the collection in canonical order.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return task.Clone(s.tasks)
}

// Visible returns the filtered, searched and sorted projection.
func (s *Store) Visible() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Project(s.tasks, s.view)
}

// Add trims text and prepends a new task. It returns the new id, or ""
// when the trimmed text is empty.
func (s *Store) Add(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	s.mu.Lock()
	t := task.New(text, s.clock.Now())
	s.tasks = append([]task.Task{t}, s.tasks...)
	err := s.persistTasksLocked()
	s.mu.Unlock()
	s.logSaveError(err)

	s.notify()
	return t.ID
}

// Delete removes the task and holds it in the undo buffer, replacing any
// task already buffered.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	idx := task.IndexOf(s.tasks, id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.tasks[idx]
	s.tasks = append(s.tasks[:idx:idx], s.tasks[idx+1:]...)
	if s.editingID == id {
		s.editingID = ""
	}
	if s.draggingID == id {
		s.draggingID = ""
	}
	s.armUndoLocked(removed)
	err := s.persistTasksLocked()
	s.mu.Unlock()
	s.logSaveError(err)

	s.notify()
}

func (s *Store) armUndoLocked(removed task.Task) {
	if s.undo != nil {
		s.undo.timer.Stop()
	}
	s.undoGen++
	gen := s.undoGen
	s.undo = &undoSlot{
		task:    removed,
		expires: s.clock.Now().Add(s.undoWindow),
		gen:     gen,
	}
	s.undo.timer = s.clock.AfterFunc(s.undoWindow, func() { s.expireUndo(gen) })
}

func (s *Store) expireUndo(gen uint64) {
	s.mu.Lock()
	if s.undo == nil || s.undo.gen != gen {
		s.mu.Unlock()
		return
	}
	id := s.undo.task.ID
	s.undo = nil
	s.mu.Unlock()

	s.logger.Debug("undo window expired", "task_id", id)

	s.notify()
}

// UndoDelete reinserts the buffered task at the front with its original id.
func (s *Store) UndoDelete() {
	s.mu.Lock()
	if s.undo == nil {
		s.mu.Unlock()
		return
	}
	s.undo.timer.Stop()
	restored := s.undo.task
	s.undo = nil
	var err error
	if task.IndexOf(s.tasks, restored.ID) < 0 {
		s.tasks = append([]task.Task{restored}, s.tasks...)
		err = s.persistTasksLocked()
	}
	s.mu.Unlock()
	s.logSaveError(err)

	s.notify()
}

// ToggleComplete flips the completion flag of one task.
func (s *Store) ToggleComplete(id string) {
	s.mutate(id, func(t *task.Task) { t.Completed = !t.Completed })
}

// ToggleAll completes every task unless all are already completed, in
// which case it marks every task incomplete.
func (s *Store) ToggleAll() {
	s.mu.Lock()
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return
	}
	target := !allCompleted(s.tasks)
	next := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		t.Completed = target
		next[i] = t
	}
	s.tasks = next
	err := s.persistTasksLocked()
	s.mu.Unlock()
	s.logSaveError(err)

	s.notify()
}

// StartEdit marks id as the edit target.
func (s *Store) StartEdit(id string) {
	s.mu.Lock()
	if task.IndexOf(s.tasks, id) < 0 {
		s.mu.Unlock()
		return
	}
	s.editingID = id
	s.mu.Unlock()

	s.notify()
}

// ChangeText replaces the text of a task as typed. Empty text is accepted.
func (s *Store) ChangeText(id, text string) {
	s.mutate(id, func(t *task.Task) { t.Text = text })
}

// SaveEdit clears the edit target. The text was already written by
// ChangeText and is kept exactly as typed.
func (s *Store) SaveEdit(id string) {
	s.mu.Lock()
	if s.editingID == "" {
		s.mu.Unlock()
		return
	}
	editing := s.editingID
	s.editingID = ""
	s.mu.Unlock()

	if id != "" && id != editing {
		s.logger.Debug("save edit for non-target task", "task_id", id, "editing_id", editing)
	}

	s.notify()
}

// ClearCompleted removes every completed task. The undo buffer is left alone.
func (s *Store) ClearCompleted() {
	s.mu.Lock()
	kept := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.tasks) {
		s.mu.Unlock()
		return
	}
	s.tasks = kept
	if task.IndexOf(s.tasks, s.editingID) < 0 {
		s.editingID = ""
	}
	if task.IndexOf(s.tasks, s.draggingID) < 0 {
		s.draggingID = ""
	}
	err := s.persistTasksLocked()
	s.mu.Unlock()
	s.logSaveError(err)

	s.notify()
}

// SetPriority assigns a priority. Unknown priorities are ignored.
func (s *Store) SetPriority(id string, p task.Priority) {
	if !p.Valid() {
		return
	}
	s.mutate(id, func(t *task.Task) { t.Priority = p })
}

// CyclePriority moves a task to the next priority.
func (s *Store) CyclePriority(id string) {
	s.mutate(id, func(t *task.Task) { t.Priority = t.Priority.Next() })
}

func (s *Store) mutate(id string, fn func(*task.Task)) {
	s.mu.Lock()
	idx := task.IndexOf(s.tasks, id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	next := task.Clone(s.tasks)
	fn(&next[idx])
	s.tasks = next
	err := s.persistTasksLocked()
	s.mu.Unlock()
	s.logSaveError(err)

	s.notify()
}

// SetFilter changes the completion filter.
func (s *Store) SetFilter(f Filter) {
	s.setView(func(v *View) { v.Filter = f })
}

// SetSearch changes the search text.
func (s *Store) SetSearch(q string) {
	s.setView(func(v *View) { v.Search = q })
}

// SetSortBy changes the sort mode.
func (s *Store) SetSortBy(m SortMode) {
	s.setView(func(v *View) { v.SortBy = m })
}

func (s *Store) setView(fn func(*View)) {
	s.mu.Lock()
	fn(&s.view)
	s.mu.Unlock()

	s.notify()
}

// Reorder moves activeID to the visible position of overID. Both must be
// visible and distinct.
func (s *Store) Reorder(activeID, overID string) {
	s.mu.Lock()
	moved, err := s.reorderLocked(activeID, overID)
	s.mu.Unlock()
	s.logSaveError(err)

	if moved {
		s.notify()
	}
}

func (s *Store) reorderLocked(activeID, overID string) (bool, error) {
	if activeID == overID {
		return false, nil
	}
	visible := ids(Project(s.tasks, s.view))
	from, to := slices.Index(visible, activeID), slices.Index(visible, overID)
	if from < 0 || to < 0 {
		return false, nil
	}
	return true, s.spliceLocked(visible, from, to)
}

// Move moves a visible task to a visible index, clamped to the list bounds.
func (s *Store) Move(id string, to int) {
	s.mu.Lock()
	visible := ids(Project(s.tasks, s.view))
	from := slices.Index(visible, id)
	if from < 0 {
		s.mu.Unlock()
		return
	}
	to = max(0, min(to, len(visible)-1))
	if from == to {
		s.mu.Unlock()
		return
	}
	err := s.spliceLocked(visible, from, to)
	s.mu.Unlock()
	s.logSaveError(err)

	s.notify()
}

func (s *Store) spliceLocked(visible []string, from, to int) error {
	s.tasks = Splice(s.tasks, visible, from, to)
	return s.persistTasksLocked()
}

// StartDrag records id as the task being moved.
func (s *Store) StartDrag(id string) {
	s.mu.Lock()
	if task.IndexOf(s.tasks, id) < 0 {
		s.mu.Unlock()
		return
	}
	s.draggingID = id
	s.mu.Unlock()

	s.notify()
}

// CancelDrag clears the drag target without moving anything.
func (s *Store) CancelDrag() {
	s.mu.Lock()
	s.draggingID = ""
	s.mu.Unlock()

	s.notify()
}

// Drop reorders the dragged task onto overID and ends the drag.
func (s *Store) Drop(overID string) {
	s.mu.Lock()
	active := s.draggingID
	if active == "" {
		s.mu.Unlock()
		return
	}
	s.draggingID = ""
	_, err := s.reorderLocked(active, overID)
	s.mu.Unlock()
	s.logSaveError(err)

	s.notify()
}

// ToggleDark flips and persists the theme flag.
func (s *Store) ToggleDark() {
	s.mu.Lock()
	s.dark = !s.dark
	err := prefs.Save(s.slots, prefs.Prefs{Dark: s.dark})
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("theme preference not saved", "error", err)
	}

	s.notify()
}

// persistTasksLocked writes the todos slot. Callers log the error only after
// releasing s.mu.
func (s *Store) persistTasksLocked() error {
	raw, err := task.Encode(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.slots.Set(kv.SlotTasks, raw); err != nil {
		return fmt.Errorf("write %s slot: %w", kv.SlotTasks, err)
	}
	return nil
}

func (s *Store) logSaveError(err error) {
	if err != nil {
		s.logger.Warn("tasks not saved", "error", err)
	}
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func countTasks(tasks []task.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
	}
	c.Active = c.Total - c.Completed
	return c
}

func allCompleted(tasks []task.Task) bool {
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}
