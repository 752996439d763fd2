package ui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/docket/internal/clock"
	"github.com/five82/docket/internal/kv"
	"github.com/five82/docket/internal/state"
	"github.com/five82/docket/internal/task"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *state.Store, *clock.FakeClock) {
	t.Helper()
	fc := clock.Fake(epoch)
	store, err := state.Open(state.Options{
		Slots:  kv.NewMemory(),
		Clock:  fc,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("state.Open: %v", err)
	}
	t.Cleanup(store.Close)

	m := New(Options{Store: store})
	m.now = fc.Now
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, store, fc
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

// press sends named keys ("enter", "esc", "space", "backspace") or runes.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(t, m, msg)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func addTask(t *testing.T, m Model, fc *clock.FakeClock, text string) Model {
	t.Helper()
	fc.Advance(time.Second)
	m = press(t, m, "a")
	m = typeText(t, m, text)
	return press(t, m, "enter")
}

func TestAddFromKeyboard(t *testing.T) {
	m, store, fc := newTestModel(t)

	m = addTask(t, m, fc, "  Buy milk ")

	tasks := store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	if tasks[0].Text != "Buy milk" {
		t.Fatalf("Text = %q, want %q", tasks[0].Text, "Buy milk")
	}
	if m.input != inputNone {
		t.Fatalf("input = %v, want none", m.input)
	}
	if m.selectedID != tasks[0].ID {
		t.Fatalf("selectedID = %q, want %q", m.selectedID, tasks[0].ID)
	}
	if !strings.Contains(plainView(m), "Buy milk") {
		t.Fatalf("View() does not show the new task")
	}
}

func TestAddBlankIsIgnored(t *testing.T) {
	m, store, fc := newTestModel(t)

	m = addTask(t, m, fc, "   ")

	if n := len(store.Tasks()); n != 0 {
		t.Fatalf("tasks = %d, want 0", n)
	}
	if m.input != inputNone {
		t.Fatalf("input = %v, want none", m.input)
	}
}

func TestAddCancelWithEscape(t *testing.T) {
	m, store, _ := newTestModel(t)

	m = press(t, m, "a")
	m = typeText(t, m, "never mind")
	m = press(t, m, "esc")

	if n := len(store.Tasks()); n != 0 {
		t.Fatalf("tasks = %d, want 0", n)
	}
	if m.input != inputNone {
		t.Fatalf("input = %v, want none", m.input)
	}
}

func TestDeleteShowsUndoBanner(t *testing.T) {
	m, store, fc := newTestModel(t)
	m = addTask(t, m, fc, "first")
	m = addTask(t, m, fc, "second")

	m = press(t, m, "g", "d")

	if n := len(store.Tasks()); n != 1 {
		t.Fatalf("tasks after delete = %d, want 1", n)
	}
	if !m.snapshot.HasUndo || m.snapshot.Undo.Text != "second" {
		t.Fatalf("undo = %+v, want second", m.snapshot.Undo)
	}
	if view := plainView(m); !strings.Contains(view, `Deleted "second"`) {
		t.Fatalf("View() missing undo banner")
	}

	m = press(t, m, "u")

	tasks := store.Tasks()
	if len(tasks) != 2 || tasks[0].Text != "second" {
		t.Fatalf("tasks after undo = %v, want second restored at front", tasks)
	}
	if m.selectedID != tasks[0].ID {
		t.Fatalf("selectedID = %q, want restored task", m.selectedID)
	}
}

func TestUndoExpiryArrivesAsSnapshot(t *testing.T) {
	m, store, fc := newTestModel(t)
	m = addTask(t, m, fc, "gone")
	m = press(t, m, "d")

	fc.Advance(state.DefaultUndoWindow)
	m = update(t, m, SnapshotMsg(store.Snapshot()))

	if m.snapshot.HasUndo {
		t.Fatalf("HasUndo = true after the window elapsed")
	}
	m = press(t, m, "u")
	if n := len(store.Tasks()); n != 0 {
		t.Fatalf("tasks = %d, want 0 after expired undo", n)
	}
}

func TestEditAppliesKeystrokesLive(t *testing.T) {
	m, store, fc := newTestModel(t)
	m = addTask(t, m, fc, "Buy milk")
	id := store.Tasks()[0].ID

	m = press(t, m, "e")
	if m.snapshot.EditingID != id {
		t.Fatalf("EditingID = %q, want %q", m.snapshot.EditingID, id)
	}

	m = press(t, m, "backspace", "backspace", "backspace", "backspace")
	m = typeText(t, m, "eggs")
	if got := store.Tasks()[0].Text; got != "Buy eggs" {
		t.Fatalf("Text while editing = %q, want %q", got, "Buy eggs")
	}

	m = press(t, m, "enter")
	if m.snapshot.EditingID != "" {
		t.Fatalf("EditingID = %q after save, want empty", m.snapshot.EditingID)
	}
	if m.input != inputNone {
		t.Fatalf("input = %v, want none", m.input)
	}
}

func TestToggleAndFilter(t *testing.T) {
	m, store, fc := newTestModel(t)
	m = addTask(t, m, fc, "a")
	m = addTask(t, m, fc, "b")

	m = press(t, m, "g", "space")
	if !store.Tasks()[0].Completed {
		t.Fatalf("top task not completed after space")
	}

	m = press(t, m, "f")
	if m.snapshot.View.Filter != state.FilterActive {
		t.Fatalf("Filter = %v, want active", m.snapshot.View.Filter)
	}
	if len(m.snapshot.Visible) != 1 || m.snapshot.Visible[0].Text != "a" {
		t.Fatalf("Visible = %v, want only a", m.snapshot.Visible)
	}
}

func TestSearchInputAndClear(t *testing.T) {
	m, _, fc := newTestModel(t)
	m = addTask(t, m, fc, "Buy milk")
	m = addTask(t, m, fc, "Call mom")

	m = press(t, m, "/")
	m = typeText(t, m, "MILK")
	if len(m.snapshot.Visible) != 1 || m.snapshot.Visible[0].Text != "Buy milk" {
		t.Fatalf("Visible = %v, want Buy milk only", m.snapshot.Visible)
	}

	m = press(t, m, "esc")
	if m.snapshot.View.Search != "" {
		t.Fatalf("Search = %q after esc, want empty", m.snapshot.View.Search)
	}
	if len(m.snapshot.Visible) != 2 {
		t.Fatalf("Visible = %d, want 2", len(m.snapshot.Visible))
	}
}

func TestMoveModeDropsOnTarget(t *testing.T) {
	m, store, fc := newTestModel(t)
	for _, text := range []string{"a", "b", "c"} {
		m = addTask(t, m, fc, text)
	}

	m = press(t, m, "g", "m")
	if m.snapshot.DraggingID == "" {
		t.Fatalf("DraggingID empty after m")
	}
	m = press(t, m, "j", "j", "enter")

	if got := textsOf(store.Tasks()); got != "b,a,c" {
		t.Fatalf("order = %s, want b,a,c", got)
	}
	if m.snapshot.DraggingID != "" {
		t.Fatalf("DraggingID = %q after drop, want empty", m.snapshot.DraggingID)
	}
	if m.snapshot.View.SortBy != state.SortManual {
		t.Fatalf("SortBy = %v, want manual after a reorder", m.snapshot.View.SortBy)
	}
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow = %d, want 2 (follows the moved task)", m.selectedRow)
	}
}

func TestMoveModeEscapeCancels(t *testing.T) {
	m, store, fc := newTestModel(t)
	m = addTask(t, m, fc, "a")
	m = addTask(t, m, fc, "b")

	m = press(t, m, "g", "m", "j", "esc")

	if got := textsOf(store.Tasks()); got != "b,a" {
		t.Fatalf("order = %s, want b,a", got)
	}
	if m.snapshot.DraggingID != "" {
		t.Fatalf("DraggingID = %q, want empty", m.snapshot.DraggingID)
	}
}

func TestShiftMoveKeys(t *testing.T) {
	m, store, fc := newTestModel(t)
	m = addTask(t, m, fc, "a")
	m = addTask(t, m, fc, "b")

	m = press(t, m, "g", "J")

	if got := textsOf(store.Tasks()); got != "a,b" {
		t.Fatalf("order = %s, want a,b", got)
	}
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want 1", m.selectedRow)
	}
}

func TestToggleDarkRethemes(t *testing.T) {
	m, store, _ := newTestModel(t)
	if m.theme.Dark {
		t.Fatalf("initial theme is dark, want light")
	}

	m = press(t, m, "t")

	if !store.Snapshot().Dark || !m.theme.Dark {
		t.Fatalf("dark = %v theme.Dark = %v, want both true", store.Snapshot().Dark, m.theme.Dark)
	}
}

func TestHelpClosesOnAnyKey(t *testing.T) {
	m, store, _ := newTestModel(t)

	m = press(t, m, "?")
	if !m.showHelp {
		t.Fatalf("showHelp = false after ?")
	}
	if !strings.Contains(plainView(m), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not rendered")
	}

	m = press(t, m, "a")
	if m.showHelp || m.input != inputNone {
		t.Fatalf("showHelp = %v input = %v, want closed help and no input", m.showHelp, m.input)
	}
	if n := len(store.Tasks()); n != 0 {
		t.Fatalf("tasks = %d, want 0", n)
	}
}

func TestFlashFades(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = update(t, m, logRecordMsg{Summary: "tasks not saved", Level: slog.LevelWarn})
	first := m.flash.seq
	if m.flash.text != "tasks not saved" || m.flash.level != flashWarn {
		t.Fatalf("flash = %+v, want warn message", m.flash)
	}

	m = update(t, m, logRecordMsg{Summary: "again", Level: slog.LevelError})
	m = update(t, m, logRecordFadeMsg{seq: first})
	if m.flash.text != "again" {
		t.Fatalf("stale fade cleared flash %q", m.flash.text)
	}

	m = update(t, m, logRecordFadeMsg{seq: m.flash.seq})
	if m.flash.text != "" {
		t.Fatalf("flash = %q after fade, want empty", m.flash.text)
	}
}

func TestLogViewToggle(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "L")
	if m.currentView != ViewLogs {
		t.Fatalf("currentView = %v, want logs", m.currentView)
	}
	m = update(t, m, logLinesMsg{lines: []string{`{"time":"2026-03-01T09:00:00Z","level":"WARN","msg":"tasks not saved"}`}})
	if len(m.logState.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(m.logState.entries))
	}
	if !strings.Contains(plainView(m), "tasks not saved") {
		t.Fatalf("log view missing entry")
	}

	m = press(t, m, "esc")
	if m.currentView != ViewTasks {
		t.Fatalf("currentView = %v, want tasks", m.currentView)
	}
}

func TestScrollWindow(t *testing.T) {
	tests := []struct {
		count, height, cursor int
		start, end            int
	}{
		{5, 10, 3, 0, 5},
		{20, 10, 0, 0, 10},
		{20, 10, 12, 7, 17},
		{20, 10, 19, 10, 20},
	}
	for _, tt := range tests {
		start, end := scrollWindow(tt.count, tt.height, tt.cursor)
		if start != tt.start || end != tt.end {
			t.Fatalf("scrollWindow(%d, %d, %d) = %d, %d, want %d, %d",
				tt.count, tt.height, tt.cursor, start, end, tt.start, tt.end)
		}
	}
}

func textsOf(tasks []task.Task) string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return strings.Join(out, ",")
}

func plainView(m Model) string {
	return ansi.Strip(m.View())
}

type readOnlySlots struct{ *kv.Memory }

func (readOnlySlots) Set(string, string) error { return errors.New("disk full") }

func TestSaveFailureWarningDoesNotStallProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	store, err := state.Open(state.Options{
		Slots:  readOnlySlots{kv.NewMemory()},
		Clock:  clock.Fake(epoch),
		Logger: slog.New(handler),
	})
	if err != nil {
		t.Fatalf("state.Open: %v", err)
	}
	t.Cleanup(store.Close)

	program := tea.NewProgram(New(Options{Store: store}),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	handler.SetProgram(program)

	result := make(chan error, 1)
	go func() {
		_, err := program.Run()
		result <- err
	}()

	program.Send(tea.WindowSizeMsg{Width: 100, Height: 30})
	program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	program.Send(tea.KeyMsg{Type: tea.KeyEnter})

	// Tasks takes the store lock, so it also hangs if a save left it held.
	added := make(chan int, 1)
	go func() {
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			if n := len(store.Tasks()); n > 0 {
				added <- n
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		added <- 0
	}()
	select {
	case n := <-added:
		if n != 1 {
			t.Fatalf("tasks = %d, want 1 kept in memory", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("store lock still held after a failed save")
	}

	program.Quit()
	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		program.Kill()
		t.Fatal("program did not exit after a failed save")
	}
}
