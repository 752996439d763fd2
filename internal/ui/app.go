package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/docket/internal/state"
	"github.com/five82/docket/internal/task"
)

// View represents the current active view.
type View int

const (
	ViewTasks View = iota
	ViewLogs
)

// inputMode is the text field currently capturing keys, if any.
type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputEdit
	inputSearch
)

// Options configures the UI.
type Options struct {
	Store     *state.Store
	ThemeName string // dark palette name
	LogPath   string
	Interval  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	store     *state.Store
	keys      keyMap
	logPath   string
	interval  time.Duration
	themeName string
	now       func() time.Time

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot    state.Snapshot
	selectedRow int
	selectedID  string

	// Text entry for add, edit and search
	input     inputMode
	textInput textinput.Model
	editID    string

	// Drop target while a task is lifted
	dropRow int

	// Transient status line fed by the log handler
	flash    flashState
	flashSeq int

	// Log view
	logViewport viewport.Model
	logState    logState
}

type flashState struct {
	text  string
	level flashLevel
	seq   int
}

type flashLevel int

const (
	flashInfo flashLevel = iota
	flashWarn
	flashError
)

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultUIInterval
	}

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Prompt = "› "

	m := Model{
		store:       opts.Store,
		keys:        DefaultKeyMap(),
		logPath:     opts.LogPath,
		interval:    interval,
		themeName:   opts.ThemeName,
		now:         time.Now,
		currentView: ViewTasks,
		textInput:   ti,
		logState:    logState{follow: true},
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	m.theme = ThemeFor(m.snapshot.Dark, m.themeName)
	m.syncSelection()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.interval)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.textInput.Width = max(m.width-6, 10)
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case SnapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case logRecordMsg:
		m.flashSeq++
		m.flash = flashState{text: msg.Summary, level: levelOf(msg), seq: m.flashSeq}
		return m, fadeFlashCmd(m.flashSeq)

	case logRecordFadeMsg:
		if msg.seq == m.flash.seq {
			m.flash = flashState{}
		}
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.input != inputNone {
		return m.handleInputKey(msg)
	}

	if m.snapshot.DraggingID != "" {
		return m.handleMoveKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.ToggleDark):
		m.store.ToggleDark()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.themeName = NextTheme(ThemeFor(true, m.themeName).Name)
		m.theme = ThemeFor(m.snapshot.Dark, m.themeName)
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.currentView == ViewLogs {
			m.currentView = ViewTasks
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.loadLogsCmd()
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m.handleTaskKey(msg)
}

// handleTaskKey processes keyboard input for the task list.
func (m Model) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.snapshot.Visible
	selected := m.selectedTask()

	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Top):
		m.setSelection(0)
	case key.Matches(msg, m.keys.Bottom):
		m.setSelection(len(visible) - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(max(m.listHeight()/2, 1))
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-max(m.listHeight()/2, 1))

	case key.Matches(msg, m.keys.Add):
		return m, m.beginInput(inputAdd, "", "What needs doing?")

	case key.Matches(msg, m.keys.Search):
		return m, m.beginInput(inputSearch, m.snapshot.View.Search, "Search tasks")

	case key.Matches(msg, m.keys.CycleFilter):
		m.store.SetFilter(m.snapshot.View.Filter.Next())
		m.refresh()

	case key.Matches(msg, m.keys.CycleSort):
		m.store.SetSortBy(m.snapshot.View.SortBy.Next())
		m.refresh()

	case key.Matches(msg, m.keys.ToggleAll):
		m.store.ToggleAll()
		m.refresh()

	case key.Matches(msg, m.keys.ClearCompleted):
		m.store.ClearCompleted()
		m.refresh()

	case key.Matches(msg, m.keys.Undo):
		if m.snapshot.HasUndo {
			m.selectedID = m.snapshot.Undo.ID
		}
		m.store.UndoDelete()
		m.refresh()

	case key.Matches(msg, m.keys.Escape):
		if m.snapshot.View.Search != "" {
			m.store.SetSearch("")
			m.refresh()
		}
	}

	if selected == nil {
		return m, nil
	}
	id := selected.ID

	switch {
	case key.Matches(msg, m.keys.Edit):
		m.store.StartEdit(id)
		m.editID = id
		m.refresh()
		return m, m.beginInput(inputEdit, selected.Text, "")

	case key.Matches(msg, m.keys.Toggle):
		m.store.ToggleComplete(id)
		m.refresh()

	case key.Matches(msg, m.keys.Priority):
		m.store.CyclePriority(id)
		m.refresh()

	case key.Matches(msg, m.keys.Delete):
		m.store.Delete(id)
		m.selectedID = ""
		m.refresh()

	case key.Matches(msg, m.keys.MoveMode):
		m.store.StartDrag(id)
		m.dropRow = m.selectedRow
		m.refresh()

	case key.Matches(msg, m.keys.MoveUp):
		m.store.Move(id, m.selectedRow-1)
		m.afterReorder()

	case key.Matches(msg, m.keys.MoveDown):
		m.store.Move(id, m.selectedRow+1)
		m.afterReorder()
	}

	return m, nil
}

// handleMoveKey processes keys while a task is lifted: navigation picks the
// drop target, enter drops, esc puts the task back.
func (m Model) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Visible)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.dropRow = min(m.dropRow+1, count-1)
	case key.Matches(msg, m.keys.Up):
		m.dropRow = max(m.dropRow-1, 0)
	case key.Matches(msg, m.keys.Top):
		m.dropRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.dropRow = max(count-1, 0)

	case key.Matches(msg, m.keys.Confirm):
		dragged := m.snapshot.DraggingID
		if m.dropRow >= 0 && m.dropRow < count {
			m.store.Drop(m.snapshot.Visible[m.dropRow].ID)
		} else {
			m.store.CancelDrag()
		}
		m.selectedID = dragged
		m.afterReorder()

	case key.Matches(msg, m.keys.Escape):
		m.store.CancelDrag()
		m.refresh()

	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// handleInputKey routes keys to the active text field.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		switch m.input {
		case inputAdd:
			if id := m.store.Add(m.textInput.Value()); id != "" {
				m.selectedID = id
			}
		case inputEdit:
			m.store.SaveEdit(m.editID)
		}
		m.endInput()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		switch m.input {
		case inputEdit:
			// Keystrokes were already applied; esc just leaves the field.
			m.store.SaveEdit(m.editID)
		case inputSearch:
			m.store.SetSearch("")
		}
		m.endInput()
		m.refresh()
		return m, nil

	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	before := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if after := m.textInput.Value(); after != before {
		switch m.input {
		case inputEdit:
			m.store.ChangeText(m.editID, after)
			m.refresh()
		case inputSearch:
			m.store.SetSearch(after)
			m.refresh()
		}
	}
	return m, cmd
}

func (m *Model) beginInput(mode inputMode, value, placeholder string) tea.Cmd {
	m.input = mode
	m.textInput.Placeholder = placeholder
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	return m.textInput.Focus()
}

func (m *Model) endInput() {
	m.input = inputNone
	m.editID = ""
	m.textInput.Blur()
	m.textInput.SetValue("")
}

// afterReorder switches to manual sort so a reorder made under another sort
// mode stays on screen.
func (m *Model) afterReorder() {
	if m.snapshot.View.SortBy != state.SortManual {
		m.store.SetSortBy(state.SortManual)
	}
	m.refresh()
}

// handleTick refreshes time-dependent state: the undo countdown and a
// followed log view.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.interval)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, m.loadLogsCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	m.applySnapshot(m.store.Snapshot())
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	if m.theme.Dark != snap.Dark {
		m.theme = ThemeFor(snap.Dark, m.themeName)
		m.updateLogViewport()
	}
	m.syncSelection()
	if count := len(snap.Visible); m.dropRow >= count {
		m.dropRow = max(count-1, 0)
	}
}

// syncSelection keeps the selection on the same task across snapshots,
// clamping the row when that task is gone.
func (m *Model) syncSelection() {
	visible := m.snapshot.Visible
	if len(visible) == 0 {
		m.selectedRow = 0
		m.selectedID = ""
		return
	}
	if m.selectedID != "" {
		if idx := task.IndexOf(visible, m.selectedID); idx >= 0 {
			m.selectedRow = idx
			return
		}
	}
	m.selectedRow = max(0, min(m.selectedRow, len(visible)-1))
	m.selectedID = visible[m.selectedRow].ID
}

func (m *Model) moveSelection(delta int) {
	m.setSelection(m.selectedRow + delta)
}

func (m *Model) setSelection(row int) {
	visible := m.snapshot.Visible
	if len(visible) == 0 {
		return
	}
	m.selectedRow = max(0, min(row, len(visible)-1))
	m.selectedID = visible[m.selectedRow].ID
}

func (m Model) selectedTask() *task.Task {
	visible := m.snapshot.Visible
	if m.selectedRow < 0 || m.selectedRow >= len(visible) {
		return nil
	}
	t := visible[m.selectedRow]
	return &t
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderTasks())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// Messages

type tickMsg time.Time

// SnapshotMsg carries a fresh store snapshot into the program. The change
// forwarder sends one whenever the store changes outside a key press.
type SnapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg(store.Snapshot())
	}
}

// NewProgram builds the Bubble Tea program. The caller wires log delivery
// and change forwarding to it before calling Run.
func NewProgram(opts Options, programOpts ...tea.ProgramOption) *tea.Program {
	programOpts = append([]tea.ProgramOption{tea.WithAltScreen()}, programOpts...)
	return tea.NewProgram(New(opts), programOpts...)
}
