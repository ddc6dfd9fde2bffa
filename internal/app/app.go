package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/planner/internal/keys"
	"github.com/nhle/planner/internal/logging"
	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/store"
	appsync "github.com/nhle/planner/internal/sync"
	"github.com/nhle/planner/internal/todolist"
	"github.com/nhle/planner/internal/ui"
	"github.com/nhle/planner/internal/ui/calendar"
	"github.com/nhle/planner/internal/ui/command"
	configview "github.com/nhle/planner/internal/ui/config"
	"github.com/nhle/planner/internal/ui/detail"
	helpview "github.com/nhle/planner/internal/ui/help"
	"github.com/nhle/planner/internal/ui/notes"
	"github.com/nhle/planner/internal/ui/pomodoro"
	"github.com/nhle/planner/internal/ui/tasklist"
	"github.com/nhle/planner/internal/ui/todoform"
)

// Tab is one of the top-level sections.
type Tab int

const (
	TabCalendar Tab = iota
	TabTodo
	TabNotes
)

var tabNames = []string{"Calendar", "To-Do", "Notes"}

func (t Tab) String() string { return tabNames[t] }

// Overlay is a view drawn over the active tab.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayCommand
	OverlayForm
	OverlaySettings
	OverlayDetail
)

// quitTimeout bounds the final save on quit.
const quitTimeout = 5 * time.Second

// changeTracker is flipped by the manager observer and read at the end of
// Update. It lives behind a pointer so it survives model copies.
type changeTracker struct {
	dirty bool
}

// Options configures a new root model.
type Options struct {
	Store   store.Store
	Manager *todolist.Manager
	Config  *model.AppConfig
	Logger  *log.Logger

	// ConfigPath is where the settings view writes changes. Empty disables
	// writing.
	ConfigPath string
}

// Model is the root Bubble Tea model that manages tab routing, overlays,
// layout, and access to the persistence layer.
type Model struct {
	tab         Tab
	overlay     Overlay
	layout      ui.Layout
	cfg         *model.AppConfig
	configPath  string
	store       store.Store
	manager     *todolist.Manager
	saver       *appsync.Saver
	changes     *changeTracker
	logger      *log.Logger
	keys        *keys.KeyMap
	calendar    calendar.Model
	taskList    tasklist.Model
	notes       notes.Model
	form        todoform.Model
	settings    configview.Model
	detail      detail.Model
	helpView    helpview.Model
	commandView command.Model
	pomodoro    pomodoro.Model
	status      string
	statusErr   bool
	ready       bool
	quitting    bool
}

// New creates a new root application model. When tasks are persisted, a
// background saver writes every change of the manager to the store.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	cfg := opts.Config
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	mgr := opts.Manager
	if mgr == nil {
		mgr = todolist.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	m := Model{
		tab:         TabTodo,
		cfg:         cfg,
		configPath:  opts.ConfigPath,
		store:       opts.Store,
		manager:     mgr,
		changes:     &changeTracker{},
		logger:      logger,
		keys:        k,
		calendar:    calendar.New(k, calendar.WeekStartFromConfig(cfg.Calendar.WeekStart), 80, 24),
		taskList:    tasklist.New(mgr, k, 80, 24),
		notes:       notes.New(k, 80, 24),
		form:        todoform.New(80, 24),
		settings:    configview.New(80, 24),
		detail:      detail.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24, tasklist.SortKey),
		commandView: command.New(80, 24),
		pomodoro:    pomodoro.New(cfg.Pomodoro.Minutes),
	}

	changes := m.changes
	mgr.Subscribe(func(e todolist.Event) {
		changes.dirty = true
	})
	if cfg.Storage.PersistTasks && opts.Store != nil {
		m.saver = appsync.New(opts.Store, logger)
		m.saver.Watch(mgr)
	}

	m.calendar.SetDueDates(mgr.Tasks())
	return m
}

// Init starts the saver and loads notes and the calendar's first day.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("Planner"),
		m.calendar.Init(),
		m.loadNotes(),
	}
	if m.saver != nil {
		cmds = append(cmds, m.saver.Start())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
// Views are refreshed before and after dispatch whenever the manager
// changed, so mutations made outside Update are picked up too.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.syncViews()
	m, cmd := m.update(msg)
	m.syncViews()
	return m, cmd
}

func (m *Model) syncViews() {
	if !m.changes.dirty {
		return
	}
	m.changes.dirty = false
	m.refreshViews()
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.calendar.SetSize(w, h)
		m.taskList.SetSize(w, h)
		m.notes.SetSize(w, h)
		m.form.SetSize(w, h)
		m.settings.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward so huh forms can calculate their layout.
		var cmd tea.Cmd
		switch m.overlay {
		case OverlayForm:
			m.form, cmd = m.form.Update(msg)
		case OverlaySettings:
			m.settings, cmd = m.settings.Update(msg)
		}
		return m, cmd

	case calendar.DaySelectedMsg:
		m.calendar.SetEvents(m.manager.DueOn(msg.Day))
		return m, nil

	case tasklist.NewTaskRequestMsg:
		return m, m.openCreateForm(nil)

	case tasklist.OpenTaskRequestMsg:
		m.overlay = OverlayDetail
		m.detail.SetTask(msg.Task)
		return m, nil

	case detail.EditMsg:
		m.overlay = OverlayForm
		return m, m.form.StartEdit(msg.Task)

	case detail.BackMsg:
		m.overlay = OverlayNone
		m.detail.Clear()
		return m, nil

	case tasklist.EditTaskRequestMsg:
		m.overlay = OverlayForm
		return m, m.form.StartEdit(msg.Task)

	case tasklist.ErrorMsg:
		m.setError(msg.Err)
		return m, nil

	case todoform.TaskSubmittedMsg:
		m.overlay = OverlayNone
		m.addTask(msg)
		return m, nil

	case todoform.TaskEditedMsg:
		m.overlay = OverlayNone
		m.editTask(msg)
		return m, nil

	case todoform.FormCancelMsg:
		m.overlay = OverlayNone
		return m, nil

	case notes.SaveNotesMsg:
		return m, m.saveNotes(msg.Text)

	case notesLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.notes.SetText(msg.note.Text)
		m.notes.SetSavedAt(msg.note.UpdatedAt)
		return m, nil

	case notesSavedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.notes.MarkSaved(msg.text)
		m.notes.SetSavedAt(msg.savedAt)
		m.setStatus("Notes saved")
		return m, nil

	case appsync.SaveResultMsg:
		if msg.Error != nil {
			m.setError(msg.Error)
		} else if m.statusErr {
			m.clearStatus()
		}
		return m, m.saver.WaitForNextResult()

	case timer.TickMsg, timer.StartStopMsg, timer.TimeoutMsg:
		var cmd tea.Cmd
		m.pomodoro, cmd = m.pomodoro.Update(msg)
		return m, cmd

	case pomodoro.FinishedMsg:
		m.logger.Info("pomodoro finished", "minutes", m.cfg.Pomodoro.Minutes)
		m.setStatus("Pomodoro finished. Take a break!")
		return m, nil

	case configview.ConfigSavedMsg:
		m.overlay = OverlayNone
		m.applyConfig(msg.Config)
		return m, nil

	case configview.ConfigDoneMsg:
		m.overlay = OverlayNone
		return m, nil

	case command.CommandMsg:
		m.overlay = OverlayNone
		return m, m.executeCommand(string(msg))

	case command.CancelMsg:
		m.overlay = OverlayNone
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes a key press. Overlays and the notes editor take every
// key; otherwise global keys run first and the rest go to the active tab.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	var cmd tea.Cmd
	switch m.overlay {
	case OverlayForm:
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case OverlayCommand:
		m.commandView, cmd = m.commandView.Update(msg)
		return m, cmd
	case OverlaySettings:
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd
	case OverlayDetail:
		if key.Matches(msg, m.keys.Quit) {
			return m, m.quit()
		}
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	case OverlayHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.overlay = OverlayNone
		}
		return m, nil
	}

	if m.tab == TabNotes && m.notes.Editing() {
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}

	if m.statusErr && key.Matches(msg, m.keys.Back) {
		m.clearStatus()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		return m, nil
	case key.Matches(msg, m.keys.Command):
		m.overlay = OverlayCommand
		return m, m.commandView.Focus()
	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return m, nil
	case key.Matches(msg, m.keys.CalendarTab):
		m.tab = TabCalendar
		return m, nil
	case key.Matches(msg, m.keys.TodoTab):
		m.tab = TabTodo
		return m, nil
	case key.Matches(msg, m.keys.NotesTab):
		m.tab = TabNotes
		return m, nil
	case key.Matches(msg, m.keys.Pomodoro):
		m.pomodoro, cmd = m.pomodoro.Toggle()
		return m, cmd
	}

	switch m.tab {
	case TabCalendar:
		if key.Matches(msg, m.keys.New) {
			due := model.Date(m.calendar.Selected())
			return m, m.openCreateForm(&due)
		}
		m.calendar, cmd = m.calendar.Update(msg)
	case TabTodo:
		m.taskList, cmd = m.taskList.Update(msg)
	case TabNotes:
		m.notes, cmd = m.notes.Update(msg)
	}
	return m, cmd
}

// refreshViews re-reads the manager after a change.
func (m *Model) refreshViews() {
	m.taskList.Refresh()
	m.calendar.SetDueDates(m.manager.Tasks())
	m.calendar.SetEvents(m.manager.DueOn(m.calendar.Selected()))
	if t, ok := m.detail.Task(); ok {
		if fresh, ok := m.manager.Get(t.ID); ok {
			m.detail.SetTask(fresh)
		} else {
			m.detail.Clear()
		}
	}
}

// quit returns a command that saves outstanding tasks and notes, then
// exits. Keys are ignored once quitting has started.
func (m *Model) quit() tea.Cmd {
	if m.quitting {
		return nil
	}
	m.quitting = true

	saver := m.saver
	st := m.store
	logger := m.logger
	tasks := m.manager.Tasks()
	notesDirty := m.notes.Dirty()
	text := m.notes.Value()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quitTimeout)
		defer cancel()

		if saver != nil {
			if err := saver.Flush(ctx, tasks); err != nil {
				logger.Error("final task save failed", "err", err)
			}
		}
		if st != nil && notesDirty {
			if err := st.SetNote(ctx, model.NotesKey, text); err != nil {
				logger.Error("final notes save failed", "err", err)
			}
		}
		logger.Info("quitting", "tasks", len(tasks))
		return tea.Quit()
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.logger.Error("operation failed", "err", err)
	m.status = fmt.Sprintf("Error: %v", err)
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	tabs := m.layout.RenderTabs(tabNames, int(m.tab))
	header := m.layout.RenderHeader("Planner", tabs, m.headerStatus())
	statusBar := m.layout.RenderStatusBar(m.statusText(), m.statusErr)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the overlay if one is open, else the active tab.
func (m Model) renderContent() string {
	switch m.overlay {
	case OverlayHelp:
		return m.helpView.View()
	case OverlayCommand:
		return m.commandView.View()
	case OverlayForm:
		return m.form.View()
	case OverlaySettings:
		return m.settings.View()
	case OverlayDetail:
		return m.detail.View()
	}

	switch m.tab {
	case TabCalendar:
		return m.calendar.View()
	case TabNotes:
		return m.notes.View()
	default:
		return m.taskList.View()
	}
}

// headerStatus shows the pomodoro and, when persisting, the save state.
func (m Model) headerStatus() string {
	status := m.pomodoro.View()
	if m.saver != nil {
		if status != "" {
			status += " "
		}
		status += m.saver.Status().State.String()
	}
	return status
}

// statusText returns the status message or keyboard hints for the bar.
func (m Model) statusText() string {
	if m.status != "" {
		return m.status
	}

	switch m.overlay {
	case OverlayHelp:
		return "? close help | esc back"
	case OverlayCommand:
		return "enter execute | tab complete | esc back"
	case OverlayForm, OverlaySettings:
		return "enter submit | esc cancel"
	case OverlayDetail:
		return "esc back | e edit | j/k scroll"
	}

	switch m.tab {
	case TabCalendar:
		return "h/l day | j/k week | [/] month | t today | n new | ? help"
	case TabNotes:
		if m.notes.Editing() {
			return "esc save"
		}
		return "enter edit | ? help | q quit"
	default:
		hint := "n new | x toggle | d delete | "
		if m.manager.CanUndo() {
			hint += "u undo | "
		}
		return hint + fmt.Sprintf("s %s | ? help", m.taskList.Order())
	}
}
