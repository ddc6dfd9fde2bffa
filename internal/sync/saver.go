package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/store"
	"github.com/nhle/planner/internal/todolist"
)

// SaveState represents the current state of background saving.
type SaveState int

const (
	SaveIdle SaveState = iota
	SavePending
	SaveRunning
	SaveError
)

func (s SaveState) String() string {
	switch s {
	case SavePending:
		return "pending"
	case SaveRunning:
		return "saving"
	case SaveError:
		return "error"
	default:
		return "saved"
	}
}

// SaveStatus is a snapshot of the saver's state.
type SaveStatus struct {
	State    SaveState
	LastSave time.Time
	Error    error
}

// SaveResultMsg is a tea.Msg sent when a save completes.
type SaveResultMsg struct {
	Count int
	Error error
}

// saveTimeout is the maximum time allowed for a single write.
const saveTimeout = 10 * time.Second

// Saver writes task list snapshots to the store on a background goroutine.
// Snapshots queued while a write is running collapse into the latest one.
type Saver struct {
	store    store.Store
	logger   *log.Logger
	status   SaveStatus
	pending  chan []model.Task
	resultCh chan SaveResultMsg
	stopCh   chan struct{}
	wg       gosync.WaitGroup
	mu       gosync.Mutex
	running  bool
}

// New creates a new Saver writing to s.
func New(s store.Store, logger *log.Logger) *Saver {
	return &Saver{
		store:    s,
		logger:   logger,
		pending:  make(chan []model.Task, 1),
		resultCh: make(chan SaveResultMsg, 16),
		stopCh:   make(chan struct{}),
	}
}

// Watch subscribes to mgr so every change queues a snapshot. The returned
// function unsubscribes.
func (s *Saver) Watch(mgr *todolist.Manager) func() {
	return mgr.Subscribe(func(e todolist.Event) {
		s.Schedule(mgr.Tasks())
	})
}

// Schedule queues tasks for saving, replacing any snapshot that has not
// been picked up yet.
func (s *Saver) Schedule(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case s.pending <- tasks:
			if s.status.State != SaveRunning {
				s.status.State = SavePending
			}
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// Start returns a tea.Cmd that starts the writer goroutine and waits for
// the first result.
func (s *Saver) Start() tea.Cmd {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop()

	return s.waitForResult()
}

// Stop halts the writer goroutine after any write in progress.
func (s *Saver) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
}

// Flush stops the writer and synchronously saves tasks. It is used on quit
// so the last change is never lost.
func (s *Saver) Flush(ctx context.Context, tasks []model.Task) error {
	s.Stop()
	return s.save(ctx, tasks)
}

// Status returns the current save status.
func (s *Saver) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Saver) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopCh:
			return
		case tasks := <-s.pending:
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			err := s.save(ctx, tasks)
			cancel()
			s.sendResult(SaveResultMsg{Count: len(tasks), Error: err})
		}
	}
}

func (s *Saver) save(ctx context.Context, tasks []model.Task) error {
	s.setStatus(SaveRunning, nil)
	if err := s.store.SaveTasks(ctx, tasks); err != nil {
		s.setStatus(SaveError, err)
		s.logger.Error("saving tasks", "err", err)
		return fmt.Errorf("saving tasks: %w", err)
	}
	s.setStatus(SaveIdle, nil)
	s.logger.Debug("saved tasks", "count", len(tasks))
	return nil
}

func (s *Saver) setStatus(state SaveState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.State = state
	s.status.Error = err
	if state == SaveIdle {
		s.status.LastSave = time.Now()
		if len(s.pending) > 0 {
			s.status.State = SavePending
		}
	}
}

// sendResult sends a SaveResultMsg on the result channel without blocking.
func (s *Saver) sendResult(msg SaveResultMsg) {
	select {
	case s.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the writer
	}
}

func (s *Saver) waitForResult() tea.Cmd {
	return func() tea.Msg {
		return <-s.resultCh
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next save result.
// Call it after handling a SaveResultMsg to keep listening.
func (s *Saver) WaitForNextResult() tea.Cmd {
	return s.waitForResult()
}
