package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sanonone/beliefdb/pkg/engine"
)

// TaskStatus defines the possible states of an async sampling run.
type TaskStatus string

const (
	TaskStatusStarted   TaskStatus = "started"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task tracks one asynchronous sampling run. A long run holds the engine's
// read lock for its whole duration, so the server executes it on its own
// goroutine and clients poll the task instead of blocking a request.
type Task struct {
	ID     string
	mu     sync.RWMutex
	status TaskStatus
	errMsg string
	result *engine.Result
}

// TaskManager tracks all async runs by id.
type TaskManager struct {
	tasks map[string]*Task
	mu    sync.RWMutex
}

// NewTaskManager creates an empty task manager.
func NewTaskManager() *TaskManager {
	return &TaskManager{tasks: make(map[string]*Task)}
}

// NewTask registers a fresh task with a unique id.
func (tm *TaskManager) NewTask() *Task {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	task := &Task{
		ID:     uuid.New().String(),
		status: TaskStatusStarted,
	}
	tm.tasks[task.ID] = task
	return task
}

// GetTask retrieves a task by id.
func (tm *TaskManager) GetTask(id string) (*Task, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	task, found := tm.tasks[id]
	return task, found
}

// SetRunning marks the task as executing.
func (t *Task) SetRunning() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = TaskStatusRunning
}

// Complete stores the result and marks the task finished.
func (t *Task) Complete(res engine.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = TaskStatusCompleted
	t.result = &res
}

// Fail marks the task as failed with the error message.
func (t *Task) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = TaskStatusFailed
	t.errMsg = err.Error()
}

// Snapshot returns the current status, error message and result (nil until
// completed) in one consistent read.
func (t *Task) Snapshot() (TaskStatus, string, *engine.Result) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status, t.errMsg, t.result
}
