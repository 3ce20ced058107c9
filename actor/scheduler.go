package actor

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cancellable is returned by Scheduler.ScheduleOnce/ScheduleRepeat.
// Cancel reports true iff it actually prevented a firing that would
// otherwise have happened: for a one-shot, iff the action had not yet
// started; for a repeating task, iff it stopped further firings.
// Idempotent after the first successful cancel.
type Cancellable interface {
	Cancel() bool
}

// Scheduler provides one-shot and repeating timed callbacks. Errors
// raised by a scheduled action are caught and logged; they never
// terminate the Scheduler or any other scheduled task.
type Scheduler struct {
	mu     sync.Mutex
	closed bool
	tasks  map[*scheduledTask]struct{}
	logger Logger
}

// NewScheduler constructs a Scheduler that logs action errors through
// logger (NopLogger if nil).
func NewScheduler(logger Logger) *Scheduler {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Scheduler{tasks: make(map[*scheduledTask]struct{}), logger: logger}
}

type scheduledTask struct {
	scheduler *Scheduler
	timer     *time.Timer
	interval  time.Duration
	repeating bool
	action    func() error
	cancelled atomic.Bool
	fired     atomic.Bool
	mu        sync.Mutex
}

// ScheduleOnce runs action once after delay.
func (s *Scheduler) ScheduleOnce(delay time.Duration, action func() error) Cancellable {
	task := &scheduledTask{scheduler: s, action: action}
	task.timer = time.AfterFunc(delay, func() { s.fireOnce(task) })
	s.track(task)
	return task
}

// ScheduleRepeat runs action once after initialDelay, then every
// interval thereafter, until cancelled.
func (s *Scheduler) ScheduleRepeat(initialDelay, interval time.Duration, action func() error) Cancellable {
	task := &scheduledTask{scheduler: s, action: action, interval: interval, repeating: true}
	task.timer = time.AfterFunc(initialDelay, func() { s.fireRepeat(task) })
	s.track(task)
	return task
}

func (s *Scheduler) track(task *scheduledTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		task.timer.Stop()
		return
	}
	s.tasks[task] = struct{}{}
}

func (s *Scheduler) untrack(task *scheduledTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, task)
}

func (s *Scheduler) fireOnce(task *scheduledTask) {
	task.fired.Store(true)
	s.runAction(task)
	s.untrack(task)
}

func (s *Scheduler) fireRepeat(task *scheduledTask) {
	if task.cancelled.Load() {
		return
	}
	task.fired.Store(true)
	s.runAction(task)

	task.mu.Lock()
	cancelled := task.cancelled.Load()
	if !cancelled {
		task.timer = time.AfterFunc(task.interval, func() { s.fireRepeat(task) })
	}
	task.mu.Unlock()
}

func (s *Scheduler) runAction(task *scheduledTask) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("scheduled action panicked", "panic", r)
		}
	}()
	if err := task.action(); err != nil {
		s.logger.Errorw("scheduled action failed", "error", err)
	}
}

// Cancel stops further firings. For a one-shot it returns true iff the
// action had not yet started; for a repeating task, true iff it
// prevented at least one further firing.
func (t *scheduledTask) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled.Load() {
		return false
	}
	t.cancelled.Store(true)
	t.scheduler.untrack(t)
	if t.repeating {
		// fireRepeat re-checks cancelled before running and before
		// rescheduling, so a first Cancel always prevents further firings.
		t.timer.Stop()
		return true
	}
	stopped := t.timer.Stop()
	return stopped && !t.fired.Load()
}

// Close cancels every outstanding task. Idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tasks := make([]*scheduledTask, 0, len(s.tasks))
	for t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.tasks = make(map[*scheduledTask]struct{})
	s.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}
