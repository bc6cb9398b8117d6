package pipeline

import "sync/atomic"

// State is the lifecycle of a Task.
type State int32

const (
	NotStarted State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Task is a conversion running on its own goroutine. It cannot be
// cancelled once submitted.
type Task struct {
	job   Job
	state atomic.Int32
	done  chan struct{}

	// written before done is closed
	result *Result
	err    error
}

// Submit starts job on a new goroutine and returns immediately.
func Submit(c *Converter, job Job) *Task {
	t := &Task{job: job, done: make(chan struct{})}
	go t.run(c)
	return t
}

func (t *Task) run(c *Converter) {
	t.state.Store(int32(Running))
	t.result, t.err = c.Convert(t.job)
	t.state.Store(int32(Finished))
	close(t.done)
}

// Job returns the submitted job.
func (t *Task) Job() Job { return t.job }

// Done is closed when the conversion has finished, successfully or not.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the conversion finishes and returns its outcome.
func (t *Task) Wait() (*Result, error) {
	<-t.done
	return t.result, t.err
}

// State returns the current lifecycle state.
func (t *Task) State() State { return State(t.state.Load()) }

// Progress is 0 until the conversion finishes and 100 afterwards; the
// codecs report nothing finer.
func (t *Task) Progress() int {
	if t.State() == Finished {
		return 100
	}
	return 0
}
