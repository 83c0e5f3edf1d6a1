package promise

import "sync"

// Executor is a continuation context: it accepts zero-argument tasks and
// decides where they run.
type Executor interface {
	Submit(task func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(task func())

// Submit calls f(task).
func (f ExecutorFunc) Submit(task func()) {
	f(task)
}

// Inline runs every task immediately on the submitting goroutine.
var Inline Executor = ExecutorFunc(func(task func()) { task() })

// Goroutine runs every task on a fresh goroutine. Tasks are not ordered.
var Goroutine Executor = ExecutorFunc(func(task func()) { go task() })

// SerialQueue runs submitted tasks one at a time, in submission order, on a
// single dedicated goroutine. Submit never blocks, so a task may submit
// further work to its own queue.
type SerialQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool
	done   chan struct{}
}

// NewSerialQueue starts a queue. Call Close to stop its goroutine.
func NewSerialQueue() *SerialQueue {
	q := &SerialQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Submit appends task to the queue. Tasks submitted after Close run on their
// own goroutine so that no settlement is ever lost.
func (q *SerialQueue) Submit(task func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		go task()
		return
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
	q.cond.Signal()
}

// Close stops accepting work and waits for already queued tasks to finish.
// It must not be called from a task running on the queue.
func (q *SerialQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
	<-q.done
}

func (q *SerialQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
	}
}

var (
	mainOnce  sync.Once
	mainQueue *SerialQueue
)

// Main returns the process-wide serial queue, started on first use. It is
// the default continuation context of http.Client.
func Main() *SerialQueue {
	mainOnce.Do(func() {
		mainQueue = NewSerialQueue()
	})
	return mainQueue
}
