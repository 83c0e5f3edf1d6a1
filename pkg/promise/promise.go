package promise

import (
	"context"
	"sync"
)

type state int

const (
	pending state = iota
	fulfilled
	rejected
)

// Promise is a single-settlement asynchronous value.
//
// A Promise starts pending and settles exactly once, either fulfilled with a
// value or rejected with an error. Continuations registered before settlement
// are queued and run when it happens; continuations registered afterwards run
// immediately on their executor.
//
// Promise is safe for concurrent use.
type Promise[T any] struct {
	mu        sync.Mutex
	state     state
	value     T
	err       error
	callbacks []func()
	done      chan struct{}

	// executor is used by continuations that do not name one with On.
	executor Executor
}

// Option configures how a continuation or a new promise is scheduled.
type Option func(*options)

type options struct {
	executor Executor
}

// On schedules the continuation on exec instead of inline on the goroutine
// that settled the promise. When passed to a constructor it sets the default
// executor for the promise and every promise derived from it.
func On(exec Executor) Option {
	return func(o *options) {
		o.executor = exec
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newPromise[T any](exec Executor) *Promise[T] {
	return &Promise[T]{
		done:     make(chan struct{}),
		executor: exec,
	}
}

// New creates a pending promise and runs work synchronously with its resolver
// functions. work may hand the functions to another goroutine and settle
// later. Only the first call to either function has an effect; both report
// whether they settled the promise.
func New[T any](work func(fulfill func(T) bool, reject func(error) bool), opts ...Option) *Promise[T] {
	o := applyOptions(opts)
	p := newPromise[T](o.executor)
	work(p.fulfill, p.reject)
	return p
}

// Resolved returns a promise already fulfilled with v.
func Resolved[T any](v T, opts ...Option) *Promise[T] {
	o := applyOptions(opts)
	p := newPromise[T](o.executor)
	p.fulfill(v)
	return p
}

// Rejected returns a promise already rejected with err.
func Rejected[T any](err error, opts ...Option) *Promise[T] {
	o := applyOptions(opts)
	p := newPromise[T](o.executor)
	p.reject(err)
	return p
}

func (p *Promise[T]) fulfill(v T) bool {
	return p.settle(fulfilled, v, nil)
}

func (p *Promise[T]) reject(err error) bool {
	var zero T
	return p.settle(rejected, zero, err)
}

func (p *Promise[T]) settle(s state, v T, err error) bool {
	p.mu.Lock()
	if p.state != pending {
		p.mu.Unlock()
		return false
	}
	p.state = s
	p.value = v
	p.err = err
	callbacks := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
	return true
}

// subscribe runs fn on exec once the promise has settled.
func (p *Promise[T]) subscribe(exec Executor, fn func()) {
	task := func() {
		if exec == nil {
			fn()
			return
		}
		exec.Submit(fn)
	}

	p.mu.Lock()
	if p.state == pending {
		p.callbacks = append(p.callbacks, task)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	task()
}

// resolveExecutor picks the continuation executor: an explicit On wins,
// otherwise the promise default applies. The chosen executor also becomes the
// default of the derived promise.
func (p *Promise[T]) resolveExecutor(opts []Option) Executor {
	o := applyOptions(opts)
	if o.executor != nil {
		return o.executor
	}
	return p.executor
}

// outcome must only be called after settlement.
func (p *Promise[T]) outcome() (T, error, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err, p.state == fulfilled
}

// Executor returns the default executor of the promise, or nil when
// continuations run inline.
func (p *Promise[T]) Executor() Executor {
	return p.executor
}

// Done returns a channel closed once the promise has settled.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Result reports the current outcome. settled is false while pending.
func (p *Promise[T]) Result() (value T, err error, settled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err, p.state != pending
}

// Wait blocks the calling goroutine until the promise settles or ctx is done.
// It is meant for callers at the edge of a program (tests, CLIs); the
// pipeline itself never waits.
//
// Never call Wait from a task running on the serial executor that settles p,
// such as a continuation on Main(): p cannot settle while that queue is
// blocked, so Wait deadlocks.
func (p *Promise[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		v, err, _ := p.outcome()
		return v, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then registers transform for fulfillment. The returned promise fulfills
// with the transform result, or rejects with the transform error. A rejection
// of p passes through and transform is not called.
func Then[T, U any](p *Promise[T], transform func(T) (U, error), opts ...Option) *Promise[U] {
	exec := p.resolveExecutor(opts)
	next := newPromise[U](exec)
	p.subscribe(exec, func() {
		v, err, ok := p.outcome()
		if !ok {
			next.reject(err)
			return
		}
		u, err := transform(v)
		if err != nil {
			next.reject(err)
			return
		}
		next.fulfill(u)
	})
	return next
}

// ThenPromise is Then for transforms that themselves return a promise. The
// returned promise settles with the inner promise's outcome.
func ThenPromise[T, U any](p *Promise[T], transform func(T) *Promise[U], opts ...Option) *Promise[U] {
	exec := p.resolveExecutor(opts)
	next := newPromise[U](exec)
	p.subscribe(exec, func() {
		v, err, ok := p.outcome()
		if !ok {
			next.reject(err)
			return
		}
		inner := transform(v)
		if inner == nil {
			var zero U
			next.fulfill(zero)
			return
		}
		inner.subscribe(nil, func() {
			u, err, ok := inner.outcome()
			if !ok {
				next.reject(err)
				return
			}
			next.fulfill(u)
		})
	})
	return next
}

// Handle registers one continuation for both outcomes. Exactly one of
// onValue and onError runs, and its result settles the returned promise.
func Handle[T, U any](p *Promise[T], onValue func(T) (U, error), onError func(error) (U, error), opts ...Option) *Promise[U] {
	exec := p.resolveExecutor(opts)
	next := newPromise[U](exec)
	p.subscribe(exec, func() {
		v, err, ok := p.outcome()
		var (
			u    U
			uerr error
		)
		if ok {
			u, uerr = onValue(v)
		} else {
			u, uerr = onError(err)
		}
		if uerr != nil {
			next.reject(uerr)
			return
		}
		next.fulfill(u)
	})
	return next
}

// Catch registers handler for rejection. When handler returns a nil error the
// returned promise fulfills with its value; otherwise it rejects with the
// handler's error. A fulfillment passes through and handler is not called.
func (p *Promise[T]) Catch(handler func(error) (T, error), opts ...Option) *Promise[T] {
	return Handle(p, func(v T) (T, error) {
		return v, nil
	}, handler, opts...)
}

// Always registers fn to run once whatever the outcome. The returned promise
// settles like p after fn has run.
func (p *Promise[T]) Always(fn func(), opts ...Option) *Promise[T] {
	return Handle(p, func(v T) (T, error) {
		fn()
		return v, nil
	}, func(err error) (T, error) {
		fn()
		var zero T
		return zero, err
	}, opts...)
}
