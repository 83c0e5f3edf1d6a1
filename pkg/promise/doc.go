// Package promise provides a single-settlement asynchronous value with
// chaining combinators and pluggable continuation contexts.
//
// A Promise is created pending and settles exactly once. Continuations are
// attached with Then, ThenPromise, Handle, Catch and Always; each returns a
// new Promise so chains read top to bottom:
//
//	p := promise.Then(fetch(), func(b []byte) (string, error) {
//	    return string(b), nil
//	})
//	p.Catch(func(err error) (string, error) {
//	    return "fallback", nil
//	}).Always(func() {
//	    wg.Done()
//	})
//
// Continuation Contexts:
//
// By default a continuation runs inline on the goroutine that settled the
// promise, which for network work is usually some transport goroutine. Pass
// On(exec) to run it on an Executor instead, for example a SerialQueue that
// owns all user-visible callbacks:
//
//	queue := promise.NewSerialQueue()
//	defer queue.Close()
//	promise.Then(p, render, promise.On(queue))
//
// A promise created with On as a constructor option carries that executor as
// its default. Promises derived from a continuation inherit the executor that
// continuation ran on, so once a chain moves onto a context it stays there.
package promise
