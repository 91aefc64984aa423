// Package async runs blocking work off the control goroutine and delivers results
// back only while the owner that issued them is still alive.
package async

import (
	"context"
	"sync"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/metrics"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
)

// Poster hands a completion to the goroutine that owns the view state.
type Poster func(func())

// Inline runs completions on the worker goroutine.
func Inline(fn func()) { fn() }

// Scope ties in-flight work to an owner such as a screen. Teardown cancels the
// work and bumps the generation so completions that arrive later are dropped.
type Scope struct {
	mu         sync.Mutex
	parent     context.Context
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	post       Poster
	wg         sync.WaitGroup
}

func NewScope(parent context.Context, post Poster) *Scope {
	if post == nil {
		post = Inline
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{parent: parent, ctx: ctx, cancel: cancel, post: post}
}

// Context returns the context of the current generation.
func (s *Scope) Context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Scope) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Teardown cancels everything issued so far. The scope stays usable; work started
// afterwards belongs to the next generation.
func (s *Scope) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	s.generation++
	s.ctx, s.cancel = context.WithCancel(s.parent)
}

// Close tears the scope down and waits for running work to return.
func (s *Scope) Close() {
	s.Teardown()
	s.wg.Wait()
}

func (s *Scope) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == gen
}

// Go runs work on its own goroutine and posts done with the result, unless the
// scope was torn down in the meantime.
func Go[T any](s *Scope, work func(ctx context.Context) (T, error), done func(T, error)) {
	s.mu.Lock()
	ctx, gen := s.ctx, s.generation
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		result, err := work(ctx)
		if !s.current(gen) {
			metrics.DroppedCompletionsTotal.Inc()
			logger.Debug().Uint64("generation", gen).Msg("dropped completion of torn-down scope")
			return
		}
		s.post(func() {
			// re-check on the owner goroutine; teardown may have happened while queued
			if !s.current(gen) {
				metrics.DroppedCompletionsTotal.Inc()
				return
			}
			if done != nil {
				done(result, err)
			}
		})
	}()
}
