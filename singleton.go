package loom

import (
	"context"
	"sync"
)

// inflight is one build attempt shared by every resolver that arrives while
// the attempt runs. The channel closes when the attempt settles.
type inflight struct {
	done chan struct{}
	val  any
	err  error
}

// SingletonFactory builds its service at most once and serves the cached
// value until disposed. Concurrent resolvers share a single in-flight build;
// a failed build clears the slot so a later resolution retries.
type SingletonFactory[T any] struct {
	token     Token[T]
	deps      []Dependency
	build     BuildFunc[T]
	disposeFn DisposeFunc[T]
	scope     Scope

	mu    sync.Mutex
	val   T
	ready bool
	fl    *inflight
}

// Singleton declares a singleton-lifecycle factory for token.
func Singleton[T any](token Token[T], build BuildFunc[T]) *SingletonFactory[T] {
	return &SingletonFactory[T]{token: token, build: build}
}

// DependsOn sets the ordered dependency list. Resolved values reach the
// build function in this order.
func (f *SingletonFactory[T]) DependsOn(deps ...Dependency) *SingletonFactory[T] {
	f.deps = deps
	return f
}

// Dispose sets the teardown hook, invoked with the cached value during a
// dispose sweep when a value is cached.
func (f *SingletonFactory[T]) Dispose(fn DisposeFunc[T]) *SingletonFactory[T] {
	f.disposeFn = fn
	return f
}

// InScope tags the factory for scoped dispose sweeps.
func (f *SingletonFactory[T]) InScope(scope Scope) *SingletonFactory[T] {
	f.scope = scope
	return f
}

func (f *SingletonFactory[T]) Token() TokenRef {
	return f.token
}

func (f *SingletonFactory[T]) Dependencies() []Dependency {
	deps := make([]Dependency, len(f.deps))
	copy(deps, f.deps)
	return deps
}

func (f *SingletonFactory[T]) Scope() Scope {
	return f.scope
}

func (f *SingletonFactory[T]) applyEntry(cfg *registryConfig) {
	cfg.factories = append(cfg.factories, f)
}

func (f *SingletonFactory[T]) resolve(ctx context.Context, reg *Registry) (any, error) {
	f.mu.Lock()
	if f.ready {
		v := f.val
		f.mu.Unlock()
		return v, nil
	}
	if f.fl != nil {
		fl := f.fl
		f.mu.Unlock()
		select {
		case <-fl.done:
			return fl.val, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fl := &inflight{done: make(chan struct{})}
	f.fl = fl
	f.mu.Unlock()

	args, err := reg.resolveDependencies(ctx, f.deps)

	var value T
	if err == nil {
		value, err = f.build(ctx, args)
	}

	f.mu.Lock()
	if err == nil {
		f.val = value
		f.ready = true
		fl.val = value
	} else {
		// Leave the slot empty so the next resolution retries the build.
		fl.err = err
	}
	if f.fl == fl {
		f.fl = nil
	}
	f.mu.Unlock()
	close(fl.done)

	if err != nil {
		return nil, err
	}
	return value, nil
}

func (f *SingletonFactory[T]) dispose(ctx context.Context) error {
	f.mu.Lock()
	value := f.val
	wasReady := f.ready

	var zero T
	f.val = zero
	f.ready = false
	f.fl = nil
	f.mu.Unlock()

	if wasReady && f.disposeFn != nil {
		return f.disposeFn(ctx, value)
	}
	return nil
}

func (f *SingletonFactory[T]) cached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}
