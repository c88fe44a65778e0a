package loom

import "context"

// OneShotFactory builds a fresh service value on every resolution. Nothing
// is cached and returned instances are not tracked.
type OneShotFactory[T any] struct {
	token     Token[T]
	deps      []Dependency
	build     BuildFunc[T]
	disposeFn DisposeFunc[T]
	scope     Scope
}

// OneShot declares a transient-lifecycle factory for token.
func OneShot[T any](token Token[T], build BuildFunc[T]) *OneShotFactory[T] {
	return &OneShotFactory[T]{token: token, build: build}
}

// DependsOn sets the ordered dependency list. Resolved values reach the
// build function in this order.
func (f *OneShotFactory[T]) DependsOn(deps ...Dependency) *OneShotFactory[T] {
	f.deps = deps
	return f
}

// Dispose sets the teardown hook. The dispose sweep invokes it with the
// zero value of T because one-shot instances are not tracked after being
// returned.
func (f *OneShotFactory[T]) Dispose(fn DisposeFunc[T]) *OneShotFactory[T] {
	f.disposeFn = fn
	return f
}

// InScope tags the factory for scoped dispose sweeps.
func (f *OneShotFactory[T]) InScope(scope Scope) *OneShotFactory[T] {
	f.scope = scope
	return f
}

func (f *OneShotFactory[T]) Token() TokenRef {
	return f.token
}

func (f *OneShotFactory[T]) Dependencies() []Dependency {
	deps := make([]Dependency, len(f.deps))
	copy(deps, f.deps)
	return deps
}

func (f *OneShotFactory[T]) Scope() Scope {
	return f.scope
}

func (f *OneShotFactory[T]) applyEntry(cfg *registryConfig) {
	cfg.factories = append(cfg.factories, f)
}

func (f *OneShotFactory[T]) resolve(ctx context.Context, reg *Registry) (any, error) {
	args, err := reg.resolveDependencies(ctx, f.deps)
	if err != nil {
		return nil, err
	}

	value, err := f.build(ctx, args)
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (f *OneShotFactory[T]) dispose(ctx context.Context) error {
	if f.disposeFn == nil {
		return nil
	}
	var zero T
	return f.disposeFn(ctx, zero)
}

func (f *OneShotFactory[T]) cached() bool {
	return false
}
