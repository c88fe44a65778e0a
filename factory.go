package loom

import (
	"context"
	"fmt"
)

// Scope is an opaque grouping tag on factories. Dispose can target a single
// scope; the zero value means unscoped.
type Scope string

// BuildFunc constructs a service value. args holds the resolved dependency
// values in the same order the factory declared its dependencies.
type BuildFunc[T any] func(ctx context.Context, args Args) (T, error)

// DisposeFunc tears a service value down. One-shot factories invoke it with
// the zero value of T, since one-shot instances are not tracked.
type DisposeFunc[T any] func(ctx context.Context, value T) error

// Args carries resolved dependency values, positionally matching the
// factory's declared dependency order.
type Args []any

// Arg returns the i-th resolved dependency as T. It panics when the slot
// holds a different type, which means the factory's dependency list and its
// build function disagree.
func Arg[T any](args Args, i int) T {
	v, ok := args[i].(T)
	if !ok {
		panic(fmt.Sprintf("loom: argument %d has type %T", i, args[i]))
	}
	return v
}

// Factory describes how to build one service: the token it provides, the
// tokens it needs, and its lifecycle. Only the Singleton and OneShot
// constructors produce factories.
type Factory interface {
	Entry

	Token() TokenRef
	Dependencies() []Dependency
	Scope() Scope

	resolve(ctx context.Context, reg *Registry) (any, error)
	dispose(ctx context.Context) error
	cached() bool
}
