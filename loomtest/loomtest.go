// Package loomtest provides helpers for using loom registries in tests.
package loomtest

import (
	"context"

	"github.com/loomdi/loom"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestRegistry wraps a registry whose teardown is tied to the test's
// lifetime.
type TestRegistry struct {
	*loom.Registry
	tb TB
}

// New builds a registry from entries, failing the test on a
// graph-definition error, and registers a cleanup that disposes it.
func New(tb TB, entries ...loom.Entry) *TestRegistry {
	tb.Helper()

	r, err := loom.New(entries...)
	if err != nil {
		tb.Fatalf("failed to build registry: %v", err)
		return &TestRegistry{tb: tb}
	}

	tr := &TestRegistry{
		Registry: r,
		tb:       tb,
	}

	tb.Cleanup(func() {
		if err := r.Dispose(context.Background()); err != nil {
			tb.Fatalf("failed to dispose registry: %v", err)
		}
	})

	return tr
}

// RequireDispose disposes the registry (optionally one scope at a time),
// failing the test on error.
func (tr *TestRegistry) RequireDispose(ctx context.Context, scopes ...loom.Scope) {
	tr.tb.Helper()

	if err := tr.Dispose(ctx, scopes...); err != nil {
		tr.tb.Fatalf("failed to dispose registry: %v", err)
	}
}

// MustResolve resolves token, failing the test on error.
func MustResolve[T any](tr *TestRegistry, token loom.Token[T]) T {
	tr.tb.Helper()

	v, err := loom.Resolve(context.Background(), tr.Registry, token)
	if err != nil {
		tr.tb.Fatalf("failed to resolve %s: %v", token.Name(), err)
	}
	return v
}

// MustResolveCtx is MustResolve with a caller-supplied context.
func MustResolveCtx[T any](ctx context.Context, tr *TestRegistry, token loom.Token[T]) T {
	tr.tb.Helper()

	v, err := loom.Resolve(ctx, tr.Registry, token)
	if err != nil {
		tr.tb.Fatalf("failed to resolve %s: %v", token.Name(), err)
	}
	return v
}

// AssertProvides fails the test unless the registry has a factory for
// token.
func (tr *TestRegistry) AssertProvides(token loom.TokenRef) {
	tr.tb.Helper()

	if !tr.Provides(token) {
		tr.tb.Fatalf("expected registry to provide %s", token.Name())
	}
}

// AssertNotProvides fails the test if the registry has a factory for token.
func (tr *TestRegistry) AssertNotProvides(token loom.TokenRef) {
	tr.tb.Helper()

	if tr.Provides(token) {
		tr.tb.Fatalf("expected registry to not provide %s", token.Name())
	}
}
