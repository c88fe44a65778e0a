package loom

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/loomdi/loom/internal/graph"
)

// Entry is anything New accepts: a Factory, a previously built *Registry
// (contributing all of its factories), or an Option.
type Entry interface {
	applyEntry(cfg *registryConfig)
}

type registryConfig struct {
	factories []Factory
	logger    *slog.Logger
}

// Registry is an immutable, validated collection of factories. Composing
// more factories onto an existing registry means building a new one:
// New(old, overrides...).
type Registry struct {
	factories []Factory
	index     map[uuid.UUID]Factory
	graph     *graph.Graph[uuid.UUID]
	logger    *slog.Logger
}

// New flattens the entries into factories (registries contribute theirs in
// place), deduplicates by token identity with last-registered-wins, and
// validates the dependency graph. No registry is returned on a validation
// failure.
func New(entries ...Entry) (*Registry, error) {
	cfg := &registryConfig{logger: slog.Default()}
	for _, e := range entries {
		if e == nil {
			continue
		}
		e.applyEntry(cfg)
	}

	position := make(map[uuid.UUID]int, len(cfg.factories))
	var factories []Factory
	for _, f := range cfg.factories {
		id := f.Token().ID()
		if i, seen := position[id]; seen {
			factories[i] = f
			continue
		}
		position[id] = len(factories)
		factories = append(factories, f)
	}

	index := make(map[uuid.UUID]Factory, len(factories))
	for _, f := range factories {
		index[f.Token().ID()] = f
	}

	g, err := validate(factories, index)
	if err != nil {
		return nil, err
	}

	return &Registry{
		factories: factories,
		index:     index,
		graph:     g,
		logger:    cfg.logger,
	}, nil
}

// MustNew is New, panicking on a graph-definition error.
func MustNew(entries ...Entry) *Registry {
	r, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// validate runs the construction-time passes over every factory, scanning
// factories in registration order and each dependency list in declaration
// order:
//
//  1. a factory whose plain dependencies contain its own token is rejected
//     immediately;
//  2. every plain dependency and every selector member must have a
//     registered factory; all missing tokens are collected and reported in
//     one error;
//  3. the plain-dependency edges must be acyclic. Selector edges are not
//     cycle edges because resolving a selector does not recurse.
func validate(factories []Factory, index map[uuid.UUID]Factory) (*graph.Graph[uuid.UUID], error) {
	for _, f := range factories {
		for _, d := range f.Dependencies() {
			if !d.IsSelector() && d.Token().ID() == f.Token().ID() {
				return nil, errSelfDependency(f.Token().Name())
			}
		}
	}

	var missing []string
	seen := make(map[uuid.UUID]struct{})
	note := func(t TokenRef) {
		if _, ok := index[t.ID()]; ok {
			return
		}
		if _, dup := seen[t.ID()]; dup {
			return
		}
		seen[t.ID()] = struct{}{}
		missing = append(missing, t.Name())
	}
	for _, f := range factories {
		for _, d := range f.Dependencies() {
			if d.IsSelector() {
				for _, m := range d.Members() {
					note(m)
				}
				continue
			}
			note(d.Token())
		}
	}
	if len(missing) > 0 {
		return nil, errMissingDependencies(missing)
	}

	g := graph.New[uuid.UUID]()
	for _, f := range factories {
		var deps []uuid.UUID
		for _, d := range f.Dependencies() {
			if !d.IsSelector() {
				deps = append(deps, d.Token().ID())
			}
		}
		g.AddNode(f.Token().ID(), deps)
	}

	if cycle := g.FindCycle(); cycle != nil {
		names := make([]string, len(cycle))
		for i, id := range cycle {
			names[i] = index[id].Token().Name()
		}
		return nil, errCircularDependency(names)
	}

	return g, nil
}

func (r *Registry) applyEntry(cfg *registryConfig) {
	cfg.factories = append(cfg.factories, r.factories...)
}

// Provides reports whether a factory is registered for token.
func (r *Registry) Provides(token TokenRef) bool {
	_, ok := r.index[token.ID()]
	return ok
}

// Size returns the number of registered factories.
func (r *Registry) Size() int {
	return len(r.factories)
}

// Get resolves the service for token, building it and its dependencies as
// required by the factory lifecycles. A token with no factory fails with a
// not-found error; that is legitimate even after validation, since callers
// may request tokens never named in any dependency list. Errors returned by
// build functions propagate unmodified.
func (r *Registry) Get(ctx context.Context, token TokenRef) (any, error) {
	f, ok := r.index[token.ID()]
	if !ok {
		return nil, errTokenNotFound(token.Name())
	}
	return f.resolve(ctx, r)
}

// resolveDependencies produces the build arguments for deps, positionally
// matching declaration order. Plain dependencies resolve concurrently;
// selector dependencies construct a fresh Selector without recursing.
func (r *Registry) resolveDependencies(ctx context.Context, deps []Dependency) (Args, error) {
	if len(deps) == 0 {
		return nil, nil
	}

	args := make(Args, len(deps))

	if len(deps) == 1 {
		d := deps[0]
		if d.IsSelector() {
			args[0] = d.bind(r)
			return args, nil
		}
		v, err := r.Get(ctx, d.Token())
		if err != nil {
			return nil, err
		}
		args[0] = v
		return args, nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(deps))

	for i, d := range deps {
		if d.IsSelector() {
			args[i] = d.bind(r)
			continue
		}

		wg.Add(1)
		go func(i int, d Dependency) {
			defer wg.Done()
			v, err := r.Get(ctx, d.Token())
			if err != nil {
				errCh <- err
				return
			}
			args[i] = v
		}(i, d)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	return args, nil
}

// Dispose runs the teardown hooks of the selected factories: all of them
// when no scope is given, otherwise only factories tagged with one of the
// given scopes. The sweep walks the plain-dependency graph in reverse
// topological order, so dependents are torn down before what they depend
// on. Hook errors are collected rather than aborting the sweep. Disposing
// twice is safe: the second sweep finds nothing cached.
func (r *Registry) Dispose(ctx context.Context, scopes ...Scope) error {
	order, err := r.graph.ReverseTopologicalSort()
	if err != nil {
		// Validation guarantees an acyclic graph.
		return errDisposeFailed(err)
	}

	var errs []error
	for _, id := range order {
		f := r.index[id]
		if len(scopes) > 0 && !scopeMatches(f.Scope(), scopes) {
			continue
		}

		r.logger.Debug("disposing service", "token", f.Token().Name(), "scope", string(f.Scope()))
		if err := f.dispose(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errDisposeFailed(errors.Join(errs...))
	}
	return nil
}

func scopeMatches(s Scope, scopes []Scope) bool {
	for _, candidate := range scopes {
		if s == candidate {
			return true
		}
	}
	return false
}

// FactoryInfo is the structural view of one registered factory, enough for
// diagnostics and graph rendering without touching build functions.
type FactoryInfo struct {
	Token     TokenRef
	DependsOn []Dependency
	Scope     Scope
}

// Factories returns the registered factories' structure in registration
// order.
func (r *Registry) Factories() []FactoryInfo {
	infos := make([]FactoryInfo, len(r.factories))
	for i, f := range r.factories {
		infos[i] = FactoryInfo{
			Token:     f.Token(),
			DependsOn: f.Dependencies(),
			Scope:     f.Scope(),
		}
	}
	return infos
}
