package loom_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomdi/loom"
)

func constValue[T any](v T) loom.BuildFunc[T] {
	return func(ctx context.Context, args loom.Args) (T, error) {
		return v, nil
	}
}

// TestNew_Valid verifies a well-formed graph builds and exposes one factory
// per token in registration order.
func TestNew_Valid(t *testing.T) {
	t.Parallel()

	a := loom.NewToken[string]("a")
	b := loom.NewToken[string]("b")

	reg, err := loom.New(
		loom.Singleton(a, constValue("A")),
		loom.Singleton(b, constValue("B")).DependsOn(a.Dep()),
	)
	require.NoError(t, err)

	infos := reg.Factories()
	require.Len(t, infos, 2)
	assert.Equal(t, a.ID(), infos[0].Token.ID())
	assert.Equal(t, b.ID(), infos[1].Token.ID())
	require.Len(t, infos[1].DependsOn, 1)
	assert.Equal(t, a.ID(), infos[1].DependsOn[0].Token().ID())

	assert.True(t, reg.Provides(a))
	assert.Equal(t, 2, reg.Size())
}

// TestNew_DuplicateTokenLastWins verifies deduplication keeps the last
// registered factory for a token.
func TestNew_DuplicateTokenLastWins(t *testing.T) {
	t.Parallel()

	tok := loom.NewToken[string]("value")

	reg, err := loom.New(
		loom.Singleton(tok, constValue("first")),
		loom.Singleton(tok, constValue("second")),
	)
	require.NoError(t, err)
	require.Equal(t, 1, reg.Size())

	v, err := loom.Resolve(context.Background(), reg, tok)
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

// TestNew_RegistryMergeOverride verifies a factory entry overrides a token
// already provided by a registry entry.
func TestNew_RegistryMergeOverride(t *testing.T) {
	t.Parallel()

	cfg := loom.NewToken[string]("config")
	app := loom.NewToken[string]("app")

	base, err := loom.New(
		loom.Singleton(cfg, constValue("base")),
		loom.Singleton(app, func(ctx context.Context, args loom.Args) (string, error) {
			return "app:" + loom.Arg[string](args, 0), nil
		}).DependsOn(cfg.Dep()),
	)
	require.NoError(t, err)

	override, err := loom.New(
		base,
		loom.Singleton(cfg, constValue("test")),
	)
	require.NoError(t, err)

	v, err := loom.Resolve(context.Background(), override, app)
	require.NoError(t, err)
	assert.Equal(t, "app:test", v)

	// The original registry is untouched.
	v, err = loom.Resolve(context.Background(), base, app)
	require.NoError(t, err)
	assert.Equal(t, "app:base", v)
}

// TestNew_SelfDependency verifies a factory depending on its own token is
// rejected with an error naming the token.
func TestNew_SelfDependency(t *testing.T) {
	t.Parallel()

	a := loom.NewToken[string]("selfish")

	f := loom.Singleton(a, constValue("A")).DependsOn(a.Dep())
	reg, err := loom.New(f)

	require.Nil(t, reg)
	require.Error(t, err)
	assert.True(t, loom.IsSelfDependency(err))
	assert.True(t, loom.IsGraphDefinition(err))
	assert.Contains(t, err.Error(), "selfish")
}

// TestNew_MissingDependency verifies unregistered dependency tokens are
// collected into a single error listing every missing name.
func TestNew_MissingDependency(t *testing.T) {
	t.Parallel()

	a := loom.NewToken[string]("a")
	b := loom.NewToken[string]("b-missing")
	c := loom.NewToken[string]("c-missing")

	reg, err := loom.New(
		loom.Singleton(a, constValue("A")).DependsOn(b.Dep(), c.Dep()),
	)

	require.Nil(t, reg)
	require.Error(t, err)
	assert.True(t, loom.IsMissingDependencies(err))
	assert.True(t, loom.IsGraphDefinition(err))
	assert.Contains(t, err.Error(), "b-missing")
	assert.Contains(t, err.Error(), "c-missing")
}

// TestNew_MissingSelectorMember verifies selector members are validated and
// only the unregistered ones are reported.
func TestNew_MissingSelectorMember(t *testing.T) {
	t.Parallel()

	b := loom.NewToken[string]("b-missing")
	c := loom.NewToken[string]("c-present")
	sel := loom.NewSelectorToken(b, c)
	consumer := loom.NewToken[string]("consumer")

	reg, err := loom.New(
		loom.Singleton(c, constValue("C")),
		loom.Singleton(consumer, constValue("X")).DependsOn(sel.Dep()),
	)

	require.Nil(t, reg)
	require.Error(t, err)
	assert.True(t, loom.IsMissingDependencies(err))
	assert.Contains(t, err.Error(), "b-missing")
	assert.NotContains(t, err.Error(), "c-present")
}

// TestNew_CircularDependency verifies a two-node cycle is rejected at
// construction time.
func TestNew_CircularDependency(t *testing.T) {
	t.Parallel()

	a := loom.NewToken[string]("ring-a")
	b := loom.NewToken[string]("ring-b")

	reg, err := loom.New(
		loom.Singleton(a, constValue("A")).DependsOn(b.Dep()),
		loom.Singleton(b, constValue("B")).DependsOn(a.Dep()),
	)

	require.Nil(t, reg)
	require.Error(t, err)
	assert.True(t, loom.IsCircularDependency(err))
	assert.True(t, loom.IsGraphDefinition(err))
	assert.Contains(t, err.Error(), "ring-a")
	assert.Contains(t, err.Error(), "ring-b")
}

// TestNew_SelectorEdgesAreNotCycleEdges verifies mutual reachability
// through a selector is allowed: selectors do not recurse at resolution
// time, so they do not close cycles.
func TestNew_SelectorEdgesAreNotCycleEdges(t *testing.T) {
	t.Parallel()

	worker := loom.NewToken[string]("worker")
	boss := loom.NewToken[string]("boss")
	workers := loom.NewSelectorToken(worker)

	_, err := loom.New(
		loom.Singleton(worker, constValue("w")).DependsOn(boss.Dep()),
		loom.Singleton(boss, constValue("b")).DependsOn(workers.Dep()),
	)
	require.NoError(t, err)
}

// TestMustNew_PanicsOnInvalidGraph verifies MustNew panics where New
// errors.
func TestMustNew_PanicsOnInvalidGraph(t *testing.T) {
	t.Parallel()

	a := loom.NewToken[string]("selfish")
	f := loom.Singleton(a, constValue("A")).DependsOn(a.Dep())

	assert.Panics(t, func() {
		loom.MustNew(f)
	})
}

// TestGet_UnregisteredToken verifies requesting a token with no factory
// fails with a not-found error naming it.
func TestGet_UnregisteredToken(t *testing.T) {
	t.Parallel()

	reg, err := loom.New()
	require.NoError(t, err)

	ghost := loom.NewToken[string]("ghost")
	_, err = loom.Resolve(context.Background(), reg, ghost)

	require.Error(t, err)
	assert.True(t, loom.IsNotFound(err))
	assert.Contains(t, err.Error(), "ghost")
}

// TestResolve_DependencyChain covers the config/app scenario: the app build
// function receives the already built config value.
func TestResolve_DependencyChain(t *testing.T) {
	t.Parallel()

	cfg := loom.NewToken[string]("config")
	app := loom.NewToken[string]("app")

	reg, err := loom.New(
		loom.Singleton(cfg, constValue("base")),
		loom.Singleton(app, func(ctx context.Context, args loom.Args) (string, error) {
			return "app:" + loom.Arg[string](args, 0), nil
		}).DependsOn(cfg.Dep()),
	)
	require.NoError(t, err)

	v, err := loom.Resolve(context.Background(), reg, app)
	require.NoError(t, err)
	assert.Equal(t, "app:base", v)
}

// TestResolve_PositionalArgOrder verifies dependency values map to build
// arguments in declaration order even though they resolve concurrently.
func TestResolve_PositionalArgOrder(t *testing.T) {
	t.Parallel()

	first := loom.NewToken[string]("first")
	second := loom.NewToken[int]("second")
	third := loom.NewToken[bool]("third")
	combined := loom.NewToken[string]("combined")

	reg, err := loom.New(
		loom.Singleton(first, constValue("one")),
		loom.Singleton(second, constValue(2)),
		loom.Singleton(third, constValue(true)),
		loom.Singleton(combined, func(ctx context.Context, args loom.Args) (string, error) {
			a := loom.Arg[string](args, 0)
			b := loom.Arg[int](args, 1)
			c := loom.Arg[bool](args, 2)
			if a != "one" || b != 2 || c != true {
				t.Errorf("arguments out of order: %v", args)
			}
			return "ok", nil
		}).DependsOn(first.Dep(), second.Dep(), third.Dep()),
	)
	require.NoError(t, err)

	v, err := loom.Resolve(context.Background(), reg, combined)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

// TestResolve_SharedDependency verifies two services depending on the same
// singleton see the same instance.
func TestResolve_SharedDependency(t *testing.T) {
	t.Parallel()

	type conf struct{ n int }

	cfg := loom.NewToken[*conf]("config")
	left := loom.NewToken[*conf]("left")
	right := loom.NewToken[*conf]("right")

	passthrough := func(ctx context.Context, args loom.Args) (*conf, error) {
		return loom.Arg[*conf](args, 0), nil
	}

	reg, err := loom.New(
		loom.Singleton(cfg, constValue(&conf{n: 7})),
		loom.Singleton(left, passthrough).DependsOn(cfg.Dep()),
		loom.Singleton(right, passthrough).DependsOn(cfg.Dep()),
	)
	require.NoError(t, err)

	ctx := context.Background()
	l, err := loom.Resolve(ctx, reg, left)
	require.NoError(t, err)
	r, err := loom.Resolve(ctx, reg, right)
	require.NoError(t, err)

	assert.Same(t, l, r)
}

// TestResolve_BuildErrorPropagatesUnwrapped verifies user build errors
// reach the top-level caller without being wrapped by the engine.
func TestResolve_BuildErrorPropagatesUnwrapped(t *testing.T) {
	t.Parallel()

	boom := assert.AnError

	leaf := loom.NewToken[string]("leaf")
	root := loom.NewToken[string]("root")

	reg, err := loom.New(
		loom.Singleton(leaf, func(ctx context.Context, args loom.Args) (string, error) {
			return "", boom
		}),
		loom.Singleton(root, func(ctx context.Context, args loom.Args) (string, error) {
			return loom.Arg[string](args, 0), nil
		}).DependsOn(leaf.Dep()),
	)
	require.NoError(t, err)

	_, err = loom.Resolve(context.Background(), reg, root)
	require.Error(t, err)
	assert.Same(t, boom, err)
}

// TestTryResolve verifies the boolean variant.
func TestTryResolve(t *testing.T) {
	t.Parallel()

	tok := loom.NewToken[string]("value")
	reg, err := loom.New(loom.Singleton(tok, constValue("v")))
	require.NoError(t, err)

	v, ok := loom.TryResolve(context.Background(), reg, tok)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = loom.TryResolve(context.Background(), reg, loom.NewToken[string]("ghost"))
	assert.False(t, ok)
}

// TestMustResolve_PanicsOnError verifies MustResolve panics for an
// unregistered token.
func TestMustResolve_PanicsOnError(t *testing.T) {
	t.Parallel()

	reg, err := loom.New()
	require.NoError(t, err)

	assert.Panics(t, func() {
		loom.MustResolve(context.Background(), reg, loom.NewToken[string]("ghost"))
	})
}
