package loom_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomdi/loom"
)

// TestOneShot_BuildsEveryResolution verifies the build function runs per
// resolution and instances are distinct.
func TestOneShot_BuildsEveryResolution(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	tok := loom.NewToken[*widget]("job")

	reg, err := loom.New(
		loom.OneShot(tok, func(ctx context.Context, args loom.Args) (*widget, error) {
			return &widget{n: int(builds.Add(1))}, nil
		}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := loom.Resolve(ctx, reg, tok)
	require.NoError(t, err)
	second, err := loom.Resolve(ctx, reg, tok)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, first.n)
	assert.Equal(t, 2, second.n)
	assert.Equal(t, int32(2), builds.Load())
}

// TestOneShot_ResolvesDependencies verifies one-shot factories receive
// their dependencies like any other factory.
func TestOneShot_ResolvesDependencies(t *testing.T) {
	t.Parallel()

	cfg := loom.NewToken[string]("config")
	job := loom.NewToken[string]("job")

	reg, err := loom.New(
		loom.Singleton(cfg, constValue("base")),
		loom.OneShot(job, func(ctx context.Context, args loom.Args) (string, error) {
			return "job:" + loom.Arg[string](args, 0), nil
		}).DependsOn(cfg.Dep()),
	)
	require.NoError(t, err)

	v, err := loom.Resolve(context.Background(), reg, job)
	require.NoError(t, err)
	assert.Equal(t, "job:base", v)
}

// TestOneShot_DisposeReceivesZeroValue verifies the teardown sweep invokes
// a one-shot dispose hook with the zero value, since instances are not
// tracked.
func TestOneShot_DisposeReceivesZeroValue(t *testing.T) {
	t.Parallel()

	var hookCalls int
	var hookArg *widget = &widget{n: -1}
	tok := loom.NewToken[*widget]("job")

	reg, err := loom.New(
		loom.OneShot(tok, func(ctx context.Context, args loom.Args) (*widget, error) {
			return &widget{}, nil
		}).Dispose(func(ctx context.Context, w *widget) error {
			hookCalls++
			hookArg = w
			return nil
		}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = loom.Resolve(ctx, reg, tok)
	require.NoError(t, err)

	require.NoError(t, reg.Dispose(ctx))
	assert.Equal(t, 1, hookCalls)
	assert.Nil(t, hookArg)
}

// TestOneShot_DisposeWithoutHookIsNoop verifies a hook-less one-shot
// factory survives the sweep.
func TestOneShot_DisposeWithoutHookIsNoop(t *testing.T) {
	t.Parallel()

	tok := loom.NewToken[*widget]("job")

	reg, err := loom.New(
		loom.OneShot(tok, func(ctx context.Context, args loom.Args) (*widget, error) {
			return &widget{}, nil
		}),
	)
	require.NoError(t, err)

	require.NoError(t, reg.Dispose(context.Background()))
}
