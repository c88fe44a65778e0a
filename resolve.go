package loom

import "context"

// Resolve is the typed front of Registry.Get.
func Resolve[T any](ctx context.Context, r *Registry, token Token[T]) (T, error) {
	var zero T

	v, err := r.Get(ctx, token)
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errTypeMismatch(token.Name())
	}
	return typed, nil
}

// MustResolve is Resolve, panicking on error.
func MustResolve[T any](ctx context.Context, r *Registry, token Token[T]) T {
	v, err := Resolve(ctx, r, token)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve is Resolve with the error collapsed to a bool.
func TryResolve[T any](ctx context.Context, r *Registry, token Token[T]) (T, bool) {
	v, err := Resolve(ctx, r, token)
	return v, err == nil
}
