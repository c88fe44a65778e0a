package loom

import "context"

// Selector lets a service pick among a selector token's members at call
// time instead of build time. One is constructed fresh for every dependency
// resolution; it holds no state beyond the registry and the token it was
// built from.
type Selector[T any] struct {
	registry *Registry
	token    SelectorToken[T]
}

// Token returns the selector token this selector was built from.
func (s *Selector[T]) Token() SelectorToken[T] {
	return s.token
}

// Get resolves one member token through the owning registry. Membership in
// the selector token's declared list is not re-checked here: it is enforced
// once, at registry construction, for the declared members only.
func (s *Selector[T]) Get(ctx context.Context, member Token[T]) (T, error) {
	return Resolve(ctx, s.registry, member)
}

// MustGet is Get, panicking on error.
func (s *Selector[T]) MustGet(ctx context.Context, member Token[T]) T {
	v, err := s.Get(ctx, member)
	if err != nil {
		panic(err)
	}
	return v
}
