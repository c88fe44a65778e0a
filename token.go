package loom

import (
	"strings"

	"github.com/google/uuid"
)

// TokenRef is the type-erased view of a token. It is what the registry,
// dependency descriptors, and graph tooling hold when the value type does
// not matter.
type TokenRef interface {
	ID() uuid.UUID
	Name() string
}

// Token names a service of type T. Two tokens are the same service only if
// they share an identity; the display name exists for diagnostics and may
// collide freely.
type Token[T any] struct {
	id   uuid.UUID
	name string
}

// NewToken mints a token with a fresh process-unique identity.
func NewToken[T any](name string) Token[T] {
	return Token[T]{id: uuid.New(), name: name}
}

func (t Token[T]) ID() uuid.UUID {
	return t.id
}

func (t Token[T]) Name() string {
	return t.name
}

// Dep declares this token as a plain dependency: resolving it recurses into
// the providing factory.
func (t Token[T]) Dep() Dependency {
	return Dependency{token: t}
}

// SelectorToken groups several tokens of the same value type so that a
// dependent service can pick among them at call time. Its own value type is
// *Selector[T], and it is only meaningful inside a dependency list.
type SelectorToken[T any] struct {
	Token[*Selector[T]]

	members []Token[T]
}

// NewSelectorToken builds a selector token over the given member tokens.
// Member order is preserved.
func NewSelectorToken[T any](members ...Token[T]) SelectorToken[T] {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name()
	}

	owned := make([]Token[T], len(members))
	copy(owned, members)

	return SelectorToken[T]{
		Token:   NewToken[*Selector[T]]("Selector[" + strings.Join(names, ", ") + "]"),
		members: owned,
	}
}

// Members returns the declared member tokens in declaration order.
func (s SelectorToken[T]) Members() []Token[T] {
	members := make([]Token[T], len(s.members))
	copy(members, s.members)
	return members
}

// Dep declares this selector token as a dependency. Resolution hands the
// dependent build function a *Selector[T] bound to the resolving registry
// instead of recursing into any member factory.
func (s SelectorToken[T]) Dep() Dependency {
	refs := make([]TokenRef, len(s.members))
	for i, m := range s.members {
		refs[i] = m
	}

	return Dependency{
		token:    s.Token,
		selector: true,
		members:  refs,
		bind: func(r *Registry) any {
			return &Selector[T]{registry: r, token: s}
		},
	}
}
