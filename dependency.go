package loom

// Dependency is one entry of a factory's dependency list. It is a tagged
// variant fixed at definition time: either a plain token, resolved by
// recursing into its factory, or a selector token, resolved by constructing
// a Selector without recursion.
type Dependency struct {
	token    TokenRef
	selector bool
	members  []TokenRef

	// bind mints the typed *Selector[T] for a registry. Captured by
	// SelectorToken.Dep because the type parameter is gone by the time the
	// resolution path runs.
	bind func(r *Registry) any
}

// Token returns the declared token: the dependency token itself for plain
// entries, the selector token for selector entries.
func (d Dependency) Token() TokenRef {
	return d.token
}

// IsSelector reports whether this entry resolves to a Selector.
func (d Dependency) IsSelector() bool {
	return d.selector
}

// Members returns the selector's member tokens in declaration order, or nil
// for plain dependencies.
func (d Dependency) Members() []TokenRef {
	if d.members == nil {
		return nil
	}
	members := make([]TokenRef, len(d.members))
	copy(members, d.members)
	return members
}
