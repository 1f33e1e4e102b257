package di

// ScopeProvider opens a new lifetime boundary. It produces a child registry
// that shares every factory already registered on its owner (copied once, at
// creation time, excluding the binding for the owner's Scope itself) but
// starts with a fresh Scope, so scoped services are rebuilt within the new
// boundary without re-registering anything.
//
// Every registry resolves a ScopeProvider for itself without explicit setup:
//
//	provider, _ := Resolve[ScopeProvider](root)
//	unit := provider.CreateScope()
//	defer unit.Dispose()
//
// Disposing a child registry never touches its parent.
type ScopeProvider interface {
	CreateScope() Registry
}

// scopeProvider holds a back-reference to its owning registry for delegation,
// never ownership.
type scopeProvider struct {
	owner *registry
}

func (p *scopeProvider) CreateScope() Registry {
	return newChildRegistry(p.owner)
}

// newChildRegistry copies the parent's factory references, skipping the
// parent's Scope binding, and binds a fresh Scope of its own. Inherited
// scoped wrappers consult the Scope through the resolution context, so they
// cache into the child's scope; inherited transient and synthesized
// factories keep producing through their original closures.
func newChildRegistry(parent *registry) *registry {
	child := &registry{scope: NewScope()}

	scopeKey := TypeKeyOf[*Scope]()
	parent.factories.Range(func(key, fn any) bool {
		if key != scopeKey {
			child.factories.Store(key, fn)
		}
		return true
	})

	child.factories.Store(scopeKey, Factory(func(Registry) (any, error) {
		return child.scope, nil
	}))
	return child
}
