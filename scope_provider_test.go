package di

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wallClock struct {
	Now time.Time
}

func TestScopeProviderIsBuiltIn(t *testing.T) {
	r := NewRegistry()
	defer r.Dispose()

	provider, err := Resolve[ScopeProvider](r)
	require.NoError(t, err)
	require.NotNil(t, provider)
}

func TestNestedScopeRecomputesScopedServices(t *testing.T) {
	r := NewRegistry()
	defer r.Dispose()

	t0 := time.Now()
	var calls int
	require.NoError(t, RegisterScoped(r, func(Registry) (*wallClock, error) {
		calls++
		return &wallClock{Now: t0}, nil
	}))

	first := MustResolve[*wallClock](r)
	second := MustResolve[*wallClock](r)
	assert.Same(t, first, second)
	assert.Equal(t, t0, first.Now)
	assert.Equal(t, 1, calls)

	provider := MustResolve[ScopeProvider](r)
	nested := provider.CreateScope()
	defer nested.Dispose()

	inner := MustResolve[*wallClock](nested)
	require.NotNil(t, inner)
	assert.NotSame(t, first, inner)
	assert.Equal(t, 2, calls)

	// the parent cache is untouched
	assert.Same(t, first, MustResolve[*wallClock](r))
}

func TestNestedScopeSharesNonScopedFactories(t *testing.T) {
	r := NewRegistry()
	defer r.Dispose()

	var calls int
	require.NoError(t, RegisterTransientFactory(r, func(Registry) (*mailQueue, error) {
		calls++
		return &mailQueue{ID: calls}, nil
	}))

	singleton := &sessionCache{ID: 99}
	require.NoError(t, RegisterSingletonInstance(r, singleton))

	nested := MustResolve[ScopeProvider](r).CreateScope()
	defer nested.Dispose()

	// transient registrations keep producing through the original closure
	a := MustResolve[*mailQueue](nested)
	b := MustResolve[*mailQueue](nested)
	assert.NotSame(t, a, b)

	// an instance singleton stays shared across boundaries
	assert.Same(t, singleton, MustResolve[*sessionCache](nested))
}

func TestNestedScopeHasOwnScopeBinding(t *testing.T) {
	r := NewRegistry()
	defer r.Dispose()

	nested := MustResolve[ScopeProvider](r).CreateScope()
	defer nested.Dispose()

	parentScope := MustResolve[*Scope](r)
	childScope := MustResolve[*Scope](nested)
	assert.NotSame(t, parentScope, childScope)
}

func TestDisposingChildLeavesParentUsable(t *testing.T) {
	r := NewRegistry()
	defer r.Dispose()

	var calls int
	require.NoError(t, RegisterScoped(r, func(Registry) (*flushableBuffer, error) {
		calls++
		return &flushableBuffer{}, nil
	}))

	parentBuffer := MustResolve[*flushableBuffer](r)

	nested := MustResolve[ScopeProvider](r).CreateScope()
	childBuffer := MustResolve[*flushableBuffer](nested)
	require.NotSame(t, parentBuffer, childBuffer)

	nested.Dispose()

	assert.True(t, childBuffer.flushed)
	assert.False(t, parentBuffer.flushed)

	// the parent keeps resolving from its own cache
	assert.Same(t, parentBuffer, MustResolve[*flushableBuffer](r))
	assert.Equal(t, 2, calls)
}

func TestRegistrationsAfterScopeCreationAreNotInherited(t *testing.T) {
	r := NewRegistry()
	defer r.Dispose()

	nested := MustResolve[ScopeProvider](r).CreateScope()
	defer nested.Dispose()

	// factories are copied once, at creation time
	require.NoError(t, RegisterTransientFactory(r, func(Registry) (*mailQueue, error) {
		return &mailQueue{ID: 1}, nil
	}))

	resolved, err := nested.Resolve(TypeKeyOf[*mailQueue]())
	require.NoError(t, err)
	require.NotNil(t, resolved)

	// the child has no registration for the key, so it synthesized its own
	// transient factory instead of using the parent's
	assert.Equal(t, 0, resolved.(*mailQueue).ID)
}
