package di

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/pixie-sh/errors-go"
	"github.com/pixie-sh/logger-go/logger"
)

// Registry is a dependency injection container mapping a requested TypeKey to
// an instance. It resolves struct dependencies automatically by reflection
// and manages lifetime across three policies:
//
//   - singleton: one instance cached in the scope that first resolves it,
//     which for the root registry equals the registry's own lifetime
//   - scoped: one instance per lifetime boundary (per Scope)
//   - transient: a fresh instance on every resolution
//
// Registration is "add if absent": the first factory registered for a key
// wins and later registrations for the same key are silently ignored at the
// factory-table level.
//
// A registry is safe for concurrent resolution. Dispose must run once, from a
// single owning context, after resolution activity has quiesced; it is not
// fenced against in-flight resolutions.
type Registry interface {
	Resolve(key TypeKey) (any, error)

	RegisterSingleton(key TypeKey, instance any) error
	RegisterSingletonFactory(key TypeKey, fn Factory) error
	RegisterScoped(key TypeKey, fn Factory) error
	RegisterTransient(key TypeKey) error
	RegisterTransientFactory(key TypeKey, fn Factory) error

	Dispose()
}

// registry implements Registry. The factory table and the scope cache are the
// only shared mutable state; both tolerate concurrent read/write without
// external locking.
type registry struct {
	factories sync.Map // TypeKey -> Factory
	scope     *Scope
	disposed  atomic.Bool
}

// NewRegistry creates a ready-to-use container with its built-in
// registrations already present: the root Scope, a ScopeProvider bound to
// this registry, and a no-op DiagnosticSink as a scoped service.
func NewRegistry() Registry {
	r := &registry{scope: NewScope()}
	r.registerBuiltins()
	return r
}

func (r *registry) registerBuiltins() {
	r.factories.Store(TypeKeyOf[*Scope](), Factory(func(Registry) (any, error) {
		return r.scope, nil
	}))

	r.factories.Store(TypeKeyOf[ScopeProvider](), Factory(func(Registry) (any, error) {
		return &scopeProvider{owner: r}, nil
	}))

	_ = r.RegisterScoped(TypeKeyOf[DiagnosticSink](), func(Registry) (any, error) {
		return noopSink{}, nil
	})
}

// Resolve returns an instance for key. Lookup order: a registered factory,
// then a zero value for value-like primitive kinds, then automatic
// reflective construction for structs and pointers to structs. Types that
// cannot be constructed automatically resolve to nil without error.
//
// Recursive resolution carries no cycle guard: a type whose dependencies
// transitively include itself exhausts the call stack.
func (r *registry) Resolve(key TypeKey) (any, error) {
	if err := r.usable(key); err != nil {
		return nil, err
	}

	if fn, ok := r.factories.Load(key); ok {
		return fn.(Factory)(r)
	}

	if isValueKind(key) {
		return reflect.Zero(key).Interface(), nil
	}

	fn, ok := synthesizeFactory(key)
	if !ok {
		logger.Clone().With("type", key.String()).Debug("di type cannot be constructed automatically")
		return nil, nil
	}

	actual, _ := r.factories.LoadOrStore(key, fn)
	return actual.(Factory)(r)
}

// RegisterSingleton registers an already-built instance. The scoped cache
// slot is materialized immediately, so the instance is visible (and owned for
// disposal) before any Resolve call; the factory table additionally gains a
// factory that always returns the instance. Re-invoking for the same key
// overwrites the cache slot but leaves the first factory in place.
func (r *registry) RegisterSingleton(key TypeKey, instance any) error {
	if err := r.usable(key); err != nil {
		return err
	}

	r.scope.Set(key, instance)
	r.factories.LoadOrStore(key, Factory(func(Registry) (any, error) {
		return instance, nil
	}))
	return nil
}

// RegisterSingletonFactory registers fn with singleton semantics. A singleton
// factory and a scoped factory are the same thing in this container: both
// cache within the active Scope, so a singleton's lifetime is "per Scope",
// which at the root boundary equals the container's lifetime.
func (r *registry) RegisterSingletonFactory(key TypeKey, fn Factory) error {
	return r.RegisterScoped(key, fn)
}

// RegisterScoped registers fn to produce at most one instance per lifetime
// boundary. The wrapping factory resolves the active Scope through the
// resolution context, so the same registration caches per-child-scope when
// inherited by a nested registry. When no Scope is resolvable the resolution
// yields nil.
//
// Concurrent first resolutions of the same key are not serialized: each may
// invoke fn, with the last write winning in the cache.
func (r *registry) RegisterScoped(key TypeKey, fn Factory) error {
	if err := r.usable(key); err != nil {
		return err
	}
	if fn == nil {
		return errors.New("factory cannot be nil", InvalidTypeKeyErrorCode)
	}

	r.factories.LoadOrStore(key, Factory(func(ctx Registry) (any, error) {
		unknownScope, err := ctx.Resolve(TypeKeyOf[*Scope]())
		if err != nil {
			return nil, err
		}

		scope, ok := unknownScope.(*Scope)
		if !ok || scope == nil {
			return nil, nil
		}

		if scope.Contains(key) {
			return scope.Get(key), nil
		}

		instance, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		scope.Set(key, instance)
		return instance, nil
	}))
	return nil
}

// RegisterTransient registers key for reflective construction on every
// resolution. Keys that cannot be constructed automatically resolve to nil.
func (r *registry) RegisterTransient(key TypeKey) error {
	if err := r.usable(key); err != nil {
		return err
	}

	r.factories.LoadOrStore(key, Factory(func(ctx Registry) (any, error) {
		return constructByReflection(ctx, key)
	}))
	return nil
}

// RegisterTransientFactory registers fn to be invoked fresh on every
// resolution; results are never cached.
func (r *registry) RegisterTransientFactory(key TypeKey, fn Factory) error {
	if err := r.usable(key); err != nil {
		return err
	}
	if fn == nil {
		return errors.New("factory cannot be nil", InvalidTypeKeyErrorCode)
	}

	r.factories.LoadOrStore(key, fn)
	return nil
}

// Dispose releases the container. The first call disposes every Disposable
// currently cached in the scope, clears the scope and the factory table, and
// marks the registry unusable; later calls are no-ops. Disposing while
// resolutions are in flight has undefined outcome.
func (r *registry) Dispose() {
	if !r.disposed.CompareAndSwap(false, true) {
		return
	}

	disposables := r.scope.ListDisposables()
	logger.Clone().With("disposables", len(disposables)).Debug("di disposing registry")

	for _, d := range disposables {
		d.Dispose()
	}

	r.scope.Clear()
	r.factories.Range(func(key, _ any) bool {
		r.factories.Delete(key)
		return true
	})
}

func (r *registry) usable(key TypeKey) error {
	if r.disposed.Load() {
		return errors.New("registry already disposed", RegistryDisposedErrorCode)
	}

	if key == nil {
		return errors.New("type key cannot be nil", InvalidTypeKeyErrorCode)
	}

	return nil
}
