package di

import "sync"

// Scope caches the instances already materialized for one lifetime boundary
// and tracks which of them are disposable so the owning registry can release
// them together when the boundary ends.
//
// All operations are safe for concurrent use. There is no ordering guarantee
// between a Set and a concurrent ListDisposables snapshot: an instance stored
// during teardown may or may not be disposed.
type Scope struct {
	values sync.Map // TypeKey -> any
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Contains reports whether an instance is cached for key.
func (s *Scope) Contains(key TypeKey) bool {
	_, ok := s.values.Load(key)
	return ok
}

// Set caches an instance for key, overwriting any previous value.
func (s *Scope) Set(key TypeKey, instance any) {
	s.values.Store(key, instance)
}

// Get returns the cached instance for key, or nil when absent.
func (s *Scope) Get(key TypeKey) any {
	v, _ := s.values.Load(key)
	return v
}

// Clear empties the cache without disposing its contents. Disposal is the
// registry's responsibility and happens before Clear during teardown.
func (s *Scope) Clear() {
	s.values.Range(func(key, _ any) bool {
		s.values.Delete(key)
		return true
	})
}

// ListDisposables snapshots the cached values implementing Disposable, in no
// particular order. Used by the registry during teardown.
func (s *Scope) ListDisposables() []Disposable {
	var disposables []Disposable
	s.values.Range(func(_, value any) bool {
		if d, ok := value.(Disposable); ok {
			disposables = append(disposables, d)
		}
		return true
	})
	return disposables
}
