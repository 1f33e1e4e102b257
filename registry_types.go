package di

import (
	"reflect"
)

// TypeKey identifies a requested service contract. It is a runtime type
// identity: equality is identity based, never structural, so TypeKeyOf[T]()
// and TypeKeyOf[*T]() are distinct keys.
type TypeKey = reflect.Type

// Factory produces an instance for a registered TypeKey. The registry
// performing the resolution is passed in as the resolution context so a
// factory can resolve its own dependencies through it. A factory may return
// a nil instance without error if it chooses.
type Factory func(Registry) (any, error)

// TypedFactory mirrors Factory with a concrete result type. Used by the
// generic registration helpers.
type TypedFactory[T any] func(Registry) (T, error)

// Disposable is implemented by instances that hold resources needing
// deterministic release. The registry that cached such an instance in its
// scope calls Dispose exactly once during teardown.
type Disposable interface {
	Dispose()
}

// DiagnosticSink receives diagnostic output from container consumers.
// Every registry registers a no-op sink as a scoped service at construction;
// hosts overwrite the slot with RegisterSingleton to capture output.
type DiagnosticSink interface {
	Printf(format string, args ...any)
}

type noopSink struct{}

func (noopSink) Printf(string, ...any) {}

// TypeKeyOf returns the TypeKey for T.
func TypeKeyOf[T any]() TypeKey {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// SafeTypeAssert attempts to assert an unknown instance to the target type T.
// Besides the direct assertion it adapts pointer/non-pointer mismatches in
// both directions, returning the zero value of T and false when no adaptation
// applies.
func SafeTypeAssert[T any](unknownInstance any) (T, bool) {
	var typedInstance T

	typedInstance, ok := unknownInstance.(T)
	if ok {
		return typedInstance, true
	}

	targetType := reflect.TypeOf((*T)(nil)).Elem()
	sourceType := reflect.TypeOf(unknownInstance)
	if sourceType == nil {
		return typedInstance, false
	}

	// *X provided where X is wanted: dereference
	if sourceType.Kind() == reflect.Ptr && targetType.Kind() != reflect.Ptr {
		if sourceType.Elem() == targetType {
			elemValue := reflect.ValueOf(unknownInstance).Elem().Interface()
			typedInstance, ok = elemValue.(T)
			return typedInstance, ok
		}
	}

	// X provided where *X is wanted: take a pointer to a copy
	if targetType.Kind() == reflect.Ptr && sourceType.Kind() != reflect.Ptr {
		if targetType.Elem() == sourceType {
			ptrValue := reflect.New(sourceType)
			ptrValue.Elem().Set(reflect.ValueOf(unknownInstance))
			typedInstance, ok = ptrValue.Interface().(T)
			return typedInstance, ok
		}
	}

	return typedInstance, false
}
