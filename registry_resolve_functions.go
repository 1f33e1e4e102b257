package di

import (
	"github.com/pixie-sh/errors-go"
	"github.com/pixie-sh/logger-go/logger"
)

// Resolve resolves an instance of type T from the provided registry.
// It accepts generic type T and returns the instance along with any error
// that occurred. A type the registry cannot construct automatically resolves
// to the zero value of T with no error, mirroring the untyped nil return; a
// non-nil instance that cannot be asserted to T is an error.
func Resolve[T any](r Registry) (T, error) {
	var typedInstance T

	key := TypeKeyOf[T]()
	log := logger.Clone().With("type", key.String())

	unknownInstance, err := r.Resolve(key)
	if err != nil {
		return typedInstance, errors.Wrap(
			err,
			"failed to resolve dependency of type '%s'",
			key.String(),
			ErrorResolvingDependencyErrorCode,
		)
	}

	if unknownInstance == nil {
		log.Debug("di resolved nil instance")
		return typedInstance, nil
	}

	typedInstance, ok := SafeTypeAssert[T](unknownInstance)
	if !ok {
		return typedInstance, errors.New(
			"resolved dependency is not of expected type '%s'",
			key.String(),
			DependencyTypeMismatchErrorCode,
		)
	}

	return typedInstance, nil
}

// MustResolve resolves T and panics on error.
func MustResolve[T any](r Registry) T {
	typedInstance, err := Resolve[T](r)
	errors.Must(err)
	return typedInstance
}
