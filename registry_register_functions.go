package di

import (
	gojson "github.com/goccy/go-json"
	"github.com/pixie-sh/errors-go"
)

// RegisterSingletonInstance registers an already-built instance of T, keyed
// by TypeKeyOf[T]().
func RegisterSingletonInstance[T any](r Registry, instance T) error {
	return r.RegisterSingleton(TypeKeyOf[T](), instance)
}

// RegisterSingleton registers fn with singleton semantics: the produced
// instance is cached in the scope that first resolves it.
func RegisterSingleton[T any](r Registry, fn TypedFactory[T]) error {
	return r.RegisterSingletonFactory(TypeKeyOf[T](), adaptFactory(fn))
}

// RegisterScoped registers fn to produce at most one instance of T per
// lifetime boundary.
func RegisterScoped[T any](r Registry, fn TypedFactory[T]) error {
	return r.RegisterScoped(TypeKeyOf[T](), adaptFactory(fn))
}

// RegisterTransient registers T for reflective construction on every
// resolution.
func RegisterTransient[T any](r Registry) error {
	return r.RegisterTransient(TypeKeyOf[T]())
}

// RegisterTransientFactory registers fn to be invoked fresh on every
// resolution of T.
func RegisterTransientFactory[T any](r Registry, fn TypedFactory[T]) error {
	return r.RegisterTransientFactory(TypeKeyOf[T](), adaptFactory(fn))
}

// RegisterSingletonFromJSON unmarshals data into T and registers the result
// as a singleton instance.
func RegisterSingletonFromJSON[T any](r Registry, data []byte) error {
	if len(data) == 0 {
		return errors.New("json payload cannot be empty", InvalidTypeKeyErrorCode)
	}

	var instance T
	err := gojson.Unmarshal(data, &instance)
	if err != nil {
		return errors.Wrap(
			err,
			"failed to unmarshal singleton payload for '%s'",
			TypeKeyOf[T]().String(),
			StructMapTypeMismatchErrorCode,
		)
	}

	return RegisterSingletonInstance(r, instance)
}

// RegisterConfigurationNode decodes a raw configuration node into T and
// registers the result as a singleton instance. Field matching follows json
// tags, with RFC3339 strings decoded into time.Time values.
func RegisterConfigurationNode[T any](r Registry, node map[string]any) error {
	if node == nil {
		return errors.New("configuration node cannot be nil", InvalidTypeKeyErrorCode)
	}

	instance, err := Decode[T](node)
	if err != nil {
		return err
	}

	return RegisterSingletonInstance(r, instance)
}

func adaptFactory[T any](fn TypedFactory[T]) Factory {
	if fn == nil {
		return nil
	}

	return func(ctx Registry) (any, error) {
		return fn(ctx)
	}
}
