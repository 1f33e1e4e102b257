package di

import "reflect"

// isValueKind reports whether key denotes a value-like primitive, which
// resolves to its zero value directly without caching a factory.
func isValueKind(key TypeKey) bool {
	switch key.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}

// constructible reports whether key has exactly one automatic construction
// recipe: structs and pointers to structs do (zero the struct, populate its
// exported fields), everything else does not and resolves to nil.
func constructible(key TypeKey) bool {
	if key.Kind() == reflect.Ptr {
		return key.Elem().Kind() == reflect.Struct
	}

	return key.Kind() == reflect.Struct
}

// synthesizeFactory derives a transient factory for key, or reports false
// when key cannot be constructed automatically.
func synthesizeFactory(key TypeKey) (Factory, bool) {
	if !constructible(key) {
		return nil, false
	}

	return func(ctx Registry) (any, error) {
		return constructByReflection(ctx, key)
	}, true
}

// constructByReflection builds an instance of key, resolving every exported
// field in declared order through ctx. Fields that resolve to nil are left at
// their zero value; a resolution error aborts construction.
func constructByReflection(ctx Registry, key TypeKey) (any, error) {
	if !constructible(key) {
		return nil, nil
	}

	structType := key
	pointer := key.Kind() == reflect.Ptr
	if pointer {
		structType = key.Elem()
	}

	value := reflect.New(structType).Elem()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.PkgPath != "" { // unexported, not injectable
			continue
		}

		dependency, err := ctx.Resolve(field.Type)
		if err != nil {
			return nil, err
		}

		if dependency == nil {
			continue
		}

		dependencyValue := reflect.ValueOf(dependency)
		if dependencyValue.Kind() == reflect.Ptr && dependencyValue.IsNil() {
			continue
		}

		assign(value.Field(i), field.Type, dependencyValue)
	}

	if pointer {
		ptr := reflect.New(structType)
		ptr.Elem().Set(value)
		return ptr.Interface(), nil
	}

	return value.Interface(), nil
}

// assign sets target to dependency, adapting pointer/non-pointer mismatches
// the same way SafeTypeAssert does. Incompatible dependencies are skipped,
// leaving the field zeroed.
func assign(target reflect.Value, targetType reflect.Type, dependency reflect.Value) {
	switch {
	case dependency.Type().AssignableTo(targetType):
		target.Set(dependency)
	case dependency.Kind() == reflect.Ptr && dependency.Type().Elem().AssignableTo(targetType):
		target.Set(dependency.Elem())
	case targetType.Kind() == reflect.Ptr && dependency.Type().AssignableTo(targetType.Elem()):
		ptr := reflect.New(dependency.Type())
		ptr.Elem().Set(dependency)
		target.Set(ptr)
	case dependency.Type().ConvertibleTo(targetType):
		target.Set(dependency.Convert(targetType))
	}
}
