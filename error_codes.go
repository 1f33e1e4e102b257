package di

import "github.com/pixie-sh/errors-go"

var (
	DIErrorCodeBase = 75000

	RegistryDisposedErrorCode         = errors.NewErrorCode("RegistryDisposedErrorCode", DIErrorCodeBase+410)
	InvalidTypeKeyErrorCode           = errors.NewErrorCode("InvalidTypeKeyErrorCode", DIErrorCodeBase+400)
	ErrorResolvingDependencyErrorCode = errors.NewErrorCode("ErrorResolvingDependencyErrorCode", DIErrorCodeBase+503)
	DependencyTypeMismatchErrorCode   = errors.NewErrorCode("DependencyTypeMismatchErrorCode", DIErrorCodeBase+504)
	StructMapTypeMismatchErrorCode    = errors.NewErrorCode("StructMapTypeMismatchErrorCode", DIErrorCodeBase+505)
)
