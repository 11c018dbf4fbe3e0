// Package registry provides a generic named registry.
//
// A data model keeps several of these: transform functions, event
// callbacks and variable definitions keyed by Go type. Add rejects a
// second registration under an existing key.
//
//	transforms := registry.New[string, TransformFunc]()
//	if err := transforms.Add("to_upper", toUpper); err != nil {
//	    // ErrDuplicate
//	}
//	fn, ok := transforms.Get("to_upper")
//
// Registries are safe for concurrent use. A type registry is commonly
// shared by several models while each model owns its own transform and
// callback registries.
package registry
