package internal

import "reflect"

// Scalar lists the types route and query values can be read as.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the value stored with Context.Set under key as T.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// PathParam returns the route parameter name converted to T, or T's zero
// value when it is missing or malformed. Booleans accept on/off and yes/no
// like controller parameters do.
func PathParam[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Param(name))
	return v
}

// Query returns the query parameter name converted to T, or T's zero value.
func Query[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Query(name))
	return v
}

// QueryDefault returns the query parameter name converted to T, or
// defaultValue when it is empty or malformed.
//
// Example:
//
//	page := frame.QueryDefault(c, "page", 1)
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	if v, ok := parseScalar[T](raw); ok {
		return v
	}
	return defaultValue
}

// parseScalar coerces raw with the same rules the action invoker applies to
// Param specs, then converts to T so named types work too.
func parseScalar[T Scalar](raw string) (T, bool) {
	var out T
	rv := reflect.ValueOf(&out).Elem()

	kind := KindString
	switch rv.Kind() {
	case reflect.Int, reflect.Int64:
		kind = KindInt
	case reflect.Float64:
		kind = KindFloat
	case reflect.Bool:
		kind = KindBool
	}

	v, err := coerce(raw, kind, "")
	if err != nil {
		return out, false
	}
	rv.Set(reflect.ValueOf(v).Convert(rv.Type()))
	return out, true
}
