// Package to converts between values and the pointers the FHIR models use for optional fields.
package to

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Value returns the value p points to, or the zero value of T if p is nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
