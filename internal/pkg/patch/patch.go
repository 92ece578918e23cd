package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Prefer returns next when it is set, otherwise current. Used for partial edits
// where an omitted field keeps the stored value.
func Prefer[T any](next, current *T) *T {
	if next != nil {
		return next
	}
	return current
}
