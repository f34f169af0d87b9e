package patch

// Coalesce returns *ptr when set, otherwise fallback. Partial updates use it to keep absent fields.
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}
