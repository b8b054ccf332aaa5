package internal

// DefaultHooks exposes withDefaults to the external tests.
func DefaultHooks[T, R any](h Hooks[T, R]) (Hooks[T, R], error) {
	return h.withDefaults()
}
