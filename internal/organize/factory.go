package organize

// SorterFactory is a function that creates a Sorter
// This allows for dependency injection in tests
type SorterFactory func() Sorter

// Default factory that creates a real sort engine
var DefaultSorterFactory SorterFactory = func() Sorter {
	return New()
}

// CurrentSorterFactory is the currently active factory
// This can be swapped in tests
var CurrentSorterFactory = DefaultSorterFactory

// SetSorterFactory sets a custom sorter factory for dependency injection
func SetSorterFactory(factory SorterFactory) {
	CurrentSorterFactory = factory
}

// ResetSorterFactory resets to the default sorter factory
func ResetSorterFactory() {
	CurrentSorterFactory = DefaultSorterFactory
}
