package quotes

type (
	// Fetcher retrieves the latest market quotes for the given ticker symbols.
	Fetcher interface {
		Fetch(symbolsToFetch []string) ([]Currency, error)
	}
)
