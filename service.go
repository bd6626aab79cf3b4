package quotes

type (
	// Service fetches the latest quotes for a set of symbols and hands the
	// snapshot to every configured storage. The returned map is keyed by
	// storage provider name.
	Service interface {
		Save(symbolsToFetch []string) (map[string][]CurrencyWithID, error)
	}
)
