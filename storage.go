package quotes

type Storage interface {
	Store([]Currency) ([]CurrencyWithID, error)
	Get(symbol string, page, perPage int64) ([]CurrencyWithID, error)
	GetStorageProviderName() string
	Migrate() error
	Drop() error
	Close() error
}
