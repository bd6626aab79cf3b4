package storage

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"

	quotes "github.com/quoteline/crypto-quotes"
)

// DefaultCSVPath is the report location, replaced on every run.
const DefaultCSVPath = "out.csv"

var (
	csvHeader = []string{"name", "symbol", "price", "percent_change_7d"}

	// ErrGetNotSupported is returned by Get, the report is write-only.
	ErrGetNotSupported = errors.New("the csv report is write-only")
)

type csvStorage struct {
	path string
}

func NewCSVStorage(config CSVConfig) (quotes.Storage, error) {
	path := config.Path

	if path == "" {
		path = DefaultCSVPath
	}

	storage := &csvStorage{path: path}

	if config.Migrate {
		if err := storage.Migrate(); err != nil {
			return nil, err
		}
	}

	return storage, nil
}

// Store writes the report: a header line plus one row per currency in the
// given order. Every currency is validated before the file is touched, so a
// currency without a settlement quote leaves no half-written report behind.
func (c *csvStorage) Store(currencies []quotes.Currency) ([]quotes.CurrencyWithID, error) {
	records := make([][]string, 0, len(currencies))
	currenciesWithID := make([]quotes.CurrencyWithID, 0, len(currencies))

	for i, currency := range currencies {
		quote, err := currency.QuoteIn(quotes.SettlementCurrency)
		if err != nil {
			return nil, err
		}

		records = append(records, []string{
			currency.Name,
			currency.Symbol,
			quote.PriceString(),
			quote.PercentChange7DString(),
		})

		currenciesWithID = append(currenciesWithID, quotes.CurrencyWithID{
			Currency:  currency,
			StorageID: int64(i + 1),
		})
	}

	file, err := os.Create(c.path)
	if err != nil {
		return nil, err
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(csvHeader); err != nil {
		_ = file.Close()
		return nil, err
	}

	// WriteAll flushes, it reports buffered header errors as well.
	if err := writer.WriteAll(records); err != nil {
		_ = file.Close()
		return nil, err
	}

	return currenciesWithID, file.Close()
}

func (c *csvStorage) Get(symbol string, page, perPage int64) ([]quotes.CurrencyWithID, error) {
	return nil, ErrGetNotSupported
}

func (c *csvStorage) GetStorageProviderName() string {
	return string(CSV)
}

// Migrate makes sure the report directory exists.
func (c *csvStorage) Migrate() error {
	dir := filepath.Dir(c.path)

	if dir == "." {
		return nil
	}

	return os.MkdirAll(dir, 0o755)
}

func (c *csvStorage) Drop() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (c *csvStorage) Close() error {
	return nil
}
