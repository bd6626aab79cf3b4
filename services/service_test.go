package services

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	quotes "github.com/quoteline/crypto-quotes"
)

type (
	MockFetcher struct {
		mock.Mock
	}

	MockStorage struct {
		mock.Mock
		name string
	}
)

func (m *MockStorage) Store(currencies []quotes.Currency) ([]quotes.CurrencyWithID, error) {
	args := m.Called(currencies)

	return1 := args.Get(0)

	if return1 == nil {
		return nil, args.Error(1)
	}
	return return1.([]quotes.CurrencyWithID), args.Error(1)
}

func (m *MockStorage) Get(symbol string, page, perPage int64) ([]quotes.CurrencyWithID, error) {
	args := m.Called(symbol, page, perPage)

	return args.Get(0).([]quotes.CurrencyWithID), args.Error(1)
}

func (m *MockStorage) GetStorageProviderName() string {
	if m.name == "" {
		return "MockStorage"
	}

	return m.name
}

func (m *MockStorage) Migrate() error {
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) Drop() error {
	return nil
}

func (m *MockFetcher) Fetch(symbolsToFetch []string) ([]quotes.Currency, error) {
	args := m.Called(symbolsToFetch)
	return1 := args.Get(0)

	if return1 == nil {
		return nil, args.Error(1)
	}

	return return1.([]quotes.Currency), args.Error(1)
}

func TestQuoteService(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	symbolsToFetch := []string{"BTC", "ETH"}
	names := map[string]string{"BTC": "Bitcoin", "ETH": "Ethereum"}
	currenciesWithID := make([]quotes.CurrencyWithID, 0, len(symbolsToFetch))
	currenciesFetched := make([]quotes.Currency, 0, len(symbolsToFetch))
	for i, symbol := range symbolsToFetch {
		price := rand.Float64() * 1000
		fetched := quotes.Currency{
			Name:     names[symbol],
			Symbol:   symbol,
			Provider: quotes.CoinMarketCapProvider,
			Quotes: map[string]quotes.Quote{
				quotes.SettlementCurrency: {Price: price, PercentChange7D: 1.5},
			},
		}
		currenciesFetched = append(currenciesFetched, fetched)

		stored := fetched
		stored.CreatedAt = time.Now()
		currenciesWithID = append(currenciesWithID, quotes.CurrencyWithID{
			Currency:  stored,
			StorageID: uint64(i),
		})
	}

	t.Run("SaveCorrectly", func(t *testing.T) {
		fetcher := &MockFetcher{}
		storage := &MockStorage{}
		service := Service{
			Fetcher: fetcher,
			Storage: []quotes.Storage{storage},
		}

		fetcher.On("Fetch", symbolsToFetch).Return(currenciesFetched, nil)
		storage.On("Store", currenciesFetched).Return(currenciesWithID, nil)

		savedCurrencies, err := service.Save(symbolsToFetch)

		asserts.Nil(err)
		asserts.NotNil(savedCurrencies)
		asserts.Contains(savedCurrencies, "MockStorage")

		for _, c := range savedCurrencies["MockStorage"] {
			_, ok := c.StorageID.(uint64)
			asserts.True(ok)
		}
	})

	t.Run("MultipleStorages", func(t *testing.T) {
		fetcher := &MockFetcher{}
		first := &MockStorage{name: "csv"}
		second := &MockStorage{name: "mysql"}
		service := Service{
			Fetcher: fetcher,
			Storage: []quotes.Storage{first, second},
		}

		fetcher.On("Fetch", symbolsToFetch).Return(currenciesFetched, nil)
		first.On("Store", currenciesFetched).Return(currenciesWithID, nil)
		second.On("Store", currenciesFetched).Return(currenciesWithID, nil)

		savedCurrencies, err := service.Save(symbolsToFetch)

		asserts.Nil(err)
		asserts.Len(savedCurrencies, 2)
		asserts.Contains(savedCurrencies, "csv")
		asserts.Contains(savedCurrencies, "mysql")
	})

	t.Run("FetchReturnsError", func(t *testing.T) {
		fetcher := &MockFetcher{}
		storage := &MockStorage{}
		service := Service{
			Fetcher: fetcher,
			Storage: []quotes.Storage{storage},
		}

		fetcher.On("Fetch", symbolsToFetch).Return(nil, errors.New("an error has occurred"))
		savedCurrencies, err := service.Save(symbolsToFetch)
		asserts.Nil(savedCurrencies)
		asserts.NotNil(err)
	})

	t.Run("StorageReturnsError", func(t *testing.T) {
		fetcher := &MockFetcher{}
		storage := &MockStorage{}
		service := Service{
			Fetcher: fetcher,
			Storage: []quotes.Storage{storage},
		}
		fetcher.On("Fetch", symbolsToFetch).Return(currenciesFetched, nil)
		storage.On("Store", currenciesFetched).Return(nil, errors.New("error while inserting into storage"))

		savedCurrencies, err := service.Save(symbolsToFetch)
		asserts.Nil(savedCurrencies)
		asserts.NotNil(err)
	})

	t.Run("AllStoragesFailing", func(t *testing.T) {
		fetcher := &MockFetcher{}
		first := &MockStorage{name: "csv"}
		second := &MockStorage{name: "mysql"}
		service := Service{
			Fetcher: fetcher,
			Storage: []quotes.Storage{first, second},
		}

		fetcher.On("Fetch", symbolsToFetch).Return(currenciesFetched, nil)
		first.On("Store", currenciesFetched).Return(nil, errors.New("first storage failed"))
		second.On("Store", currenciesFetched).Return(nil, errors.New("second storage failed"))

		savedCurrencies, err := service.Save(symbolsToFetch)
		asserts.Nil(savedCurrencies)
		asserts.NotNil(err)
	})
}
