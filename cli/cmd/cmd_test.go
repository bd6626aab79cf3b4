package cmd

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	quotes "github.com/quoteline/crypto-quotes"
	"github.com/quoteline/crypto-quotes/fetchers"
	"github.com/quoteline/crypto-quotes/services"
	"github.com/quoteline/crypto-quotes/storage"
)

type countingFetcher struct {
	calls      int
	currencies []quotes.Currency
	err        error
}

func (f *countingFetcher) Fetch(symbolsToFetch []string) ([]quotes.Currency, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	return f.currencies, nil
}

func fetchedCurrencies() []quotes.Currency {
	return []quotes.Currency{
		{
			ID:       1,
			Name:     "Bitcoin",
			Symbol:   "BTC",
			Slug:     "bitcoin",
			Provider: quotes.CoinMarketCapProvider,
			Quotes: map[string]quotes.Quote{
				quotes.SettlementCurrency: {Price: 50000.5, PercentChange7D: 3.2},
			},
		},
		{
			ID:       1027,
			Name:     "Ethereum",
			Symbol:   "ETH",
			Slug:     "ethereum",
			Provider: quotes.CoinMarketCapProvider,
			Quotes: map[string]quotes.Quote{
				quotes.SettlementCurrency: {Price: 4000.25, PercentChange7D: -1.5},
			},
		},
	}
}

func testConfig(t *testing.T, fetcher quotes.Fetcher) (*Config, string) {
	path := filepath.Join(t.TempDir(), "out.csv")

	st, err := storage.NewCSVStorage(storage.CSVConfig{Path: path})
	require.New(t).NoError(err)

	config := &Config{
		Services: []quotes.Service{
			services.Service{Fetcher: fetcher, Storage: []quotes.Storage{st}},
		},
		Logger: zerolog.Nop(),
	}

	return config, path
}

func TestRootCommand_WritesReport(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &countingFetcher{currencies: fetchedCurrencies()}
	config, path := testConfig(t, fetcher)

	cmd := New(config)
	cmd.SetArgs([]string{"--currencies", "BTC,ETH"})

	asserts.NoError(cmd.Execute())
	asserts.Equal(1, fetcher.calls)

	content, err := ioutil.ReadFile(path)
	asserts.NoError(err)
	asserts.Equal(
		"name,symbol,price,percent_change_7d\nBitcoin,BTC,50000.5,3.2\nEthereum,ETH,4000.25,-1.5\n",
		string(content),
	)
}

func TestRootCommand_MissingCurrenciesFlag(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &countingFetcher{currencies: fetchedCurrencies()}
	config, path := testConfig(t, fetcher)

	cmd := New(config)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	asserts.Error(err)
	asserts.Contains(err.Error(), "currencies")
	asserts.Equal(0, fetcher.calls, "nothing should be fetched without the flag")

	_, err = os.Stat(path)
	asserts.True(os.IsNotExist(err))
}

func TestRootCommand_BlankSymbols(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &countingFetcher{currencies: fetchedCurrencies()}
	config, path := testConfig(t, fetcher)

	cmd := New(config)
	cmd.SetArgs([]string{"--currencies", " , "})

	err := cmd.Execute()
	asserts.True(errors.Is(err, ErrNoCurrencies))
	asserts.Equal(0, fetcher.calls)

	_, err = os.Stat(path)
	asserts.True(os.IsNotExist(err))
}

func TestRootCommand_StatusErrorFinishesWithoutReport(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &countingFetcher{err: fetchers.ErrServer}
	config, path := testConfig(t, fetcher)

	cmd := New(config)
	cmd.SetArgs([]string{"--currencies", "BTC"})

	asserts.NoError(cmd.Execute(), "a non-200 API answer is not a program failure")
	asserts.Equal(1, fetcher.calls)

	_, err := os.Stat(path)
	asserts.True(os.IsNotExist(err))
}

func TestRootCommand_FetchErrorFails(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetchErr := errors.New("connection refused")
	fetcher := &countingFetcher{err: fetchErr}
	config, path := testConfig(t, fetcher)

	cmd := New(config)
	cmd.SetArgs([]string{"--currencies", "BTC"})

	err := cmd.Execute()
	asserts.True(errors.Is(err, fetchErr))

	_, err = os.Stat(path)
	asserts.True(os.IsNotExist(err))
}

func TestRootCommand_MissingSettlementQuoteFails(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &countingFetcher{currencies: []quotes.Currency{
		{Name: "Bitcoin", Symbol: "BTC", Slug: "bitcoin"},
	}}
	config, path := testConfig(t, fetcher)

	cmd := New(config)
	cmd.SetArgs([]string{"--currencies", "BTC"})

	err := cmd.Execute()
	asserts.True(errors.Is(err, quotes.ErrMissingQuote))

	_, err = os.Stat(path)
	asserts.True(os.IsNotExist(err))
}

type bitcoinQuoteHandler struct {
	apiKey string
}

func (h bitcoinQuoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-CMC_PRO_API_KEY") != h.apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"data":{"BTC":{"id":1,"name":"Bitcoin","symbol":"BTC","slug":"bitcoin","quote":{"USD":{"price":50000.5,"percent_change_7d":3.2,"volume_24h":32000000000.0,"market_cap":930000000000.0}}}}}`))
}

func TestRootCommand_EndToEnd(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	server := httptest.NewServer(bitcoinQuoteHandler{apiKey: "test-key"})
	defer server.Close()

	fetcher := fetchers.CoinMarketCapFetcher{
		Ctx:    context.Background(),
		URL:    server.URL,
		APIKey: "test-key",
		Logger: zerolog.Nop(),
	}
	config, path := testConfig(t, fetcher)

	cmd := New(config)
	cmd.SetArgs([]string{"--currencies", "BTC"})

	asserts.NoError(cmd.Execute())

	content, err := ioutil.ReadFile(path)
	asserts.NoError(err)
	asserts.Equal("name,symbol,price,percent_change_7d\nBitcoin,BTC,50000.5,3.2\n", string(content))
}
