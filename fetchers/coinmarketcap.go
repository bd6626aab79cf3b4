package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	quotes "github.com/quoteline/crypto-quotes"
)

type (
	// CoinMarketCapFetcher queries the quotes/latest endpoint of the
	// CoinMarketCap professional API. All requested symbols go out in a
	// single request.
	CoinMarketCapFetcher struct {
		Ctx    context.Context
		URL    string
		APIKey string
		Logger zerolog.Logger
	}

	quotesResponse struct {
		Data map[string]quotes.Currency `json:"data"`
	}
)

// PrepareSymbols upper-cases the requested ticker symbols and drops
// duplicates, keeping the first occurrence order.
func (c CoinMarketCapFetcher) PrepareSymbols(symbolsToFetch []string) []string {
	seen := make(map[string]struct{}, len(symbolsToFetch))
	symbols := make([]string, 0, len(symbolsToFetch))

	for _, symbol := range symbolsToFetch {
		upper := strings.ToUpper(strings.TrimSpace(symbol))
		if upper == "" {
			continue
		}

		if _, exists := seen[upper]; exists {
			continue
		}

		seen[upper] = struct{}{}
		symbols = append(symbols, upper)
	}

	return symbols
}

func (c CoinMarketCapFetcher) handleHTTPStatusCodeError(statusCode int, body []byte) error {
	c.Logger.Info().
		Int("status", statusCode).
		Str("body", string(body)).
		Msg("quote API returned a non-200 status")

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrUnauthorized
	case statusCode == http.StatusTooManyRequests:
		return ErrAPILimitReached
	case statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError:
		return ErrClient
	case statusCode >= http.StatusInternalServerError:
		return ErrServer
	}

	return ErrUnknown
}

// collectCurrencies maps the decoded response back onto the requested symbol
// order. Symbols the API did not answer for are skipped, currencies without
// a settlement quote fail the whole run.
func (c CoinMarketCapFetcher) collectCurrencies(symbols []string, data quotesResponse) ([]quotes.Currency, error) {
	if data.Data == nil {
		return nil, fmt.Errorf("%w: no currency data", ErrInvalidResponse)
	}

	currencies := make([]quotes.Currency, 0, len(data.Data))

	for _, symbol := range symbols {
		currency, ok := data.Data[symbol]
		if !ok {
			continue
		}

		if currency.Name == "" || currency.Symbol == "" {
			return nil, fmt.Errorf("%w: currency %s has no name or symbol", ErrInvalidResponse, symbol)
		}

		if _, err := currency.QuoteIn(quotes.SettlementCurrency); err != nil {
			return nil, err
		}

		currency.Provider = quotes.CoinMarketCapProvider
		currencies = append(currencies, currency)
	}

	return currencies, nil
}

func (c CoinMarketCapFetcher) Fetch(symbolsToFetch []string) ([]quotes.Currency, error) {
	symbols := c.PrepareSymbols(symbolsToFetch)

	url := c.URL

	if url == "" {
		url = CoinMarketCapFetchURL
	}

	ctx := c.Ctx

	if ctx == nil {
		ctx = context.Background()
	}

	req, formattedSymbols, err := getData(ctx, url, symbols)
	if err != nil {
		return nil, err
	}

	c.Logger.Debug().Str("symbols", formattedSymbols).Msg("querying the quote API")

	req.Header.Add(apiKeyHeader, c.APIKey)

	q := req.URL.Query()
	q.Add("symbol", formattedSymbols)
	req.URL.RawQuery = q.Encode()

	client := &http.Client{}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while fetching quotes: %w", err)
	}

	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, c.handleHTTPStatusCodeError(res.StatusCode, body)
	}

	var data quotesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error while decoding the API response: %w", err)
	}

	return c.collectCurrencies(symbols, data)
}
