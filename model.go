package quotes

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementCurrency is the currency every market metric is expressed in.
const SettlementCurrency = "USD"

// ErrMissingQuote is returned when a currency carries no quote in the
// requested settlement currency. The whole run fails on it, a report with
// silently dropped rows is worse than no report.
var ErrMissingQuote = errors.New("missing settlement currency quote")

type (
	// Quote is one market snapshot of a currency in a single settlement currency.
	Quote struct {
		Price           float64 `json:"price"`
		PercentChange7D float64 `json:"percent_change_7d"`
		Volume24H       float64 `json:"volume_24h"`
		MarketCap       float64 `json:"market_cap"`
	}

	// Currency is one fetched cryptocurrency together with its quotes, keyed
	// by settlement currency code.
	Currency struct {
		ID        int              `json:"id"`
		Name      string           `json:"name"`
		Symbol    string           `json:"symbol"`
		Slug      string           `json:"slug"`
		Quotes    map[string]Quote `json:"quote"`
		Provider  Provider         `json:"-"`
		CreatedAt time.Time        `json:"-"`
	}

	// CurrencyWithID is a Currency together with the identifier the storage
	// assigned to it.
	CurrencyWithID struct {
		Currency
		StorageID interface{}
	}
)

// QuoteIn returns the quote in the given settlement currency.
func (c Currency) QuoteIn(settlement string) (Quote, error) {
	quote, ok := c.Quotes[settlement]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s has no %s quote", ErrMissingQuote, c.Symbol, settlement)
	}

	return quote, nil
}

// PriceString renders the price as a plain decimal string, never in
// scientific notation.
func (q Quote) PriceString() string {
	return decimal.NewFromFloat(q.Price).String()
}

// PercentChange7DString renders the 7-day percent change as a plain decimal
// string.
func (q Quote) PercentChange7DString() string {
	return decimal.NewFromFloat(q.PercentChange7D).String()
}
