package fetchers

import (
	"context"

	"github.com/rs/zerolog"

	quotes "github.com/quoteline/crypto-quotes"
)

type (
	BaseConfig struct {
		Ctx    context.Context
		URL    string
		Logger zerolog.Logger
	}
	CoinMarketCapConfig struct {
		BaseConfig
		APIKey string
	}
)

// NewQuoteFetcher builds the fetcher for the given provider, nil when the
// provider is unknown.
func NewQuoteFetcher(provider quotes.Provider, config interface{}) quotes.Fetcher {
	switch provider {
	case quotes.CoinMarketCapProvider:
		c := config.(CoinMarketCapConfig)

		return CoinMarketCapFetcher{
			Ctx:    c.Ctx,
			URL:    c.URL,
			APIKey: c.APIKey,
			Logger: c.Logger,
		}
	}

	return nil
}
