package quotes

import (
	"fmt"
	"strings"
)

type Provider string

const (
	CoinMarketCapProvider Provider = "CoinMarketCap"
	EmptyProvider         Provider = ""
)

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "coinmarketcap":
		return CoinMarketCapProvider, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}
