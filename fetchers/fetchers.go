package fetchers

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	// CoinMarketCapFetchURL is the production quotes endpoint.
	CoinMarketCapFetchURL = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/quotes/latest"

	apiKeyHeader = "X-CMC_PRO_API_KEY"
)

var (
	ErrUnauthorized    = errors.New("unauthorized, API key is not valid")
	ErrAPILimitReached = errors.New("API limit reached")
	ErrClient          = errors.New("client error")
	ErrServer          = errors.New("server error")
	ErrUnknown         = errors.New("unknown error")

	// ErrInvalidResponse marks a 200 answer whose body does not follow the
	// documented schema. Unlike status errors it fails the run.
	ErrInvalidResponse = errors.New("invalid API response")
)

// IsStatusError reports whether err stems from a non-200 API status. Such
// runs are logged and finish without a report instead of failing.
func IsStatusError(err error) bool {
	statusErrors := []error{ErrUnauthorized, ErrAPILimitReached, ErrClient, ErrServer, ErrUnknown}

	for _, sentinel := range statusErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}

func getData(ctx context.Context, url string, symbols []string) (*http.Request, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	req.Header.Add("Accept", "application/json")

	var builder strings.Builder

	for _, s := range symbols {
		builder.WriteString(s)
		builder.WriteRune(',')
	}

	return req, strings.TrimRight(builder.String(), ","), nil
}
