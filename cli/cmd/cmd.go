package cmd

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	quotes "github.com/quoteline/crypto-quotes"
	"github.com/quoteline/crypto-quotes/fetchers"
)

type (
	Config struct {
		Services []quotes.Service
		Logger   zerolog.Logger
	}
)

// ErrNoCurrencies is returned when the --currencies flag holds no usable
// ticker symbol.
var ErrNoCurrencies = errors.New("at least one currency symbol is required")

func cleanSymbols(currencies []string) []string {
	symbols := make([]string, 0, len(currencies))

	for _, currency := range currencies {
		if symbol := strings.TrimSpace(currency); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}

	return symbols
}

func handleQuotesSave(config *Config, symbols []string) error {
	for _, service := range config.Services {
		currenciesMap, err := service.Save(symbols)
		if err != nil {
			return err
		}

		for storageName, currencies := range currenciesMap {
			config.Logger.Debug().
				Int("count", len(currencies)).
				Str("storage", storageName).
				Msg("currencies saved to storage")

			for _, currency := range currencies {
				quote, err := currency.QuoteIn(quotes.SettlementCurrency)
				if err != nil {
					return err
				}

				config.Logger.Debug().
					Str("symbol", currency.Symbol).
					Str("name", currency.Name).
					Str("storage", storageName).
					Str("price", quote.PriceString()).
					Str("percent_change_7d", quote.PercentChange7DString()).
					Msg("quote saved")
			}
		}
	}

	return nil
}

func runQuotes(config *Config, currencies *[]string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		symbols := cleanSymbols(*currencies)

		if len(symbols) == 0 {
			return ErrNoCurrencies
		}

		if err := handleQuotesSave(config, symbols); err != nil {
			// Non-200 API answers were already logged with their status and
			// body, the run finishes without a report.
			if fetchers.IsStatusError(err) {
				return nil
			}

			return err
		}

		config.Logger.Info().
			Str("symbols", strings.Join(symbols, ",")).
			Msg("queried and saved the latest quotes")

		return nil
	}
}

// New builds the root command. The command has no subcommands, running the
// binary performs one fetch and write cycle.
func New(config *Config) *cobra.Command {
	var currencies []string

	rootCmd := &cobra.Command{
		Use:           "crypto-quotes",
		Short:         "Latest cryptocurrency quotes, written to a CSV report",
		Version:       "v1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runQuotes(config, &currencies),
	}

	rootCmd.Flags().StringSliceVar(&currencies, "currencies", nil, "Cryptocurrency ticker symbols to query, e.g. BTC,ETH")
	_ = rootCmd.MarkFlagRequired("currencies")

	return rootCmd
}

func Execute(config *Config) error {
	return New(config).Execute()
}
