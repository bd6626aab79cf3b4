package main

import (
	"fmt"

	"github.com/rs/zerolog"

	quotes "github.com/quoteline/crypto-quotes"
	"github.com/quoteline/crypto-quotes/fetchers"
	service "github.com/quoteline/crypto-quotes/services"
	"github.com/quoteline/crypto-quotes/storage"
)

func createStorages(config *Config) ([]quotes.Storage, error) {
	storages := make([]quotes.Storage, 0, len(config.Storage))
	for _, s := range config.Storage {
		c, ok := config.StorageConfig[s]
		if !ok {
			return nil, fmt.Errorf("storage %s does not exist", s)
		}

		st, err := storage.NewStorage(s, c)
		if err != nil {
			return nil, err
		}

		storages = append(storages, st)
	}

	return storages, nil
}

func createQuoteServices(config *Config, storages []quotes.Storage) ([]quotes.Service, error) {
	services := make([]quotes.Service, 0, len(config.Fetchers))

	for _, f := range config.Fetchers {
		c, ok := config.FetchersConfig[f]
		if !ok {
			return nil, fmt.Errorf("fetcher %s does not exist", f)
		}

		services = append(services, service.Service{
			Fetcher: fetchers.NewQuoteFetcher(f, c),
			Storage: storages,
		})
	}

	return services, nil
}

func closeStorages(storages []quotes.Storage, logger zerolog.Logger) {
	for _, st := range storages {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Str("storage", st.GetStorageProviderName()).Msg("error while closing storage")
			continue
		}

		logger.Debug().Str("storage", st.GetStorageProviderName()).Msg("storage closed")
	}
}
