package main

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	quotes "github.com/quoteline/crypto-quotes"
	"github.com/quoteline/crypto-quotes/fetchers"
	"github.com/quoteline/crypto-quotes/storage"
)

type (
	FetchersConfig map[quotes.Provider]interface{}
	StorageConfig  map[storage.Provider]interface{}
	Config         struct {
		Fetchers       []quotes.Provider
		Storage        []storage.Provider
		FetchersConfig FetchersConfig
		StorageConfig  StorageConfig
	}
)

// ErrMissingAPIKey is reported before any network request is made.
var ErrMissingAPIKey = errors.New("CMS_API_KEY is not set")

func getMysqlDSN(config map[string]string) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = config["user"]
	mysqlDriverConfig.Passwd = config["password"]
	mysqlDriverConfig.Addr = config["addr"]
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = config["db"]

	return mysqlDriverConfig.FormatDSN()
}

func getConfig(ctx context.Context, logger zerolog.Logger) (*Config, error) {
	apiKey := viper.GetString("CMS_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	storageNames := viper.GetStringSlice("storage")
	if len(storageNames) == 0 {
		storageNames = []string{string(storage.CSV)}
	}

	storages, err := storage.ConvertToProvidersFromStringSlice(storageNames)
	if err != nil {
		return nil, err
	}

	fetcherNames := viper.GetStringSlice("fetchers.fetch")
	if len(fetcherNames) == 0 {
		fetcherNames = []string{string(quotes.CoinMarketCapProvider)}
	}

	fetchersToUse, err := quotes.ConvertToProvidersFromStringSlice(fetcherNames)
	if err != nil {
		return nil, err
	}

	mysqlConfig := viper.GetStringMapString("databases.mysql")
	mongodbConfig := viper.GetStringMapString("databases.mongodb")

	storageBaseConfig := storage.BaseConfig{
		Ctx:     ctx,
		Migrate: viper.GetBool("migrate"),
	}

	return &Config{
		Fetchers: fetchersToUse,
		Storage:  storages,
		StorageConfig: StorageConfig{
			storage.CSV: storage.CSVConfig{
				BaseConfig: storageBaseConfig,
				Path:       storage.DefaultCSVPath,
			},
			storage.MySQL: storage.MySQLConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: getMysqlDSN(mysqlConfig),
				TableName:        mysqlConfig["table"],
				IDGenerator:      nil,
			},
			storage.MongoDB: storage.MongoDBConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: mongodbConfig["uri"],
				Database:         mongodbConfig["db"],
				Collection:       mongodbConfig["collection"],
			},
		},
		FetchersConfig: FetchersConfig{
			quotes.CoinMarketCapProvider: fetchers.CoinMarketCapConfig{
				BaseConfig: fetchers.BaseConfig{
					Ctx:    ctx,
					URL:    viper.GetString("fetchers.coinmarketcap.url"),
					Logger: logger,
				},
				APIKey: apiKey,
			},
		},
	}, nil
}
