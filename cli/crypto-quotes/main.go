package main

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/quoteline/crypto-quotes/cli/cmd"
	"github.com/quoteline/crypto-quotes/logging"
)

func main() {
	ctx := context.Background()

	// The API key usually lives in a local .env file, a missing file is fine.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fallbackLogger := logging.New(logging.Config{})
			fallbackLogger.Fatal().Err(err).Msg("error while reading in the config file")
		}
	}

	logger := logging.New(logging.Config{
		Level:  viper.GetString("logging.level"),
		Pretty: viper.GetBool("logging.pretty"),
	})

	config, err := getConfig(ctx, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	storages, err := createStorages(config)
	if err != nil {
		logger.Fatal().Err(err).Msg("error while creating storages")
	}

	services, err := createQuoteServices(config, storages)
	if err != nil {
		closeStorages(storages, logger)
		logger.Fatal().Err(err).Msg("error while creating quote services")
	}

	err = cmd.Execute(&cmd.Config{
		Services: services,
		Logger:   logger,
	})

	closeStorages(storages, logger)

	if err != nil {
		logger.Fatal().Err(err).Msg("fetching quotes failed")
	}
}
