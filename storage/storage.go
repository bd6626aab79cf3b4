package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	quotes "github.com/quoteline/crypto-quotes"
)

type (
	Provider   string
	BaseConfig struct {
		Ctx     context.Context
		Migrate bool
	}
	CSVConfig struct {
		BaseConfig
		Path string
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
		IDGenerator      IDGenerator
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
	}

	// IDGenerator yields the raw bytes for new row identifiers. At least 16
	// bytes are required, only the first 16 are used.
	IDGenerator interface {
		Generate() []byte
	}

	uuidGenerator struct{}
)

const (
	CSV     Provider = "csv"
	MySQL   Provider = "mysql"
	MongoDB Provider = "mongodb"
)

var (
	ErrStorageNotFound           = errors.New("storage is not found")
	ErrNotEnoughBytesInGenerator = errors.New("id generator must yield at least 16 bytes")
)

func (uuidGenerator) Generate() []byte {
	id := uuid.New()
	return id[:]
}

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
	case "csv":
		return CSV, nil
	case "mysql":
		return MySQL, nil
	case "mongodb":
		return MongoDB, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func NewStorage(provider Provider, config interface{}) (quotes.Storage, error) {
	switch provider {
	case CSV:
		return NewCSVStorage(config.(CSVConfig))
	case MySQL:
		return NewMySQLStorage(config.(MySQLConfig))
	case MongoDB:
		return NewMongoStorage(config.(MongoDBConfig))
	}

	return nil, ErrStorageNotFound
}
