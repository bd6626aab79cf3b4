package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	quotes "github.com/quoteline/crypto-quotes"
)

type mongoStorage struct {
	ctx        context.Context
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStorage(config MongoDBConfig) (quotes.Storage, error) {
	client, err := mongo.NewClient(options.Client().ApplyURI(config.ConnectionString))
	if err != nil {
		return nil, err
	}

	if err := client.Connect(config.Ctx); err != nil {
		return nil, err
	}

	storage := &mongoStorage{
		ctx:        config.Ctx,
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
	}

	if config.Migrate {
		if err := storage.Migrate(); err != nil {
			return nil, err
		}
	}

	return storage, nil
}

func (m *mongoStorage) Store(currencies []quotes.Currency) ([]quotes.CurrencyWithID, error) {
	documents := make([]interface{}, 0, len(currencies))
	prepared := make([]quotes.Currency, 0, len(currencies))

	for _, currency := range currencies {
		if currency.CreatedAt.IsZero() {
			currency.CreatedAt = time.Now()
		}

		quote, err := currency.QuoteIn(quotes.SettlementCurrency)
		if err != nil {
			return nil, err
		}

		documents = append(documents, bson.M{
			"symbol":          currency.Symbol,
			"name":            currency.Name,
			"slug":            currency.Slug,
			"price":           quote.Price,
			"percentChange7d": quote.PercentChange7D,
			"volume24h":       quote.Volume24H,
			"marketCap":       quote.MarketCap,
			"provider":        string(currency.Provider),
			"createdAt":       currency.CreatedAt,
		})

		prepared = append(prepared, currency)
	}

	// InsertMany rejects an empty document list.
	if len(documents) == 0 {
		return []quotes.CurrencyWithID{}, nil
	}

	result, err := m.collection.InsertMany(m.ctx, documents)
	if err != nil {
		return nil, err
	}

	currenciesWithID := make([]quotes.CurrencyWithID, 0, len(prepared))

	for i, currency := range prepared {
		currenciesWithID = append(currenciesWithID, quotes.CurrencyWithID{
			Currency:  currency,
			StorageID: result.InsertedIDs[i],
		})
	}

	return currenciesWithID, nil
}

func (m *mongoStorage) Get(symbol string, page, perPage int64) ([]quotes.CurrencyWithID, error) {
	filter := bson.M{"symbol": symbol}
	skip := (page - 1) * perPage

	cursor, err := m.collection.Find(m.ctx, filter, &options.FindOptions{
		Limit: &perPage,
		Skip:  &skip,
		Sort:  bson.M{"createdAt": -1},
	})
	if err != nil {
		return nil, err
	}

	defer cursor.Close(m.ctx)

	currencies := make([]quotes.CurrencyWithID, 0, perPage)

	for cursor.Next(m.ctx) {
		current := cursor.Current
		quote := quotes.Quote{
			Price:           current.Lookup("price").Double(),
			PercentChange7D: current.Lookup("percentChange7d").Double(),
			Volume24H:       current.Lookup("volume24h").Double(),
			MarketCap:       current.Lookup("marketCap").Double(),
		}

		currencies = append(currencies, quotes.CurrencyWithID{
			Currency: quotes.Currency{
				Name:      current.Lookup("name").StringValue(),
				Symbol:    current.Lookup("symbol").StringValue(),
				Slug:      current.Lookup("slug").StringValue(),
				Quotes:    map[string]quotes.Quote{quotes.SettlementCurrency: quote},
				Provider:  quotes.Provider(current.Lookup("provider").StringValue()),
				CreatedAt: current.Lookup("createdAt").Time(),
			},
			StorageID: current.Lookup("_id").ObjectID(),
		})
	}

	return currencies, cursor.Err()
}

func (m *mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}

// Migrate creates the index Get sorts and filters on.
func (m *mongoStorage) Migrate() error {
	_, err := m.collection.Indexes().CreateOne(m.ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "symbol", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})

	return err
}

func (m *mongoStorage) Drop() error {
	return m.collection.Drop(m.ctx)
}

func (m *mongoStorage) Close() error {
	return m.client.Disconnect(m.ctx)
}
