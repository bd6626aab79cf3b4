package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	quotes "github.com/quoteline/crypto-quotes"
)

// MySQLTimeFormat is the DATETIME layout rows are stored with.
const MySQLTimeFormat = "2006-01-02 15:04:05"

type sqlStorage struct {
	ctx         context.Context
	db          *sql.DB
	idGenerator IDGenerator
	tableName   string
}

func NewMySQLStorage(config MySQLConfig) (quotes.Storage, error) {
	db, err := sql.Open("mysql", config.ConnectionString)
	if err != nil {
		return nil, err
	}

	return NewSQLStorage(config.Ctx, db, config.IDGenerator, config.TableName, config.Migrate)
}

func NewSQLStorage(ctx context.Context, db *sql.DB, idGenerator IDGenerator, tableName string, migrate bool) (quotes.Storage, error) {
	if idGenerator == nil {
		idGenerator = uuidGenerator{}
	}

	storage := &sqlStorage{
		ctx:         ctx,
		db:          db,
		idGenerator: idGenerator,
		tableName:   tableName,
	}

	if migrate {
		if err := storage.Migrate(); err != nil {
			return nil, err
		}
	}

	return storage, nil
}

func (s *sqlStorage) Store(currencies []quotes.Currency) ([]quotes.CurrencyWithID, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s(id, symbol, name, slug, price, percent_change_7d, volume_24h, market_cap, provider, created_at) VALUES (?,?,?,?,?,?,?,?,?,?);",
		s.tableName,
	)

	stmt, err := tx.PrepareContext(s.ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	currenciesWithID := make([]quotes.CurrencyWithID, 0, len(currencies))

	for _, currency := range currencies {
		if currency.CreatedAt.IsZero() {
			currency.CreatedAt = time.Now()
		}

		quote, err := currency.QuoteIn(quotes.SettlementCurrency)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		idBytes := s.idGenerator.Generate()
		if len(idBytes) < 16 {
			_ = tx.Rollback()
			return nil, ErrNotEnoughBytesInGenerator
		}

		id, err := uuid.FromBytes(idBytes[:16])
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		_, err = stmt.ExecContext(
			s.ctx,
			idBytes[:16],
			currency.Symbol,
			currency.Name,
			currency.Slug,
			quote.Price,
			quote.PercentChange7D,
			quote.Volume24H,
			quote.MarketCap,
			string(currency.Provider),
			currency.CreatedAt.Format(MySQLTimeFormat),
		)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		currenciesWithID = append(currenciesWithID, quotes.CurrencyWithID{
			Currency:  currency,
			StorageID: id,
		})
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return currenciesWithID, nil
}

func (s *sqlStorage) Get(symbol string, page, perPage int64) ([]quotes.CurrencyWithID, error) {
	query := fmt.Sprintf(
		"SELECT id, symbol, name, slug, price, percent_change_7d, volume_24h, market_cap, provider, created_at FROM %s WHERE symbol = ? ORDER BY created_at DESC LIMIT ? OFFSET ?;",
		s.tableName,
	)

	rows, err := s.db.QueryContext(s.ctx, query, symbol, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	currencies := make([]quotes.CurrencyWithID, 0, perPage)

	for rows.Next() {
		var (
			idBytes             []byte
			sym, name, slug     string
			provider, createdAt string
			quote               quotes.Quote
		)

		err := rows.Scan(
			&idBytes,
			&sym,
			&name,
			&slug,
			&quote.Price,
			&quote.PercentChange7D,
			&quote.Volume24H,
			&quote.MarketCap,
			&provider,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		id, err := uuid.FromBytes(idBytes)
		if err != nil {
			return nil, err
		}

		created, err := time.Parse(MySQLTimeFormat, createdAt)
		if err != nil {
			return nil, err
		}

		currencies = append(currencies, quotes.CurrencyWithID{
			Currency: quotes.Currency{
				Name:      name,
				Symbol:    sym,
				Slug:      slug,
				Quotes:    map[string]quotes.Quote{quotes.SettlementCurrency: quote},
				Provider:  quotes.Provider(provider),
				CreatedAt: created,
			},
			StorageID: id,
		})
	}

	return currencies, rows.Err()
}

func (s *sqlStorage) GetStorageProviderName() string {
	return string(MySQL)
}

func (s *sqlStorage) Migrate() error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s(
	id BINARY(16) PRIMARY KEY,
	symbol VARCHAR(20) NOT NULL,
	name VARCHAR(255) NOT NULL,
	slug VARCHAR(255) NOT NULL,
	price DOUBLE NOT NULL,
	percent_change_7d DOUBLE NOT NULL,
	volume_24h DOUBLE NOT NULL,
	market_cap DOUBLE NOT NULL,
	provider VARCHAR(50) NOT NULL,
	created_at DATETIME NOT NULL
);`, s.tableName)

	_, err := s.db.ExecContext(s.ctx, query)

	return err
}

func (s *sqlStorage) Drop() error {
	_, err := s.db.ExecContext(s.ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", s.tableName))

	return err
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}
