// Package storage selects the HotelRepository backend named by STORE_DRIVER.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"travel_hotels/internal/domain"
	"travel_hotels/internal/shared"
	"travel_hotels/internal/storage/memory"
	mongostore "travel_hotels/internal/storage/mongo"
	mysqlrepo "travel_hotels/internal/storage/mysql"
)

// Open connects to the configured backend, prepares its schema and returns
// the repository plus a close func.
func Open(ctx context.Context, cfg shared.Config) (domain.HotelRepository, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.New(), func() {}, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("mysql ping: %w", err)
		}
		repo := mysqlrepo.New(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Msg("mysql connection ok")
		return repo, func() { _ = db.Close() }, nil

	case "mongo", "":
		client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		closeFn := func() { _ = client.Close(context.Background()) }
		if err := client.Ping(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("mongo ping: %w", err)
		}
		repo := mongostore.NewHotelRepository(client.DB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("db", cfg.MongoDB).Msg("mongo connection ok")
		return repo, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
