package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	_ "modernc.org/sqlite"
)

// Journal is an EventStore together with the connection it owns.
type Journal struct {
	EventStore
	Backend string

	closeFn func() error
}

// Close releases the underlying connection, if any.
func (j *Journal) Close() error {
	if j == nil || j.closeFn == nil {
		return nil
	}
	return j.closeFn()
}

// Open connects to the journal described by rawURL:
//
//	""  or memory://              in-process map
//	sqlite://<path or :memory:>   modernc.org/sqlite
//	postgres://user:pw@host/db    pgx stdlib driver
//	redis://host:port/db          go-redis, keys under "formflow:"
//	mongodb://host:port/<db>      mongo-driver, db defaults to "formflow"
func Open(ctx context.Context, rawURL string) (*Journal, error) {
	if rawURL == "" || rawURL == "memory" || rawURL == "memory://" {
		return &Journal{EventStore: NewInMemoryEventStore(), Backend: "memory"}, nil
	}

	scheme, rest, ok := strings.Cut(rawURL, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJournal, rawURL)
	}

	switch scheme {
	case "sqlite", "sqlite3":
		dsn := strings.TrimPrefix(rest, "//")
		if dsn == "" {
			dsn = ":memory:"
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		if isMemoryDSN(dsn) {
			// Every connection to :memory: is a separate database.
			db.SetMaxOpenConns(1)
		}
		store, err := NewSQLiteEventStore(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Journal{EventStore: store, Backend: "sqlite", closeFn: db.Close}, nil

	case "postgres", "postgresql":
		db, err := sql.Open("pgx", rawURL)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		store, err := NewPostgresEventStore(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Journal{EventStore: store, Backend: "postgres", closeFn: db.Close}, nil

	case "redis", "rediss":
		opts, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return &Journal{EventStore: NewRedisEventStore(client, "formflow:"), Backend: "redis", closeFn: client.Close}, nil

	case "mongodb", "mongodb+srv":
		cs, err := connstring.ParseAndValidate(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse mongo url: %w", err)
		}
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(rawURL))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		disconnect := func() error { return client.Disconnect(context.Background()) }
		store, err := NewMongoEventStore(ctx, client, cs.Database, "")
		if err != nil {
			_ = disconnect()
			return nil, err
		}
		return &Journal{EventStore: store, Backend: "mongodb", closeFn: disconnect}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownJournal, scheme)
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" ||
		strings.HasPrefix(dsn, "file::memory:") ||
		strings.Contains(dsn, "mode=memory")
}
