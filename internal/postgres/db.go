package postgres

import (
	"context"
	"time"

	"github.com/cwrk-planet/board-service/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

// New builds a *pgxpool.Pool with the configured limits and verifies it with
// a Ping before handing it out.
func New(ctx context.Context, cfg config.Postgres) (*DB, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if pc.ConnConfig.RuntimeParams == nil {
		pc.ConnConfig.RuntimeParams = map[string]string{}
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "board-service"

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}

	if err := ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate creates the schema if it does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	room_id    text PRIMARY KEY,
	name       text NOT NULL DEFAULT 'Untitled Board',
	created_by text NOT NULL DEFAULT 'Anonymous',
	settings   jsonb NOT NULL DEFAULT '{}',
	snapshot   bytea,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS room_members (
	room_id   text NOT NULL REFERENCES rooms(room_id) ON DELETE CASCADE,
	user_id   text NOT NULL,
	user_name text NOT NULL,
	color     text NOT NULL,
	last_seen timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (room_id, user_id)
);

CREATE TABLE IF NOT EXISTS board_events (
	id          bigserial PRIMARY KEY,
	room_id     text NOT NULL,
	user_id     text NOT NULL,
	user_name   text NOT NULL,
	event_type  text NOT NULL,
	tool        text NOT NULL DEFAULT '',
	coordinates jsonb NOT NULL DEFAULT '[]',
	style       jsonb NOT NULL DEFAULT '{}',
	ts          timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS board_events_room_ts_idx ON board_events (room_id, ts);
CREATE INDEX IF NOT EXISTS board_events_ts_idx ON board_events (ts);
`
	_, err := db.Pool.Exec(ctx, schema)
	return err
}

func ping(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return pool.Ping(ctx)
}
