package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores every collection as a row in a single table. The
// data volume of one café never needs per-record rows; whole-blob
// writes keep the backend interchangeable with the file and memory
// ones.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	_, err = pool.Exec(ctx, `
		create table if not exists collections (
			key        text primary key,
			value      jsonb not null,
			updated_at timestamptz not null default now()
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) SetItem(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
		insert into collections (key, value, updated_at)
		values ($1, $2, now())
		on conflict (key) do update set value = excluded.value, updated_at = now()
	`, key, value)
	return err
}

func (p *Postgres) GetItem(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, `select value from collections where key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *Postgres) RemoveItem(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `delete from collections where key = $1`, key)
	return err
}
