package leads

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
)

const schema = `CREATE TABLE IF NOT EXISTS leads (
	id               UUID PRIMARY KEY,
	created_at       TIMESTAMPTZ NOT NULL,
	name             TEXT NOT NULL DEFAULT '',
	email            TEXT NOT NULL DEFAULT '',
	company          TEXT NOT NULL DEFAULT '',
	url              TEXT NOT NULL,
	search_site      TEXT NOT NULL DEFAULT '',
	traffic_property TEXT NOT NULL DEFAULT ''
)`

const insertLead = `INSERT INTO leads
	(id, created_at, name, email, company, url, search_site, traffic_property)
	VALUES (:id, :created_at, :name, :email, :company, :url, :search_site, :traffic_property)`

// Postgres represents a Postgres lead store.
type Postgres struct {
	db *sqlx.DB
}

// Open connects to Postgres through the pgx driver.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to lead store: %w", err)
	}

	return &Postgres{db: db}, nil
}

// EnsureSchema creates the leads table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create leads table: %w", err)
	}

	return nil
}

// Record appends one lead.
func (p *Postgres) Record(ctx context.Context, lead Lead) error {
	if _, err := p.db.NamedExecContext(ctx, insertLead, lead); err != nil {
		return fmt.Errorf("insert lead for %s: %w", lead.URL, err)
	}

	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
