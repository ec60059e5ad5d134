// Package postgres persists the decision audit trail when a database
// is configured.
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"frenz/gateway/internal/domain"
	"frenz/gateway/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS approval_decisions (
			id            TEXT PRIMARY KEY,
			purchase_id   INTEGER NOT NULL,
			invoice       TEXT NOT NULL DEFAULT '',
			action        TEXT NOT NULL,
			actor         TEXT NOT NULL,
			actor_role    TEXT NOT NULL,
			supplier_id   INTEGER,
			supplier_name TEXT NOT NULL DEFAULT '',
			decided_at    TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *Store) CreateDecision(ctx context.Context, decision domain.Decision) error {
	if decision.ID == "" || decision.PurchaseID == 0 || decision.Action == "" || decision.Actor == "" {
		return store.ErrInvalidDecision
	}

	decidedAt, err := time.Parse(time.RFC3339, decision.DecidedAt)
	if err != nil {
		return store.ErrInvalidDecision
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO approval_decisions
			(id, purchase_id, invoice, action, actor, actor_role, supplier_id, supplier_name, decided_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, decision.ID, decision.PurchaseID, decision.Invoice, decision.Action,
		decision.Actor, decision.ActorRole, decision.SupplierID, decision.SupplierName, decidedAt)
	return err
}

func (s *Store) ListDecisions(ctx context.Context, date string, limit int) ([]domain.Decision, error) {
	if limit < 1 {
		limit = 100
	}

	query := `
		SELECT id, purchase_id, invoice, action, actor, actor_role, supplier_id, supplier_name, decided_at
		FROM approval_decisions
	`
	args := make([]any, 0, 2)
	if date != "" {
		query += ` WHERE decided_at::date = $1::date ORDER BY decided_at DESC LIMIT $2`
		args = append(args, date, limit)
	} else {
		query += ` ORDER BY decided_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decisions := make([]domain.Decision, 0, limit)
	for rows.Next() {
		var d domain.Decision
		var decidedAt time.Time
		if err := rows.Scan(&d.ID, &d.PurchaseID, &d.Invoice, &d.Action, &d.Actor, &d.ActorRole, &d.SupplierID, &d.SupplierName, &decidedAt); err != nil {
			return nil, err
		}
		d.DecidedAt = decidedAt.UTC().Format(time.RFC3339)
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return decisions, nil
}
