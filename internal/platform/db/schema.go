package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var auditSchema = []string{
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id          BIGSERIAL PRIMARY KEY,
		actor       TEXT NOT NULL DEFAULT '',
		action      TEXT NOT NULL,
		entity      TEXT NOT NULL,
		entity_id   TEXT NOT NULL,
		meta        JSONB,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS audit_logs_entity_idx ON audit_logs (entity, entity_id)`,
	`CREATE INDEX IF NOT EXISTS audit_logs_occurred_at_idx ON audit_logs (occurred_at DESC)`,
}

// EnsureAuditSchema creates the audit_logs table when missing.
func EnsureAuditSchema(ctx context.Context, db TxBeginner) error {
	return WithTx(ctx, db, func(tx pgx.Tx) error {
		for _, stmt := range auditSchema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("platform/db: audit schema: %w", err)
			}
		}
		return nil
	})
}
