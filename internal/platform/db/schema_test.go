package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	statements []string
	execErr    error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.statements = append(f.statements, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), f.execErr
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	tx   *fakeTx
	opts pgx.TxOptions
}

func (f *fakeBeginner) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	f.opts = opts
	return f.tx, nil
}

func TestEnsureAuditSchemaCommits(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	require.NoError(t, EnsureAuditSchema(context.Background(), beginner))

	assert.Equal(t, pgx.ReadCommitted, beginner.opts.IsoLevel)
	assert.Len(t, beginner.tx.statements, len(auditSchema))
	assert.Contains(t, beginner.tx.statements[0], "CREATE TABLE IF NOT EXISTS audit_logs")
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
}

func TestEnsureAuditSchemaRollsBackOnError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{execErr: errors.New("permission denied")}}
	err := EnsureAuditSchema(context.Background(), beginner)
	require.Error(t, err)

	assert.Len(t, beginner.tx.statements, 1)
	assert.False(t, beginner.tx.committed)
	assert.True(t, beginner.tx.rolledBack)
}
