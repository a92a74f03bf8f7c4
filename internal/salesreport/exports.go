package salesreport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/odyssey-erp/salesdesk/internal/shared"
)

// ExportStatus tracks an asynchronous report export.
type ExportStatus string

const (
	ExportPending ExportStatus = "pending"
	ExportReady   ExportStatus = "ready"
	ExportFailed  ExportStatus = "failed"
)

// ErrExportNotFound is returned for unknown or expired exports.
var ErrExportNotFound = errors.New("salesreport: export not found")

// ExportRecord is one queued export and, once ready, its file.
type ExportRecord struct {
	ID          string       `msgpack:"id"`
	Status      ExportStatus `msgpack:"status"`
	Start       string       `msgpack:"start"`
	End         string       `msgpack:"end"`
	FileName    string       `msgpack:"file_name,omitempty"`
	ContentType string       `msgpack:"content_type,omitempty"`
	Data        []byte       `msgpack:"data,omitempty"`
	Error       string       `msgpack:"error,omitempty"`
	CreatedAt   time.Time    `msgpack:"created_at"`
	UpdatedAt   time.Time    `msgpack:"updated_at"`
}

// File returns the rendered file of a ready export.
func (r ExportRecord) File() shared.File {
	return shared.File{Name: r.FileName, ContentType: r.ContentType, Data: r.Data}
}

// ExportStore keeps export records in Redis for a fixed TTL.
type ExportStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExportStore constructs the store.
func NewExportStore(client *redis.Client, ttl time.Duration) *ExportStore {
	return &ExportStore{client: client, ttl: ttl}
}

// Put writes rec, replacing any previous state.
func (s *ExportStore) Put(ctx context.Context, rec ExportRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}
	payload, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("salesreport: encode export: %w", err)
	}
	if err := s.client.Set(ctx, shared.ExportKey(rec.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("salesreport: store export: %w", err)
	}
	return nil
}

// Get loads an export record.
func (s *ExportStore) Get(ctx context.Context, id string) (ExportRecord, error) {
	payload, err := s.client.Get(ctx, shared.ExportKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ExportRecord{}, ErrExportNotFound
	}
	if err != nil {
		return ExportRecord{}, fmt.Errorf("salesreport: load export: %w", err)
	}
	var rec ExportRecord
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return ExportRecord{}, fmt.Errorf("salesreport: decode export: %w", err)
	}
	return rec, nil
}
