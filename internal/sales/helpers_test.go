package sales

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/catalog"
	"github.com/odyssey-erp/salesdesk/internal/sales/composer"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

type fakeBackend struct {
	mu       sync.Mutex
	requests []composer.OrderRequest
	sale     *backend.Sale
	err      error
	orders   []backend.SaleSummary
	block    chan struct{}
}

func (f *fakeBackend) ListSales(ctx context.Context) ([]backend.SaleSummary, error) {
	return f.orders, nil
}

func (f *fakeBackend) CreateSale(ctx context.Context, req composer.OrderRequest) (*backend.Sale, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.sale, f.err
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeCatalog struct {
	products  map[int64]composer.ProductRef
	refreshed int
}

func (f *fakeCatalog) Lookup(ctx context.Context, id int64) (composer.ProductRef, error) {
	ref, ok := f.products[id]
	if !ok {
		return composer.ProductRef{}, catalog.ErrProductNotFound
	}
	return ref, nil
}

func (f *fakeCatalog) Refresh(ctx context.Context) error {
	f.refreshed++
	return nil
}

type fakeAuditor struct {
	logs     []shared.AuditLog
	onRecord func(ctx context.Context)
}

func (f *fakeAuditor) Record(ctx context.Context, log shared.AuditLog) error {
	f.logs = append(f.logs, log)
	if f.onRecord != nil {
		f.onRecord(ctx)
	}
	return nil
}

type testEnv struct {
	mr      *miniredis.Miniredis
	client  *redis.Client
	store   *DraftStore
	backend *fakeBackend
	catalog *fakeCatalog
	audit   *fakeAuditor
	service *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := &testEnv{
		mr:     mr,
		client: client,
		store:  NewDraftStore(client, time.Hour),
		backend: &fakeBackend{
			sale: &backend.Sale{ID: 42, InvoiceNumber: "INV20250115103000", NetAmount: decimal.RequireFromString("315")},
		},
		catalog: &fakeCatalog{products: map[int64]composer.ProductRef{
			1: {ID: 1, Name: "Pen", Code: "PRD0001", Price: decimal.RequireFromString("100")},
			2: {ID: 2, Name: "Notebook", Code: "PRD0002", Price: decimal.RequireFromString("50")},
		}},
		audit: &fakeAuditor{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.service = NewService(env.store, NewSubmitGuard(client, time.Minute), env.backend, env.catalog, env.audit, logger)
	return env
}

func strPtr(s string) *string {
	return &s
}
