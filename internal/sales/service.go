// Package sales drives the order composer over HTTP: drafts live in Redis,
// are edited line by line, and are submitted to the backend once complete.
package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/sales/composer"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

// Backend is the subset of the backend client used for orders.
type Backend interface {
	ListSales(ctx context.Context) ([]backend.SaleSummary, error)
	CreateSale(ctx context.Context, req composer.OrderRequest) (*backend.Sale, error)
}

// Catalog resolves products for the picker.
type Catalog interface {
	Lookup(ctx context.Context, id int64) (composer.ProductRef, error)
	Refresh(ctx context.Context) error
}

// Auditor records completed submissions.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// DraftUpdate carries header fields; nil fields are left unchanged.
type DraftUpdate struct {
	CustomerName    *string
	CustomerContact *string
	// Discount is raw input; blank or malformed clears the discount.
	Discount *string
}

// LineUpdate carries raw quantity/price input; nil fields are left unchanged.
type LineUpdate struct {
	Quantity  *string
	UnitPrice *string
}

// SubmitResult is the outcome of a submission attempt.
type SubmitResult struct {
	Sale    *backend.Sale
	Orders  []backend.SaleSummary
	Notices []shared.Notice
}

// Service provides the composer workflow.
type Service struct {
	store   *DraftStore
	guard   *SubmitGuard
	backend Backend
	catalog Catalog
	audit   Auditor
	logger  *slog.Logger
}

// NewService constructs a sales service. audit may be nil.
func NewService(store *DraftStore, guard *SubmitGuard, backend Backend, catalog Catalog, audit Auditor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		guard:   guard,
		backend: backend,
		catalog: catalog,
		audit:   audit,
		logger:  logger,
	}
}

// Orders returns the backend order list.
func (s *Service) Orders(ctx context.Context) ([]backend.SaleSummary, error) {
	return s.backend.ListSales(ctx)
}

// CreateDraft starts a draft with the default discount and one blank line.
func (s *Service) CreateDraft(ctx context.Context) (StoredDraft, error) {
	return s.store.Create(ctx, composer.NewDraft())
}

// Draft loads a draft.
func (s *Service) Draft(ctx context.Context, id string) (StoredDraft, error) {
	return s.store.Load(ctx, id)
}

// DiscardDraft cancels the draft.
func (s *Service) DiscardDraft(ctx context.Context, id string) error {
	if _, err := s.store.Load(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// UpdateDraft edits the customer fields and discount.
func (s *Service) UpdateDraft(ctx context.Context, id string, upd DraftUpdate) (StoredDraft, error) {
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		if upd.CustomerName != nil {
			d.CustomerName = *upd.CustomerName
		}
		if upd.CustomerContact != nil {
			d.CustomerContact = *upd.CustomerContact
		}
		if upd.Discount != nil {
			d.SetDiscount(composer.ParseDiscount(*upd.Discount))
		}
		return nil
	})
}

// AddLine appends a blank line.
func (s *Service) AddLine(ctx context.Context, id string) (StoredDraft, error) {
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		d.AddLine()
		return nil
	})
}

// RemoveLine drops a line; removed is false when it was the last one.
func (s *Service) RemoveLine(ctx context.Context, id string, index int) (stored StoredDraft, removed bool, err error) {
	stored, err = s.mutate(ctx, id, func(d *composer.Draft) error {
		var rmErr error
		removed, rmErr = d.RemoveLine(index)
		return rmErr
	})
	return stored, removed, err
}

// SelectProduct points a line at a catalog product, resetting its price.
func (s *Service) SelectProduct(ctx context.Context, id string, index int, productID int64) (StoredDraft, error) {
	ref, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return StoredDraft{}, err
	}
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		return d.SelectProduct(index, ref)
	})
}

// UpdateLine applies raw quantity and price input to a line.
func (s *Service) UpdateLine(ctx context.Context, id string, index int, upd LineUpdate) (StoredDraft, error) {
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		if upd.Quantity != nil {
			if err := d.SetQuantity(index, composer.ParseQuantity(*upd.Quantity)); err != nil {
				return err
			}
		}
		if upd.UnitPrice != nil {
			if err := d.SetUnitPrice(index, composer.ParseUnitPrice(*upd.UnitPrice)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*composer.Draft) error) (StoredDraft, error) {
	return s.store.Update(ctx, id, func(stored *StoredDraft) error {
		return fn(&stored.Draft)
	})
}

// Submit validates the draft, sends it to the backend and discards it on
// success. On failure the draft is left untouched and the result carries
// the notices to show. The submit guard is held from load until the draft
// is discarded, so a repeated submit sees either the lock or no draft.
func (s *Service) Submit(ctx context.Context, id string) (SubmitResult, error) {
	release, err := s.guard.Acquire(ctx, id)
	if err != nil {
		return SubmitResult{Notices: NoticesFor(err)}, err
	}
	defer release()

	stored, err := s.store.Load(ctx, id)
	if err != nil {
		return SubmitResult{Notices: NoticesFor(err)}, err
	}
	req, err := composer.ToRequest(stored.Draft)
	if err != nil {
		return SubmitResult{Notices: NoticesFor(err)}, err
	}

	sale, err := s.backend.CreateSale(ctx, req)
	if err != nil {
		s.logger.Warn("create sale rejected", slog.String("draft_id", id), slog.Any("error", err))
		return SubmitResult{Notices: NoticesFor(err)}, err
	}

	s.logger.Info("sale created",
		slog.String("draft_id", id),
		slog.Int64("sale_id", sale.ID),
		slog.String("invoice", sale.InvoiceNumber),
		slog.Int("items", len(req.Items)))

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Warn("discard submitted draft", slog.String("draft_id", id), slog.Any("error", err))
	}
	s.recordAudit(ctx, sale, len(req.Items))

	result := SubmitResult{Sale: sale, Notices: []shared.Notice{shared.Success(MsgSaleCreated)}}
	orders, err := s.refreshAfterSale(ctx)
	if err != nil {
		s.logger.Warn("refresh after sale", slog.Any("error", err))
	}
	result.Orders = orders
	return result, nil
}

// refreshAfterSale reloads the order list and invalidates the catalog so
// picker stock levels follow the sale.
func (s *Service) refreshAfterSale(ctx context.Context) ([]backend.SaleSummary, error) {
	var orders []backend.SaleSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.backend.ListSales(gctx)
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}
		orders = list
		return nil
	})
	g.Go(func() error {
		if err := s.catalog.Refresh(gctx); err != nil {
			return fmt.Errorf("refresh catalog: %w", err)
		}
		return nil
	})
	err := g.Wait()
	return orders, err
}

func (s *Service) recordAudit(ctx context.Context, sale *backend.Sale, items int) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		Action:   "sale.created",
		Entity:   "sale",
		EntityID: strconv.FormatInt(sale.ID, 10),
		Meta: map[string]any{
			"invoice_number": sale.InvoiceNumber,
			"items":          items,
			"net_amount":     sale.NetAmount.String(),
		},
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("audit sale", slog.Int64("sale_id", sale.ID), slog.Any("error", err))
	}
}
