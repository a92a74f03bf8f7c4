// Package catalog serves the product list used by the order composer's
// product picker.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/sales/composer"
)

// ErrProductNotFound is returned by Lookup for ids missing from the catalog.
var ErrProductNotFound = errors.New("catalog: product not found")

// Source loads the product list from the backend.
type Source interface {
	ListProducts(ctx context.Context) ([]backend.Product, error)
}

// Service coordinates backend product reads with the cache layer.
type Service struct {
	source Source
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService wires a Source with a Cache helper.
func NewService(source Source, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, cache: cache, logger: logger}
}

// Products returns the cached product list, loading it once per cache version.
func (s *Service) Products(ctx context.Context) ([]backend.Product, error) {
	key, err := s.cache.Key(ctx, "products")
	if err != nil {
		s.logger.Warn("catalog cache unavailable", slog.Any("error", err))
		return s.source.ListProducts(ctx)
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		var products []backend.Product
		err := s.cache.FetchJSON(ctx, key, &products, func(ctx context.Context) (any, error) {
			return s.source.ListProducts(ctx)
		})
		return products, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]backend.Product), nil
}

// Lookup resolves a product id to the reference stored on an order line.
func (s *Service) Lookup(ctx context.Context, id int64) (composer.ProductRef, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return composer.ProductRef{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return RefFor(p), nil
		}
	}
	return composer.ProductRef{}, fmt.Errorf("%w: %s", ErrProductNotFound, strconv.FormatInt(id, 10))
}

// Refresh drops the cached list so the next read reloads it.
func (s *Service) Refresh(ctx context.Context) error {
	ver, err := s.cache.Bump(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("catalog refreshed", slog.Int64("version", ver))
	return nil
}

// RefFor converts a backend product into a line reference priced at the
// catalog price.
func RefFor(p backend.Product) composer.ProductRef {
	return composer.ProductRef{
		ID:    p.ID,
		Name:  p.Name,
		Code:  p.Code,
		Price: p.CatalogPrice(),
	}
}
