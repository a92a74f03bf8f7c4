package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/odyssey-erp/salesdesk/internal/sales/composer"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

// ErrDraftNotFound is returned for unknown or expired drafts.
var ErrDraftNotFound = errors.New("sales: draft not found")

// ErrDraftConflict is returned when concurrent edits keep racing an update.
var ErrDraftConflict = errors.New("sales: draft changed concurrently")

const maxUpdateAttempts = 10

// StoredDraft is a draft with its storage identity.
type StoredDraft struct {
	ID        string
	Draft     composer.Draft
	UpdatedAt time.Time
}

type draftRecord struct {
	CustomerName    string       `msgpack:"customer_name"`
	CustomerContact string       `msgpack:"customer_contact"`
	Discount        *string      `msgpack:"discount,omitempty"`
	Items           []lineRecord `msgpack:"items"`
	UpdatedAt       time.Time    `msgpack:"updated_at"`
}

type lineRecord struct {
	Product   *productRecord `msgpack:"product,omitempty"`
	Quantity  int            `msgpack:"quantity"`
	UnitPrice string         `msgpack:"unit_price"`
}

type productRecord struct {
	ID    int64  `msgpack:"id"`
	Name  string `msgpack:"name"`
	Code  string `msgpack:"code"`
	Price string `msgpack:"price"`
}

// DraftStore keeps drafts in Redis with a sliding TTL.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewDraftStore constructs the store.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl, now: time.Now}
}

// Create stores d under a fresh id.
func (s *DraftStore) Create(ctx context.Context, d composer.Draft) (StoredDraft, error) {
	stored := StoredDraft{ID: uuid.NewString(), Draft: d, UpdatedAt: s.now().UTC()}
	payload, err := encodeDraft(stored)
	if err != nil {
		return StoredDraft{}, err
	}
	ok, err := s.client.SetNX(ctx, shared.DraftKey(stored.ID), payload, s.ttl).Result()
	if err != nil {
		return StoredDraft{}, fmt.Errorf("sales: create draft: %w", err)
	}
	if !ok {
		return StoredDraft{}, fmt.Errorf("sales: draft id collision %s", stored.ID)
	}
	return stored, nil
}

// Load returns the draft stored under id.
func (s *DraftStore) Load(ctx context.Context, id string) (StoredDraft, error) {
	payload, err := s.client.Get(ctx, shared.DraftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return StoredDraft{}, ErrDraftNotFound
	}
	if err != nil {
		return StoredDraft{}, fmt.Errorf("sales: load draft: %w", err)
	}
	return decodeDraft(id, payload)
}

// Update loads the draft, applies fn and writes it back in a WATCH/MULTI
// transaction. A concurrent write restarts the cycle with the fresh draft,
// so fn may run more than once.
func (s *DraftStore) Update(ctx context.Context, id string, fn func(*StoredDraft) error) (StoredDraft, error) {
	key := shared.DraftKey(id)
	var stored StoredDraft
	txf := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrDraftNotFound
		}
		if err != nil {
			return fmt.Errorf("sales: load draft: %w", err)
		}
		stored, err = decodeDraft(id, payload)
		if err != nil {
			return err
		}
		if err := fn(&stored); err != nil {
			return err
		}
		stored.UpdatedAt = s.now().UTC()
		next, err := encodeDraft(stored)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return StoredDraft{}, err
		}
		return stored, nil
	}
	return StoredDraft{}, ErrDraftConflict
}

// Delete discards the draft. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, shared.DraftKey(id)).Err(); err != nil {
		return fmt.Errorf("sales: delete draft: %w", err)
	}
	return nil
}

func encodeDraft(stored StoredDraft) ([]byte, error) {
	rec := draftRecord{
		CustomerName:    stored.Draft.CustomerName,
		CustomerContact: stored.Draft.CustomerContact,
		Items:           make([]lineRecord, 0, len(stored.Draft.Items)),
		UpdatedAt:       stored.UpdatedAt,
	}
	if stored.Draft.DiscountPercentage != nil {
		v := stored.Draft.DiscountPercentage.String()
		rec.Discount = &v
	}
	for _, item := range stored.Draft.Items {
		line := lineRecord{Quantity: item.Quantity, UnitPrice: item.UnitPrice.String()}
		if item.Product != nil {
			line.Product = &productRecord{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Code:  item.Product.Code,
				Price: item.Product.Price.String(),
			}
		}
		rec.Items = append(rec.Items, line)
	}
	payload, err := msgpack.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("sales: encode draft: %w", err)
	}
	return payload, nil
}

func decodeDraft(id string, payload []byte) (StoredDraft, error) {
	var rec draftRecord
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return StoredDraft{}, fmt.Errorf("sales: decode draft: %w", err)
	}
	d := composer.Draft{
		CustomerName:    rec.CustomerName,
		CustomerContact: rec.CustomerContact,
		Items:           make([]composer.LineItem, 0, len(rec.Items)),
	}
	if rec.Discount != nil {
		v, err := decimal.NewFromString(*rec.Discount)
		if err != nil {
			return StoredDraft{}, fmt.Errorf("sales: decode draft discount: %w", err)
		}
		d.DiscountPercentage = &v
	}
	for _, line := range rec.Items {
		price, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return StoredDraft{}, fmt.Errorf("sales: decode line price: %w", err)
		}
		item := composer.LineItem{Quantity: line.Quantity, UnitPrice: price}
		if line.Product != nil {
			catalogPrice, err := decimal.NewFromString(line.Product.Price)
			if err != nil {
				return StoredDraft{}, fmt.Errorf("sales: decode product price: %w", err)
			}
			item.Product = &composer.ProductRef{
				ID:    line.Product.ID,
				Name:  line.Product.Name,
				Code:  line.Product.Code,
				Price: catalogPrice,
			}
		}
		d.Items = append(d.Items, item)
	}
	return StoredDraft{ID: id, Draft: d, UpdatedAt: rec.UpdatedAt}, nil
}
