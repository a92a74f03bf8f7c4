package sales

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/catalog"
	"github.com/odyssey-erp/salesdesk/internal/sales/composer"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

func composeCompleteDraft(t *testing.T, env *testEnv) StoredDraft {
	t.Helper()
	ctx := context.Background()
	stored, err := env.service.CreateDraft(ctx)
	require.NoError(t, err)
	_, err = env.service.UpdateDraft(ctx, stored.ID, DraftUpdate{
		CustomerName:    strPtr("Asha Rao"),
		CustomerContact: strPtr("9876543210"),
		Discount:        strPtr("10"),
	})
	require.NoError(t, err)
	_, err = env.service.AddLine(ctx, stored.ID)
	require.NoError(t, err)
	_, err = env.service.SelectProduct(ctx, stored.ID, 0, 1)
	require.NoError(t, err)
	_, err = env.service.UpdateLine(ctx, stored.ID, 0, LineUpdate{Quantity: strPtr("2")})
	require.NoError(t, err)
	_, err = env.service.SelectProduct(ctx, stored.ID, 1, 2)
	require.NoError(t, err)
	stored, err = env.service.Draft(ctx, stored.ID)
	require.NoError(t, err)
	return stored
}

func TestComposeDraftTotals(t *testing.T) {
	env := newTestEnv(t)
	stored := composeCompleteDraft(t, env)

	view := NewDraftView(stored)
	assert.Equal(t, "250.00", view.Subtotal)
	assert.Equal(t, "25.00", view.DiscountAmount)
	assert.Equal(t, "225.00", view.NetTotal)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "200.00", view.Items[0].Total)
	assert.Equal(t, "Pen", view.Items[0].ProductName)
}

func TestSelectProductResetsEditedPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stored, err := env.service.CreateDraft(ctx)
	require.NoError(t, err)

	_, err = env.service.SelectProduct(ctx, stored.ID, 0, 1)
	require.NoError(t, err)
	stored, err = env.service.UpdateLine(ctx, stored.ID, 0, LineUpdate{UnitPrice: strPtr("80")})
	require.NoError(t, err)
	assert.Equal(t, "80", stored.Draft.Items[0].UnitPrice.String())

	stored, err = env.service.SelectProduct(ctx, stored.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "50", stored.Draft.Items[0].UnitPrice.String())

	_, err = env.service.SelectProduct(ctx, stored.ID, 0, 99)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestUpdateLineParsesRawInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stored, err := env.service.CreateDraft(ctx)
	require.NoError(t, err)

	stored, err = env.service.UpdateLine(ctx, stored.ID, 0, LineUpdate{Quantity: strPtr("abc"), UnitPrice: strPtr("x")})
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Draft.Items[0].Quantity)
	assert.True(t, stored.Draft.Items[0].UnitPrice.IsZero())

	_, err = env.service.UpdateLine(ctx, stored.ID, 3, LineUpdate{Quantity: strPtr("2")})
	assert.ErrorIs(t, err, composer.ErrLineOutOfRange)
}

func TestRemoveLastLineIsNoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stored, err := env.service.CreateDraft(ctx)
	require.NoError(t, err)

	stored, removed, err := env.service.RemoveLine(ctx, stored.ID, 0)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, stored.Draft.Items, 1)

	_, err = env.service.AddLine(ctx, stored.ID)
	require.NoError(t, err)
	stored, removed, err = env.service.RemoveLine(ctx, stored.ID, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, stored.Draft.Items, 1)
}

func TestSubmitBlocksUnresolvedLinesBeforeNetwork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stored, err := env.service.CreateDraft(ctx)
	require.NoError(t, err)
	_, err = env.service.AddLine(ctx, stored.ID)
	require.NoError(t, err)
	_, err = env.service.SelectProduct(ctx, stored.ID, 1, 1)
	require.NoError(t, err)

	result, err := env.service.Submit(ctx, stored.ID)
	assert.ErrorIs(t, err, composer.ErrMissingProductReference)
	assert.Equal(t, 0, env.backend.calls())
	require.Len(t, result.Notices, 1)
	assert.Equal(t, "Please select a product for all items (line 1)", result.Notices[0].Message)

	_, err = env.service.Draft(ctx, stored.ID)
	assert.NoError(t, err)
}

func TestSubmitSuccessDiscardsDraft(t *testing.T) {
	env := newTestEnv(t)
	env.backend.orders = []backend.SaleSummary{{ID: 42, InvoiceNumber: "INV20250115103000"}}
	stored := composeCompleteDraft(t, env)
	ctx := context.Background()

	result, err := env.service.Submit(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Sale)
	assert.Equal(t, int64(42), result.Sale.ID)
	assert.Equal(t, []shared.Notice{shared.Success(MsgSaleCreated)}, result.Notices)
	assert.Len(t, result.Orders, 1)
	assert.Equal(t, 1, env.catalog.refreshed)

	require.Len(t, env.backend.requests, 1)
	req := env.backend.requests[0]
	assert.Len(t, req.Items, 2)
	assert.Equal(t, 10.0, req.DiscountPercentage)
	assert.Equal(t, composer.OrderRequestItem{Product: 1, Quantity: 2, UnitPrice: 100}, req.Items[0])

	require.Len(t, env.audit.logs, 1)
	assert.Equal(t, "sale.created", env.audit.logs[0].Action)
	assert.Equal(t, "42", env.audit.logs[0].EntityID)

	_, err = env.service.Draft(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.False(t, env.mr.Exists(shared.DraftSubmitLockKey(stored.ID)))
}

func TestSubmitServerRejectionKeepsDraft(t *testing.T) {
	env := newTestEnv(t)
	env.backend.err = &backend.ServerError{
		Status: 400,
		Kind:   backend.KindFieldErrors,
		Fields: map[string][]string{
			"customer_contact":  {"Ensure this field has no more than 15 characters."},
			"items[1].quantity": {"Insufficient stock."},
		},
	}
	stored := composeCompleteDraft(t, env)
	ctx := context.Background()

	result, err := env.service.Submit(ctx, stored.ID)
	assert.ErrorIs(t, err, backend.ErrServerValidation)
	require.Len(t, result.Notices, 2)
	assert.Equal(t, "customer_contact: Ensure this field has no more than 15 characters.", result.Notices[0].Message)
	assert.Equal(t, "items[1].quantity: Insufficient stock.", result.Notices[1].Message)

	kept, err := env.service.Draft(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Draft.Items, kept.Draft.Items)
	assert.Empty(t, env.audit.logs)
	assert.False(t, env.mr.Exists(shared.DraftSubmitLockKey(stored.ID)))
}

func TestSubmitRejectsDuplicateWhileInFlight(t *testing.T) {
	env := newTestEnv(t)
	env.backend.block = make(chan struct{})
	stored := composeCompleteDraft(t, env)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = env.service.Submit(ctx, stored.ID)
	}()
	require.Eventually(t, func() bool { return env.backend.calls() == 1 }, time.Second, 5*time.Millisecond)

	result, err := env.service.Submit(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Equal(t, MsgSubmitInFlight, result.Notices[0].Message)

	close(env.backend.block)
	wg.Wait()
	assert.Equal(t, 1, env.backend.calls())
}

func TestSubmitRepeatedAfterCreateSendsOnce(t *testing.T) {
	env := newTestEnv(t)
	stored := composeCompleteDraft(t, env)
	ctx := context.Background()

	var repeatErr error
	env.audit.onRecord = func(ctx context.Context) {
		_, repeatErr = env.service.Submit(ctx, stored.ID)
	}

	_, err := env.service.Submit(ctx, stored.ID)
	require.NoError(t, err)
	require.Error(t, repeatErr)
	assert.True(t, errors.Is(repeatErr, ErrSubmitInFlight) || errors.Is(repeatErr, ErrDraftNotFound))
	assert.Equal(t, 1, env.backend.calls())

	_, err = env.service.Submit(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.Equal(t, 1, env.backend.calls())
	assert.False(t, env.mr.Exists(shared.DraftSubmitLockKey(stored.ID)))
}

func TestSubmitReleasesGuardOnValidationFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stored, err := env.service.CreateDraft(ctx)
	require.NoError(t, err)

	_, err = env.service.Submit(ctx, stored.ID)
	assert.ErrorIs(t, err, composer.ErrMissingProductReference)
	assert.False(t, env.mr.Exists(shared.DraftSubmitLockKey(stored.ID)))
}

func TestConcurrentLineEditsAreNotLost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stored, err := env.service.CreateDraft(ctx)
	require.NoError(t, err)

	const writers = 5
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.service.AddLine(ctx, stored.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err = env.service.Draft(ctx, stored.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Draft.Items, writers+1)
}

func TestSubmitUnknownDraft(t *testing.T) {
	env := newTestEnv(t)
	result, err := env.service.Submit(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.Equal(t, MsgDraftExpired, result.Notices[0].Message)
}
