package sales

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/sales/composer"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

func messages(notices []shared.Notice) []string {
	out := make([]string, 0, len(notices))
	for _, n := range notices {
		out = append(out, n.Message)
	}
	return out
}

func TestNoticesForComposerErrors(t *testing.T) {
	assert.Equal(t, []string{MsgNoItems}, messages(NoticesFor(composer.ErrIncompleteOrder)))
	assert.Equal(t,
		[]string{"Please select a product for all items (lines 2, 3)"},
		messages(NoticesFor(&composer.MissingProductError{Lines: []int{1, 2}})))
	assert.Equal(t,
		[]string{"customer_name: this field is required", "items[0].quantity: must be at least 1"},
		messages(NoticesFor(&composer.ValidationError{Fields: map[string]string{
			"items[0].quantity": "must be at least 1",
			"customer_name":     "this field is required",
		}})))
}

func TestNoticesForServerErrors(t *testing.T) {
	detail := &backend.ServerError{Status: 400, Kind: backend.KindMessage, Message: "Insufficient stock for Pen"}
	assert.Equal(t, []string{"Error: Insufficient stock for Pen"}, messages(NoticesFor(detail)))

	fields := &backend.ServerError{Status: 400, Kind: backend.KindFieldErrors, Fields: map[string][]string{
		backend.NonFieldErrors: {"Sale could not be saved."},
		"customer_name":        {"This field may not be blank.", "Too short."},
	}}
	assert.Equal(t, []string{
		"customer_name: This field may not be blank.",
		"customer_name: Too short.",
		"Sale could not be saved.",
	}, messages(NoticesFor(fmt.Errorf("create sale: %w", fields))))

	empty := &backend.ServerError{Status: 400, Kind: backend.KindFieldErrors}
	assert.Equal(t, []string{MsgSubmitFailed}, messages(NoticesFor(empty)))
}

func TestNoticesForTransportFailure(t *testing.T) {
	notices := NoticesFor(fmt.Errorf("%w: connection refused", backend.ErrNetworkFailure))
	assert.Equal(t, []string{MsgSubmitFailed}, messages(notices))
	assert.Equal(t, shared.NoticeError, notices[0].Kind)

	assert.Nil(t, NoticesFor(nil))
	assert.Equal(t, []string{MsgSubmitFailed}, messages(NoticesFor(errors.New("boom"))))
}
