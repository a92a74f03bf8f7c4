package sales

import (
	"errors"
	"fmt"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/sales/composer"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

// Notice texts shown by the console.
const (
	MsgSaleCreated     = "Sale created successfully"
	MsgNoItems         = "Please add at least one item to the sale"
	MsgMissingProducts = "Please select a product for all items"
	MsgSubmitFailed    = "Failed to create sale. Please check all required fields."
	MsgSubmitInFlight  = "This sale is already being submitted"
	MsgDraftExpired    = "This sale form has expired. Please start again."
)

// NoticesFor turns a submit error into the notices shown to the user. Server
// rejections yield one notice per message.
func NoticesFor(err error) []shared.Notice {
	if err == nil {
		return nil
	}
	var (
		missing   *composer.MissingProductError
		invalid   *composer.ValidationError
		serverErr *backend.ServerError
	)
	switch {
	case errors.Is(err, composer.ErrIncompleteOrder):
		return []shared.Notice{shared.Failure(MsgNoItems)}
	case errors.As(err, &missing):
		label := "line"
		if len(missing.Lines) > 1 {
			label = "lines"
		}
		return []shared.Notice{shared.Failure(fmt.Sprintf("%s (%s %s)", MsgMissingProducts, label, missing.LineNumbers()))}
	case errors.As(err, &invalid):
		notices := make([]shared.Notice, 0, len(invalid.Fields))
		for _, field := range invalid.FieldNames() {
			notices = append(notices, shared.Failure(field+": "+invalid.Fields[field]))
		}
		return notices
	case errors.As(err, &serverErr):
		return serverNotices(serverErr)
	case errors.Is(err, ErrSubmitInFlight):
		return []shared.Notice{shared.Failure(MsgSubmitInFlight)}
	case errors.Is(err, ErrDraftNotFound):
		return []shared.Notice{shared.Failure(MsgDraftExpired)}
	default:
		return []shared.Notice{shared.Failure(MsgSubmitFailed)}
	}
}

func serverNotices(e *backend.ServerError) []shared.Notice {
	if e.Kind == backend.KindMessage {
		return []shared.Notice{shared.Failure("Error: " + e.Message)}
	}
	var notices []shared.Notice
	for _, field := range e.FieldNames() {
		for _, msg := range e.Fields[field] {
			if field == backend.NonFieldErrors {
				notices = append(notices, shared.Failure(msg))
				continue
			}
			notices = append(notices, shared.Failure(field+": "+msg))
		}
	}
	if len(notices) == 0 {
		return []shared.Notice{shared.Failure(MsgSubmitFailed)}
	}
	return notices
}
