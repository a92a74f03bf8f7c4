package composer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OrderRequest is the payload accepted by the backend order endpoint.
type OrderRequest struct {
	CustomerName       string             `json:"customer_name" validate:"required,max=100"`
	CustomerContact    string             `json:"customer_contact" validate:"required,max=15"`
	DiscountPercentage float64            `json:"discount_percentage" validate:"gte=0,lte=100"`
	Items              []OrderRequestItem `json:"items" validate:"required,min=1,dive"`
}

// OrderRequestItem is one order line on the wire.
type OrderRequestItem struct {
	Product   int64   `json:"product" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

var requestValidator = validator.New()

// Validate checks referential completeness: the draft needs at least one
// line and every line needs a product. All unresolved lines are reported.
func Validate(d Draft) error {
	if len(d.Items) == 0 {
		return ErrIncompleteOrder
	}
	var missing []int
	for i, item := range d.Items {
		if item.Product == nil || item.Product.ID <= 0 {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		return &MissingProductError{Lines: missing}
	}
	return nil
}

// ToRequest validates d and maps it to the wire payload. Range violations
// (quantity below 1, negative price, discount outside 0–100, blank customer)
// come back as *ValidationError.
func ToRequest(d Draft) (OrderRequest, error) {
	if err := Validate(d); err != nil {
		return OrderRequest{}, err
	}
	discount := DefaultDiscountPercentage
	if d.DiscountPercentage != nil {
		discount = *d.DiscountPercentage
	}
	req := OrderRequest{
		CustomerName:       strings.TrimSpace(d.CustomerName),
		CustomerContact:    strings.TrimSpace(d.CustomerContact),
		DiscountPercentage: discount.InexactFloat64(),
		Items:              make([]OrderRequestItem, 0, len(d.Items)),
	}
	for _, item := range d.Items {
		req.Items = append(req.Items, OrderRequestItem{
			Product:   item.Product.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.InexactFloat64(),
		})
	}
	if err := requestValidator.Struct(req); err != nil {
		return OrderRequest{}, toValidationError(err)
	}
	return req, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath turns "OrderRequest.Items[0].Quantity" into "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	replacer := strings.NewReplacer(
		"CustomerName", "customer_name",
		"CustomerContact", "customer_contact",
		"DiscountPercentage", "discount_percentage",
		"Items", "items",
		"Product", "product",
		"Quantity", "quantity",
		"UnitPrice", "unit_price",
	)
	return replacer.Replace(ns)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return "is invalid"
	}
}
