package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNetworkFailure covers transport errors and responses without a usable body.
	ErrNetworkFailure = errors.New("backend request failed")
	// ErrServerValidation is matched by every *ServerError.
	ErrServerValidation = errors.New("backend rejected request")
	// ErrNotFound is returned when the backend answers 404.
	ErrNotFound = errors.New("backend resource not found")
)

// NonFieldErrors is the key used for messages not bound to a field.
const NonFieldErrors = "non_field_errors"

// ServerErrorKind tags the variant carried by a ServerError.
type ServerErrorKind int

const (
	// KindMessage carries a single message.
	KindMessage ServerErrorKind = iota
	// KindFieldErrors carries messages keyed by field path.
	KindFieldErrors
)

// ServerError is a structured rejection from the backend, normalised from
// `{"detail": "..."}`, `{"field": "..." | [...]}`, nested item errors or a
// bare list of messages.
type ServerError struct {
	Status  int
	Kind    ServerErrorKind
	Message string
	Fields  map[string][]string
}

func (e *ServerError) Error() string {
	if e.Kind == KindMessage {
		return fmt.Sprintf("backend rejected request (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend rejected request (%d): fields %s", e.Status, strings.Join(e.FieldNames(), ", "))
}

// Is reports ErrServerValidation so callers can match with errors.Is.
func (e *ServerError) Is(target error) bool {
	return target == ErrServerValidation
}

// FieldNames lists the keys of a field-error variant in stable order.
func (e *ServerError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseErrorResponse normalises a non-2xx response. Bodies that are empty or
// not JSON become ErrNetworkFailure; JSON bodies become *ServerError.
func parseErrorResponse(status int, body []byte) error {
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: status %d", ErrNotFound, status)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fmt.Errorf("%w: status %d with empty body", ErrNetworkFailure, status)
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("%w: status %d: %s", ErrNetworkFailure, status, truncate(string(body), 200))
	}
	switch v := decoded.(type) {
	case string:
		return &ServerError{Status: status, Kind: KindMessage, Message: v}
	case map[string]any:
		if detail, ok := v["detail"].(string); ok && len(v) == 1 {
			return &ServerError{Status: status, Kind: KindMessage, Message: detail}
		}
		fields := make(map[string][]string)
		for key, value := range v {
			collect(key, value, fields)
		}
		if len(fields) == 0 {
			return &ServerError{Status: status, Kind: KindMessage, Message: http.StatusText(status)}
		}
		return &ServerError{Status: status, Kind: KindFieldErrors, Fields: fields}
	case []any:
		fields := make(map[string][]string)
		collect(NonFieldErrors, v, fields)
		if len(fields) == 0 {
			return &ServerError{Status: status, Kind: KindMessage, Message: http.StatusText(status)}
		}
		return &ServerError{Status: status, Kind: KindFieldErrors, Fields: fields}
	default:
		return &ServerError{Status: status, Kind: KindMessage, Message: fmt.Sprint(v)}
	}
}

// collect flattens nested error structures into dotted/indexed field paths,
// e.g. {"items": [{}, {"quantity": ["..."]}]} -> "items[1].quantity".
func collect(path string, value any, out map[string][]string) {
	switch v := value.(type) {
	case nil:
	case string:
		out[path] = append(out[path], v)
	case []any:
		for i, item := range v {
			switch item.(type) {
			case map[string]any, []any:
				collect(path+"["+strconv.Itoa(i)+"]", item, out)
			default:
				collect(path, item, out)
			}
		}
	case map[string]any:
		for key, nested := range v {
			collect(path+"."+key, nested, out)
		}
	default:
		out[path] = append(out[path], fmt.Sprint(v))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
