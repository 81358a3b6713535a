package connection

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a failed request.
type Kind int

const (
	KindOther Kind = iota
	KindTransport
	KindValidation
	KindAuthorization
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindServer:
		return "server"
	default:
		return "other"
	}
}

// Sentinels for errors.Is on an *APIError.
var (
	ErrTransport     = errors.New("request did not complete")
	ErrValidation    = errors.New("request rejected by validation")
	ErrAuthorization = errors.New("request not authorized")
	ErrServer        = errors.New("server error")
)

// ErrorBody is the decoded body of a failed request: per-field messages for validation
// errors, a single message otherwise.
type ErrorBody struct {
	Fields  map[string][]string `json:"fields,omitempty"`
	Message string              `json:"message,omitempty"`
}

// APIError reports a failed request. Status is 0 when no response was received, in
// which case Err holds the transport error.
type APIError struct {
	Method     string
	URL        string
	Status     int
	StatusText string
	Body       ErrorBody
	Err        error
}

func (e *APIError) Kind() Kind {
	switch {
	case e.Status == 0:
		return KindTransport
	case e.Status == 400:
		return KindValidation
	case e.Status == 401 || e.Status == 403:
		return KindAuthorization
	case e.Status >= 500:
		return KindServer
	default:
		return KindOther
	}
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	msg := e.Body.Message
	if msg == "" && len(e.Body.Fields) > 0 {
		keys := make([]string, 0, len(e.Body.Fields))
		for k := range e.Body.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+strings.Join(e.Body.Fields[k], " "))
		}
		msg = strings.Join(parts, "; ")
	}
	if msg == "" {
		msg = e.StatusText
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind() == KindTransport
	case ErrValidation:
		return e.Kind() == KindValidation
	case ErrAuthorization:
		return e.Kind() == KindAuthorization
	case ErrServer:
		return e.Kind() == KindServer
	}
	return false
}

// FieldErrors returns the validation messages of err, if it is a validation error.
func FieldErrors(err error) map[string][]string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Kind() == KindValidation {
		return apiErr.Body.Fields
	}
	return nil
}

// AddField appends msg to the messages of field.
func (b *ErrorBody) AddField(field, msg string) {
	if b.Fields == nil {
		b.Fields = map[string][]string{}
	}
	b.Fields[field] = append(b.Fields[field], msg)
}
