package constants

import "errors"

var (
	ErrNoBaseURL     = errors.New("base url not set")
	ErrNoMarshaler   = errors.New("marshaler is not set")
	ErrNoUnmarshaler = errors.New("unmarshaler is not set")
	ErrClosed        = errors.New("closed")
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrRecordType        = errors.New("record type does not match collection")
	ErrDuplicateID       = errors.New("id already in collection")
	ErrNoLocator         = errors.New("record has no resource locator")
	ErrTopicInUse        = errors.New("topic already has a subscriber")
	ErrNoScope           = errors.New("no scope selected")
	ErrUnknownScope      = errors.New("scope not found")
	ErrStaleScope        = errors.New("scope changed while fetching")
	ErrNoParent          = errors.New("owning record not loaded")
	ErrNoAccount         = errors.New("account not loaded")
	ErrUnknownField      = errors.New("unknown field")
)
