package submissions

import "errors"

var (
	ErrNotFound         = errors.New("submission not found")
	ErrAlreadySubmitted = errors.New("submission already submitted")
	ErrAlreadyTerminal  = errors.New("submission already terminal")
	ErrNotCancellable   = errors.New("submission not cancellable")
)

// Validation errors returned by the payload normalizer. These are always
// caller-correctable and never retried automatically.
var (
	ErrUnknownModality      = errors.New("unknown modality")
	ErrEmptyInput           = errors.New("empty input")
	ErrInvalidURL           = errors.New("invalid url")
	ErrMissingFile          = errors.New("missing file")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// Error kinds recorded on a failed submission.
const (
	ErrorKindEngineTimeout     = "ENGINE_TIMEOUT"
	ErrorKindEngineUnavailable = "ENGINE_UNAVAILABLE"
	ErrorKindEngineRejected    = "ENGINE_REJECTED"
	ErrorKindCancelled         = "CANCELLED"
)
