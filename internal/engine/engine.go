package engine

import (
	"context"
	"errors"
	"fmt"

	"truthcheck-backend/internal/reports"
)

// Input carries the normalized submission content across the engine boundary.
// File-backed modalities reference stored bytes by key rather than carrying
// them inline.
type Input struct {
	Modality    string `json:"modality"`
	TextContent string `json:"textContent,omitempty"`
	URLContent  string `json:"urlContent,omitempty"`
	FileKey     string `json:"fileKey,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Engine abstracts the external content-analysis engine. Its internals
// (classification, retrieval, technique detection) are opaque to this
// service; only the request/response contract matters here.
type Engine interface {
	Analyze(ctx context.Context, in Input) (reports.Draft, error)
}

// Kind classifies engine failures.
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindUnavailable Kind = "unavailable"
	KindRejected    Kind = "rejected"
)

// Error is a typed engine failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("engine %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify maps an error from an Analyze call onto a failure kind.
// Context deadline expiry counts as a timeout regardless of how the
// underlying transport reported it; anything unrecognized is treated as
// the engine being unavailable.
func Classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Kind
	}
	return KindUnavailable
}

// ErrNotConfigured is returned by the placeholder engine.
var ErrNotConfigured = errors.New("analysis engine not configured")

// Placeholder is a stub implementation until an engine endpoint is wired.
type Placeholder struct{}

// Analyze returns an unavailable error.
func (Placeholder) Analyze(ctx context.Context, in Input) (reports.Draft, error) {
	_ = ctx
	_ = in
	return reports.Draft{}, &Error{Kind: KindUnavailable, Msg: "not configured", Err: ErrNotConfigured}
}
