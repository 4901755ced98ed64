package httpfs

import (
	"errors"
	"fmt"
)

// ErrorKind categorises a GatewayError.
type ErrorKind string

const (
	// KindNotFound: the gateway answered 404 for the path.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindRemoteException: the gateway reported a domain error, either in a
	// RemoteException envelope or as an explicit false boolean result.
	KindRemoteException ErrorKind = "REMOTE_EXCEPTION"

	// KindTooManyRedirects: CreateFile exceeded Config.MaxRedirects.
	KindTooManyRedirects ErrorKind = "TOO_MANY_REDIRECTS"

	// KindMissingRedirectTarget: a 307 arrived without a Location header.
	KindMissingRedirectTarget ErrorKind = "MISSING_REDIRECT_TARGET"

	// KindTransport: no response, or a status nothing else explains.
	KindTransport ErrorKind = "TRANSPORT_ERROR"
)

// Sentinels for errors.Is. They match any *GatewayError of the same kind.
var (
	ErrNotFound              = &GatewayError{Kind: KindNotFound}
	ErrRemoteException       = &GatewayError{Kind: KindRemoteException}
	ErrTooManyRedirects      = &GatewayError{Kind: KindTooManyRedirects}
	ErrMissingRedirectTarget = &GatewayError{Kind: KindMissingRedirectTarget}
	ErrTransport             = &GatewayError{Kind: KindTransport}
)

// GatewayError is the single error type returned by gateway operations.
type GatewayError struct {
	// Kind is the error category
	Kind ErrorKind

	// Message is a human-readable description, taken verbatim from the
	// RemoteException envelope when there is one
	Message string

	// Path is the HDFS path of the request that failed
	Path string

	// StatusCode is the HTTP status of the failing response, 0 if none
	StatusCode int

	// Err is the underlying transport or HTTP error, if any
	Err error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is matches another *GatewayError by kind.
func (e *GatewayError) Is(target error) bool {
	t, ok := target.(*GatewayError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first GatewayError in err's chain, or ""
// if there is none.
func KindOf(err error) ErrorKind {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}

func newError(kind ErrorKind, message, path string) *GatewayError {
	return &GatewayError{Kind: kind, Message: message, Path: path}
}
