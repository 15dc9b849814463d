package llm

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

type ErrorKind int

const (
	KindAPI ErrorKind = iota
	KindAuthentication
	KindTimeout
	KindConnection
	KindRateLimit
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "api"
	}
}

// ProviderError is a classified failure of the LLM provider.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return "llm " + e.Kind.String() + " error"
	}
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AsProviderError reports whether err is, or wraps, a *ProviderError.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// classify maps go-openai and transport errors onto error kinds. Errors it
// cannot place are returned unchanged.
func classify(err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return &ProviderError{Kind: kindForStatus(apiErr.HTTPStatusCode), Err: err}
	}

	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return &ProviderError{Kind: kindForStatus(reqErr.HTTPStatusCode), Err: err}
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{Kind: KindTimeout, Err: err}
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return &ProviderError{Kind: KindTimeout, Err: err}
	}

	var urlErr *url.Error
	var opErr *net.OpError
	if stderrors.As(err, &urlErr) || stderrors.As(err, &opErr) {
		return &ProviderError{Kind: KindConnection, Err: err}
	}

	return err
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindAPI
	}
}
