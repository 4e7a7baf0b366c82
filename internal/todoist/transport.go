package todoist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

// Retry policy for rate limited and failing responses.
const (
	defaultMaxTries        = 3
	defaultInitialInterval = 500 * time.Millisecond
	defaultRequestTimeout  = 30 * time.Second
)

// TransportConfig configures the HTTP client used to reach Todoist.
type TransportConfig struct {
	Token   string
	Timeout time.Duration
	Retry   bool

	// MaxTries and InitialInterval tune the retry policy. Zero values use
	// the defaults.
	MaxTries        uint
	InitialInterval time.Duration

	// Base is the innermost transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper
}

// NewHTTPClient builds the client used by RESTClient. The transport chain is
// otelhttp -> bearer token -> retry -> base.
func NewHTTPClient(cfg TransportConfig) *http.Client {
	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.Retry {
		base = &retryTransport{
			base:            base,
			maxTries:        cfg.MaxTries,
			initialInterval: cfg.InitialInterval,
		}
	}

	var rt http.RoundTripper = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
		Base:   base,
	}
	rt = otelhttp.NewTransport(rt,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "todoist.http " + r.Method
		}),
	)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
	}
}

// retryTransport retries 429 and 5xx responses with exponential backoff.
// Transport errors are not retried. When the last attempt still fails, its
// response is returned as is so the caller sees the real status.
type retryTransport struct {
	base            http.RoundTripper
	maxTries        uint
	initialInterval time.Duration
}

type retryableStatusError struct {
	status int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.status)
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	maxTries := t.maxTries
	if maxTries == 0 {
		maxTries = defaultMaxTries
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = t.initialInterval
	if exp.InitialInterval <= 0 {
		exp.InitialInterval = defaultInitialInterval
	}

	var attempt uint
	operation := func() (*http.Response, error) {
		attempt++
		r, err := rewind(req, attempt)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := t.base.RoundTrip(r)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if !isRetryableStatus(resp.StatusCode) || attempt >= maxTries {
			return resp, nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		drain(resp)
		if secs, convErr := strconv.Atoi(retryAfter); convErr == nil && secs > 0 {
			return nil, backoff.RetryAfter(secs)
		}
		return nil, &retryableStatusError{status: resp.StatusCode}
	}

	return backoff.Retry(req.Context(), operation,
		backoff.WithBackOff(exp),
		backoff.WithMaxTries(maxTries),
	)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// rewind returns a request with a fresh body for every attempt after the first.
func rewind(req *http.Request, attempt uint) (*http.Request, error) {
	if attempt == 1 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// detach returns a context that keeps ctx's values but ignores its
// cancellation, so an in-flight call runs to completion.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
