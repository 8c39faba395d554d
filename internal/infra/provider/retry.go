package provider

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DownstreamRetrySettings is the transient-failure policy for the
// directory and profile API clients: three attempts backing off at 2s
// then 4s.
func DownstreamRetrySettings() RetrySettings {
	return RetrySettings{MaxAttempts: 3, InitialInterval: 2 * time.Second}
}

// retryTransport retries transient downstream failures at the HTTP
// transport level, so every call made through the client is covered
// without per-provider retry loops. Requests carrying a body are
// replayed through GetBody; the loop honors context cancellation.
type retryTransport struct {
	base  http.RoundTripper
	retry RetrySettings
}

func NewRetryTransport(base http.RoundTripper, retry RetrySettings) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{base: base, retry: retry}
}

// transientStatus reports whether the status is worth another attempt.
func transientStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == errCodeRateLimited ||
		status >= http.StatusInternalServerError
}

func (rt *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = rt.retry.InitialInterval
	policy.RandomizationFactor = 0

	var res *http.Response
	operation := func() error {
		if res != nil {
			io.Copy(io.Discard, res.Body)
			res.Body.Close()
			res = nil
		}

		attempt := req.Clone(req.Context())
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			attempt.Body = body
		}

		response, err := rt.base.RoundTrip(attempt)
		if err != nil {
			return err
		}
		res = response
		if transientStatus(response.StatusCode) {
			return fmt.Errorf("transient HTTP status %s", response.Status)
		}
		return nil
	}

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(rt.retry.MaxAttempts-1)), req.Context()))
	if err != nil && res == nil {
		return nil, err
	}
	// Retries exhausted on a transient status: hand the last response
	// to the caller so its own status handling still applies.
	return res, nil
}
