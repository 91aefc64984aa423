package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/metrics"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token and is told which token the service rejected.
type TokenSource interface {
	Token() string
	ExpireToken(ctx context.Context, token string) bool
}

// authPathPrefix covers login, registration and password flows. A 401 there is
// a credential error, not a verdict on the session.
const authPathPrefix = "/api/auth/"

// authTransport signs outgoing requests. The caller's request is never modified;
// the token is read once per request and that same value is reported on a 401,
// so a response to an older token cannot end a newer session.
type authTransport struct {
	base      http.RoundTripper
	tokens    TokenSource
	userAgent string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	var token string
	if t.tokens != nil {
		token = t.tokens.Token()
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	} else {
		r.Header.Del("Authorization")
	}
	if r.Header.Get(requestIDHeader) == "" {
		r.Header.Set(requestIDHeader, uuid.New().String())
	}
	if t.userAgent != "" {
		r.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(r)
	metrics.RemoteRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(r.Method, "network_error").Inc()
		return nil, err
	}
	metrics.RemoteRequestsTotal.WithLabelValues(r.Method, outcome(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized && token != "" && t.tokens != nil &&
		!strings.HasPrefix(r.URL.Path, authPathPrefix) {
		logger.Warn().
			Str("request_id", r.Header.Get(requestIDHeader)).
			Str("path", r.URL.Path).
			Msg("remote service rejected session token")
		t.tokens.ExpireToken(context.WithoutCancel(r.Context()), token)
	}
	return resp, nil
}

func outcome(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	case status >= 200 && status < 300:
		return "ok"
	}
	return strconv.Itoa(status)
}
