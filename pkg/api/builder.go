package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultAuthScheme prefixes the access token in the Authorization header.
const DefaultAuthScheme = "Basic"

// TokenSource supplies the optional session access token. It is consulted on
// every Build so a token stored or cleared later is picked up.
type TokenSource interface {
	AccessToken(ctx context.Context) (token string, ok bool, err error)
}

// RequestBuilder maps endpoints to HTTP requests against one base URL.
type RequestBuilder struct {
	base   *url.URL
	tokens TokenSource
	scheme string
}

// NewRequestBuilder validates baseURL once. A missing or non-absolute base
// URL is a ConfigurationError. tokens may be nil.
func NewRequestBuilder(baseURL string, tokens TokenSource, scheme string) (*RequestBuilder, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, &ConfigurationError{Reason: "API base URL is not set"}
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid API base URL %q", baseURL), Err: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("API base URL %q must be absolute", baseURL)}
	}
	if scheme == "" {
		scheme = DefaultAuthScheme
	}
	return &RequestBuilder{base: u, tokens: tokens, scheme: scheme}, nil
}

// Build produces the request for ep. Failures are ConfigurationErrors except
// a failing TokenSource, which is returned as a WrappedError.
func (b *RequestBuilder) Build(ctx context.Context, ep Endpoint) (*http.Request, error) {
	if ep.op == opParseRecipe {
		target, err := url.Parse(ep.url)
		if err != nil || !target.IsAbs() {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("recipe URL %q must be absolute", ep.url), Err: err}
		}
	}

	payload, err := ep.body()
	if err != nil {
		return nil, &ConfigurationError{Reason: "failed to encode " + ep.String() + " body", Err: err}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	u := b.base.JoinPath(ep.Path())
	req, err := http.NewRequestWithContext(ctx, ep.Method(), u.String(), body)
	if err != nil {
		return nil, &ConfigurationError{Reason: "failed to construct " + ep.String() + " request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if b.tokens != nil {
		token, ok, err := b.tokens.AccessToken(ctx)
		if err != nil {
			return nil, &WrappedError{Err: fmt.Errorf("failed to read access token: %w", err)}
		}
		if ok {
			req.Header.Set("Authorization", b.scheme+" "+token)
		}
	}
	return req, nil
}
