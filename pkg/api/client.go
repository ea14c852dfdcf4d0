package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

// Storer is the persistence side of RequestAndStore. *recipes.Gateway
// satisfies it.
type Storer interface {
	Save(ctx context.Context, payload []byte, kind recipes.EntityKind) (recipes.Reference, error)
	SaveAll(ctx context.Context, payload []byte) ([]recipes.Reference, error)
}

// Client executes endpoints one request at a time. It never retries.
type Client struct {
	http    *http.Client
	builder *RequestBuilder
	limiter *rate.Limiter
	log     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outgoing requests per second. perSecond <= 0 leaves the
// client unthrottled.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func NewClient(builder *RequestBuilder, logger *zap.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		http:    http.DefaultClient,
		builder: builder,
		log:     logger.Named("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs ep and decodes the response body as T.
func Request[T any](ctx context.Context, c *Client, ep Endpoint) (T, error) {
	var out T
	body, err := c.do(ctx, ep)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, c.fail(ep, 0, &NetworkError{Kind: KindDecode, Cause: err})
	}
	return out, nil
}

// RequestAndStore performs ep and hands the raw body to store. It returns a
// reference to the stored record, not the record: resolve it against the
// store for a live copy.
func RequestAndStore(ctx context.Context, c *Client, ep Endpoint, store Storer, kind recipes.EntityKind) (recipes.Reference, error) {
	body, err := c.do(ctx, ep)
	if err != nil {
		return recipes.Reference{}, err
	}
	ref, err := store.Save(ctx, body, kind)
	if err != nil {
		return recipes.Reference{}, c.storeFailure(err)
	}
	return ref, nil
}

// RequestAndStoreAll is RequestAndStore for endpoints answering with a list.
// The whole list is stored in one unit of work.
func RequestAndStoreAll(ctx context.Context, c *Client, ep Endpoint, store Storer) ([]recipes.Reference, error) {
	body, err := c.do(ctx, ep)
	if err != nil {
		return nil, err
	}
	refs, err := store.SaveAll(ctx, body)
	if err != nil {
		return nil, c.storeFailure(err)
	}
	return refs, nil
}

// ParseRecipe asks the service to parse the page at rawURL.
func (c *Client) ParseRecipe(ctx context.Context, rawURL string) (recipes.Recipe, error) {
	return Request[recipes.Recipe](ctx, c, ParseRecipe(rawURL))
}

func (c *Client) FetchRecipes(ctx context.Context) ([]recipes.Recipe, error) {
	return Request[[]recipes.Recipe](ctx, c, FetchRecipes())
}

// Upload sends a locally stored recipe to the service.
func (c *Client) Upload(ctx context.Context, r recipes.Recipe, update bool) (recipes.Recipe, error) {
	ep := AddRecipe(r)
	if update {
		ep = UpdateRecipe(r)
	}
	return Request[recipes.Recipe](ctx, c, ep)
}

func (c *Client) do(ctx context.Context, ep Endpoint) ([]byte, error) {
	req, err := c.builder.Build(ctx, ep)
	if err != nil {
		return nil, c.fail(ep, 0, err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.fail(ep, 0, &WrappedError{Err: err})
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(ep, 0, transportError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ep, resp.StatusCode, &WrappedError{Err: fmt.Errorf("failed to read response: %w", err)})
	}

	if err := classify(resp.StatusCode, body); err != nil {
		return nil, c.fail(ep, resp.StatusCode, err)
	}
	c.log.Debug("request succeeded", zap.Stringer("endpoint", ep), zap.Int("status", resp.StatusCode))
	return body, nil
}

type errorBody struct {
	Detail *string `json:"detail"`
}

// classify maps a status code and body to the error taxonomy. A nil result
// means success with a non-empty body.
func classify(status int, body []byte) error {
	switch {
	case status >= 200 && status <= 299:
		if len(bytes.TrimSpace(body)) == 0 {
			return &NetworkError{Kind: KindNoData, Status: status}
		}
		return nil
	case status >= 401 && status <= 500:
		if msg, ok := detail(body); ok {
			return &ServerMessageError{Status: status, Message: msg}
		}
		return &NetworkError{Kind: KindAuth, Status: status}
	case status >= 501 && status <= 599:
		if msg, ok := detail(body); ok {
			return &ServerMessageError{Status: status, Message: msg}
		}
		return &NetworkError{Kind: KindBadRequest, Status: status}
	default:
		return &NetworkError{Kind: KindFailed, Status: status}
	}
}

func detail(body []byte) (string, bool) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Detail == nil || *eb.Detail == "" {
		return "", false
	}
	return *eb.Detail, true
}

func transportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &WrappedError{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return &NetworkError{Kind: KindOffline, Cause: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &NetworkError{Kind: KindOffline, Cause: err}
	}
	return &WrappedError{Err: err}
}

// storeFailure classifies an error the store already logged; it is not
// logged again.
func (c *Client) storeFailure(err error) error {
	if errors.Is(err, recipes.ErrDecode) {
		return &NetworkError{Kind: KindDecode, Cause: err}
	}
	return err
}

func (c *Client) fail(ep Endpoint, status int, err error) error {
	fields := []zap.Field{zap.Stringer("endpoint", ep), zap.Error(err)}
	if status != 0 {
		fields = append(fields, zap.Int("status", status))
	}
	c.log.Error("request failed", fields...)
	return err
}
