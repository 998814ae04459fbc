// Package gateway talks to the remote resource gateway over HTTP+JSON and
// translates its replies into domain values and typed errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"buget/internal/core"
	"buget/internal/log"
)

const maxBodyBytes = 4 << 20

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
	newID   func() string
}

type Option func(*Client)

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRequestIDs replaces the uuid request id generator.
func WithRequestIDs(gen func() string) Option {
	return func(c *Client) { c.newID = gen }
}

func New(baseURL string, timeout time.Duration, logger *log.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = log.Discard()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClientWithPooling(timeout),
		logger:  logger.WithComponent(log.ComponentGateway),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newHTTPClientWithPooling keeps connections to the single gateway host
// alive between calls.
func newHTTPClientWithPooling(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// call describes one request. token is empty for the unauthenticated
// endpoints; authEndpoint marks login/register/me, where any 4xx means the
// credentials or token were refused.
type call struct {
	op           string
	method       string
	path         string
	token        string
	body         any
	authEndpoint bool
	resource     string
	id           int64
}

// do sends req and returns the raw reply body of a 2xx response.
func (c *Client) do(ctx context.Context, req call) ([]byte, error) {
	var payload io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		payload = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, payload)
	if err != nil {
		return nil, &core.TransportError{Op: req.op, Err: err}
	}
	requestID := c.newID()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "Gateway unreachable",
			log.NewFields().
				WithRequestID(requestID).
				WithOperation(req.op).
				WithError(err).
				WithErrorType(log.ErrorTypeTransport).
				ToSlice()...)
		return nil, &core.TransportError{Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.logger.DebugContext(ctx, "Gateway call",
		log.NewFields().
			WithRequestID(requestID).
			WithOperation(req.op).
			WithGatewayCall(req.method, req.path, resp.StatusCode, time.Since(start).Milliseconds()).
			ToSlice()...)
	if err != nil {
		return nil, &core.TransportError{Op: req.op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, classify(req, resp.StatusCode, body)
}

// classify turns a non-2xx reply into one of the core error types.
func classify(req call, status int, body []byte) error {
	reason := errorReason(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &core.AuthError{Op: req.op, Reason: reason}
	case req.authEndpoint && status >= 400 && status < 500:
		return &core.AuthError{Op: req.op, Reason: reason}
	case status == http.StatusNotFound:
		resource := req.resource
		if resource == "" {
			resource = req.path
		}
		return &core.NotFoundError{Resource: resource, ID: req.id}
	default:
		var err error
		if reason != "" {
			err = errors.New(reason)
		}
		return &core.TransportError{Op: req.op, Status: status, Err: err}
	}
}

// decode unmarshals a reply body, reporting malformed replies as transport
// failures.
func decode(op string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &core.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
