package flint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/flintsearch/flint/retry"
	"github.com/flintsearch/flint/thttp"
	"golang.org/x/oauth2"
)

// Client talks to a Flint server.
//
// A Client holds no state beyond its connection parameters, so it is safe for
// concurrent use. All remote state lives on the server; the only thing cached
// locally is the set of fields on Index handles handed out by the client.
type Client struct {
	server      string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	retryConfig retry.Config // nil = a single attempt per call
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient makes the client issue requests through the given
// http.Client instead of a default one
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTokenSource makes the client authenticate every request with a bearer
// token obtained from the given source
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// WithAPIKey makes the client authenticate every request with the given
// static API key
func WithAPIKey(key string) Option {
	return WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: key, TokenType: "Bearer"}))
}

// WithRetry makes the client retry requests that failed at the transport
// level (connection refused, DNS failure and such) according to the given
// configuration. A request that produced an HTTP response, whatever the
// status, is never retried.
func WithRetry(config retry.Config) Option {
	return func(c *Client) {
		c.retryConfig = config
	}
}

// New creates a new client for the Flint server at the given base URL
// (scheme://host[:port])
func New(server string, options ...Option) *Client {
	c := &Client{
		server: strings.TrimSuffix(server, "/"),
	}
	for _, o := range options {
		o(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	c.httpClient = thttp.WithRequestsLogging(c.httpClient)
	return c
}

// Server returns the base URL the client was created with
func (c *Client) Server() string {
	return c.server
}

func (c *Client) authHeader(header http.Header) error {
	if c.tokenSource == nil {
		return nil
	}
	token, err := c.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain auth token: %w", err)
	}
	token.SetAuthHeader(&http.Request{Header: header})
	return nil
}

// send issues a request and decodes the response body into out (unless out is
// nil). A response with a status other than expect is translated into *Error;
// a failure to obtain a response at all is translated into *TransportError.
func (c *Client) send(ctx context.Context, method, path string, body any, expect int, out any) error {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	roundTrip := func() ([]byte, error) {
		var reqBody io.Reader
		if encoded != nil {
			reqBody = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.server+path, reqBody)
		if err != nil {
			return nil, err
		}
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if err := c.authHeader(req.Header); err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// only failures to obtain a response are retriable
			return nil, retry.Retriable(&TransportError{cause: err})
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, retry.Retriable(&TransportError{cause: err})
		}

		if resp.StatusCode != expect {
			return nil, translateError(resp.StatusCode, respBody)
		}
		return respBody, nil
	}

	var respBody []byte
	var err error
	if c.retryConfig != nil {
		respBody, err = retry.Do1(ctx, c.retryConfig, roundTrip)
	} else {
		respBody, err = roundTrip()
	}
	if err != nil {
		var r retry.ErrRetriable
		if errors.As(err, &r) {
			return r.Unwrap()
		}
		return err
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}
	return nil
}

// translateError converts a non-success response into *Error, preserving the
// error code supplied by the server
func translateError(status int, body []byte) error {
	var e Error
	if err := json.Unmarshal(body, &e); err != nil || e.Code == "" {
		e = Error{
			Code:    CodeUnknown,
			Message: strings.TrimSpace(string(body)),
		}
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
	}
	e.StatusCode = status
	return &e
}
