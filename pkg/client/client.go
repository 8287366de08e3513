package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/armadaproject/cmsbench/internal/common/requestid"
	"github.com/armadaproject/cmsbench/internal/common/util"
)

const (
	RequestIdHeader = requestid.HeaderKey

	maxResponseBytes = 8 << 20
	maxErrorMessage  = 200
)

// Client talks to the content backend over its REST, admin and GraphQL APIs.
// A Client is safe for concurrent use; WithToken returns a copy rather than mutating the receiver.
type Client struct {
	details *ApiConnectionDetails
	http    *http.Client
	clock   util.Clock
	token   string
}

func NewClient(details *ApiConnectionDetails) *Client {
	return &Client{
		details: details,
		http:    &http.Client{Timeout: details.timeout()},
		clock:   &util.DefaultClock{},
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// WithClock returns a copy of c that waits using clock.
func (c *Client) WithClock(clock util.Clock) *Client {
	cp := *c
	cp.clock = clock
	return &cp
}

func (c *Client) Details() *ApiConnectionDetails {
	return c.details
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// do sends a request and reads the whole response. Only transport failures are returned as errors;
// interpreting the status code is up to the caller. body may be nil, a []byte sent as-is, or any value
// that is JSON encoded.
func (c *Client) do(ctx context.Context, method, url string, body interface{}) (*Response, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIdHeader, requestid.FromContextOrNew(ctx))
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer util.CloseResource("response body", resp.Body)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Duration:   time.Since(start),
	}, nil
}

// errorMessage extracts a human readable message from an error response body. The backend reports
// errors either as {"message": ...} or {"error": {"message": ...}}.
func errorMessage(body []byte) string {
	for _, path := range []string{"error.message", "message", "error"} {
		if r := gjson.GetBytes(body, path); r.Exists() && r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage] + "..."
	}
	return msg
}
