package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Request is a single outgoing HTTP request.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Payload string
}

// Response is the buffered result of a Request.
type Response struct {
	Status     int
	StatusText string
	Headers    http.Header
	Body       string
}

// Transport performs HTTP requests on behalf of the authorizer. It is used for the
// token exchange only, never for the interactive leg.
// An error means the server could not be reached; HTTP error statuses are returned
// as a Response.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HTTP is a Transport backed by net/http.
type HTTP struct {
	client *http.Client
}

var _ Transport = (*HTTP)(nil)

// NewHTTP returns a Transport using client, or a client with the given timeout when client is nil.
func NewHTTP(client *http.Client, timeout time.Duration) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTP{client: client}
}

// Do sends the request and reads the whole response body.
func (t *HTTP) Do(ctx context.Context, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Payload != "" {
		body = strings.NewReader(req.Payload)
	}

	outreq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("[HTTP.Do] invalid request: %w", err)
	}
	for name, values := range req.Headers {
		for _, v := range values {
			outreq.Header.Add(name, v)
		}
	}
	outreq.Header.Set("Cache-Control", "no-cache")
	outreq.Header.Set("Pragma", "no-cache")

	res, err := t.client.Do(outreq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("[HTTP.Do] read response: %w", err)
	}

	return &Response{
		Status:     res.StatusCode,
		StatusText: http.StatusText(res.StatusCode),
		Headers:    res.Header,
		Body:       string(resBytes),
	}, nil
}
