package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"bloodbridge/pkg/constants"
	"bloodbridge/pkg/remote/obj"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	contentTypeJSON = "application/json"
	HeaderRequestID = "X-Request-ID"
)

type (
	Method string

	// Request describes one call to the backend. Path is relative to the
	// client base URL. A string, []byte or json.RawMessage body is sent as
	// is; any other non-nil body is JSON encoded. Header entries replace the
	// defaults of the same name.
	Request struct {
		Method Method
		Path   string
		Body   any
		Header http.Header
	}

	Options struct {
		// BaseURL is prefixed to every request path. Empty means the paths
		// are used as they are.
		BaseURL string
		// Jar holds the session cookies. Defaults to an in-memory jar.
		Jar http.CookieJar
		// Timeout of a whole call, zero means no timeout.
		Timeout   time.Duration
		Transport http.RoundTripper
		Logger    *zerolog.Logger
	}

	// Doer performs a request and always returns a well formed result.
	Doer interface {
		Do(ctx context.Context, r Request) obj.Result
	}

	// DoerFunc adapts a function to the Doer interface.
	DoerFunc func(ctx context.Context, r Request) obj.Result

	Client struct {
		baseURL string
		http    *http.Client
		log     zerolog.Logger
	}
)

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

func (f DoerFunc) Do(ctx context.Context, r Request) obj.Result {
	return f(ctx, r)
}

func New(opts Options) *Client {
	jar := opts.Jar
	if jar == nil {
		// cookiejar.New only fails on a broken public suffix list, none is used
		jar, _ = cookiejar.New(nil)
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Jar:       jar,
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		log: log,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// Do sends r and normalizes the outcome. A request that cannot be encoded,
// sent, or whose response is not JSON yields obj.NetworkError.
func (c *Client) Do(ctx context.Context, r Request) obj.Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Method == "" {
		r.Method = MethodGet
	}

	requestID := uuid.NewString()
	log := c.log.With().
		Str("method", string(r.Method)).
		Str("path", r.Path).
		Str("request_id", requestID).
		Logger()
	start := time.Now()

	body, err := encodeBody(r.Method, r.Body)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode the request body")
		return obj.NetworkError()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, string(r.Method), c.baseURL+r.Path, reader)
	if err != nil {
		log.Warn().Err(err).Msg("failed to build the request")
		return obj.NetworkError()
	}

	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", constants.UserAgent)
	req.Header.Set(HeaderRequestID, requestID)
	for name, values := range r.Header {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	res, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("duration", time.Since(start)).Msg("unable to reach the backend")
		return obj.NetworkError()
	}
	defer res.Body.Close()

	var envelope obj.Envelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		log.Warn().
			Err(err).
			Int("status", res.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("the backend sent a response that is not a json envelope")
		return obj.NetworkError()
	}

	log.Debug().
		Int("status", res.StatusCode).
		Bool("success", envelope.Success).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	return obj.Result{
		OK:     res.StatusCode >= 200 && res.StatusCode <= 299,
		Status: res.StatusCode,
		Data:   envelope,
	}
}

// encodeBody returns nil when no body must be sent.
func encodeBody(m Method, body any) ([]byte, error) {
	if body == nil || m == MethodGet {
		return nil, nil
	}

	switch v := body.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize the body: %w", err)
	}
	if string(b) == "null" {
		return nil, nil
	}
	return b, nil
}
