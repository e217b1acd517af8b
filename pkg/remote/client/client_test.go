package client

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"bloodbridge/pkg/remote/obj"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	header http.Header
	body   string
}

func newBackend(t *testing.T, status int, payload string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		c.method = r.Method
		c.path = r.URL.EscapedPath()
		c.header = r.Header.Clone()
		c.body = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestDoSuccess(t *testing.T) {
	srv, got := newBackend(t, http.StatusCreated, `{"success":true,"message":"Registration successful.","data":{"user_id":"u1"}}`)
	cli := New(Options{BaseURL: srv.URL})

	res := cli.Do(context.Background(), Request{Method: MethodPost, Path: "/api/auth/register", Body: map[string]string{"name": "Ada"}})

	assert.True(t, res.OK)
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.True(t, res.Data.Success)
	assert.Equal(t, "Registration successful.", res.Data.Message)
	assert.JSONEq(t, `{"user_id":"u1"}`, string(res.Data.Data))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/auth/register", got.path)
	assert.Equal(t, "application/json", got.header.Get("Accept"))
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.NotEmpty(t, got.header.Get(HeaderRequestID))
	assert.JSONEq(t, `{"name":"Ada"}`, got.body)
}

func TestDoUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := New(Options{BaseURL: url}).Do(context.Background(), Request{Method: MethodGet, Path: "/api/auth/session"})

	assert.Equal(t, obj.Result{
		OK:     false,
		Status: 0,
		Data:   obj.Envelope{Success: false, Message: "Network error"},
	}, res)
}

func TestDoGetDropsBody(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"success":true}`)

	res := New(Options{BaseURL: srv.URL}).Do(context.Background(), Request{
		Method: MethodGet,
		Path:   "/api/requests/pending",
		Body:   map[string]int{"ignored": 1},
	})

	require.True(t, res.OK)
	assert.Empty(t, got.body)
	assert.Empty(t, got.header.Get("Content-Type"))
}

func TestDoPostWithoutBody(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"success":true,"message":"Logged out."}`)

	res := New(Options{BaseURL: srv.URL}).Do(context.Background(), Request{Method: MethodPost, Path: "/api/auth/logout"})

	require.True(t, res.Succeeded())
	assert.Empty(t, got.body)
	assert.Empty(t, got.header.Get("Content-Type"))
}

func TestDoStringBodyIsVerbatim(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"success":true}`)

	New(Options{BaseURL: srv.URL}).Do(context.Background(), Request{
		Method: MethodPost,
		Path:   "/api/contact",
		Body:   `{"name":"raw"}`,
	})

	assert.Equal(t, `{"name":"raw"}`, got.body)
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
}

func TestDoTypedNilBodyIsNoBody(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"success":true}`)

	var payload *obj.RoleChoice
	New(Options{BaseURL: srv.URL}).Do(context.Background(), Request{Method: MethodPost, Path: "/api/auth/choose-role", Body: payload})

	assert.Empty(t, got.body)
	assert.Empty(t, got.header.Get("Content-Type"))
}

func TestDoHeaderOverrides(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"success":true}`)

	New(Options{BaseURL: srv.URL}).Do(context.Background(), Request{
		Method: MethodGet,
		Path:   "/api/matching/inventory",
		Header: http.Header{"Accept": {"application/vnd.bloodbridge+json"}, "X-Trace": {"t1"}},
	})

	assert.Equal(t, "application/vnd.bloodbridge+json", got.header.Get("Accept"))
	assert.Equal(t, "t1", got.header.Get("X-Trace"))
}

func TestDoHTTPFailureKeepsServerMessage(t *testing.T) {
	srv, _ := newBackend(t, http.StatusUnauthorized, `{"success":false,"message":"Invalid email or password."}`)

	res := New(Options{BaseURL: srv.URL}).Do(context.Background(), Request{Method: MethodPost, Path: "/api/auth/login", Body: obj.Credentials{}})

	assert.False(t, res.OK)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.False(t, res.Succeeded())
	assert.Equal(t, "Invalid email or password.", res.MessageOr("Login failed."))
}

func TestDoApplicationFailure(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{"success":false,"message":"Please choose donor or recipient"}`)

	res := New(Options{BaseURL: srv.URL}).Do(context.Background(), Request{Method: MethodPost, Path: "/api/auth/choose-role", Body: obj.RoleChoice{Role: "king"}})

	assert.True(t, res.OK)
	assert.False(t, res.Data.Success)
	assert.False(t, res.Succeeded())
}

func TestDoNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>Internal Server Error</html>")
	}))
	defer srv.Close()

	res := New(Options{BaseURL: srv.URL}).Do(context.Background(), Request{Method: MethodGet, Path: "/api/admin/users"})

	assert.Equal(t, obj.NetworkError(), res)
}

func TestDoUnencodableBody(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"success":true}`)

	res := New(Options{BaseURL: srv.URL}).Do(context.Background(), Request{Method: MethodPost, Path: "/api/requests", Body: math.Inf(1)})

	assert.Equal(t, obj.NetworkError(), res)
	assert.Empty(t, got.method)
}

func TestDoCanceledContext(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{"success":true}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(Options{BaseURL: srv.URL}).Do(ctx, Request{Method: MethodGet, Path: "/api/auth/session"})

	assert.Equal(t, obj.NetworkError(), res)
}

func TestDoSendsSessionCookies(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s3cr3t", Path: "/", HttpOnly: true})
		default:
			if c, err := r.Cookie("session"); err == nil {
				seen = c.Value
			}
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	cli := New(Options{BaseURL: srv.URL})
	require.True(t, cli.Do(context.Background(), Request{Method: MethodPost, Path: "/api/auth/login", Body: obj.Credentials{}}).OK)
	require.True(t, cli.Do(context.Background(), Request{Method: MethodGet, Path: "/api/auth/session"}).OK)

	assert.Equal(t, "s3cr3t", seen)
}

func TestDoerFunc(t *testing.T) {
	var got Request
	d := DoerFunc(func(_ context.Context, r Request) obj.Result {
		got = r
		return obj.Result{OK: true, Status: http.StatusOK, Data: obj.Envelope{Success: true}}
	})

	res := d.Do(context.Background(), Request{Method: MethodGet, Path: "/api/health"})

	assert.True(t, res.Succeeded())
	assert.Equal(t, "/api/health", got.Path)
}
