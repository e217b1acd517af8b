package remotetest

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

type ctxKey struct{}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				internalServerError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// record keeps a copy of every incoming request.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.recorded = append(s.recorded, Recorded{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// loadSession attaches the session matching the request cookie, creating an
// empty one when none exists.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session
		if c, err := r.Cookie(SessionCookie); err == nil {
			s.mu.Lock()
			sess = s.sessions[c.Value]
			s.mu.Unlock()
		}
		if sess == nil {
			sess = &session{}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session {
	if sess, ok := r.Context().Value(ctxKey{}).(*session); ok {
		return sess
	}
	return &session{}
}

func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r).UserID == "" {
			unauthorized("Authentication required.", w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAdminRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if sess.UserID == "" {
			unauthorized("Authentication required.", w)
			return
		}
		if sess.Role != "admin" {
			forbidden("Unauthorized.", w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAdminSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r).AdminID == "" {
			unauthorized("Admin authentication required.", w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
