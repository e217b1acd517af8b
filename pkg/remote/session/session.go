package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type (
	// Store is a cookie jar bound to one backend. Cookies received from the
	// backend are kept in memory and, for stores opened from a directory,
	// written to disk by Flush.
	Store struct {
		path    string
		baseURL *url.URL

		mu      sync.Mutex
		jar     *cookiejar.Jar
		cookies map[string]storedCookie
	}

	storedCookie struct {
		Name     string    `json:"name"`
		Value    string    `json:"value"`
		Path     string    `json:"path,omitempty"`
		Domain   string    `json:"domain,omitempty"`
		Expires  time.Time `json:"expires,omitzero"`
		Secure   bool      `json:"secure,omitempty"`
		HttpOnly bool      `json:"http_only,omitempty"`
	}

	sessionFile struct {
		URL     string         `json:"url"`
		Cookies []storedCookie `json:"cookies"`
	}
)

var (
	ErrNoSession error = errors.New("no session stored for this backend")
)

// Open loads the session stored in dir for baseURL. A missing file is an
// empty session.
func Open(dir, baseURL string) (*Store, error) {
	s, err := NewMemory(baseURL)
	if err != nil {
		return nil, err
	}
	s.path = filepath.Join(dir, fileName(s.baseURL))

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("corrupted session store: failed to parse %s: %w", s.path, err)
	}
	if f.URL != s.baseURL.String() {
		return s, nil
	}

	cookies := make([]*http.Cookie, 0, len(f.Cookies))
	for _, c := range f.Cookies {
		cookies = append(cookies, c.cookie())
	}
	s.SetCookies(s.baseURL, cookies)
	return s, nil
}

// NewMemory returns a store that is never written to disk.
func NewMemory(baseURL string) (*Store, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid backend url: missing host in %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Store{
		baseURL: u,
		jar:     jar,
		cookies: make(map[string]storedCookie),
	}, nil
}

// Cookies implements http.CookieJar.
func (s *Store) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.jar.Cookies(u)
}

// SetCookies implements http.CookieJar. Only cookies sent by the bound
// backend host are tracked for persistence.
func (s *Store) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jar.SetCookies(u, cookies)
	if !strings.EqualFold(u.Host, s.baseURL.Host) {
		return
	}

	now := time.Now()
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = "/"
		}
		key := c.Name + ";" + path
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!expires.IsZero() && !expires.After(now)) {
			delete(s.cookies, key)
			continue
		}
		s.cookies[key] = storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     path,
			Domain:   c.Domain,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}
}

// Seed adds cookies as if the backend had set them, e.g. cookies forwarded
// from a browser.
func (s *Store) Seed(cookies []*http.Cookie) {
	s.SetCookies(s.baseURL, cookies)
}

// All returns the live cookies tracked for the backend.
func (s *Store) All() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var res []*http.Cookie
	for _, c := range s.cookies {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		res = append(res, c.cookie())
	}
	return res
}

// Active reports whether the store holds at least one live cookie.
func (s *Store) Active() bool {
	return len(s.All()) > 0
}

// Flush writes the session to disk. It is a no-op for memory stores.
func (s *Store) Flush() error {
	if s.path == "" {
		return nil
	}

	f := sessionFile{
		URL: s.baseURL.String(),
	}
	for _, c := range s.All() {
		f.Cookies = append(f.Cookies, storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("cannot make the session store: %w", err)
	}

	content, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, content, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear forgets every cookie and removes the session file.
func (s *Store) Clear() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.jar = jar
	s.cookies = make(map[string]storedCookie)
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (c storedCookie) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

func fileName(u *url.URL) string {
	name := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(strings.ToLower(u.Host))
	return name + ".json"
}
