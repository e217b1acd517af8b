// Package remotetest runs an in-memory Blood Bridge backend for tests. It
// answers every endpoint the client calls with the statuses and messages of
// the real backend and records the requests it receives.
package remotetest

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"time"

	"bloodbridge/pkg/remote/obj"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// SessionCookie is the name of the cookie carrying the backend session.
	SessionCookie = "session"
	// AdminCode turns a registration into an admin registration.
	AdminCode = "1234"
)

type (
	Server struct {
		*httptest.Server

		mu        sync.Mutex
		recorded  []Recorded
		sessions  map[string]*session
		users     []*account
		admins    []*account
		donations []obj.Donation
		requests  []obj.BloodRequest
		messages  []obj.ContactMessage
		unhealthy bool
		now       func() time.Time
	}

	// Recorded is a request as received by the server.
	Recorded struct {
		Method string
		Path   string
		Header http.Header
		Body   []byte
	}

	session struct {
		token string

		UserID      string
		Name        string
		UserEmail   string
		Role        string
		CurrentRole string

		AdminID    string
		AdminName  string
		AdminEmail string
	}

	account struct {
		ID          string
		Name        string
		Email       string
		Hash        []byte
		Role        string
		CurrentRole string
		BloodGroup  string
	}
)

// New starts a server. It is closed with Close.
func New() *Server {
	s := &Server{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		notFound("Not found.", w)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		methodNotAllowed(w)
	})
	router.Use(s.record)
	router.Use(recoverMiddleware)
	router.Use(middleware.GetHead)
	router.Use(s.loadSession)
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Post("/contact", s.contact)

		r.Route("/auth", func(authRouter chi.Router) {
			authRouter.Post("/register", s.register)
			authRouter.Post("/login", s.login)
			authRouter.Post("/logout", s.logout)
			authRouter.Get("/logout", s.logout)
			authRouter.Get("/session", s.currentSession)
			authRouter.With(requireSession).Post("/choose-role", s.chooseRole)
			authRouter.With(requireAdminRole).Post("/users/{id}/delete", s.deleteUser)
		})

		r.Route("/donors", func(donorsRouter chi.Router) {
			donorsRouter.Use(requireSession)
			donorsRouter.Get("/my-donations", s.myDonations)
			donorsRouter.Post("/schedule", s.schedule)
		})

		r.Route("/requests", func(requestsRouter chi.Router) {
			requestsRouter.Group(func(userRouter chi.Router) {
				userRouter.Use(requireSession)
				userRouter.Post("/", s.createRequest)
				userRouter.Get("/my", s.myRequests)
				userRouter.Get("/pending", s.pendingRequests)
			})
			requestsRouter.With(requireAdminRole).Get("/all", s.allRequests)
		})

		r.Route("/matching", func(matchingRouter chi.Router) {
			matchingRouter.Get("/inventory", s.inventory)
			matchingRouter.With(requireSession).Get("/dashboard", s.dashboard)
		})

		r.Route("/admin", func(adminRouter chi.Router) {
			adminRouter.Post("/login", s.adminLogin)
			adminRouter.Post("/logout", s.adminLogout)
			adminRouter.Get("/session", s.adminSession)
			adminRouter.Group(func(secureRouter chi.Router) {
				secureRouter.Use(requireAdminSession)
				secureRouter.Get("/dashboard", s.adminDashboard)
				secureRouter.Get("/users", s.adminUsers)
				secureRouter.Post("/users/{id}/delete", s.deleteUser)
				secureRouter.Delete("/users/{id}/delete", s.deleteUser)
				secureRouter.Get("/requests", s.adminRequests)
				secureRouter.Get("/donations", s.adminDonations)
				secureRouter.Get("/inventory", s.adminInventory)
			})
		})
	})
	return router
}

// AddUser creates a user account and returns its id. role may be empty.
func (s *Server) AddUser(name, email, password, role string) string {
	a := newAccount(name, email, password)
	a.Role = role
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, a)
	return a.ID
}

// AddAdmin creates an account of the separate admin table and returns its id.
func (s *Server) AddAdmin(name, email, password string) string {
	a := newAccount(name, email, password)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = append(s.admins, a)
	return a.ID
}

// AddDonation stores d, filling its id and status when empty, and returns
// the id.
func (s *Server) AddDonation(d obj.Donation) string {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = "Scheduled"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donations = append(s.donations, d)
	return d.ID
}

// AddRequest stores b, filling its id, status and timestamp when empty, and
// returns the id.
func (s *Server) AddRequest(b obj.BloodRequest) string {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = "pending"
	}
	if b.Timestamp == "" {
		b.Timestamp = s.now().Format("2006-01-02")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, b)
	return b.ID
}

// SetHealthy changes the database state reported by the health endpoint.
func (s *Server) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unhealthy = !healthy
}

// Requests returns the requests received so far, oldest first.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.recorded)
}

// Last returns the most recent request. It panics when none was received.
func (s *Server) Last() Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorded[len(s.recorded)-1]
}

// Messages returns the contact messages received so far.
func (s *Server) Messages() []obj.ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Users returns the user accounts as the admin endpoints list them.
func (s *Server) Users() []obj.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userList()
}

// userList expects the caller to hold s.mu.
func (s *Server) userList() []obj.User {
	users := make([]obj.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.user())
	}
	return users
}

func newAccount(name, email, password string) *account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return &account{
		ID:    uuid.NewString(),
		Name:  name,
		Email: strings.ToLower(strings.TrimSpace(email)),
		Hash:  hash,
	}
}

func (a *account) matches(password string) bool {
	return bcrypt.CompareHashAndPassword(a.Hash, []byte(password)) == nil
}

func (a *account) user() obj.User {
	return obj.User{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        optional(a.Role),
		CurrentRole: optional(a.CurrentRole),
		BloodGroup:  optional(a.BloodGroup),
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// start binds sess to the response cookie when it is not stored yet. It must
// be called before the response is written; the caller holds s.mu.
func (s *Server) start(w http.ResponseWriter, sess *session) {
	if sess.token != "" {
		return
	}
	sess.token = uuid.NewString()
	s.sessions[sess.token] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.token,
		Path:     "/",
		HttpOnly: true,
	})
}

// end drops sess and expires its cookie; the caller holds s.mu.
func (s *Server) end(w http.ResponseWriter, sess *session) {
	if sess.token == "" {
		return
	}
	delete(s.sessions, sess.token)
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	*sess = session{}
}

func (s *Server) findUser(id string) (int, *account) {
	for i, u := range s.users {
		if u.ID == id {
			return i, u
		}
	}
	return -1, nil
}

func findByEmail(accounts []*account, email string) *account {
	for _, a := range accounts {
		if a.Email == email {
			return a
		}
	}
	return nil
}

// stock counts the scheduled and completed donations per blood group; the
// caller holds s.mu.
func (s *Server) stock() map[string]int {
	m := make(map[string]int, len(obj.BloodGroups))
	for _, g := range obj.BloodGroups {
		m[g] = 0
	}
	for _, d := range s.donations {
		if _, known := m[d.BloodGroup]; !known {
			continue
		}
		if d.Status == "Scheduled" || d.Status == "Completed" {
			m[d.BloodGroup]++
		}
	}
	return m
}

func stockList(m map[string]int) []obj.InventoryItem {
	items := make([]obj.InventoryItem, 0, len(obj.BloodGroups))
	for _, g := range obj.BloodGroups {
		items = append(items, obj.InventoryItem{Group: g, Units: m[g]})
	}
	return items
}

func total(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
