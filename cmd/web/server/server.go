package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bloodbridge/pkg/config"
	"bloodbridge/pkg/constants"
	"bloodbridge/pkg/remote/admin"
	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"
	"bloodbridge/pkg/remote/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type (
	HTTPServer struct {
		Server    *http.Server
		Config    config.Configuration
		Templates Templates
		// Transport is used by the per request clients, nil means the
		// default transport.
		Transport http.RoundTripper
		log       zerolog.Logger
	}

	Templates struct {
		Login     *template.Template
		Dashboard *template.Template
		Users     *template.Template
		Requests  *template.Template
		Donations *template.Template
		Inventory *template.Template
	}
)

type (
	Page struct {
		Version string
		Title   string
		Flash   string
		Failed  bool
	}

	LoginPayload struct {
		Page
		Email string
	}

	DashboardPayload struct {
		Page
		Stats     obj.AdminStats
		Inventory []obj.InventoryItem
	}

	UsersPayload struct {
		Page
		Users []obj.User
	}

	RequestsPayload struct {
		Page
		Requests []obj.BloodRequest
	}

	DonationsPayload struct {
		Page
		Donations []obj.Donation
	}

	InventoryPayload struct {
		Page
		Inventory []obj.InventoryItem
	}
)

var (
	//go:embed templates/500.html
	InternalServerErrorHTMLPage string

	//go:embed templates/*.html
	pages embed.FS
)

// NewServer builds the admin console, it does not start it
func NewServer(c config.Configuration, log zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		Config: c,
		Templates: Templates{
			Login:     parse("login.html"),
			Dashboard: parse("dashboard.html"),
			Users:     parse("users.html"),
			Requests:  parse("requests.html"),
			Donations: parse("donations.html"),
			Inventory: parse("inventory.html"),
		},
		log: log,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: &s.log, NoColor: true}))
	router.Use(s.recoverMiddleware)
	router.Use(noCache)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
	})
	router.Route("/admin", func(routerAdmin chi.Router) {
		routerAdmin.Get("/login", s.loginPage)
		routerAdmin.Post("/login", s.login)
		routerAdmin.Post("/logout", s.logout)
		routerAdmin.Get("/", s.dashboard)
		routerAdmin.Get("/users", s.users)
		routerAdmin.Post("/users/{id}/delete", s.deleteUser)
		routerAdmin.Get("/requests", s.requests)
		routerAdmin.Get("/donations", s.donations)
		routerAdmin.Get("/inventory", s.inventory)
	})
	s.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.Web.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func parse(name string) *template.Template {
	return template.Must(template.New(name).ParseFS(pages, "templates/layout.html", "templates/"+name))
}

// remote builds a client bound to the browser session. The cookies the
// backend sets end up in the returned store.
func (s *HTTPServer) remote(r *http.Request) (*admin.API, *session.Store, error) {
	store, err := session.NewMemory(s.Config.Remote.BaseURL)
	if err != nil {
		return nil, nil, err
	}
	store.Seed(r.Cookies())

	cli := client.New(client.Options{
		BaseURL:   s.Config.Remote.BaseURL,
		Jar:       store,
		Timeout:   s.Config.Remote.Timeout,
		Transport: s.Transport,
		Logger:    &s.log,
	})
	return admin.New(cli), store, nil
}

// relay copies the backend cookies to the browser. A cookie the browser sent
// that the backend dropped is expired.
func relay(w http.ResponseWriter, r *http.Request, store *session.Store) {
	live := make(map[string]struct{})
	for _, c := range store.All() {
		live[c.Name] = struct{}{}
		if prev, err := r.Cookie(c.Name); err == nil && prev.Value == c.Value {
			continue
		}
		http.SetCookie(w, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     "/",
			Expires:  c.Expires,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	for _, c := range r.Cookies() {
		if _, ok := live[c.Name]; !ok {
			http.SetCookie(w, &http.Cookie{Name: c.Name, Path: "/", MaxAge: -1})
		}
	}
}

func (s *HTTPServer) page(r *http.Request, title string) Page {
	p := Page{
		Version: constants.Version,
		Title:   title,
	}
	if msg := r.URL.Query().Get("flash"); msg != "" {
		p.Flash = msg
		p.Failed = r.URL.Query().Get("failed") != ""
	}
	return p
}

// load decodes the payload of res. On failure the page carries a flash
// message naming what could not be loaded.
func load[T any](p *Page, res obj.Result, what string) T {
	var v T
	if !res.Succeeded() {
		p.Flash = fmt.Sprintf("Failed to load %s: %s", what, res.MessageOr("request refused"))
		p.Failed = true
		return v
	}
	v, err := obj.Decode[T](res)
	if err != nil {
		p.Flash = fmt.Sprintf("Failed to load %s: %s", what, err)
		p.Failed = true
	}
	return v
}

// fetch runs call against the backend on behalf of the browser. It returns
// false when the response has already been written.
func (s *HTTPServer) fetch(w http.ResponseWriter, r *http.Request, call func(a *admin.API) obj.Result) (obj.Result, bool) {
	a, store, err := s.remote(r)
	if err != nil {
		s.log.Error().Err(err).Msg("unable to build the backend client")
		internalServerError(w, r)
		return obj.Result{}, false
	}

	res := call(a)
	relay(w, r, store)
	if res.Status == http.StatusUnauthorized {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return res, false
	}
	if res.TransportFailed() {
		s.log.Warn().Str("path", r.URL.Path).Msg("backend unreachable")
	}
	return res, true
}

func (s *HTTPServer) render(w http.ResponseWriter, r *http.Request, t *template.Template, payload any) {
	if err := t.ExecuteTemplate(w, "layout", payload); err != nil {
		s.log.Error().Err(err).Str("template", t.Name()).Msg("failed to render the page")
		internalServerError(w, r)
	}
}

func redirectFlash(w http.ResponseWriter, r *http.Request, target, msg string, failed bool) {
	q := "flash=" + url.QueryEscape(msg)
	if failed {
		q += "&failed=1"
	}
	http.Redirect(w, r, target+"?"+q, http.StatusSeeOther)
}

func (s *HTTPServer) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.Templates.Login, LoginPayload{Page: s.page(r, "Admin login")})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	creds := obj.Credentials{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}

	a, store, err := s.remote(r)
	if err != nil {
		s.log.Error().Err(err).Msg("unable to build the backend client")
		internalServerError(w, r)
		return
	}
	res := a.Auth.Login(r.Context(), creds)
	relay(w, r, store)

	if !res.Succeeded() {
		payload := LoginPayload{Page: s.page(r, "Admin login"), Email: strings.TrimSpace(creds.Email)}
		payload.Flash = res.MessageOr("Login failed")
		payload.Failed = true
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, r, s.Templates.Login, payload)
		return
	}
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	res, ok := s.fetch(w, r, func(a *admin.API) obj.Result {
		return a.Auth.Logout(r.Context())
	})
	if !ok {
		return
	}
	redirectFlash(w, r, "/admin/login", res.MessageOr("Logged out"), !res.Succeeded())
}

func (s *HTTPServer) dashboard(w http.ResponseWriter, r *http.Request) {
	res, ok := s.fetch(w, r, func(a *admin.API) obj.Result {
		return a.Dashboard.Stats(r.Context())
	})
	if !ok {
		return
	}

	payload := DashboardPayload{Page: s.page(r, "Dashboard")}
	d := load[obj.AdminDashboard](&payload.Page, res, "admin dashboard")
	payload.Stats = d.Stats
	payload.Inventory = d.Inventory
	s.render(w, r, s.Templates.Dashboard, payload)
}

func (s *HTTPServer) users(w http.ResponseWriter, r *http.Request) {
	res, ok := s.fetch(w, r, func(a *admin.API) obj.Result {
		return a.Users.List(r.Context())
	})
	if !ok {
		return
	}

	payload := UsersPayload{Page: s.page(r, "Users")}
	payload.Users = load[obj.Users](&payload.Page, res, "users").Users
	s.render(w, r, s.Templates.Users, payload)
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, ok := s.fetch(w, r, func(a *admin.API) obj.Result {
		return a.Users.Delete(r.Context(), id)
	})
	if !ok {
		return
	}

	if !res.Succeeded() {
		redirectFlash(w, r, "/admin/users", "Failed to delete user: "+res.MessageOr("request refused"), true)
		return
	}
	redirectFlash(w, r, "/admin/users", res.MessageOr("User deleted"), false)
}

func (s *HTTPServer) requests(w http.ResponseWriter, r *http.Request) {
	res, ok := s.fetch(w, r, func(a *admin.API) obj.Result {
		return a.Requests.List(r.Context())
	})
	if !ok {
		return
	}

	payload := RequestsPayload{Page: s.page(r, "Requests")}
	payload.Requests = load[obj.BloodRequests](&payload.Page, res, "requests").Requests
	s.render(w, r, s.Templates.Requests, payload)
}

func (s *HTTPServer) donations(w http.ResponseWriter, r *http.Request) {
	res, ok := s.fetch(w, r, func(a *admin.API) obj.Result {
		return a.Donations.List(r.Context())
	})
	if !ok {
		return
	}

	payload := DonationsPayload{Page: s.page(r, "Donations")}
	payload.Donations = load[obj.Donations](&payload.Page, res, "donations").Donations
	s.render(w, r, s.Templates.Donations, payload)
}

func (s *HTTPServer) inventory(w http.ResponseWriter, r *http.Request) {
	res, ok := s.fetch(w, r, func(a *admin.API) obj.Result {
		return a.Inventory.List(r.Context())
	})
	if !ok {
		return
	}

	payload := InventoryPayload{Page: s.page(r, "Inventory")}
	data := load[obj.Inventory](&payload.Page, res, "inventory")
	if !payload.Failed {
		levels, err := obj.Levels(data.Inventory)
		if err != nil {
			payload.Flash = "Failed to load inventory: " + err.Error()
			payload.Failed = true
		}
		payload.Inventory = levels
	}
	s.render(w, r, s.Templates.Inventory, payload)
}
