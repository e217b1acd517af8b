// Package api exposes the user-facing Blood Bridge endpoints. Every call
// returns an obj.Result; none of them validates its input, the backend does.
package api

import (
	"context"
	"net/url"
	"strings"

	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"
)

type (
	API struct {
		Auth     Auth
		Donors   Donors
		Requests Requests
		Matching Matching
		Health   Health
	}

	Auth     struct{ d client.Doer }
	Donors   struct{ d client.Doer }
	Requests struct{ d client.Doer }
	Matching struct{ d client.Doer }
	Health   struct{ d client.Doer }
)

func New(d client.Doer) *API {
	return &API{
		Auth:     Auth{d},
		Donors:   Donors{d},
		Requests: Requests{d},
		Matching: Matching{d},
		Health:   Health{d},
	}
}

func get(ctx context.Context, d client.Doer, path string) obj.Result {
	return d.Do(ctx, client.Request{Method: client.MethodGet, Path: path})
}

func post(ctx context.Context, d client.Doer, path string, body any) obj.Result {
	return d.Do(ctx, client.Request{Method: client.MethodPost, Path: path, Body: body})
}

// NormalizeCredentials trims and lowercases the email.
func NormalizeCredentials(c obj.Credentials) obj.Credentials {
	return obj.Credentials{
		Email:    strings.ToLower(strings.TrimSpace(c.Email)),
		Password: c.Password,
	}
}

func (a Auth) Register(ctx context.Context, p obj.Registration) obj.Result {
	return post(ctx, a.d, "/api/auth/register", p)
}

func (a Auth) Login(ctx context.Context, c obj.Credentials) obj.Result {
	return post(ctx, a.d, "/api/auth/login", NormalizeCredentials(c))
}

func (a Auth) Logout(ctx context.Context) obj.Result {
	return post(ctx, a.d, "/api/auth/logout", nil)
}

func (a Auth) Session(ctx context.Context) obj.Result {
	return get(ctx, a.d, "/api/auth/session")
}

func (a Auth) ChooseRole(ctx context.Context, p obj.RoleChoice) obj.Result {
	return post(ctx, a.d, "/api/auth/choose-role", p)
}

func (a Auth) DeleteUser(ctx context.Context, userID string) obj.Result {
	return post(ctx, a.d, "/api/auth/users/"+url.PathEscape(userID)+"/delete", nil)
}

func (d Donors) MyDonations(ctx context.Context) obj.Result {
	return get(ctx, d.d, "/api/donors/my-donations")
}

func (d Donors) Schedule(ctx context.Context, p obj.DonationSlot) obj.Result {
	return post(ctx, d.d, "/api/donors/schedule", p)
}

func (r Requests) Create(ctx context.Context, p obj.BloodRequestForm) obj.Result {
	return post(ctx, r.d, "/api/requests", p)
}

// My returns the caller's requests with their current availability.
func (r Requests) My(ctx context.Context) obj.Result {
	return get(ctx, r.d, "/api/requests/my")
}

func (r Requests) Pending(ctx context.Context) obj.Result {
	return get(ctx, r.d, "/api/requests/pending")
}

// All is restricted to admin accounts by the backend.
func (r Requests) All(ctx context.Context) obj.Result {
	return get(ctx, r.d, "/api/requests/all")
}

func (m Matching) Inventory(ctx context.Context) obj.Result {
	return get(ctx, m.d, "/api/matching/inventory")
}

// Dashboard returns the payload of the caller's role; see obj.Dashboard.
func (m Matching) Dashboard(ctx context.Context) obj.Result {
	return get(ctx, m.d, "/api/matching/dashboard")
}

func (h Health) Contact(ctx context.Context, p obj.ContactMessage) obj.Result {
	return post(ctx, h.d, "/api/contact", p)
}

func (h Health) Status(ctx context.Context) obj.Result {
	return get(ctx, h.d, "/api/health")
}
