// Package admin exposes the administrative Blood Bridge endpoints. The admin
// session is independent from the user session.
package admin

import (
	"context"
	"net/url"

	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"
)

type (
	API struct {
		Auth      Auth
		Dashboard Dashboard
		Users     Users
		Requests  Requests
		Donations Donations
		Inventory Inventory
	}

	Auth      struct{ d client.Doer }
	Dashboard struct{ d client.Doer }
	Users     struct{ d client.Doer }
	Requests  struct{ d client.Doer }
	Donations struct{ d client.Doer }
	Inventory struct{ d client.Doer }
)

func New(d client.Doer) *API {
	return &API{
		Auth:      Auth{d},
		Dashboard: Dashboard{d},
		Users:     Users{d},
		Requests:  Requests{d},
		Donations: Donations{d},
		Inventory: Inventory{d},
	}
}

func get(ctx context.Context, d client.Doer, path string) obj.Result {
	return d.Do(ctx, client.Request{Method: client.MethodGet, Path: path})
}

func post(ctx context.Context, d client.Doer, path string, body any) obj.Result {
	return d.Do(ctx, client.Request{Method: client.MethodPost, Path: path, Body: body})
}

func (a Auth) Login(ctx context.Context, c obj.Credentials) obj.Result {
	return post(ctx, a.d, "/api/admin/login", api.NormalizeCredentials(c))
}

func (a Auth) Logout(ctx context.Context) obj.Result {
	return post(ctx, a.d, "/api/admin/logout", nil)
}

func (a Auth) Session(ctx context.Context) obj.Result {
	return get(ctx, a.d, "/api/admin/session")
}

func (s Dashboard) Stats(ctx context.Context) obj.Result {
	return get(ctx, s.d, "/api/admin/dashboard")
}

func (u Users) List(ctx context.Context) obj.Result {
	return get(ctx, u.d, "/api/admin/users")
}

func (u Users) Delete(ctx context.Context, id string) obj.Result {
	return post(ctx, u.d, "/api/admin/users/"+url.PathEscape(id)+"/delete", nil)
}

func (r Requests) List(ctx context.Context) obj.Result {
	return get(ctx, r.d, "/api/admin/requests")
}

func (d Donations) List(ctx context.Context) obj.Result {
	return get(ctx, d.d, "/api/admin/donations")
}

func (i Inventory) List(ctx context.Context) obj.Result {
	return get(ctx, i.d, "/api/admin/inventory")
}
