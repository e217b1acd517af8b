package admin

import (
	"context"
	"net/http"
	"testing"
	"time"

	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"
	"bloodbridge/pkg/remote/remotetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdmin(t *testing.T) (*remotetest.Server, *client.Client, *API) {
	t.Helper()
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	srv.AddAdmin("Root", "root@example.com", "secret1")
	c := client.New(client.Options{BaseURL: srv.URL})
	return srv, c, New(c)
}

func TestEndpoints(t *testing.T) {
	var got []client.Request
	a := New(client.DoerFunc(func(_ context.Context, r client.Request) obj.Result {
		got = append(got, r)
		return obj.Result{OK: true, Status: http.StatusOK, Data: obj.Envelope{Success: true}}
	}))
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() obj.Result
		method client.Method
		path   string
	}{
		{"logout", func() obj.Result { return a.Auth.Logout(ctx) }, client.MethodPost, "/api/admin/logout"},
		{"session", func() obj.Result { return a.Auth.Session(ctx) }, client.MethodGet, "/api/admin/session"},
		{"dashboard", func() obj.Result { return a.Dashboard.Stats(ctx) }, client.MethodGet, "/api/admin/dashboard"},
		{"users", func() obj.Result { return a.Users.List(ctx) }, client.MethodGet, "/api/admin/users"},
		{"delete user", func() obj.Result { return a.Users.Delete(ctx, "a/b?c") }, client.MethodPost, "/api/admin/users/a%2Fb%3Fc/delete"},
		{"requests", func() obj.Result { return a.Requests.List(ctx) }, client.MethodGet, "/api/admin/requests"},
		{"donations", func() obj.Result { return a.Donations.List(ctx) }, client.MethodGet, "/api/admin/donations"},
		{"inventory", func() obj.Result { return a.Inventory.List(ctx) }, client.MethodGet, "/api/admin/inventory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			tt.call()

			require.Len(t, got, 1)
			assert.Equal(t, tt.method, got[0].Method)
			assert.Equal(t, tt.path, got[0].Path)
			assert.Nil(t, got[0].Body)
		})
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	var got client.Request
	a := New(client.DoerFunc(func(_ context.Context, r client.Request) obj.Result {
		got = r
		return obj.NetworkError()
	}))

	res := a.Auth.Login(context.Background(), obj.Credentials{Email: " Root@Example.com", Password: "pw"})

	assert.True(t, res.TransportFailed())
	assert.Equal(t, client.MethodPost, got.Method)
	assert.Equal(t, "/api/admin/login", got.Path)
	assert.Equal(t, obj.Credentials{Email: "root@example.com", Password: "pw"}, got.Body)
}

func TestLoginSession(t *testing.T) {
	_, _, a := newAdmin(t)
	ctx := context.Background()

	res := a.Auth.Session(ctx)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "Not authenticated as admin.", res.Data.Message)

	res = a.Auth.Login(ctx, obj.Credentials{Email: "ROOT@example.com ", Password: "secret1"})
	require.True(t, res.Succeeded(), res.Data.Message)
	assert.Equal(t, "Admin login successful.", res.Data.Message)
	login, err := obj.Decode[obj.AdminLogin](res)
	require.NoError(t, err)
	assert.Equal(t, "Root", login.Admin.AdminName)

	res = a.Auth.Session(ctx)
	sess, err := obj.Decode[obj.AdminSession](res)
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", sess.AdminEmail)

	res = a.Auth.Logout(ctx)
	assert.Equal(t, "Admin logged out.", res.Data.Message)

	res = a.Users.List(ctx)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "Admin authentication required.", res.Data.Message)
}

func TestAdminSessionIsIndependent(t *testing.T) {
	srv, c, a := newAdmin(t)
	srv.AddUser("Ada", "ada@example.com", "secret2", "")
	user := api.New(c)
	ctx := context.Background()

	require.True(t, user.Auth.Login(ctx, obj.Credentials{Email: "ada@example.com", Password: "secret2"}).Succeeded())
	assert.Equal(t, http.StatusUnauthorized, a.Auth.Session(ctx).Status)

	require.True(t, a.Auth.Login(ctx, obj.Credentials{Email: "root@example.com", Password: "secret1"}).Succeeded())
	require.True(t, a.Auth.Logout(ctx).Succeeded())

	assert.True(t, user.Auth.Session(ctx).Succeeded())
}

func TestDashboard(t *testing.T) {
	srv, _, a := newAdmin(t)
	today := time.Now().Format("2006-01-02")
	srv.AddUser("Ada", "ada@example.com", "secret2", "")
	srv.AddUser("Bank", "bank@example.com", "secret3", obj.RoleBloodBank)
	srv.AddDonation(obj.Donation{DonorID: "d1", BloodGroup: "O-", Date: today})
	srv.AddDonation(obj.Donation{DonorID: "d1", BloodGroup: "O-", Date: "2025-01-01", Status: "Completed"})
	srv.AddRequest(obj.BloodRequest{RequesterID: "r1", BloodGroup: "O-", Units: 1})
	srv.AddRequest(obj.BloodRequest{RequesterID: "r2", BloodGroup: "A+", Units: 1, Status: "fulfilled"})
	ctx := context.Background()
	require.True(t, a.Auth.Login(ctx, obj.Credentials{Email: "root@example.com", Password: "secret1"}).Succeeded())

	res := a.Dashboard.Stats(ctx)

	dash, err := obj.Decode[obj.AdminDashboard](res)
	require.NoError(t, err)
	assert.Equal(t, obj.AdminStats{
		TotalUsers:        2,
		DonorsCount:       1,
		RecipientsCount:   2,
		BanksCount:        1,
		TotalRequests:     2,
		PendingRequests:   1,
		CompletedRequests: 1,
		TotalDonations:    2,
		TodayDonations:    1,
		TotalInventory:    2,
	}, dash.Stats)
	require.Len(t, dash.Inventory, len(obj.BloodGroups))
	assert.Equal(t, obj.InventoryItem{Group: "O-", Units: 2}, dash.Inventory[7])
	assert.True(t, dash.Inventory[0].Low())
}

func TestUsers(t *testing.T) {
	srv, _, a := newAdmin(t)
	id := srv.AddUser("Ada", "ada@example.com", "secret2", "")
	ctx := context.Background()
	require.True(t, a.Auth.Login(ctx, obj.Credentials{Email: "root@example.com", Password: "secret1"}).Succeeded())

	res := a.Users.List(ctx)
	users, err := obj.Decode[obj.Users](res)
	require.NoError(t, err)
	require.Len(t, users.Users, 1)
	assert.Equal(t, "user", users.Users[0].RoleName())

	res = a.Users.Delete(ctx, id)
	assert.True(t, res.Succeeded())
	assert.Equal(t, "User removed successfully.", res.Data.Message)
	assert.Empty(t, srv.Last().Header.Get("Content-Type"))

	res = a.Users.Delete(ctx, id)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "User not found.", res.Data.Message)
}

func TestListings(t *testing.T) {
	srv, _, a := newAdmin(t)
	srv.AddDonation(obj.Donation{DonorID: "d1", DonorName: "Ada", BloodGroup: "AB+", Date: "2026-01-01"})
	srv.AddDonation(obj.Donation{DonorID: "d2", DonorName: "Bob", BloodGroup: "AB+", Date: "2026-02-01"})
	srv.AddRequest(obj.BloodRequest{RequesterID: "r1", PatientName: "Cy", BloodGroup: "AB+", Units: 3})
	ctx := context.Background()
	require.True(t, a.Auth.Login(ctx, obj.Credentials{Email: "root@example.com", Password: "secret1"}).Succeeded())

	donations, err := obj.Decode[obj.Donations](a.Donations.List(ctx))
	require.NoError(t, err)
	require.Len(t, donations.Donations, 2)
	assert.Equal(t, "Bob", donations.Donations[0].DonorName)

	requests, err := obj.Decode[obj.BloodRequests](a.Requests.List(ctx))
	require.NoError(t, err)
	require.Len(t, requests.Requests, 1)
	assert.Equal(t, "Cy", requests.Requests[0].PatientName)

	inv, err := obj.Decode[obj.Inventory](a.Inventory.List(ctx))
	require.NoError(t, err)
	levels, err := obj.Levels(inv.Inventory)
	require.NoError(t, err)
	assert.Equal(t, obj.InventoryItem{Group: "AB+", Units: 2}, levels[4])
}
