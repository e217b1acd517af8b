package admin

import (
	"bytes"
	"context"
	"testing"

	"bloodbridge/pkg/remote/admin"
	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"
	"bloodbridge/pkg/remote/remotetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedIn(t *testing.T) (*remotetest.Server, *admin.API) {
	t.Helper()
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	srv.AddAdmin("Root", "root@example.com", "secret1")
	a := admin.New(client.New(client.Options{BaseURL: srv.URL}))
	require.NoError(t, login(context.Background(), &bytes.Buffer{}, a, obj.Credentials{Email: "root@example.com", Password: "secret1"}))
	return srv, a
}

func TestAction(t *testing.T) {
	_, err := (&AdminCmd{}).action()
	assert.EqualError(t, err, "no action given, see: bloodbridge help admin")

	_, err = (&AdminCmd{users: true, donations: true}).action()
	assert.EqualError(t, err, "only one action at a time")

	run, err := (&AdminCmd{delete: "42"}).action()
	require.NoError(t, err)
	assert.NotNil(t, run)
}

func TestLogin(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	srv.AddAdmin("Root", "root@example.com", "secret1")
	a := admin.New(client.New(client.Options{BaseURL: srv.URL}))
	var buf bytes.Buffer

	err := login(context.Background(), &buf, a, obj.Credentials{Email: "root@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "Admin login successful. Welcome, Root.\n", buf.String())

	err = login(context.Background(), &buf, a, obj.Credentials{Email: "root@example.com", Password: "wrong"})
	assert.EqualError(t, err, "failed to log in: Invalid email or password. (status 401)")
}

func TestSessionAndLogout(t *testing.T) {
	_, a := loggedIn(t)
	ctx := context.Background()
	var buf bytes.Buffer

	require.NoError(t, session(ctx, &buf, a))
	assert.Contains(t, buf.String(), " Email:    root@example.com")

	buf.Reset()
	require.NoError(t, logout(ctx, &buf, a))
	assert.Equal(t, "Admin logged out.\n", buf.String())

	err := session(ctx, &buf, a)
	assert.EqualError(t, err, "failed to load the admin session: Not authenticated as admin. (status 401)")
}

func TestDashboard(t *testing.T) {
	srv, a := loggedIn(t)
	srv.AddUser("Ada", "ada@example.com", "secret2", "")
	srv.AddDonation(obj.Donation{DonorID: "d1", BloodGroup: "A+", Date: "2026-01-01"})
	var buf bytes.Buffer

	require.NoError(t, dashboard(context.Background(), &buf, a))

	out := buf.String()
	assert.Contains(t, out, " Users:              1\n")
	assert.Contains(t, out, " Units in stock:     1\n")
	assert.Contains(t, out, "A+ | 1 | low")
	assert.Contains(t, out, "O- | 0 | low")
}

func TestUsersAndDelete(t *testing.T) {
	srv, a := loggedIn(t)
	id := srv.AddUser("Ada", "ada@example.com", "secret2", obj.RoleDonor)
	ctx := context.Background()
	var buf bytes.Buffer

	require.NoError(t, users(ctx, &buf, a))
	assert.Contains(t, buf.String(), id+" | Ada | ada@example.com | donor")

	buf.Reset()
	require.NoError(t, deleteUser(ctx, &buf, a, id))
	assert.Equal(t, "User removed successfully.\n", buf.String())

	err := deleteUser(ctx, &buf, a, id)
	assert.EqualError(t, err, "failed to delete the user: User not found. (status 404)")
}

func TestListings(t *testing.T) {
	srv, a := loggedIn(t)
	srv.AddDonation(obj.Donation{ID: "d1", DonorName: "Bob", BloodGroup: "B-", Date: "2026-01-01", Location: "Pune"})
	srv.AddRequest(obj.BloodRequest{ID: "r1", PatientName: "Cy", BloodGroup: "B-", Units: 1})
	ctx := context.Background()
	var buf bytes.Buffer

	require.NoError(t, donations(ctx, &buf, a))
	assert.Contains(t, buf.String(), "d1 | 2026-01-01 | - | B- | Pune | Bob | Scheduled")

	buf.Reset()
	require.NoError(t, requests(ctx, &buf, a))
	assert.Contains(t, buf.String(), "r1 |")

	buf.Reset()
	require.NoError(t, inventory(ctx, &buf, a))
	assert.Contains(t, buf.String(), "B- | 1 | low")
}

func TestNeedsAdminSession(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	a := admin.New(client.New(client.Options{BaseURL: srv.URL}))

	err := users(context.Background(), &bytes.Buffer{}, a)

	assert.EqualError(t, err, "failed to load the users: Admin authentication required. (status 401)")
}
