package dashboard

import (
	"bytes"
	"context"
	"testing"

	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"
	"bloodbridge/pkg/remote/remotetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedIn(t *testing.T, role string) (*remotetest.Server, *api.API, string) {
	t.Helper()
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	id := srv.AddUser("Ada", "ada@example.com", "secret1", role)
	a := api.New(client.New(client.Options{BaseURL: srv.URL}))
	require.True(t, a.Auth.Login(context.Background(), obj.Credentials{Email: "ada@example.com", Password: "secret1"}).Succeeded())
	return srv, a, id
}

func TestChooseRole(t *testing.T) {
	_, a, _ := loggedIn(t, "")
	var buf bytes.Buffer

	err := show(context.Background(), &buf, a)

	require.NoError(t, err)
	assert.Equal(t, "No role chosen yet.\nChoose your role with: bloodbridge role donor|recipient\n", buf.String())
}

func TestDonorView(t *testing.T) {
	srv, a, id := loggedIn(t, "")
	srv.AddDonation(obj.Donation{ID: "d1", DonorID: id, DonorName: "Ada", BloodGroup: "A-", Date: "2026-03-01", Location: "Pune"})
	ctx := context.Background()
	require.True(t, a.Auth.ChooseRole(ctx, obj.RoleChoice{Role: obj.RoleDonor}).Succeeded())
	var buf bytes.Buffer

	err := show(ctx, &buf, a)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Your donations\n")
	assert.Contains(t, buf.String(), "d1 | 2026-03-01 | - | A- | Pune | Ada | Scheduled")
}

func TestRecipientView(t *testing.T) {
	srv, a, id := loggedIn(t, "")
	srv.AddRequest(obj.BloodRequest{ID: "r1", RequesterID: id, PatientName: "Cy", BloodGroup: "AB-", Units: 1, Hospital: "City Hospital", Timestamp: "2026-01-02"})
	ctx := context.Background()
	require.True(t, a.Auth.ChooseRole(ctx, obj.RoleChoice{Role: obj.RoleRecipient}).Succeeded())
	var buf bytes.Buffer

	err := show(ctx, &buf, a)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Your requests\n")
	assert.Contains(t, buf.String(), "r1 | 2026-01-02 | Cy | AB- | 1 | City Hospital | pending | 0 | no")
	assert.Contains(t, buf.String(), "Inventory\nGROUP | UNITS | STOCK\n")
	assert.Contains(t, buf.String(), "AB- | 0 | low")
}

func TestBloodBankView(t *testing.T) {
	srv, a, _ := loggedIn(t, obj.RoleBloodBank)
	srv.AddDonation(obj.Donation{DonorID: "d1", DonorName: "Bob", BloodGroup: "O+", Date: "2026-01-05"})
	srv.AddRequest(obj.BloodRequest{ID: "r1", PatientName: "Cy", BloodGroup: "O+", Units: 2})
	var buf bytes.Buffer

	err := show(context.Background(), &buf, a)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Blood bank overview,")
	assert.Contains(t, out, " Donors:           1\n")
	assert.Contains(t, out, " Pending requests: 1\n")
	assert.Contains(t, out, "O+ | 1 | low")
	assert.Contains(t, out, "Bob | O+ | 2026-01-05")
	assert.Contains(t, out, "r1 |")
}

func TestDashboardNeedsSession(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	a := api.New(client.New(client.Options{BaseURL: srv.URL}))

	err := show(context.Background(), &bytes.Buffer{}, a)

	assert.EqualError(t, err, "failed to load the dashboard: Authentication required. (status 401)")
}
