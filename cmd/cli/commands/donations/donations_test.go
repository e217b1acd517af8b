package donations

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

func TestList(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	id := srv.AddUser("Ada", "ada@example.com", "secret1", obj.RoleDonor)
	srv.AddDonation(obj.Donation{ID: "d1", DonorID: id, DonorName: "Ada", BloodGroup: "O+", Date: "2026-01-01", Location: "Pune", TimeSlot: "09:00"})
	srv.AddDonation(obj.Donation{ID: "d2", DonorID: id, DonorName: "Ada", BloodGroup: "O+", Date: "2026-04-01", Location: "Pune"})
	srv.AddDonation(obj.Donation{ID: "d3", DonorID: "other", DonorName: "Bob", BloodGroup: "A+", Date: "2026-02-01", Location: "Pune"})
	a := api.New(client.New(client.Options{BaseURL: srv.URL}))
	ctx := context.Background()
	require.True(t, a.Auth.Login(ctx, obj.Credentials{Email: "ada@example.com", Password: "secret1"}).Succeeded())
	var buf bytes.Buffer

	require.NoError(t, list(ctx, &buf, a))

	assert.Equal(t, "ID | DATE | TIME | GROUP | LOCATION | DONOR | STATUS\n"+
		"-- | ---- | ---- | ----- | -------- | ----- | ------\n"+
		"d2 | 2026-04-01 | - | O+ | Pune | Ada | Scheduled\n"+
		"d1 | 2026-01-01 | 09:00 | O+ | Pune | Ada | Scheduled\n", buf.String())
}
