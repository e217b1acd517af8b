package logout

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"
	"bloodbridge/pkg/remote/remotetest"
	"bloodbridge/pkg/remote/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogout(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	srv.AddUser("Ada", "ada@example.com", "secret1", "")
	store, err := session.NewMemory(srv.URL)
	require.NoError(t, err)
	b := backend.New(client.New(client.Options{BaseURL: srv.URL, Jar: store}), store, srv.URL, zerolog.Nop())
	ctx := context.Background()
	require.True(t, b.API.Auth.Login(ctx, obj.Credentials{Email: "ada@example.com", Password: "secret1"}).Succeeded())
	var buf bytes.Buffer

	err = logout(ctx, &buf, b)

	require.NoError(t, err)
	assert.Equal(t, "Logged out.\n", buf.String())
	assert.False(t, store.Active())
	assert.Equal(t, "Not authenticated.", b.API.Auth.Session(ctx).Data.Message)
}

func TestLogoutUnreachableBackend(t *testing.T) {
	srv := remotetest.New()
	srv.Close()
	store, err := session.NewMemory(srv.URL)
	require.NoError(t, err)
	store.Seed([]*http.Cookie{{Name: remotetest.SessionCookie, Value: "stale"}})
	require.True(t, store.Active())
	b := backend.New(client.New(client.Options{BaseURL: srv.URL, Jar: store}), store, srv.URL, zerolog.Nop())

	err = logout(context.Background(), &bytes.Buffer{}, b)

	assert.EqualError(t, err, "failed to log out: Network error")
	assert.False(t, store.Active())
}
