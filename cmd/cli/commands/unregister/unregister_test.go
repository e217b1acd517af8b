package unregister

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"
	"bloodbridge/pkg/remote/remotetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnregister(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	srv.AddUser("Root", "root@example.com", "secret1", obj.RoleAdmin)
	id := srv.AddUser("Ada", "ada@example.com", "secret2", "")
	a := api.New(client.New(client.Options{BaseURL: srv.URL}))
	ctx := context.Background()
	require.True(t, a.Auth.Login(ctx, obj.Credentials{Email: "root@example.com", Password: "secret1"}).Succeeded())
	var buf bytes.Buffer

	require.NoError(t, unregister(ctx, &buf, a, id))

	assert.Equal(t, "User removed successfully.\n", buf.String())
	last := srv.Last()
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/api/auth/users/"+id+"/delete", last.Path)
	assert.Empty(t, last.Body)
}

func TestUnregisterForbidden(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	srv.AddUser("Ada", "ada@example.com", "secret2", "")
	a := api.New(client.New(client.Options{BaseURL: srv.URL}))
	ctx := context.Background()
	require.True(t, a.Auth.Login(ctx, obj.Credentials{Email: "ada@example.com", Password: "secret2"}).Succeeded())

	err := unregister(ctx, &bytes.Buffer{}, a, "42")

	assert.EqualError(t, err, "failed to delete the user: Unauthorized. (status 403)")
}
