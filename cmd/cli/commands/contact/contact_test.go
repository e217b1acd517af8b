package contact

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

func TestSend(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	a := api.New(client.New(client.Options{BaseURL: srv.URL}))
	var buf bytes.Buffer

	err := send(context.Background(), &buf, a, obj.ContactMessage{Name: "Ada", Email: "ada@example.com", Subject: "Camp", Message: "Is there a camp in Pune?"})

	require.NoError(t, err)
	assert.Equal(t, "Thank you! Your message has been sent successfully.\n", buf.String())
	require.Len(t, srv.Messages(), 1)
	assert.Equal(t, "Camp", srv.Messages()[0].Subject)
}

func TestSendInvalid(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	a := api.New(client.New(client.Options{BaseURL: srv.URL}))

	err := send(context.Background(), &bytes.Buffer{}, a, obj.ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Is there a camp in Pune?"})

	assert.EqualError(t, err, "failed to send the message: Subject is required (status 400)")
}
