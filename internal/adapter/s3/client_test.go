package s3

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "test-access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test-secret-key")
	t.Setenv("AWS_SESSION_TOKEN", "")
}

func TestClient_Fetch(t *testing.T) {
	setTestCredentials(t)

	const payload = `{"type":"FeatureCollection","features":[]}`

	// Path-style addressing puts bucket and key on the request path.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/wildfire-data/usfs/fires.geojson", r.URL.Path)
		w.Write([]byte(payload)) //nolint:errcheck
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{
		Bucket:   "wildfire-data",
		Key:      "usfs/fires.geojson",
		Region:   "us-west-2",
		Endpoint: srv.URL,
	}, slog.Default())
	require.NoError(t, err)

	data, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
}

func TestClient_FetchMissingObject(t *testing.T) {
	setTestCredentials(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{
		Bucket:   "wildfire-data",
		Key:      "missing.geojson",
		Region:   "us-west-2",
		Endpoint: srv.URL,
	}, slog.Default())
	require.NoError(t, err)

	_, err = client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get object")
}

func TestClient_Source(t *testing.T) {
	setTestCredentials(t)

	client, err := NewClient(ClientConfig{
		Bucket: "wildfire-data",
		Key:    "usfs/fires.geojson",
		Region: "us-west-2",
	}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, "s3://wildfire-data/usfs/fires.geojson", client.Source())
}
