package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nulzo/model-sync-api/internal/adapters/sources/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIDs_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"m3"},{"id":"m1"},{"id":"m2"}]}`))
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL, nil)
	ids, err := client.ListIDs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m1", "m2"}, ids)
}

func TestListIDs_EmptyListIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL, nil)
	_, err := client.ListIDs(context.Background())
	assert.Error(t, err)
}

func TestListIDs_MalformedPayloadIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":"nope"}`))
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL, nil)
	_, err := client.ListIDs(context.Background())
	assert.Error(t, err)
}

func TestListIDs_ServerErrorIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL, nil)
	_, err := client.ListIDs(context.Background())
	assert.Error(t, err)
}

func TestListIDs_DeadlineExceededIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"data":[{"id":"m1"}]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := catalog.NewClient(server.URL, nil)
	_, err := client.ListIDs(ctx)
	assert.Error(t, err)
}
