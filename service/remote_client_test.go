package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteClientFetchProducts(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("section")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":12,"name":"Calza","price":"1500.5"}]`))
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL+"/api/products?lang=es", "")
	list, err := c.FetchProducts(context.Background(), "hombre")
	require.NoError(t, err)
	assert.Equal(t, "hombre", gotQuery)
	require.Len(t, list, 1)
	assert.Equal(t, "12", list[0].ID)
	assert.Equal(t, 1500.5, list[0].Price)
}

func TestRemoteClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewRemoteClient(srv.URL, srv.URL)
	_, err := c.FetchProducts(ctx, "")
	assert.ErrorContains(t, err, "HTTP 502")
	_, err = c.FetchVariants(ctx)
	assert.Error(t, err)

	empty := NewRemoteClient("", " ")
	_, err = empty.FetchProducts(ctx, "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = empty.FetchVariants(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = empty.FetchDataFile(ctx, "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRemoteClientFetchVariants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		w.Write([]byte(`[{"product_id":"A","color":"Negro","size":"M","stock":3}]`))
	}))
	defer srv.Close()

	list, err := NewRemoteClient("", srv.URL).FetchVariants(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].ProductID)
	assert.Equal(t, 3, list[0].Stock)
}

func TestRemoteClientFetchDataFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Top Liso","colors":{"Negro":"negro.jpg"}}]`), 0o644))

	c := NewRemoteClient("", "")
	list, err := c.FetchDataFile(ctx, path)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Negro", list[0].Colors[0].Name)

	_, err = c.FetchDataFile(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Remoto"}]`))
	}))
	defer srv.Close()
	list, err = c.FetchDataFile(ctx, srv.URL+"/assets/data/products.json")
	require.NoError(t, err)
	assert.Equal(t, "Remoto", list[0].Name)
}
