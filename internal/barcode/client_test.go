package barcode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshguard-api/internal/cache"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := cache.NewMemoryCache(0)
	t.Cleanup(func() { c.Close() })
	return NewClient(Config{BaseURL: baseURL, PerMinute: 6000}, c)
}

func TestLookup_Found(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/3017620422003.json", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":1,"product":{"product_name":"Nutella","image_url":"https://img.example/n.jpg"}}`))
	})
	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	p, err := client.Lookup(ctx, "3017620422003")
	require.NoError(t, err)
	assert.True(t, p.Found)
	require.NotNil(t, p.Name)
	assert.Equal(t, "Nutella", *p.Name)
	require.NotNil(t, p.ImageURL)
	assert.Equal(t, "https://img.example/n.jpg", *p.ImageURL)

	again, err := client.Lookup(ctx, "3017620422003")
	require.NoError(t, err)
	assert.Equal(t, p, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestLookup_NotFoundIsMemoized(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
	})
	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := client.Lookup(ctx, "12345678")
		require.NoError(t, err)
		assert.False(t, p.Found)
		assert.Equal(t, "12345678", p.Barcode)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestLookup_UpstreamFailureDegrades(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := client.Lookup(ctx, "12345678")
		require.NoError(t, err)
		assert.False(t, p.Found)
		assert.Nil(t, p.Name)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestLookup_EmptyCode(t *testing.T) {
	client := NewClient(Config{}, nil)
	for _, code := range []string{"", "   "} {
		_, err := client.Lookup(context.Background(), code)
		assert.Error(t, err, code)
	}
}

func TestLookup_NonNumericCodeDegrades(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":1,"product":{"product_name":"Nope"}}`))
	})
	client := NewClient(Config{BaseURL: srv.URL, PerMinute: 6000}, nil)

	for _, code := range []string{"12", "abc-QR", "https://example.com/p/1", "123456789012345", " abcdefgh "} {
		p, err := client.Lookup(context.Background(), code)
		require.NoError(t, err, code)
		assert.False(t, p.Found, code)
		assert.Nil(t, p.Name, code)
		assert.NotEmpty(t, p.Barcode, code)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestLookup_NoCache(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":1,"product":{"product_name":""}}`))
	})
	client := NewClient(Config{BaseURL: srv.URL, PerMinute: 6000}, nil)

	p, err := client.Lookup(context.Background(), "12345678")
	require.NoError(t, err)
	assert.True(t, p.Found)
	assert.Nil(t, p.Name)

	_, err = client.Lookup(context.Background(), "12345678")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}
