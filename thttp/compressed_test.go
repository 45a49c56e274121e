package thttp

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeGzipNegotiated(t *testing.T) {
	payload := []byte(`{"uid":"movies"}` + "\n")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, ServeGzipNegotiated(w, r, "application/x-ndjson", payload))
	})

	r := httptest.NewRequest(http.MethodGet, "/export", nil)
	res := Test(handler, r)
	defer res.Body.Close()
	assert.Empty(t, res.Header.Get("Content-Encoding"))
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, body)

	r = httptest.NewRequest(http.MethodGet, "/export", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	res = Test(handler, r)
	defer res.Body.Close()
	assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
	zr, err := gzip.NewReader(res.Body)
	require.NoError(t, err)
	body, err = io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
}
