package scraper

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFetchSendsBrowserHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{}, zap.NewNop())
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.Contains(t, got.Get("Accept"), "text/html")
	assert.Equal(t, "en-US,en;q=0.5", got.Get("Accept-Language"))
	assert.Equal(t, "gzip, deflate, br", got.Get("Accept-Encoding"))
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{}, nil)
	_, err := f.Fetch(context.Background(), server.URL)

	require.Error(t, err)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
	assert.Equal(t, "Forbidden", fetchErr.Status)
	assert.Equal(t, "failed to fetch URL: 403 Forbidden", err.Error())
}

func TestFetchDecodesGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("<p>VIN: 1HGBH41JXMN109186</p>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	body, err := NewFetcher(FetcherConfig{}, nil).Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "<p>VIN: 1HGBH41JXMN109186</p>", body)
}

func TestFetchDecodesBrotli(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	_, err := bw.Write([]byte("<p>brotli body</p>"))
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	body, err := NewFetcher(FetcherConfig{}, nil).Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "<p>brotli body</p>", body)
}

func TestFetchTruncatesToMaxBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("a"), 100))
	}))
	defer server.Close()

	core, logs := observer.New(zap.WarnLevel)
	body, err := NewFetcher(FetcherConfig{MaxBodyBytes: 10}, zap.New(core)).Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Len(t, body, 10)
	entries := logs.FilterMessage("Listing page exceeds body limit, truncating").All()
	require.Len(t, entries, 1)
	assert.Equal(t, server.URL, entries[0].ContextMap()["url"])
}

func TestFetchBodyAtLimitIsNotFlagged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	core, logs := observer.New(zap.WarnLevel)
	body, err := NewFetcher(FetcherConfig{MaxBodyBytes: 10}, zap.New(core)).Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "0123456789", body)
	assert.Zero(t, logs.Len())
}

func TestFetchRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(FetcherConfig{RateLimit: 1, Burst: 1}, nil)
	_, err := f.Fetch(ctx, "http://127.0.0.1:0/")

	require.Error(t, err)
	var fetchErr *FetchError
	assert.False(t, errors.As(err, &fetchErr))
}
