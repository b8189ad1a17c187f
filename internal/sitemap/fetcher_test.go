package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/fetch"
)

const urlsetBody = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://site.ca/foo</loc></url>
</urlset>`

func TestFetcherFetchesAndParses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(urlsetBody))
	}))
	defer srv.Close()

	f := NewFetcher(fetch.New(fetch.Config{}), zap.NewNop())
	doc, err := f.Fetch(context.Background(), srv.URL+"/sitemap.xml")
	require.NoError(t, err)
	require.Equal(t, KindURLSet, doc.Kind())
	require.Len(t, doc.URLs, 1)
}

func TestFetcherNonOKStatusIsFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(fetch.New(fetch.Config{}), zap.NewNop())
	_, err := f.Fetch(context.Background(), srv.URL+"/sitemap.xml")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetcherTransportFailureIsFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := srv.URL
	srv.Close()

	f := NewFetcher(fetch.New(fetch.Config{}), zap.NewNop())
	_, err := f.Fetch(context.Background(), url+"/sitemap.xml")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestFetcherMalformedXMLIsParseError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<urlset><url><loc>broken"))
	}))
	defer srv.Close()

	f := NewFetcher(fetch.New(fetch.Config{}), zap.NewNop())
	_, err := f.Fetch(context.Background(), srv.URL+"/sitemap.xml")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestFetcherGzipSitemap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(urlsetBody))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	compressed := buf.Bytes()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(compressed)
	}))
	defer srv.Close()

	f := NewFetcher(fetch.New(fetch.Config{}), zap.NewNop())
	doc, err := f.Fetch(context.Background(), srv.URL+"/sitemap.xml.gz")
	require.NoError(t, err)
	require.Equal(t, KindURLSet, doc.Kind())
	require.Len(t, doc.URLs, 1)
}
