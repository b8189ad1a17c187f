package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/fetch"
)

// Fetcher retrieves and parses one sitemap document per call. No retries.
type Fetcher struct {
	client fetch.Client
	logger *zap.Logger
}

// NewFetcher builds a Fetcher.
func NewFetcher(client fetch.Client, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch retrieves the document at url and parses it. Transport failures and
// non-200 statuses return a *FetchError; malformed XML returns a *ParseError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	f.logger.Info("fetching sitemap", zap.String("url", url))

	res, err := f.client.Fetch(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, StatusCode: res.StatusCode}
	}

	body := maybeGunzip(url, res.Body)
	doc, err := Parse(body)
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}
	return doc, nil
}

// maybeGunzip transparently decompresses gzip-compressed sitemaps. Some
// servers serve a .gz URL with Content-Encoding gzip as well, in which case
// the transport has already decompressed the body, so failures fall through
// to the raw bytes.
func maybeGunzip(url string, body []byte) []byte {
	compressed := strings.HasSuffix(strings.ToLower(url), ".gz") ||
		(len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b)
	if !compressed {
		return body
	}
	gz, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return body
	}
	defer gz.Close()
	unzipped, err := io.ReadAll(gz)
	if err != nil {
		return body
	}
	return unzipped
}
