package sitemap

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// DocumentFetcher retrieves one parsed sitemap document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}

// Walker expands a sitemap tree into the ordered list of in-domain page
// URLs. Traversal is worklist-based rather than recursive: a visited set
// skips sitemap URLs that appear more than once (cycle guard) and a maximum
// depth bounds pathological index chains.
type Walker struct {
	fetcher  DocumentFetcher
	domain   string
	maxDepth int
	logger   *zap.Logger
}

// NewWalker builds a Walker. The domain is matched against each page URL's
// host by exact, case-sensitive string equality.
func NewWalker(fetcher DocumentFetcher, domain string, maxDepth int, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		fetcher:  fetcher,
		domain:   domain,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

type workItem struct {
	url   string
	depth int
}

// Walk fetches rootURL and every sitemap it references, depth-first in
// document order, and returns the in-domain page URLs it finds. Any
// fetch or parse failure aborts the whole walk; no partial results are
// tolerated. Duplicate page URLs are preserved.
func (w *Walker) Walk(ctx context.Context, rootURL string) ([]string, error) {
	stack := []workItem{{url: rootURL, depth: 0}}
	visited := make(map[string]struct{})
	var pages []string

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sitemap walk interrupted: %w", err)
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[item.url]; seen {
			w.logger.Warn("sitemap referenced more than once; skipping", zap.String("url", item.url))
			continue
		}
		visited[item.url] = struct{}{}

		if item.depth > w.maxDepth {
			return nil, fmt.Errorf("sitemap tree exceeds maximum depth %d at %s", w.maxDepth, item.url)
		}

		doc, err := w.fetcher.Fetch(ctx, item.url)
		if err != nil {
			return nil, err
		}

		switch doc.Kind() {
		case KindIndex:
			w.logger.Info("sitemap index found",
				zap.String("url", item.url),
				zap.Int("children", len(doc.Sitemaps)),
			)
			// Push children in reverse so popping yields document order,
			// keeping the expansion depth-first.
			for i := len(doc.Sitemaps) - 1; i >= 0; i-- {
				loc := doc.Sitemaps[i].Loc
				if loc == "" {
					continue
				}
				stack = append(stack, workItem{url: loc, depth: item.depth + 1})
			}

		case KindURLSet:
			kept, dropped := 0, 0
			for _, entry := range doc.URLs {
				if !w.inDomain(entry.Loc) {
					dropped++
					continue
				}
				pages = append(pages, entry.Loc)
				kept++
			}
			w.logger.Info("page urls extracted",
				zap.String("url", item.url),
				zap.Int("kept", kept),
				zap.Int("dropped", dropped),
			)

		default:
			w.logger.Warn("unrecognized sitemap root element; treating as empty",
				zap.String("url", item.url),
				zap.String("element", doc.XMLName.Local),
			)
		}
	}

	return pages, nil
}

func (w *Walker) inDomain(loc string) bool {
	if loc == "" {
		return false
	}
	u, err := url.Parse(loc)
	if err != nil {
		return false
	}
	return u.Host == w.domain
}
