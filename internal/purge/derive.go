// Package purge derives cache-purge endpoints from page URLs and issues
// sequential, rate-limited purge requests against them.
package purge

import "net/url"

// DeriveURLs maps each page URL to its purge-endpoint URL by substituting
// scheme and host with the purge base while keeping path and query verbatim.
// Output order follows input order, and every parseable input yields exactly
// one target; inputs that fail URL parsing are dropped rather than mapped to
// the purge root. No percent-encoding changes, no trailing-slash
// normalization. An empty path becomes "/".
func DeriveURLs(pageURLs []string, base string) []string {
	targets := make([]string, 0, len(pageURLs))
	for _, raw := range pageURLs {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		path := "/"
		// EscapedPath keeps the percent-encoding as requested, so
		// /a%2Fb and /a/b stay distinct purge targets.
		if p := u.EscapedPath(); p != "" {
			path = p
		}
		target := base + path
		query := u.RawQuery
		if query != "" {
			target += "?" + query
		}
		targets = append(targets, target)
	}
	return targets
}
