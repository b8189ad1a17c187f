package sitemap

import "fmt"

// FetchError reports a transport failure or non-success HTTP status while
// retrieving a sitemap document. It is fatal for the whole run.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch sitemap %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch sitemap %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports malformed sitemap XML. It is fatal for the whole run.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse sitemap %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
