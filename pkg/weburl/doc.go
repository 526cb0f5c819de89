// Package weburl provides URL, a mutable URL value with a live
// query-string container.
//
// A URL is built from an absolute string, or from a reference resolved
// against a base:
//
//	u, err := weburl.NewWithBase("../newpage?x=1", "https://example.com/dir/page")
//	// u.Href() == "https://example.com/newpage?x=1"
//
// Every setter re-serializes immediately, so Href always reflects the
// latest write. SearchParams returns the container that backs Search:
// mutating it rewrites Search and Href, and SetSearch re-parses the
// container.
//
//	u.SearchParams().Append("baz", "qux")
//	// u.Search() == "?x=1&baz=qux"
//
// A URL and its SearchParams are not safe for concurrent use; callers
// sharing one across goroutines must serialize access.
package weburl
