// Package resolve merges a URL reference with a base URL, following the
// reference resolution steps of RFC 3986 section 5.2 in simplified form.
package resolve

import (
	"strings"

	"github.com/vango-dev/urlkit/pkg/pathnorm"
	"github.com/vango-dev/urlkit/pkg/urlgrammar"
)

// Resolve returns the absolute components obtained by resolving rel
// against base. base is assumed to be absolute already; Resolve never
// fails. Fragments are always taken from rel.
func Resolve(base, rel urlgrammar.Components) urlgrammar.Components {
	if rel.Scheme != "" {
		out := rel
		out.Path = pathnorm.Normalize(rel.Path)
		return out
	}

	out := urlgrammar.Components{
		Scheme:   base.Scheme,
		Username: base.Username,
		Password: base.Password,
		Host:     base.Host,
		Port:     base.Port,
		Path:     "/",
		Query:    rel.Query,
		Fragment: rel.Fragment,
	}

	switch {
	case rel.Host != "":
		out.Username = rel.Username
		out.Password = rel.Password
		out.Host = rel.Host
		out.Port = rel.Port
		out.Path = pathnorm.Normalize(orRoot(rel.Path))
	case rel.Path == "":
		out.Path = base.Path
		if rel.Query == "" {
			out.Query = base.Query
		}
	case strings.HasPrefix(rel.Path, "/"):
		out.Path = pathnorm.Normalize(rel.Path)
	default:
		out.Path = pathnorm.Normalize(merge(base.Path, rel.Path))
	}

	return out
}

// merge joins a relative path onto the directory of basePath.
func merge(basePath, relPath string) string {
	dir := "/"
	if i := strings.LastIndexByte(basePath, '/'); i >= 0 {
		dir = basePath[:i+1]
	}
	return dir + relPath
}

func orRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
