package weburl

import (
	"encoding/json"
	"strings"

	"github.com/vango-dev/urlkit/pkg/urlgrammar"
)

// reserialize recomputes the cached href from the stored fields.
func (u *URL) reserialize() {
	u.href = serialize(u.Components())
}

// String returns the serialized URL.
func (u *URL) String() string { return u.href }

// MarshalJSON encodes the URL as its href string.
func (u *URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.href)
}

// UnmarshalJSON decodes an absolute URL string into u.
func (u *URL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := New(s)
	if err != nil {
		return err
	}
	u.assign(parsed.Components())
	return nil
}

// serialize joins scheme, authority, path, query and fragment. The
// authority is written only when a host is present. Leading "//" in the
// path is collapsed so the output cannot re-parse as an authority.
func serialize(c urlgrammar.Components) string {
	var b strings.Builder

	b.WriteString(withSuffix(c.Scheme, ":"))

	hasAuthority := c.Host != ""
	if hasAuthority {
		b.WriteString("//")
		if c.Username != "" || c.Password != "" {
			b.WriteString(c.Username)
			if c.Password != "" {
				b.WriteByte(':')
				b.WriteString(c.Password)
			}
			b.WriteByte('@')
		}
		b.WriteString(c.Host)
		if c.Port != "" {
			b.WriteByte(':')
			b.WriteString(c.Port)
		}
	}

	path := c.Path
	for strings.HasPrefix(path, "//") {
		path = path[1:]
	}
	// Opaque paths such as "mailto:user@example.com" keep their form.
	if hasAuthority || path == "" {
		path = withPrefix(path, "/")
		if path == "" {
			path = "/"
		}
	}
	b.WriteString(path)

	b.WriteString(withPrefix(c.Query, "?"))
	b.WriteString(withPrefix(c.Fragment, "#"))
	return b.String()
}
