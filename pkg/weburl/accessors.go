package weburl

import (
	"strings"

	"github.com/vango-dev/urlkit/pkg/searchparams"
)

// Href returns the serialized URL.
func (u *URL) Href() string { return u.href }

// Origin returns scheme + "//" + host, or "null" when either is absent.
func (u *URL) Origin() string {
	if u.protocol == "" || u.hostname == "" {
		return "null"
	}
	return withSuffix(u.protocol, ":") + "//" + u.Host()
}

// Protocol returns the scheme including its trailing ":".
func (u *URL) Protocol() string { return u.protocol }

func (u *URL) Username() string { return u.username }
func (u *URL) Password() string { return u.password }

// Host returns hostname, plus ":" and the port when one is set.
func (u *URL) Host() string {
	if u.port == "" {
		return u.hostname
	}
	return u.hostname + ":" + u.port
}

func (u *URL) Hostname() string { return u.hostname }
func (u *URL) Port() string     { return u.port }
func (u *URL) Pathname() string { return u.pathname }

// Search returns the query including its leading "?", or "".
func (u *URL) Search() string { return u.search }

// SearchParams returns the container backing Search. Mutations through it
// update Search and Href.
func (u *URL) SearchParams() *searchparams.Params {
	u.ensureParams()
	return u.params
}

// Hash returns the fragment including its leading "#", or "".
func (u *URL) Hash() string { return u.hash }

// SetHref replaces every field with those of value, parsed against the
// current origin. On error u is left unchanged.
func (u *URL) SetHref(value string) error {
	var (
		next *URL
		err  error
	)
	if origin := u.Origin(); origin != "null" {
		next, err = NewWithBase(value, origin)
	} else {
		next, err = New(value)
	}
	if err != nil {
		return err
	}

	u.protocol = next.protocol
	u.username = next.username
	u.password = next.password
	u.hostname = next.hostname
	u.port = next.port
	u.pathname = next.pathname
	u.search = next.search
	u.hash = next.hash

	u.bindParams()
	u.reserialize()
	return nil
}

// SetProtocol sets the scheme, appending ":" if missing.
func (u *URL) SetProtocol(value string) {
	u.protocol = withSuffix(value, ":")
	u.reserialize()
}

func (u *URL) SetUsername(value string) {
	u.username = value
	u.reserialize()
}

func (u *URL) SetPassword(value string) {
	u.password = value
	u.reserialize()
}

// SetHost splits value at the first ":" into hostname and port. Without a
// colon the port is cleared.
func (u *URL) SetHost(value string) {
	hostname, port, _ := strings.Cut(value, ":")
	u.hostname = hostname
	u.port = port
	u.reserialize()
}

func (u *URL) SetHostname(value string) {
	u.hostname = value
	u.reserialize()
}

func (u *URL) SetPort(value string) {
	u.port = value
	u.reserialize()
}

// SetPathname sets the path, prepending "/" if missing.
func (u *URL) SetPathname(value string) {
	u.pathname = withPrefix(value, "/")
	if u.pathname == "" {
		u.pathname = "/"
	}
	u.reserialize()
}

// SetSearch re-parses value into SearchParams. Search then holds the
// container's serialization, with a leading "?" when non-empty.
func (u *URL) SetSearch(value string) {
	u.search = withPrefix(value, "?")
	u.ensureParams()
	u.params.Replace(u.search)
	u.reserialize()
}

// SetHash sets the fragment, prepending "#" if missing.
func (u *URL) SetHash(value string) {
	u.hash = withPrefix(value, "#")
	u.reserialize()
}

func withSuffix(s, suffix string) string {
	if s == "" || strings.HasSuffix(s, suffix) {
		return s
	}
	return s + suffix
}
