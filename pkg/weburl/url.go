package weburl

import (
	"strings"

	kerrors "github.com/vango-dev/urlkit/internal/errors"
	"github.com/vango-dev/urlkit/pkg/resolve"
	"github.com/vango-dev/urlkit/pkg/searchparams"
	"github.com/vango-dev/urlkit/pkg/urlgrammar"
)

// ErrInvalidURL matches, via errors.Is, every construction failure.
var ErrInvalidURL = kerrors.New(kerrors.CodeInvalidURL)

// URL is a parsed, mutable URL.
type URL struct {
	protocol string
	username string
	password string
	hostname string
	port     string
	pathname string
	search   string
	hash     string

	params *searchparams.Params
	href   string
}

// New parses an absolute URL.
func New(input string) (*URL, error) {
	return build(input, nil)
}

// NewWithBase parses input, resolving it against base when it is a
// relative or protocol-relative reference. base must itself be absolute.
func NewWithBase(input, base string) (*URL, error) {
	b, err := urlgrammar.Parse(base)
	if err != nil {
		return nil, err
	}
	if b.Scheme == "" {
		return nil, kerrors.New(kerrors.CodeInvalidURL).
			WithInput(base).
			WithDetail("base URL has no scheme")
	}
	return build(input, &b.Components)
}

// NewWithBaseURL is like NewWithBase but reads the base from an existing
// URL's current fields.
func NewWithBaseURL(input string, base *URL) (*URL, error) {
	if base == nil {
		return New(input)
	}
	c := base.Components()
	return build(input, &c)
}

// CanParse reports whether NewWithBase (or New, when base is omitted)
// would succeed. Only the first base is used.
func CanParse(input string, base ...string) bool {
	return Parse(input, base...) != nil
}

// Parse is like NewWithBase (or New, when base is omitted) but returns
// nil instead of an error.
func Parse(input string, base ...string) *URL {
	var (
		u   *URL
		err error
	)
	if len(base) > 0 {
		u, err = NewWithBase(input, base[0])
	} else {
		u, err = New(input)
	}
	if err != nil {
		return nil
	}
	return u
}

// MustParse is like New but panics on error.
func MustParse(input string) *URL {
	u, err := New(input)
	if err != nil {
		panic(err)
	}
	return u
}

// build runs the construction steps shared by every constructor.
func build(input string, base *urlgrammar.Components) (*URL, error) {
	r, err := urlgrammar.Parse(input)
	if err != nil {
		return nil, err
	}
	c := r.Components

	if c.Scheme == "" {
		if base == nil {
			return nil, kerrors.New(kerrors.CodeInvalidURL).
				WithInput(input).
				WithDetail("relative reference without a base")
		}
		if c.Host == "" {
			c = resolve.Resolve(*base, c)
		} else {
			// Protocol-relative: only the scheme comes from the base.
			c.Scheme = base.Scheme
		}
	}

	u := &URL{}
	u.assign(c)
	return u, nil
}

// assign stores c and reloads the search params container from it.
func (u *URL) assign(c urlgrammar.Components) {
	u.protocol = c.Scheme
	u.username = c.Username
	u.password = c.Password
	u.hostname = c.Host
	u.port = c.Port
	u.pathname = c.Path
	if u.pathname == "" {
		u.pathname = "/"
	}
	u.search = withPrefix(c.Query, "?")
	u.hash = withPrefix(c.Fragment, "#")

	u.bindParams()
	u.reserialize()
}

// ensureParams creates the container on first use, so a zero URL is
// usable.
func (u *URL) ensureParams() {
	if u.params == nil {
		u.params = searchparams.MustNew("")
		u.params.OnUpdate(u.syncSearch)
	}
}

// bindParams reloads the owned container from u.search without letting
// it rewrite search. The container is reused so that callers holding it
// stay linked to u.
func (u *URL) bindParams() {
	u.ensureParams()
	u.params.OnUpdate(nil)
	u.params.Replace(u.search)
	u.params.OnUpdate(u.syncSearch)
}

// syncSearch is the SearchParams update subscriber.
func (u *URL) syncSearch(query string) {
	u.search = withPrefix(query, "?")
	u.reserialize()
}

// Components returns the URL's current fields as a component record.
func (u *URL) Components() urlgrammar.Components {
	return urlgrammar.Components{
		Scheme:   u.protocol,
		Username: u.username,
		Password: u.password,
		Host:     u.hostname,
		Port:     u.port,
		Path:     u.pathname,
		Query:    u.search,
		Fragment: u.hash,
	}
}

// withPrefix prepends prefix to a non-empty s that lacks it.
func withPrefix(s, prefix string) string {
	if s == "" || strings.HasPrefix(s, prefix) {
		return s
	}
	return prefix + s
}
