// Package urlgrammar splits URL strings into their components.
//
// Three mutually exclusive grammars are tried in order:
//
//	absolute           scheme ":" [ "//" authority ] path [ "?" query ] [ "#" fragment ]
//	protocol-relative  "//" authority path [ "?" query ] [ "#" fragment ]
//	relative           path [ "?" query ] [ "#" fragment ]
//
// where authority is [ user [ ":" pass ] "@" ] host [ ":" digits ].
// Components are kept verbatim: no case folding, no percent-encoding, and
// Query and Fragment keep their "?" and "#" delimiters.
package urlgrammar

import (
	"strings"

	kerrors "github.com/vango-dev/urlkit/internal/errors"
)

// Kind identifies which grammar matched an input.
type Kind int

const (
	KindInvalid Kind = iota
	KindAbsolute
	KindProtocolRelative
	KindRelative
)

// String returns the grammar name.
func (k Kind) String() string {
	switch k {
	case KindAbsolute:
		return "absolute"
	case KindProtocolRelative:
		return "protocol-relative"
	case KindRelative:
		return "relative"
	default:
		return "invalid"
	}
}

// Components is the decomposed form of a URL or URL reference.
// Absent pieces are empty strings.
type Components struct {
	Scheme   string `json:"scheme"` // includes the trailing ":"
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Path     string `json:"path"`
	Query    string `json:"query"`    // includes the leading "?"
	Fragment string `json:"fragment"` // includes the leading "#"
}

// Result is a parsed input tagged with the grammar that produced it.
type Result struct {
	Kind Kind
	Components
}

// Parse splits input into components. It fails with an InvalidURL error
// when the input matches none of the three grammars.
func Parse(input string) (Result, error) {
	s := &scanner{input: input}

	if scheme, ok := scanScheme(input); ok {
		s.pos = len(scheme)
		c := Components{Scheme: scheme}
		if strings.HasPrefix(input[s.pos:], "//") {
			s.pos += 2
			if !s.authority(&c) {
				return Result{}, invalid(input, "malformed authority")
			}
			s.tails(&c)
			if c.Path == "" {
				c.Path = "/"
			}
		} else {
			s.tails(&c)
		}
		return Result{Kind: KindAbsolute, Components: c}, nil
	}

	if strings.HasPrefix(input, "//") {
		s.pos = 2
		var c Components
		if !s.authority(&c) {
			return Result{}, invalid(input, "malformed authority")
		}
		s.tails(&c)
		if c.Path == "" {
			c.Path = "/"
		}
		return Result{Kind: KindProtocolRelative, Components: c}, nil
	}

	var c Components
	s.tails(&c)
	return Result{Kind: KindRelative, Components: c}, nil
}

func invalid(input, detail string) error {
	return kerrors.New(kerrors.CodeInvalidURL).WithInput(input).WithDetail(detail)
}

// scanScheme returns the leading [a-zA-Z][a-zA-Z0-9+.-]*":" token.
func scanScheme(input string) (string, bool) {
	if input == "" || !isAlpha(input[0]) {
		return "", false
	}
	for i := 1; i < len(input); i++ {
		c := input[i]
		switch {
		case c == ':':
			return input[:i+1], true
		case isAlpha(c) || isDigit(c) || c == '+' || c == '.' || c == '-':
		default:
			return "", false
		}
	}
	return "", false
}

// scanner walks the input once, left to right.
type scanner struct {
	input string
	pos   int
}

// upTo advances to the first byte in stops and returns what was skipped.
func (s *scanner) upTo(stops string) string {
	rest := s.input[s.pos:]
	n := strings.IndexAny(rest, stops)
	if n < 0 {
		n = len(rest)
	}
	s.pos += n
	return rest[:n]
}

// authority consumes [user[:pass]@]host[:port] up to the first "/", "?"
// or "#". It reports false when a ":" is followed by an empty or
// non-numeric port.
func (s *scanner) authority(c *Components) bool {
	auth := s.upTo("/?#")

	// The last "@" ends the userinfo, so "a@b@c" is user "a@b" on host "c".
	if at := strings.LastIndexByte(auth, '@'); at >= 0 {
		userinfo := auth[:at]
		auth = auth[at+1:]
		c.Username, c.Password, _ = strings.Cut(userinfo, ":")
	}

	hostEnd := strings.IndexByte(auth, ':')
	if strings.HasPrefix(auth, "[") {
		// Bracketed IPv6 literal; keep the colons inside it.
		if end := strings.IndexByte(auth, ']'); end >= 0 {
			hostEnd = strings.IndexByte(auth[end:], ':')
			if hostEnd >= 0 {
				hostEnd += end
			}
		}
	}
	if hostEnd < 0 {
		c.Host = auth
		return true
	}

	c.Host = auth[:hostEnd]
	c.Port = auth[hostEnd+1:]
	if c.Port == "" {
		return false
	}
	for i := 0; i < len(c.Port); i++ {
		if !isDigit(c.Port[i]) {
			return false
		}
	}
	return true
}

// tails consumes path, then "?query", then "#fragment".
func (s *scanner) tails(c *Components) {
	c.Path = s.upTo("?#")
	if s.pos < len(s.input) && s.input[s.pos] == '?' {
		c.Query = s.upTo("#")
	}
	if s.pos < len(s.input) {
		c.Fragment = s.input[s.pos:]
		s.pos = len(s.input)
	}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
