package refiner

import (
	"fmt"
	"net/netip"
	"strings"
)

// ParsedURL is a validated URL split into the parts the refiner works on.
// Every part except the scheme keeps the exact bytes of the input, so
// re-serialization only ever changes the query string.
type ParsedURL struct {
	Scheme    string // lower-cased
	Authority string // userinfo@host[:port], as written
	Path      string // including any ";params" segment
	RawQuery  string
	Fragment  string
	Params    Params
}

// schemesWithPathParams carry a ";params" segment on the last path segment.
var schemesWithPathParams = map[string]struct{}{
	"ftp": {}, "hdl": {}, "prospero": {}, "http": {}, "imap": {}, "https": {},
	"shttp": {}, "rtsp": {}, "rtspu": {}, "sip": {}, "sips": {}, "mms": {},
	"sftp": {}, "tel": {},
}

// IsValidURL reports whether raw splits into a non-empty scheme and a
// non-empty authority. Strings without "://" (including "mailto:" style URLs)
// and the empty string are invalid. Escapes in the path, query or fragment are
// never checked.
func IsValidURL(raw string) bool {
	_, ok := splitURL(raw)
	return ok
}

// ParseURL splits raw and decodes its query string, keeping blank values.
func ParseURL(raw string) (*ParsedURL, error) {
	p, ok := splitURL(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	p.Params = ParseQuery(p.RawQuery)
	return p, nil
}

// WithParams re-serializes the URL with params as its query string. Authority,
// path and fragment are copied verbatim; "?" is dropped when params is empty
// and "#" when the fragment is empty.
func (p *ParsedURL) WithParams(params Params) string {
	query := params.Encode()

	var b strings.Builder
	b.Grow(len(p.Scheme) + 3 + len(p.Authority) + len(p.Path) + len(query) + len(p.Fragment) + 2)
	b.WriteString(p.Scheme)
	b.WriteString("://")
	b.WriteString(p.Authority)
	b.WriteString(p.Path)
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	if p.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(p.Fragment)
	}
	return b.String()
}

// keyPath is the path without the ";params" part of its last segment.
func (p *ParsedURL) keyPath() string {
	if _, ok := schemesWithPathParams[p.Scheme]; !ok {
		return p.Path
	}
	start := strings.LastIndexByte(p.Path, '/') + 1
	if i := strings.IndexByte(p.Path[start:], ';'); i >= 0 {
		return p.Path[:start+i]
	}
	return p.Path
}

func splitURL(raw string) (*ParsedURL, bool) {
	scheme, rest, ok := cutScheme(raw)
	if !ok || !strings.HasPrefix(rest, "//") {
		return nil, false
	}
	rest = rest[2:]

	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}
	authority := rest[:end]
	if authority == "" || !validBrackets(authority) {
		return nil, false
	}

	p := &ParsedURL{Scheme: scheme, Authority: authority}
	rest, p.Fragment, _ = strings.Cut(rest[end:], "#")
	p.Path, p.RawQuery, _ = strings.Cut(rest, "?")
	return p, true
}

// cutScheme splits "scheme:" off raw. A scheme starts with an ASCII letter
// followed by letters, digits, "+", "-" or ".".
func cutScheme(raw string) (scheme, rest string, ok bool) {
	i := strings.IndexByte(raw, ':')
	if i <= 0 || !isASCIILetter(raw[0]) {
		return "", raw, false
	}
	for j := 1; j < i; j++ {
		c := raw[j]
		if !isASCIILetter(c) && (c < '0' || c > '9') && c != '+' && c != '-' && c != '.' {
			return "", raw, false
		}
	}
	return strings.ToLower(raw[:i]), raw[i+1:], true
}

// validBrackets rejects an unbalanced "[" or "]" and a bracketed host that is
// neither an IPv6 address nor an "vHEX.text" IP literal.
func validBrackets(authority string) bool {
	open := strings.Contains(authority, "[")
	if open != strings.Contains(authority, "]") {
		return false
	}
	if !open {
		return true
	}

	_, host, _ := strings.Cut(authority, "[")
	host, _, _ = strings.Cut(host, "]")
	if strings.HasPrefix(host, "v") {
		version, text, found := strings.Cut(host[1:], ".")
		return found && version != "" && text != "" && isHex(version)
	}
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Is6()
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') && !('A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
