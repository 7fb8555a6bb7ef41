package refiner

import (
	"encoding/hex"
	"net/url"
	"slices"
	"strings"
)

// Params is an ordered multimap of query parameters. Names keep the order in
// which they first appeared; values keep their input order per name.
type Params struct {
	names  []string
	values map[string][]string
}

// NewParams returns an empty Params sized for n names.
func NewParams(n int) Params {
	return Params{
		names:  make([]string, 0, n),
		values: make(map[string][]string, n),
	}
}

// Add appends value to name, registering name on first use.
func (p *Params) Add(name, value string) {
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = append(p.values[name], value)
}

// set replaces the values of name, registering name on first use.
func (p *Params) set(name string, values []string) {
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = values
}

// Names returns the parameter names in first-appearance order.
func (p Params) Names() []string {
	return slices.Clone(p.names)
}

// Get returns a copy of the values recorded for name.
func (p Params) Get(name string) []string {
	return slices.Clone(p.values[name])
}

// Len returns the number of distinct names.
func (p Params) Len() int {
	return len(p.names)
}

// Encode serializes the parameters as name=value pairs joined by "&", in
// insertion order. Names with several values are repeated. Escaping follows
// query component rules: space becomes "+", reserved characters are
// percent-encoded.
func (p Params) Encode() string {
	var b strings.Builder
	for _, name := range p.names {
		key := url.QueryEscape(name)
		for _, v := range p.values[name] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// ParseQuery decodes a raw query string. Empty fields are skipped, a field
// without "=" yields an empty value, and blank values are kept. Decoding is
// lenient: malformed percent escapes are kept as literal text.
func ParseQuery(rawQuery string) Params {
	params := NewParams(strings.Count(rawQuery, "&") + 1)
	for field := range strings.SplitSeq(rawQuery, "&") {
		if field == "" {
			continue
		}
		name, value, _ := strings.Cut(field, "=")
		params.Add(unescapeComponent(name), unescapeComponent(value))
	}
	return params
}

func unescapeComponent(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if decoded, err := hex.DecodeString(s[i+1 : i+3]); err == nil {
				b.Write(decoded)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
