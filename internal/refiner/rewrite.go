package refiner

import (
	"fmt"
	"slices"
	"strings"
)

// DedupKey derives the structural key used for deduplication: the authority,
// the path unless ignorePath is set, and the sorted distinct parameter names
// joined by "&". Parameter values and the ";params" segment of the last path
// segment never take part in the key.
func DedupKey(p *ParsedURL, ignorePath bool) string {
	names := p.Params.Names()
	slices.Sort(names)
	joined := strings.Join(names, "&")

	if ignorePath {
		return p.Authority + "?" + joined
	}
	return p.Authority + p.keyPath() + "?" + joined
}

// Rewrite applies mode to every parameter whose name is not in excluded.
// Replace collapses a parameter to the single value; append suffixes each
// existing value. Excluded parameters are copied unchanged. The name order
// of params is preserved.
func Rewrite(params Params, mode Mode, value string, excluded map[string]struct{}) (Params, error) {
	out := NewParams(params.Len())

	for _, name := range params.names {
		values := params.values[name]

		if _, skip := excluded[name]; skip {
			out.set(name, slices.Clone(values))
			continue
		}

		switch mode {
		case ModeReplace:
			out.set(name, []string{value})
		case ModeAppend:
			appended := make([]string, len(values))
			for i, v := range values {
				appended[i] = v + value
			}
			out.set(name, appended)
		default:
			return Params{}, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
		}
	}

	return out, nil
}
