package querycache

import (
	"sort"
	"strings"
)

// Key builds a deterministic cache key from an operation name and a
// parameter map. Parameter names are sorted before serialization, so two
// logically identical requests collide on the same slot regardless of the
// order the caller assembled the map in.
func Key(op string, params map[string]string) string {
	if len(params) == 0 {
		return op
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(op)
	for _, name := range names {
		b.WriteByte(':')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}
	return b.String()
}
