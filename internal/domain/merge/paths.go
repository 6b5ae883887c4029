package merge

import (
	"sort"
	"strings"
)

// Restrict keeps only the parts of delta that fall under one of the allowed
// dotted paths ("property", "parties.buyers"). It returns the kept delta and
// the sorted paths that were dropped.
func Restrict(delta map[string]any, allowed []string) (map[string]any, []string) {
	var dropped []string
	kept := restrict(delta, "", allowed, &dropped)
	sort.Strings(dropped)
	return kept, dropped
}

func restrict(node map[string]any, prefix string, allowed []string, dropped *[]string) map[string]any {
	out := make(map[string]any)
	for k, v := range node {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		switch {
		case covered(path, allowed):
			out[k] = clone(v)
		case hasDescendant(path, allowed):
			child, ok := v.(map[string]any)
			if !ok {
				*dropped = append(*dropped, path)
				continue
			}
			if sub := restrict(child, path, allowed, dropped); len(sub) > 0 {
				out[k] = sub
			}
		default:
			*dropped = append(*dropped, path)
		}
	}
	return out
}

func covered(path string, allowed []string) bool {
	for _, a := range allowed {
		if path == a || strings.HasPrefix(path, a+".") {
			return true
		}
	}
	return false
}

func hasDescendant(path string, allowed []string) bool {
	for _, a := range allowed {
		if strings.HasPrefix(a, path+".") {
			return true
		}
	}
	return false
}
